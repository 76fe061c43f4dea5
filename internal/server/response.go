package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/me/loginhub/pkg/model"
)

// requestID generates a short request identifier.
func requestID() string {
	return "req_" + uuid.New().String()[:8]
}

// envelope wraps data in the console's JSON response shape. A non-nil apiErr
// marks the envelope as failed but keeps data, so health checks still see details.
func envelope(reqID string, data any, apiErr *model.APIError) model.Response {
	status := "ok"
	if apiErr != nil {
		status = "error"
	}
	return model.Response{
		Status:    status,
		RequestID: reqID,
		Timestamp: time.Now().UTC(),
		Data:      data,
		Error:     apiErr,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
