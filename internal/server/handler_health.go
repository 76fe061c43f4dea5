package server

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/me/loginhub/pkg/model"
)

// Version is the console version reported by /healthz.
const Version = "0.1.0"

type healthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
	Store     string `json:"store"`
	TabStore  string `json:"tab_store"`
	Backend   string `json:"backend"`
	MasterKey bool   `json:"master_login_enabled"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{
		Status:    "healthy",
		Version:   Version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Store:     "ok",
		TabStore:  "sqlite",
		Backend:   s.config.APIURL,
		MasterKey: s.config.MasterKey != "",
	}

	if err := s.store.Ping(ctx); err != nil {
		s.logger.Error("health: store ping failed", "error", err)
		resp.Status = "unhealthy"
		resp.Store = "error"
	}
	if s.redis != nil {
		resp.TabStore = "redis"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			s.logger.Error("health: redis ping failed", "error", err)
			resp.Status = "unhealthy"
			resp.TabStore = "redis: error"
		}
	}

	if resp.Status != "healthy" {
		writeJSON(w, http.StatusServiceUnavailable, envelope(reqID, resp, &model.APIError{
			Code:    model.ErrInternal,
			Message: "a storage dependency is unavailable",
		}))
		return
	}
	writeJSON(w, http.StatusOK, envelope(reqID, resp, nil))
}
