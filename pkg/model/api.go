package model

import "time"

// Response is the JSON envelope used by the console's own endpoints.
type Response struct {
	Status    string    `json:"status"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Error     *APIError `json:"error"`
}

// LoginRequest is the credential pair forwarded to the backend.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is a verified tenant login: bearer token plus identity.
type LoginResult struct {
	Token   string
	User    Identity
	Company *CompanySummary
}
