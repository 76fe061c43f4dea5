package model

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAPIError_Error(t *testing.T) {
	err := &APIError{Code: ErrNotFound, Message: "Company 'c_123' not found"}
	want := "NOT_FOUND: Company 'c_123' not found"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestAPIError_TextFallsBackToReason(t *testing.T) {
	err := &APIError{Reason: "Credenciais inválidas", StatusCode: 401}
	if got := err.Text(); got != "Credenciais inválidas" {
		t.Errorf("Text() = %q, want reason", got)
	}
	if got := (&APIError{}).Text(); got != "unknown error" {
		t.Errorf("Text() on empty body = %q", got)
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("invalid user",
		FieldError{Field: "nome", Message: "required"},
		FieldError{Field: "email", Message: "required"},
	)
	if err.Code != ErrValidation {
		t.Errorf("Code = %q, want %q", err.Code, ErrValidation)
	}
	if len(err.Details) != 2 {
		t.Errorf("Details length = %d, want 2", len(err.Details))
	}
	if KindOf(err) != KindValidation {
		t.Errorf("KindOf(validation) = %q", KindOf(err))
	}
}

func TestError_UnwrapAndKind(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("login: %w", &Error{Kind: KindUnreachable, Op: "POST /auth/login", Err: cause})

	if !errors.Is(err, cause) {
		t.Error("expected wrapped cause to be reachable")
	}
	if !IsKind(err, KindUnreachable) {
		t.Errorf("KindOf = %q, want unreachable", KindOf(err))
	}
	if IsKind(nil, KindUnreachable) {
		t.Error("nil error must not match any kind")
	}
	if KindOf(errors.New("plain")) != KindUnknown {
		t.Error("plain errors should be unknown")
	}
}

func TestError_Message(t *testing.T) {
	err := &Error{Kind: KindServer, Op: "GET /users", Status: 502, Body: &APIError{Message: "bad gateway"}}
	want := "GET /users: server (status 502): bad gateway"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestKindForStatus(t *testing.T) {
	tests := []struct {
		status int
		login  bool
		want   ErrorKind
	}{
		{http.StatusUnauthorized, true, KindInvalidCredentials},
		{http.StatusUnauthorized, false, KindSessionExpired},
		{http.StatusForbidden, true, KindForbidden},
		{http.StatusNotFound, false, KindNotFound},
		{http.StatusBadRequest, false, KindValidation},
		{http.StatusConflict, false, KindValidation},
		{http.StatusInternalServerError, true, KindServer},
		{http.StatusServiceUnavailable, false, KindServer},
		{http.StatusTeapot, false, KindUnknown},
	}
	for _, tt := range tests {
		if got := KindForStatus(tt.status, tt.login); got != tt.want {
			t.Errorf("KindForStatus(%d, %v) = %q, want %q", tt.status, tt.login, got, tt.want)
		}
	}
}
