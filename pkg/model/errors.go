package model

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a structured error code.
type ErrorCode string

const (
	ErrValidation   ErrorCode = "VALIDATION_ERROR"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
)

// APIError is a structured error body. The backend answers with
// {error, message, statusCode}; local validation fills Code and Details.
type APIError struct {
	Code       ErrorCode    `json:"code,omitempty"`
	Reason     string       `json:"error,omitempty"`
	Message    string       `json:"message,omitempty"`
	StatusCode int          `json:"statusCode,omitempty"`
	Details    []FieldError `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Text())
	}
	return e.Text()
}

// Text returns the most descriptive message carried by the body.
func (e *APIError) Text() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Reason != "":
		return e.Reason
	default:
		return "unknown error"
	}
}

// FieldError describes a validation error on a specific field.
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// NewValidationError creates an APIError with validation details.
func NewValidationError(msg string, details ...FieldError) *APIError {
	return &APIError{Code: ErrValidation, Message: msg, Details: details}
}

// NewNotFoundError creates a NOT_FOUND APIError.
func NewNotFoundError(resource, id string) *APIError {
	return &APIError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s '%s' not found", resource, id),
	}
}

// ErrorKind classifies a failure for presentation.
type ErrorKind string

const (
	KindInvalidCredentials ErrorKind = "invalid_credentials"
	KindReservedIdentifier ErrorKind = "reserved_identifier"
	KindUnreachable        ErrorKind = "unreachable"
	KindServer             ErrorKind = "server"
	KindMalformed          ErrorKind = "malformed"
	KindSessionExpired     ErrorKind = "session_expired"
	KindForbidden          ErrorKind = "forbidden"
	KindNotFound           ErrorKind = "not_found"
	KindValidation         ErrorKind = "validation"
	KindUnknown            ErrorKind = "unknown"
)

// Error is a classified failure of an authentication or backend operation.
type Error struct {
	Kind   ErrorKind
	Op     string // e.g. "POST /auth/login"
	Status int    // HTTP status, 0 when no response was received
	Body   *APIError
	Err    error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Body != nil {
		msg += ": " + e.Body.Text()
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of a classified error, KindUnknown otherwise.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Code == ErrValidation {
		return KindValidation
	}
	return KindUnknown
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

// KindForStatus maps a non-2xx HTTP status to an error kind. A 401 means
// invalid credentials on the login call and an expired session elsewhere.
func KindForStatus(status int, loginCall bool) ErrorKind {
	switch {
	case status == http.StatusUnauthorized && loginCall:
		return KindInvalidCredentials
	case status == http.StatusUnauthorized:
		return KindSessionExpired
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusBadRequest, status == http.StatusConflict, status == http.StatusUnprocessableEntity:
		return KindValidation
	case status >= 500:
		return KindServer
	default:
		return KindUnknown
	}
}
