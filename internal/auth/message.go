package auth

import (
	"errors"

	"github.com/me/loginhub/pkg/model"
)

// UserMessage renders err as text suitable for the login form and CLI output.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	switch model.KindOf(err) {
	case model.KindInvalidCredentials, model.KindForbidden:
		return "Invalid email or password."
	case model.KindReservedIdentifier:
		return "This account cannot sign in with a password. Use the master key."
	case model.KindUnreachable:
		return "Cannot reach the server. Check your connection and try again."
	case model.KindServer:
		return "The server failed to process the request. Try again later."
	case model.KindMalformed:
		return "The server sent an unexpected response."
	case model.KindSessionExpired:
		return "Your session has expired. Sign in again."
	case model.KindNotFound:
		return "The requested record no longer exists."
	case model.KindValidation:
		if text := bodyText(err); text != "" {
			return text
		}
		return "Some fields are invalid."
	default:
		if text := bodyText(err); text != "" {
			return text
		}
		return "Sign-in failed. Try again."
	}
}

func bodyText(err error) string {
	var e *model.Error
	if errors.As(err, &e) && e.Body != nil {
		return e.Body.Text()
	}
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Text()
	}
	return ""
}
