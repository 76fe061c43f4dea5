package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/me/loginhub/pkg/model"
)

// errMalformedLogin describes a login payload that decoded but is unusable.
var errMalformedLogin = errors.New("login response lacks a token or a valid tenant identity")

// loginPayload accepts both the backend's field names (usuario, empresa) and
// the English ones (user, company).
type loginPayload struct {
	Token   string                `json:"token"`
	Usuario *model.Identity       `json:"usuario"`
	User    *model.Identity       `json:"user"`
	Empresa *model.CompanySummary `json:"empresa"`
	Company *model.CompanySummary `json:"company"`
}

// VerifyCredentials forwards a credential pair to the backend. A 2xx answer
// is accepted only if it carries a token and a tenant identity that satisfies
// the tenant invariants; anything else is a malformed error.
func (c *Client) VerifyCredentials(ctx context.Context, identifier, secret string) (model.LoginResult, error) {
	body, err := c.do(ctx, http.MethodPost, loginPath, model.LoginRequest{Email: identifier, Password: secret})
	if err != nil {
		return model.LoginResult{}, err
	}
	return decodeLoginResult(body)
}

func decodeLoginResult(body []byte) (model.LoginResult, error) {
	op := http.MethodPost + " " + loginPath

	var p loginPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return model.LoginResult{}, &model.Error{Kind: model.KindMalformed, Op: op, Err: err}
	}

	user := p.Usuario
	if user == nil {
		user = p.User
	}
	company := p.Empresa
	if company == nil {
		company = p.Company
	}
	if p.Token == "" || user == nil || !user.Valid() {
		return model.LoginResult{}, &model.Error{Kind: model.KindMalformed, Op: op, Err: errMalformedLogin}
	}
	if company != nil && company.ID == "" {
		company = nil
	}

	return model.LoginResult{Token: p.Token, User: *user, Company: company}, nil
}

// Logout notifies the backend that the tenant session ends. Callers treat
// failures as informational; the local session is cleared regardless.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, logoutPath, nil)
	return err
}

// TokenExpiry reads the exp claim of a JWT bearer token without verifying its
// signature. It is meant for display; the backend remains the authority.
func TokenExpiry(token string) (time.Time, bool) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
