// Package api is the console's client for the LoginHub REST backend. It
// decorates outgoing requests with the credentials of the current session and
// clears the session when the backend reports it as no longer authorized.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/me/loginhub/internal/metrics"
	"github.com/me/loginhub/pkg/model"
)

const (
	// MasterKeyHeader carries the shared secret on administrative paths.
	MasterKeyHeader = "x-master-key"

	loginPath  = "/auth/login"
	logoutPath = "/auth/logout"
	adminPath  = "/admin"
)

// Sessions is the part of the session store the client needs.
type Sessions interface {
	Read(ctx context.Context) (model.Session, error)
	Clear(ctx context.Context) error
}

// Client is an HTTP client for the LoginHub backend.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *slog.Logger

	masterKey string
	sessions  Sessions
	metrics   *metrics.Metrics
}

// Option configures optional Client dependencies.
type Option func(*Client)

// WithMasterKey sets the shared secret sent on administrative paths.
func WithMasterKey(key string) Option {
	return func(c *Client) {
		c.masterKey = key
	}
}

// WithSessions sets the session store used for request decoration and
// invalidation. Without it requests are sent anonymously.
func WithSessions(s Sessions) Option {
	return func(c *Client) {
		c.sessions = s
	}
}

// WithTimeout bounds every request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.HTTPClient = &http.Client{Timeout: d}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.HTTPClient = hc
	}
}

// WithMetrics records backend calls.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a backend client.
func NewClient(baseURL string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{},
		Logger:     logger.With("component", "api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do performs a request and returns the raw response body of a 2xx answer.
// Every other outcome is a *model.Error.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	op := method + " " + path
	url := c.BaseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if err := c.decorate(ctx, req, path); err != nil {
		return nil, err
	}

	c.Logger.Debug("HTTP request", "method", method, "url", url)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.metrics.BackendRequest(method, 0)
		return nil, &model.Error{Kind: model.KindUnreachable, Op: op, Err: err}
	}
	defer resp.Body.Close()
	c.metrics.BackendRequest(method, resp.StatusCode)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &model.Error{Kind: model.KindUnreachable, Op: op, Status: resp.StatusCode, Err: err}
	}

	c.Logger.Debug("HTTP response", "method", method, "path", path, "status", resp.StatusCode)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return respBody, nil
	}

	apiErr := decodeErrorBody(respBody)
	loginCall := path == loginPath
	if resp.StatusCode == http.StatusUnauthorized && !loginCall {
		c.invalidate(ctx, op)
	}
	return nil, &model.Error{
		Kind:   model.KindForStatus(resp.StatusCode, loginCall),
		Op:     op,
		Status: resp.StatusCode,
		Body:   apiErr,
	}
}

// decorate attaches the bearer token of a tenant session, or the master key on
// administrative paths when no tenant token is present.
func (c *Client) decorate(ctx context.Context, req *http.Request, path string) error {
	var sess model.Session
	if c.sessions != nil {
		var err error
		sess, err = c.sessions.Read(ctx)
		if err != nil {
			return fmt.Errorf("read session: %w", err)
		}
	}

	if sess.IsTenant() && sess.Token != "" {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
		return nil
	}
	if c.masterKey != "" && isAdminPath(path) {
		req.Header.Set(MasterKeyHeader, c.masterKey)
	}
	return nil
}

// invalidate clears the session after the backend rejected its credentials.
func (c *Client) invalidate(ctx context.Context, op string) {
	if c.sessions == nil {
		return
	}
	if err := c.sessions.Clear(ctx); err != nil {
		c.Logger.Error("clear session after 401 failed", "op", op, "error", err)
		return
	}
	c.metrics.SessionExpired()
	c.Logger.Info("session cleared after backend 401", "op", op)
}

func isAdminPath(path string) bool {
	return path == adminPath || strings.HasPrefix(path, adminPath+"/")
}

func decodeErrorBody(body []byte) *model.APIError {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	var apiErr model.APIError
	if err := json.Unmarshal(body, &apiErr); err != nil {
		return &model.APIError{Message: strings.TrimSpace(string(body))}
	}
	if apiErr.Message == "" && apiErr.Reason == "" {
		return nil
	}
	return &apiErr
}

// decodeJSON decodes a 2xx body, classifying undecodable payloads as malformed.
func decodeJSON[T any](op string, body []byte) (T, error) {
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return v, &model.Error{Kind: model.KindMalformed, Op: op, Err: err}
	}
	return v, nil
}
