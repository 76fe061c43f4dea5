package ui

import (
	"bytes"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/me/loginhub/internal/auth"
	"github.com/me/loginhub/internal/guard"
	"github.com/me/loginhub/internal/metrics"
	"github.com/me/loginhub/pkg/model"
)

// UI handles the web console.
type UI struct {
	scopes  *SessionScopes
	cfg     Config
	logger  *slog.Logger
	metrics *metrics.Metrics
	guard   *guard.Guard
}

// Config holds UI configuration.
type Config struct {
	APIURL              string
	MasterKey           string
	ReservedIdentifiers []string
	RequestTimeout      time.Duration
}

// New creates a new UI handler. m may be nil.
func New(scopes *SessionScopes, cfg Config, logger *slog.Logger, m *metrics.Metrics) *UI {
	ui := &UI{
		scopes:  scopes,
		cfg:     cfg,
		logger:  logger.With("component", "ui"),
		metrics: m,
	}
	ui.guard = guard.NewGuard(ui.sessionSource, logger, m)
	return ui
}

// homeFor returns the landing page of the session's tier.
func homeFor(sess model.Session) string {
	switch sess.Tier {
	case model.TierMaster:
		return model.PathMasterHome
	case model.TierTenantUser:
		return model.PathTenantHome
	default:
		return model.PathLogin
	}
}

// HandleRoot sends the client to the area of its tier.
func (ui *UI) HandleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, homeFor(ui.currentSession(r)), http.StatusSeeOther)
}

// HandleLogin renders the login page.
func (ui *UI) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if sess := ui.currentSession(r); sess.IsAuthenticated() {
		http.Redirect(w, r, homeFor(sess), http.StatusSeeOther)
		return
	}
	ui.render(w, r, "login", map[string]any{
		"Title": "Sign in - LoginHub",
		"Email": "",
	})
}

// HandleLoginPost processes the login form.
func (ui *UI) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		ui.renderLoginError(w, r, http.StatusBadRequest, "", "Invalid request.")
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	if email == "" || password == "" {
		ui.renderLoginError(w, r, http.StatusBadRequest, email, "Email and password are required.")
		return
	}

	nav, err := ui.deps(r).auth.Login(r.Context(), email, password)
	if err != nil {
		status := statusForError(err)
		if model.IsKind(err, model.KindInvalidCredentials) || model.IsKind(err, model.KindReservedIdentifier) {
			status = http.StatusUnauthorized
		}
		if status >= http.StatusInternalServerError {
			ui.logger.Error("login failed", "error", err)
		}
		ui.renderLoginError(w, r, status, email, auth.UserMessage(err))
		return
	}
	if id, ok := identityFromContext(r.Context()); ok {
		ui.scopes.Issue(w, id)
	}
	guard.Redirect(w, r, nav)
}

func (ui *UI) renderLoginError(w http.ResponseWriter, r *http.Request, status int, email, message string) {
	ui.renderStatus(w, r, status, "login", map[string]any{
		"Title":   "Sign in - LoginHub",
		"Email":   email,
		"Error":   message,
		"Session": model.AnonymousSession(),
	})
}

// HandleLogout notifies the backend of a tenant logout, clears the session
// and returns to the login page.
func (ui *UI) HandleLogout(w http.ResponseWriter, r *http.Request) {
	d := ui.deps(r)
	if sess := ui.currentSession(r); sess.IsTenant() {
		if err := d.api.Logout(r.Context()); err != nil {
			ui.logger.Info("backend logout failed", "error", err)
		}
	}

	nav, err := d.auth.Logout(r.Context())
	if err != nil {
		ui.logger.Error("logout failed", "error", err)
	}
	guard.Redirect(w, r, nav)
}

// handleBackendError renders a failed backend call. An expired session goes
// back to the login page.
func (ui *UI) handleBackendError(w http.ResponseWriter, r *http.Request, message string, err error) {
	if model.IsKind(err, model.KindSessionExpired) {
		guard.Redirect(w, r, model.RedirectTo(model.PathLogin).Replacing().Hardened())
		return
	}

	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		ui.logger.Error(message, "error", err)
	} else {
		ui.logger.Debug(message, "error", err)
	}
	ui.renderStatus(w, r, status, "error", map[string]any{
		"Title":   "Error - LoginHub",
		"Message": message,
		"Detail":  auth.UserMessage(err),
	})
}

// statusForError maps an error kind to the status of the rendered page.
func statusForError(err error) int {
	switch model.KindOf(err) {
	case model.KindValidation:
		return http.StatusUnprocessableEntity
	case model.KindNotFound:
		return http.StatusNotFound
	case model.KindForbidden:
		return http.StatusForbidden
	case model.KindInvalidCredentials, model.KindSessionExpired:
		return http.StatusUnauthorized
	case model.KindUnreachable, model.KindServer, model.KindMalformed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (ui *UI) render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	ui.renderStatus(w, r, http.StatusOK, name, data)
}

func (ui *UI) renderStatus(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	if _, ok := data["Session"]; !ok {
		data["Session"] = ui.currentSession(r)
	}

	var buf bytes.Buffer
	if err := renderTemplate(&buf, name, data); err != nil {
		ui.logger.Error("template render failed", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
