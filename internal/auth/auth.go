// Package auth decides which tier a login attempt belongs to and records the
// resulting session. A matching master key yields a master session without
// contacting the backend; any other credentials are verified by the backend
// and yield a tenant session.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/me/loginhub/internal/metrics"
	"github.com/me/loginhub/internal/session"
	"github.com/me/loginhub/pkg/model"
)

// DefaultReservedIdentifier is the login identifier of the infrastructure
// account. It never authenticates through the tenant path.
const DefaultReservedIdentifier = "master@infra.local"

// Verifier checks tenant credentials against the backend.
type Verifier interface {
	VerifyCredentials(ctx context.Context, identifier, secret string) (model.LoginResult, error)
}

// Options configures an Authenticator.
type Options struct {
	// MasterKey is the shared secret of the master tier. Empty disables
	// master login.
	MasterKey string
	// ReservedIdentifiers are refused on the tenant path. Nil means the
	// default list; an empty non-nil slice reserves nothing.
	ReservedIdentifiers []string
}

// Authenticator performs login and logout over a session repository.
type Authenticator struct {
	sessions  session.Repository
	verifier  Verifier
	masterKey string
	reserved  map[string]bool
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// New creates an Authenticator. m may be nil.
func New(sessions session.Repository, verifier Verifier, opts Options, logger *slog.Logger, m *metrics.Metrics) *Authenticator {
	ids := opts.ReservedIdentifiers
	if ids == nil {
		ids = []string{DefaultReservedIdentifier}
	}
	reserved := make(map[string]bool, len(ids))
	for _, id := range ids {
		if n := normalizeIdentifier(id); n != "" {
			reserved[n] = true
		}
	}
	return &Authenticator{
		sessions:  sessions,
		verifier:  verifier,
		masterKey: opts.MasterKey,
		reserved:  reserved,
		logger:    logger.With("component", "auth"),
		metrics:   m,
	}
}

// Login authenticates a credential pair and returns where to go next.
//
// The previous session is cleared before anything else, so a failed attempt
// always leaves the client anonymous. Backend failures are returned unchanged.
func (a *Authenticator) Login(ctx context.Context, identifier, secret string) (model.Navigation, error) {
	if err := a.sessions.Clear(ctx); err != nil {
		return model.Navigation{}, fmt.Errorf("clear session: %w", err)
	}

	if a.masterKey != "" && secret == a.masterKey {
		if err := a.sessions.Write(ctx, model.NewMasterSession()); err != nil {
			return model.Navigation{}, fmt.Errorf("write master session: %w", err)
		}
		a.metrics.LoginAttempt(string(model.TierMaster), "success")
		a.logger.Info("master login")
		return model.RedirectTo(model.PathMasterHome), nil
	}

	if a.IsReserved(identifier) {
		a.metrics.LoginAttempt(string(model.TierTenantUser), string(model.KindReservedIdentifier))
		a.logger.Warn("reserved identifier refused on tenant login", "identifier", identifier)
		return model.Navigation{}, &model.Error{Kind: model.KindReservedIdentifier, Op: "login"}
	}

	res, err := a.verifier.VerifyCredentials(ctx, identifier, secret)
	if err != nil {
		a.metrics.LoginAttempt(string(model.TierTenantUser), string(model.KindOf(err)))
		a.logger.Info("tenant login failed", "identifier", identifier, "kind", model.KindOf(err))
		return model.Navigation{}, err
	}

	if err := a.sessions.Write(ctx, model.NewTenantSession(res)); err != nil {
		return model.Navigation{}, fmt.Errorf("write tenant session: %w", err)
	}
	a.metrics.LoginAttempt(string(model.TierTenantUser), "success")
	a.logger.Info("tenant login", "user_id", res.User.ID, "company_id", *res.User.CompanyID, "role", res.User.Role)
	return model.RedirectTo(model.PathTenantHome), nil
}

// Logout clears the session and returns a full, history-replacing redirect to
// the login page.
func (a *Authenticator) Logout(ctx context.Context) (model.Navigation, error) {
	nav := model.RedirectTo(model.PathLogin).Replacing().Hardened()
	if err := a.sessions.Clear(ctx); err != nil {
		return nav, fmt.Errorf("clear session: %w", err)
	}
	a.metrics.Logout()
	a.logger.Info("logout")
	return nav, nil
}

// IsAuthenticated reports whether the stored session belongs to a known actor.
func (a *Authenticator) IsAuthenticated(ctx context.Context) (bool, error) {
	sess, err := a.sessions.Read(ctx)
	if err != nil {
		return false, err
	}
	return sess.IsAuthenticated(), nil
}

// Current returns the stored session.
func (a *Authenticator) Current(ctx context.Context) (model.Session, error) {
	return a.sessions.Read(ctx)
}

// IsReserved reports whether identifier is refused on the tenant path.
func (a *Authenticator) IsReserved(identifier string) bool {
	return a.reserved[normalizeIdentifier(identifier)]
}

func normalizeIdentifier(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
