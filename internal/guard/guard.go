// Package guard gates protected views on the tier of the current session.
package guard

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/me/loginhub/internal/metrics"
	"github.com/me/loginhub/internal/session"
	"github.com/me/loginhub/pkg/model"
)

// Requirement is the tier a protected view demands.
type Requirement int

const (
	// Tenant admits tenant users only.
	Tenant Requirement = iota
	// Master admits the master operator only.
	Master
)

func (r Requirement) String() string {
	switch r {
	case Tenant:
		return "tenant"
	case Master:
		return "master"
	default:
		return fmt.Sprintf("requirement(%d)", int(r))
	}
}

// State is the authorization state derived from a session.
type State int

const (
	Anonymous State = iota
	TenantAuthorized
	MasterAuthorized
)

func (s State) String() string {
	switch s {
	case TenantAuthorized:
		return "tenant-authorized"
	case MasterAuthorized:
		return "master-authorized"
	default:
		return "anonymous"
	}
}

// StateOf derives the authorization state of sess.
func StateOf(sess model.Session) State {
	switch sess.Tier {
	case model.TierMaster:
		return MasterAuthorized
	case model.TierTenantUser:
		return TenantAuthorized
	default:
		return Anonymous
	}
}

// Satisfies reports whether state meets req. A master session does not
// satisfy Tenant: the tiers are disjoint.
func (s State) Satisfies(req Requirement) bool {
	switch req {
	case Tenant:
		return s == TenantAuthorized
	case Master:
		return s == MasterAuthorized
	default:
		return false
	}
}

// Decide renders view when sess satisfies req and otherwise redirects to the
// login page, replacing history. It has no side effects.
func Decide(sess model.Session, req Requirement, view string) model.Navigation {
	if StateOf(sess).Satisfies(req) {
		return model.Render(view)
	}
	return model.RedirectTo(model.PathLogin).Replacing()
}

// Authorizer evaluates requirements against the stored session.
type Authorizer struct {
	sessions session.Reader
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// New creates an Authorizer. m may be nil.
func New(sessions session.Reader, logger *slog.Logger, m *metrics.Metrics) *Authorizer {
	return &Authorizer{
		sessions: sessions,
		logger:   logger.With("component", "guard"),
		metrics:  m,
	}
}

// Evaluate re-reads the session and decides whether view may be rendered.
// A failed read redirects to login and is returned for logging.
func (a *Authorizer) Evaluate(ctx context.Context, req Requirement, view string) (model.Navigation, error) {
	nav, _, err := a.Resolve(ctx, req, view)
	return nav, err
}

// Resolve is Evaluate that also returns the session the decision was based on.
func (a *Authorizer) Resolve(ctx context.Context, req Requirement, view string) (model.Navigation, model.Session, error) {
	sess, err := a.sessions.Read(ctx)
	if err != nil {
		a.metrics.RouteDecision(req.String(), Anonymous.String(), "error")
		a.logger.Error("read session failed", "requirement", req, "view", view, "error", err)
		return model.RedirectTo(model.PathLogin).Replacing(), model.AnonymousSession(), err
	}

	nav := Decide(sess, req, view)
	state := StateOf(sess)
	if nav.IsRender() {
		a.metrics.RouteDecision(req.String(), state.String(), "render")
	} else {
		a.metrics.RouteDecision(req.String(), state.String(), "redirect")
		a.logger.Debug("access denied", "requirement", req, "state", state, "view", view)
	}
	return nav, sess, nil
}
