package ui

import (
	"context"
	"net/http"

	"github.com/me/loginhub/internal/api"
	"github.com/me/loginhub/internal/auth"
	"github.com/me/loginhub/internal/guard"
	"github.com/me/loginhub/internal/session"
	"github.com/me/loginhub/pkg/model"
)

type contextKey string

const (
	storeContextKey    contextKey = "session_store"
	identityContextKey contextKey = "identity"
)

// storeFromContext returns the session store bound to the request.
func storeFromContext(ctx context.Context) *session.Store {
	st, _ := ctx.Value(storeContextKey).(*session.Store)
	return st
}

// ClientMiddleware identifies the browser and binds its session store to the
// request context. It must run before any guarded route.
func (ui *UI) ClientMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ui.scopes.Identify(r)
		if !id.newTab {
			if err := ui.scopes.Touch(r.Context(), id.TabID); err != nil {
				ui.logger.Warn("touch tab storage failed", "error", err)
			}
		}
		st := ui.scopes.Store(id.ClientID, id.TabID, ui.logger)
		ctx := context.WithValue(r.Context(), storeContextKey, st)
		ctx = context.WithValue(ctx, identityContextKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func identityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey).(Identity)
	return id, ok
}

// sessionSource feeds the route guard with the request's session store.
func (ui *UI) sessionSource(r *http.Request) session.Reader {
	return storeFromContext(r.Context())
}

// requestDeps are the per-request collaborators of a handler.
type requestDeps struct {
	sessions *session.Store
	api      *api.Client
	auth     *auth.Authenticator
}

func (ui *UI) deps(r *http.Request) requestDeps {
	st := storeFromContext(r.Context())
	client := api.NewClient(ui.cfg.APIURL, ui.logger,
		api.WithSessions(st),
		api.WithMasterKey(ui.cfg.MasterKey),
		api.WithTimeout(ui.cfg.RequestTimeout),
		api.WithMetrics(ui.metrics),
	)
	authn := auth.New(st, client, auth.Options{
		MasterKey:           ui.cfg.MasterKey,
		ReservedIdentifiers: ui.cfg.ReservedIdentifiers,
	}, ui.logger, ui.metrics)
	return requestDeps{sessions: st, api: client, auth: authn}
}

// currentSession returns the session admitted by the guard, or reads it.
func (ui *UI) currentSession(r *http.Request) model.Session {
	if sess, ok := guard.SessionFromContext(r.Context()); ok {
		return sess
	}
	st := storeFromContext(r.Context())
	if st == nil {
		return model.AnonymousSession()
	}
	sess, err := st.Read(r.Context())
	if err != nil {
		ui.logger.Error("read session failed", "error", err)
		return model.AnonymousSession()
	}
	return sess
}

// requireUserManager rejects tenant users without the admin role.
func (ui *UI) requireUserManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !ui.currentSession(r).CanManageUsers() {
			ui.renderStatus(w, r, http.StatusForbidden, "error", map[string]any{
				"Title":   "Forbidden - LoginHub",
				"Message": "Only company administrators can manage users.",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
