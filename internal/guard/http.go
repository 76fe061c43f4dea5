package guard

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/me/loginhub/internal/metrics"
	"github.com/me/loginhub/internal/session"
	"github.com/me/loginhub/pkg/model"
)

type contextKey struct{}

// WithSession stores sess in ctx.
func WithSession(ctx context.Context, sess model.Session) context.Context {
	return context.WithValue(ctx, contextKey{}, sess)
}

// SessionFromContext returns the session admitted by the middleware.
func SessionFromContext(ctx context.Context) (model.Session, bool) {
	sess, ok := ctx.Value(contextKey{}).(model.Session)
	return sess, ok
}

// Source returns the session reader of the client behind r.
type Source func(r *http.Request) session.Reader

// Guard adapts Authorizer to HTTP handlers.
type Guard struct {
	source  Source
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewGuard creates a Guard. m may be nil.
func NewGuard(source Source, logger *slog.Logger, m *metrics.Metrics) *Guard {
	return &Guard{source: source, logger: logger, metrics: m}
}

// Require returns middleware admitting requests whose session satisfies req.
// Other requests are redirected with 303 See Other.
func (g *Guard) Require(req Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a := New(g.source(r), g.logger, g.metrics)
			nav, sess, _ := a.Resolve(r.Context(), req, r.URL.Path)
			if nav.IsRedirect() {
				Redirect(w, r, nav)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		})
	}
}

// Redirect performs a redirect navigation. Replacing redirects also mark the
// response as not cacheable so the protected page is not restored from history.
func Redirect(w http.ResponseWriter, r *http.Request, nav model.Navigation) {
	if nav.Replace || nav.Hard {
		w.Header().Set("Cache-Control", "no-store")
	}
	if nav.Hard {
		w.Header().Set("Clear-Site-Data", `"cache"`)
	}
	http.Redirect(w, r, nav.Path, http.StatusSeeOther)
}
