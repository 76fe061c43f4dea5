package ui

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/me/loginhub/internal/session"
	"github.com/me/loginhub/internal/store"
)

const (
	// ClientCookieName identifies the browser; it keys durable storage.
	ClientCookieName = "loginhub_client"
	// TabCookieName identifies the browser session; it keys tab storage.
	TabCookieName = "loginhub_tab"
	// ClientCookieDuration is the lifetime of the client cookie.
	ClientCookieDuration = 365 * 24 * time.Hour

	redisTabPrefix = "loginhub:tab:"
)

// SessionScopes maps a browser to the storage scopes of its session.
type SessionScopes struct {
	store  store.Store
	redis  redis.UniversalClient // optional tab storage
	tabTTL time.Duration
	secure bool
}

// NewSessionScopes creates a SessionScopes. rdb may be nil, in which case tab
// storage lives in st.
func NewSessionScopes(st store.Store, rdb redis.UniversalClient, tabTTL time.Duration, secure bool) *SessionScopes {
	return &SessionScopes{store: st, redis: rdb, tabTTL: tabTTL, secure: secure}
}

// Identity names the storage scopes of one browser. A missing or forged
// cookie yields a fresh id that is only sent to the browser once Issue is
// called, so a request without cookies reads as anonymous and leaves the
// browser's existing cookies alone.
type Identity struct {
	ClientID  string
	TabID     string
	newClient bool
	newTab    bool
}

// Identify returns the identity carried by the cookies of r.
func (ss *SessionScopes) Identify(r *http.Request) Identity {
	id := Identity{
		ClientID: cookieValue(r, ClientCookieName),
		TabID:    cookieValue(r, TabCookieName),
	}
	if id.ClientID == "" {
		id.ClientID, id.newClient = uuid.NewString(), true
	}
	if id.TabID == "" {
		id.TabID, id.newTab = uuid.NewString(), true
	}
	return id
}

// Issue sends the cookies of whichever ids the browser does not hold yet.
func (ss *SessionScopes) Issue(w http.ResponseWriter, id Identity) {
	if id.newClient {
		http.SetCookie(w, &http.Cookie{
			Name:     ClientCookieName,
			Value:    id.ClientID,
			Path:     "/",
			HttpOnly: true,
			Secure:   ss.secure,
			SameSite: http.SameSiteLaxMode,
			Expires:  time.Now().Add(ClientCookieDuration),
		})
	}
	if id.newTab {
		// No Expires: the browser drops it when the session ends.
		http.SetCookie(w, &http.Cookie{
			Name:     TabCookieName,
			Value:    id.TabID,
			Path:     "/",
			HttpOnly: true,
			Secure:   ss.secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// Store returns the session store of the given client and tab.
func (ss *SessionScopes) Store(clientID, tabID string, logger *slog.Logger) *session.Store {
	durable := store.NewClientScope(ss.store, clientID, store.ScopeDurable)
	return session.NewStore(durable, ss.tabScope(tabID), logger)
}

func (ss *SessionScopes) tabScope(tabID string) session.Scope {
	if ss.redis != nil {
		return session.NewRedisScope(ss.redis, redisTabPrefix, tabID, ss.tabTTL)
	}
	return store.NewClientScope(ss.store, tabID, store.ScopeTab)
}

// Touch marks the tab as active so the janitor keeps its storage. Redis
// scopes refresh their own expiry on access.
func (ss *SessionScopes) Touch(ctx context.Context, tabID string) error {
	if ss.redis != nil {
		return nil
	}
	return ss.store.Touch(ctx, tabID, store.ScopeTab)
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return ""
	}
	return c.Value
}
