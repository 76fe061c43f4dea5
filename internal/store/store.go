package store

import (
	"context"
	"time"
)

// Storage scopes of a client.
const (
	// ScopeDurable survives browser restarts (tenant credentials).
	ScopeDurable = "durable"
	// ScopeTab lives as long as one browser session (master flag).
	ScopeTab = "tab"
)

// Store defines the persistence layer for client-side session storage of
// the web console. Values are addressed by (client id, scope, key).
type Store interface {
	GetValue(ctx context.Context, clientID, scope, key string) (string, bool, error)
	SetValue(ctx context.Context, clientID, scope, key, value string) error
	DeleteValue(ctx context.Context, clientID, scope, key string) error

	// Touch marks every value of the client scope as used now.
	Touch(ctx context.Context, clientID, scope string) error
	// DeleteStale removes values of scope not written or touched since before.
	DeleteStale(ctx context.Context, scope string, before time.Time) (int64, error)
	// CountClients returns the number of clients holding values in scope.
	CountClients(ctx context.Context, scope string) (int, error)

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error
	Migrate(ctx context.Context) error
}
