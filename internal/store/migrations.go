package store

import (
	"context"
	"database/sql"
)

// schema contains the DDL for all console tables.
// Each statement uses IF NOT EXISTS for idempotency.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS client_storage (
		client_id  TEXT NOT NULL,
		scope      TEXT NOT NULL,
		key        TEXT NOT NULL,
		value      TEXT NOT NULL,
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (client_id, scope, key)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_client_storage_scope_updated ON client_storage(scope, updated_at)`,
}

// migrate executes all schema DDL statements.
func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
