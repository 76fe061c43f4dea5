package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and returns a Store.
// Use ":memory:" for an in-memory database (useful in tests).
func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	if dbPath == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma busy_timeout: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logger.With("component", "store"),
		now:    time.Now,
	}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate creates all required tables and indexes.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	s.logger.Debug("sql", "op", "migrate")
	return migrate(ctx, s.db)
}

// --- Client storage ---

func (s *SQLiteStore) GetValue(ctx context.Context, clientID, scope, key string) (string, bool, error) {
	s.logger.Debug("sql", "op", "select", "table", "client_storage", "scope", scope, "key", key)

	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM client_storage WHERE client_id = ? AND scope = ? AND key = ?`,
		clientID, scope, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *SQLiteStore) SetValue(ctx context.Context, clientID, scope, key, value string) error {
	s.logger.Debug("sql", "op", "upsert", "table", "client_storage", "scope", scope, "key", key)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO client_storage (client_id, scope, key, value, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (client_id, scope, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		clientID, scope, key, value, s.now().Unix(),
	)
	return err
}

func (s *SQLiteStore) DeleteValue(ctx context.Context, clientID, scope, key string) error {
	s.logger.Debug("sql", "op", "delete", "table", "client_storage", "scope", scope, "key", key)

	_, err := s.db.ExecContext(ctx,
		`DELETE FROM client_storage WHERE client_id = ? AND scope = ? AND key = ?`,
		clientID, scope, key,
	)
	return err
}

func (s *SQLiteStore) Touch(ctx context.Context, clientID, scope string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE client_storage SET updated_at = ? WHERE client_id = ? AND scope = ?`,
		s.now().Unix(), clientID, scope,
	)
	return err
}

func (s *SQLiteStore) DeleteStale(ctx context.Context, scope string, before time.Time) (int64, error) {
	s.logger.Debug("sql", "op", "delete", "table", "client_storage", "scope", scope, "before", before)

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM client_storage WHERE scope = ? AND updated_at < ?`,
		scope, before.Unix(),
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (s *SQLiteStore) CountClients(ctx context.Context, scope string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT client_id) FROM client_storage WHERE scope = ?`, scope,
	).Scan(&n)
	return n, err
}
