package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/ticketdesk/ticketdesk/internal/model"
)

// SQLiteStorage implements the Storage interface using a local SQLite
// database holding a flat key-value table.
type SQLiteStorage struct {
	db *sqlx.DB
}

var _ Storage = (*SQLiteStorage)(nil)

// NewSQLiteStorage opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStorage{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStorage) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// LoadToken returns the persisted session token, or the empty string when
// no token is stored.
func (s *SQLiteStorage) LoadToken(ctx context.Context) (string, error) {
	token, _, err := s.getValue(ctx, KeySession)
	if err != nil {
		return "", fmt.Errorf("loading session token: %w", err)
	}
	return token, nil
}

// SaveToken persists the session token, replacing any previous one.
func (s *SQLiteStorage) SaveToken(ctx context.Context, token string) error {
	if err := s.setValue(ctx, KeySession, token); err != nil {
		return fmt.Errorf("saving session token: %w", err)
	}
	return nil
}

// ClearToken removes the persisted session token. Clearing an absent token
// is a no-op.
func (s *SQLiteStorage) ClearToken(ctx context.Context) error {
	if err := s.deleteValue(ctx, KeySession); err != nil {
		return fmt.Errorf("clearing session token: %w", err)
	}
	return nil
}

// LoadTickets returns the persisted ticket collection in stored order.
// A missing or malformed record degrades to an empty collection; corrupted
// local data must never take the application down.
func (s *SQLiteStorage) LoadTickets(ctx context.Context) ([]model.Ticket, error) {
	raw, ok, err := s.getValue(ctx, KeyTickets)
	if err != nil {
		return nil, fmt.Errorf("loading tickets: %w", err)
	}
	if !ok {
		return []model.Ticket{}, nil
	}

	var tickets []model.Ticket
	if err := json.Unmarshal([]byte(raw), &tickets); err != nil {
		return []model.Ticket{}, nil
	}
	if tickets == nil {
		tickets = []model.Ticket{}
	}
	return tickets, nil
}

// SaveTickets replaces the persisted ticket collection.
func (s *SQLiteStorage) SaveTickets(ctx context.Context, tickets []model.Ticket) error {
	if tickets == nil {
		tickets = []model.Ticket{}
	}
	raw, err := json.Marshal(tickets)
	if err != nil {
		return fmt.Errorf("marshaling tickets: %w", err)
	}
	if err := s.setValue(ctx, KeyTickets, string(raw)); err != nil {
		return fmt.Errorf("saving tickets: %w", err)
	}
	return nil
}

// getValue reads a single key from the kv table. The boolean reports
// whether the key was present.
func (s *SQLiteStorage) getValue(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.GetContext(ctx, &value, "SELECT value FROM kv WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading key %q: %w", key, err)
	}
	return value, true, nil
}

// setValue writes a single key to the kv table, replacing any existing value.
func (s *SQLiteStorage) setValue(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO kv (key, value) VALUES (?, ?)", key, value,
	)
	if err != nil {
		return fmt.Errorf("writing key %q: %w", key, err)
	}
	return nil
}

// deleteValue removes a single key from the kv table.
func (s *SQLiteStorage) deleteValue(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("deleting key %q: %w", key, err)
	}
	return nil
}
