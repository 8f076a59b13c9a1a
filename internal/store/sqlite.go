package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SQLiteStore owns the SQLite database shared by every user. Board data is
// reached through ForUser; account rows are managed directly.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// foreign_keys is per connection, so it goes in the DSN as well.
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Each connection to ":memory:" is a separate database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys.
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ForUser returns the board store scoped to userID.
func (s *SQLiteStore) ForUser(userID string) *UserStore {
	return &UserStore{db: s.db, userID: userID}
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

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

// UserStore implements Store for a single user.
type UserStore struct {
	db     *sqlx.DB
	userID string
}

var _ Store = (*UserStore)(nil)

// UserID returns the identity the store is scoped to.
func (s *UserStore) UserID() string {
	return s.userID
}

// notFound converts sql.ErrNoRows and zero-row updates into ErrNotFound.
func notFound(kind, id string, err error) error {
	if err == nil || errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return err
}

// checkAffected returns ErrNotFound when an update or delete touched nothing.
func checkAffected(result sql.Result, kind, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected for %s %s: %w", kind, id, err)
	}
	if rows == 0 {
		return notFound(kind, id, nil)
	}
	return nil
}

// constraint tags SQLite foreign key failures with ErrConflict.
func constraint(err error) error {
	if err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
		return fmt.Errorf("%v: %w", err, ErrConflict)
	}
	return err
}

// owned fails with ErrConflict unless table holds a row with id owned by
// the store's user. Foreign keys alone accept another user's rows.
func (s *UserStore) owned(ctx context.Context, table, kind, id string) error {
	var ok bool
	err := s.db.GetContext(ctx, &ok,
		"SELECT EXISTS(SELECT 1 FROM "+table+" WHERE id = ? AND user_id = ?)", id, s.userID)
	if err != nil {
		return fmt.Errorf("checking %s %s: %w", kind, id, err)
	}
	if !ok {
		return fmt.Errorf("unknown %s %s: %w", kind, id, ErrConflict)
	}
	return nil
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
