package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps slots as rows of the slots table.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (json.RawMessage, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM slots WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get slot %s: %w", key, err)
	}
	return json.RawMessage(value), nil
}

func (s *SQLiteStore) Set(ctx context.Context, key string, value json.RawMessage) error {
	if err := validateKey(key); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO slots (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			revision = slots.revision + 1,
			updated_at = CURRENT_TIMESTAMP`,
		key, string(value))
	if err != nil {
		return fmt.Errorf("set slot %s: %w", key, err)
	}
	return nil
}

// Revision returns how many times key has been written, 0 if never.
func (s *SQLiteStore) Revision(ctx context.Context, key string) (int64, error) {
	var rev int64
	err := s.db.QueryRowContext(ctx, `SELECT revision FROM slots WHERE key = ?`, key).Scan(&rev)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get revision %s: %w", key, err)
	}
	return rev, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
