package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLite stores the document in the documents table of a SQLite database.
// The table must exist; see db.MigrateSQLite.
type SQLite struct {
	db  *sql.DB
	key string
}

// NewSQLite wraps an open SQLite handle.
func NewSQLite(db *sql.DB, key string) *SQLite {
	return &SQLite{db: db, key: key}
}

func (s *SQLite) Load(ctx context.Context) ([]byte, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE key = ?`, s.key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, fmt.Errorf("loading document %s: %w", s.key, err)
	}
	return body, nil
}

func (s *SQLite) Save(ctx context.Context, body []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (key, body, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at
	`, s.key, body, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("saving document %s: %w", s.key, err)
	}
	return nil
}
