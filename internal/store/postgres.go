package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres stores the document as JSONB in the documents table.
type Postgres struct {
	pool *pgxpool.Pool
	key  string
}

// NewPostgres wraps a migrated pool; see db.MigratePostgres.
func NewPostgres(pool *pgxpool.Pool, key string) *Postgres {
	return &Postgres{pool: pool, key: key}
}

func (p *Postgres) Load(ctx context.Context) ([]byte, error) {
	var body string
	err := p.pool.QueryRow(ctx, `SELECT body::text FROM documents WHERE key = $1`, p.key).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, fmt.Errorf("loading document %s: %w", p.key, err)
	}
	return []byte(body), nil
}

func (p *Postgres) Save(ctx context.Context, body []byte) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO documents (key, body, updated_at) VALUES ($1, $2::jsonb, now())
		ON CONFLICT (key) DO UPDATE SET body = EXCLUDED.body, updated_at = now()
	`, p.key, string(body))
	if err != nil {
		return fmt.Errorf("saving document %s: %w", p.key, err)
	}
	return nil
}
