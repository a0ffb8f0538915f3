package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"filmleads_backend/internal/leads/domain"
	"filmleads_backend/platform/logger"
)

// ErrInvalidDocument is returned by Decode for input that is not a database document.
var ErrInvalidDocument = errors.New("invalid database document")

// Codec reads and writes the typed database through a Store.
// Missing or unreadable documents fall back to a fresh seed.
type Codec struct {
	store Store
	log   *logger.Logger
	seed  func() *domain.Database
}

// NewCodec returns a codec over s. seed builds the fallback database; nil uses domain.Seed.
func NewCodec(s Store, log *logger.Logger, seed func() *domain.Database) *Codec {
	if seed == nil {
		seed = domain.Seed
	}
	return &Codec{store: s, log: log, seed: seed}
}

// Load returns the stored database, or a seed when nothing usable is stored.
// Only store failures are returned as errors.
func (c *Codec) Load(ctx context.Context) (*domain.Database, error) {
	raw, err := c.store.Load(ctx)
	if errors.Is(err, ErrNoData) {
		c.log.Debug("no stored database, using seed")
		return c.seed(), nil
	}
	if err != nil {
		return nil, err
	}

	db, err := Decode(raw)
	if err != nil {
		c.log.Warn("stored database unreadable, using seed", "error", err)
		return c.seed(), nil
	}
	return db, nil
}

// Save encodes db and writes it.
func (c *Codec) Save(ctx context.Context, db *domain.Database) error {
	raw, err := Encode(db)
	if err != nil {
		return err
	}
	return c.store.Save(ctx, raw)
}

// Decode parses a database document and fills defaults.
func Decode(raw []byte) (*domain.Database, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, ErrInvalidDocument
	}

	var db domain.Database
	if err := json.Unmarshal(trimmed, &db); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	db.Normalize()
	return &db, nil
}

// Encode serializes db as indented JSON.
func Encode(db *domain.Database) ([]byte, error) {
	raw, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding database: %w", err)
	}
	return raw, nil
}
