// Package store persists the lead desk database as a single JSON document.
package store

import (
	"context"
	"errors"
	"sync"
)

// ErrNoData is returned by Load when nothing has been saved yet.
var ErrNoData = errors.New("store: no data")

// Store loads and saves the raw database document.
type Store interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, body []byte) error
}

// Memory keeps the document in process memory. Used by tests and the "memory" driver.
type Memory struct {
	mu   sync.RWMutex
	body []byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load(_ context.Context) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.body == nil {
		return nil, ErrNoData
	}
	out := make([]byte, len(m.body))
	copy(out, m.body)
	return out, nil
}

func (m *Memory) Save(_ context.Context, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.body = make([]byte, len(body))
	copy(m.body, body)
	return nil
}

// Health reports whether a Store can be read.
type Health struct {
	store Store
}

func NewHealth(s Store) *Health { return &Health{store: s} }

// Ping loads the document; an empty store counts as healthy.
func (h *Health) Ping(ctx context.Context) error {
	_, err := h.store.Load(ctx)
	if errors.Is(err, ErrNoData) {
		return nil
	}
	return err
}
