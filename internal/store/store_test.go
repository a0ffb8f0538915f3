package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"filmleads_backend/internal/leads/domain"
	"filmleads_backend/platform/config"
	"filmleads_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Load(ctx); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData on empty store, got %v", err)
	}
	if err := s.Save(ctx, []byte(`{"version":1}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save(ctx, []byte(`{"version":2}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got) != `{"version":2}` {
		t.Fatalf("expected last saved document, got %s", got)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestSQLiteStore(t *testing.T) {
	cfg := &config.Config{
		StoreDriver: config.DriverSQLite,
		StoreKey:    "wf_db_v1",
		SQLitePath:  filepath.Join(t.TempDir(), "leads.db"),
	}
	s, closeFn, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer closeFn()

	exerciseStore(t, s)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	exerciseStore(t, NewRedis(client, "wf_db_v1"))

	if !mr.Exists("wf_db_v1") {
		t.Fatalf("expected key to be written")
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, _, err := Open(context.Background(), &config.Config{StoreDriver: "etcd"}); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestCodecSeedsWhenEmpty(t *testing.T) {
	c := NewCodec(NewMemory(), logger.Discard(), nil)

	db, err := c.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(db.Leads) != 2 {
		t.Fatalf("expected seed leads, got %d", len(db.Leads))
	}
}

func TestCodecRecoversFromGarbage(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	_ = mem.Save(ctx, []byte("not json"))

	seeded := false
	c := NewCodec(mem, logger.Discard(), func() *domain.Database {
		seeded = true
		return domain.Seed()
	})

	if _, err := c.Load(ctx); err != nil {
		t.Fatalf("expected recovery, got %v", err)
	}
	if !seeded {
		t.Fatalf("expected seed fallback")
	}
}

func TestCodecRoundTripNormalizes(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	_ = mem.Save(ctx, []byte(`{"leads":[{"id":"lead_1"}]}`))
	c := NewCodec(mem, logger.Discard(), nil)

	db, err := c.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if db.Version != domain.CurrentVersion || db.Settings == nil || db.Tasks == nil {
		t.Fatalf("expected defaults to be filled")
	}
	if db.Leads[0].Status != domain.StatusNew || db.Leads[0].JobType != domain.JobBoth {
		t.Fatalf("expected lead defaults, got %+v", db.Leads[0])
	}

	if err := c.Save(ctx, db); err != nil {
		t.Fatalf("save: %v", err)
	}
	again, err := c.Load(ctx)
	if err != nil || len(again.Leads) != 1 || again.Leads[0].ID != "lead_1" {
		t.Fatalf("unexpected reload %+v, err %v", again, err)
	}
}

func TestDecodeRejectsNonObject(t *testing.T) {
	for _, raw := range []string{"", "[]", "null", "{broken"} {
		if _, err := Decode([]byte(raw)); !errors.Is(err, ErrInvalidDocument) {
			t.Fatalf("expected ErrInvalidDocument for %q, got %v", raw, err)
		}
	}
}

func TestHealthPing(t *testing.T) {
	mem := NewMemory()
	h := NewHealth(mem)
	if err := h.Ping(context.Background()); err != nil {
		t.Fatalf("expected empty store to be healthy, got %v", err)
	}
	if err := mem.Save(context.Background(), []byte(`{}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := h.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
