package archive

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"filmleads_backend/internal/events"
	"filmleads_backend/internal/leads/domain"
	"filmleads_backend/platform/logger"
)

type memObjects struct {
	mu      sync.Mutex
	objects map[string]string
	types   map[string]string
	buckets []string
	err     error
}

func newMemObjects() *memObjects {
	return &memObjects{objects: map[string]string{}, types: map[string]string{}}
}

func (m *memObjects) EnsureBucket(_ context.Context, bucket string) error {
	m.buckets = append(m.buckets, bucket)
	return m.err
}

func (m *memObjects) Put(_ context.Context, bucket, key, contentType string, body []byte) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[bucket+"/"+key] = string(body)
	m.types[bucket+"/"+key] = contentType
	return nil
}

func TestKeys(t *testing.T) {
	at := time.Date(2026, 3, 2, 15, 4, 5, 0, time.UTC)
	if got := ExportKey(at); got != "exports/window-film-workflow-db-2026-03-02T150405Z.json" {
		t.Fatalf("unexpected export key %q", got)
	}
	if got := ProposalKey("lead_1", "quote_2"); got != "proposals/lead_1/quote_2.html" {
		t.Fatalf("unexpected proposal key %q", got)
	}
}

func TestSubscribeArchivesExportsAndProposals(t *testing.T) {
	objs := newMemObjects()
	a := New(objs, "archive", logger.Discard())
	bus := events.NewInMemoryBus(logger.Discard())
	a.Subscribe(bus)

	ctx := context.Background()
	at := time.Date(2026, 3, 2, 15, 4, 5, 0, time.UTC)
	if err := bus.PublishSync(ctx, events.DatabaseExported{BaseEvent: events.NewBaseEventAt(at), Body: []byte(`{"version":1}`)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := bus.PublishSync(ctx, events.QuoteGenerated{BaseEvent: events.NewBaseEventAt(at), LeadID: "lead_1", QuoteID: "quote_1", Kind: domain.QuoteProposal, ProposalHTML: "<h1>hi</h1>"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := bus.PublishSync(ctx, events.QuoteGenerated{BaseEvent: events.NewBaseEventAt(at), LeadID: "lead_1", QuoteID: "quote_2", Kind: domain.QuoteBallpark}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(objs.objects) != 2 {
		t.Fatalf("expected 2 archived objects, got %v", objs.objects)
	}
	if objs.objects["archive/"+ExportKey(at)] != `{"version":1}` {
		t.Fatalf("export not archived: %v", objs.objects)
	}
	if objs.types["archive/proposals/lead_1/quote_1.html"] != contentTypeHTML {
		t.Fatalf("proposal not archived as html: %v", objs.types)
	}
}

func TestPutExportError(t *testing.T) {
	objs := newMemObjects()
	objs.err = errors.New("down")
	a := New(objs, "archive", logger.Discard())

	if _, err := a.PutExport(context.Background(), []byte("{}"), time.Now()); err == nil {
		t.Fatalf("expected error")
	}
	if err := a.EnsureBucket(context.Background()); err == nil || len(objs.buckets) != 1 || objs.buckets[0] != "archive" {
		t.Fatalf("expected bucket check against archive, got %v", objs.buckets)
	}
}
