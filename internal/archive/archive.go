// Package archive copies database exports and proposal documents to object storage.
package archive

import (
	"context"
	"log/slog"
	"path"
	"time"

	"filmleads_backend/internal/events"
	"filmleads_backend/internal/leads/domain"
	"filmleads_backend/platform/logger"
)

const (
	exportPrefix   = "exports"
	proposalPrefix = "proposals"

	contentTypeJSON = "application/json"
	contentTypeHTML = "text/html; charset=utf-8"
)

// ObjectStore is the storage backend an Archiver writes to.
type ObjectStore interface {
	EnsureBucket(ctx context.Context, bucket string) error
	Put(ctx context.Context, bucket, key, contentType string, body []byte) error
}

type Archiver struct {
	store  ObjectStore
	bucket string
	log    *logger.Logger
}

func New(store ObjectStore, bucket string, log *logger.Logger) *Archiver {
	return &Archiver{store: store, bucket: bucket, log: log}
}

// EnsureBucket prepares the archive bucket.
func (a *Archiver) EnsureBucket(ctx context.Context) error {
	return a.store.EnsureBucket(ctx, a.bucket)
}

// ExportKey names an export taken at at.
func ExportKey(at time.Time) string {
	return path.Join(exportPrefix, "window-film-workflow-db-"+at.UTC().Format("2006-01-02T150405Z")+".json")
}

// ProposalKey names the HTML document of a proposal quote.
func ProposalKey(leadID, quoteID string) string {
	return path.Join(proposalPrefix, leadID, quoteID+".html")
}

// PutExport stores a database export and returns its key.
func (a *Archiver) PutExport(ctx context.Context, body []byte, at time.Time) (string, error) {
	key := ExportKey(at)
	if err := a.store.Put(ctx, a.bucket, key, contentTypeJSON, body); err != nil {
		return "", err
	}
	return key, nil
}

// PutProposal stores a proposal document and returns its key.
func (a *Archiver) PutProposal(ctx context.Context, leadID, quoteID, html string) (string, error) {
	key := ProposalKey(leadID, quoteID)
	if err := a.store.Put(ctx, a.bucket, key, contentTypeHTML, []byte(html)); err != nil {
		return "", err
	}
	return key, nil
}

// Subscribe archives every export and every new proposal published on bus.
func (a *Archiver) Subscribe(bus events.Bus) {
	bus.Subscribe(events.NameDatabaseExported, events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.DatabaseExported)
		if !ok {
			return nil
		}
		key, err := a.PutExport(ctx, e.Body, e.OccurredAt())
		if err != nil {
			a.log.Error("failed to archive export", "error", err)
			return err
		}
		a.log.Info("export archived", "key", key, "bytes", len(e.Body))
		return nil
	}))

	bus.Subscribe(events.NameQuoteGenerated, events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.QuoteGenerated)
		if !ok || e.Kind != domain.QuoteProposal || e.ProposalHTML == "" {
			return nil
		}
		key, err := a.PutProposal(ctx, e.LeadID, e.QuoteID, e.ProposalHTML)
		if err != nil {
			a.log.Error("failed to archive proposal", "error", err, "leadId", e.LeadID, "quoteId", e.QuoteID)
			return err
		}
		a.log.LeadEvent("proposal archived", e.LeadID, slog.String("key", key))
		return nil
	}))
}
