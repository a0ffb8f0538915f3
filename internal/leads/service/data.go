package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"filmleads_backend/internal/events"
	"filmleads_backend/internal/leads/domain"
	"filmleads_backend/internal/leads/transport"
	"filmleads_backend/internal/pricing"
	"filmleads_backend/internal/settings"
	"filmleads_backend/internal/store"
	"filmleads_backend/platform/apperr"
)

// PreviewQuote prices a lead with the given inputs. Nothing is stored.
func (s *Service) PreviewQuote(ctx context.Context, leadID string, req transport.PreviewRequest) (transport.PreviewResponse, error) {
	db, err := s.load(ctx)
	if err != nil {
		return transport.PreviewResponse{}, err
	}
	idx, err := leadIndex(db, leadID)
	if err != nil {
		return transport.PreviewResponse{}, err
	}

	q, err := pricing.ComputeQuote(db.Settings, db.Leads[idx].PricingJob(), pricing.Options{
		MeasuredSqft:   req.MeasuredSqft,
		Complexity:     req.Complexity,
		MarginTier:     req.MarginTier,
		IncludeRemoval: req.IncludeRemoval,
		HeavyAdhesive:  req.HeavyAdhesive,
		PermitHandling: req.PermitHandling,
	})
	if err != nil {
		return transport.PreviewResponse{}, pricingError(err)
	}
	return transport.PreviewResponse{LeadID: leadID, Quote: q}, nil
}

// Settings returns the pricing configuration in effect.
func (s *Service) Settings(ctx context.Context) (transport.SettingsResponse, error) {
	db, err := s.load(ctx)
	if err != nil {
		return transport.SettingsResponse{}, err
	}
	return transport.SettingsResponse{Settings: db.Settings}, nil
}

// ApplySettings replaces the stored pricing configuration. Existing quotes keep their numbers.
func (s *Service) ApplySettings(ctx context.Context, next *settings.Settings) (transport.SettingsResponse, error) {
	if next == nil {
		return transport.SettingsResponse{}, apperr.Validation("settings are required")
	}
	if err := next.Validate(); err != nil {
		return transport.SettingsResponse{}, apperr.Wrap(apperr.KindValidation, err.Error(), err)
	}

	err := s.update(ctx, func(db *domain.Database, _ time.Time) error {
		db.Settings = next
		return nil
	})
	if err != nil {
		return transport.SettingsResponse{}, err
	}
	s.log.Info("settings applied", "currency", next.CurrencyCode())
	return transport.SettingsResponse{Settings: next}, nil
}

// Export returns the whole database as indented JSON.
func (s *Service) Export(ctx context.Context) ([]byte, error) {
	db, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := store.Encode(db)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.DatabaseExported{
		BaseEvent: events.NewBaseEventAt(s.clock.Now()),
		Body:      raw,
	})
	return raw, nil
}

// Import replaces the database with raw. Invalid input leaves the store untouched.
// Stored scores are ignored; they are recomputed on read.
func (s *Service) Import(ctx context.Context, raw []byte) (transport.ImportResponse, error) {
	imported, err := store.Decode(raw)
	if err != nil {
		if errors.Is(err, store.ErrInvalidDocument) {
			return transport.ImportResponse{}, apperr.Wrap(apperr.KindValidation, "invalid import file", err)
		}
		return transport.ImportResponse{}, err
	}
	if err := imported.Settings.Validate(); err != nil {
		return transport.ImportResponse{}, apperr.Wrap(apperr.KindValidation, err.Error(), err)
	}

	err = s.update(ctx, func(db *domain.Database, _ time.Time) error {
		*db = *imported
		return nil
	})
	if err != nil {
		return transport.ImportResponse{}, err
	}

	resp := transport.ImportResponse{
		Leads:    len(imported.Leads),
		Tasks:    len(imported.Tasks),
		Quotes:   len(imported.Quotes),
		Messages: len(imported.Messages),
	}
	s.log.Info("database imported", slog.Int("leads", resp.Leads), slog.Int("quotes", resp.Quotes))
	return resp, nil
}
