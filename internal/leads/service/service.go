// Package service orchestrates the lead desk: intake, scoring on read,
// follow-ups, quotes and reply drafts. Every command loads the database,
// changes it and saves it under one lock.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"filmleads_backend/internal/events"
	"filmleads_backend/internal/leads/domain"
	"filmleads_backend/internal/pricing"
	"filmleads_backend/internal/store"
	"filmleads_backend/platform/apperr"
	"filmleads_backend/platform/logger"
	"filmleads_backend/platform/phone"

	"github.com/google/uuid"
)

// CodeMissingSqft is the error code returned when a lead cannot be priced.
const CodeMissingSqft = "missing_sqft"

// ErrLeadNotFound is matched with errors.Is on not-found results.
var ErrLeadNotFound = errors.New("lead not found")

// Clock supplies timestamps for new records and history entries.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// IDGenerator creates record ids of the form prefix_suffix.
type IDGenerator interface {
	New(prefix string) string
}

// UUIDGenerator suffixes ids with a random UUID.
type UUIDGenerator struct{}

func (UUIDGenerator) New(prefix string) string { return prefix + "_" + uuid.NewString() }

// EmailSender delivers email-channel drafts.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Service is the lead desk application service.
type Service struct {
	mu sync.Mutex
	// sending holds message ids with a delivery in flight. Guarded by mu.
	sending map[string]struct{}

	codec  *store.Codec
	bus    events.Bus
	log    *logger.Logger
	clock  Clock
	ids    IDGenerator
	phones phone.Normalizer
	sender EmailSender
}

// New creates the service over codec. Clock and ids default to the system
// clock and UUIDs; use the setters to replace them.
func New(codec *store.Codec, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		sending: make(map[string]struct{}),
		codec:   codec,
		bus:     bus,
		log:     log,
		clock:   SystemClock{},
		ids:     UUIDGenerator{},
		phones:  phone.NewNormalizer(phone.DefaultRegion),
	}
}

// SetClock replaces the clock.
func (s *Service) SetClock(c Clock) { s.clock = c }

// SetIDGenerator replaces the id generator.
func (s *Service) SetIDGenerator(g IDGenerator) { s.ids = g }

// SetPhoneRegion sets the region used to normalize phone numbers.
func (s *Service) SetPhoneRegion(region string) { s.phones = phone.NewNormalizer(region) }

// SetEmailSender enables delivery of email drafts.
func (s *Service) SetEmailSender(sender EmailSender) { s.sender = sender }

// load reads the current database without taking the write lock.
func (s *Service) load(ctx context.Context) (*domain.Database, error) {
	db, err := s.codec.Load(ctx)
	if err != nil {
		s.log.StoreError("load", err)
		return nil, err
	}
	return db, nil
}

// update runs fn on a freshly loaded database and saves the result.
// Nothing is saved when fn fails.
func (s *Service) update(ctx context.Context, fn func(db *domain.Database, now time.Time) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.load(ctx)
	if err != nil {
		return err
	}
	if err := fn(db, s.clock.Now()); err != nil {
		return err
	}
	if err := s.codec.Save(ctx, db); err != nil {
		s.log.StoreError("save", err)
		return err
	}
	return nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, event)
}

func leadIndex(db *domain.Database, leadID string) (int, error) {
	idx := db.LeadIndex(leadID)
	if idx < 0 {
		return -1, apperr.Wrap(apperr.KindNotFound, "lead not found", ErrLeadNotFound)
	}
	return idx, nil
}

// pricingError maps engine failures to API errors.
func pricingError(err error) error {
	if errors.Is(err, pricing.ErrMissingSqft) {
		return apperr.Unprocessable(CodeMissingSqft, err)
	}
	return err
}
