package service

import (
	"context"
	"strings"
	"time"

	"filmleads_backend/internal/events"
	"filmleads_backend/internal/leads/domain"
	"filmleads_backend/internal/leads/scoring"
	"filmleads_backend/internal/leads/transport"
	"filmleads_backend/internal/pricing"
	"filmleads_backend/platform/apperr"
	"filmleads_backend/platform/sanitize"
)

// CreateLead normalizes the intake form and stores a NEW lead.
func (s *Service) CreateLead(ctx context.Context, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	lead := s.leadFromRequest(req)

	err := s.update(ctx, func(db *domain.Database, now time.Time) error {
		lead.ID = s.ids.New("lead")
		lead = domain.Apply(lead, domain.HistoryEntry{
			At:     now,
			Type:   domain.EntryLeadCreated,
			By:     domain.ActorUser,
			Detail: map[string]any{"source": lead.Source},
		})
		db.Leads = append(db.Leads, lead)
		return nil
	})
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.log.LeadEvent(domain.EntryLeadCreated, lead.ID)
	s.publish(ctx, events.LeadCreated{
		BaseEvent: events.NewBaseEventAt(lead.CreatedAt),
		LeadID:    lead.ID,
		Source:    lead.Source,
	})
	return toLeadResponse(lead), nil
}

func (s *Service) leadFromRequest(req transport.CreateLeadRequest) domain.Lead {
	source := req.Source
	if source == "" {
		source = domain.SourceManual
	}
	jobType := req.JobType
	if jobType == "" {
		jobType = domain.JobBoth
	}
	film := strings.ToLower(sanitize.Text(req.FilmCategory))
	if film == "" {
		film = pricing.FilmUnsure
	}

	var sqft *float64
	if req.SqftEstimate != nil {
		v := *req.SqftEstimate
		sqft = &v
	}

	return domain.Lead{
		Status: domain.StatusNew,
		Source: source,
		Contact: domain.Contact{
			Name:  optional(req.Name),
			Phone: optional(s.phones.E164(req.Phone)),
			Email: normalizeEmail(req.Email),
		},
		Location: domain.Location{
			Address: optional(req.Address),
			City:    optional(req.City),
			State:   optional(strings.ToUpper(req.State)),
		},
		JobType:      jobType,
		SqftEstimate: sqft,
		FilmCategory: film,
		Goals:        sanitize.List(req.Goals),
		Glass: domain.Glass{
			DualPane: req.DualPane,
			LowE:     req.LowE,
			Notes:    optional(req.GlassNotes),
		},
		RemovalNeeded: req.RemovalNeeded,
		Access:        optional(req.Access),
		Notes:         optional(req.Notes),
		Tags:          sanitize.List(req.Tags),
		History:       []domain.HistoryEntry{},
	}
}

// ListLeads returns every lead, most recently updated first, each rescored.
func (s *Service) ListLeads(ctx context.Context) (transport.LeadListResponse, error) {
	db, err := s.load(ctx)
	if err != nil {
		return transport.LeadListResponse{}, err
	}

	leads := db.LeadsByRecency()
	items := make([]transport.LeadResponse, 0, len(leads))
	for _, l := range leads {
		items = append(items, toLeadResponse(l))
	}
	return transport.LeadListResponse{Items: items, Total: len(items)}, nil
}

// GetLead returns one lead with its score and intake checklist.
func (s *Service) GetLead(ctx context.Context, leadID string) (transport.LeadDetailResponse, error) {
	db, err := s.load(ctx)
	if err != nil {
		return transport.LeadDetailResponse{}, err
	}
	idx, err := leadIndex(db, leadID)
	if err != nil {
		return transport.LeadDetailResponse{}, err
	}

	lead := db.Leads[idx]
	return transport.LeadDetailResponse{
		LeadResponse: toLeadResponse(lead),
		Insights:     scoring.LeadInsights(lead),
	}, nil
}

// ListTasks returns the lead's tasks by due time.
func (s *Service) ListTasks(ctx context.Context, leadID string) (transport.TaskListResponse, error) {
	db, err := s.load(ctx)
	if err != nil {
		return transport.TaskListResponse{}, err
	}
	if _, err := leadIndex(db, leadID); err != nil {
		return transport.TaskListResponse{}, err
	}
	return transport.TaskListResponse{Items: db.TasksFor(leadID)}, nil
}

// ListQuotes returns the lead's quotes, oldest first.
func (s *Service) ListQuotes(ctx context.Context, leadID string) (transport.QuoteListResponse, error) {
	db, err := s.load(ctx)
	if err != nil {
		return transport.QuoteListResponse{}, err
	}
	if _, err := leadIndex(db, leadID); err != nil {
		return transport.QuoteListResponse{}, err
	}
	return transport.QuoteListResponse{Items: db.QuotesFor(leadID)}, nil
}

// ListMessages returns the lead's messages, oldest first.
func (s *Service) ListMessages(ctx context.Context, leadID string) (transport.MessageListResponse, error) {
	db, err := s.load(ctx)
	if err != nil {
		return transport.MessageListResponse{}, err
	}
	if _, err := leadIndex(db, leadID); err != nil {
		return transport.MessageListResponse{}, err
	}
	return transport.MessageListResponse{Items: db.MessagesFor(leadID)}, nil
}

// GetQuote returns a quote together with the lead it belongs to.
func (s *Service) GetQuote(ctx context.Context, quoteID string) (domain.Quote, domain.Lead, error) {
	db, err := s.load(ctx)
	if err != nil {
		return domain.Quote{}, domain.Lead{}, err
	}
	q, ok := db.QuoteByID(quoteID)
	if !ok {
		return domain.Quote{}, domain.Lead{}, apperr.NotFound("quote not found")
	}
	idx, err := leadIndex(db, q.LeadID)
	if err != nil {
		return domain.Quote{}, domain.Lead{}, err
	}
	return q, db.Leads[idx], nil
}

func toLeadResponse(l domain.Lead) transport.LeadResponse {
	return transport.LeadResponse{Lead: l, Result: scoring.ScoreLead(l)}
}

func optional(s string) *string {
	v := sanitize.Text(s)
	if v == "" {
		return nil
	}
	return &v
}

func normalizeEmail(s string) *string {
	v := strings.ToLower(strings.TrimSpace(s))
	if !strings.Contains(v, "@") {
		return nil
	}
	return &v
}
