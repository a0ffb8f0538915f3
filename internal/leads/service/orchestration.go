package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"filmleads_backend/internal/events"
	"filmleads_backend/internal/leads/domain"
	"filmleads_backend/internal/leads/render"
	"filmleads_backend/internal/leads/transport"
	"filmleads_backend/internal/pricing"
	"filmleads_backend/internal/settings"
)

// CreateDefaultFollowUps adds the 1h, 24h and 72h follow-up tasks the lead
// does not have yet. Calling it again creates nothing.
func (s *Service) CreateDefaultFollowUps(ctx context.Context, leadID string) (transport.FollowUpsResponse, error) {
	var created []domain.Task

	err := s.update(ctx, func(db *domain.Database, now time.Time) error {
		idx, err := leadIndex(db, leadID)
		if err != nil {
			return err
		}

		existing := db.TaskTypesFor(leadID)
		for _, tpl := range domain.DefaultFollowUps {
			if _, ok := existing[tpl.Type]; ok {
				continue
			}
			created = append(created, domain.Task{
				ID:        s.ids.New("task"),
				LeadID:    leadID,
				CreatedAt: now,
				UpdatedAt: now,
				Status:    domain.TaskOpen,
				Type:      tpl.Type,
				DueAt:     now.Add(tpl.Due),
				Title:     tpl.Title,
				Body:      tpl.Body,
			})
		}
		if len(created) == 0 {
			return nil
		}

		db.Tasks = append(db.Tasks, created...)
		types := make([]string, 0, len(created))
		for _, t := range created {
			types = append(types, t.Type)
		}
		db.Leads[idx] = domain.Apply(db.Leads[idx], domain.HistoryEntry{
			At:     now,
			Type:   domain.EntryFollowUpsCreated,
			By:     domain.ActorSystem,
			Detail: map[string]any{"types": types},
		})
		return nil
	})
	if err != nil {
		return transport.FollowUpsResponse{}, err
	}

	if created == nil {
		created = []domain.Task{}
	}
	if len(created) > 0 {
		s.log.LeadEvent(domain.EntryFollowUpsCreated, leadID, slog.Int("created", len(created)))
		tasks := make([]events.FollowUpTask, 0, len(created))
		for _, t := range created {
			tasks = append(tasks, events.FollowUpTask{TaskID: t.ID, Type: t.Type, Title: t.Title, DueAt: t.DueAt})
		}
		s.publish(ctx, events.FollowUpsCreated{
			BaseEvent: events.NewBaseEventAt(created[0].CreatedAt),
			LeadID:    leadID,
			Tasks:     tasks,
		})
	}
	return transport.FollowUpsResponse{Created: len(created), Tasks: created}, nil
}

// GenerateBallparkQuote stores a ballpark quote from the lead's sqft estimate.
// A lead without a usable estimate fails with missing_sqft and is left untouched.
func (s *Service) GenerateBallparkQuote(ctx context.Context, leadID string) (domain.Quote, error) {
	var quote domain.Quote

	err := s.update(ctx, func(db *domain.Database, now time.Time) error {
		idx, err := leadIndex(db, leadID)
		if err != nil {
			return err
		}
		quote, err = s.addBallpark(db, idx, now)
		return err
	})
	if err != nil {
		return domain.Quote{}, err
	}

	s.quoteGenerated(ctx, quote)
	return quote, nil
}

// GenerateProposal stores a firm proposal at simple complexity and the better tier.
func (s *Service) GenerateProposal(ctx context.Context, leadID string) (domain.Quote, error) {
	var quote domain.Quote

	err := s.update(ctx, func(db *domain.Database, now time.Time) error {
		idx, err := leadIndex(db, leadID)
		if err != nil {
			return err
		}
		lead := db.Leads[idx]

		computed, err := pricing.ComputeQuote(db.Settings, lead.PricingJob(), pricing.Options{
			Complexity: settings.ComplexitySimple,
			MarginTier: settings.TierBetter,
		})
		if err != nil {
			return pricingError(err)
		}
		html, err := render.ProposalHTML(lead, computed, db.Settings, now)
		if err != nil {
			return fmt.Errorf("rendering proposal: %w", err)
		}

		quote = domain.Quote{
			ID:        s.ids.New("quote"),
			LeadID:    leadID,
			CreatedAt: now,
			Kind:      domain.QuoteProposal,
			Inputs: domain.QuoteInputs{
				MeasuredSqft:    copyFloat(lead.SqftEstimate),
				Complexity:      settings.ComplexitySimple,
				GrossMarginTier: settings.TierBetter,
			},
			Outputs: domain.QuoteOutputs{Computed: &computed, ProposalHTML: html},
		}
		db.Quotes = append(db.Quotes, quote)
		db.Leads[idx] = domain.Apply(lead, domain.HistoryEntry{
			At:     now,
			Type:   domain.EntryProposalCreated,
			By:     domain.ActorSystem,
			Detail: map[string]any{"quoteId": quote.ID},
		})
		return nil
	})
	if err != nil {
		return domain.Quote{}, err
	}

	s.quoteGenerated(ctx, quote)
	return quote, nil
}

// DraftReply stores a reply draft on the best available channel. Leads with
// an sqft estimate get a fresh ballpark quote first, saved together with the draft.
func (s *Service) DraftReply(ctx context.Context, leadID string) (transport.DraftReplyResponse, error) {
	var (
		msg   domain.Message
		quote *domain.Quote
	)

	err := s.update(ctx, func(db *domain.Database, now time.Time) error {
		idx, err := leadIndex(db, leadID)
		if err != nil {
			return err
		}

		quoteText := render.DiscoveryQuestion
		if est := db.Leads[idx].SqftEstimate; est != nil && *est != 0 {
			q, err := s.addBallpark(db, idx, now)
			switch {
			case err == nil:
				quote = &q
				quoteText = q.Outputs.Text
			case !errors.Is(err, pricing.ErrMissingSqft):
				return err
			}
		}

		lead := db.Leads[idx]
		msg = domain.Message{
			ID:        s.ids.New("msg"),
			LeadID:    leadID,
			CreatedAt: now,
			Status:    domain.MessageDraft,
			Channel:   domain.PickChannel(lead),
		}
		switch msg.Channel {
		case domain.ChannelSMS:
			msg.To = copyString(lead.Phone())
			msg.Body = render.SMSDraft(lead, quoteText, quote != nil)
		case domain.ChannelEmail:
			subject, body := render.EmailDraft(lead, quoteText)
			msg.To = copyString(lead.Email())
			msg.Subject = &subject
			msg.Body = body
		default:
			msg.Body = quoteText
		}

		db.Messages = append(db.Messages, msg)
		db.Leads[idx] = domain.Apply(lead, domain.HistoryEntry{
			At:     now,
			Type:   domain.EntryMessageDrafted,
			By:     domain.ActorSystem,
			Detail: map[string]any{"messageId": msg.ID, "channel": msg.Channel},
		})
		return nil
	})
	if err != nil {
		return transport.DraftReplyResponse{}, err
	}

	if quote != nil {
		s.quoteGenerated(ctx, *quote)
	}
	s.log.LeadEvent(domain.EntryMessageDrafted, leadID, slog.String("channel", msg.Channel))
	s.publish(ctx, events.MessageDrafted{
		BaseEvent: events.NewBaseEventAt(msg.CreatedAt),
		LeadID:    leadID,
		MessageID: msg.ID,
		Channel:   msg.Channel,
	})
	return transport.DraftReplyResponse{Message: msg, Quote: quote}, nil
}

// addBallpark prices the lead at db.Leads[idx], appends the quote and
// records QUOTE_CREATED. On error db is unchanged.
func (s *Service) addBallpark(db *domain.Database, idx int, now time.Time) (domain.Quote, error) {
	lead := db.Leads[idx]

	r, err := pricing.ComputeBallparkRange(db.Settings, lead.PricingJob(), lead.SqftEstimate, settings.ComplexitySimple)
	if err != nil {
		return domain.Quote{}, pricingError(err)
	}

	quote := domain.Quote{
		ID:        s.ids.New("quote"),
		LeadID:    lead.ID,
		CreatedAt: now,
		Kind:      domain.QuoteBallpark,
		Inputs: domain.QuoteInputs{
			MeasuredSqft: copyFloat(lead.SqftEstimate),
			Complexity:   settings.ComplexitySimple,
		},
		Outputs: domain.QuoteOutputs{
			Range: &r,
			Text:  render.BallparkText(lead, r, db.Settings.CurrencyCode()),
		},
	}
	db.Quotes = append(db.Quotes, quote)
	db.Leads[idx] = domain.Apply(lead, domain.HistoryEntry{
		At:     now,
		Type:   domain.EntryQuoteCreated,
		By:     domain.ActorSystem,
		Detail: map[string]any{"kind": domain.QuoteBallpark, "quoteId": quote.ID},
	})
	return quote, nil
}

func (s *Service) quoteGenerated(ctx context.Context, q domain.Quote) {
	event := events.QuoteGenerated{
		BaseEvent: events.NewBaseEventAt(q.CreatedAt),
		LeadID:    q.LeadID,
		QuoteID:   q.ID,
		Kind:      q.Kind,
	}
	switch {
	case q.Outputs.Range != nil:
		event.Low, event.High = q.Outputs.Range.Low, q.Outputs.Range.High
	case q.Outputs.Computed != nil:
		event.Low, event.High = q.Outputs.Computed.Total, q.Outputs.Computed.Total
		event.ProposalHTML = q.Outputs.ProposalHTML
	}

	s.log.LeadEvent(domain.EntryQuoteCreated, q.LeadID, slog.String("kind", q.Kind), slog.String("quote_id", q.ID))
	s.publish(ctx, event)
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func copyString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
