package service

import (
	"context"
	"log/slog"
	"time"

	"filmleads_backend/internal/events"
	"filmleads_backend/internal/leads/domain"
	"filmleads_backend/platform/apperr"
)

// SendMessage delivers an email draft. The message ends SENT or FAILED and
// the attempt is recorded on the lead either way. Only email drafts can be sent.
// The write lock is not held during delivery.
func (s *Service) SendMessage(ctx context.Context, messageID string) (domain.Message, error) {
	if s.sender == nil {
		return domain.Message{}, apperr.Validation("email delivery is not configured")
	}

	msg, err := s.claimDraft(ctx, messageID)
	if err != nil {
		return domain.Message{}, err
	}

	subject := ""
	if msg.Subject != nil {
		subject = *msg.Subject
	}
	sendErr := s.sender.Send(ctx, *msg.To, subject, msg.Body)

	var saved domain.Message
	var now time.Time
	err = s.update(ctx, func(db *domain.Database, at time.Time) error {
		delete(s.sending, messageID)
		now = at

		mi := db.MessageIndex(messageID)
		if mi < 0 {
			return apperr.NotFound("message not found")
		}
		current := db.Messages[mi]
		if current.Status != domain.MessageDraft {
			return apperr.Validation("message is no longer a draft")
		}
		li, err := leadIndex(db, current.LeadID)
		if err != nil {
			return err
		}

		if sendErr != nil {
			current.Status = domain.MessageFailed
			current.Error = sendErr.Error()
			s.log.Warn("message delivery failed", "message_id", current.ID, "lead_id", current.LeadID, "error", sendErr)
		} else {
			current.Status = domain.MessageSent
			sentAt := at
			current.SentAt = &sentAt
		}
		db.Messages[mi] = current
		db.Leads[li] = domain.Apply(db.Leads[li], domain.HistoryEntry{
			At:     at,
			Type:   domain.EntryMessageSent,
			By:     domain.ActorUser,
			Detail: map[string]any{"messageId": current.ID, "status": current.Status},
		})
		saved = current
		return nil
	})
	if err != nil {
		s.releaseClaim(messageID)
		return domain.Message{}, err
	}

	s.log.LeadEvent(domain.EntryMessageSent, saved.LeadID, slog.String("status", saved.Status))
	s.publish(ctx, events.MessageSent{
		BaseEvent: events.NewBaseEventAt(now),
		LeadID:    saved.LeadID,
		MessageID: saved.ID,
		Channel:   saved.Channel,
		Status:    saved.Status,
	})
	return saved, nil
}

// claimDraft checks that messageID is a sendable draft and marks it in flight.
func (s *Service) claimDraft(ctx context.Context, messageID string) (domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.sending[messageID]; busy {
		return domain.Message{}, apperr.Validation("message is already being sent")
	}
	db, err := s.load(ctx)
	if err != nil {
		return domain.Message{}, err
	}
	mi := db.MessageIndex(messageID)
	if mi < 0 {
		return domain.Message{}, apperr.NotFound("message not found")
	}
	msg := db.Messages[mi]
	if msg.Channel != domain.ChannelEmail {
		return domain.Message{}, apperr.Validation("only email messages can be sent")
	}
	if msg.Status != domain.MessageDraft {
		return domain.Message{}, apperr.Validation("message is not a draft")
	}
	if msg.To == nil || *msg.To == "" {
		return domain.Message{}, apperr.Validation("message has no recipient")
	}
	if _, err := leadIndex(db, msg.LeadID); err != nil {
		return domain.Message{}, err
	}
	s.sending[messageID] = struct{}{}
	return msg, nil
}

func (s *Service) releaseClaim(messageID string) {
	s.mu.Lock()
	delete(s.sending, messageID)
	s.mu.Unlock()
}
