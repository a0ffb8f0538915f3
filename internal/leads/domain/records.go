package domain

import (
	"time"

	"filmleads_backend/internal/pricing"
)

// Task status and type values.
const (
	TaskOpen      = "OPEN"
	TaskDone      = "DONE"
	TaskCancelled = "CANCELLED"

	TaskFollowUp1H  = "FOLLOWUP_1H"
	TaskFollowUp24H = "FOLLOWUP_24H"
	TaskFollowUp72H = "FOLLOWUP_72H"
)

// Task is a scheduled follow-up for a lead. At most one task per (LeadID, Type).
type Task struct {
	ID        string    `json:"id"`
	LeadID    string    `json:"leadId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Status    string    `json:"status"`
	Type      string    `json:"type"`
	DueAt     time.Time `json:"dueAt"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
}

// FollowUpTemplate describes one of the default follow-up tasks.
type FollowUpTemplate struct {
	Type  string
	Due   time.Duration
	Title string
	Body  string
}

// DefaultFollowUps is the fixed follow-up cadence, in creation order.
var DefaultFollowUps = []FollowUpTemplate{
	{Type: TaskFollowUp1H, Due: time.Hour, Title: "Send ballpark + film options", Body: "Send ballpark + ask for glass type and a video walkthrough."},
	{Type: TaskFollowUp24H, Due: 24 * time.Hour, Title: "Follow up (24h)", Body: "If no response, send 2 time slots for a measure."},
	{Type: TaskFollowUp72H, Due: 72 * time.Hour, Title: "Last touch (72h)", Body: "Final check-in. Offer a quick call."},
}

// Quote kinds.
const (
	QuoteBallpark = "ballpark"
	QuoteProposal = "proposal"
)

// QuoteInputs records exactly what a quote was computed from.
type QuoteInputs struct {
	MeasuredSqft    *float64 `json:"measuredSqft"`
	Complexity      string   `json:"complexity"`
	GrossMarginTier string   `json:"grossMarginTier,omitempty"`
}

// QuoteOutputs holds the kind-specific results.
type QuoteOutputs struct {
	Range        *pricing.BallparkRange `json:"range,omitempty"`
	Text         string                 `json:"text,omitempty"`
	Computed     *pricing.Quote         `json:"computed,omitempty"`
	ProposalHTML string                 `json:"proposalHtml,omitempty"`
}

// Quote is an immutable pricing result tied to a lead.
type Quote struct {
	ID        string       `json:"id"`
	LeadID    string       `json:"leadId"`
	CreatedAt time.Time    `json:"createdAt"`
	Kind      string       `json:"kind"`
	Inputs    QuoteInputs  `json:"inputs"`
	Outputs   QuoteOutputs `json:"outputs"`
}

// Message channels and statuses.
const (
	ChannelSMS   = "sms"
	ChannelEmail = "email"
	ChannelNote  = "note"

	MessageDraft  = "DRAFT"
	MessageSent   = "SENT"
	MessageFailed = "FAILED"
)

// Message is an outreach draft, possibly delivered later.
type Message struct {
	ID        string     `json:"id"`
	LeadID    string     `json:"leadId"`
	CreatedAt time.Time  `json:"createdAt"`
	Status    string     `json:"status"`
	Channel   string     `json:"channel"`
	To        *string    `json:"to"`
	Subject   *string    `json:"subject"`
	Body      string     `json:"body"`
	SentAt    *time.Time `json:"sentAt,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// PickChannel chooses sms when a phone is known, else email, else a note.
func PickChannel(lead Lead) string {
	switch {
	case lead.Phone() != "":
		return ChannelSMS
	case lead.Email() != "":
		return ChannelEmail
	default:
		return ChannelNote
	}
}
