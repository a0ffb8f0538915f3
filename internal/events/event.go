package events

import (
	"time"

	"filmleads_backend/platform/events"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var (
	NewBaseEvent   = events.NewBaseEvent
	NewBaseEventAt = events.NewBaseEventAt
)

// Event names.
const (
	NameLeadCreated      = "leads.lead.created"
	NameQuoteGenerated   = "leads.quote.generated"
	NameFollowUpsCreated = "leads.followups.created"
	NameFollowUpDue      = "leads.followup.due"
	NameMessageDrafted   = "leads.message.drafted"
	NameMessageSent      = "leads.message.sent"
	NameDatabaseExported = "leads.database.exported"
)

// LeadCreated is published after a new lead is saved.
type LeadCreated struct {
	BaseEvent
	LeadID string `json:"leadId"`
	Source string `json:"source"`
}

func (e LeadCreated) EventName() string { return NameLeadCreated }

// QuoteGenerated is published after a ballpark or proposal quote is saved.
// Low and High are equal for proposals.
type QuoteGenerated struct {
	BaseEvent
	LeadID       string  `json:"leadId"`
	QuoteID      string  `json:"quoteId"`
	Kind         string  `json:"kind"`
	Low          float64 `json:"low"`
	High         float64 `json:"high"`
	ProposalHTML string  `json:"-"`
}

func (e QuoteGenerated) EventName() string { return NameQuoteGenerated }

// FollowUpTask describes one task created in a follow-up batch.
type FollowUpTask struct {
	TaskID string    `json:"taskId"`
	Type   string    `json:"type"`
	Title  string    `json:"title"`
	DueAt  time.Time `json:"dueAt"`
}

// FollowUpsCreated is published when at least one follow-up task was added.
type FollowUpsCreated struct {
	BaseEvent
	LeadID string         `json:"leadId"`
	Tasks  []FollowUpTask `json:"tasks"`
}

func (e FollowUpsCreated) EventName() string { return NameFollowUpsCreated }

// FollowUpDue is published by the reminder worker when a task comes due.
type FollowUpDue struct {
	BaseEvent
	LeadID string `json:"leadId"`
	TaskID string `json:"taskId"`
	Type   string `json:"type"`
	Title  string `json:"title"`
}

func (e FollowUpDue) EventName() string { return NameFollowUpDue }

// MessageDrafted is published after a reply draft is saved.
type MessageDrafted struct {
	BaseEvent
	LeadID    string `json:"leadId"`
	MessageID string `json:"messageId"`
	Channel   string `json:"channel"`
}

func (e MessageDrafted) EventName() string { return NameMessageDrafted }

// MessageSent is published after a delivery attempt, successful or not.
type MessageSent struct {
	BaseEvent
	LeadID    string `json:"leadId"`
	MessageID string `json:"messageId"`
	Channel   string `json:"channel"`
	Status    string `json:"status"`
}

func (e MessageSent) EventName() string { return NameMessageSent }

// DatabaseExported carries a full export so it can be archived.
type DatabaseExported struct {
	BaseEvent
	Body []byte `json:"-"`
}

func (e DatabaseExported) EventName() string { return NameDatabaseExported }
