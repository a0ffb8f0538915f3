// Package transport holds the request and response shapes of the leads API.
package transport

import (
	"filmleads_backend/internal/leads/domain"
	"filmleads_backend/internal/leads/scoring"
	"filmleads_backend/internal/pricing"
	"filmleads_backend/internal/settings"
)

// CreateLeadRequest is the intake form for a new lead. Every field is optional.
type CreateLeadRequest struct {
	Source        string   `json:"source" validate:"omitempty,oneof=manual web phone"`
	Name          string   `json:"name" validate:"max=200"`
	Phone         string   `json:"phone" validate:"omitempty,max=40,e164ish"`
	Email         string   `json:"email" validate:"max=320"`
	Address       string   `json:"address" validate:"max=300"`
	City          string   `json:"city" validate:"max=120"`
	State         string   `json:"state" validate:"max=60"`
	JobType       string   `json:"jobType" validate:"omitempty,oneof=residential commercial both"`
	SqftEstimate  *float64 `json:"sqftEstimate" validate:"omitempty,gt=0,lt=10000000"`
	FilmCategory  string   `json:"filmCategory" validate:"max=80"`
	Goals         []string `json:"goals" validate:"max=20,dive,max=80"`
	DualPane      *bool    `json:"dualPane"`
	LowE          *bool    `json:"lowE"`
	GlassNotes    string   `json:"glassNotes" validate:"max=2000"`
	RemovalNeeded *bool    `json:"removalNeeded"`
	Access        string   `json:"access" validate:"max=500"`
	Notes         string   `json:"notes" validate:"max=5000"`
	Tags          []string `json:"tags" validate:"max=20,dive,max=60"`
}

// PreviewRequest prices a lead with caller-chosen inputs without saving anything.
type PreviewRequest struct {
	MeasuredSqft   *float64 `json:"measuredSqft" validate:"omitempty,gt=0"`
	Complexity     string   `json:"complexity" validate:"omitempty,oneof=simple mixed complex"`
	MarginTier     string   `json:"grossMarginTier" validate:"omitempty,oneof=good better best"`
	IncludeRemoval *bool    `json:"includeRemoval"`
	HeavyAdhesive  bool     `json:"heavyAdhesive"`
	PermitHandling bool     `json:"permitHandling"`
}

// LeadResponse is a lead with its score computed at read time.
type LeadResponse struct {
	domain.Lead
	scoring.Result
}

// LeadDetailResponse adds the intake checklist to a lead.
type LeadDetailResponse struct {
	LeadResponse
	Insights scoring.Insights `json:"insights"`
}

// LeadListResponse is the lead listing, most recently updated first.
type LeadListResponse struct {
	Items []LeadResponse `json:"items"`
	Total int            `json:"total"`
}

// TaskListResponse lists a lead's tasks by due time.
type TaskListResponse struct {
	Items []domain.Task `json:"items"`
}

// QuoteListResponse lists a lead's quotes, oldest first.
type QuoteListResponse struct {
	Items []domain.Quote `json:"items"`
}

// MessageListResponse lists a lead's messages, oldest first.
type MessageListResponse struct {
	Items []domain.Message `json:"items"`
}

// FollowUpsResponse reports the tasks created by one follow-up call.
type FollowUpsResponse struct {
	Created int           `json:"created"`
	Tasks   []domain.Task `json:"tasks"`
}

// DraftReplyResponse holds the draft and, when one was generated on the way, the ballpark quote.
type DraftReplyResponse struct {
	Message domain.Message `json:"message"`
	Quote   *domain.Quote  `json:"quote,omitempty"`
}

// PreviewResponse is an unsaved price breakdown.
type PreviewResponse struct {
	LeadID string        `json:"leadId"`
	Quote  pricing.Quote `json:"quote"`
}

// ImportResponse summarizes an imported database.
type ImportResponse struct {
	Leads    int `json:"leads"`
	Tasks    int `json:"tasks"`
	Quotes   int `json:"quotes"`
	Messages int `json:"messages"`
}

// SettingsResponse is the pricing configuration in effect.
type SettingsResponse struct {
	Settings *settings.Settings `json:"settings"`
}
