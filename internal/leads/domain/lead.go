// Package domain provides core business rules for the leads bounded context.
package domain

import (
	"strings"
	"time"

	"filmleads_backend/internal/pricing"
)

// JobType values.
const (
	JobResidential = "residential"
	JobCommercial  = "commercial"
	JobBoth        = "both"
)

// Source values recorded on new leads.
const (
	SourceManual = "manual"
	SourceWeb    = "web"
	SourcePhone  = "phone"
)

// Contact is how a lead can be reached.
type Contact struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Email *string `json:"email"`
}

// Location is the job site.
type Location struct {
	Address *string `json:"address"`
	City    *string `json:"city"`
	State   *string `json:"state"`
}

// Glass captures what is known about the existing glazing. Nil means unknown.
type Glass struct {
	DualPane *bool   `json:"dualPane"`
	LowE     *bool   `json:"lowE"`
	Notes    *string `json:"notes"`
}

// Lead is the aggregate root. Score and next action are never stored; see scoring.ScoreLead.
type Lead struct {
	ID            string         `json:"id"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	Status        Status         `json:"status"`
	Source        string         `json:"source"`
	Contact       Contact        `json:"contact"`
	Location      Location       `json:"location"`
	JobType       string         `json:"jobType"`
	SqftEstimate  *float64       `json:"sqftEstimate"`
	FilmCategory  string         `json:"filmCategory"`
	Goals         []string       `json:"goals"`
	Glass         Glass          `json:"glass"`
	RemovalNeeded *bool          `json:"removalNeeded"`
	Access        *string        `json:"access"`
	Notes         *string        `json:"notes"`
	Tags          []string       `json:"tags"`
	History       []HistoryEntry `json:"history"`
}

// IsCommercial reports whether the lead is priced as commercial work.
func (l Lead) IsCommercial() bool {
	return l.JobType == JobCommercial
}

// Phone returns the trimmed phone number, or "".
func (l Lead) Phone() string { return text(l.Contact.Phone) }

// Email returns the trimmed email address, or "".
func (l Lead) Email() string { return text(l.Contact.Email) }

// Name returns the trimmed contact name, or "".
func (l Lead) Name() string { return text(l.Contact.Name) }

// City returns the trimmed city, or "".
func (l Lead) City() string { return text(l.Location.City) }

// FirstName returns the first word of the contact name.
func (l Lead) FirstName() string {
	fields := strings.Fields(l.Name())
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// HasContact reports whether a phone or email is present.
func (l Lead) HasContact() bool {
	return l.Phone() != "" || l.Email() != ""
}

// HasLocation reports whether a city or address is present.
func (l Lead) HasLocation() bool {
	return l.City() != "" || text(l.Location.Address) != ""
}

// HasGlassInfo reports whether either glass flag has been set.
func (l Lead) HasGlassInfo() bool {
	return l.Glass.DualPane != nil || l.Glass.LowE != nil
}

// NeedsRemoval reports whether removal was explicitly requested.
func (l Lead) NeedsRemoval() bool {
	return l.RemovalNeeded != nil && *l.RemovalNeeded
}

// ValidSqft returns the estimate when it is finite and positive.
func (l Lead) ValidSqft() (float64, bool) {
	sqft, err := pricing.EffectiveSqft(pricing.Job{SqftEstimate: l.SqftEstimate}, nil)
	return sqft, err == nil
}

// PricingJob returns the view of the lead the pricing engine needs.
func (l Lead) PricingJob() pricing.Job {
	film := l.FilmCategory
	if film == "" {
		film = pricing.FilmUnsure
	}
	return pricing.Job{
		SqftEstimate:  l.SqftEstimate,
		FilmType:      film,
		Commercial:    l.IsCommercial(),
		RemovalNeeded: l.RemovalNeeded,
	}
}

func text(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
