package scoring

import (
	"regexp"
	"strings"

	"filmleads_backend/internal/leads/domain"
)

var (
	privacyPattern = regexp.MustCompile(`(?i)privacy`)
	solarPattern   = regexp.MustCompile(`(?i)heat|glare|sun`)
	uvPattern      = regexp.MustCompile(`(?i)uv`)
)

// Insights is the intake checklist shown next to a lead.
type Insights struct {
	MissingInfo  []string `json:"missingInfo"`
	RevenuePlays []string `json:"revenuePlays"`
}

// LeadInsights lists what is still needed to quote firmly and which upsells fit.
func LeadInsights(lead domain.Lead) Insights {
	missing := make([]string, 0, 7)

	if _, ok := lead.ValidSqft(); !ok {
		missing = append(missing, "Rough total sqft (or a window list W×H×qty).")
	}
	if !lead.HasLocation() {
		missing = append(missing, "Site address / city (for scheduling).")
	}
	if lead.RemovalNeeded == nil {
		missing = append(missing, "Existing film removal needed? (Y/N).")
	}
	if lead.Access == nil || strings.TrimSpace(*lead.Access) == "" {
		missing = append(missing, "Access constraints (ground/ladder/lift, after-hours).")
	}
	if len(lead.Goals) == 0 {
		missing = append(missing, "Top 1–2 goals (heat/glare/privacy/safety/looks).")
	}
	glassNotes := lead.Glass.Notes != nil && strings.TrimSpace(*lead.Glass.Notes) != ""
	if !lead.HasGlassInfo() && !glassNotes {
		missing = append(missing, "Glass type (dual-pane? low‑e? tempered/laminated if known).")
	}
	if lead.IsCommercial() {
		missing = append(missing, "COI required? Site contact + allowed work hours.")
	}

	plays := make([]string, 0, 5)
	goalText := strings.Join(lead.Goals, " ")
	if lead.Notes != nil {
		goalText += " " + *lead.Notes
	}
	if privacyPattern.MatchString(goalText) {
		plays = append(plays, "Offer a day-privacy option (dual-reflective) + a frosted/decorative option for bathrooms/entry glass.")
	}
	if solarPattern.MatchString(goalText) {
		plays = append(plays, "Present 3-tier solar options (good/better/best) to lift AOV without adding sales time.")
	}
	if uvPattern.MatchString(goalText) {
		plays = append(plays, "Add UV/warranty language + upsell to a higher-spec film if the client mentions fading.")
	}
	if lead.IsCommercial() {
		plays = append(plays, "Suggest street-level anti-graffiti film and/or safety/security film as an add-on line item.")
	}
	if lead.FilmCategory == "" || lead.FilmCategory == "unsure" {
		plays = append(plays, "Run a virtual measure (video walkthrough) before quoting firm pricing to reduce scope creep.")
	}

	return Insights{MissingInfo: missing, RevenuePlays: plays}
}
