package scoring

import (
	"math"

	"filmleads_backend/internal/leads/domain"
)

const (
	// scoreVersion tracks the scoring model for debugging and analysis.
	// Bump this when changing scoring logic.
	scoreVersion = "2026-wf1"

	pointsContact    = 15.0
	pointsLocation   = 10.0
	pointsGoalsClear = 10.0
	pointsGoalsSome  = 5.0
	pointsGlass      = 5.0
	pointsRemoval    = 5.0
	pointsCommercial = 5.0

	// sqft points follow 5 + log10(max(10, sqft)) * 10, capped here.
	maxSqftPoints = 25.0
)

// Reason texts, in evaluation order.
const (
	ReasonContactable     = "Contactable (phone/email)."
	ReasonMissingContact  = "Missing contact details."
	ReasonHasLocation     = "Has location."
	ReasonMissingLocation = "Missing location (harder to schedule)."
	ReasonHasSqft         = "Has sqft estimate (can quote faster)."
	ReasonNoSqft          = "No sqft estimate yet."
	ReasonClearGoals      = "Clear goals."
	ReasonSomeGoals       = "Some goals provided."
	ReasonGoalsUnknown    = "Goals unknown."
	ReasonGlassInfo       = "Some glass info provided."
	ReasonGlassUnknown    = "Glass type unknown (risk)."
	ReasonRemovalNeeded   = "Removal needed (higher ticket)."
	ReasonCommercial      = "Commercial lead (typically larger value)."
	ActionScheduleMeasure = "Schedule a quick measure (virtual or onsite) to lock scope."
	ActionSendBallpark    = "Send a ballpark quote + 2–3 film options, then book measure/installation."
)

// Result is the derived score of a lead. It is never persisted.
type Result struct {
	Score          int      `json:"score"`
	Reasons        []string `json:"scoreReasons"`
	NextBestAction string   `json:"nextBestAction"`
	Version        string   `json:"scoreVersion"`
}

// ScoreLead rates how ready a lead is to quote. Deterministic; reads only the lead.
func ScoreLead(lead domain.Lead) Result {
	var score float64
	reasons := make([]string, 0, 7)

	if lead.HasContact() {
		score += pointsContact
		reasons = append(reasons, ReasonContactable)
	} else {
		reasons = append(reasons, ReasonMissingContact)
	}

	if lead.HasLocation() {
		score += pointsLocation
		reasons = append(reasons, ReasonHasLocation)
	} else {
		reasons = append(reasons, ReasonMissingLocation)
	}

	sqft, hasSqft := lead.ValidSqft()
	if hasSqft {
		score += sqftPoints(sqft)
		reasons = append(reasons, ReasonHasSqft)
	} else {
		reasons = append(reasons, ReasonNoSqft)
	}

	switch n := len(lead.Goals); {
	case n >= 2:
		score += pointsGoalsClear
		reasons = append(reasons, ReasonClearGoals)
	case n == 1:
		score += pointsGoalsSome
		reasons = append(reasons, ReasonSomeGoals)
	default:
		reasons = append(reasons, ReasonGoalsUnknown)
	}

	if lead.HasGlassInfo() {
		score += pointsGlass
		reasons = append(reasons, ReasonGlassInfo)
	} else {
		reasons = append(reasons, ReasonGlassUnknown)
	}

	if lead.NeedsRemoval() {
		score += pointsRemoval
		reasons = append(reasons, ReasonRemovalNeeded)
	}

	if lead.IsCommercial() {
		score += pointsCommercial
		reasons = append(reasons, ReasonCommercial)
	}

	action := ActionSendBallpark
	if !hasSqft {
		action = ActionScheduleMeasure
	}

	return Result{
		Score:          clampScore(score),
		Reasons:        reasons,
		NextBestAction: action,
		Version:        scoreVersion,
	}
}

func sqftPoints(sqft float64) float64 {
	return math.Min(maxSqftPoints, 5+math.Log10(math.Max(10, sqft))*10)
}

func clampScore(value float64) int {
	rounded := int(math.Round(value))
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}
