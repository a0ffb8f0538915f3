package render

import (
	"strconv"
	"strings"

	"filmleads_backend/internal/leads/domain"
	"filmleads_backend/internal/pricing"
)

// DiscoveryQuestion is the reply used when no ballpark can be given yet.
const DiscoveryQuestion = "I can get you a fast ballpark today—what’s the rough total sqft and is it residential or commercial?"

const (
	smsNextStepWithRange = "If that range works, I can recommend 2–3 film options and book a quick measure to confirm glass type."
	smsNextStepNoRange   = "If you can send a quick video walkthrough (or window sizes), I can firm up pricing and recommend the right film."
	emailSubjectFallback = "Your Site"
)

// BallparkText is the customer-facing sentence for a ballpark range.
func BallparkText(lead domain.Lead, r pricing.BallparkRange, currency string) string {
	sqft := "your windows"
	if r.MeasuredSqft != 0 {
		sqft = strconv.FormatFloat(r.MeasuredSqft, 'f', -1, 64) + " sqft"
	}
	city := ""
	if c := lead.City(); c != "" {
		city = " in " + c
	}
	goals := ""
	if len(lead.Goals) > 0 {
		goals = " (" + strings.Join(lead.Goals, ", ") + ")"
	}

	var b strings.Builder
	b.WriteString("Ballpark for ")
	b.WriteString(sqft)
	b.WriteString(city)
	b.WriteString(" is ")
	b.WriteString(FormatMoney(currency, r.Low))
	b.WriteString("–")
	b.WriteString(FormatMoney(currency, r.High))
	b.WriteString(" installed.")
	b.WriteString(" Assumes standard access, interior install where appropriate, and glass-type verification.")
	b.WriteString(" Next step: send a quick video walkthrough + confirm if the glass is dual-pane/low‑e.")
	b.WriteString(goals)
	return b.String()
}

// SMSDraft wraps quoteText in a short text message. withRange selects the
// closing line used after a ballpark was given.
func SMSDraft(lead domain.Lead, quoteText string, withRange bool) string {
	name := ""
	if first := lead.FirstName(); first != "" {
		name = " " + first
	}
	next := smsNextStepNoRange
	if withRange {
		next = smsNextStepWithRange
	}
	return "Hi" + name + "—thanks for reaching out. " + quoteText + "\n\n" + next
}

// EmailDraft returns the subject and body of an estimate email.
func EmailDraft(lead domain.Lead, quoteText string) (subject, body string) {
	city := lead.City()
	if city == "" {
		city = emailSubjectFallback
	}
	subject = "Window Film Estimate — " + city

	name := ""
	if full := lead.Name(); full != "" {
		name = " " + full
	}

	var b strings.Builder
	b.WriteString("Hi" + name + ",\n\n")
	b.WriteString(quoteText + "\n\n")
	b.WriteString("To firm this up, please reply with:\n")
	b.WriteString("1) Confirmation if the glass is dual-pane / low‑e (if known)\n")
	b.WriteString("2) A quick video walkthrough (or window sizes)\n")
	b.WriteString("3) Any old film removal needed\n\n")
	b.WriteString("Thanks,\n")
	return subject, b.String()
}
