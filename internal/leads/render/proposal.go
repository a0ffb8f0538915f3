package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"math"
	"strconv"
	"strings"
	"time"

	"filmleads_backend/internal/leads/domain"
	"filmleads_backend/internal/pricing"
	"filmleads_backend/internal/settings"
)

//go:embed templates/*.html
var templateFS embed.FS

var proposalTemplate = template.Must(template.New("proposal.html").ParseFS(templateFS, "templates/proposal.html"))

type adderLine struct {
	Label  string
	Amount string
}

type proposalData struct {
	Date           string
	LeadID         string
	Customer       string
	Site           string
	Goals          string
	FilmType       string
	MeasuredSqft   string
	BillableSqft   string
	WastePct       int
	Material       string
	Labor          string
	AddersTotal    string
	Total          string
	MinimumApplied string
	Adders         []adderLine
	ValidUntil     string
	PaymentTerms   string
}

// ProposalHTML renders the client-facing proposal document for a computed
// quote. issuedAt dates the document and starts the validity window.
func ProposalHTML(lead domain.Lead, q pricing.Quote, s *settings.Settings, issuedAt time.Time) (string, error) {
	currency := s.CurrencyCode()
	money := func(v float64) string { return FormatMoney(currency, v) }

	data := proposalData{
		Date:         issuedAt.UTC().Format("2006-01-02"),
		LeadID:       lead.ID,
		Customer:     joinPresent(" · ", lead.Name(), lead.Email(), lead.Phone()),
		Site:         joinPresent(", ", deref(lead.Location.Address), lead.City(), deref(lead.Location.State)),
		Goals:        strings.Join(lead.Goals, ", "),
		FilmType:     q.FilmType,
		MeasuredSqft: strconv.FormatFloat(q.MeasuredSqft, 'f', -1, 64),
		BillableSqft: strconv.FormatFloat(q.BillableSqft, 'f', -1, 64),
		WastePct:     int(math.Round(q.WasteFactor * 100)),
		Material:     money(q.Costs.MaterialCost),
		Labor:        money(q.Costs.LaborCost),
		AddersTotal:  money(q.Costs.AddersTotal),
		Total:        money(q.Total),
		ValidUntil:   issuedAt.Add(s.QuoteValidity()).UTC().Format("2006-01-02"),
	}
	if data.Customer == "" {
		data.Customer = "—"
	}
	if data.Site == "" {
		data.Site = "—"
	}
	if q.MinimumJobApplied != nil {
		data.MinimumApplied = money(*q.MinimumJobApplied)
	}
	for _, a := range q.Costs.Adders {
		data.Adders = append(data.Adders, adderLine{Label: a.Label, Amount: money(a.Amount)})
	}
	if term, ok := s.PaymentTermFor(lead.IsCommercial()); ok {
		data.PaymentTerms = PaymentTermsText(term)
	}

	var buf bytes.Buffer
	if err := proposalTemplate.ExecuteTemplate(&buf, "proposal", data); err != nil {
		return "", fmt.Errorf("execute proposal template: %w", err)
	}
	return buf.String(), nil
}

// PaymentTermsText describes a payment term, e.g. "50% deposit, balance due on completion".
func PaymentTermsText(term settings.PaymentTerm) string {
	deposit := strconv.FormatFloat(math.Round(term.DepositPct*100), 'f', -1, 64)
	balance := strings.ReplaceAll(strings.TrimSpace(term.Balance), "_", " ")
	if balance == "" {
		return deposit + "% deposit"
	}
	return deposit + "% deposit, balance " + balance
}

func joinPresent(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
