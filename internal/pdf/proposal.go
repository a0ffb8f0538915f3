// Package pdf renders proposal quotes as PDF documents using maroto/v2.
package pdf

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"filmleads_backend/internal/leads/domain"
	"filmleads_backend/internal/leads/render"
	"filmleads_backend/internal/settings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// ErrNotComputed is returned for quotes without a computed price breakdown.
var ErrNotComputed = errors.New("quote has no computed breakdown")

var (
	colorPrimary   = &props.Color{Red: 17, Green: 24, Blue: 39}    // near-black
	colorSecondary = &props.Color{Red: 107, Green: 114, Blue: 128} // gray-500
	colorAccent    = &props.Color{Red: 37, Green: 99, Blue: 235}   // blue-600
	colorTableHead = &props.Color{Red: 241, Green: 245, Blue: 249} // slate-100
	colorTableAlt  = &props.Color{Red: 249, Green: 250, Blue: 251} // gray-50
	colorBorder    = &props.Color{Red: 226, Green: 232, Blue: 240} // slate-200
)

var assumptions = []string{
	"Quote assumes standard access and prep. Surface condition may affect final price.",
	"Thermal-stress risk on unknown/low-e/aged IGUs must be reviewed before install.",
	"Permit/engineering not included unless explicitly listed.",
}

// Renderer produces proposal PDFs under a business name shown in the header and footer.
type Renderer struct {
	businessName string
}

func NewRenderer(businessName string) *Renderer {
	if strings.TrimSpace(businessName) == "" {
		businessName = "Window Film Proposal"
	}
	return &Renderer{businessName: businessName}
}

type line struct {
	label  string
	amount string
}

type proposalDoc struct {
	business   string
	quoteID    string
	date       string
	validUntil string
	customer   string
	site       string
	goals      string
	filmType   string
	sqft       string
	lines      []line
	total      string
	minimum    string
	payment    string
}

// ProposalPDF renders a stored proposal quote.
func (r *Renderer) ProposalPDF(lead domain.Lead, quote domain.Quote, s *settings.Settings) ([]byte, error) {
	q := quote.Outputs.Computed
	if q == nil {
		return nil, ErrNotComputed
	}
	currency := s.CurrencyCode()
	money := func(v float64) string { return render.FormatMoney(currency, v) }

	doc := proposalDoc{
		business:   r.businessName,
		quoteID:    quote.ID,
		date:       quote.CreatedAt.UTC().Format("2006-01-02"),
		validUntil: quote.CreatedAt.Add(s.QuoteValidity()).UTC().Format("2006-01-02"),
		customer:   orDash(joinParts(" · ", lead.Name(), lead.Email(), lead.Phone())),
		site:       orDash(joinParts(", ", value(lead.Location.Address), lead.City(), value(lead.Location.State))),
		goals:      orDash(strings.Join(lead.Goals, ", ")),
		filmType:   q.FilmType,
		sqft: fmt.Sprintf("%s measured, %s billable (%d%% waste)",
			strconv.FormatFloat(q.MeasuredSqft, 'f', -1, 64),
			strconv.FormatFloat(q.BillableSqft, 'f', -1, 64),
			int(math.Round(q.WasteFactor*100))),
		total: money(q.Total),
	}
	doc.lines = append(doc.lines,
		line{label: "Material", amount: money(q.Costs.MaterialCost)},
		line{label: "Labor", amount: money(q.Costs.LaborCost)},
	)
	for _, a := range q.Costs.Adders {
		doc.lines = append(doc.lines, line{label: a.Label, amount: money(a.Amount)})
	}
	if q.MinimumJobApplied != nil {
		doc.minimum = "Minimum job charge applied: " + money(*q.MinimumJobApplied)
	}
	if term, ok := s.PaymentTermFor(lead.IsCommercial()); ok {
		doc.payment = "Payment: " + render.PaymentTermsText(term) + "."
	}

	return generate(doc)
}

func generate(doc proposalDoc) ([]byte, error) {
	cfg := config.NewBuilder().
		WithLeftMargin(15).
		WithTopMargin(12).
		WithRightMargin(15).
		Build()

	m := maroto.New(cfg)
	if err := m.RegisterFooter(buildFooter(doc)); err != nil {
		return nil, fmt.Errorf("register footer: %w", err)
	}

	m.AddRows(buildHeader(doc)...)
	m.AddRows(separator(), row.New(6))
	m.AddRows(buildDetails(doc)...)
	m.AddRows(row.New(6))
	m.AddRows(buildPriceTable(doc)...)
	m.AddRows(row.New(8))
	m.AddRows(buildTerms(doc)...)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate PDF: %w", err)
	}
	return out.GetBytes(), nil
}

func buildHeader(doc proposalDoc) []core.Row {
	return []core.Row{
		row.New(20).Add(
			col.New(5).Add(text.New(doc.business, props.Text{
				Size:  14,
				Style: fontstyle.Bold,
				Color: colorPrimary,
				Top:   4,
			})),
			col.New(7).Add(
				text.New("PROPOSAL", props.Text{
					Size:  24,
					Style: fontstyle.Bold,
					Align: align.Right,
					Color: colorAccent,
				}),
				text.New(doc.quoteID, props.Text{
					Size:  9,
					Align: align.Right,
					Color: colorSecondary,
					Top:   12,
				}),
			),
		),
	}
}

func buildDetails(doc proposalDoc) []core.Row {
	label := props.Text{Size: 7, Style: fontstyle.Bold, Color: colorAccent}
	body := props.Text{Size: 9, Color: colorPrimary}

	return []core.Row{
		row.New(5).Add(
			col.New(8).Add(text.New("CUSTOMER", label)),
			col.New(4).Add(text.New("DATE", props.Text{Size: 7, Style: fontstyle.Bold, Color: colorAccent, Align: align.Right})),
		),
		row.New(6).Add(
			col.New(8).Add(text.New(doc.customer, props.Text{Size: 9, Style: fontstyle.Bold, Color: colorPrimary})),
			col.New(4).Add(text.New(doc.date, props.Text{Size: 9, Color: colorSecondary, Align: align.Right})),
		),
		row.New(5).Add(col.New(12).Add(text.New("SITE", label))),
		row.New(6).Add(col.New(12).Add(text.New(doc.site, body))),
		row.New(5).Add(col.New(12).Add(text.New("GOALS", label))),
		row.New(6).Add(col.New(12).Add(text.New(doc.goals, body))),
		row.New(5).Add(col.New(12).Add(text.New("SCOPE", label))),
		row.New(6).Add(col.New(12).Add(text.New("Film: "+doc.filmType+"  |  "+doc.sqft, body))),
	}
}

func buildPriceTable(doc proposalDoc) []core.Row {
	headerStyle := props.Text{Size: 7.5, Style: fontstyle.Bold, Color: colorPrimary, Top: 1.5}
	headerStyleRight := props.Text{Size: 7.5, Style: fontstyle.Bold, Color: colorPrimary, Align: align.Right, Top: 1.5}

	rows := []core.Row{
		row.New(7).Add(
			col.New(9).Add(text.New("Description", headerStyle)),
			col.New(3).Add(text.New("Amount", headerStyleRight)),
		).WithStyle(&props.Cell{
			BackgroundColor: colorTableHead,
			BorderType:      border.Bottom,
			BorderColor:     colorBorder,
		}),
	}

	for i, l := range doc.lines {
		r := row.New(7).Add(
			col.New(9).Add(text.New(l.label, props.Text{Size: 8, Color: colorPrimary, Top: 1})),
			col.New(3).Add(text.New(l.amount, props.Text{Size: 8, Color: colorPrimary, Align: align.Right, Top: 1})),
		)
		if i%2 == 0 {
			r.WithStyle(&props.Cell{BackgroundColor: colorTableAlt})
		}
		rows = append(rows, r)
	}

	if doc.minimum != "" {
		rows = append(rows, row.New(6).Add(
			col.New(12).Add(text.New(doc.minimum, props.Text{Size: 8, Color: colorSecondary, Align: align.Right, Top: 1})),
		))
	}

	totalStyle := props.Text{Size: 12, Style: fontstyle.Bold, Color: colorPrimary, Align: align.Right, Top: 2}
	rows = append(rows, row.New(2), row.New(10).Add(
		col.New(9).Add(text.New("TOTAL (INSTALLED)", totalStyle)),
		col.New(3).Add(text.New(doc.total, totalStyle)),
	).WithStyle(&props.Cell{
		BackgroundColor: colorTableHead,
		BorderType:      border.Full,
		BorderColor:     colorBorder,
	}))

	return rows
}

func buildTerms(doc proposalDoc) []core.Row {
	small := props.Text{Size: 7, Color: colorSecondary}

	rows := []core.Row{
		separator(),
		row.New(3),
		row.New(5).Add(col.New(12).Add(text.New("TERMS", props.Text{Size: 7, Style: fontstyle.Bold, Color: colorAccent}))),
		row.New(4).Add(col.New(12).Add(text.New("Valid until "+doc.validUntil+".", small))),
	}
	if doc.payment != "" {
		rows = append(rows, row.New(4).Add(col.New(12).Add(text.New(doc.payment, small))))
	}

	rows = append(rows,
		row.New(3),
		row.New(5).Add(col.New(12).Add(text.New("ASSUMPTIONS & EXCLUSIONS", props.Text{Size: 7, Style: fontstyle.Bold, Color: colorAccent}))),
	)
	for i, a := range assumptions {
		rows = append(rows, row.New(4).Add(col.New(12).Add(text.New(fmt.Sprintf("%d.  %s", i+1, a), small))))
	}
	return rows
}

func buildFooter(doc proposalDoc) core.Row {
	return row.New(10).Add(
		col.New(12).Add(text.New(joinParts("  ·  ", doc.business, doc.quoteID), props.Text{
			Size:  6.5,
			Color: colorSecondary,
			Align: align.Center,
			Top:   4,
		})),
	).WithStyle(&props.Cell{
		BorderType:  border.Top,
		BorderColor: colorBorder,
	})
}

func separator() core.Row {
	return row.New(1).WithStyle(&props.Cell{
		BorderType:  border.Bottom,
		BorderColor: colorBorder,
	})
}

func joinParts(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
