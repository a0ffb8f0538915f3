// Package pricing computes installed prices for window-film jobs.
// Every function here is pure: the same settings and inputs always give the same result.
package pricing

import (
	"errors"
	"math"
	"strings"

	"filmleads_backend/internal/settings"
)

// ErrMissingSqft is returned when neither a measurement nor a usable estimate is available.
var ErrMissingSqft = errors.New("missing_sqft")

// BillableIncrement is the pricing grid for billable square footage.
const BillableIncrement = 5.0

// FilmUnsure is the film type assumed when none has been chosen.
const FilmUnsure = "unsure"

// Adder keys.
const (
	AdderCOIAdmin       = "coi_admin"
	AdderRemoval        = "removal"
	AdderPermitHandling = "permit_handling"
)

// Job is the subset of a lead the engine prices.
type Job struct {
	SqftEstimate  *float64
	FilmType      string
	Commercial    bool
	RemovalNeeded *bool
}

// Options selects how a job is priced. Zero values mean: use the job's
// estimate, simple complexity, better tier and the job's removal flag.
type Options struct {
	MeasuredSqft   *float64
	Complexity     string
	MarginTier     string
	IncludeRemoval *bool
	HeavyAdhesive  bool
	PermitHandling bool
}

// Adder is a line item added on top of material and labor.
type Adder struct {
	Key    string  `json:"key"`
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// Rates records the rates the quote was built with.
type Rates struct {
	MaterialPerSqft float64 `json:"materialPerSqft"`
	LaborPerSqft    float64 `json:"laborPerSqft"`
	TargetGM        float64 `json:"targetGM"`
}

// Costs is the cost side of a quote.
type Costs struct {
	MaterialCost float64 `json:"materialCost"`
	LaborCost    float64 `json:"laborCost"`
	Adders       []Adder `json:"adders"`
	AddersTotal  float64 `json:"addersTotal"`
	Subtotal     float64 `json:"subtotal"`
}

// Quote is the full price breakdown. Money fields are rounded to cents.
type Quote struct {
	MeasuredSqft float64 `json:"measuredSqft"`
	BillableSqft float64 `json:"billableSqft"`
	WasteFactor  float64 `json:"wasteFactor"`
	FilmType     string  `json:"filmType"`
	LaborBucket  string  `json:"laborBucket"`
	Complexity   string  `json:"complexity"`
	MarginTier   string  `json:"marginTier"`
	Rates        Rates   `json:"rates"`
	Costs        Costs   `json:"costs"`
	SellPrice    float64 `json:"sellPrice"`
	// MinimumJobApplied holds the minimum charge when it was the binding constraint, nil otherwise.
	MinimumJobApplied *float64 `json:"minimumJobApplied"`
	Total             float64  `json:"total"`
}

// MinimumApplied reports whether the minimum job charge set the total.
func (q Quote) MinimumApplied() bool {
	return q.MinimumJobApplied != nil
}

// LaborBucket maps a film type to its labor rate bucket.
func LaborBucket(filmType string) string {
	switch {
	case strings.HasPrefix(filmType, "decorative"):
		return settings.LaborDecorative
	case strings.HasPrefix(filmType, "safety"):
		return settings.LaborSafety
	case strings.Contains(filmType, "graffiti"):
		return settings.LaborAntiGraffiti
	default:
		return settings.LaborSolar
	}
}

// EffectiveSqft returns the measured area, else the job estimate, or ErrMissingSqft.
func EffectiveSqft(job Job, measured *float64) (float64, error) {
	var sqft float64
	switch {
	case measured != nil:
		sqft = *measured
	case job.SqftEstimate != nil:
		sqft = *job.SqftEstimate
	default:
		return 0, ErrMissingSqft
	}
	if math.IsNaN(sqft) || math.IsInf(sqft, 0) || sqft <= 0 {
		return 0, ErrMissingSqft
	}
	return sqft, nil
}

// ComputeQuote prices job under s. A nil s prices with settings.Default().
func ComputeQuote(s *settings.Settings, job Job, opts Options) (Quote, error) {
	measured, err := EffectiveSqft(job, opts.MeasuredSqft)
	if err != nil {
		return Quote{}, err
	}

	complexity := opts.Complexity
	if complexity == "" {
		complexity = settings.ComplexitySimple
	}
	tier := opts.MarginTier
	if tier == "" {
		tier = settings.TierBetter
	}
	filmType := job.FilmType
	if filmType == "" {
		filmType = FilmUnsure
	}

	waste := s.Waste(complexity)
	billable := roundUpToGrid(measured*(1+waste), BillableIncrement)

	materialRate := s.MaterialRate(filmType)
	bucket := LaborBucket(filmType)
	laborRate := s.LaborRate(bucket)

	materialCost := billable * materialRate
	laborCost := measured * laborRate

	adders := make([]Adder, 0, 3)
	if coi := s.COIAdmin(); job.Commercial && coi != 0 {
		adders = append(adders, Adder{Key: AdderCOIAdmin, Label: "COI/Admin", Amount: coi})
	}

	removal := job.RemovalNeeded != nil && *job.RemovalNeeded
	if opts.IncludeRemoval != nil {
		removal = *opts.IncludeRemoval
	}
	if removal {
		perSqft := s.RemovalPerSqft()
		if opts.HeavyAdhesive {
			perSqft += s.HeavyAdhesivePerSqft()
		}
		amount := math.Max(s.RemovalMinimum(), measured*perSqft)
		adders = append(adders, Adder{Key: AdderRemoval, Label: "Old film removal (est.)", Amount: amount})
	}

	if permit := s.PermitHandling(); opts.PermitHandling && permit != 0 {
		adders = append(adders, Adder{Key: AdderPermitHandling, Label: "Permit handling", Amount: permit})
	}

	var addersTotal float64
	for _, a := range adders {
		addersTotal += a.Amount
	}
	subtotal := materialCost + laborCost + addersTotal

	margin := s.Margin(tier)
	sell := subtotal / (1 - margin)

	minimum := s.MinimumFor(job.Commercial)
	total := math.Max(minimum, sell)

	var minimumApplied *float64
	if minimum > sell {
		m := roundMoney(minimum)
		minimumApplied = &m
	}

	for i := range adders {
		adders[i].Amount = roundMoney(adders[i].Amount)
	}

	return Quote{
		MeasuredSqft: roundMoney(measured),
		BillableSqft: roundMoney(billable),
		WasteFactor:  waste,
		FilmType:     filmType,
		LaborBucket:  bucket,
		Complexity:   complexity,
		MarginTier:   tier,
		Rates: Rates{
			MaterialPerSqft: roundMoney(materialRate),
			LaborPerSqft:    roundMoney(laborRate),
			TargetGM:        margin,
		},
		Costs: Costs{
			MaterialCost: roundMoney(materialCost),
			LaborCost:    roundMoney(laborCost),
			Adders:       adders,
			AddersTotal:  roundMoney(addersTotal),
			Subtotal:     roundMoney(subtotal),
		},
		SellPrice:         roundMoney(sell),
		MinimumJobApplied: minimumApplied,
		Total:             roundMoney(total),
	}, nil
}
