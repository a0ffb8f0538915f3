package pricing

import (
	"math"

	"filmleads_backend/internal/settings"
)

// BallparkAssumptions records what a range was built on.
type BallparkAssumptions struct {
	Complexity                string `json:"complexity"`
	RemovalIncludedInHigh     bool   `json:"removalIncludedInHigh"`
	GlassVerificationRequired bool   `json:"glassVerificationRequired"`
}

// BallparkRange is a low/high installed price with Low <= High.
type BallparkRange struct {
	MeasuredSqft float64             `json:"measuredSqft"`
	FilmType     string              `json:"filmType"`
	Low          float64             `json:"low"`
	High         float64             `json:"high"`
	Assumptions  BallparkAssumptions `json:"assumptions"`
}

// EscalateComplexity moves one tier up: simple becomes mixed, anything else complex.
func EscalateComplexity(complexity string) string {
	if complexity == settings.ComplexitySimple {
		return settings.ComplexityMixed
	}
	return settings.ComplexityComplex
}

// ComputeBallparkRange prices job twice. The low end uses complexity as given,
// the good tier and no removal. The high end escalates complexity, uses the
// best tier and includes removal when the job needs it. The two totals are
// ordered afterwards since neither configuration is guaranteed smaller.
func ComputeBallparkRange(s *settings.Settings, job Job, measured *float64, complexity string) (BallparkRange, error) {
	if complexity == "" {
		complexity = settings.ComplexitySimple
	}
	excluded := false
	low, err := ComputeQuote(s, job, Options{
		MeasuredSqft:   measured,
		Complexity:     complexity,
		MarginTier:     settings.TierGood,
		IncludeRemoval: &excluded,
	})
	if err != nil {
		return BallparkRange{}, err
	}

	removal := job.RemovalNeeded != nil && *job.RemovalNeeded
	high, err := ComputeQuote(s, job, Options{
		MeasuredSqft:   measured,
		Complexity:     EscalateComplexity(complexity),
		MarginTier:     settings.TierBest,
		IncludeRemoval: &removal,
	})
	if err != nil {
		return BallparkRange{}, err
	}

	return BallparkRange{
		MeasuredSqft: low.MeasuredSqft,
		FilmType:     low.FilmType,
		Low:          math.Min(low.Total, high.Total),
		High:         math.Max(low.Total, high.Total),
		Assumptions: BallparkAssumptions{
			Complexity:                complexity,
			RemovalIncludedInHigh:     removal,
			GlassVerificationRequired: true,
		},
	}, nil
}
