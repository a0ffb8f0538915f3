package settings

import "time"

// Complexity tiers used for waste lookups.
const (
	ComplexitySimple  = "simple"
	ComplexityMixed   = "mixed"
	ComplexityComplex = "complex"
)

// Gross margin tiers.
const (
	TierGood   = "good"
	TierBetter = "better"
	TierBest   = "best"
)

// Labor buckets.
const (
	LaborSolar        = "solar"
	LaborDecorative   = "decorative"
	LaborSafety       = "safety"
	LaborAntiGraffiti = "anti_graffiti"
)

// Fallbacks applied when a value is absent at every configured level.
const (
	FallbackWaste           = 0.10
	FallbackMaterialPerSqft = 1.10
	FallbackLaborPerSqft    = 5.00
	FallbackMargin          = 0.50
	FallbackRemovalPerSqft  = 2.50
	FallbackRemovalMinimum  = 150.0
	FallbackQuoteValidDays  = 14
)

// The resolvers below accept a nil receiver and treat it as Default().
// Presence, not truthiness, decides: a configured 0 is used as 0.

func (s *Settings) orDefault() *Settings {
	if s == nil {
		return Default()
	}
	return s
}

// Waste resolves waste_factor[tier], then waste_factor.simple, then 0.10.
func (s *Settings) Waste(tier string) float64 {
	s = s.orDefault()
	if v, ok := s.WasteFactor[tier]; ok {
		return v
	}
	if v, ok := s.WasteFactor[ComplexitySimple]; ok {
		return v
	}
	return FallbackWaste
}

// MaterialRate resolves material_per_sqft_by_type[filmType], then
// material_per_sqft_default, then 1.10.
func (s *Settings) MaterialRate(filmType string) float64 {
	s = s.orDefault()
	if v, ok := s.MaterialPerSqftByType[filmType]; ok {
		return v
	}
	if s.MaterialPerSqftDefault != nil {
		return *s.MaterialPerSqftDefault
	}
	return FallbackMaterialPerSqft
}

// LaborRate resolves labor_per_sqft[bucket], then 5.00.
func (s *Settings) LaborRate(bucket string) float64 {
	s = s.orDefault()
	if v, ok := s.LaborPerSqft[bucket]; ok {
		return v
	}
	return FallbackLaborPerSqft
}

// Margin resolves gross_margin_targets[tier], then 0.50.
func (s *Settings) Margin(tier string) float64 {
	s = s.orDefault()
	if v, ok := s.GrossMarginTargets[tier]; ok {
		return v
	}
	return FallbackMargin
}

// MinimumFor resolves minimum_job.commercial for commercial jobs and
// minimum_job.residential for everything else ("both" included), then 0.
func (s *Settings) MinimumFor(commercial bool) float64 {
	s = s.orDefault()
	key := "residential"
	if commercial {
		key = "commercial"
	}
	if v, ok := s.MinimumJob[key]; ok {
		return v
	}
	return 0
}

// RemovalPerSqft resolves removal.per_sqft, then 2.50.
func (s *Settings) RemovalPerSqft() float64 {
	s = s.orDefault()
	if s.Removal != nil && s.Removal.PerSqft != nil {
		return *s.Removal.PerSqft
	}
	return FallbackRemovalPerSqft
}

// HeavyAdhesivePerSqft resolves removal.heavy_adhesive_adder_per_sqft, then 0.
func (s *Settings) HeavyAdhesivePerSqft() float64 {
	s = s.orDefault()
	if s.Removal != nil && s.Removal.HeavyAdhesiveAdderPerSqft != nil {
		return *s.Removal.HeavyAdhesiveAdderPerSqft
	}
	return 0
}

// RemovalMinimum resolves removal.minimum, then 150.
func (s *Settings) RemovalMinimum() float64 {
	s = s.orDefault()
	if s.Removal != nil && s.Removal.Minimum != nil {
		return *s.Removal.Minimum
	}
	return FallbackRemovalMinimum
}

// COIAdmin returns adders.coi_admin, or 0 when absent. A zero adder is not charged.
func (s *Settings) COIAdmin() float64 {
	s = s.orDefault()
	if s.Adders != nil && s.Adders.COIAdmin != nil {
		return *s.Adders.COIAdmin
	}
	return 0
}

// PermitHandling returns adders.permit_handling, or 0 when absent.
func (s *Settings) PermitHandling() float64 {
	s = s.orDefault()
	if s.Adders != nil && s.Adders.PermitHandling != nil {
		return *s.Adders.PermitHandling
	}
	return 0
}

// QuoteValidity resolves quote_valid_days, then 14 days.
func (s *Settings) QuoteValidity() time.Duration {
	s = s.orDefault()
	days := FallbackQuoteValidDays
	if s.QuoteValidDays != nil {
		days = *s.QuoteValidDays
	}
	return time.Duration(days) * 24 * time.Hour
}

// PaymentTermFor returns payment_terms for the job kind, if configured.
func (s *Settings) PaymentTermFor(commercial bool) (PaymentTerm, bool) {
	s = s.orDefault()
	key := "residential"
	if commercial {
		key = "commercial"
	}
	term, ok := s.PaymentTerms[key]
	return term, ok
}

// CurrencyCode returns the configured ISO currency, defaulting to USD.
func (s *Settings) CurrencyCode() string {
	s = s.orDefault()
	if s.Currency == "" {
		return "USD"
	}
	return s.Currency
}
