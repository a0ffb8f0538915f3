package settings

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrInvalid marks settings that would make pricing undefined.
var ErrInvalid = errors.New("invalid settings")

// Validate rejects margins outside [0, 1) and negative or non-finite rates.
func (s *Settings) Validate() error {
	if s == nil {
		return nil
	}
	for _, tier := range sortedKeys(s.GrossMarginTargets) {
		m := s.GrossMarginTargets[tier]
		if math.IsNaN(m) || m < 0 || m >= 1 {
			return fmt.Errorf("%w: gross_margin_targets.%s must be in [0, 1), got %v", ErrInvalid, tier, m)
		}
	}

	tables := []struct {
		name   string
		values map[string]float64
	}{
		{"minimum_job", s.MinimumJob},
		{"labor_per_sqft", s.LaborPerSqft},
		{"material_per_sqft_by_type", s.MaterialPerSqftByType},
		{"waste_factor", s.WasteFactor},
	}
	for _, tbl := range tables {
		for _, key := range sortedKeys(tbl.values) {
			if err := checkRate(tbl.name+"."+key, tbl.values[key]); err != nil {
				return err
			}
		}
	}

	scalars := []namedRate{{"material_per_sqft_default", s.MaterialPerSqftDefault}}
	if s.Removal != nil {
		scalars = append(scalars,
			namedRate{"removal.per_sqft", s.Removal.PerSqft},
			namedRate{"removal.heavy_adhesive_adder_per_sqft", s.Removal.HeavyAdhesiveAdderPerSqft},
			namedRate{"removal.minimum", s.Removal.Minimum},
		)
	}
	if s.Adders != nil {
		scalars = append(scalars,
			namedRate{"adders.coi_admin", s.Adders.COIAdmin},
			namedRate{"adders.permit_handling", s.Adders.PermitHandling},
		)
	}
	for _, sc := range scalars {
		if sc.value == nil {
			continue
		}
		if err := checkRate(sc.name, *sc.value); err != nil {
			return err
		}
	}

	for _, key := range sortedTermKeys(s.PaymentTerms) {
		if pct := s.PaymentTerms[key].DepositPct; math.IsNaN(pct) || pct < 0 || pct > 1 {
			return fmt.Errorf("%w: payment_terms.%s.deposit_pct must be in [0, 1], got %v", ErrInvalid, key, pct)
		}
	}
	if s.QuoteValidDays != nil && *s.QuoteValidDays < 0 {
		return fmt.Errorf("%w: quote_valid_days must not be negative", ErrInvalid)
	}
	return nil
}

type namedRate struct {
	name  string
	value *float64
}

func checkRate(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("%w: %s must be a non-negative number, got %v", ErrInvalid, name, v)
	}
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedTermKeys(m map[string]PaymentTerm) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
