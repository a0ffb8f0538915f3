// Package settings holds the pricing constants of the lead desk and the
// resolution rules used by the pricing engine.
package settings

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings is the persisted pricing configuration. Scalars are pointers and
// tables are maps so that an absent key is distinguishable from a zero value.
type Settings struct {
	Currency               string                 `json:"currency,omitempty" yaml:"currency,omitempty"`
	MinimumJob             map[string]float64     `json:"minimum_job,omitempty" yaml:"minimum_job,omitempty"`
	LaborPerSqft           map[string]float64     `json:"labor_per_sqft,omitempty" yaml:"labor_per_sqft,omitempty"`
	MaterialPerSqftDefault *float64               `json:"material_per_sqft_default,omitempty" yaml:"material_per_sqft_default,omitempty"`
	MaterialPerSqftByType  map[string]float64     `json:"material_per_sqft_by_type,omitempty" yaml:"material_per_sqft_by_type,omitempty"`
	WasteFactor            map[string]float64     `json:"waste_factor,omitempty" yaml:"waste_factor,omitempty"`
	Removal                *Removal               `json:"removal,omitempty" yaml:"removal,omitempty"`
	Adders                 *Adders                `json:"adders,omitempty" yaml:"adders,omitempty"`
	GrossMarginTargets     map[string]float64     `json:"gross_margin_targets,omitempty" yaml:"gross_margin_targets,omitempty"`
	QuoteValidDays         *int                   `json:"quote_valid_days,omitempty" yaml:"quote_valid_days,omitempty"`
	PaymentTerms           map[string]PaymentTerm `json:"payment_terms,omitempty" yaml:"payment_terms,omitempty"`
}

// Removal configures old-film removal pricing.
type Removal struct {
	PerSqft                   *float64 `json:"per_sqft,omitempty" yaml:"per_sqft,omitempty"`
	HeavyAdhesiveAdderPerSqft *float64 `json:"heavy_adhesive_adder_per_sqft,omitempty" yaml:"heavy_adhesive_adder_per_sqft,omitempty"`
	Minimum                   *float64 `json:"minimum,omitempty" yaml:"minimum,omitempty"`
}

// Adders configures flat per-job charges.
type Adders struct {
	COIAdmin       *float64 `json:"coi_admin,omitempty" yaml:"coi_admin,omitempty"`
	PermitHandling *float64 `json:"permit_handling,omitempty" yaml:"permit_handling,omitempty"`
}

// PaymentTerm describes the deposit and balance terms quoted on proposals.
type PaymentTerm struct {
	DepositPct float64 `json:"deposit_pct" yaml:"deposit_pct"`
	Balance    string  `json:"balance" yaml:"balance"`
}

// Default returns a fresh copy of the stock settings.
func Default() *Settings {
	return &Settings{
		Currency: "USD",
		MinimumJob: map[string]float64{
			"residential": 499,
			"commercial":  1250,
		},
		LaborPerSqft: map[string]float64{
			LaborSolar:        4.5,
			LaborDecorative:   5.5,
			LaborSafety:       7.5,
			LaborAntiGraffiti: 6.5,
		},
		MaterialPerSqftDefault: ptr(1.1),
		MaterialPerSqftByType: map[string]float64{
			"solar_interior":       1.0,
			"solar_exterior":       1.2,
			"decorative_basic":     0.85,
			"decorative_premium":   5.35,
			"safety_security_8mil": 1.45,
		},
		WasteFactor: map[string]float64{
			ComplexitySimple:  0.10,
			ComplexityMixed:   0.15,
			ComplexityComplex: 0.20,
		},
		Removal: &Removal{
			PerSqft:                   ptr(2.5),
			HeavyAdhesiveAdderPerSqft: ptr(1.5),
			Minimum:                   ptr(150.0),
		},
		Adders: &Adders{
			COIAdmin:       ptr(75.0),
			PermitHandling: ptr(150.0),
		},
		GrossMarginTargets: map[string]float64{
			TierGood:   0.45,
			TierBetter: 0.50,
			TierBest:   0.55,
		},
		QuoteValidDays: intPtr(14),
		PaymentTerms: map[string]PaymentTerm{
			"residential": {DepositPct: 0.5, Balance: "due_on_completion"},
			"commercial":  {DepositPct: 0.3, Balance: "net_15_or_due_on_completion_under_2500"},
		},
	}
}

// LoadFile reads a YAML settings override. Keys present in the file replace
// the matching default entries; everything else keeps its default.
func LoadFile(path string) (*Settings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading settings file: %w", err)
	}

	var override Settings
	if err := yaml.Unmarshal(raw, &override); err != nil {
		return nil, fmt.Errorf("parsing settings file: %w", err)
	}

	merged := Merge(Default(), &override)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return merged, nil
}

// Merge overlays every key present in override onto base and returns base.
func Merge(base, override *Settings) *Settings {
	if base == nil {
		base = &Settings{}
	}
	if override == nil {
		return base
	}

	if override.Currency != "" {
		base.Currency = override.Currency
	}
	base.MinimumJob = mergeMap(base.MinimumJob, override.MinimumJob)
	base.LaborPerSqft = mergeMap(base.LaborPerSqft, override.LaborPerSqft)
	if override.MaterialPerSqftDefault != nil {
		base.MaterialPerSqftDefault = override.MaterialPerSqftDefault
	}
	base.MaterialPerSqftByType = mergeMap(base.MaterialPerSqftByType, override.MaterialPerSqftByType)
	base.WasteFactor = mergeMap(base.WasteFactor, override.WasteFactor)
	if r := override.Removal; r != nil {
		if base.Removal == nil {
			base.Removal = &Removal{}
		}
		if r.PerSqft != nil {
			base.Removal.PerSqft = r.PerSqft
		}
		if r.HeavyAdhesiveAdderPerSqft != nil {
			base.Removal.HeavyAdhesiveAdderPerSqft = r.HeavyAdhesiveAdderPerSqft
		}
		if r.Minimum != nil {
			base.Removal.Minimum = r.Minimum
		}
	}
	if a := override.Adders; a != nil {
		if base.Adders == nil {
			base.Adders = &Adders{}
		}
		if a.COIAdmin != nil {
			base.Adders.COIAdmin = a.COIAdmin
		}
		if a.PermitHandling != nil {
			base.Adders.PermitHandling = a.PermitHandling
		}
	}
	base.GrossMarginTargets = mergeMap(base.GrossMarginTargets, override.GrossMarginTargets)
	if override.QuoteValidDays != nil {
		base.QuoteValidDays = override.QuoteValidDays
	}
	for k, v := range override.PaymentTerms {
		if base.PaymentTerms == nil {
			base.PaymentTerms = make(map[string]PaymentTerm)
		}
		base.PaymentTerms[k] = v
	}
	return base
}

func mergeMap(base, override map[string]float64) map[string]float64 {
	if len(override) == 0 {
		return base
	}
	if base == nil {
		base = make(map[string]float64, len(override))
	}
	for k, v := range override {
		base[k] = v
	}
	return base
}

func ptr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }
