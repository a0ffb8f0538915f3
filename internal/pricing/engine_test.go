package pricing

import (
	"errors"
	"math"
	"testing"

	"filmleads_backend/internal/settings"
)

func f64(v float64) *float64 { return &v }

func boolPtr(v bool) *bool { return &v }

func TestComputeQuote_ResidentialSolarInterior(t *testing.T) {
	job := Job{SqftEstimate: f64(180), FilmType: "solar_interior"}

	q, err := ComputeQuote(settings.Default(), job, Options{Complexity: "simple", MarginTier: "better"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if q.BillableSqft != 200 {
		t.Fatalf("expected billable 200, got %v", q.BillableSqft)
	}
	if q.Costs.MaterialCost != 200 {
		t.Fatalf("expected material 200, got %v", q.Costs.MaterialCost)
	}
	if q.Costs.LaborCost != 810 {
		t.Fatalf("expected labor 810, got %v", q.Costs.LaborCost)
	}
	if q.Costs.Subtotal != 1010 {
		t.Fatalf("expected subtotal 1010, got %v", q.Costs.Subtotal)
	}
	if q.Total != 2020 {
		t.Fatalf("expected total 2020, got %v", q.Total)
	}
	if q.MinimumApplied() {
		t.Fatalf("expected minimum not applied")
	}
	if len(q.Costs.Adders) != 0 {
		t.Fatalf("expected no adders, got %v", q.Costs.Adders)
	}
	if q.LaborBucket != settings.LaborSolar || q.WasteFactor != 0.1 {
		t.Fatalf("unexpected bucket/waste %s/%v", q.LaborBucket, q.WasteFactor)
	}
}

func TestComputeQuote_CommercialWithRemoval(t *testing.T) {
	job := Job{SqftEstimate: f64(1000), FilmType: "unsure", Commercial: true, RemovalNeeded: boolPtr(true)}

	q, err := ComputeQuote(settings.Default(), job, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if q.BillableSqft != 1100 {
		t.Fatalf("expected billable 1100, got %v", q.BillableSqft)
	}
	if q.Costs.MaterialCost != 1210 {
		t.Fatalf("expected material 1210, got %v", q.Costs.MaterialCost)
	}
	if len(q.Costs.Adders) != 2 {
		t.Fatalf("expected 2 adders, got %d", len(q.Costs.Adders))
	}
	if q.Costs.Adders[0].Key != AdderCOIAdmin || q.Costs.Adders[0].Amount != 75 {
		t.Fatalf("expected coi_admin 75 first, got %+v", q.Costs.Adders[0])
	}
	if q.Costs.Adders[1].Key != AdderRemoval || q.Costs.Adders[1].Amount != 2500 {
		t.Fatalf("expected removal 2500 second, got %+v", q.Costs.Adders[1])
	}
	if q.Costs.Subtotal != 8285 {
		t.Fatalf("expected subtotal 8285, got %v", q.Costs.Subtotal)
	}
	if q.Total != 16570 {
		t.Fatalf("expected total 16570, got %v", q.Total)
	}
	if q.MinimumApplied() {
		t.Fatalf("expected commercial minimum 1250 not to bind")
	}
}

func TestComputeQuote_MinimumJobBinds(t *testing.T) {
	job := Job{SqftEstimate: f64(10), FilmType: "solar_interior"}

	q, err := ComputeQuote(settings.Default(), job, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if q.SellPrice != 120 {
		t.Fatalf("expected sell 120, got %v", q.SellPrice)
	}
	if q.Total != 499 {
		t.Fatalf("expected total 499, got %v", q.Total)
	}
	if !q.MinimumApplied() || *q.MinimumJobApplied != 499 {
		t.Fatalf("expected minimum 499 applied, got %v", q.MinimumJobApplied)
	}
}

func TestComputeQuote_MissingSqft(t *testing.T) {
	cases := []struct {
		name     string
		estimate *float64
		measured *float64
	}{
		{"nil", nil, nil},
		{"zero", f64(0), nil},
		{"negative", f64(-5), nil},
		{"nan", f64(math.NaN()), nil},
		{"inf", f64(math.Inf(1)), nil},
		{"measured zero overrides estimate", f64(100), f64(0)},
	}

	for _, tc := range cases {
		q, err := ComputeQuote(nil, Job{SqftEstimate: tc.estimate}, Options{MeasuredSqft: tc.measured})
		if !errors.Is(err, ErrMissingSqft) {
			t.Fatalf("%s: expected ErrMissingSqft, got %v", tc.name, err)
		}
		if q.Total != 0 || q.BillableSqft != 0 || q.Costs.Adders != nil {
			t.Fatalf("%s: expected empty quote, got %+v", tc.name, q)
		}
	}
}

func TestComputeQuote_MeasuredOverridesEstimate(t *testing.T) {
	q, err := ComputeQuote(nil, Job{SqftEstimate: f64(50)}, Options{MeasuredSqft: f64(180)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.MeasuredSqft != 180 {
		t.Fatalf("expected measured 180, got %v", q.MeasuredSqft)
	}
}

func TestComputeQuote_BillableOnGrid(t *testing.T) {
	for _, sqft := range []float64{1, 4.2, 10, 99.9, 100, 137, 180, 333.33, 1000, 2500.5} {
		for _, complexity := range []string{"simple", "mixed", "complex", "bogus"} {
			q, err := ComputeQuote(nil, Job{SqftEstimate: f64(sqft)}, Options{Complexity: complexity})
			if err != nil {
				t.Fatalf("unexpected error for %v: %v", sqft, err)
			}
			if math.Mod(q.BillableSqft, BillableIncrement) != 0 {
				t.Fatalf("billable %v for %v is not on the grid", q.BillableSqft, sqft)
			}
			if q.BillableSqft < sqft {
				t.Fatalf("billable %v below measured %v", q.BillableSqft, sqft)
			}
		}
	}
}

func TestComputeQuote_FloatNoiseStaysOnGridLine(t *testing.T) {
	q, err := ComputeQuote(nil, Job{SqftEstimate: f64(100)}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.BillableSqft != 110 {
		t.Fatalf("expected billable 110, got %v", q.BillableSqft)
	}
}

func TestComputeQuote_ExcessAboveGridLineBillsNextIncrement(t *testing.T) {
	q, err := ComputeQuote(nil, Job{SqftEstimate: f64(100.0000000001)}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.BillableSqft != 115 {
		t.Fatalf("expected billable 115, got %v", q.BillableSqft)
	}
}

func TestRoundUpToGrid(t *testing.T) {
	inflate := 1.1
	cases := []struct {
		v    float64
		want float64
	}{
		{110, 110},
		{100 * inflate, 110},
		{110.00000000011, 115},
		{math.Nextafter(110, 0), 110},
		{0.5, 5},
		{111, 115},
	}
	for _, tc := range cases {
		if got := roundUpToGrid(tc.v, 5); got != tc.want {
			t.Fatalf("roundUpToGrid(%v): expected %v, got %v", tc.v, tc.want, got)
		}
	}
}

func TestComputeQuote_TotalNeverBelowMinimum(t *testing.T) {
	s := settings.Default()
	for _, sqft := range []float64{1, 5, 20, 50, 80, 200} {
		for _, commercial := range []bool{false, true} {
			q, err := ComputeQuote(s, Job{SqftEstimate: f64(sqft), Commercial: commercial}, Options{MarginTier: "good"})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if q.Total < s.MinimumFor(commercial) {
				t.Fatalf("total %v below minimum for sqft %v commercial %v", q.Total, sqft, commercial)
			}
		}
	}
}

func TestComputeQuote_RemovalOverride(t *testing.T) {
	job := Job{SqftEstimate: f64(40), RemovalNeeded: boolPtr(true)}

	q, err := ComputeQuote(nil, job, Options{IncludeRemoval: boolPtr(false)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q.Costs.Adders) != 0 {
		t.Fatalf("expected override to drop removal, got %v", q.Costs.Adders)
	}

	q, err = ComputeQuote(nil, Job{SqftEstimate: f64(40)}, Options{IncludeRemoval: boolPtr(true)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q.Costs.Adders) != 1 || q.Costs.Adders[0].Amount != 150 {
		t.Fatalf("expected removal minimum 150, got %v", q.Costs.Adders)
	}
}

func TestComputeQuote_HeavyAdhesiveAndPermit(t *testing.T) {
	job := Job{SqftEstimate: f64(100)}

	q, err := ComputeQuote(nil, job, Options{IncludeRemoval: boolPtr(true), HeavyAdhesive: true, PermitHandling: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q.Costs.Adders) != 2 {
		t.Fatalf("expected removal and permit adders, got %v", q.Costs.Adders)
	}
	if q.Costs.Adders[0].Amount != 400 {
		t.Fatalf("expected removal 100*(2.5+1.5)=400, got %v", q.Costs.Adders[0].Amount)
	}
	if q.Costs.Adders[1].Key != AdderPermitHandling || q.Costs.Adders[1].Amount != 150 {
		t.Fatalf("expected permit handling 150, got %+v", q.Costs.Adders[1])
	}
}

func TestComputeQuote_ZeroCOIAdminNotCharged(t *testing.T) {
	s := settings.Default()
	zero := 0.0
	s.Adders.COIAdmin = &zero

	q, err := ComputeQuote(s, Job{SqftEstimate: f64(500), Commercial: true}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q.Costs.Adders) != 0 {
		t.Fatalf("expected no adders, got %v", q.Costs.Adders)
	}
}

func TestLaborBucket(t *testing.T) {
	cases := map[string]string{
		"decorative_premium":   settings.LaborDecorative,
		"safety_security_8mil": settings.LaborSafety,
		"anti_graffiti":        settings.LaborAntiGraffiti,
		"solar_exterior":       settings.LaborSolar,
		"unsure":               settings.LaborSolar,
		"":                     settings.LaborSolar,
	}
	for film, want := range cases {
		if got := LaborBucket(film); got != want {
			t.Fatalf("LaborBucket(%q): expected %s, got %s", film, want, got)
		}
	}
}
