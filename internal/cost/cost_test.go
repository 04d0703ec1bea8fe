package cost

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestEstimate_WorkedExample checks the 100 m² example at default assumptions.
func TestEstimate_WorkedExample(t *testing.T) {
	got := Estimate(100, Params{UnitCost: 150, OpexRate: 0.02, Years: 30, DiscountRate: 0.03})

	assert.Equal(t, 15000.0, got.Capex)
	assert.InDelta(t, 5880.13, got.NPVOpex, 0.01)
	assert.InDelta(t, 20880.13, got.LifetimeTotal, 0.01)
	assert.Equal(t, got.Capex+got.NPVOpex, got.LifetimeTotal)
}

// TestEstimate_ZeroDiscount verifies the undiscounted branch is exact.
func TestEstimate_ZeroDiscount(t *testing.T) {
	tests := []struct {
		name string
		area float64
		p    Params
	}{
		{"typical", 100, Params{UnitCost: 150, OpexRate: 0.02, Years: 30}},
		{"one year", 42.5, Params{UnitCost: 99.9, OpexRate: 0.05, Years: 1}},
		{"negative discount floors to zero", 10, Params{UnitCost: 80, OpexRate: 0.03, Years: 12, DiscountRate: -0.1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Estimate(tt.area, tt.p)
			capex := tt.area * tt.p.UnitCost
			assert.Equal(t, capex, got.Capex)
			assert.Equal(t, tt.p.OpexRate*capex*float64(tt.p.Years), got.NPVOpex)
		})
	}
}

// TestEstimate_Floors verifies negative inputs and short horizons are floored.
func TestEstimate_Floors(t *testing.T) {
	tests := []struct {
		name string
		area float64
		p    Params
		want Lifecycle
	}{
		{
			name: "negative area",
			area: -50,
			p:    DefaultParams(),
			want: Lifecycle{},
		},
		{
			name: "negative unit cost",
			area: 50,
			p:    Params{UnitCost: -10, OpexRate: 0.02, Years: 30, DiscountRate: 0.03},
			want: Lifecycle{},
		},
		{
			name: "negative opex rate",
			area: 10,
			p:    Params{UnitCost: 100, OpexRate: -1, Years: 30, DiscountRate: 0.03},
			want: Lifecycle{Capex: 1000, NPVOpex: 0, LifetimeTotal: 1000},
		},
		{
			name: "zero years floors to one",
			area: 10,
			p:    Params{UnitCost: 100, OpexRate: 0.1, Years: 0, DiscountRate: 0},
			want: Lifecycle{Capex: 1000, NPVOpex: 100, LifetimeTotal: 1100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Estimate(tt.area, tt.p)
			assert.InDelta(t, tt.want.Capex, got.Capex, 1e-9)
			assert.InDelta(t, tt.want.NPVOpex, got.NPVOpex, 1e-9)
			assert.InDelta(t, tt.want.LifetimeTotal, got.LifetimeTotal, 1e-9)
		})
	}
}

// TestAnnuityFactor verifies the uniform-series present value factor.
func TestAnnuityFactor(t *testing.T) {
	assert.Equal(t, 30.0, AnnuityFactor(0, 30))
	assert.InDelta(t, 1/1.05, AnnuityFactor(0.05, 1), 1e-12)
	assert.InDelta(t, (1-math.Pow(1.03, -30))/0.03, AnnuityFactor(0.03, 30), 1e-12)

	// Discounting always shrinks the factor below the undiscounted horizon.
	for _, d := range []float64{0.001, 0.03, 0.1, 0.5} {
		assert.Less(t, AnnuityFactor(d, 20), 20.0)
	}
}

// TestDefaultParams verifies the documented defaults.
func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, 150.0, p.UnitCost)
	assert.Equal(t, 0.02, p.OpexRate)
	assert.Equal(t, 30, p.Years)
	assert.Equal(t, 0.03, p.DiscountRate)
}
