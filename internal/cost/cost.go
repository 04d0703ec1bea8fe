package cost

import "math"

// Params are the inputs of the lifecycle cost model.
type Params struct {
	// UnitCost is the capital cost per m², floored at 0.
	UnitCost float64 `json:"unit_cost" yaml:"unit_cost"`

	// OpexRate is the annual operating cost as a fraction of capex, floored at 0.
	OpexRate float64 `json:"opex_rate" yaml:"opex_rate"`

	// Years is the analysis horizon, floored at 1.
	Years int `json:"years" yaml:"years"`

	// DiscountRate is the annual discount rate, floored at 0.
	DiscountRate float64 `json:"discount_rate" yaml:"discount_rate"`
}

// DefaultParams returns the default cost assumptions.
func DefaultParams() Params {
	return Params{
		UnitCost:     DefaultUnitCost,
		OpexRate:     DefaultOpexRate,
		Years:        DefaultYears,
		DiscountRate: DefaultDiscountRate,
	}
}

// Lifecycle is the cost breakdown of one conversion.
type Lifecycle struct {
	Capex         float64 `json:"capex"`
	NPVOpex       float64 `json:"npv_opex"`
	LifetimeTotal float64 `json:"lifetime_total"`
}

// Estimate computes lifecycle costs for greenAreaM2 of green roof.
//
// The calculation:
//  1. Capex = area × unit cost
//  2. Annual opex = opex rate × capex
//  3. NPV of opex = annual × (1 − (1 + d)^−n) / d, or annual × n when d = 0
//  4. Lifetime total = capex + NPV of opex
func Estimate(greenAreaM2 float64, p Params) Lifecycle {
	area := nonNegative(greenAreaM2)
	unit := nonNegative(p.UnitCost)
	rate := nonNegative(p.OpexRate)
	discount := nonNegative(p.DiscountRate)
	years := p.Years
	if years < 1 {
		years = 1
	}

	capex := area * unit
	annualOpex := rate * capex

	npvOpex := annualOpex * AnnuityFactor(discount, years)

	return Lifecycle{
		Capex:         capex,
		NPVOpex:       npvOpex,
		LifetimeTotal: capex + npvOpex,
	}
}

// AnnuityFactor returns the present value of one currency unit paid at the
// end of each of years periods at the given discount rate. A rate of zero
// (or below) returns years.
func AnnuityFactor(discount float64, years int) float64 {
	if !(discount > 0) {
		return float64(years)
	}
	return (1 - math.Pow(1+discount, -float64(years))) / discount
}

// nonNegative floors v at zero. NaN and +Inf are treated as zero.
func nonNegative(v float64) float64 {
	if v > 0 && !math.IsInf(v, 1) {
		return v
	}
	return 0
}
