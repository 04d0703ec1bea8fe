// Package cost computes the lifecycle cost of a green-roof conversion:
// capital expenditure plus the present value of recurring operating costs.
package cost

const (
	// DefaultUnitCost is the capital cost per m² of green roof, in the
	// caller's currency.
	DefaultUnitCost = 150.0

	// DefaultOpexRate is the annual operating cost as a fraction of capex.
	DefaultOpexRate = 0.02

	// DefaultYears is the analysis horizon.
	DefaultYears = 30

	// DefaultDiscountRate is the annual discount rate applied to opex.
	DefaultDiscountRate = 0.03
)
