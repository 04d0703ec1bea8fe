// Package scenario combines roof selection, event hydrology and lifecycle
// costing into one table with a row per green-roof coverage fraction.
package scenario

import (
	"math"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/rshade/spongekit/internal/cost"
	"github.com/rshade/spongekit/internal/hydro"
	"github.com/rshade/spongekit/internal/rainfall"
	"github.com/rshade/spongekit/internal/roofs"
)

// Input is everything needed to build a scenario table.
type Input struct {
	// Roofs is the roof inventory. It is validated once per build.
	Roofs []roofs.Roof

	// Event is the design rainfall event.
	Event rainfall.Event

	// Hydrology holds the runoff coefficients and green-roof storage.
	Hydrology hydro.Params

	// Cost holds the lifecycle cost assumptions.
	Cost cost.Params

	// Fractions are the coverage fractions to evaluate. Order does not
	// matter and duplicates produce duplicate rows.
	Fractions []float64
}

// CostPerVolume is the lifetime cost per m³ retained. It is either a finite
// value or not meaningful, when a scenario retains (almost) nothing.
type CostPerVolume struct {
	value      float64
	meaningful bool
}

// Finite returns a meaningful cost per m³.
func Finite(v float64) CostPerVolume {
	return CostPerVolume{value: v, meaningful: true}
}

// NotMeaningful returns the cost per m³ of a scenario with no retained volume.
func NotMeaningful() CostPerVolume {
	return CostPerVolume{}
}

// Value returns the cost and whether it is meaningful.
func (c CostPerVolume) Value() (float64, bool) {
	return c.value, c.meaningful
}

// IsMeaningful reports whether the cost can be compared across scenarios.
func (c CostPerVolume) IsMeaningful() bool {
	return c.meaningful
}

// Float64 returns the cost, or +Inf when it is not meaningful.
func (c CostPerVolume) Float64() float64 {
	if !c.meaningful {
		return math.Inf(1)
	}
	return c.value
}

// String formats the cost with two decimals, or "n/a".
func (c CostPerVolume) String() string {
	if !c.meaningful {
		return "n/a"
	}
	return strconv.FormatFloat(c.value, 'f', 2, 64)
}

// MarshalJSON encodes a meaningful cost as a number and anything else as null.
func (c CostPerVolume) MarshalJSON() ([]byte, error) {
	if !c.meaningful {
		return []byte("null"), nil
	}
	return json.Marshal(c.value)
}

// UnmarshalJSON decodes a number or null.
func (c *CostPerVolume) UnmarshalJSON(data []byte) error {
	var v *float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v == nil {
		*c = NotMeaningful()
		return nil
	}
	*c = Finite(*v)
	return nil
}

// Row is the outcome of one coverage fraction.
type Row struct {
	CoverageFraction float64       `json:"coverage_frac"`
	TotalAreaM2      float64       `json:"total_area_m2"`
	TargetAreaM2     float64       `json:"target_area_m2"`
	GreenAreaM2      float64       `json:"green_area_m2"`
	RoofsConverted   int           `json:"roofs_converted"`
	BaselineM3       float64       `json:"baseline_m3"`
	ScenarioM3       float64       `json:"scenario_m3"`
	RetainedM3       float64       `json:"retained_m3"`
	ReductionPct     float64       `json:"reduction_pct"`
	Capex            float64       `json:"capex"`
	NPVOpex          float64       `json:"npv_opex"`
	LifetimeTotal    float64       `json:"lifetime_total"`
	CostPerM3        CostPerVolume `json:"cost_per_m3"`
}

// Table is a scenario run, rows sorted by coverage fraction ascending.
type Table struct {
	RunID       string        `json:"run_id"`
	CreatedAt   time.Time     `json:"created_at"`
	Mode        rainfall.Mode `json:"mode"`
	DepthMM     float64       `json:"depth_mm"`
	TotalAreaM2 float64       `json:"total_area_m2"`
	BaselineM3  float64       `json:"baseline_m3"`
	RoofCount   int           `json:"roof_count"`
	Rows        []Row         `json:"rows"`
}
