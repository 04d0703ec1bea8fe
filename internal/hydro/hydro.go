package hydro

import (
	"math"

	"github.com/rshade/spongekit/internal/rainfall"
)

// Params are the coefficients of the roof hydrology model.
type Params struct {
	// RoofRunoffCoeff is the impervious roof runoff coefficient, clamped to [0, 1].
	RoofRunoffCoeff float64 `json:"c_roof" yaml:"c_roof"`

	// StorageMM is the green-roof bucket capacity in mm, floored at 0.
	StorageMM float64 `json:"storage_mm" yaml:"storage_mm"`

	// OverflowCoeff is the runoff coefficient applied to green-roof overflow,
	// clamped to [0, 1].
	OverflowCoeff float64 `json:"cg" yaml:"cg"`
}

// DefaultParams returns the model defaults for an extensive green roof.
func DefaultParams() Params {
	return Params{
		RoofRunoffCoeff: DefaultRoofRunoffCoeff,
		StorageMM:       DefaultStorageMM,
		OverflowCoeff:   DefaultOverflowCoeff,
	}
}

// normalized returns p with every field clamped to its valid range.
func (p Params) normalized() Params {
	return Params{
		RoofRunoffCoeff: Clamp(p.RoofRunoffCoeff, 0, 1),
		StorageMM:       nonNegative(p.StorageMM),
		OverflowCoeff:   Clamp(p.OverflowCoeff, 0, 1),
	}
}

// Result is the runoff outcome of one scenario.
type Result struct {
	// BaselineM3 is the runoff with no green roofs.
	BaselineM3 float64

	// GreenM3 is the runoff from the converted area.
	GreenM3 float64

	// ImperviousM3 is the runoff from the area left unconverted.
	ImperviousM3 float64

	// ScenarioM3 is GreenM3 + ImperviousM3.
	ScenarioM3 float64

	// RetainedM3 is the volume kept out of the drainage system relative
	// to the baseline. It is never negative.
	RetainedM3 float64

	// Split is the bucket split of the event on the green roofs.
	Split rainfall.Split
}

// BaselineRunoffM3 returns the event runoff volume from impervious roofs:
//
//	V = (depth_mm / 1000) × C_roof × area_m2
//
// Depth and area are floored at 0 and the coefficient is clamped to [0, 1].
func BaselineRunoffM3(depthMM, roofRunoffCoeff, totalAreaM2 float64) float64 {
	return nonNegative(depthMM) / mmPerM * Clamp(roofRunoffCoeff, 0, 1) * nonNegative(totalAreaM2)
}

// ScenarioRunoff computes runoff when greenAreaM2 of the roofs is converted.
//
// The calculation:
//  1. Baseline runoff over the whole area with the impervious coefficient
//  2. Retained and overflow depths from the event and the bucket capacity
//  3. Green runoff = overflow_mm / 1000 × Cg × green area
//  4. Impervious runoff = depth_mm / 1000 × C_roof × (total − green)
//  5. Scenario runoff = green + impervious
//  6. Retained = max(0, baseline − scenario)
//
// The green area is clamped to [0, total]. Degenerate inputs yield zero volumes.
func ScenarioRunoff(event rainfall.Event, p Params, totalAreaM2, greenAreaM2 float64) Result {
	p = p.normalized()
	totalAreaM2 = nonNegative(totalAreaM2)
	greenAreaM2 = Clamp(greenAreaM2, 0, totalAreaM2)

	var depthMM float64
	if event != nil {
		depthMM = event.TotalMM()
	}

	// Step 1: baseline on the full area
	baseline := BaselineRunoffM3(depthMM, p.RoofRunoffCoeff, totalAreaM2)

	// Step 2: bucket split on the green portion
	split := rainfall.SplitEvent(event, p.StorageMM)

	// Step 3: overflow from the green roofs
	green := split.OverflowMM / mmPerM * p.OverflowCoeff * greenAreaM2

	// Step 4: remaining impervious roofs
	restArea := math.Max(0, totalAreaM2-greenAreaM2)
	impervious := depthMM / mmPerM * p.RoofRunoffCoeff * restArea

	// Step 5 and 6
	scenario := green + impervious
	var retained float64
	if d := baseline - scenario; d > 0 {
		retained = d
	}

	return Result{
		BaselineM3:   baseline,
		GreenM3:      green,
		ImperviousM3: impervious,
		ScenarioM3:   scenario,
		RetainedM3:   retained,
		Split:        split,
	}
}

// Clamp restricts a value to the range [min, max]. NaN becomes min.
func Clamp(v, min, max float64) float64 {
	if !(v > min) {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// nonNegative floors v at zero. NaN and +Inf are treated as zero.
func nonNegative(v float64) float64 {
	if v > 0 && !math.IsInf(v, 1) {
		return v
	}
	return 0
}
