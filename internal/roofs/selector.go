package roofs

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/floats"
)

// Selection is the set of roofs chosen for one coverage fraction.
type Selection struct {
	// Roofs are the selected roofs, largest first.
	Roofs []Roof `json:"selected"`

	// TargetAreaM2 is fraction × total area, or 0 for an empty selection.
	TargetAreaM2 float64 `json:"target_area_m2"`

	// TotalAreaM2 is the area of the whole collection.
	TotalAreaM2 float64 `json:"total_area_m2"`
}

// AreaM2 returns the summed area of the selected roofs.
func (s Selection) AreaM2() float64 {
	if len(s.Roofs) == 0 {
		return 0
	}
	areas := make([]float64, len(s.Roofs))
	for i, r := range s.Roofs {
		areas[i] = r.AreaM2
	}
	return floats.Sum(areas)
}

// Select picks roofs largest-first until their cumulative area first meets
// or exceeds fraction × total area.
//
// The algorithm:
//  1. Clamp fraction to [0, 1] and compute the target area
//  2. Return an empty selection when the target is not positive
//  3. Stable-sort roofs by area descending (ties keep input order)
//  4. Return the shortest leading run whose cumulative area reaches the target
//
// Buildings are never split, so the selected area may exceed the target.
func (c *Collection) Select(fraction float64) Selection {
	f := clampFraction(fraction)
	target := f * c.totalM2

	if target <= 0 {
		return Selection{Roofs: []Roof{}, TargetAreaM2: 0, TotalAreaM2: c.totalM2}
	}

	ordered := make([]Roof, len(c.roofs))
	copy(ordered, c.roofs)
	slices.SortStableFunc(ordered, func(a, b Roof) int {
		return cmp.Compare(b.AreaM2, a.AreaM2)
	})

	areas := make([]float64, len(ordered))
	for i, r := range ordered {
		areas[i] = r.AreaM2
	}
	cumulative := floats.CumSum(make([]float64, len(areas)), areas)

	// Summing in sorted order can land a hair below a target computed from
	// the input-order total; in that case every roof is needed.
	n := len(ordered)
	for i, sum := range cumulative {
		if sum >= target {
			n = i + 1
			break
		}
	}

	return Selection{
		Roofs:        ordered[:n:n],
		TargetAreaM2: target,
		TotalAreaM2:  c.totalM2,
	}
}

// Select validates roofs and selects from them in one call.
func Select(roofs []Roof, fraction float64) (Selection, error) {
	c, err := NewCollection(roofs)
	if err != nil {
		return Selection{}, err
	}
	return c.Select(fraction), nil
}

// clampFraction restricts a coverage fraction to [0, 1]. NaN becomes 0.
func clampFraction(f float64) float64 {
	if !(f > 0) {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
