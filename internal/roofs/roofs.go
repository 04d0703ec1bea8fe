// Package roofs holds the roof inventory of a tile and selects which roofs
// are converted to green roofs for a given coverage fraction.
package roofs

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrInvalidInput is the only hard failure of the scenario engine. It is
// returned when roof areas are missing, non-numeric, or do not sum to a
// positive total.
var ErrInvalidInput = errors.New("invalid input")

// MinRoofAreaM2 is the footprint area at or below which a polygon is
// treated as a mapping sliver rather than a roof.
const MinRoofAreaM2 = 10.0

// Roof is a single roof footprint with a precomputed area.
type Roof struct {
	// ID is an opaque identifier passed through from the footprint source.
	ID string `json:"id"`

	// AreaM2 is the roof area in square metres.
	AreaM2 float64 `json:"area_m2"`
}

// Collection is a validated, immutable set of roofs.
type Collection struct {
	roofs   []Roof
	totalM2 float64
}

// NewCollection validates roofs once and returns a Collection over a copy
// of them. Every failure wraps ErrInvalidInput.
func NewCollection(roofs []Roof) (*Collection, error) {
	if len(roofs) == 0 {
		return nil, fmt.Errorf("%w: no roof records", ErrInvalidInput)
	}

	areas := make([]float64, len(roofs))
	for i, r := range roofs {
		if math.IsNaN(r.AreaM2) || math.IsInf(r.AreaM2, 0) {
			return nil, fmt.Errorf("%w: roof %d (%q) has non-numeric area", ErrInvalidInput, i, r.ID)
		}
		areas[i] = r.AreaM2
	}

	total := floats.Sum(areas)
	if !(total > 0) {
		return nil, fmt.Errorf("%w: total roof area must be positive, got %g m²", ErrInvalidInput, total)
	}

	owned := make([]Roof, len(roofs))
	copy(owned, roofs)

	return &Collection{roofs: owned, totalM2: total}, nil
}

// Len returns the number of roofs.
func (c *Collection) Len() int { return len(c.roofs) }

// TotalAreaM2 returns the summed roof area.
func (c *Collection) TotalAreaM2() float64 { return c.totalM2 }

// Roofs returns a copy of the roofs in input order.
func (c *Collection) Roofs() []Roof {
	out := make([]Roof, len(c.roofs))
	copy(out, c.roofs)
	return out
}

// FilterSlivers returns the roofs whose area exceeds minAreaM2, preserving order.
func FilterSlivers(roofs []Roof, minAreaM2 float64) []Roof {
	out := make([]Roof, 0, len(roofs))
	for _, r := range roofs {
		if r.AreaM2 > minAreaM2 {
			out = append(out, r)
		}
	}
	return out
}
