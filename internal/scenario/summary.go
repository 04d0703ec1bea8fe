package scenario

import "fmt"

// LargestReduction returns the row with the highest reduction percentage.
// Ties go to the lower coverage fraction.
func (t *Table) LargestReduction() (Row, bool) {
	if t == nil || len(t.Rows) == 0 {
		return Row{}, false
	}
	best := t.Rows[0]
	for _, r := range t.Rows[1:] {
		if r.ReductionPct > best.ReductionPct {
			best = r
		}
	}
	return best, true
}

// BestValue returns the row with the lowest meaningful cost per m³ retained.
// It reports false when no row retains any volume.
func (t *Table) BestValue() (Row, bool) {
	if t == nil {
		return Row{}, false
	}
	var (
		best  Row
		found bool
	)
	for _, r := range t.Rows {
		v, ok := r.CostPerM3.Value()
		if !ok {
			continue
		}
		if cur, _ := best.CostPerM3.Value(); !found || v < cur {
			best = r
			found = true
		}
	}
	return best, found
}

// Summary returns a plain-language sentence about the largest reduction.
func (t *Table) Summary() string {
	best, ok := t.LargestReduction()
	if !ok {
		return "No scenarios were computed, so results are not available for this location and input."
	}
	return fmt.Sprintf(
		"Converting a portion of roofs to green roofs could reduce stormwater runoff. "+
			"Among the scenarios tested, the largest reduction was approximately %.1f%% "+
			"at a coverage of about %.0f%% of total roof area, retaining around %.0f cubic metres of event runoff.",
		best.ReductionPct, best.CoverageFraction*100, best.RetainedM3,
	)
}
