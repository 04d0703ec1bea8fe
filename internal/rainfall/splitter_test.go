package rainfall

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSplitEvent_Depth verifies the single-depth bucket split.
func TestSplitEvent_Depth(t *testing.T) {
	tests := []struct {
		name         string
		depth        float64
		capacity     float64
		wantRetained float64
		wantOverflow float64
	}{
		{"depth above capacity", 50, 20, 20, 30},
		{"depth below capacity", 12, 20, 12, 0},
		{"depth equals capacity", 20, 20, 20, 0},
		{"zero capacity", 35, 0, 0, 35},
		{"zero depth", 0, 20, 0, 0},
		{"negative depth floored", -5, 20, 0, 0},
		{"negative capacity floored", 10, -3, 0, 10},
		{"NaN depth treated as zero", math.NaN(), 20, 0, 0},
		{"infinite depth treated as zero", math.Inf(1), 20, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitEvent(DepthEvent{DepthMM: tt.depth}, tt.capacity)
			assert.InDelta(t, tt.wantRetained, got.RetainedMM, 1e-12)
			assert.InDelta(t, tt.wantOverflow, got.OverflowMM, 1e-12)
		})
	}
}

// TestSplitEvent_DepthConservesTotal checks retained + overflow equals the depth.
func TestSplitEvent_DepthConservesTotal(t *testing.T) {
	depths := []float64{0, 0.1, 7.3, 20, 49.99, 120}
	capacities := []float64{0, 0.5, 12, 20, 80}

	for _, d := range depths {
		for _, c := range capacities {
			got := SplitEvent(DepthEvent{DepthMM: d}, c)
			assert.InDelta(t, d, got.RetainedMM+got.OverflowMM, 1e-9, "depth=%v capacity=%v", d, c)
			assert.GreaterOrEqual(t, got.RetainedMM, 0.0)
			assert.GreaterOrEqual(t, got.OverflowMM, 0.0)
		}
	}
}

// TestSplitEvent_Series verifies minute-by-minute filling of the bucket.
func TestSplitEvent_Series(t *testing.T) {
	tests := []struct {
		name         string
		steps        []Step
		capacity     float64
		wantRetained float64
		wantOverflow float64
	}{
		{
			name:         "fills then overflows within a step",
			steps:        []Step{{0, 5}, {1, 10}, {2, 10}, {3, 5}},
			capacity:     20,
			wantRetained: 20,
			wantOverflow: 10,
		},
		{
			name:         "never fills",
			steps:        []Step{{0, 2}, {1, 3}},
			capacity:     20,
			wantRetained: 5,
			wantOverflow: 0,
		},
		{
			name:         "negative intensity floored",
			steps:        []Step{{0, -4}, {1, 6}},
			capacity:     5,
			wantRetained: 5,
			wantOverflow: 1,
		},
		{
			name:         "zero capacity overflows everything",
			steps:        []Step{{0, 1.5}, {1, 2.5}},
			capacity:     0,
			wantRetained: 0,
			wantOverflow: 4,
		},
		{
			name:         "unsorted minutes processed in given order",
			steps:        []Step{{5, 8}, {1, 8}, {3, 8}},
			capacity:     10,
			wantRetained: 10,
			wantOverflow: 14,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitEvent(NewSeriesEvent(tt.steps), tt.capacity)
			assert.InDelta(t, tt.wantRetained, got.RetainedMM, 1e-12)
			assert.InDelta(t, tt.wantOverflow, got.OverflowMM, 1e-12)
			assert.LessOrEqual(t, got.RetainedMM, tt.capacity+1e-12)
		})
	}
}

// TestSplitEvent_SingleStepMatchesDepth checks a one-step series against depth mode.
func TestSplitEvent_SingleStepMatchesDepth(t *testing.T) {
	cases := []struct{ depth, capacity float64 }{
		{50, 20}, {10, 20}, {20, 20}, {0, 5}, {33.3, 0},
	}

	for _, c := range cases {
		series := SplitEvent(SeriesEvent{Steps: []Step{{0, c.depth}}, DepthMM: c.depth}, c.capacity)
		depth := SplitEvent(DepthEvent{DepthMM: c.depth}, c.capacity)
		assert.InDelta(t, depth.RetainedMM, series.RetainedMM, 1e-12)
		assert.InDelta(t, depth.OverflowMM, series.OverflowMM, 1e-12)
	}
}

// TestSplitEvent_EmptySeriesFallsBackToDepth verifies an empty hyetograph uses the event depth.
func TestSplitEvent_EmptySeriesFallsBackToDepth(t *testing.T) {
	got := SplitEvent(SeriesEvent{DepthMM: 50}, 20)
	assert.Equal(t, Split{RetainedMM: 20, OverflowMM: 30}, got)

	got = SplitEvent(NewEvent("hyetograph", 50, nil), 20)
	assert.Equal(t, Split{RetainedMM: 20, OverflowMM: 30}, got)
}

// TestNewEvent_ModeFallback verifies unknown modes behave like depth mode.
func TestNewEvent_ModeFallback(t *testing.T) {
	tests := []struct {
		name     string
		mode     string
		wantMode Mode
	}{
		{"depth", "depth", ModeDepth},
		{"hyetograph", "hyetograph", ModeHyetograph},
		{"unknown mode", "continuous", ModeDepth},
		{"empty mode", "", ModeDepth},
	}

	steps := []Step{{0, 30}, {1, 30}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEvent(tt.mode, 40, steps)
			assert.Equal(t, tt.wantMode, e.Mode())
			assert.Equal(t, 40.0, e.TotalMM())
		})
	}
}

// TestTotalDepth verifies series totals ignore negative steps.
func TestTotalDepth(t *testing.T) {
	assert.Equal(t, 0.0, TotalDepth(nil))
	assert.InDelta(t, 12.5, TotalDepth([]Step{{0, 5}, {1, -2}, {2, 7.5}}), 1e-12)
	assert.InDelta(t, 12.5, NewSeriesEvent([]Step{{0, 5}, {1, 7.5}}).TotalMM(), 1e-12)
}

// TestSplitEvent_Nil verifies a nil event is a zero split.
func TestSplitEvent_Nil(t *testing.T) {
	assert.Equal(t, Split{}, SplitEvent(nil, 20))
}
