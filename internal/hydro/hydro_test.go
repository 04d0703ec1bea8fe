package hydro

import (
	"math"
	"testing"

	"github.com/rshade/spongekit/internal/rainfall"
	"github.com/stretchr/testify/assert"
)

// TestBaselineRunoffM3 verifies the impervious runoff formula and its clamps.
func TestBaselineRunoffM3(t *testing.T) {
	tests := []struct {
		name  string
		depth float64
		coeff float64
		area  float64
		want  float64
	}{
		{"worked example", 50, 0.9, 170, 7.65},
		{"coefficient above one clamps", 10, 1.4, 100, 1.0},
		{"negative coefficient clamps", 10, -0.2, 100, 0},
		{"negative depth floors", -10, 0.9, 100, 0},
		{"negative area floors", 10, 0.9, -100, 0},
		{"zero area", 50, 0.9, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, BaselineRunoffM3(tt.depth, tt.coeff, tt.area), 1e-12)
		})
	}
}

// TestScenarioRunoff_WorkedExample checks the three-roof example end to end.
func TestScenarioRunoff_WorkedExample(t *testing.T) {
	p := Params{RoofRunoffCoeff: 0.9, StorageMM: 20, OverflowCoeff: 0.25}

	got := ScenarioRunoff(rainfall.DepthEvent{DepthMM: 50}, p, 170, 100)

	assert.InDelta(t, 7.65, got.BaselineM3, 1e-9)
	assert.InDelta(t, 0.75, got.GreenM3, 1e-9)
	assert.InDelta(t, 3.15, got.ImperviousM3, 1e-9)
	assert.InDelta(t, 3.90, got.ScenarioM3, 1e-9)
	assert.InDelta(t, 3.75, got.RetainedM3, 1e-9)
	assert.Equal(t, rainfall.Split{RetainedMM: 20, OverflowMM: 30}, got.Split)
}

// TestScenarioRunoff_NoGreenArea verifies zero conversion reproduces the baseline.
func TestScenarioRunoff_NoGreenArea(t *testing.T) {
	p := DefaultParams()
	for _, depth := range []float64{0, 5, 50, 200} {
		got := ScenarioRunoff(rainfall.DepthEvent{DepthMM: depth}, p, 1234.5, 0)
		assert.Equal(t, got.BaselineM3, got.ScenarioM3)
		assert.Equal(t, 0.0, got.RetainedM3)
	}
}

// TestScenarioRunoff_Clamps verifies green area and coefficients are clamped.
func TestScenarioRunoff_Clamps(t *testing.T) {
	event := rainfall.DepthEvent{DepthMM: 40}

	over := ScenarioRunoff(event, DefaultParams(), 100, 250)
	full := ScenarioRunoff(event, DefaultParams(), 100, 100)
	assert.Equal(t, full, over)
	assert.Equal(t, 0.0, over.ImperviousM3)

	negative := ScenarioRunoff(event, DefaultParams(), 100, -20)
	assert.Equal(t, 0.0, negative.RetainedM3)

	wild := ScenarioRunoff(event, Params{RoofRunoffCoeff: 3, StorageMM: -5, OverflowCoeff: -1}, 100, 50)
	assert.InDelta(t, 4.0, wild.BaselineM3, 1e-12)
	assert.Equal(t, 0.0, wild.GreenM3)
	assert.InDelta(t, 2.0, wild.ImperviousM3, 1e-12)
}

// TestScenarioRunoff_RetainedNeverNegative verifies the benefit floor when green roofs perform worse.
func TestScenarioRunoff_RetainedNeverNegative(t *testing.T) {
	// A green roof with no storage and a higher coefficient than the impervious roof.
	p := Params{RoofRunoffCoeff: 0.3, StorageMM: 0, OverflowCoeff: 1.0}
	got := ScenarioRunoff(rainfall.DepthEvent{DepthMM: 30}, p, 100, 100)

	assert.Greater(t, got.ScenarioM3, got.BaselineM3)
	assert.Equal(t, 0.0, got.RetainedM3)
}

// TestScenarioRunoff_Degenerate verifies zero depth, zero area and nil events.
func TestScenarioRunoff_Degenerate(t *testing.T) {
	tests := []struct {
		name  string
		event rainfall.Event
		total float64
		green float64
	}{
		{"zero depth", rainfall.DepthEvent{DepthMM: 0}, 100, 50},
		{"zero area", rainfall.DepthEvent{DepthMM: 50}, 0, 0},
		{"nil event", nil, 100, 50},
		{"NaN area", rainfall.DepthEvent{DepthMM: 50}, math.NaN(), 10},
		{"infinite depth", rainfall.DepthEvent{DepthMM: math.Inf(1)}, 100, 50},
		{"infinite series step", rainfall.SeriesEvent{Steps: []rainfall.Step{{Minute: 0, IntensityMMPerMin: math.Inf(1)}}, DepthMM: math.Inf(1)}, 100, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScenarioRunoff(tt.event, DefaultParams(), tt.total, tt.green)
			assert.Equal(t, 0.0, got.BaselineM3)
			assert.Equal(t, 0.0, got.ScenarioM3)
			assert.Equal(t, 0.0, got.RetainedM3)
		})
	}
}

// TestScenarioRunoff_Hyetograph verifies series events split on the green area.
func TestScenarioRunoff_Hyetograph(t *testing.T) {
	event := rainfall.NewSeriesEvent([]rainfall.Step{{Minute: 0, IntensityMMPerMin: 10}, {Minute: 1, IntensityMMPerMin: 15}, {Minute: 2, IntensityMMPerMin: 25}})
	p := Params{RoofRunoffCoeff: 0.9, StorageMM: 20, OverflowCoeff: 0.25}

	series := ScenarioRunoff(event, p, 170, 100)
	depth := ScenarioRunoff(rainfall.DepthEvent{DepthMM: 50}, p, 170, 100)

	// The bucket model has no drainage, so ordering does not change totals.
	assert.InDelta(t, depth.ScenarioM3, series.ScenarioM3, 1e-9)
	assert.InDelta(t, depth.RetainedM3, series.RetainedM3, 1e-9)
}

// TestClamp tests value clamping.
func TestClamp(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		want float64
	}{
		{"within range", 0.5, 0.5},
		{"below min", -0.5, 0.0},
		{"above max", 1.5, 1.0},
		{"at min", 0.0, 0.0},
		{"at max", 1.0, 1.0},
		{"NaN", math.NaN(), 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clamp(tt.v, 0, 1))
		})
	}
}
