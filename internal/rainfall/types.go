// Package rainfall splits a single rainfall event into the depth a storage
// layer retains and the depth that overflows it, using a bucket model with
// no drainage or evapotranspiration between steps.
package rainfall

// Mode names the way an event was described by the caller.
type Mode string

const (
	// ModeDepth describes an event by its total depth only.
	ModeDepth Mode = "depth"

	// ModeHyetograph describes an event by a per-minute intensity series.
	ModeHyetograph Mode = "hyetograph"
)

// Step is one entry of a hyetograph.
type Step struct {
	// Minute is the step's time index. Steps are processed in slice order,
	// the minute value is carried through but never used for sorting.
	Minute int `json:"minute"`

	// IntensityMMPerMin is the rainfall depth falling during this step in mm.
	IntensityMMPerMin float64 `json:"mm_per_min"`
}

// Split is the outcome of running an event through a storage layer.
type Split struct {
	// RetainedMM is the depth held by storage in mm.
	RetainedMM float64

	// OverflowMM is the depth that exceeded storage in mm.
	OverflowMM float64
}

// Event is a single rainfall event. The only implementations are
// DepthEvent and SeriesEvent.
type Event interface {
	// TotalMM returns the event depth in mm used for impervious runoff.
	TotalMM() float64

	// Mode reports how the event is described.
	Mode() Mode

	split(capacityMM float64) Split
}

// DepthEvent is an event known only by its total depth.
type DepthEvent struct {
	DepthMM float64
}

// SeriesEvent is an event described by an ordered hyetograph. DepthMM is the
// depth applied to impervious surfaces; NewSeriesEvent sets it to the sum of
// the series. An empty series behaves exactly like a DepthEvent of DepthMM.
type SeriesEvent struct {
	Steps   []Step
	DepthMM float64
}

// TotalMM implements Event.
func (e DepthEvent) TotalMM() float64 { return nonNegative(e.DepthMM) }

// Mode implements Event.
func (e DepthEvent) Mode() Mode { return ModeDepth }

// TotalMM implements Event.
func (e SeriesEvent) TotalMM() float64 { return nonNegative(e.DepthMM) }

// Mode implements Event.
func (e SeriesEvent) Mode() Mode { return ModeHyetograph }
