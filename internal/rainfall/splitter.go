package rainfall

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// capacityEpsilon is the remaining storage below which a series step is
// treated as falling on a full bucket.
const capacityEpsilon = 1e-12

// NewEvent builds an Event from a mode string, a total depth and an optional
// series. Any mode other than "hyetograph" yields a DepthEvent.
func NewEvent(mode string, depthMM float64, steps []Step) Event {
	if Mode(mode) == ModeHyetograph {
		return SeriesEvent{Steps: steps, DepthMM: depthMM}
	}
	return DepthEvent{DepthMM: depthMM}
}

// NewSeriesEvent builds a SeriesEvent whose depth is the total of the series.
func NewSeriesEvent(steps []Step) SeriesEvent {
	return SeriesEvent{Steps: steps, DepthMM: TotalDepth(steps)}
}

// TotalDepth returns the summed depth of a series in mm, ignoring negative
// intensities.
func TotalDepth(steps []Step) float64 {
	if len(steps) == 0 {
		return 0
	}
	depths := make([]float64, len(steps))
	for i, s := range steps {
		depths[i] = nonNegative(s.IntensityMMPerMin)
	}
	return floats.Sum(depths)
}

// SplitEvent runs an event through a bucket of capacityMM and returns the
// retained and overflow depths. A nil event yields a zero split.
func SplitEvent(e Event, capacityMM float64) Split {
	if e == nil {
		return Split{}
	}
	return e.split(nonNegative(capacityMM))
}

func (e DepthEvent) split(capacityMM float64) Split {
	return splitDepth(e.TotalMM(), capacityMM)
}

// split fills the bucket step by step. Storage is never replenished within
// the event, and the part of a step that arrives after the bucket fills
// overflows in that same step.
func (e SeriesEvent) split(capacityMM float64) Split {
	if len(e.Steps) == 0 {
		return splitDepth(e.TotalMM(), capacityMM)
	}

	remaining := capacityMM
	var retained, overflow float64

	for _, s := range e.Steps {
		step := nonNegative(s.IntensityMMPerMin)

		if remaining > capacityEpsilon {
			take := math.Min(step, remaining)
			retained += take
			remaining -= take
			step -= take
		}

		if step > 0 {
			overflow += step
		}
	}

	return Split{
		RetainedMM: math.Min(retained, capacityMM),
		OverflowMM: overflow,
	}
}

func splitDepth(depthMM, capacityMM float64) Split {
	return Split{
		RetainedMM: math.Min(depthMM, capacityMM),
		OverflowMM: math.Max(0, depthMM-capacityMM),
	}
}

// nonNegative floors v at zero. NaN and +Inf are treated as zero.
func nonNegative(v float64) float64 {
	if v > 0 && !math.IsInf(v, 1) {
		return v
	}
	return 0
}
