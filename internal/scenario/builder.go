package scenario

import (
	"cmp"
	"runtime"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rshade/spongekit/internal/cost"
	"github.com/rshade/spongekit/internal/hydro"
	"github.com/rshade/spongekit/internal/rainfall"
	"github.com/rshade/spongekit/internal/roofs"
	"golang.org/x/sync/errgroup"
)

const (
	// baselineEpsilon is the baseline volume below which reduction is reported as 0%.
	baselineEpsilon = 1e-12

	// retainedEpsilon is the retained volume below which cost per m³ is not meaningful.
	retainedEpsilon = 1e-9
)

// Builder builds scenario tables. Fractions are evaluated concurrently;
// each one reads only the shared immutable inputs and writes its own row.
type Builder struct {
	logger  zerolog.Logger
	workers int
}

// Option configures a Builder.
type Option func(*Builder)

// WithWorkers bounds the number of fractions evaluated at once. Values
// below 1 mean sequential evaluation.
func WithWorkers(n int) Option {
	return func(b *Builder) {
		if n < 1 {
			n = 1
		}
		b.workers = n
	}
}

// NewBuilder creates a Builder that logs through logger.
func NewBuilder(logger zerolog.Logger, opts ...Option) *Builder {
	b := &Builder{
		logger:  logger,
		workers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build builds a table with a silent logger.
func Build(in Input) (*Table, error) {
	return NewBuilder(zerolog.Nop()).Build(in)
}

// Build evaluates every coverage fraction and returns the rows sorted by
// fraction. Invalid roof input aborts the whole build with an error
// wrapping roofs.ErrInvalidInput; no partial table is returned.
func (b *Builder) Build(in Input) (*Table, error) {
	start := time.Now()

	collection, err := roofs.NewCollection(in.Roofs)
	if err != nil {
		b.logger.Warn().Err(err).Int("roofs", len(in.Roofs)).Msg("scenario build rejected")
		return nil, err
	}

	event := in.Event
	if event == nil {
		event = rainfall.DepthEvent{}
	}

	total := collection.TotalAreaM2()
	baseline := hydro.BaselineRunoffM3(event.TotalMM(), in.Hydrology.RoofRunoffCoeff, total)

	rows := make([]Row, len(in.Fractions))
	var g errgroup.Group
	g.SetLimit(b.workers)
	for i, f := range in.Fractions {
		g.Go(func() error {
			rows[i] = evaluate(collection, event, in.Hydrology, in.Cost, baseline, f)
			b.logger.Debug().
				Float64("coverage_frac", f).
				Float64("green_area_m2", rows[i].GreenAreaM2).
				Float64("retained_m3", rows[i].RetainedM3).
				Msg("scenario evaluated")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.SortStableFunc(rows, func(x, y Row) int {
		return cmp.Compare(x.CoverageFraction, y.CoverageFraction)
	})

	table := &Table{
		RunID:       uuid.New().String(),
		CreatedAt:   time.Now().UTC(),
		Mode:        event.Mode(),
		DepthMM:     event.TotalMM(),
		TotalAreaM2: total,
		BaselineM3:  baseline,
		RoofCount:   collection.Len(),
		Rows:        rows,
	}

	b.logger.Info().
		Str("run_id", table.RunID).
		Int("rows", len(rows)).
		Int("roofs", table.RoofCount).
		Float64("total_area_m2", total).
		Float64("baseline_m3", baseline).
		Dur("duration", time.Since(start)).
		Msg("scenario table built")

	return table, nil
}

// evaluate computes one row: selection, runoff, cost and derived metrics.
func evaluate(c *roofs.Collection, event rainfall.Event, hp hydro.Params, cp cost.Params, baseline, fraction float64) Row {
	sel := c.Select(fraction)
	green := sel.AreaM2()

	runoff := hydro.ScenarioRunoff(event, hp, sel.TotalAreaM2, green)
	lifecycle := cost.Estimate(green, cp)

	var reduction float64
	if d := baseline - runoff.ScenarioM3; baseline > baselineEpsilon && d > 0 {
		reduction = 100 * d / baseline
	}

	perM3 := NotMeaningful()
	if runoff.RetainedM3 > retainedEpsilon {
		perM3 = Finite(lifecycle.LifetimeTotal / runoff.RetainedM3)
	}

	return Row{
		CoverageFraction: fraction,
		TotalAreaM2:      sel.TotalAreaM2,
		TargetAreaM2:     sel.TargetAreaM2,
		GreenAreaM2:      green,
		RoofsConverted:   len(sel.Roofs),
		BaselineM3:       baseline,
		ScenarioM3:       runoff.ScenarioM3,
		RetainedM3:       runoff.RetainedM3,
		ReductionPct:     reduction,
		Capex:            lifecycle.Capex,
		NPVOpex:          lifecycle.NPVOpex,
		LifetimeTotal:    lifecycle.LifetimeTotal,
		CostPerM3:        perM3,
	}
}
