// Package config loads SpongeKit run configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/rshade/spongekit/internal/cost"
	"github.com/rshade/spongekit/internal/hydro"
	"github.com/rshade/spongekit/internal/presets"
	"github.com/rshade/spongekit/internal/rainfall"
	"github.com/rshade/spongekit/internal/roofs"
	"gopkg.in/yaml.v3"
)

// DefaultStormMM is the design event depth when none is configured.
const DefaultStormMM = 50.0

// ErrUnknownPreset is returned when a preset name is not in the catalog.
var ErrUnknownPreset = errors.New("unknown preset")

// DefaultScenarios are the coverage fractions evaluated when none are configured.
var DefaultScenarios = []float64{0.1, 0.2, 0.3, 0.4, 0.5}

// Overrides selects model parameters. Pointer fields are optional; nil
// means "use the preset value, or the model default".
type Overrides struct {
	// Preset names a green-roof type from the preset catalog.
	Preset string `yaml:"preset" json:"preset"`

	CRoof        *float64 `yaml:"c_roof" json:"c_roof"`
	StorageMM    *float64 `yaml:"storage_mm" json:"storage_mm"`
	Cg           *float64 `yaml:"cg" json:"cg"`
	UnitCost     *float64 `yaml:"unit_cost" json:"unit_cost"`
	OpexRate     *float64 `yaml:"opex_rate" json:"opex_rate"`
	Years        *int     `yaml:"years" json:"years"`
	DiscountRate *float64 `yaml:"discount_rate" json:"discount_rate"`
}

// RunConfig holds every user input of a single run.
type RunConfig struct {
	// Place is a free-form label for the tile, used in reports only.
	Place string `yaml:"place"`

	// Mode is "depth" or "hyetograph".
	Mode string `yaml:"mode"`

	// StormMM is the event depth in mm for depth mode.
	StormMM float64 `yaml:"storm_mm"`

	// Hyetograph is a CSV path for hyetograph mode, relative to the config file.
	Hyetograph string `yaml:"hyetograph"`

	// Scenarios are coverage fractions in [0, 1].
	Scenarios []float64 `yaml:"scenarios"`

	Overrides `yaml:",inline"`

	MinRoofAreaM2 *float64 `yaml:"min_roof_area_m2"`

	// dir is the directory of the loaded file, for resolving relative paths.
	dir string
}

// Default returns a configuration with the model defaults.
func Default() *RunConfig {
	scenarios := make([]float64, len(DefaultScenarios))
	copy(scenarios, DefaultScenarios)
	return &RunConfig{
		Place:     "Amsterdam, Netherlands",
		Mode:      string(rainfall.ModeDepth),
		StormMM:   DefaultStormMM,
		Scenarios: scenarios,
	}
}

// Load reads a run configuration from a YAML file. Fields absent from the
// file keep their defaults.
func Load(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.dir = filepath.Dir(path)
	return cfg, nil
}

// Parse decodes YAML on top of the defaults.
func Parse(data []byte) (*RunConfig, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}
	return cfg, nil
}

// Validate reports configuration mistakes. The scenario engine clamps
// out-of-range numbers on its own; these checks catch likely typos early.
func (c *RunConfig) Validate() error {
	var errs []error

	switch rainfall.Mode(c.Mode) {
	case rainfall.ModeDepth:
		if !(c.StormMM >= 0) || math.IsInf(c.StormMM, 0) {
			errs = append(errs, fmt.Errorf("storm_mm must be a finite value >= 0, got %g", c.StormMM))
		}
	case rainfall.ModeHyetograph:
		if c.Hyetograph == "" {
			errs = append(errs, errors.New("hyetograph mode requires a hyetograph CSV path"))
		}
	default:
		errs = append(errs, fmt.Errorf("mode must be %q or %q, got %q", rainfall.ModeDepth, rainfall.ModeHyetograph, c.Mode))
	}

	if len(c.Scenarios) == 0 {
		errs = append(errs, errors.New("at least one coverage fraction is required"))
	}
	for _, f := range c.Scenarios {
		if !(f >= 0 && f <= 1) {
			errs = append(errs, fmt.Errorf("coverage fraction %g is outside [0, 1]", f))
		}
	}

	if c.Years != nil && *c.Years < 1 {
		errs = append(errs, fmt.Errorf("years must be >= 1, got %d", *c.Years))
	}

	return errors.Join(errs...)
}

// HyetographPath returns the hyetograph path resolved against the config
// file's directory.
func (c *RunConfig) HyetographPath() string {
	if c.Hyetograph == "" || filepath.IsAbs(c.Hyetograph) || c.dir == "" {
		return c.Hyetograph
	}
	return filepath.Join(c.dir, c.Hyetograph)
}

// MinRoofArea returns the sliver threshold in m².
func (c *RunConfig) MinRoofArea() float64 {
	if c.MinRoofAreaM2 != nil {
		return *c.MinRoofAreaM2
	}
	return roofs.MinRoofAreaM2
}

// Resolve returns model parameters: defaults, then the preset (if any),
// then explicitly configured values.
func (o Overrides) Resolve(catalog *presets.Catalog) (hydro.Params, cost.Params, error) {
	hp := hydro.DefaultParams()
	cp := cost.DefaultParams()

	if o.Preset != "" {
		if catalog == nil {
			return hp, cp, fmt.Errorf("preset %q requested but no preset catalog is available", o.Preset)
		}
		p, ok := catalog.Lookup(o.Preset)
		if !ok {
			return hp, cp, fmt.Errorf("%w %q (available: %v)", ErrUnknownPreset, o.Preset, catalog.Names())
		}
		hp, cp = p.Apply(hp, cp)
	}

	setFloat(&hp.RoofRunoffCoeff, o.CRoof)
	setFloat(&hp.StorageMM, o.StorageMM)
	setFloat(&hp.OverflowCoeff, o.Cg)
	setFloat(&cp.UnitCost, o.UnitCost)
	setFloat(&cp.OpexRate, o.OpexRate)
	setFloat(&cp.DiscountRate, o.DiscountRate)
	if o.Years != nil {
		cp.Years = *o.Years
	}

	return hp, cp, nil
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
