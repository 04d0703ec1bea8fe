package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/rshade/spongekit/internal/config"
	"github.com/rshade/spongekit/internal/presets"
	"github.com/rshade/spongekit/internal/rainfall"
	"github.com/rshade/spongekit/internal/roofs"
	"github.com/rshade/spongekit/internal/scenario"
	"github.com/rshade/spongekit/internal/store"
	"github.com/spf13/cobra"
)

// app carries process-wide dependencies into commands.
type app struct {
	env    envConfig
	logger zerolog.Logger
}

// runOptions are the run command's flags.
type runOptions struct {
	configPath string
	roofsPath  string
	hyetograph string
	preset     string
	stormMM    float64
	scenarios  []float64
	format     string
	save       bool
}

func (a *app) runCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build a scenario table for a roof inventory and design storm",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadRunConfig(cmd, opts)
			if err != nil {
				return err
			}
			return a.runScenario(cmd.Context(), cmd.OutOrStdout(), cfg, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "YAML run configuration")
	f.StringVarP(&opts.roofsPath, "roofs", "r", "", "roof inventory (.csv or .json) with an area_m2 column")
	f.StringVar(&opts.hyetograph, "hyetograph", "", "hyetograph CSV; switches to hyetograph mode")
	f.StringVar(&opts.preset, "preset", "", "green-roof preset name, see the presets command")
	f.Float64Var(&opts.stormMM, "storm-mm", config.DefaultStormMM, "design storm depth in mm")
	f.Float64SliceVar(&opts.scenarios, "scenarios", nil, "coverage fractions, e.g. 0.1,0.25,0.5")
	f.StringVarP(&opts.format, "format", "o", "text", "output format: text or json")
	f.BoolVar(&opts.save, "save", false, "store the table in PostgreSQL (DATABASE_URL)")
	_ = cmd.MarkFlagRequired("roofs")

	return cmd
}

// loadRunConfig reads the config file, if any, and applies explicitly set
// flags on top of it.
func (a *app) loadRunConfig(cmd *cobra.Command, opts runOptions) (*config.RunConfig, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("storm-mm") {
		cfg.StormMM = opts.stormMM
	}
	if flags.Changed("scenarios") {
		cfg.Scenarios = opts.scenarios
	}
	if flags.Changed("preset") {
		cfg.Preset = opts.preset
	}
	if flags.Changed("hyetograph") {
		abs, err := filepath.Abs(opts.hyetograph)
		if err != nil {
			return nil, err
		}
		cfg.Mode = string(rainfall.ModeHyetograph)
		cfg.Hyetograph = abs
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (a *app) runScenario(ctx context.Context, out io.Writer, cfg *config.RunConfig, opts runOptions) error {
	catalog, err := presets.NewCatalog(a.logger)
	if err != nil {
		return err
	}
	hp, cp, err := cfg.Resolve(catalog)
	if err != nil {
		return err
	}

	roofList, err := a.loadRoofs(opts.roofsPath, cfg.MinRoofArea())
	if err != nil {
		return err
	}

	event, err := loadEvent(cfg)
	if err != nil {
		return err
	}

	var builderOpts []scenario.Option
	if a.env.Workers > 0 {
		builderOpts = append(builderOpts, scenario.WithWorkers(a.env.Workers))
	}
	table, err := scenario.NewBuilder(a.logger, builderOpts...).Build(scenario.Input{
		Roofs:     roofList,
		Event:     event,
		Hydrology: hp,
		Cost:      cp,
		Fractions: cfg.Scenarios,
	})
	if err != nil {
		return err
	}

	if opts.save {
		run := &store.Run{Place: cfg.Place, Hydrology: hp, Cost: cp, Table: table}
		if err := a.saveRun(ctx, run); err != nil {
			return err
		}
	}

	switch strings.ToLower(opts.format) {
	case "json":
		return writeJSON(out, table)
	default:
		printTable(out, cfg.Place, hp, cp, table)
		return nil
	}
}

// loadRoofs reads a roof inventory by file extension and drops slivers.
func (a *app) loadRoofs(path string, minAreaM2 float64) ([]roofs.Roof, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening roof inventory: %w", err)
	}
	defer f.Close()

	var list []roofs.Roof
	if strings.EqualFold(filepath.Ext(path), ".json") {
		list, err = roofs.LoadJSON(f)
	} else {
		list, err = roofs.LoadCSV(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	kept := roofs.FilterSlivers(list, minAreaM2)
	a.logger.Debug().
		Str("path", path).
		Int("roofs", len(list)).
		Int("slivers_dropped", len(list)-len(kept)).
		Float64("min_roof_area_m2", minAreaM2).
		Msg("roof inventory loaded")
	return kept, nil
}

// loadEvent builds the design event from the configured mode.
func loadEvent(cfg *config.RunConfig) (rainfall.Event, error) {
	if rainfall.Mode(cfg.Mode) != rainfall.ModeHyetograph {
		return rainfall.DepthEvent{DepthMM: cfg.StormMM}, nil
	}

	path := cfg.HyetographPath()
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening hyetograph: %w", err)
	}
	defer f.Close()

	steps, err := rainfall.ParseHyetographCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rainfall.NewSeriesEvent(steps), nil
}

func (a *app) saveRun(ctx context.Context, run *store.Run) error {
	if err := store.InitDB(ctx, a.env.DatabaseURL); err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer store.Close()

	repo := store.NewRunRepo(store.GetPool())
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}
	if err := repo.Save(ctx, run); err != nil {
		return err
	}
	a.logger.Info().Str("run_id", run.Table.RunID).Msg("scenario run saved")
	return nil
}

func (a *app) selectCmd() *cobra.Command {
	var (
		roofsPath string
		fraction  float64
		minArea   float64
		format    string
	)

	cmd := &cobra.Command{
		Use:   "select",
		Short: "Show which roofs a coverage fraction converts, largest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := a.loadRoofs(roofsPath, minArea)
			if err != nil {
				return err
			}
			sel, err := roofs.Select(list, fraction)
			if err != nil {
				return err
			}
			if strings.EqualFold(format, "json") {
				return writeJSON(cmd.OutOrStdout(), sel)
			}
			printSelection(cmd.OutOrStdout(), fraction, sel)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&roofsPath, "roofs", "r", "", "roof inventory (.csv or .json)")
	f.Float64VarP(&fraction, "fraction", "f", 0.3, "coverage fraction in [0, 1]")
	f.Float64Var(&minArea, "min-roof-area", roofs.MinRoofAreaM2, "drop roofs at or below this area in m²")
	f.StringVarP(&format, "format", "o", "text", "output format: text or json")
	_ = cmd.MarkFlagRequired("roofs")

	return cmd
}

func (a *app) presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List green-roof presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := presets.NewCatalog(a.logger)
			if err != nil {
				return err
			}
			printPresets(cmd.OutOrStdout(), catalog)
			return nil
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
