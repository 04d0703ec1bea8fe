package presets

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/rshade/spongekit/internal/cost"
	"github.com/rshade/spongekit/internal/hydro"
)

// Catalog provides preset lookups over parsed catalog data.
type Catalog struct {
	logger zerolog.Logger
	raw    []byte

	// Thread-safe initialization
	once sync.Once
	err  error

	version string
	index   map[string]Preset
	names   []string
}

// NewCatalog parses the embedded catalog and returns it, or an error if
// the embedded data is malformed.
func NewCatalog(logger zerolog.Logger) (*Catalog, error) {
	return newCatalog(logger, rawPresetsJSON)
}

func newCatalog(logger zerolog.Logger, raw []byte) (*Catalog, error) {
	c := &Catalog{logger: logger, raw: raw}
	if err := c.init(); err != nil {
		return nil, err
	}
	return c, nil
}

// init parses catalog data exactly once
func (c *Catalog) init() error {
	c.once.Do(func() {
		var data catalogFile
		if err := json.Unmarshal(c.raw, &data); err != nil {
			c.err = fmt.Errorf("failed to parse preset catalog: %w", err)
			return
		}

		c.version = data.FormatVersion
		c.index = make(map[string]Preset, len(data.Presets))
		for _, p := range data.Presets {
			key := normalizeName(p.Name)
			if key == "" {
				c.logger.Warn().Msg("skipping preset with empty name")
				continue
			}
			if _, dup := c.index[key]; dup {
				c.logger.Warn().Str("preset", p.Name).Msg("duplicate preset, keeping first entry")
				continue
			}
			if p.StorageMM < 0 || p.UnitCost < 0 || p.OverflowCoeff < 0 || p.OverflowCoeff > 1 {
				c.logger.Warn().
					Str("preset", p.Name).
					Float64("storage_mm", p.StorageMM).
					Float64("overflow_coeff", p.OverflowCoeff).
					Float64("unit_cost", p.UnitCost).
					Msg("skipping preset with out-of-range values")
				continue
			}
			p.Name = key
			c.index[key] = p
			c.names = append(c.names, key)
		}
		sort.Strings(c.names)

		c.logger.Debug().
			Str("format_version", c.version).
			Int("presets", len(c.index)).
			Msg("preset catalog loaded")
	})
	return c.err
}

// Version returns the catalog format version.
func (c *Catalog) Version() string { return c.version }

// Lookup returns the preset with the given name, case-insensitively.
// Returns (preset, true) if found, (Preset{}, false) if not found.
func (c *Catalog) Lookup(name string) (Preset, bool) {
	p, ok := c.index[normalizeName(name)]
	return p, ok
}

// Names returns the preset names in sorted order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// All returns every preset sorted by name.
func (c *Catalog) All() []Preset {
	out := make([]Preset, 0, len(c.names))
	for _, n := range c.names {
		out = append(out, c.index[n])
	}
	return out
}

// Apply returns h and p with the preset's storage, overflow coefficient and
// unit cost filled in. Other fields are left untouched.
func (p Preset) Apply(h hydro.Params, cp cost.Params) (hydro.Params, cost.Params) {
	h.StorageMM = p.StorageMM
	h.OverflowCoeff = p.OverflowCoeff
	cp.UnitCost = p.UnitCost
	return h, cp
}

// normalizeName maps "semi-intensive", " Semi_Intensive " and
// "SEMI_INTENSIVE" to the same key.
func normalizeName(name string) string {
	n := strings.ToUpper(strings.TrimSpace(name))
	return strings.NewReplacer("-", "_", " ", "_").Replace(n)
}
