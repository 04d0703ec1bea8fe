package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/rshade/spongekit/internal/cost"
	"github.com/rshade/spongekit/internal/hydro"
	"github.com/rshade/spongekit/internal/presets"
	"github.com/rshade/spongekit/internal/roofs"
	"github.com/rshade/spongekit/internal/scenario"
)

func printTable(w io.Writer, place string, hp hydro.Params, cp cost.Params, t *scenario.Table) {
	title := "Green Roof Scenarios"
	if place != "" {
		title += " - " + place
	}
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("=", len(title)))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  Event:                %s, %.1f mm\n", t.Mode, t.DepthMM)
	fmt.Fprintf(w, "  Roofs:                %d (%.0f m²)\n", t.RoofCount, t.TotalAreaM2)
	fmt.Fprintf(w, "  Baseline runoff:      %.2f m³\n", t.BaselineM3)
	fmt.Fprintf(w, "  Hydrology:            C_roof %.2f, storage %.0f mm, Cg %.2f\n",
		hp.RoofRunoffCoeff, hp.StorageMM, hp.OverflowCoeff)
	fmt.Fprintf(w, "  Cost:                 %s/m², O&M %.1f%%/yr, %d yr at %.1f%%\n",
		formatMoney(cp.UnitCost), cp.OpexRate*100, cp.Years, cp.DiscountRate*100)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %8s %12s %6s %12s %12s %10s %14s %14s %12s\n",
		"Coverage", "Green m²", "Roofs", "Runoff m³", "Retained m³", "Reduction", "CAPEX", "Lifetime", "Cost/m³")
	fmt.Fprintf(w, "  %s\n", strings.Repeat("-", 110))
	for _, r := range t.Rows {
		fmt.Fprintf(w, "  %7.0f%% %12.1f %6d %12.2f %12.2f %9.1f%% %14s %14s %12s\n",
			r.CoverageFraction*100, r.GreenAreaM2, r.RoofsConverted, r.ScenarioM3, r.RetainedM3,
			r.ReductionPct, formatMoney(r.Capex), formatMoney(r.LifetimeTotal), formatCostPerM3(r.CostPerM3))
	}
	fmt.Fprintln(w)

	if best, ok := t.BestValue(); ok {
		fmt.Fprintf(w, "  Best value:           %.0f%% coverage at %s per m³ retained\n",
			best.CoverageFraction*100, formatCostPerM3(best.CostPerM3))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, t.Summary())
}

func printSelection(w io.Writer, fraction float64, sel roofs.Selection) {
	fmt.Fprintf(w, "Coverage %.0f%%: target %.1f of %.1f m², %d roofs, %.1f m² converted\n",
		fraction*100, sel.TargetAreaM2, sel.TotalAreaM2, len(sel.Roofs), sel.AreaM2())
	for _, r := range sel.Roofs {
		fmt.Fprintf(w, "  %-24s %10.1f m²\n", r.ID, r.AreaM2)
	}
}

func printPresets(w io.Writer, catalog *presets.Catalog) {
	fmt.Fprintf(w, "Green-roof presets (catalog %s)\n\n", catalog.Version())
	fmt.Fprintf(w, "  %-16s %10s %8s %10s  %s\n", "Name", "Storage", "Cg", "Unit cost", "Description")
	for _, p := range catalog.All() {
		fmt.Fprintf(w, "  %-16s %7.0f mm %8.2f %10s  %s\n",
			p.Name, p.StorageMM, p.OverflowCoeff, formatMoney(p.UnitCost), p.Description)
	}
}

func formatCostPerM3(c scenario.CostPerVolume) string {
	v, ok := c.Value()
	if !ok {
		return c.String()
	}
	return formatMoney(v)
}

// formatMoney renders a value with thousands separators and no decimals.
func formatMoney(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%.0f", v)
	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
