// Package ui renders the island to a text console.
package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/pthm-cable/island/components"
	"github.com/pthm-cable/island/config"
	"github.com/pthm-cable/island/telemetry"
	"github.com/pthm-cable/island/world"
)

// ConsoleView prints the map once and a population report after every tick.
type ConsoleView struct {
	out     io.Writer
	catalog *components.Catalog
	cfg     config.ViewConfig
}

// NewConsoleView creates a view writing to out.
func NewConsoleView(out io.Writer, catalog *components.Catalog, cfg config.ViewConfig) *ConsoleView {
	return &ConsoleView{out: out, catalog: catalog, cfg: cfg}
}

// ShowMap prints one line of terrain emojis per grid row.
func (v *ConsoleView) ShowMap(area *world.Area) error {
	if !v.cfg.ShowMap {
		return nil
	}
	w := bufio.NewWriter(v.out)
	for _, row := range area.TypeGrid() {
		for _, t := range row {
			w.WriteString(terrainGlyph(t))
		}
		w.WriteByte('\n')
	}
	return w.Flush()
}

// terrainGlyph falls back to the first letter when a type has no emoji.
func terrainGlyph(t world.LocationType) string {
	if t.Emoji != "" {
		return t.Emoji
	}
	if t.Name == "" {
		return "?"
	}
	return strings.ToUpper(t.Name[:1])
}

// ShowTick prints the report for one tick.
func (v *ConsoleView) ShowTick(stats telemetry.TickStats, area *world.Area) error {
	w := bufio.NewWriter(v.out)

	fmt.Fprintf(w, "--- Day %d ---\n", stats.Tick)

	var parts []string
	for _, sp := range v.catalog.All() {
		parts = append(parts, fmt.Sprintf("%s: %s", v.label(sp), humanize.Comma(int64(stats.AliveBySpecies[sp]))))
	}
	fmt.Fprintln(w, strings.Join(parts, "  "))

	fmt.Fprintf(w, "Died today: %s\n", humanize.Comma(int64(stats.Died)))
	fmt.Fprintf(w, "Total alive: %s\n", humanize.Comma(int64(stats.TotalAlive)))
	fmt.Fprintf(w, "Total died: %s\n", humanize.Comma(int64(stats.TotalDied)))

	if v.cfg.DetailedLocationInfo {
		for _, snap := range area.Snapshot() {
			if !snap.Type.Habitable {
				continue
			}
			v.writeLocation(w, snap)
		}
	}
	return w.Flush()
}

func (v *ConsoleView) writeLocation(w io.Writer, snap world.LocationSnapshot) {
	if snap.Total == 0 {
		fmt.Fprintf(w, "Location at %s: No alive organisms\n", snap.Coordinate)
		return
	}
	var parts []string
	for _, sp := range v.catalog.All() {
		if n := snap.Alive[sp]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", v.label(sp), n))
		}
	}
	fmt.Fprintf(w, "Location at %s contains: %s\n", snap.Coordinate, strings.Join(parts, ", "))
}

// label prefers the species emoji over its name.
func (v *ConsoleView) label(sp components.Species) string {
	d, err := v.catalog.Descriptor(sp)
	if err != nil {
		return v.catalog.Emoji(sp)
	}
	if d.Emoji != "" {
		return d.Emoji
	}
	return d.Name
}
