// Terrain preview tool: prints the terrain map a config would generate and
// the realized share of each terrain type.
//
// Usage: go run ./cmd/terrainpreview -strategy noise -scale 0.2
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pthm-cable/island/components"
	"github.com/pthm-cable/island/config"
	"github.com/pthm-cable/island/systems"
	"github.com/pthm-cable/island/ui"
	"github.com/pthm-cable/island/world"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	strategy := flag.String("strategy", "", "Terrain strategy override: random or noise")
	scale := flag.Float64("scale", 0, "Noise scale override (0 = use config)")
	seed := flag.Int64("seed", 0, "Seed override (0 = use config)")
	height := flag.Int("height", 0, "Grid height override")
	width := flag.Int("width", 0, "Grid width override")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *strategy != "" {
		cfg.World.Strategy = *strategy
	}
	if *scale > 0 {
		cfg.World.NoiseScale = *scale
	}
	if *seed != 0 {
		cfg.World.Seed = *seed
	}
	if *height > 0 {
		cfg.World.Height = *height
	}
	if *width > 0 {
		cfg.World.Width = *width
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatal(err)
	}

	var rng systems.Rand = systems.DefaultRand
	if *seed != 0 {
		rng = systems.NewLockedRand(uint64(*seed))
	}
	area, err := world.NewArea(cfg.World.Height, cfg.World.Width, world.StrategyFromConfig(cfg, rng))
	if err != nil {
		log.Fatal(err)
	}

	catalog, err := components.NewCatalog(cfg, nil)
	if err != nil {
		log.Fatal(err)
	}
	view := ui.NewConsoleView(os.Stdout, catalog, config.ViewConfig{Enabled: true, ShowMap: true})
	if err := view.ShowMap(area); err != nil {
		log.Fatal(err)
	}

	counts := make(map[string]int)
	for _, row := range area.TypeGrid() {
		for _, t := range row {
			counts[t.Name]++
		}
	}
	total := float64(cfg.World.Height * cfg.World.Width)

	fmt.Printf("\nstrategy=%s scale=%.3f seed=%d size=%dx%d\n",
		cfg.World.Strategy, cfg.World.NoiseScale, cfg.World.Seed, cfg.World.Height, cfg.World.Width)
	var weightSum float64
	for _, t := range cfg.Terrain {
		weightSum += t.Probability
	}
	for _, t := range cfg.Terrain {
		fmt.Printf("  %-10s want %5.1f%%  got %5.1f%%\n",
			t.Name, 100*t.Probability/weightSum, 100*float64(counts[t.Name])/total)
	}
}
