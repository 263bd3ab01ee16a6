package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}

	if cfg.World.Height != 10 || cfg.World.Width != 20 {
		t.Errorf("world size = %dx%d, want 10x20", cfg.World.Height, cfg.World.Width)
	}
	if cfg.Simulation.TickDelay != 500*time.Millisecond {
		t.Errorf("tick_delay = %v, want 500ms", cfg.Simulation.TickDelay)
	}
	if cfg.Regrowth.Interval != 5*time.Second {
		t.Errorf("regrowth interval = %v, want 5s", cfg.Regrowth.Interval)
	}
	if len(cfg.Species) != 16 {
		t.Errorf("len(species) = %d, want 16", len(cfg.Species))
	}
	if got := cfg.Diets["wolf"]["rabbit"]; got != 0.6 {
		t.Errorf("wolf->rabbit = %g, want 0.6", got)
	}

	var grass *SpeciesConfig
	for i := range cfg.Species {
		if cfg.Species[i].Name == "grass" {
			grass = &cfg.Species[i]
		}
	}
	if grass == nil {
		t.Fatal("grass missing from species")
	}
	if grass.Kind != KindPlant {
		t.Errorf("grass kind = %q, want %q", grass.Kind, KindPlant)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "island.yaml")
	overlay := `
world:
  height: 4
  width: 6
simulation:
  hunger_ratio: 0.25
  tick_delay: 0s
diets:
  wolf: {rabbit: 0.9}
`
	if err := os.WriteFile(path, []byte(overlay), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.World.Height != 4 || cfg.World.Width != 6 {
		t.Errorf("world size = %dx%d, want 4x6", cfg.World.Height, cfg.World.Width)
	}
	if cfg.Simulation.HungerRatio != 0.25 {
		t.Errorf("hunger_ratio = %g, want 0.25", cfg.Simulation.HungerRatio)
	}
	if cfg.Simulation.TickDelay != 0 {
		t.Errorf("tick_delay = %v, want 0", cfg.Simulation.TickDelay)
	}
	// Untouched sections keep their defaults.
	if cfg.Regrowth.Interval != 5*time.Second {
		t.Errorf("regrowth interval = %v, want default 5s", cfg.Regrowth.Interval)
	}
	if got := cfg.Diets["wolf"]; len(got) != 1 || got["rabbit"] != 0.9 {
		t.Errorf("wolf diet = %v, want only rabbit 0.9", got)
	}
	if got := cfg.Diets["bear"]["deer"]; got != 0.8 {
		t.Errorf("bear->deer = %g, want default 0.8", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "reading config file") {
		t.Errorf("error = %v, want reading config file", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{
			name:   "negative weight",
			mutate: func(c *Config) { c.Species[0].Weight = -1 },
			want:   "weight must be non-negative",
		},
		{
			name:   "zero catch probability",
			mutate: func(c *Config) { c.Diets["wolf"]["rabbit"] = 0 },
			want:   "catch probability",
		},
		{
			name:   "probability above one",
			mutate: func(c *Config) { c.Diets["fox"]["mouse"] = 1.5 },
			want:   "catch probability",
		},
		{
			name:   "unknown prey",
			mutate: func(c *Config) { c.Diets["wolf"]["unicorn"] = 0.5 },
			want:   "unknown prey 'unicorn'",
		},
		{
			name:   "unknown eater",
			mutate: func(c *Config) { c.Diets["dragon"] = map[string]float64{"wolf": 1} },
			want:   "unknown eater 'dragon'",
		},
		{
			name:   "duplicate species",
			mutate: func(c *Config) { c.Species = append(c.Species, c.Species[0]) },
			want:   "duplicate species name",
		},
		{
			name:   "unknown kind",
			mutate: func(c *Config) { c.Species[0].Kind = "fungus" },
			want:   "unknown kind",
		},
		{
			name:   "negative hunger ratio",
			mutate: func(c *Config) { c.Simulation.HungerRatio = -0.1 },
			want:   "hunger_ratio",
		},
		{
			name:   "empty grid",
			mutate: func(c *Config) { c.World.Width = 0 },
			want:   "world size",
		},
		{
			name: "nothing habitable",
			mutate: func(c *Config) {
				for i := range c.Terrain {
					c.Terrain[i].Habitable = false
				}
			},
			want: "habitable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults().Clone()
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want substring %q", err.Error(), tt.want)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	if err := Validate(Defaults()); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Defaults()
	cfg.Simulation.HungerRatio = 0.33
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Simulation.HungerRatio != 0.33 {
		t.Errorf("hunger_ratio = %g, want 0.33", loaded.Simulation.HungerRatio)
	}
	if loaded.Regrowth.Interval != cfg.Regrowth.Interval {
		t.Errorf("interval = %v, want %v", loaded.Regrowth.Interval, cfg.Regrowth.Interval)
	}
}

func TestCfgPanicsBeforeInit(t *testing.T) {
	saved := global
	global = nil
	defer func() {
		global = saved
		if recover() == nil {
			t.Error("Cfg() did not panic before Init")
		}
	}()
	Cfg()
}
