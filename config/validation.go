package config

import (
	"fmt"
	"strings"
)

// ValidationError collects multiple validation issues.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "invalid config: unknown validation error"
	}
	if len(e.Issues) == 1 {
		return "invalid config: " + e.Issues[0]
	}
	return "config validation errors: " + strings.Join(e.Issues, "; ")
}

func (e *ValidationError) Add(issue string) {
	e.Issues = append(e.Issues, issue)
}

func (e *ValidationError) Addf(format string, args ...any) {
	e.Add(fmt.Sprintf(format, args...))
}

func (e *ValidationError) HasIssues() bool {
	return len(e.Issues) > 0
}

var validKinds = map[string]bool{
	KindPlant:     true,
	KindHerbivore: true,
	KindPredator:  true,
}

// Validate checks the configuration for defects that must stop the run
// before the world is built.
func Validate(cfg *Config) error {
	err := &ValidationError{}

	if cfg.World.Height <= 0 || cfg.World.Width <= 0 {
		err.Addf("world size must be positive, got %dx%d", cfg.World.Height, cfg.World.Width)
	}
	switch cfg.World.Strategy {
	case "", TerrainRandom, TerrainNoise:
	default:
		err.Addf("unknown terrain strategy %q", cfg.World.Strategy)
	}

	// Terrain
	var totalProb float64
	habitable := false
	terrainNames := make(map[string]bool)
	for i, t := range cfg.Terrain {
		if t.Name == "" {
			err.Addf("terrain at index %d: name is required", i)
		} else if terrainNames[t.Name] {
			err.Add("duplicate terrain name: " + t.Name)
		}
		terrainNames[t.Name] = true
		if t.Probability < 0 {
			err.Addf("terrain '%s': probability must be non-negative", t.Name)
		}
		if t.Probability > 0 {
			totalProb += t.Probability
			if t.Habitable {
				habitable = true
			}
		}
	}
	if totalProb <= 0 {
		err.Add("at least one terrain type must have a positive probability")
	} else if !habitable {
		err.Add("at least one reachable terrain type must be habitable")
	}

	// Simulation
	if cfg.Simulation.HungerRatio < 0 {
		err.Addf("hunger_ratio must be non-negative, got %g", cfg.Simulation.HungerRatio)
	}
	if cfg.Simulation.TickDelay < 0 {
		err.Add("tick_delay must be non-negative")
	}
	if cfg.Simulation.Workers < 0 {
		err.Add("workers must be non-negative")
	}
	if cfg.Regrowth.Enabled && cfg.Regrowth.Interval <= 0 {
		err.Add("regrowth interval must be positive when regrowth is enabled")
	}
	if cfg.Termination.IterationLimit && cfg.Termination.IterationCount < 0 {
		err.Add("iteration_count must be non-negative")
	}

	// Species
	species := make(map[string]bool)
	for i, sp := range cfg.Species {
		if sp.Name == "" {
			err.Addf("species at index %d: name is required", i)
			continue
		}
		if species[sp.Name] {
			err.Add("duplicate species name: " + sp.Name)
		}
		species[sp.Name] = true

		prefix := "species '" + sp.Name + "'"
		if !validKinds[sp.Kind] {
			err.Addf("%s: unknown kind %q", prefix, sp.Kind)
		}
		if sp.Weight < 0 {
			err.Add(prefix + ": weight must be non-negative")
		}
		if sp.MaxPerCoordinate < 0 {
			err.Add(prefix + ": max_per_coordinate must be non-negative")
		}
		if sp.MoveSpeed < 0 {
			err.Add(prefix + ": move_speed must be non-negative")
		}
		if sp.FoodForSatiety < 0 {
			err.Add(prefix + ": food_for_satiety must be non-negative")
		}
		if sp.StartSatietyRatio < 0 {
			err.Add(prefix + ": start_satiety_ratio must be non-negative")
		}
	}
	if len(cfg.Species) > 256 {
		err.Addf("at most 256 species are supported, got %d", len(cfg.Species))
	}

	// Diets
	for eater, prey := range cfg.Diets {
		if !species[eater] {
			err.Addf("diet references unknown eater '%s'", eater)
			continue
		}
		for name, p := range prey {
			if !species[name] {
				err.Addf("diet of '%s' references unknown prey '%s'", eater, name)
			}
			if p <= 0 || p > 1 {
				err.Addf("diet of '%s': catch probability for '%s' must be in (0,1], got %g", eater, name, p)
			}
		}
	}

	if err.HasIssues() {
		return err
	}
	return nil
}
