// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Species kinds.
const (
	KindPlant     = "plant"
	KindHerbivore = "herbivore"
	KindPredator  = "predator"
)

// Terrain strategies.
const (
	TerrainRandom = "random"
	TerrainNoise  = "noise"
)

// Config holds all simulation configuration parameters.
type Config struct {
	World       WorldConfig                   `yaml:"world"`
	Terrain     []TerrainConfig               `yaml:"terrain"`
	Simulation  SimulationConfig              `yaml:"simulation"`
	Regrowth    RegrowthConfig                `yaml:"regrowth"`
	Termination TerminationConfig             `yaml:"termination"`
	View        ViewConfig                    `yaml:"view"`
	Telemetry   TelemetryConfig               `yaml:"telemetry"`
	Species     []SpeciesConfig               `yaml:"species"`
	Diets       map[string]map[string]float64 `yaml:"diets"`
}

// WorldConfig holds grid dimensions and the terrain generation strategy.
type WorldConfig struct {
	Height     int     `yaml:"height"`
	Width      int     `yaml:"width"`
	Strategy   string  `yaml:"strategy"`    // "random" or "noise"
	NoiseScale float64 `yaml:"noise_scale"` // Sampling step per cell for the noise strategy
	Seed       int64   `yaml:"seed"`        // Noise seed (0 = time based)
}

// TerrainConfig describes one location type.
type TerrainConfig struct {
	Name        string  `yaml:"name"`
	Probability float64 `yaml:"probability"`
	Passable    bool    `yaml:"passable"`
	Habitable   bool    `yaml:"habitable"`
	Emoji       string  `yaml:"emoji"`
}

// SimulationConfig holds tick loop parameters.
type SimulationConfig struct {
	HungerRatio float64       `yaml:"hunger_ratio"`
	TickDelay   time.Duration `yaml:"tick_delay"` // Minimum delay between ticks
	Workers     int           `yaml:"workers"`    // Location worker pool size (0 = GOMAXPROCS)
}

// RegrowthConfig holds the periodic plant regrowth schedule.
type RegrowthConfig struct {
	Enabled      bool          `yaml:"enabled"`
	InitialDelay time.Duration `yaml:"initial_delay"`
	Interval     time.Duration `yaml:"interval"`
}

// TerminationConfig holds the stop conditions. Any enabled condition ends the run.
type TerminationConfig struct {
	IterationLimit    bool `yaml:"iteration_limit"`
	IterationCount    int  `yaml:"iteration_count"`
	AllAnimalsDead    bool `yaml:"all_animals_dead"`
	AllPredatorsDead  bool `yaml:"all_predators_dead"`
	AllHerbivoresDead bool `yaml:"all_herbivores_dead"`
}

// ViewConfig holds console rendering settings.
type ViewConfig struct {
	Enabled              bool `yaml:"enabled"`
	ShowMap              bool `yaml:"show_map"`
	DetailedLocationInfo bool `yaml:"detailed_location_info"`
}

// TelemetryConfig holds stats logging parameters.
type TelemetryConfig struct {
	LogEvery       int `yaml:"log_every"`        // Log tick stats every N ticks (0 = never)
	PerfWindowSize int `yaml:"perf_window_size"` // Rolling window for phase timings
}

// SpeciesConfig defines one species and its characteristics.
type SpeciesConfig struct {
	Name              string  `yaml:"name"`
	Kind              string  `yaml:"kind"` // plant, herbivore, predator
	Emoji             string  `yaml:"emoji"`
	Weight            float64 `yaml:"weight"`
	MaxPerCoordinate  int     `yaml:"max_per_coordinate"`
	MoveSpeed         int     `yaml:"move_speed"`
	FoodForSatiety    float64 `yaml:"food_for_satiety"`
	StartSatietyRatio float64 `yaml:"start_satiety_ratio"`
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file.
		// Lists (species, terrain) are replaced wholesale; diets merge per eater.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	return cfg, nil
}

// Defaults returns the embedded default configuration.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// applyDefaults fills optional settings left empty by the YAML.
func (c *Config) applyDefaults() {
	if c.World.Strategy == "" {
		c.World.Strategy = TerrainRandom
	}
	if c.World.NoiseScale == 0 {
		c.World.NoiseScale = 0.15
	}
	if c.Telemetry.PerfWindowSize == 0 {
		c.Telemetry.PerfWindowSize = 60
	}
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	out := *c
	out.Terrain = append([]TerrainConfig(nil), c.Terrain...)
	out.Species = append([]SpeciesConfig(nil), c.Species...)
	out.Diets = make(map[string]map[string]float64, len(c.Diets))
	for eater, prey := range c.Diets {
		m := make(map[string]float64, len(prey))
		for k, v := range prey {
			m[k] = v
		}
		out.Diets[eater] = m
	}
	out.applyDefaults()
	return &out
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
