package game

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/island/components"
	"github.com/pthm-cable/island/config"
	"github.com/pthm-cable/island/systems"
	"github.com/pthm-cable/island/telemetry"
	"github.com/pthm-cable/island/world"
)

var forest = world.LocationType{Name: "forest", Probability: 1, Passable: true, Habitable: true}

type strategyFunc func(components.Coordinate) world.LocationType

func (f strategyFunc) TypeAt(c components.Coordinate) world.LocationType { return f(c) }

func allForest(components.Coordinate) world.LocationType { return forest }

// testConfig returns a small deterministic-enough configuration: wolves
// with no diet starve on tick 1, rabbits never get hungry.
func testConfig(mutate func(*config.Config)) *config.Config {
	cfg := config.Defaults().Clone()
	cfg.World.Height = 3
	cfg.World.Width = 4
	cfg.Species = []config.SpeciesConfig{
		{Name: "wolf", Kind: config.KindPredator, Weight: 50, MaxPerCoordinate: 3, MoveSpeed: 1, FoodForSatiety: 10, StartSatietyRatio: 0.5},
		{Name: "rabbit", Kind: config.KindHerbivore, Weight: 2, MaxPerCoordinate: 4, MoveSpeed: 1, FoodForSatiety: 0, StartSatietyRatio: 0.5},
		{Name: "grass", Kind: config.KindPlant, Weight: 1, MaxPerCoordinate: 5},
	}
	cfg.Diets = map[string]map[string]float64{"rabbit": {"grass": 0.5}}
	cfg.Simulation.HungerRatio = 0.6
	cfg.Simulation.TickDelay = 0
	cfg.Simulation.Workers = 2
	cfg.Termination = config.TerminationConfig{}
	cfg.Telemetry.LogEvery = 0
	if mutate != nil {
		mutate(cfg)
	}
	return cfg
}

func newTestGame(t *testing.T, cfg *config.Config, opts Options) *Game {
	t.Helper()
	if err := config.Validate(cfg); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	opts.Config = cfg
	if opts.Strategy == nil {
		opts.Strategy = strategyFunc(allForest)
	}
	if opts.Rand == nil {
		opts.Rand = systems.NewLockedRand(42)
	}
	g, err := NewGame(opts)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	return g
}

// addOrganisms places n organisms of a species at c.
func addOrganisms(t *testing.T, g *Game, name string, c components.Coordinate, n int) {
	t.Helper()
	sp, ok := g.Catalog().Lookup(name)
	if !ok {
		t.Fatalf("species %q not registered", name)
	}
	for i := 0; i < n; i++ {
		o, err := g.Catalog().New(sp, c)
		if err != nil {
			t.Fatal(err)
		}
		if err := g.Area().Add(o); err != nil {
			t.Fatal(err)
		}
	}
}

func TestLifecycleOrder(t *testing.T) {
	ctx := context.Background()
	g := newTestGame(t, testConfig(nil), Options{})

	if got := g.State(); got != StateNotStarted {
		t.Fatalf("initial state = %v, want %v", got, StateNotStarted)
	}
	if _, err := g.Step(ctx); !errors.Is(err, ErrNotStocked) {
		t.Fatalf("Step before Stock: err = %v, want ErrNotStocked", err)
	}
	if err := g.Stock(ctx); err != nil {
		t.Fatalf("Stock: %v", err)
	}
	if got := g.State(); got != StateStocked {
		t.Errorf("state after Stock = %v, want %v", got, StateStocked)
	}
	if err := g.Stock(ctx); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Stock: err = %v, want ErrAlreadyStarted", err)
	}
	if _, err := g.Step(ctx); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if got := g.State(); got != StateRunning {
		t.Errorf("state after Step = %v, want %v", got, StateRunning)
	}
}

func TestIterationLimitStopsAfterCounterExceedsCount(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(func(c *config.Config) {
		c.Termination.IterationLimit = true
		c.Termination.IterationCount = 3
	})
	g := newTestGame(t, cfg, Options{})
	if err := g.Stock(ctx); err != nil {
		t.Fatal(err)
	}

	for tick := 1; tick <= 3; tick++ {
		done, err := g.Step(ctx)
		if err != nil {
			t.Fatalf("tick %d: %v", tick, err)
		}
		if done {
			t.Fatalf("finished after tick %d, want still running", tick)
		}
	}

	done, err := g.Step(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !done {
		t.Fatal("still running after tick 4")
	}
	if got := g.Iteration(); got != 4 {
		t.Errorf("Iteration() = %d, want 4", got)
	}
	if got := g.Reason(); got != ReasonIterationLimit {
		t.Errorf("Reason() = %q, want %q", got, ReasonIterationLimit)
	}
	if got := g.State(); got != StateFinished {
		t.Errorf("State() = %v, want %v", got, StateFinished)
	}
	if _, err := g.Step(ctx); !errors.Is(err, ErrFinished) {
		t.Errorf("Step after finish: err = %v, want ErrFinished", err)
	}
}

func TestStarvationEndsRun(t *testing.T) {
	tests := []struct {
		name       string
		toggles    config.TerminationConfig
		rabbits    int
		wantReason string
	}{
		{
			name:       "all animals dead",
			toggles:    config.TerminationConfig{AllAnimalsDead: true},
			wantReason: ReasonAllAnimalsDead,
		},
		{
			name:       "all predators dead with herbivores alive",
			toggles:    config.TerminationConfig{AllAnimalsDead: true, AllPredatorsDead: true},
			rabbits:    2,
			wantReason: ReasonAllPredatorsDead,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			cfg := testConfig(func(c *config.Config) {
				c.Termination = tt.toggles
				// Only wolves and grass are stocked in this case.
				if tt.rabbits == 0 {
					c.Species = []config.SpeciesConfig{c.Species[0], c.Species[2]}
					c.Diets = nil
				}
			})
			g := newTestGame(t, cfg, Options{})
			if err := g.Stock(ctx); err != nil {
				t.Fatal(err)
			}
			addOrganisms(t, g, "wolf", components.Coordinate{Row: 1, Col: 1}, 1)
			if tt.rabbits > 0 {
				addOrganisms(t, g, "rabbit", components.Coordinate{Row: 0, Col: 0}, tt.rabbits)
			}

			done, err := g.Step(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if !done {
				t.Fatal("still running after tick 1")
			}
			if got := g.Reason(); got != tt.wantReason {
				t.Errorf("Reason() = %q, want %q", got, tt.wantReason)
			}
			stats := g.LastStats()
			if stats.Predators != 0 {
				t.Errorf("alive predators = %d, want 0", stats.Predators)
			}
			if stats.Starved < 1 || stats.Died < stats.Starved {
				t.Errorf("starved = %d, died = %d; want starved >= 1 and died >= starved", stats.Starved, stats.Died)
			}
			if stats.TotalDied != stats.Died {
				t.Errorf("total died = %d, want %d after one tick", stats.TotalDied, stats.Died)
			}
		})
	}
}

func TestRunFinishesBeforeFirstTickWhenAlreadyMet(t *testing.T) {
	cfg := testConfig(func(c *config.Config) {
		c.Species = []config.SpeciesConfig{c.Species[1], c.Species[2]}
		c.Termination = config.TerminationConfig{AllPredatorsDead: true, IterationLimit: true, IterationCount: 10}
	})
	g := newTestGame(t, cfg, Options{})

	reason, err := g.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if reason != ReasonAllPredatorsDead {
		t.Errorf("reason = %q, want %q", reason, ReasonAllPredatorsDead)
	}
	if got := g.Iteration(); got != 0 {
		t.Errorf("Iteration() = %d, want 0", got)
	}
	if got := g.State(); got != StateFinished {
		t.Errorf("State() = %v, want %v", got, StateFinished)
	}
	if stats := g.LastStats(); stats.Tick != 0 || stats.TotalDied != 0 {
		t.Errorf("last stats tick = %d, total died = %d; want tick 0 and no deaths", stats.Tick, stats.TotalDied)
	}
}

func TestRunInterrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := newTestGame(t, testConfig(nil), Options{})
	reason, err := g.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if reason != ReasonInterrupted {
		t.Errorf("reason = %q, want %q", reason, ReasonInterrupted)
	}
	if got := g.Iteration(); got != 0 {
		t.Errorf("Iteration() = %d, want 0", got)
	}
	if got := g.State(); got != StateFinished {
		t.Errorf("State() = %v, want %v", got, StateFinished)
	}
}

func TestRunWritesHistory(t *testing.T) {
	dir := t.TempDir()
	out, err := telemetry.NewOutputManager(filepath.Join(dir, "out"))
	if err != nil {
		t.Fatal(err)
	}
	defer out.Close()
	store, err := telemetry.OpenStore(filepath.Join(dir, "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	cfg := testConfig(func(c *config.Config) {
		c.Termination.IterationLimit = true
		c.Termination.IterationCount = 2
	})
	g := newTestGame(t, cfg, Options{RunID: "run-1", Output: out, Store: store})

	reason, err := g.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if reason != ReasonIterationLimit {
		t.Fatalf("reason = %q, want %q", reason, ReasonIterationLimit)
	}

	ticks, err := store.TickHistory("run-1")
	if err != nil {
		t.Fatal(err)
	}
	// Tick 0 is the stocked population, then ticks 1..3.
	if len(ticks) != 4 {
		t.Fatalf("stored ticks = %d, want 4", len(ticks))
	}
	for i, ts := range ticks {
		if ts.Tick != i {
			t.Errorf("ticks[%d].Tick = %d, want %d", i, ts.Tick, i)
		}
	}

	runs, err := store.Runs(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(runs))
	}
	if runs[0].Ticks != 3 || runs[0].Reason != ReasonIterationLimit {
		t.Errorf("run = %+v, want 3 ticks and reason %q", runs[0], ReasonIterationLimit)
	}
	if !runs[0].FinishedAt.Valid {
		t.Error("run has no finish time")
	}
}

func TestRegrowAddsPlantsUpToCapacity(t *testing.T) {
	ctx := context.Background()
	g := newTestGame(t, testConfig(nil), Options{})

	grass, _ := g.Catalog().Lookup("grass")
	for i := 0; i < 50; i++ {
		if _, err := g.Regrow(ctx); err != nil {
			t.Fatalf("Regrow: %v", err)
		}
	}
	for _, loc := range g.Area().Locations() {
		if n := loc.Count(grass); n > 5 {
			t.Errorf("%v holds %d grass, want <= 5", loc.Coordinate(), n)
		}
	}
	if got := g.Regrowths(); got != 50 {
		t.Errorf("Regrowths() = %d, want 50", got)
	}
}
