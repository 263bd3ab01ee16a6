// Package game runs the island life cycle: stocking, the tick loop and
// regrowth, on top of the per-Location systems.
package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pthm-cable/island/components"
	"github.com/pthm-cable/island/config"
	"github.com/pthm-cable/island/systems"
	"github.com/pthm-cable/island/telemetry"
	"github.com/pthm-cable/island/world"
)

// bookmarkHistory is the number of ticks the bookmark detector compares against.
const bookmarkHistory = 10

// Lifecycle errors.
var (
	ErrAlreadyStarted = errors.New("game already started")
	ErrNotStocked     = errors.New("game not stocked")
	ErrFinished       = errors.New("game finished")
)

// State is the life cycle state of a Game.
type State int

const (
	StateNotStarted State = iota
	StateStocked
	StateRunning
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateStocked:
		return "stocked"
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// View renders the world between ticks.
type View interface {
	ShowMap(area *world.Area) error
	ShowTick(stats telemetry.TickStats, area *world.Area) error
}

// Options configures a new Game. Only Config is required.
type Options struct {
	Config   *config.Config
	RunID    string
	Rand     systems.Rand
	Strategy world.LocationCreationStrategy // overrides the configured terrain strategy
	Output   *telemetry.OutputManager
	Store    *telemetry.Store
	View     View
}

// Game holds the simulation state.
type Game struct {
	cfg   *config.Config
	runID string

	ids     *components.IDGenerator
	catalog *components.Catalog
	area    *world.Area

	// Systems
	movement   *systems.MovementSystem
	feeding    *systems.FeedingSystem
	breeding   *systems.BreedingSystem
	hunger     *systems.HungerSystem
	cleanup    *systems.CleanupSystem
	population *systems.PopulationSystem
	flora      *systems.FloraSystem
	registry   *systems.SystemRegistry
	terminator *Terminator

	// Telemetry
	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	bookmarks *telemetry.BookmarkDetector
	output    *telemetry.OutputManager
	store     *telemetry.Store
	view      View

	workers  int
	logEvery int

	// Tick loop state. Only the loop goroutine writes these; state is also
	// read by Regrow.
	mu        sync.Mutex
	state     State
	iteration int
	phase     string
	reason    string
	lastStats telemetry.TickStats
	regrowths atomic.Int64
}

// NewGame builds the catalog, the area and the systems. The population is
// created by Stock.
func NewGame(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, errors.New("game: nil config")
	}
	rng := opts.Rand
	if rng == nil {
		rng = systems.DefaultRand
	}

	ids := &components.IDGenerator{}
	catalog, err := components.NewCatalog(cfg, ids)
	if err != nil {
		return nil, fmt.Errorf("building species catalog: %w", err)
	}

	strategy := opts.Strategy
	if strategy == nil {
		strategy = world.StrategyFromConfig(cfg, rng)
	}
	area, err := world.NewArea(cfg.World.Height, cfg.World.Width, strategy)
	if err != nil {
		return nil, fmt.Errorf("building area: %w", err)
	}

	g := &Game{
		cfg:        cfg,
		runID:      opts.RunID,
		ids:        ids,
		catalog:    catalog,
		area:       area,
		movement:   systems.NewMovementSystem(area, rng),
		feeding:    systems.NewFeedingSystem(catalog, rng),
		breeding:   systems.NewBreedingSystem(catalog, rng),
		hunger:     systems.NewHungerSystem(cfg.Simulation.HungerRatio),
		cleanup:    systems.NewCleanupSystem(),
		population: systems.NewPopulationSystem(catalog, rng),
		flora:      systems.NewFloraSystem(catalog, rng),
		registry:   systems.NewSystemRegistry(),
		terminator: NewTerminator(cfg.Termination),
		collector:  telemetry.NewCollector(catalog, opts.RunID),
		perf:       telemetry.NewPerfCollector(cfg.Telemetry.PerfWindowSize),
		bookmarks:  telemetry.NewBookmarkDetector(bookmarkHistory),
		output:     opts.Output,
		store:      opts.Store,
		view:       opts.View,
		workers:    workerCount(cfg.Simulation.Workers),
		logEvery:   cfg.Telemetry.LogEvery,
	}

	var phases []string
	for _, info := range g.registry.ByCategory("tick") {
		phases = append(phases, info.Name)
	}
	slog.Info("game created",
		"run_id", g.runID,
		"height", area.Height(),
		"width", area.Width(),
		"habitable", len(area.Habitable()),
		"species", catalog.Len(),
		"workers", g.workers,
		"stop_conditions", g.terminator.Len(),
		"tick_phases", phases,
	)
	return g, nil
}

// SetView attaches a renderer. Call before Stock to see the map.
func (g *Game) SetView(v View) { g.view = v }

// Area returns the shared world.
func (g *Game) Area() *world.Area { return g.area }

// Catalog returns the species catalog.
func (g *Game) Catalog() *components.Catalog { return g.catalog }

// Config returns the configuration the game was built with.
func (g *Game) Config() *config.Config { return g.cfg }

// RunID returns the run identifier.
func (g *Game) RunID() string { return g.runID }

// Iteration returns the number of completed ticks.
func (g *Game) Iteration() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.iteration
}

// State returns the current life cycle state.
func (g *Game) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Reason returns why the game finished, or "" while it is not finished.
func (g *Game) Reason() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.reason
}

// LastStats returns the statistics of the most recent tick.
func (g *Game) LastStats() telemetry.TickStats {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastStats
}

// Perf returns the rolling phase timings.
func (g *Game) Perf() telemetry.PerfStats { return g.perf.Stats() }

// Regrowths returns how many regrowth passes have run.
func (g *Game) Regrowths() int { return int(g.regrowths.Load()) }

// beginPhase starts timing phase and logs the phase it ends.
func (g *Game) beginPhase(phase string, tick int) {
	ended := g.perf.StartPhase(phase)
	g.logPhase(tick, ended)
	g.phase = phase
}

// endPhases stops timing the last phase of the tick.
func (g *Game) endPhases(tick int) {
	ended := g.perf.EndTick()
	g.logPhase(tick, ended)
	g.phase = ""
}

func (g *Game) logPhase(tick int, d time.Duration) {
	if g.phase == "" {
		return
	}
	slog.Debug("phase finished",
		"phase", g.registry.GetName(g.phase),
		"tick", tick,
		"duration", d,
	)
}

// Step runs one tick: movement, feeding, reproduction, hunger, the counter
// increment, cleanup and the termination check. Returns true once the game
// has finished. A phase error aborts the tick and finishes the game.
//
// ctx is only consulted by the worker pool for error propagation; a
// cancelled ctx does not interrupt a tick midway.
func (g *Game) Step(ctx context.Context) (bool, error) {
	g.mu.Lock()
	switch g.state {
	case StateNotStarted:
		g.mu.Unlock()
		return false, ErrNotStocked
	case StateFinished:
		g.mu.Unlock()
		return true, ErrFinished
	}
	g.state = StateRunning
	g.mu.Unlock()

	done, err := g.tick(context.WithoutCancel(ctx))
	if err != nil {
		g.finish(fmt.Sprintf("error: %v", err))
		return true, err
	}
	if done {
		g.finish(g.Reason())
	}
	return done, nil
}

func (g *Game) tick(ctx context.Context) (bool, error) {
	tick := g.Iteration() + 1
	locs := g.area.Locations()

	g.perf.StartTick()

	// Movers are planned before any relocation so each animal moves once.
	g.beginPhase(systems.PhaseMovement, tick)
	plans := make([][]*components.Organism, len(locs))
	for i, loc := range locs {
		plans[i] = g.movement.Movers(loc)
	}
	var moved atomic.Int64
	err := parallelFor(ctx, g.workers, len(locs), func(i int) error {
		n, err := g.movement.UpdateLocation(plans[i])
		moved.Add(int64(n))
		return err
	})
	if err != nil {
		return false, fmt.Errorf("tick %d movement: %w", tick, err)
	}

	g.beginPhase(systems.PhaseFeeding, tick)
	err = g.forEachLocation(ctx, locs, func(loc *world.Location) error {
		res, err := g.feeding.UpdateLocation(loc)
		g.collector.RecordKills(res.Kills)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("tick %d feeding: %w", tick, err)
	}

	g.beginPhase(systems.PhaseReproduction, tick)
	err = g.forEachLocation(ctx, locs, func(loc *world.Location) error {
		res, err := g.breeding.UpdateLocation(loc)
		g.collector.RecordPairings(res.Pairings)
		g.collector.RecordBirths(res.Offspring)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("tick %d reproduction: %w", tick, err)
	}

	g.beginPhase(systems.PhaseHunger, tick)
	err = g.forEachLocation(ctx, locs, func(loc *world.Location) error {
		starved, err := g.hunger.UpdateLocation(loc)
		g.collector.RecordStarvations(starved)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("tick %d hunger: %w", tick, err)
	}

	g.mu.Lock()
	g.iteration++
	iteration := g.iteration
	g.mu.Unlock()

	g.beginPhase(systems.PhaseCleanup, tick)
	err = g.forEachLocation(ctx, locs, func(loc *world.Location) error {
		g.collector.RecordDeaths(len(g.cleanup.UpdateLocation(loc)))
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("tick %d cleanup: %w", tick, err)
	}

	g.beginPhase(systems.PhaseTermination, tick)
	done, reason := g.terminator.Evaluate(iteration, g.area)
	g.endPhases(tick)

	slog.Debug("tick finished", "tick", tick, "moved", moved.Load())

	if err := g.record(iteration); err != nil {
		return false, err
	}
	if done {
		g.mu.Lock()
		g.reason = reason
		g.mu.Unlock()
	}
	return done, nil
}

// record flushes the tick's statistics to every sink.
func (g *Game) record(iteration int) error {
	stats := g.collector.Flush(iteration, g.area)

	g.mu.Lock()
	g.lastStats = stats
	g.mu.Unlock()

	if err := g.output.WriteTick(stats); err != nil {
		return fmt.Errorf("writing tick stats: %w", err)
	}
	if err := g.store.SaveTick(stats, g.catalog); err != nil {
		return fmt.Errorf("saving tick stats: %w", err)
	}
	for _, e := range g.bookmarks.Check(stats) {
		g.collector.AddEvent(e)
	}
	events := g.collector.DrainEvents()
	for _, e := range events {
		slog.Info("event", "tick", e.Tick, "category", e.Category, "description", e.Description)
	}
	if err := g.store.SaveEvents(g.runID, events); err != nil {
		return fmt.Errorf("saving events: %w", err)
	}

	if g.logEvery > 0 && iteration > 0 && iteration%g.logEvery == 0 {
		stats.LogStats()
		perf := g.perf.Stats()
		perf.LogStats()
		if err := g.output.WritePerf(perf, iteration); err != nil {
			return fmt.Errorf("writing perf stats: %w", err)
		}
	}

	if g.view != nil {
		if err := g.view.ShowTick(stats, g.area); err != nil {
			return fmt.Errorf("rendering tick %d: %w", iteration, err)
		}
	}
	return nil
}
