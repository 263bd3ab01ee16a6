package game

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/pthm-cable/island/systems"
	"github.com/pthm-cable/island/telemetry"
	"github.com/pthm-cable/island/world"
)

// Stock creates the initial population on every habitable Location and
// records the starting statistics as tick 0.
func (g *Game) Stock(ctx context.Context) error {
	g.mu.Lock()
	if g.state != StateNotStarted {
		g.mu.Unlock()
		return ErrAlreadyStarted
	}
	g.mu.Unlock()

	start := time.Now()
	var created atomic.Int64
	err := g.forEachLocation(context.WithoutCancel(ctx), g.area.Habitable(), func(loc *world.Location) error {
		counts, err := g.population.StockLocation(loc)
		for _, n := range counts {
			created.Add(int64(n))
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("stocking: %w", err)
	}
	slog.Info("phase finished",
		"phase", g.registry.GetName(systems.PhaseStocking),
		"organisms", created.Load(),
		"duration", time.Since(start),
	)

	if err := g.store.BeginRun(g.runID, g.area.Height(), g.area.Width(), start); err != nil {
		return fmt.Errorf("recording run start: %w", err)
	}
	if err := g.output.WriteConfig(g.cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if g.view != nil {
		if err := g.view.ShowMap(g.area); err != nil {
			return fmt.Errorf("rendering map: %w", err)
		}
	}

	g.collector.AddEvent(telemetry.NewRunEvent(0, fmt.Sprintf("stocked %d organisms", created.Load())))
	if err := g.record(0); err != nil {
		return err
	}

	g.mu.Lock()
	g.state = StateStocked
	g.mu.Unlock()
	return nil
}

// Run drives the life cycle to completion, stocking first if needed. It
// returns the finish reason. A freshly stocked world that already meets a
// stop condition finishes without running a tick. Cancelling ctx abandons
// the current inter-tick wait and ends the run with ReasonInterrupted before
// the next tick starts.
func (g *Game) Run(ctx context.Context) (string, error) {
	if g.State() == StateNotStarted {
		if err := g.Stock(ctx); err != nil {
			return "", err
		}
	}
	if g.State() == StateStocked {
		if done, reason := g.terminator.Evaluate(g.Iteration(), g.area); done {
			g.finish(reason)
			return reason, nil
		}
	}

	delay := g.cfg.Simulation.TickDelay
	for {
		if ctx.Err() != nil {
			g.finish(ReasonInterrupted)
			return ReasonInterrupted, nil
		}

		done, err := g.Step(ctx)
		if err != nil {
			return g.Reason(), err
		}
		if done {
			return g.Reason(), nil
		}

		g.wait(ctx, delay)
	}
}

// wait sleeps for the inter-tick delay. An interrupted wait is simply
// abandoned.
func (g *Game) wait(ctx context.Context, delay time.Duration) {
	if delay <= 0 {
		return
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		slog.Debug("tick delay interrupted", "tick", g.Iteration())
	}
}

// finish moves the game to StateFinished and records the outcome.
func (g *Game) finish(reason string) {
	g.mu.Lock()
	if g.state == StateFinished {
		g.mu.Unlock()
		return
	}
	g.state = StateFinished
	g.reason = reason
	iteration := g.iteration
	g.mu.Unlock()

	slog.Info("simulation finished",
		"run_id", g.runID,
		"reason", reason,
		"ticks", iteration,
		"total_died", g.collector.TotalDied(),
		"total_alive", g.collector.TotalAlive(g.area),
	)

	events := []telemetry.Event{telemetry.NewRunEvent(iteration, "finished: "+reason)}
	if err := g.store.SaveEvents(g.runID, events); err != nil {
		slog.Error("saving finish event", "error", err)
	}
	if err := g.store.FinishRun(g.runID, iteration, reason, time.Now()); err != nil {
		slog.Error("recording run finish", "error", err)
	}
}

// Regrow runs one plant regrowth pass over the habitable Locations. It is
// safe to call concurrently with Step. A finished game grows nothing.
func (g *Game) Regrow(ctx context.Context) (int, error) {
	if g.State() == StateFinished {
		return 0, nil
	}

	start := time.Now()
	var grown atomic.Int64
	err := g.forEachLocation(context.WithoutCancel(ctx), g.area.Habitable(), func(loc *world.Location) error {
		n, err := g.flora.RegrowLocation(loc)
		grown.Add(int64(n))
		return err
	})
	g.collector.RecordRegrowth(int(grown.Load()))
	g.regrowths.Add(1)
	if err != nil {
		return int(grown.Load()), fmt.Errorf("regrowth: %w", err)
	}

	slog.Debug("phase finished",
		"phase", g.registry.GetName(systems.PhaseRegrowth),
		"plants", grown.Load(),
		"duration", time.Since(start),
	)
	return int(grown.Load()), nil
}
