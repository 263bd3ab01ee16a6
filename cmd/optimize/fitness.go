package main

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/island/config"
	"github.com/pthm-cable/island/game"
	"github.com/pthm-cable/island/systems"
)

// Score is the averaged outcome of one candidate over every seed.
type Score struct {
	Fitness  float64 // lower is better; +Inf when a run failed
	Survival float64 // mean ticks before a group died out
	Quality  float64 // mean population stability in [0, 1]
}

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int
	seeds      []uint64
	baseConfig *config.Config
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int, seeds []uint64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		seeds:      seeds,
		baseConfig: baseCfg,
	}
}

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTicks int // ticks before a group died out (or maxTicks if survived)
	herbivores    []float64
	predators     []float64
}

// Evaluate runs every seed in parallel for the raw parameter values x.
func (fe *FitnessEvaluator) Evaluate(x []float64) (Score, error) {
	survival := make([]float64, len(fe.seeds))
	quality := make([]float64, len(fe.seeds))

	var g errgroup.Group
	for i, seed := range fe.seeds {
		g.Go(func() error {
			result, err := fe.runSimulation(x, seed)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			survival[i] = float64(result.survivalTicks)
			quality[i] = computeQuality(result)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Score{Fitness: math.Inf(1)}, err
	}

	s := Score{
		Survival: stat.Mean(survival, nil),
		Quality:  stat.Mean(quality, nil),
	}
	s.Fitness = computeFitness(s.Survival, s.Quality)
	return s, nil
}

// runSimulation executes a single headless run until a population group dies
// out or maxTicks pass. Regrowth is stepped synchronously.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed uint64) (*runResult, error) {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)
	cfg.Simulation.TickDelay = 0
	cfg.Simulation.Workers = 1 // seeds already run in parallel
	cfg.Telemetry.LogEvery = 0
	cfg.World.Seed = int64(seed)
	cfg.Termination = config.TerminationConfig{
		IterationLimit:    true,
		IterationCount:    fe.maxTicks,
		AllPredatorsDead:  true,
		AllHerbivoresDead: true,
	}
	every := fe.params.RegrowEvery(x)

	g, err := game.NewGame(game.Options{
		Config: cfg,
		RunID:  fmt.Sprintf("optimize-%d", seed),
		Rand:   systems.NewLockedRand(seed),
	})
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	if err := g.Stock(ctx); err != nil {
		return nil, err
	}

	result := &runResult{}
	for {
		done, err := g.Step(ctx)
		if err != nil {
			return nil, err
		}
		stats := g.LastStats()
		result.herbivores = append(result.herbivores, float64(stats.Herbivores))
		result.predators = append(result.predators, float64(stats.Predators))
		if done {
			break
		}
		if g.Iteration()%every == 0 {
			if _, err := g.Regrow(ctx); err != nil {
				return nil, err
			}
		}
	}

	result.survivalTicks = g.Iteration()
	if g.Reason() == game.ReasonIterationLimit {
		result.survivalTicks = fe.maxTicks
	}
	return result, nil
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(survivalTicks × (1.0 + 0.2 × quality))
func computeFitness(survivalTicks, quality float64) float64 {
	return -(survivalTicks * (1.0 + 0.2*quality))
}

// qualityWarmupTicks are skipped before scoring stability.
const qualityWarmupTicks = 5

// computeQuality scores population stability in [0, 1]: low coefficient of
// variation of both animal groups after warmup.
func computeQuality(r *runResult) float64 {
	if len(r.herbivores) <= qualityWarmupTicks+1 {
		return 0
	}
	cvHerb := cv(r.herbivores[qualityWarmupTicks:])
	cvPred := cv(r.predators[qualityWarmupTicks:])
	return clamp01(math.Exp(-(cvHerb*cvHerb + cvPred*cvPred)))
}

// cv computes the coefficient of variation (std/mean) for a slice of values.
func cv(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean, std := stat.MeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
