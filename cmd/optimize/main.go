// Command optimize searches hunger ratio and regrowth cadence for settings
// that keep both predators and herbivores alive for as long as possible.
//
// Each candidate is scored by headless runs over a fixed set of seeds. Every
// trial is appended to trials.csv and the best candidate is written back as
// best_config.yaml.
//
// Usage: go run ./cmd/optimize -output runs/opt -max-evals 200
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/island/config"
)

type options struct {
	configPath string
	outputDir  string
	maxTicks   int
	seeds      int
	maxEvals   int
	population int
	stepSize   float64
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.configPath, "config", "", "Base config YAML file (empty = use defaults)")
	flag.StringVar(&o.outputDir, "output", "", "Directory for trials.csv and best_config.yaml")
	flag.IntVar(&o.maxTicks, "max-ticks", 2000, "Survival cap per run, in ticks")
	flag.IntVar(&o.seeds, "seeds", 3, "Runs per candidate")
	flag.IntVar(&o.maxEvals, "max-evals", 100, "Candidate budget")
	flag.IntVar(&o.population, "population", 0, "CMA-ES population size (0 = 4 + 3n/2)")
	flag.Float64Var(&o.stepSize, "step", 0.3, "Initial CMA-ES step size in normalized units")
	flag.Parse()
	return o
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))
	if err := run(parseFlags()); err != nil {
		slog.Error("optimize failed", "error", err)
		os.Exit(1)
	}
}

// trial is one scored candidate and one row of trials.csv.
type trial struct {
	Eval        int     `csv:"eval"`
	HungerRatio float64 `csv:"hunger_ratio"`
	RegrowEvery int     `csv:"regrow_every"`
	Survival    float64 `csv:"survival_ticks"`
	Quality     float64 `csv:"quality"`
	Fitness     float64 `csv:"fitness"`
	Failed      bool    `csv:"failed"`
}

// search owns the objective handed to CMA-ES and its bookkeeping. The
// optimizer calls the objective sequentially; seeds run in parallel inside it.
type search struct {
	params    *ParamVector
	evaluator *FitnessEvaluator
	trials    *os.File
	maxEvals  int

	evals   int
	best    trial
	started time.Time
}

func (s *search) objective(x []float64) float64 {
	raw := s.params.Clamp(s.params.Denormalize(x))
	score, err := s.evaluator.Evaluate(raw)

	s.evals++
	t := trial{
		Eval:        s.evals,
		HungerRatio: raw[paramHungerRatio],
		RegrowEvery: s.params.RegrowEvery(raw),
		Survival:    score.Survival,
		Quality:     score.Quality,
		Fitness:     score.Fitness,
		Failed:      err != nil,
	}
	if err != nil {
		slog.Warn("candidate failed", "eval", t.Eval, "error", err)
	}
	if err := s.record(t); err != nil {
		slog.Warn("recording trial", "eval", t.Eval, "error", err)
	}
	if !t.Failed && t.Fitness < s.best.Fitness {
		s.best = t
	}

	elapsed := time.Since(s.started)
	eta := elapsed / time.Duration(s.evals) * time.Duration(max(s.maxEvals-s.evals, 0))
	slog.Info("trial",
		"eval", fmt.Sprintf("%d/%d", t.Eval, s.maxEvals),
		"hunger_ratio", fmt.Sprintf("%.3f", t.HungerRatio),
		"regrow_every", t.RegrowEvery,
		"survived", int(t.Survival),
		"quality", fmt.Sprintf("%.2f", t.Quality),
		"best_survived", int(s.best.Survival),
		"elapsed", elapsed.Round(time.Second),
		"eta", eta.Round(time.Second),
	)
	return t.Fitness
}

// record appends t to trials.csv, with a header on the first row.
func (s *search) record(t trial) error {
	rows := []trial{t}
	if t.Eval == 1 {
		return gocsv.Marshal(rows, s.trials)
	}
	return gocsv.MarshalWithoutHeaders(rows, s.trials)
}

func run(o options) error {
	if o.outputDir == "" {
		return errors.New("-output is required")
	}
	if o.seeds < 1 {
		return fmt.Errorf("-seeds must be at least 1, got %d", o.seeds)
	}
	if err := os.MkdirAll(o.outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	base, err := config.Load(o.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	trials, err := os.Create(filepath.Join(o.outputDir, "trials.csv"))
	if err != nil {
		return fmt.Errorf("creating trials log: %w", err)
	}
	defer trials.Close()

	params := NewParamVector()
	seeds := make([]uint64, o.seeds)
	for i := range seeds {
		seeds[i] = uint64(42 + 1000*i)
	}
	s := &search{
		params:    params,
		evaluator: NewFitnessEvaluator(params, o.maxTicks, seeds, base),
		trials:    trials,
		maxEvals:  o.maxEvals,
		best:      trial{Fitness: math.Inf(1)},
		started:   time.Now(),
	}

	population := o.population
	if population == 0 {
		population = 4 + 3*params.Dim()/2
	}
	start := params.Normalize(params.Clamp(params.ExtractFromConfig(base)))

	slog.Info("search started",
		"params", params.Dim(),
		"population", population,
		"max_evals", o.maxEvals,
		"seeds", o.seeds,
		"max_ticks", o.maxTicks,
	)
	_, err = optimize.Minimize(
		optimize.Problem{Func: s.objective},
		start,
		&optimize.Settings{FuncEvaluations: o.maxEvals},
		&optimize.CmaEsChol{InitStepSize: o.stepSize, Population: population},
	)
	if err != nil {
		// Hitting the evaluation budget is reported as an error too.
		slog.Warn("search stopped", "reason", err)
	}

	if s.best.Eval == 0 {
		return errors.New("no candidate completed")
	}
	slog.Info("search finished",
		"evals", s.evals,
		"duration", time.Since(s.started).Round(time.Second),
		"best_eval", s.best.Eval,
		"hunger_ratio", s.best.HungerRatio,
		"regrow_every", s.best.RegrowEvery,
		"survived", int(s.best.Survival),
		"quality", s.best.Quality,
	)

	values := make([]float64, params.Dim())
	values[paramHungerRatio] = s.best.HungerRatio
	values[paramRegrowEvery] = float64(s.best.RegrowEvery)
	best := base.Clone()
	params.ApplyToConfig(best, values)
	path := filepath.Join(o.outputDir, "best_config.yaml")
	if err := best.WriteYAML(path); err != nil {
		return err
	}
	slog.Info("best config written", "path", path)
	return nil
}
