package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/pthm-cable/island/config"
	"github.com/pthm-cable/island/game"
	"github.com/pthm-cable/island/systems"
	"github.com/pthm-cable/island/telemetry"
	"github.com/pthm-cable/island/ui"
)

// regrowthStopTimeout bounds the wait for an in-flight regrowth pass on exit.
const regrowthStopTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	dbPath := flag.String("db", "", "SQLite run history database (empty = disabled)")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	logFormat := flag.String("log-format", "json", "Log format: json or text")
	quiet := flag.Bool("quiet", false, "Disable the console view")
	seed := flag.Uint64("seed", 0, "RNG seed (0 = time-based)")

	flag.Parse()

	if err := setupLogging(*logLevel, *logFormat); err != nil {
		return err
	}

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = uint64(time.Now().UnixNano())
	}
	runID := uuid.NewString()

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		return err
	}
	defer output.Close()

	store, err := telemetry.OpenStore(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := game.Options{
		Config: cfg,
		RunID:  runID,
		Rand:   systems.NewLockedRand(rngSeed),
		Output: output,
		Store:  store,
	}

	g, err := game.NewGame(opts)
	if err != nil {
		return err
	}
	if cfg.View.Enabled && !*quiet {
		g.SetView(ui.NewConsoleView(os.Stdout, g.Catalog(), cfg.View))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting simulation",
		"run_id", runID,
		"seed", rngSeed,
		"output_dir", *outputDir,
		"db", *dbPath,
	)

	if err := g.Stock(ctx); err != nil {
		return err
	}

	var regrowth *game.RegrowthJob
	if cfg.Regrowth.Enabled {
		regrowth = game.NewRegrowthJob(g, cfg.Regrowth)
		regrowth.Start(ctx)
	}

	reason, runErr := g.Run(ctx)

	if regrowth != nil {
		if err := regrowth.Stop(regrowthStopTimeout); err != nil && runErr == nil {
			runErr = err
		}
	}
	if runErr != nil {
		return runErr
	}

	slog.Info("simulation complete",
		"run_id", runID,
		"reason", reason,
		"ticks", g.Iteration(),
		"perf", g.Perf(),
	)
	return nil
}

// setupLogging installs the default slog handler on stdout.
func setupLogging(level, format string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	handlerOpts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, handlerOpts)
	case "text":
		handler = slog.NewTextHandler(os.Stdout, handlerOpts)
	default:
		return fmt.Errorf("invalid log format %q", format)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}
