package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/island/components"
)

// TickStats holds the statistics of one tick.
type TickStats struct {
	RunID string `csv:"-" db:"run_id"`
	Tick  int    `csv:"tick" db:"tick"`

	// Events during the tick
	Died     int `csv:"died" db:"died"`
	Born     int `csv:"born" db:"born"`
	Regrown  int `csv:"regrown" db:"regrown"` // Plants added by regrowth since the previous tick
	Kills    int `csv:"kills" db:"kills"`
	Starved  int `csv:"starved" db:"starved"`
	Pairings int `csv:"pairings" db:"pairings"`

	// Cumulative
	TotalDied int `csv:"total_died" db:"total_died"`

	// Population at tick end
	TotalAlive int `csv:"alive" db:"alive"`
	Plants     int `csv:"plants" db:"plants"`
	Herbivores int `csv:"herbivores" db:"herbivores"`
	Predators  int `csv:"predators" db:"predators"`

	// Satiety distribution over alive animals
	SatietyMean float64 `csv:"satiety_mean" db:"satiety_mean"`
	SatietyStd  float64 `csv:"satiety_std" db:"satiety_std"`
	SatietyP10  float64 `csv:"satiety_p10" db:"satiety_p10"`
	SatietyP50  float64 `csv:"satiety_p50" db:"satiety_p50"`
	SatietyP90  float64 `csv:"satiety_p90" db:"satiety_p90"`

	AliveBySpecies map[components.Species]int `csv:"-" db:"-"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeSatietyStats calculates mean, sample standard deviation and
// percentiles of satiety values.
func ComputeSatietyStats(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	if n == 1 {
		mean = sorted[0]
	} else {
		mean, std = stat.MeanStdDev(sorted, nil)
	}

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s TickStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("tick", s.Tick),
		slog.Int("died", s.Died),
		slog.Int("total_died", s.TotalDied),
		slog.Int("born", s.Born),
		slog.Int("regrown", s.Regrown),
		slog.Int("kills", s.Kills),
		slog.Int("starved", s.Starved),
		slog.Int("pairings", s.Pairings),
		slog.Int("alive", s.TotalAlive),
		slog.Int("plants", s.Plants),
		slog.Int("herbivores", s.Herbivores),
		slog.Int("predators", s.Predators),
		slog.Float64("satiety_mean", s.SatietyMean),
		slog.Float64("satiety_std", s.SatietyStd),
		slog.Float64("satiety_p50", s.SatietyP50),
	)
}

// LogStats logs the tick stats using slog.
func (s TickStats) LogStats() {
	slog.Info("stats",
		"tick", s.Tick,
		"died", s.Died,
		"total_died", s.TotalDied,
		"born", s.Born,
		"regrown", s.Regrown,
		"kills", s.Kills,
		"starved", s.Starved,
		"alive", s.TotalAlive,
		"plants", s.Plants,
		"herbivores", s.Herbivores,
		"predators", s.Predators,
		"satiety_mean", s.SatietyMean,
		"satiety_p10", s.SatietyP10,
		"satiety_p90", s.SatietyP90,
	)
}
