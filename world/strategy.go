package world

import (
	"math/rand/v2"
	"slices"
	"time"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/island/components"
	"github.com/pthm-cable/island/config"
)

// LocationCreationStrategy decides the terrain type of each coordinate.
type LocationCreationStrategy interface {
	TypeAt(c components.Coordinate) LocationType
}

// Sampler is the random source used by RandomStrategy.
type Sampler interface {
	Float64() float64
}

// TypesFromConfig converts the configured terrain list.
func TypesFromConfig(terrain []config.TerrainConfig) []LocationType {
	types := make([]LocationType, len(terrain))
	for i, t := range terrain {
		types[i] = LocationType{
			Name:        t.Name,
			Probability: t.Probability,
			Passable:    t.Passable,
			Habitable:   t.Habitable,
			Emoji:       t.Emoji,
		}
	}
	return types
}

// weightTable is a cumulative probability table over location types.
type weightTable struct {
	types []LocationType
	cum   []float64
	total float64
}

func newWeightTable(types []LocationType) weightTable {
	wt := weightTable{types: types, cum: make([]float64, len(types))}
	for i, t := range types {
		if t.Probability > 0 {
			wt.total += t.Probability
		}
		wt.cum[i] = wt.total
	}
	return wt
}

// pick maps u in [0,1) to a type. Types with non-positive weight are never chosen.
func (wt weightTable) pick(u float64) LocationType {
	target := u * wt.total
	for i, c := range wt.cum {
		if target < c {
			return wt.types[i]
		}
	}
	// u == 1 or rounding: last type with weight.
	for i := len(wt.types) - 1; i >= 0; i-- {
		if wt.types[i].Probability > 0 {
			return wt.types[i]
		}
	}
	return LocationType{}
}

// RandomStrategy picks each cell's type independently by weight.
type RandomStrategy struct {
	table weightTable
	rng   Sampler
}

// NewRandomStrategy creates a weighted random strategy. A nil rng uses a
// time-seeded source.
func NewRandomStrategy(types []LocationType, rng Sampler) *RandomStrategy {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	return &RandomStrategy{table: newWeightTable(types), rng: rng}
}

func (s *RandomStrategy) TypeAt(components.Coordinate) LocationType {
	return s.table.pick(s.rng.Float64())
}

// NoiseStrategy assigns types from OpenSimplex noise so that terrain forms
// contiguous regions. Cells are ranked by noise value and split into bands
// sized by type probability, so proportions match the configured weights.
type NoiseStrategy struct {
	height, width int
	types         []LocationType
}

// NewNoiseStrategy samples noise for a height x width grid.
func NewNoiseStrategy(types []LocationType, height, width int, scale float64, seed int64) *NoiseStrategy {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	noise := opensimplex.NewNormalized(seed)

	n := height * width
	values := make([]float64, n)
	for r := 0; r < height; r++ {
		for c := 0; c < width; c++ {
			values[r*width+c] = octaveNoise(noise, float64(c)*scale, float64(r)*scale, 3, 1.0, 0.5)
		}
	}

	// Rank cells by noise value.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		switch {
		case values[a] < values[b]:
			return -1
		case values[a] > values[b]:
			return 1
		}
		return 0
	})

	table := newWeightTable(types)
	assigned := make([]LocationType, n)
	for rank, idx := range order {
		u := (float64(rank) + 0.5) / float64(n)
		assigned[idx] = table.pick(u)
	}

	return &NoiseStrategy{height: height, width: width, types: assigned}
}

func (s *NoiseStrategy) TypeAt(c components.Coordinate) LocationType {
	if c.Row < 0 || c.Row >= s.height || c.Col < 0 || c.Col >= s.width {
		return LocationType{}
	}
	return s.types[c.Row*s.width+c.Col]
}

// octaveNoise layers several noise frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

// StrategyFromConfig returns the configured terrain strategy.
func StrategyFromConfig(cfg *config.Config, rng Sampler) LocationCreationStrategy {
	types := TypesFromConfig(cfg.Terrain)
	if cfg.World.Strategy == config.TerrainNoise {
		return NewNoiseStrategy(types, cfg.World.Height, cfg.World.Width, cfg.World.NoiseScale, cfg.World.Seed)
	}
	return NewRandomStrategy(types, rng)
}
