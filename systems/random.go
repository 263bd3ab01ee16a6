package systems

import (
	"math/rand/v2"
	"sync"
)

// Rand is the random source used by the phase systems. Implementations must
// be safe for concurrent use because Locations are processed in parallel.
type Rand interface {
	// IntN returns a uniform int in [0, n). n must be positive.
	IntN(n int) int
	// Float64 returns a uniform float in [0, 1).
	Float64() float64
}

type globalRand struct{}

func (globalRand) IntN(n int) int   { return rand.IntN(n) }
func (globalRand) Float64() float64 { return rand.Float64() }

// DefaultRand uses the runtime-seeded global source.
var DefaultRand Rand = globalRand{}

// LockedRand is a seeded, mutex-guarded source for reproducible tests and tools.
type LockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewLockedRand creates a seeded source.
func NewLockedRand(seed uint64) *LockedRand {
	return &LockedRand{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (r *LockedRand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.IntN(n)
}

func (r *LockedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}

// drawBelow returns a uniform int in [0, n), or 0 when n <= 0.
func drawBelow(rng Rand, n int) int {
	if n <= 0 {
		return 0
	}
	return rng.IntN(n)
}
