package systems

import (
	"fmt"

	"github.com/pthm-cable/island/components"
	"github.com/pthm-cable/island/world"
)

// HungerSystem decays animal satiety and kills starved animals.
type HungerSystem struct {
	ratio float64
}

// NewHungerSystem creates a hunger system with the given per-tick ratio.
func NewHungerSystem(ratio float64) *HungerSystem {
	return &HungerSystem{ratio: ratio}
}

// UpdateLocation applies one tick of hunger to every alive animal at loc and
// returns the number that starved.
func (s *HungerSystem) UpdateLocation(loc *world.Location) (int, error) {
	if s.ratio < 0 {
		return 0, fmt.Errorf("hunger at %v: %w", loc.Coordinate(), components.ErrNegativeHungerRatio)
	}

	loc.Lock()
	defer loc.Unlock()

	starved := 0
	for _, o := range loc.OrganismsLocked() {
		if !o.IsAnimal() || !o.Alive() {
			continue
		}
		died, err := o.Hunger(s.ratio)
		if err != nil {
			return starved, err
		}
		if died {
			starved++
		}
	}
	return starved, nil
}
