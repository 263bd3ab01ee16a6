package systems

import (
	"fmt"

	"github.com/pthm-cable/island/components"
	"github.com/pthm-cable/island/world"
)

// PopulationSystem performs the initial random stocking of the island.
type PopulationSystem struct {
	catalog *components.Catalog
	rng     Rand
}

// NewPopulationSystem creates a new population system.
func NewPopulationSystem(catalog *components.Catalog, rng Rand) *PopulationSystem {
	if rng == nil {
		rng = DefaultRand
	}
	return &PopulationSystem{catalog: catalog, rng: rng}
}

// StockLocation creates, for every species, a uniform [0, maxPerCoordinate)
// number of organisms at a habitable loc. Returns the number created per species.
func (s *PopulationSystem) StockLocation(loc *world.Location) (map[components.Species]int, error) {
	if !loc.Habitable() {
		return nil, nil
	}

	loc.Lock()
	defer loc.Unlock()

	created := make(map[components.Species]int)
	for _, sp := range s.catalog.All() {
		chars, err := s.catalog.Characteristics(sp)
		if err != nil {
			return created, err
		}
		// Stocking assumes an empty Location; never exceed capacity if called twice.
		room := chars.MaxPerCoordinate - loc.CountLocked(sp)
		n := min(drawBelow(s.rng, chars.MaxPerCoordinate), max(room, 0))
		for i := 0; i < n; i++ {
			o, err := s.catalog.New(sp, loc.Coordinate())
			if err != nil {
				return created, fmt.Errorf("stocking %v: %w", loc.Coordinate(), err)
			}
			loc.AddLocked(o)
		}
		if n > 0 {
			created[sp] = n
		}
	}
	return created, nil
}

// Stock fills every habitable Location in the area.
func (s *PopulationSystem) Stock(area *world.Area) (int, error) {
	total := 0
	for _, loc := range area.Habitable() {
		created, err := s.StockLocation(loc)
		if err != nil {
			return total, err
		}
		for _, n := range created {
			total += n
		}
	}
	return total, nil
}
