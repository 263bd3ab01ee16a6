package systems

import (
	"fmt"

	"github.com/pthm-cable/island/components"
	"github.com/pthm-cable/island/traits"
	"github.com/pthm-cable/island/world"
)

// FloraSystem regrows plant biomass on habitable Locations.
type FloraSystem struct {
	catalog *components.Catalog
	plants  []components.Species
	rng     Rand
}

// NewFloraSystem creates a new flora system for every plant species in the catalog.
func NewFloraSystem(catalog *components.Catalog, rng Rand) *FloraSystem {
	if rng == nil {
		rng = DefaultRand
	}
	return &FloraSystem{
		catalog: catalog,
		plants:  catalog.Matching(traits.Plants),
		rng:     rng,
	}
}

// RegrowLocation adds a uniform [0, free slots) number of each plant species
// at loc. A full Location grows nothing. Returns the number of plants added.
func (s *FloraSystem) RegrowLocation(loc *world.Location) (int, error) {
	if !loc.Habitable() {
		return 0, nil
	}

	loc.Lock()
	defer loc.Unlock()

	grown := 0
	for _, sp := range s.plants {
		chars, err := s.catalog.Characteristics(sp)
		if err != nil {
			return grown, err
		}
		available := chars.MaxPerCoordinate - loc.CountLocked(sp)
		n := drawBelow(s.rng, available)
		for i := 0; i < n; i++ {
			o, err := s.catalog.New(sp, loc.Coordinate())
			if err != nil {
				return grown, fmt.Errorf("regrowth at %v: %w", loc.Coordinate(), err)
			}
			loc.AddLocked(o)
		}
		grown += n
	}
	return grown, nil
}

// Regrow runs one regrowth pass over the whole area.
func (s *FloraSystem) Regrow(area *world.Area) (int, error) {
	total := 0
	for _, loc := range area.Habitable() {
		n, err := s.RegrowLocation(loc)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
