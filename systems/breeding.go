package systems

import (
	"fmt"
	"slices"

	"github.com/pthm-cable/island/components"
	"github.com/pthm-cable/island/world"
)

// BreedResult summarizes one Location's reproduction pass.
type BreedResult struct {
	Pairings  int
	Offspring int
}

// BreedingSystem pairs ready animals of the same species and adds offspring.
// Offspring are not capacity checked; movement and regrowth enforce capacity
// on the following cycles.
type BreedingSystem struct {
	catalog *components.Catalog
	rng     Rand
}

// NewBreedingSystem creates a new breeding system.
func NewBreedingSystem(catalog *components.Catalog, rng Rand) *BreedingSystem {
	if rng == nil {
		rng = DefaultRand
	}
	return &BreedingSystem{catalog: catalog, rng: rng}
}

// UpdateLocation resolves mating for every species group at loc.
func (s *BreedingSystem) UpdateLocation(loc *world.Location) (BreedResult, error) {
	loc.Lock()
	defer loc.Unlock()

	var res BreedResult
	groups := groupBySpecies(loc.OrganismsLocked(), true)

	species := make([]components.Species, 0, len(groups))
	for sp := range groups {
		species = append(species, sp)
	}
	slices.Sort(species)

	var partners []*components.Organism
	for _, sp := range species {
		group := groups[sp]
		desc, err := s.catalog.Descriptor(sp)
		if err != nil {
			return res, fmt.Errorf("reproduction at %v: %w", loc.Coordinate(), err)
		}

		for _, a := range group {
			if !a.Alive() || !a.ReadyToMate() {
				continue
			}
			partners = partners[:0]
			for _, p := range group {
				if p != a && p.Alive() && p.ReadyToMate() {
					partners = append(partners, p)
				}
			}
			if len(partners) == 0 {
				continue
			}

			partner := partners[s.rng.IntN(len(partners))]
			a.Reproduce()
			partner.Reproduce()
			res.Pairings++

			n := s.rng.IntN(desc.OffspringBound + 1)
			for i := 0; i < n; i++ {
				child, err := s.catalog.New(sp, a.Coordinate())
				if err != nil {
					return res, fmt.Errorf("reproduction at %v: %w", loc.Coordinate(), err)
				}
				loc.AddLocked(child)
			}
			res.Offspring += n
		}
	}
	return res, nil
}
