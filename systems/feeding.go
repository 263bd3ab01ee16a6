package systems

import (
	"fmt"

	"github.com/pthm-cable/island/components"
	"github.com/pthm-cable/island/world"
)

// FeedResult summarizes one Location's feeding pass.
type FeedResult struct {
	Attempts int
	Kills    int
}

// FeedingSystem resolves predation inside each Location.
type FeedingSystem struct {
	catalog *components.Catalog
	rng     Rand
}

// NewFeedingSystem creates a new feeding system.
func NewFeedingSystem(catalog *components.Catalog, rng Rand) *FeedingSystem {
	if rng == nil {
		rng = DefaultRand
	}
	return &FeedingSystem{catalog: catalog, rng: rng}
}

// groupBySpecies buckets alive organisms by species.
func groupBySpecies(orgs []*components.Organism, animalsOnly bool) map[components.Species][]*components.Organism {
	groups := make(map[components.Species][]*components.Organism)
	for _, o := range orgs {
		if !o.Alive() || (animalsOnly && !o.IsAnimal()) {
			continue
		}
		groups[o.Species()] = append(groups[o.Species()], o)
	}
	return groups
}

// UpdateLocation lets every alive animal at loc try to eat once.
// Each eater picks one prey uniformly among alive organisms of its diet and
// succeeds with that prey species' catch probability.
func (s *FeedingSystem) UpdateLocation(loc *world.Location) (FeedResult, error) {
	loc.Lock()
	defer loc.Unlock()

	var res FeedResult
	orgs := loc.OrganismsLocked()
	groups := groupBySpecies(orgs, false)

	var candidates []*components.Organism
	for _, eater := range orgs {
		if !eater.IsAnimal() || !eater.Alive() {
			continue
		}
		desc, err := s.catalog.Descriptor(eater.Species())
		if err != nil {
			return res, fmt.Errorf("feeding at %v: %w", loc.Coordinate(), err)
		}
		if len(desc.Diet) == 0 {
			continue
		}

		candidates = candidates[:0]
		for sp := range desc.Diet {
			for _, prey := range groups[sp] {
				if prey != eater && prey.Alive() {
					candidates = append(candidates, prey)
				}
			}
		}
		if len(candidates) == 0 {
			continue
		}

		prey := candidates[s.rng.IntN(len(candidates))]
		res.Attempts++
		if s.rng.Float64() < desc.Diet[prey.Species()] && eater.Eat(prey) {
			res.Kills++
		}
	}
	return res, nil
}
