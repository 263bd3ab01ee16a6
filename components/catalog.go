package components

import (
	"fmt"

	"github.com/pthm-cable/island/config"
	"github.com/pthm-cable/island/traits"
)

// Descriptor is the per-species registry entry.
type Descriptor struct {
	Species         Species
	Name            string
	Emoji           string
	Traits          traits.Trait
	Characteristics Characteristics
	OffspringBound  int                 // Inclusive upper bound on litter size
	Diet            map[Species]float64 // Prey -> catch probability; nil for non-eaters
}

// Catalog maps species to descriptors and constructs organisms.
// It is read-only after construction and safe for concurrent use.
type Catalog struct {
	descs  []Descriptor
	byName map[string]Species
	ids    *IDGenerator
}

// NewCatalog builds the species table from configuration. Every diet entry
// must reference a registered species.
func NewCatalog(cfg *config.Config, ids *IDGenerator) (*Catalog, error) {
	if ids == nil {
		ids = &IDGenerator{}
	}
	c := &Catalog{
		descs:  make([]Descriptor, 0, len(cfg.Species)),
		byName: make(map[string]Species, len(cfg.Species)),
		ids:    ids,
	}

	for i, sc := range cfg.Species {
		tr, err := traits.ForKind(sc.Kind)
		if err != nil {
			return nil, fmt.Errorf("species %q: %w", sc.Name, err)
		}
		chars := Characteristics{
			Weight:            sc.Weight,
			MaxPerCoordinate:  sc.MaxPerCoordinate,
			MoveSpeed:         sc.MoveSpeed,
			FoodForSatiety:    sc.FoodForSatiety,
			StartSatietyRatio: sc.StartSatietyRatio,
		}
		bound := LeadingDigit(chars.MaxPerCoordinate)
		if traits.IsAnimal(tr) {
			if chars.MoveSpeed > 0 {
				tr = tr.Add(traits.Mobile)
			}
			if bound > 0 {
				tr = tr.Add(traits.Breeding)
			}
		}
		sp := Species(i)
		c.descs = append(c.descs, Descriptor{
			Species:         sp,
			Name:            sc.Name,
			Emoji:           sc.Emoji,
			Traits:          tr,
			Characteristics: chars,
			OffspringBound:  bound,
		})
		c.byName[sc.Name] = sp
	}

	for eater, prey := range cfg.Diets {
		esp, ok := c.byName[eater]
		if !ok {
			return nil, fmt.Errorf("diet eater %q: %w", eater, ErrUnknownSpecies)
		}
		diet := make(map[Species]float64, len(prey))
		for name, p := range prey {
			psp, ok := c.byName[name]
			if !ok {
				return nil, fmt.Errorf("diet of %q, prey %q: %w", eater, name, ErrUnknownSpecies)
			}
			diet[psp] = p
		}
		c.descs[esp].Diet = diet
	}

	return c, nil
}

// Len returns the number of registered species.
func (c *Catalog) Len() int {
	return len(c.descs)
}

// All returns every registered species in registration order.
func (c *Catalog) All() []Species {
	out := make([]Species, len(c.descs))
	for i := range c.descs {
		out[i] = Species(i)
	}
	return out
}

// Matching returns the species whose traits satisfy the group.
func (c *Catalog) Matching(g traits.Group) []Species {
	var out []Species
	for i := range c.descs {
		if g(c.descs[i].Traits) {
			out = append(out, Species(i))
		}
	}
	return out
}

// Lookup resolves a species by name.
func (c *Catalog) Lookup(name string) (Species, bool) {
	sp, ok := c.byName[name]
	return sp, ok
}

// Descriptor returns the registry entry for a species.
func (c *Catalog) Descriptor(sp Species) (*Descriptor, error) {
	if int(sp) >= len(c.descs) {
		return nil, fmt.Errorf("species %d: %w", sp, ErrUnknownSpecies)
	}
	return &c.descs[sp], nil
}

// Characteristics returns the characteristics of a species.
func (c *Catalog) Characteristics(sp Species) (Characteristics, error) {
	d, err := c.Descriptor(sp)
	if err != nil {
		return Characteristics{}, err
	}
	return d.Characteristics, nil
}

// Name returns the species name, or "unknown".
func (c *Catalog) Name(sp Species) string {
	if int(sp) >= len(c.descs) {
		return "unknown"
	}
	return c.descs[sp].Name
}

// Emoji returns the species emoji, or "?".
func (c *Catalog) Emoji(sp Species) string {
	if int(sp) >= len(c.descs) || c.descs[sp].Emoji == "" {
		return "?"
	}
	return c.descs[sp].Emoji
}

// New creates an organism of the given species at coord with the next id.
func (c *Catalog) New(sp Species, coord Coordinate) (*Organism, error) {
	d, err := c.Descriptor(sp)
	if err != nil {
		return nil, err
	}
	return newOrganism(c.ids.Next(), sp, d.Traits, d.Characteristics, coord), nil
}
