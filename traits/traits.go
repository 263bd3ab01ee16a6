// Package traits defines organism capability tags.
package traits

import "fmt"

// Trait is a capability bitset attached to a species.
type Trait uint32

const (
	// Variant traits
	Plant  Trait = 1 << iota // Static biomass, never moves or eats
	Animal                   // Has satiety and mating readiness

	// Diet group traits (animals only)
	Herbivore
	Predator

	// Behavior traits
	Mobile   // Move speed above zero
	Breeding // Offspring bound above zero
)

// Has checks if a trait set contains a trait.
func (t Trait) Has(other Trait) bool {
	return t&other != 0
}

// Add adds a trait to the set.
func (t Trait) Add(other Trait) Trait {
	return t | other
}

// Remove removes a trait from the set.
func (t Trait) Remove(other Trait) Trait {
	return t &^ other
}

// IsPlant checks if traits indicate a plant.
func IsPlant(t Trait) bool {
	return t.Has(Plant) && !t.Has(Animal)
}

// IsAnimal checks if traits indicate an animal.
func IsAnimal(t Trait) bool {
	return t.Has(Animal)
}

// IsHerbivore checks if traits indicate a herbivorous animal.
func IsHerbivore(t Trait) bool {
	return t.Has(Animal) && t.Has(Herbivore)
}

// IsPredator checks if traits indicate a predatory animal.
func IsPredator(t Trait) bool {
	return t.Has(Animal) && t.Has(Predator)
}

// ForKind returns the base trait set for a configured species kind.
func ForKind(kind string) (Trait, error) {
	switch kind {
	case "plant":
		return Plant, nil
	case "herbivore":
		return Animal | Herbivore, nil
	case "predator":
		return Animal | Predator, nil
	}
	return 0, fmt.Errorf("unknown species kind %q", kind)
}

// Group selects organisms by capability, used by termination checks and stats.
type Group func(Trait) bool

// Named groups.
var (
	Animals    Group = IsAnimal
	Predators  Group = IsPredator
	Herbivores Group = IsHerbivore
	Plants     Group = IsPlant
)

// String returns a compact name for the dominant variant.
func (t Trait) String() string {
	switch {
	case IsPredator(t):
		return "predator"
	case IsHerbivore(t):
		return "herbivore"
	case IsAnimal(t):
		return "animal"
	case IsPlant(t):
		return "plant"
	}
	return "none"
}
