package components

import (
	"math"
	"sync/atomic"

	"github.com/pthm-cable/island/traits"
)

// Organism is a single plant or animal.
//
// Identity, species, traits and characteristics never change. The alive flag
// is atomic and only ever goes from true to false. Coordinate, satiety and
// mating readiness are mutated by the phase that holds the owning Location's
// lock.
type Organism struct {
	id      uint64
	species Species
	traits  traits.Trait
	chars   Characteristics

	alive atomic.Bool
	coord Coordinate

	// Animal-only state
	satiety     float64
	readyToMate bool
}

func newOrganism(id uint64, sp Species, tr traits.Trait, chars Characteristics, coord Coordinate) *Organism {
	o := &Organism{
		id:      id,
		species: sp,
		traits:  tr,
		chars:   chars,
		coord:   coord,
	}
	o.alive.Store(true)
	if traits.IsAnimal(tr) {
		o.satiety = chars.InitialSatiety()
	}
	return o
}

func (o *Organism) ID() uint64                       { return o.id }
func (o *Organism) Species() Species                 { return o.species }
func (o *Organism) Traits() traits.Trait             { return o.traits }
func (o *Organism) Characteristics() Characteristics { return o.chars }
func (o *Organism) Coordinate() Coordinate           { return o.coord }
func (o *Organism) IsAnimal() bool                   { return traits.IsAnimal(o.traits) }
func (o *Organism) IsPlant() bool                    { return traits.IsPlant(o.traits) }
func (o *Organism) Alive() bool                      { return o.alive.Load() }
func (o *Organism) Satiety() float64                 { return o.satiety }
func (o *Organism) ReadyToMate() bool                { return o.readyToMate }

// MoveTo updates the organism's coordinate. Callers hold both the origin and
// destination Location locks.
func (o *Organism) MoveTo(c Coordinate) {
	o.coord = c
}

// Die marks the organism dead. Returns true only for the call that performed
// the transition, so concurrent or repeated kills are counted once.
func (o *Organism) Die() bool {
	return o.alive.CompareAndSwap(true, false)
}

// SetReadyToMate sets the mating flag. No effect on plants.
func (o *Organism) SetReadyToMate(ready bool) {
	if o.IsAnimal() {
		o.readyToMate = ready
	}
}

// Eat kills prey and credits its weight to the eater's satiety, taken modulo
// the eater's own weight. Returns false if the prey was already dead.
// An eater with zero weight gains nothing.
func (o *Organism) Eat(prey *Organism) bool {
	if !prey.Die() {
		return false
	}
	if w := o.chars.Weight; w > 0 {
		o.satiety += math.Mod(prey.chars.Weight, w)
	}
	o.readyToMate = true
	return true
}

// Hunger decays satiety by foodForSatiety*ratio and clears mating readiness.
// Returns true if the animal starved on this call.
func (o *Organism) Hunger(ratio float64) (bool, error) {
	if ratio < 0 {
		return false, ErrNegativeHungerRatio
	}
	if !o.IsAnimal() || !o.Alive() {
		return false, nil
	}
	o.satiety -= o.chars.FoodForSatiety * ratio
	o.readyToMate = false
	if o.satiety < 0 {
		return o.Die(), nil
	}
	return false, nil
}

// Reproduce consumes the mating readiness of one partner.
func (o *Organism) Reproduce() {
	o.readyToMate = false
}
