package systems

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/island/components"
	"github.com/pthm-cable/island/world"
)

// directions are the 8 neighbor offsets (row, col).
var directions = [8][2]int{
	{-1, 0}, {1, 0}, {0, -1}, {0, 1},
	{-1, -1}, {-1, 1}, {1, -1}, {1, 1},
}

// MovementSystem moves animals between Locations.
type MovementSystem struct {
	area *world.Area
	rng  Rand
}

// NewMovementSystem creates a new movement system.
func NewMovementSystem(area *world.Area, rng Rand) *MovementSystem {
	if rng == nil {
		rng = DefaultRand
	}
	return &MovementSystem{area: area, rng: rng}
}

// Movers returns the alive, mobile animals currently at loc. The phase
// snapshots movers for every Location before any relocation so an animal
// moves at most once per tick.
func (s *MovementSystem) Movers(loc *world.Location) []*components.Organism {
	loc.Lock()
	defer loc.Unlock()

	var out []*components.Organism
	for _, o := range loc.OrganismsLocked() {
		if o.IsAnimal() && o.Alive() && o.Characteristics().MoveSpeed > 0 {
			out = append(out, o)
		}
	}
	return out
}

// canEnter reports whether an animal of species sp may step onto c.
func (s *MovementSystem) canEnter(c components.Coordinate, sp components.Species, max int) bool {
	if !s.area.InBounds(c) {
		return false
	}
	loc := s.area.At(c)
	if !loc.Passable() {
		return false
	}
	return loc.HasRoom(sp, max)
}

// NextCoordinate performs up to moveSpeed random single steps from the
// organism's position and returns where it ends up. It stops early when no
// neighbor is enterable.
func (s *MovementSystem) NextCoordinate(o *components.Organism) components.Coordinate {
	chars := o.Characteristics()
	cur := o.Coordinate()

	candidates := make([]components.Coordinate, 0, len(directions))
	for step := 0; step < chars.MoveSpeed; step++ {
		candidates = candidates[:0]
		for _, d := range directions {
			next := cur.Offset(d[0], d[1])
			if s.canEnter(next, o.Species(), chars.MaxPerCoordinate) {
				candidates = append(candidates, next)
			}
		}
		if len(candidates) == 0 {
			break
		}
		cur = candidates[s.rng.IntN(len(candidates))]
	}
	return cur
}

// Move computes a destination for o and relocates it. Returns true if the
// organism changed Location.
func (s *MovementSystem) Move(o *components.Organism) (bool, error) {
	from := o.Coordinate()
	to := s.NextCoordinate(o)
	if to == from {
		return false, nil
	}
	return s.Relocate(o, from, to)
}

// Relocate moves o from one Location to another while holding both locks.
// Capacity is rechecked under the locks; if the destination filled up in the
// meantime the move is abandoned and the animal stays.
func (s *MovementSystem) Relocate(o *components.Organism, from, to components.Coordinate) (bool, error) {
	origin := s.area.At(from)
	dest := s.area.At(to)
	if origin == nil || dest == nil {
		return false, fmt.Errorf("relocating organism %d %v -> %v: out of bounds", o.ID(), from, to)
	}
	if origin == dest {
		return false, nil
	}

	unlock := lockPair(origin, dest)
	defer unlock()

	if !dest.HasRoomLocked(o.Species(), o.Characteristics().MaxPerCoordinate) {
		slog.Debug("move abandoned, destination full", "organism", o.ID(), "to", to)
		return false, nil
	}
	if !origin.RemoveLocked(o) {
		return false, fmt.Errorf("relocating organism %d: not present at %v", o.ID(), from)
	}
	dest.AddLocked(o)
	o.MoveTo(to)
	return true, nil
}

// UpdateLocation moves every planned mover of one Location.
func (s *MovementSystem) UpdateLocation(movers []*components.Organism) (int, error) {
	moved := 0
	for _, o := range movers {
		ok, err := s.Move(o)
		if err != nil {
			return moved, err
		}
		if ok {
			moved++
		}
	}
	return moved, nil
}
