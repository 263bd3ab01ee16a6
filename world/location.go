// Package world provides the island grid: Locations, the Area that owns them,
// and the strategies used to assign terrain types.
package world

import (
	"slices"
	"sync"

	"github.com/pthm-cable/island/components"
)

// LocationType describes a terrain kind.
type LocationType struct {
	Name        string
	Probability float64 // Spawn weight
	Passable    bool    // Animals may move through it
	Habitable   bool    // Organisms may be stocked or regrown on it
	Emoji       string
}

// Location is one grid cell and the organisms in it.
//
// Methods with the Locked suffix require the caller to hold the Location's
// lock; the others acquire it themselves.
type Location struct {
	id    uint64
	typ   LocationType
	coord components.Coordinate

	mu        sync.Mutex
	organisms []*components.Organism
}

func newLocation(id uint64, typ LocationType, coord components.Coordinate) *Location {
	return &Location{id: id, typ: typ, coord: coord}
}

// ID returns the Location's lock-ordering identifier.
func (l *Location) ID() uint64                        { return l.id }
func (l *Location) Type() LocationType                { return l.typ }
func (l *Location) Coordinate() components.Coordinate { return l.coord }
func (l *Location) Passable() bool                    { return l.typ.Passable }
func (l *Location) Habitable() bool                   { return l.typ.Habitable }

func (l *Location) Lock()   { l.mu.Lock() }
func (l *Location) Unlock() { l.mu.Unlock() }

// OrganismsLocked returns a copy of the organism list.
func (l *Location) OrganismsLocked() []*components.Organism {
	return slices.Clone(l.organisms)
}

// AddLocked appends organisms.
func (l *Location) AddLocked(orgs ...*components.Organism) {
	l.organisms = append(l.organisms, orgs...)
}

// RemoveLocked removes o and reports whether it was present.
func (l *Location) RemoveLocked(o *components.Organism) bool {
	i := slices.Index(l.organisms, o)
	if i < 0 {
		return false
	}
	l.organisms = slices.Delete(l.organisms, i, i+1)
	return true
}

// HasRoomLocked reports whether fewer than limit alive organisms of sp are
// held. The scan stops at the limit-th match, so overcrowded cells cost no more
// than full ones.
func (l *Location) HasRoomLocked(sp components.Species, limit int) bool {
	n := 0
	for _, o := range l.organisms {
		if o.Species() == sp && o.Alive() {
			n++
			if n >= limit {
				return false
			}
		}
	}
	return n < limit
}

// HasRoom is HasRoomLocked under the Location's lock.
func (l *Location) HasRoom(sp components.Species, limit int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.HasRoomLocked(sp, limit)
}

// RemoveDeadLocked drops dead organisms and returns them.
func (l *Location) RemoveDeadLocked() []*components.Organism {
	var dead []*components.Organism
	kept := l.organisms[:0]
	for _, o := range l.organisms {
		if o.Alive() {
			kept = append(kept, o)
		} else {
			dead = append(dead, o)
		}
	}
	clear(l.organisms[len(kept):])
	l.organisms = kept
	return dead
}

// CountLocked returns the number of alive organisms of a species.
func (l *Location) CountLocked(sp components.Species) int {
	n := 0
	for _, o := range l.organisms {
		if o.Species() == sp && o.Alive() {
			n++
		}
	}
	return n
}

// Count returns the number of alive organisms of a species.
func (l *Location) Count(sp components.Species) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.CountLocked(sp)
}

// Organisms returns a copy of the organism list.
func (l *Location) Organisms() []*components.Organism {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.OrganismsLocked()
}

// Len returns the number of organisms held, dead ones included.
func (l *Location) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.organisms)
}
