package systems

import (
	"github.com/pthm-cable/island/components"
	"github.com/pthm-cable/island/world"
)

// CleanupSystem physically removes dead organisms at the end of a tick.
type CleanupSystem struct{}

// NewCleanupSystem creates a new cleanup system.
func NewCleanupSystem() *CleanupSystem {
	return &CleanupSystem{}
}

// UpdateLocation removes dead organisms from loc and returns them.
func (s *CleanupSystem) UpdateLocation(loc *world.Location) []*components.Organism {
	loc.Lock()
	defer loc.Unlock()
	return loc.RemoveDeadLocked()
}
