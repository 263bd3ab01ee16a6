package systems

import "github.com/pthm-cable/island/world"

// LockOrder returns two distinct Locations in acquisition order: lower id
// first. The result does not depend on argument order, so every operation
// that needs the same pair locks it the same way.
func LockOrder(a, b *world.Location) (first, second *world.Location) {
	if a.ID() < b.ID() {
		return a, b
	}
	return b, a
}

// lockPair acquires both Locations in LockOrder and returns the release func.
func lockPair(a, b *world.Location) (unlock func()) {
	first, second := LockOrder(a, b)
	first.Lock()
	second.Lock()
	return func() {
		second.Unlock()
		first.Unlock()
	}
}
