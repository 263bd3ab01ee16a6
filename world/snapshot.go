package world

import "github.com/pthm-cable/island/components"

// LocationSnapshot is a read-only view of one Location.
type LocationSnapshot struct {
	ID         uint64
	Coordinate components.Coordinate
	Type       LocationType
	Alive      map[components.Species]int
	Total      int
}

// Snapshot captures the alive organism counts.
func (l *Location) Snapshot() LocationSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := LocationSnapshot{
		ID:         l.id,
		Coordinate: l.coord,
		Type:       l.typ,
		Alive:      make(map[components.Species]int),
	}
	for _, o := range l.organisms {
		if o.Alive() {
			s.Alive[o.Species()]++
			s.Total++
		}
	}
	return s
}

// TypeGrid returns the terrain type of every cell, indexed [row][col].
func (a *Area) TypeGrid() [][]LocationType {
	grid := make([][]LocationType, a.height)
	for r := range grid {
		row := a.Row(r)
		grid[r] = make([]LocationType, len(row))
		for c, l := range row {
			grid[r][c] = l.typ
		}
	}
	return grid
}

// Snapshot captures every Location in row-major order.
func (a *Area) Snapshot() []LocationSnapshot {
	out := make([]LocationSnapshot, len(a.locations))
	for i, l := range a.locations {
		out[i] = l.Snapshot()
	}
	return out
}
