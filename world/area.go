package world

import (
	"fmt"

	"github.com/pthm-cable/island/components"
)

// Area is the fixed grid of Locations.
type Area struct {
	height, width int
	locations     []*Location // Row-major
	byCoord       map[components.Coordinate]*Location
}

// NewArea builds a height x width grid. Locations are created row-major and
// receive strictly increasing ids starting at 1.
func NewArea(height, width int, strategy LocationCreationStrategy) (*Area, error) {
	if height <= 0 || width <= 0 {
		return nil, fmt.Errorf("area size must be positive, got %dx%d", height, width)
	}

	a := &Area{
		height:    height,
		width:     width,
		locations: make([]*Location, 0, height*width),
		byCoord:   make(map[components.Coordinate]*Location, height*width),
	}

	var ids components.IDGenerator
	for r := 0; r < height; r++ {
		for c := 0; c < width; c++ {
			coord := components.Coordinate{Row: r, Col: c}
			loc := newLocation(ids.Next(), strategy.TypeAt(coord), coord)
			a.locations = append(a.locations, loc)
			a.byCoord[coord] = loc
		}
	}

	return a, nil
}

func (a *Area) Height() int { return a.height }
func (a *Area) Width() int  { return a.width }

// InBounds reports whether c lies on the grid.
func (a *Area) InBounds(c components.Coordinate) bool {
	return c.Row >= 0 && c.Row < a.height && c.Col >= 0 && c.Col < a.width
}

// At returns the Location at c, or nil when out of bounds.
func (a *Area) At(c components.Coordinate) *Location {
	return a.byCoord[c]
}

// Locations returns all Locations in row-major order. The slice must not be modified.
func (a *Area) Locations() []*Location {
	return a.locations
}

// Habitable returns the Locations organisms may live in.
func (a *Area) Habitable() []*Location {
	var out []*Location
	for _, l := range a.locations {
		if l.Habitable() {
			out = append(out, l)
		}
	}
	return out
}

// Row returns the Locations of one grid row.
func (a *Area) Row(r int) []*Location {
	if r < 0 || r >= a.height {
		return nil
	}
	return a.locations[r*a.width : (r+1)*a.width]
}

// Add places o in the Location at its coordinate.
func (a *Area) Add(o *components.Organism) error {
	loc := a.At(o.Coordinate())
	if loc == nil {
		return fmt.Errorf("organism %d at %v: out of bounds", o.ID(), o.Coordinate())
	}
	loc.Lock()
	loc.AddLocked(o)
	loc.Unlock()
	return nil
}

// CountAlive scans every Location and counts alive organisms matching pred.
func (a *Area) CountAlive(pred func(*components.Organism) bool) int {
	n := 0
	for _, l := range a.locations {
		l.Lock()
		for _, o := range l.organisms {
			if o.Alive() && (pred == nil || pred(o)) {
				n++
			}
		}
		l.Unlock()
	}
	return n
}

// AnyAlive reports whether some Location holds an alive organism matching pred.
func (a *Area) AnyAlive(pred func(*components.Organism) bool) bool {
	for _, l := range a.locations {
		l.Lock()
		found := false
		for _, o := range l.organisms {
			if o.Alive() && (pred == nil || pred(o)) {
				found = true
				break
			}
		}
		l.Unlock()
		if found {
			return true
		}
	}
	return false
}

func (a *Area) String() string {
	return fmt.Sprintf("Area(%dx%d, habitable=%d)", a.height, a.width, len(a.Habitable()))
}
