// Package components defines the organism model: species characteristics,
// the species catalog and the per-organism mutable state.
package components

import (
	"errors"
	"fmt"
	"sync/atomic"
)

var (
	// ErrUnknownSpecies is returned when a species has no registered descriptor.
	ErrUnknownSpecies = errors.New("unknown species")
	// ErrNegativeHungerRatio is returned when hunger is applied with a negative ratio.
	ErrNegativeHungerRatio = errors.New("hunger ratio must be non-negative")
)

// Coordinate is a grid position. Comparable by value.
type Coordinate struct {
	Row, Col int
}

// Offset returns the coordinate shifted by (dr, dc).
func (c Coordinate) Offset(dr, dc int) Coordinate {
	return Coordinate{Row: c.Row + dr, Col: c.Col + dc}
}

func (c Coordinate) String() string {
	return fmt.Sprintf("[%d,%d]", c.Row, c.Col)
}

// Species indexes into the Catalog.
type Species uint8

// Characteristics are the per-species numeric parameters.
type Characteristics struct {
	Weight            float64
	MaxPerCoordinate  int
	MoveSpeed         int
	FoodForSatiety    float64
	StartSatietyRatio float64
}

// InitialSatiety returns the satiety a new animal of this species starts with.
func (c Characteristics) InitialSatiety() float64 {
	return c.FoodForSatiety * c.StartSatietyRatio
}

// IDGenerator hands out strictly increasing identifiers starting at 1.
// Safe for concurrent use.
type IDGenerator struct {
	last atomic.Uint64
}

// Next returns the next identifier.
func (g *IDGenerator) Next() uint64 {
	return g.last.Add(1)
}

// Last returns the most recently issued identifier (0 if none).
func (g *IDGenerator) Last() uint64 {
	return g.last.Load()
}

// LeadingDigit returns the leading decimal digit of n (0 for n <= 0).
func LeadingDigit(n int) int {
	if n <= 0 {
		return 0
	}
	for n >= 10 {
		n /= 10
	}
	return n
}
