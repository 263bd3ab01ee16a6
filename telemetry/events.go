// Package telemetry provides run statistics, phase timing and run output.
package telemetry

import "fmt"

// Event categories.
const (
	CategoryExtinction = "extinction"
	CategoryRun        = "run"
	CategoryBookmark   = "bookmark"
)

// Event is a notable moment in a run.
type Event struct {
	Tick        int    `db:"tick"`
	Description string `db:"description"`
	Category    string `db:"category"`
}

// NewExtinctionEvent records that the last member of a species died.
func NewExtinctionEvent(tick int, species string) Event {
	return Event{
		Tick:        tick,
		Description: fmt.Sprintf("%s went extinct", species),
		Category:    CategoryExtinction,
	}
}

// NewRunEvent records a run lifecycle change.
func NewRunEvent(tick int, description string) Event {
	return Event{
		Tick:        tick,
		Description: description,
		Category:    CategoryRun,
	}
}
