package telemetry

import (
	"strings"
	"testing"
)

func hasBookmark(events []Event, typ BookmarkType) bool {
	for _, e := range events {
		if e.Category == CategoryBookmark && strings.HasPrefix(e.Description, string(typ)) {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_HuntBreakthrough(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(TickStats{Tick: i, Kills: 2, Herbivores: 100, Predators: 10})
	}

	events := bd.Check(TickStats{Tick: 5, Kills: 8, Herbivores: 100, Predators: 10})
	if !hasBookmark(events, BookmarkHuntBreakthrough) {
		t.Errorf("expected hunt_breakthrough bookmark, got %v", events)
	}
}

func TestBookmarkDetector_HerbivoreCrash(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(TickStats{Tick: i, Herbivores: 100, Predators: 10})
	}

	events := bd.Check(TickStats{Tick: 5, Herbivores: 50, Predators: 10})
	if !hasBookmark(events, BookmarkHerbivoreCrash) {
		t.Errorf("expected herbivore_crash bookmark, got %v", events)
	}

	// Peak was reset to 50; a small further dip is not a crash.
	events = bd.Check(TickStats{Tick: 6, Herbivores: 45, Predators: 10})
	if hasBookmark(events, BookmarkHerbivoreCrash) {
		t.Error("unexpected second herbivore_crash bookmark")
	}
}

func TestBookmarkDetector_PredatorRecovery(t *testing.T) {
	bd := NewBookmarkDetector(10)

	bd.Check(TickStats{Tick: 0, Herbivores: 100, Predators: 2})
	bd.Check(TickStats{Tick: 1, Herbivores: 100, Predators: 4})

	events := bd.Check(TickStats{Tick: 2, Herbivores: 100, Predators: 7})
	if !hasBookmark(events, BookmarkPredatorRecovery) {
		t.Errorf("expected predator_recovery bookmark, got %v", events)
	}
}

func TestBookmarkDetector_StableEcosystem(t *testing.T) {
	bd := NewBookmarkDetector(10)

	triggered := 0
	for i := 0; i < 20; i++ {
		events := bd.Check(TickStats{Tick: i, Herbivores: 100 + i%2, Predators: 10})
		if hasBookmark(events, BookmarkStableEcosystem) {
			triggered++
		}
	}
	if triggered != 1 {
		t.Errorf("stable_ecosystem triggered %d times, want 1", triggered)
	}
}

func TestBookmarkDetector_NoBookmarksWhenQuiet(t *testing.T) {
	bd := NewBookmarkDetector(10)
	for i := 0; i < 10; i++ {
		if events := bd.Check(TickStats{Tick: i, Herbivores: 5, Predators: 1}); len(events) != 0 {
			t.Fatalf("tick %d: unexpected bookmarks %v", i, events)
		}
	}
}
