package telemetry

import (
	"path/filepath"
	"testing"
	"time"
)

func TestStoreRoundTrip(t *testing.T) {
	area, cat := newTestArea(t)
	spawn(t, area, cat, "bear", area.Locations()[0].Coordinate(), 2)

	store, err := OpenStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	if err := store.BeginRun("run-a", 2, 2, start); err != nil {
		t.Fatal(err)
	}

	c := NewCollector(cat, "run-a")
	for tick := 1; tick <= 3; tick++ {
		c.RecordDeaths(tick)
		if err := store.SaveTick(c.Flush(tick, area), cat); err != nil {
			t.Fatalf("SaveTick(%d): %v", tick, err)
		}
	}
	if err := store.SaveEvents("run-a", []Event{NewRunEvent(3, "finished: iteration limit")}); err != nil {
		t.Fatal(err)
	}
	if err := store.FinishRun("run-a", 3, "iteration limit", start.Add(time.Minute)); err != nil {
		t.Fatal(err)
	}

	runs, err := store.Runs(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(runs))
	}
	if runs[0].ID != "run-a" || runs[0].Ticks != 3 || runs[0].Reason != "iteration limit" || !runs[0].FinishedAt.Valid {
		t.Errorf("run = %+v", runs[0])
	}

	history, err := store.TickHistory("run-a")
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 3 {
		t.Fatalf("history = %d ticks, want 3", len(history))
	}
	if history[2].TotalDied != 6 || history[2].Died != 3 {
		t.Errorf("tick 3 died = %d total = %d, want 3/6", history[2].Died, history[2].TotalDied)
	}
	if history[0].Predators != 2 {
		t.Errorf("predators = %d, want 2", history[0].Predators)
	}

	n, err := store.SpeciesAlive("run-a", 2, "bear")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("bears at tick 2 = %d, want 2", n)
	}

	events, err := store.Events("run-a")
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Category != CategoryRun {
		t.Errorf("events = %+v", events)
	}
}

func TestStoreDisabled(t *testing.T) {
	store, err := OpenStore("")
	if err != nil || store != nil {
		t.Fatalf("OpenStore(\"\") = %v, %v; want nil, nil", store, err)
	}
	if err := store.BeginRun("x", 1, 1, time.Now()); err != nil {
		t.Error(err)
	}
	if err := store.SaveEvents("x", []Event{{Tick: 1}}); err != nil {
		t.Error(err)
	}
	if err := store.Close(); err != nil {
		t.Error(err)
	}
}
