package telemetry

import (
	"sync"

	"github.com/pthm-cable/island/components"
	"github.com/pthm-cable/island/traits"
	"github.com/pthm-cable/island/world"
)

// Collector accumulates events within a tick and produces TickStats.
// Record methods are safe for concurrent use by phase workers and the
// regrowth job.
type Collector struct {
	mu      sync.Mutex
	catalog *components.Catalog
	runID   string

	// Per-tick counters
	died     int
	born     int
	regrown  int
	kills    int
	starved  int
	pairings int

	totalDied int

	// Alive counts from the previous flush, for extinction detection
	lastAlive map[components.Species]int
	events    []Event
}

// NewCollector creates a new stats collector.
func NewCollector(catalog *components.Catalog, runID string) *Collector {
	return &Collector{
		catalog: catalog,
		runID:   runID,
	}
}

// RecordDeaths records organisms removed at cleanup.
func (c *Collector) RecordDeaths(n int) {
	c.mu.Lock()
	c.died += n
	c.totalDied += n
	c.mu.Unlock()
}

// RecordBirths records offspring.
func (c *Collector) RecordBirths(n int) {
	c.mu.Lock()
	c.born += n
	c.mu.Unlock()
}

// RecordRegrowth records plants added by regrowth.
func (c *Collector) RecordRegrowth(n int) {
	c.mu.Lock()
	c.regrown += n
	c.mu.Unlock()
}

// RecordKills records successful feeding events.
func (c *Collector) RecordKills(n int) {
	c.mu.Lock()
	c.kills += n
	c.mu.Unlock()
}

// RecordStarvations records animals that died of hunger.
func (c *Collector) RecordStarvations(n int) {
	c.mu.Lock()
	c.starved += n
	c.mu.Unlock()
}

// RecordPairings records mating pairs.
func (c *Collector) RecordPairings(n int) {
	c.mu.Lock()
	c.pairings += n
	c.mu.Unlock()
}

// TotalDied returns the cumulative death count.
func (c *Collector) TotalDied() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalDied
}

// TotalAlive scans the area and counts alive organisms.
func (c *Collector) TotalAlive(area *world.Area) int {
	return area.CountAlive(nil)
}

// Flush scans the area, produces the stats for tick and resets the per-tick
// counters. Species that dropped to zero since the previous flush produce an
// extinction event.
func (c *Collector) Flush(tick int, area *world.Area) TickStats {
	stats := TickStats{
		RunID:          c.runID,
		Tick:           tick,
		AliveBySpecies: make(map[components.Species]int),
	}

	var satiety []float64
	for _, loc := range area.Locations() {
		loc.Lock()
		for _, o := range loc.OrganismsLocked() {
			if !o.Alive() {
				continue
			}
			stats.AliveBySpecies[o.Species()]++
			stats.TotalAlive++
			tr := o.Traits()
			switch {
			case traits.IsPlant(tr):
				stats.Plants++
			case traits.IsPredator(tr):
				stats.Predators++
			case traits.IsHerbivore(tr):
				stats.Herbivores++
			}
			if o.IsAnimal() {
				satiety = append(satiety, o.Satiety())
			}
		}
		loc.Unlock()
	}
	stats.SatietyMean, stats.SatietyStd, stats.SatietyP10, stats.SatietyP50, stats.SatietyP90 = ComputeSatietyStats(satiety)

	c.mu.Lock()
	defer c.mu.Unlock()

	stats.Died = c.died
	stats.Born = c.born
	stats.Regrown = c.regrown
	stats.Kills = c.kills
	stats.Starved = c.starved
	stats.Pairings = c.pairings
	stats.TotalDied = c.totalDied

	for sp, n := range c.lastAlive {
		if n > 0 && stats.AliveBySpecies[sp] == 0 {
			c.events = append(c.events, NewExtinctionEvent(tick, c.catalog.Name(sp)))
		}
	}
	c.lastAlive = make(map[components.Species]int, len(stats.AliveBySpecies))
	for sp, n := range stats.AliveBySpecies {
		c.lastAlive[sp] = n
	}

	c.died = 0
	c.born = 0
	c.regrown = 0
	c.kills = 0
	c.starved = 0
	c.pairings = 0

	return stats
}

// AddEvent queues an event for the next DrainEvents.
func (c *Collector) AddEvent(e Event) {
	c.mu.Lock()
	c.events = append(c.events, e)
	c.mu.Unlock()
}

// DrainEvents returns and clears queued events.
func (c *Collector) DrainEvents() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.events
	c.events = nil
	return out
}
