package telemetry

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkHuntBreakthrough BookmarkType = "hunt_breakthrough"
	BookmarkPredatorRecovery BookmarkType = "predator_recovery"
	BookmarkHerbivoreCrash   BookmarkType = "herbivore_crash"
	BookmarkStableEcosystem  BookmarkType = "stable_ecosystem"
)

const (
	stableTicksRequired       = 5 // consecutive stable ticks before triggering
	stableWindow              = 4 // ticks compared for stability
	minHistoryForBreakthrough = 3
)

// BookmarkDetector detects interesting moments from the per-tick stats.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []TickStats
	historySize int
	historyIdx  int
	historyFull bool

	recentPredMin    int // minimum predator count since the last recovery
	recentHerbPeak   int // peak herbivore count since the last crash
	stableTicksCount int // consecutive ticks with stable populations
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < stableWindow+1 {
		historySize = stableWindow + 1
	}
	return &BookmarkDetector{
		history:       make([]TickStats, historySize),
		historySize:   historySize,
		recentPredMin: -1,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks as events.
func (bd *BookmarkDetector) Check(stats TickStats) []Event {
	var events []Event
	add := func(typ BookmarkType, format string, args ...any) {
		events = append(events, Event{
			Tick:        stats.Tick,
			Description: fmt.Sprintf("%s: ", typ) + fmt.Sprintf(format, args...),
			Category:    CategoryBookmark,
		})
	}

	history := bd.getHistory()

	// Hunt breakthrough: kills > 2x rolling average
	if len(history) >= minHistoryForBreakthrough && stats.Kills >= 3 {
		var total int
		for _, h := range history {
			total += h.Kills
		}
		avg := float64(total) / float64(len(history))
		if avg > 0 && float64(stats.Kills) > 2*avg {
			add(BookmarkHuntBreakthrough, "%d kills is %.1fx average (%.1f)", stats.Kills, float64(stats.Kills)/avg, avg)
		}
	}

	// Predator recovery: was ≤3, now ≥3x that
	if bd.recentPredMin > 0 && bd.recentPredMin <= 3 &&
		stats.Predators >= bd.recentPredMin*3 && stats.Predators >= 6 {
		add(BookmarkPredatorRecovery, "predators recovered from %d to %d", bd.recentPredMin, stats.Predators)
		bd.recentPredMin = stats.Predators
	}

	// Herbivore crash: dropped >30% from recent peak
	if bd.recentHerbPeak > 0 {
		drop := 1.0 - float64(stats.Herbivores)/float64(bd.recentHerbPeak)
		if drop > 0.30 && stats.Herbivores < bd.recentHerbPeak-10 {
			add(BookmarkHerbivoreCrash, "herbivores crashed %.0f%% from peak %d to %d", drop*100, bd.recentHerbPeak, stats.Herbivores)
			bd.recentHerbPeak = stats.Herbivores
		}
	}

	if bd.checkStable(stats) {
		add(BookmarkStableEcosystem, "%d herbivores, %d predators over %d+ ticks", stats.Herbivores, stats.Predators, stableTicksRequired)
	}

	bd.addToHistory(stats)

	if stats.Predators < bd.recentPredMin || bd.recentPredMin < 0 {
		bd.recentPredMin = stats.Predators
	}
	if stats.Herbivores > bd.recentHerbPeak {
		bd.recentHerbPeak = stats.Herbivores
	}
	return events
}

// checkStable reports true exactly once per stable stretch: both groups
// present with a coefficient of variation under 20% over the last ticks.
func (bd *BookmarkDetector) checkStable(stats TickStats) bool {
	if stats.Herbivores < 10 || stats.Predators < 3 {
		bd.stableTicksCount = 0
		return false
	}
	history := bd.getHistory()
	if len(history) < stableWindow {
		return false
	}

	herbs := make([]float64, 0, stableWindow)
	preds := make([]float64, 0, stableWindow)
	for _, h := range history[len(history)-stableWindow:] {
		herbs = append(herbs, float64(h.Herbivores))
		preds = append(preds, float64(h.Predators))
	}
	if cvBelow(herbs, 0.2) && cvBelow(preds, 0.2) {
		bd.stableTicksCount++
	} else {
		bd.stableTicksCount = 0
	}
	return bd.stableTicksCount == stableTicksRequired
}

func cvBelow(values []float64, limit float64) bool {
	mean, std := stat.MeanStdDev(values, nil)
	return mean > 0 && std/mean < limit
}

func (bd *BookmarkDetector) addToHistory(stats TickStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// getHistory returns the buffered ticks, oldest first.
func (bd *BookmarkDetector) getHistory() []TickStats {
	if !bd.historyFull {
		return bd.history[:bd.historyIdx]
	}
	out := make([]TickStats, 0, bd.historySize)
	out = append(out, bd.history[bd.historyIdx:]...)
	return append(out, bd.history[:bd.historyIdx]...)
}
