package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for the simulation step.
const (
	PhaseMovement     = "movement"
	PhaseFeeding      = "feeding"
	PhaseReproduction = "reproduction"
	PhaseHunger       = "hunger"
	PhaseCleanup      = "cleanup"
	PhaseTermination  = "termination"
	PhaseStocking     = "stocking"
	PhaseRegrowth     = "regrowth"
)

// tickPhases are the phases timed inside a tick, in order.
var tickPhases = []string{
	PhaseMovement, PhaseFeeding, PhaseReproduction,
	PhaseHunger, PhaseCleanup, PhaseTermination,
}

type tickTiming struct {
	total  time.Duration
	phases map[string]time.Duration
}

// PerfCollector times tick phases over the last N ticks. Running sums are
// kept so Stats does not rescan the window. Used only by the tick loop
// goroutine.
type PerfCollector struct {
	window []tickTiming
	next   int
	filled int

	sumTotal  time.Duration
	sumPhases map[string]time.Duration

	current    tickTiming
	tickStart  time.Time
	phaseStart time.Time
	phase      string
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		window:    make([]tickTiming, windowSize),
		sumPhases: make(map[string]time.Duration),
	}
}

// StartTick begins timing a new tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.current = tickTiming{phases: make(map[string]time.Duration, len(tickPhases))}
	p.phase = ""
}

// closePhase charges the running phase up to now and returns its duration.
func (p *PerfCollector) closePhase(now time.Time) time.Duration {
	if p.phase == "" {
		return 0
	}
	d := now.Sub(p.phaseStart)
	p.current.phases[p.phase] += d
	return d
}

// StartPhase begins timing phase and returns the duration of the phase it
// ended (0 if none).
func (p *PerfCollector) StartPhase(phase string) time.Duration {
	now := time.Now()
	ended := p.closePhase(now)
	p.phaseStart = now
	p.phase = phase
	return ended
}

// EndTick closes the tick, pushes it into the window and returns the
// duration of the final phase.
func (p *PerfCollector) EndTick() time.Duration {
	now := time.Now()
	ended := p.closePhase(now)
	p.phase = ""
	p.current.total = now.Sub(p.tickStart)

	if p.filled == len(p.window) {
		old := p.window[p.next]
		p.sumTotal -= old.total
		for name, d := range old.phases {
			p.sumPhases[name] -= d
		}
	} else {
		p.filled++
	}
	p.window[p.next] = p.current
	p.next = (p.next + 1) % len(p.window)

	p.sumTotal += p.current.total
	for name, d := range p.current.phases {
		p.sumPhases[name] += d
	}
	return ended
}

// PerfStats holds window averages.
type PerfStats struct {
	AvgTickDuration time.Duration
	PhaseAvg        map[string]time.Duration
	PhasePct        map[string]float64 // share of the average tick, in percent
	TicksPerSecond  float64
}

// Stats returns the averages over the current window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		PhaseAvg: make(map[string]time.Duration, len(p.sumPhases)),
		PhasePct: make(map[string]float64, len(p.sumPhases)),
	}
	if p.filled == 0 {
		return s
	}

	n := time.Duration(p.filled)
	s.AvgTickDuration = p.sumTotal / n
	for name, sum := range p.sumPhases {
		s.PhaseAvg[name] = sum / n
		if s.AvgTickDuration > 0 {
			s.PhasePct[name] = float64(sum/n) / float64(s.AvgTickDuration) * 100
		}
	}
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}
	return s
}

// LogStats logs the averages, listing only phases above 0.1% of a tick.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	for _, phase := range tickPhases {
		if pct := s.PhasePct[phase]; pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}
	slog.Info("perf", attrs...)
}

// PerfStatsCSV is one row of perf.csv.
type PerfStatsCSV struct {
	Tick            int     `csv:"tick"`
	AvgTickUS       int64   `csv:"avg_tick_us"`
	TicksPerSec     float64 `csv:"ticks_per_sec"`
	MovementPct     float64 `csv:"movement_pct"`
	FeedingPct      float64 `csv:"feeding_pct"`
	ReproductionPct float64 `csv:"reproduction_pct"`
	HungerPct       float64 `csv:"hunger_pct"`
	CleanupPct      float64 `csv:"cleanup_pct"`
	TerminationPct  float64 `csv:"termination_pct"`
}

// ToCSV flattens s into a perf.csv row.
func (s PerfStats) ToCSV(tick int) PerfStatsCSV {
	return PerfStatsCSV{
		Tick:            tick,
		AvgTickUS:       s.AvgTickDuration.Microseconds(),
		TicksPerSec:     s.TicksPerSecond,
		MovementPct:     s.PhasePct[PhaseMovement],
		FeedingPct:      s.PhasePct[PhaseFeeding],
		ReproductionPct: s.PhasePct[PhaseReproduction],
		HungerPct:       s.PhasePct[PhaseHunger],
		CleanupPct:      s.PhasePct[PhaseCleanup],
		TerminationPct:  s.PhasePct[PhaseTermination],
	}
}
