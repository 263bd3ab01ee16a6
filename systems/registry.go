package systems

import "github.com/pthm-cable/island/telemetry"

// Phase identifiers, in tick order. Shared with the perf collector.
const (
	PhaseMovement     = telemetry.PhaseMovement
	PhaseFeeding      = telemetry.PhaseFeeding
	PhaseReproduction = telemetry.PhaseReproduction
	PhaseHunger       = telemetry.PhaseHunger
	PhaseCleanup      = telemetry.PhaseCleanup
	PhaseTermination  = telemetry.PhaseTermination
	PhaseStocking     = telemetry.PhaseStocking
	PhaseRegrowth     = telemetry.PhaseRegrowth
)

// SystemInfo describes a simulation phase for logging and reports.
type SystemInfo struct {
	ID          string // Internal identifier (used for perf tracking)
	Name        string // Display name
	Description string // What this phase does
	Category    string // "tick", "setup" or "scheduled"
}

// SystemRegistry holds metadata about all phases.
type SystemRegistry struct {
	systems []SystemInfo
	byID    map[string]SystemInfo
}

// NewSystemRegistry creates a registry with all known phases.
func NewSystemRegistry() *SystemRegistry {
	reg := &SystemRegistry{
		byID: make(map[string]SystemInfo),
	}
	reg.registerDefaults()
	return reg
}

func (r *SystemRegistry) registerDefaults() {
	// Per-tick pipeline, in execution order
	r.Register(SystemInfo{ID: PhaseMovement, Name: "Movement", Description: "Moves animals between locations", Category: "tick"})
	r.Register(SystemInfo{ID: PhaseFeeding, Name: "Feeding", Description: "Resolves predation inside each location", Category: "tick"})
	r.Register(SystemInfo{ID: PhaseReproduction, Name: "Reproduction", Description: "Pairs ready animals and adds offspring", Category: "tick"})
	r.Register(SystemInfo{ID: PhaseHunger, Name: "Hunger", Description: "Decays satiety and kills starved animals", Category: "tick"})
	r.Register(SystemInfo{ID: PhaseCleanup, Name: "Cleanup", Description: "Removes dead organisms", Category: "tick"})
	r.Register(SystemInfo{ID: PhaseTermination, Name: "Termination", Description: "Evaluates stop conditions", Category: "tick"})

	r.Register(SystemInfo{ID: PhaseStocking, Name: "Stocking", Description: "Initial random population", Category: "setup"})
	r.Register(SystemInfo{ID: PhaseRegrowth, Name: "Regrowth", Description: "Periodic plant regrowth", Category: "scheduled"})
}

// Register adds a phase to the registry.
func (r *SystemRegistry) Register(info SystemInfo) {
	r.systems = append(r.systems, info)
	r.byID[info.ID] = info
}

// GetName returns the display name for a phase ID.
// Falls back to the ID itself if not found.
func (r *SystemRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// ByCategory returns phases filtered by category.
func (r *SystemRegistry) ByCategory(category string) []SystemInfo {
	var result []SystemInfo
	for _, info := range r.systems {
		if info.Category == category {
			result = append(result, info)
		}
	}
	return result
}

