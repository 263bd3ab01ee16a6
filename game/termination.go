package game

import (
	"github.com/pthm-cable/island/components"
	"github.com/pthm-cable/island/config"
	"github.com/pthm-cable/island/traits"
	"github.com/pthm-cable/island/world"
)

// Finish reasons.
const (
	ReasonIterationLimit    = "iteration_limit"
	ReasonAllAnimalsDead    = "all_animals_dead"
	ReasonAllPredatorsDead  = "all_predators_dead"
	ReasonAllHerbivoresDead = "all_herbivores_dead"
	ReasonInterrupted       = "interrupted"
)

// Condition is one stop rule.
type Condition struct {
	Reason string
	Met    func(iteration int, area *world.Area) bool
}

// Terminator evaluates the enabled stop conditions. The run stops when any
// of them holds.
type Terminator struct {
	conditions []Condition
}

// NewTerminator builds a terminator from the enabled toggles, in a fixed order.
func NewTerminator(cfg config.TerminationConfig) *Terminator {
	t := &Terminator{}
	if cfg.IterationLimit {
		limit := cfg.IterationCount
		t.conditions = append(t.conditions, Condition{
			Reason: ReasonIterationLimit,
			Met: func(iteration int, _ *world.Area) bool {
				return iteration > limit
			},
		})
	}
	if cfg.AllPredatorsDead {
		t.conditions = append(t.conditions, groupExtinct(ReasonAllPredatorsDead, traits.Predators))
	}
	if cfg.AllHerbivoresDead {
		t.conditions = append(t.conditions, groupExtinct(ReasonAllHerbivoresDead, traits.Herbivores))
	}
	if cfg.AllAnimalsDead {
		t.conditions = append(t.conditions, groupExtinct(ReasonAllAnimalsDead, traits.Animals))
	}
	return t
}

func groupExtinct(reason string, group traits.Group) Condition {
	return Condition{
		Reason: reason,
		Met: func(_ int, area *world.Area) bool {
			return !area.AnyAlive(func(o *components.Organism) bool {
				return group(o.Traits())
			})
		},
	}
}

// Len returns the number of enabled conditions.
func (t *Terminator) Len() int { return len(t.conditions) }

// Evaluate reports whether the run should stop and the reason of the first
// condition found to hold.
func (t *Terminator) Evaluate(iteration int, area *world.Area) (bool, string) {
	for _, c := range t.conditions {
		if c.Met(iteration, area) {
			return true, c.Reason
		}
	}
	return false, ""
}
