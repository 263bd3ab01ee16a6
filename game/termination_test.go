package game

import (
	"testing"

	"github.com/pthm-cable/island/components"
	"github.com/pthm-cable/island/config"
)

func TestTerminatorEvaluate(t *testing.T) {
	tests := []struct {
		name       string
		toggles    config.TerminationConfig
		wolves     int
		rabbits    int
		iteration  int
		wantDone   bool
		wantReason string
	}{
		{
			name:     "no conditions never stops",
			wolves:   0,
			rabbits:  0,
			wantDone: false,
		},
		{
			name:      "iteration at count keeps running",
			toggles:   config.TerminationConfig{IterationLimit: true, IterationCount: 3},
			iteration: 3,
			wantDone:  false,
		},
		{
			name:       "iteration past count stops",
			toggles:    config.TerminationConfig{IterationLimit: true, IterationCount: 3},
			iteration:  4,
			wantDone:   true,
			wantReason: ReasonIterationLimit,
		},
		{
			name:       "all animals dead",
			toggles:    config.TerminationConfig{AllAnimalsDead: true},
			wantDone:   true,
			wantReason: ReasonAllAnimalsDead,
		},
		{
			name:     "animals alive",
			toggles:  config.TerminationConfig{AllAnimalsDead: true},
			rabbits:  1,
			wantDone: false,
		},
		{
			name:       "herbivores gone, predators alive",
			toggles:    config.TerminationConfig{AllHerbivoresDead: true, AllPredatorsDead: true},
			wolves:     1,
			wantDone:   true,
			wantReason: ReasonAllHerbivoresDead,
		},
		{
			name:       "predators gone, herbivores alive",
			toggles:    config.TerminationConfig{AllHerbivoresDead: true, AllPredatorsDead: true},
			rabbits:    2,
			wantDone:   true,
			wantReason: ReasonAllPredatorsDead,
		},
		{
			name:     "both groups alive",
			toggles:  config.TerminationConfig{AllHerbivoresDead: true, AllPredatorsDead: true, AllAnimalsDead: true},
			wolves:   1,
			rabbits:  1,
			wantDone: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, testConfig(nil), Options{})
			addOrganisms(t, g, "grass", components.Coordinate{Row: 0, Col: 0}, 3)
			addOrganisms(t, g, "wolf", components.Coordinate{Row: 1, Col: 1}, tt.wolves)
			addOrganisms(t, g, "rabbit", components.Coordinate{Row: 2, Col: 3}, tt.rabbits)

			term := NewTerminator(tt.toggles)
			done, reason := term.Evaluate(tt.iteration, g.Area())
			if done != tt.wantDone || reason != tt.wantReason {
				t.Errorf("Evaluate() = (%v, %q), want (%v, %q)", done, reason, tt.wantDone, tt.wantReason)
			}
		})
	}
}

func TestTerminatorIgnoresDeadOrganisms(t *testing.T) {
	g := newTestGame(t, testConfig(nil), Options{})
	addOrganisms(t, g, "wolf", components.Coordinate{Row: 0, Col: 0}, 1)
	for _, o := range g.Area().At(components.Coordinate{Row: 0, Col: 0}).Organisms() {
		o.Die()
	}

	term := NewTerminator(config.TerminationConfig{AllAnimalsDead: true})
	if done, _ := term.Evaluate(1, g.Area()); !done {
		t.Error("dead organisms kept the run alive")
	}
}
