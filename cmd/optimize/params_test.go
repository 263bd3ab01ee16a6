package main

import (
	"math"
	"testing"
	"time"

	"github.com/pthm-cable/island/config"
)

func TestNormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector()
	raw := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-9 {
			t.Errorf("%s: got %v, want %v", pv.Specs[i].Name, back[i], raw[i])
		}
	}
}

func TestApplyToConfig(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Defaults().Clone()
	cfg.Simulation.TickDelay = 100 * time.Millisecond

	pv.ApplyToConfig(cfg, []float64{0.9, 4.4})

	if cfg.Simulation.HungerRatio != 0.5 {
		t.Errorf("hunger_ratio = %v, want clamped 0.5", cfg.Simulation.HungerRatio)
	}
	if cfg.Regrowth.Interval != 400*time.Millisecond {
		t.Errorf("regrowth interval = %v, want 400ms", cfg.Regrowth.Interval)
	}

	got := pv.ExtractFromConfig(cfg)
	if got[0] != 0.5 || got[1] != 4 {
		t.Errorf("ExtractFromConfig() = %v, want [0.5 4]", got)
	}
}

func TestComputeQuality(t *testing.T) {
	steady := make([]float64, 20)
	for i := range steady {
		steady[i] = 10
	}
	swinging := make([]float64, 20)
	for i := range swinging {
		swinging[i] = float64(1 + (i%2)*30)
	}

	tests := []struct {
		name string
		r    runResult
		want func(float64) bool
	}{
		{"too short", runResult{herbivores: steady[:3], predators: steady[:3]}, func(q float64) bool { return q == 0 }},
		{"steady", runResult{herbivores: steady, predators: steady}, func(q float64) bool { return q == 1 }},
		{"swinging", runResult{herbivores: swinging, predators: steady}, func(q float64) bool { return q > 0 && q < 0.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if q := computeQuality(&tt.r); !tt.want(q) {
				t.Errorf("computeQuality() = %v", q)
			}
		})
	}
}
