// Package main provides CMA-ES optimization for island simulation parameters.
package main

import (
	"math"
	"time"

	"github.com/pthm-cable/island/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// Parameter indices, in Specs order.
const (
	paramHungerRatio = iota
	paramRegrowEvery
)

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "hunger_ratio", Path: "simulation.hunger_ratio", Min: 0.01, Max: 0.5, Default: 0.1},
			// Headless runs step regrowth synchronously every N ticks
			{Name: "regrow_every", Path: "regrowth.interval", Min: 1, Max: 30, Default: 10},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = math.Min(math.Max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// RegrowEvery returns the regrowth cadence in ticks encoded in values.
func (pv *ParamVector) RegrowEvery(values []float64) int {
	return int(math.Round(pv.Clamp(values)[paramRegrowEvery]))
}

// ApplyToConfig applies parameter values to a Config struct. The tick cadence
// becomes a wall-clock interval through the configured tick delay.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	cfg.Simulation.HungerRatio = clamped[paramHungerRatio]

	every := pv.RegrowEvery(values)
	if cfg.Simulation.TickDelay > 0 {
		cfg.Regrowth.Interval = time.Duration(every) * cfg.Simulation.TickDelay
	}
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	every := pv.Specs[paramRegrowEvery].Default
	if cfg.Simulation.TickDelay > 0 {
		every = float64(cfg.Regrowth.Interval) / float64(cfg.Simulation.TickDelay)
	}
	return []float64{
		cfg.Simulation.HungerRatio,
		every,
	}
}
