// Package main tunes wave scheduler parameters with CMA-ES so that
// autopilot runs survive close to a target duration.
package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/pthm-cable/arena/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of scheduler parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Spawn pacing
			{Name: "base_interval", Path: "scheduler.base_interval", Min: 0.4, Max: 3.0, Default: 1.2},
			{Name: "min_interval", Path: "scheduler.min_interval", Min: 0.05, Max: 0.6, Default: 0.18},
			{Name: "ramp_every", Path: "scheduler.ramp_every", Min: 10, Max: 90, Default: 30},
			{Name: "ramp_factor", Path: "scheduler.ramp_factor", Min: 0.7, Max: 0.99, Default: 0.9},
			// Kamikaze waves
			{Name: "kamikaze_interval", Path: "scheduler.kamikaze_interval", Min: 15, Max: 120, Default: 40},
			{Name: "kamikaze_burst", Path: "scheduler.kamikaze_burst", Min: 2, Max: 14, Default: 6},
			// Elites
			{Name: "elite_chance", Path: "scheduler.elite_chance", Min: 0, Max: 0.1, Default: 0.02},
			{Name: "elite_chance_per_min", Path: "scheduler.elite_chance_per_min", Min: 0, Max: 0.05, Default: 0.01},
			// Enemy levels
			{Name: "level_every", Path: "scheduler.level_every", Min: 20, Max: 180, Default: 60},
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
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes clamped values into cfg. Order must match Specs.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	c := pv.Clamp(values)
	s := &cfg.Scheduler

	s.BaseInterval = c[0]
	s.MinInterval = min(c[1], s.BaseInterval)
	s.RampEvery = c[2]
	s.RampFactor = c[3]
	s.KamikazeInterval = c[4]
	s.KamikazeBurst = int(math.Round(c[5]))
	s.EliteChance = c[6]
	s.EliteChancePerMin = c[7]
	s.LevelEvery = c[8]
}

// ExtractFromConfig reads the current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	s := cfg.Scheduler
	return []float64{
		s.BaseInterval,
		s.MinInterval,
		s.RampEvery,
		s.RampFactor,
		s.KamikazeInterval,
		float64(s.KamikazeBurst),
		s.EliteChance,
		s.EliteChancePerMin,
		s.LevelEvery,
	}
}

// Format renders values as name=value pairs for logs.
func (pv *ParamVector) Format(values []float64) string {
	parts := make([]string, len(pv.Specs))
	for i, spec := range pv.Specs {
		parts[i] = fmt.Sprintf("%s=%.4f", spec.Name, values[i])
	}
	return strings.Join(parts, " ")
}
