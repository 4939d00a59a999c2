package main

import (
	"github.com/pthm-cable/swirl/config"
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

// NewParamVector creates the standard set of optimizable parameters.
// base_offset is left out: it sets the look of the swirl, not its stability.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Swarm
			{Name: "spring", Path: "swarm.spring", Min: 0.5, Max: 20.0, Default: 4.0},
			{Name: "damping", Path: "swarm.damping", Min: 0.80, Max: 0.99, Default: 0.95},
			{Name: "pointer_threshold", Path: "swarm.pointer_threshold", Min: 0.2, Max: 2.0, Default: 0.8},
			{Name: "pointer_strength", Path: "swarm.pointer_strength", Min: 1.0, Max: 40.0, Default: 12.0},
			// Pairwise
			{Name: "min_dist", Path: "pairwise.min_dist", Min: 0.05, Max: 0.5, Default: 0.2},
			{Name: "repulsion_factor", Path: "pairwise.repulsion_factor", Min: 0.1, Max: 5.0, Default: 1.0},
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
		clamped[i] = max(spec.Min, min(spec.Max, v[i]))
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	cfg.Swarm.Spring = clamped[0]
	cfg.Swarm.Damping = clamped[1]
	cfg.Swarm.PointerThreshold = clamped[2]
	cfg.Swarm.PointerStrength = clamped[3]
	cfg.Pairwise.MinDist = clamped[4]
	cfg.Pairwise.RepulsionFactor = clamped[5]
}
