// Copyright © 2026 the AUSAXS authors.
// This file is part of AUSAXS.
//
// AUSAXS is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package ausaxs

import "math"

// ScatteringProfile is a computed or measured I(q) curve: parallel
// Q and I slices of equal length, Q strictly increasing (spec §3).
type ScatteringProfile struct {
	Q []float64
	I []float64
	// Err holds per-point measurement uncertainty; nil for a purely
	// computed profile (nothing to weight a fit residual by).
	Err []float64
}

// Len returns the number of (q, I) samples.
func (p *ScatteringProfile) Len() int { return len(p.Q) }

// Validate checks the shape invariants a profile must hold before it
// can be fit or persisted (spec §7): Q and I (and Err, if present) the
// same length, Q strictly increasing, no NaN/Inf values.
func (p *ScatteringProfile) Validate() error {
	if len(p.Q) != len(p.I) {
		return &InputError{Op: "ScatteringProfile.Validate", Msg: "Q and I length mismatch"}
	}
	if p.Err != nil && len(p.Err) != len(p.Q) {
		return &InputError{Op: "ScatteringProfile.Validate", Msg: "Err length mismatch"}
	}
	for i, q := range p.Q {
		if math.IsNaN(q) || math.IsInf(q, 0) || math.IsNaN(p.I[i]) || math.IsInf(p.I[i], 0) {
			return &InputError{Op: "ScatteringProfile.Validate", Msg: "non-finite value in profile"}
		}
		if i > 0 && q <= p.Q[i-1] {
			return &InputError{Op: "ScatteringProfile.Validate", Msg: "Q must be strictly increasing"}
		}
	}
	return nil
}

// QAxisConfig parameterizes a generated q-axis (spec §6.5): nSamples
// points spaced either logarithmically or linearly between qMin and
// qMax.
type QAxisConfig struct {
	QMin      float64
	QMax      float64
	NSamples  int
	LogSpaced bool
}

// DefaultQAxisConfig matches spec §6.5's defaults: 1000 log-spaced
// samples between 1e-2 and 0.5 inverse-ångström.
func DefaultQAxisConfig() QAxisConfig {
	return QAxisConfig{QMin: 1e-2, QMax: 0.5, NSamples: 1000, LogSpaced: true}
}

// Validate checks the QAxisConfig bounds from spec §6.5:
// q_min ∈ [1e-4, 0.01], q_max ∈ [0.1, 1.0], q_min < q_max.
func (c QAxisConfig) Validate() error {
	if c.QMin < 1e-4 || c.QMin > 0.01 {
		return &ConfigError{Field: "q_min", Value: c.QMin, Msg: "out of [1e-4, 0.01]"}
	}
	if c.QMax < 0.1 || c.QMax > 1.0 {
		return &ConfigError{Field: "q_max", Value: c.QMax, Msg: "out of [0.1, 1.0]"}
	}
	if c.QMin >= c.QMax {
		return &ConfigError{Field: "q_min", Value: c.QMin, Msg: "must be less than q_max"}
	}
	if c.NSamples < 2 {
		return &ConfigError{Field: "n_samples", Value: float64(c.NSamples), Msg: "must be at least 2"}
	}
	return nil
}

// Build materializes the q-axis described by c.
func (c QAxisConfig) Build() []float64 {
	out := make([]float64, c.NSamples)
	if c.LogSpaced {
		lo, hi := math.Log(c.QMin), math.Log(c.QMax)
		step := (hi - lo) / float64(c.NSamples-1)
		for i := range out {
			out[i] = math.Exp(lo + step*float64(i))
		}
		return out
	}
	step := (c.QMax - c.QMin) / float64(c.NSamples-1)
	for i := range out {
		out[i] = c.QMin + step*float64(i)
	}
	return out
}
