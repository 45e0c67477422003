// Copyright © 2026 the AUSAXS authors.
// This file is part of AUSAXS.
//
// AUSAXS is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package ausaxs

import "math"

// goldenRatio constants, named as in the original golden-section
// search: phi is the golden ratio, invphi its reciprocal, invphi2 its
// square — used to place the two interior probe points so that one of
// them is reused on the next bracket shrink.
const (
	goldenPhi     = 1.6180339887498949
	goldenInvPhi  = 0.6180339887498949
	goldenInvPhi2 = 0.3819660112501051
)

// GoldenSectionResult is the outcome of a bounded 1-D minimization.
type GoldenSectionResult struct {
	X         float64
	F         float64
	Evals     int
	Converged bool
}

// GoldenSectionMinimize finds the minimizer of f on [lo, hi], assuming
// f is unimodal there, stopping once the bracket shrinks below tol or
// maxEvals function evaluations have been spent (spec §4.6.3's "scan
// then 1-D bisection seed" stage, grounded on the original mini::Golden
// search: no gradient, only bracket narrowing by the golden ratio so
// exactly one new evaluation is needed per iteration).
func GoldenSectionMinimize(f func(float64) float64, lo, hi, tol float64, maxEvals int) GoldenSectionResult {
	a, b := lo, hi
	h := b - a
	if h <= tol {
		x := (a + b) / 2
		return GoldenSectionResult{X: x, F: f(x), Evals: 1, Converged: true}
	}

	n := int(math.Ceil(math.Log(tol/h) / math.Log(goldenInvPhi)))
	if maxEvals > 0 && n > maxEvals {
		n = maxEvals
	}

	c := a + goldenInvPhi2*h
	d := a + goldenInvPhi*h
	fc := f(c)
	fd := f(d)
	evals := 2

	for k := 0; k < n; k++ {
		if fc < fd {
			b = d
			d = c
			fd = fc
			h = goldenInvPhi * h
			c = a + goldenInvPhi2*h
			fc = f(c)
		} else {
			a = c
			c = d
			fc = fd
			h = goldenInvPhi * h
			d = a + goldenInvPhi*h
			fd = f(d)
		}
		evals++
		if maxEvals > 0 && evals >= maxEvals {
			break
		}
	}

	if fc < fd {
		return GoldenSectionResult{X: (a + d) / 2, F: fc, Evals: evals, Converged: h <= tol}
	}
	return GoldenSectionResult{X: (c + b) / 2, F: fd, Evals: evals, Converged: h <= tol}
}

// ScanResult holds the best point found by a coarse uniform scan,
// used to seed GoldenSectionMinimize with a narrower bracket than the
// parameter's full configured range (spec §4.6.3, grounded on the
// original mini::Scan coarse pre-pass).
type ScanResult struct {
	BestX float64
	BestF float64
	Xs    []float64
	Fs    []float64
}

// Scan evaluates f at nSteps uniformly spaced points on [lo,hi] and
// reports the best one found.
func Scan(f func(float64) float64, lo, hi float64, nSteps int) ScanResult {
	if nSteps < 2 {
		nSteps = 2
	}
	xs := make([]float64, nSteps)
	fs := make([]float64, nSteps)
	bestI := 0
	step := (hi - lo) / float64(nSteps-1)
	for i := 0; i < nSteps; i++ {
		x := lo + step*float64(i)
		v := f(x)
		xs[i] = x
		fs[i] = v
		if !math.IsNaN(v) && (math.IsNaN(fs[bestI]) || v < fs[bestI]) {
			bestI = i
		}
	}
	return ScanResult{BestX: xs[bestI], BestF: fs[bestI], Xs: xs, Fs: fs}
}
