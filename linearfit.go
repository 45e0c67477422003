// Copyright © 2026 the AUSAXS authors.
// This file is part of AUSAXS.
//
// AUSAXS is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package ausaxs

import (
	"math"

	"gonum.org/v1/gonum/mathext"
)

// LinearFitResult is the closed-form solution of I_data ≈ a*I_model + b
// under inverse-variance weights, plus its goodness-of-fit diagnostics
// (spec §4.6.2, grounded on the original SimpleLeastSquares algebra:
// S, Sx, Sy, Sxx, Sxy normal-equation sums and the Q-value via the
// regularized upper incomplete gamma function).
type LinearFitResult struct {
	A, B       float64
	SigmaA2    float64
	SigmaB2    float64
	Chi2       float64
	DoF        int
	Q          float64
	Singular   bool
}

// LinearLeastSquares fits model onto data in place: both slices must
// already share the same q-grid (see AlignModelToData). sigma is the
// per-point measurement uncertainty; pass nil to use unit weights.
func LinearLeastSquares(dataI, modelI, sigma []float64) (*LinearFitResult, error) {
	n := len(dataI)
	if len(modelI) != n {
		return nil, &InputError{Op: "LinearLeastSquares", Msg: "data/model length mismatch"}
	}
	if sigma != nil && len(sigma) != n {
		return nil, &InputError{Op: "LinearLeastSquares", Msg: "sigma length mismatch"}
	}
	if n < 3 {
		return nil, &InputError{Op: "LinearLeastSquares", Msg: "need at least 3 points for a 2-parameter fit"}
	}

	var s, sx, sy, sxx, sxy float64
	for i := 0; i < n; i++ {
		w := 1.0
		if sigma != nil {
			if sigma[i] <= 0 {
				return nil, &InputError{Op: "LinearLeastSquares", Msg: "sigma must be positive"}
			}
			w = 1 / (sigma[i] * sigma[i])
		}
		x, y := modelI[i], dataI[i]
		s += w
		sx += w * x
		sy += w * y
		sxx += w * x * x
		sxy += w * x * y
	}

	delta := s*sxx - sx*sx
	const eps = 1e-12
	if math.Abs(delta) < eps {
		return &LinearFitResult{Singular: true}, nil
	}

	a := (s*sxy - sx*sy) / delta
	b := (sxx*sy - sx*sxy) / delta

	var chi2 float64
	for i := 0; i < n; i++ {
		w := 1.0
		if sigma != nil {
			w = 1 / (sigma[i] * sigma[i])
		}
		resid := dataI[i] - (a*modelI[i] + b)
		chi2 += w * resid * resid
	}

	dof := n - 2
	result := &LinearFitResult{
		A: a, B: b,
		SigmaA2: s / delta,
		SigmaB2: sxx / delta,
		Chi2:    chi2,
		DoF:     dof,
	}
	if dof > 0 {
		result.Q = 1 - mathext.GammaIncReg(float64(dof)/2, chi2/2)
	} else {
		result.Q = 1
	}
	return result, nil
}
