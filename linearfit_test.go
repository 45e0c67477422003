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
	"testing"
)

func TestLinearLeastSquaresExactFit(t *testing.T) {
	model := []float64{1, 2, 3, 4, 5}
	data := make([]float64, len(model))
	for i, x := range model {
		data[i] = 2*x + 3
	}
	res, err := LinearLeastSquares(data, model, nil)
	if err != nil {
		t.Fatalf("LinearLeastSquares: %v", err)
	}
	if res.Singular {
		t.Fatalf("exact linear data misreported as singular")
	}
	if math.Abs(res.A-2) > 1e-9 {
		t.Fatalf("A = %v, want 2", res.A)
	}
	if math.Abs(res.B-3) > 1e-9 {
		t.Fatalf("B = %v, want 3", res.B)
	}
	if math.Abs(res.Chi2) > 1e-9 {
		t.Fatalf("Chi2 = %v, want ~0 for an exact fit", res.Chi2)
	}
	if math.Abs(res.Q-1) > 1e-6 {
		t.Fatalf("Q = %v, want ~1 for chi2=0", res.Q)
	}
	if res.DoF != 3 {
		t.Fatalf("DoF = %d, want 3", res.DoF)
	}
}

func TestLinearLeastSquaresSingular(t *testing.T) {
	model := []float64{1, 1, 1, 1}
	data := []float64{1, 2, 3, 4}
	res, err := LinearLeastSquares(data, model, nil)
	if err != nil {
		t.Fatalf("LinearLeastSquares: %v", err)
	}
	if !res.Singular {
		t.Fatalf("constant model should be reported singular")
	}
}

func TestLinearLeastSquaresRejectsMismatchedLengths(t *testing.T) {
	if _, err := LinearLeastSquares([]float64{1, 2, 3}, []float64{1, 2}, nil); err == nil {
		t.Fatalf("expected InputError for length mismatch")
	}
}

func TestLinearLeastSquaresRejectsTooFewPoints(t *testing.T) {
	if _, err := LinearLeastSquares([]float64{1, 2}, []float64{1, 2}, nil); err == nil {
		t.Fatalf("expected InputError for fewer than 3 points")
	}
}

func TestLinearLeastSquaresRejectsNonPositiveSigma(t *testing.T) {
	model := []float64{1, 2, 3}
	data := []float64{1, 2, 3}
	if _, err := LinearLeastSquares(data, model, []float64{1, 0, 1}); err == nil {
		t.Fatalf("expected InputError for non-positive sigma")
	}
}

func TestLinearLeastSquaresWeighted(t *testing.T) {
	model := []float64{1, 2, 3, 4, 5}
	data := []float64{1, 2, 3, 4, 100} // last point is an outlier
	sigma := []float64{1, 1, 1, 1, 1000} // but heavily downweighted
	res, err := LinearLeastSquares(data, model, sigma)
	if err != nil {
		t.Fatalf("LinearLeastSquares: %v", err)
	}
	// with the outlier downweighted almost to nothing, the fit should
	// stay close to the a=1,b=0 relationship the other four points hold
	if math.Abs(res.A-1) > 0.1 {
		t.Fatalf("A = %v, want close to 1", res.A)
	}
}
