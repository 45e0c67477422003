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

func TestAlignModelToDataLinearInterpolation(t *testing.T) {
	model := &ScatteringProfile{Q: []float64{0, 1, 2, 3}, I: []float64{0, 10, 20, 30}}
	data := &ScatteringProfile{Q: []float64{0.5, 1.5, 2.5}, I: []float64{100, 200, 300}}
	dataI, modelI, sigma, err := AlignModelToData(data, model)
	if err != nil {
		t.Fatalf("AlignModelToData: %v", err)
	}
	if sigma != nil {
		t.Fatalf("sigma should be nil when data has no Err")
	}
	want := []float64{5, 15, 25}
	for i, w := range want {
		if math.Abs(modelI[i]-w) > 1e-9 {
			t.Fatalf("modelI[%d] = %v, want %v", i, modelI[i], w)
		}
	}
	for i := range dataI {
		if dataI[i] != data.I[i] {
			t.Fatalf("dataI[%d] = %v, want %v", i, dataI[i], data.I[i])
		}
	}
}

func TestAlignModelToDataDropsOutOfRange(t *testing.T) {
	model := &ScatteringProfile{Q: []float64{1, 2, 3}, I: []float64{10, 20, 30}}
	data := &ScatteringProfile{Q: []float64{0.1, 1.5, 2.0, 2.5, 5}, I: []float64{1, 2, 3, 4, 5}}
	dataI, _, _, err := AlignModelToData(data, model)
	if err != nil {
		t.Fatalf("AlignModelToData: %v", err)
	}
	if len(dataI) != 3 {
		t.Fatalf("len(dataI) = %d, want 3 (points outside model range dropped)", len(dataI))
	}
}

func TestAlignModelToDataPropagatesSigma(t *testing.T) {
	model := &ScatteringProfile{Q: []float64{0, 1, 2}, I: []float64{0, 10, 20}}
	data := &ScatteringProfile{Q: []float64{0.5, 1.0, 1.5}, I: []float64{1, 2, 3}, Err: []float64{0.1, 0.15, 0.2}}
	_, _, sigma, err := AlignModelToData(data, model)
	if err != nil {
		t.Fatalf("AlignModelToData: %v", err)
	}
	if len(sigma) != 3 || sigma[0] != 0.1 || sigma[1] != 0.15 || sigma[2] != 0.2 {
		t.Fatalf("sigma = %v, want [0.1 0.15 0.2]", sigma)
	}
}

func TestAlignModelToDataRejectsTooFewOverlapping(t *testing.T) {
	model := &ScatteringProfile{Q: []float64{0, 1}, I: []float64{0, 10}}
	data := &ScatteringProfile{Q: []float64{0.5}, I: []float64{1}}
	if _, _, _, err := AlignModelToData(data, model); err == nil {
		t.Fatalf("expected InputError for fewer than 3 overlapping points")
	}
}

func TestAlignModelToDataRejectsShortModel(t *testing.T) {
	model := &ScatteringProfile{Q: []float64{1}, I: []float64{1}}
	data := &ScatteringProfile{Q: []float64{1}, I: []float64{1}}
	if _, _, _, err := AlignModelToData(data, model); err == nil {
		t.Fatalf("expected InputError for model with fewer than 2 points")
	}
}
