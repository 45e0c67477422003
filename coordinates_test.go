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

func TestNewCompactCoordinatesFoldsOccupancy(t *testing.T) {
	atoms := []Atom{
		{X: 1, Y: 2, Z: 3, Weight: 4, Occupancy: 0.5, Type: FFCarbon},
	}
	cc := NewCompactCoordinates(atoms, false)
	if cc.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", cc.Len())
	}
	if cc.W[0] != 2 {
		t.Fatalf("W[0] = %v, want 2 (weight 4 * occupancy 0.5)", cc.W[0])
	}
	if cc.Type[0] != uint8(FFCarbon) {
		t.Fatalf("Type[0] = %v, want %v", cc.Type[0], FFCarbon)
	}
}

func TestEvalPairDistanceAndWeight(t *testing.T) {
	atoms := []Atom{
		{X: 0, Y: 0, Z: 0, Weight: 2, Occupancy: 1, Type: FFCarbon},
		{X: 3, Y: 4, Z: 0, Weight: 5, Occupancy: 1, Type: FFOxygen},
	}
	cc := NewCompactCoordinates(atoms, false)
	dist, weight := cc.EvalPair(0, 1)
	if math.Abs(float64(dist)-5) > 1e-5 {
		t.Fatalf("dist = %v, want 5 (3-4-5 triangle)", dist)
	}
	if math.Abs(float64(weight)-10) > 1e-5 {
		t.Fatalf("weight = %v, want 10", weight)
	}
}

func TestEvalBatch4TailHandling(t *testing.T) {
	atoms := make([]Atom, 6)
	for i := range atoms {
		atoms[i] = Atom{X: float64(i), Y: 0, Z: 0, Weight: 1, Occupancy: 1, Type: FFCarbon}
	}
	cc := NewCompactCoordinates(atoms, false)
	var dist, weight [4]float32
	count := cc.EvalBatch4(0, 4, &dist, &weight)
	if count != 2 {
		t.Fatalf("count = %d, want 2 (only indices 4,5 remain)", count)
	}
}

func TestEvalBatch8MatchesEvalPair(t *testing.T) {
	atoms := make([]Atom, 5)
	for i := range atoms {
		atoms[i] = Atom{X: float64(i) * 1.1, Y: 0, Z: 0, Weight: 1, Occupancy: 1, Type: FFCarbon}
	}
	cc := NewCompactCoordinates(atoms, false)
	var dist, weight [8]float32
	count := cc.EvalBatch8(2, 0, &dist, &weight)
	if count != 5 {
		t.Fatalf("count = %d, want 5", count)
	}
	for j := 0; j < count; j++ {
		wantDist, wantWeight := cc.EvalPair(2, j)
		if dist[j] != wantDist || weight[j] != wantWeight {
			t.Fatalf("EvalBatch8[%d] = (%v,%v), want (%v,%v)", j, dist[j], weight[j], wantDist, wantWeight)
		}
	}
}
