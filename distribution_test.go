// Copyright © 2026 the AUSAXS authors.
// This file is part of AUSAXS.
//
// AUSAXS is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package ausaxs

import "testing"

func TestDistanceBin(t *testing.T) {
	cases := []struct {
		d       float64
		wantBin int
		wantOK  bool
	}{
		{0, 0, true},
		{0.0624, 0, true},
		{0.0626, 1, true},
		{0.1875, 2, true}, // tie rounds away from zero
		{999.9, 7999, true},
		{1000, 0, false},
		{-1, 0, false},
	}
	for _, c := range cases {
		b, ok := DistanceBin(c.d, DefaultBinWidth, DefaultBins)
		if ok != c.wantOK {
			t.Errorf("DistanceBin(%v) ok=%v, want %v", c.d, ok, c.wantOK)
			continue
		}
		if ok && b != c.wantBin {
			t.Errorf("DistanceBin(%v) = %d, want %d", c.d, b, c.wantBin)
		}
	}
}

func TestDistribution1DBinZeroMass(t *testing.T) {
	d := NewDistribution1D(10, 1.0)
	d.AddSelf(4.5)
	if d.At(0) != 4.5 {
		t.Fatalf("bin 0 = %v, want 4.5", d.At(0))
	}
	for b := 1; b < d.Bins(); b++ {
		if d.At(b) != 0 {
			t.Fatalf("bin %d = %v, want 0", b, d.At(b))
		}
	}
}

func TestDistribution1DSymmetryAndPositivity(t *testing.T) {
	d := NewDistribution1D(10, 1.0)
	d.Add(2.5, 3)
	d.Add(2.5, 1)
	if d.At(2) != 4 {
		t.Fatalf("bin 2 = %v, want 4", d.At(2))
	}
	d.Add(50, 10) // out of range, must be dropped silently
	total := 0.0
	for b := 0; b < d.Bins(); b++ {
		v := d.At(b)
		if v < 0 {
			t.Fatalf("bin %d negative: %v", b, v)
		}
		total += v
	}
	if total != 4 {
		t.Fatalf("total mass = %v, want 4 (out-of-range contribution must be dropped)", total)
	}
}

func TestDistribution1DClone(t *testing.T) {
	d := NewDistribution1D(4, 1.0)
	d.AddBin(1, 5)
	c := d.Clone()
	c.AddBin(1, 1)
	if d.At(1) != 5 {
		t.Fatalf("original mutated by clone: %v", d.At(1))
	}
	if c.At(1) != 6 {
		t.Fatalf("clone = %v, want 6", c.At(1))
	}
}

func TestWeightedDistribution1DCenter(t *testing.T) {
	d := NewWeightedDistribution1D(10, 1.0)
	d.Add(2.1, 1)
	d.Add(2.9, 1)
	center := d.WeightedCenter(2)
	if center <= 2.0 || center >= 3.0 {
		t.Fatalf("weighted center = %v, want in (2,3)", center)
	}
	empty := d.WeightedCenter(5)
	if empty != 5.5 {
		t.Fatalf("empty-bin center = %v, want nominal 5.5", empty)
	}
}

func TestWeightedDistribution1DClone(t *testing.T) {
	d := NewWeightedDistribution1D(4, 1.0)
	d.Add(1.5, 2)
	c := d.Clone()
	c.Add(1.5, 2)
	if d.At(1) != 2 {
		t.Fatalf("original mutated by clone: %v", d.At(1))
	}
	if c.At(1) != 4 {
		t.Fatalf("clone = %v, want 4", c.At(1))
	}
}
