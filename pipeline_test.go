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

// latticeMolecule builds a small cubic lattice, standing in for a real
// structure across the end-to-end scenarios below.
func latticeMolecule(t *testing.T) *Molecule {
	t.Helper()
	const side = 3
	const spacing = 1.5
	var atoms []Atom
	for x := 0; x < side; x++ {
		for y := 0; y < side; y++ {
			for z := 0; z < side; z++ {
				atoms = append(atoms, Atom{
					X: float64(x) * spacing, Y: float64(y) * spacing, Z: float64(z) * spacing,
					Weight: 1, Type: FFCarbon, Occupancy: 1,
				})
			}
		}
	}
	body := &Body{UID: "lattice", Atoms: atoms}
	mol, err := NewMolecule([]*Body{body}, []Water{
		{X: 0.5, Y: 0.5, Z: 0.5, Weight: 1},
		{X: 2.5, Y: 2.5, Z: 2.5, Weight: 1},
	})
	if err != nil {
		t.Fatalf("NewMolecule: %v", err)
	}
	return mol
}

// TestPipelineEndToEndPlain exercises the full chain manager ->
// composite -> Debye transform -> smart fit for the baseline plain
// manager, checking the invariants spec §8 calls out: positivity,
// bin-0 mass, and a fit that terminates with finite diagnostics.
func TestPipelineEndToEndPlain(t *testing.T) {
	mol := latticeMolecule(t)
	manager := NewPlainManager(0, 0)
	set, err := manager.CalculateAll(mol)
	if err != nil {
		t.Fatalf("CalculateAll: %v", err)
	}

	for b := 0; b < set.Aa.Bins(); b++ {
		if set.Aa.At(b) < 0 {
			t.Fatalf("Aa bin %d negative: %v", b, set.Aa.At(b))
		}
	}
	nAtoms := float64(len(mol.Bodies[0].Atoms))
	if got := set.Aa.At(0); got != nAtoms {
		t.Fatalf("Aa.At(0) = %v, want %v (sum of unit weights squared)", got, nAtoms)
	}

	hist := NewCompositeDistanceHistogram(set)
	qAxis := DefaultQAxisConfig().Build()
	debye := NewDebyeTransform(qAxis, nil, set.Aa.Bins(), set.Aa.BinWidth())
	profile := debye.Transform(hist, 0, 0)
	if err := profile.Validate(); err != nil {
		t.Fatalf("computed profile failed Validate: %v", err)
	}
	for i, v := range profile.I {
		if v < -1e-9 {
			t.Fatalf("I[%d] = %v, should not be meaningfully negative for a positive-mass histogram", i, v)
		}
	}

	// data = the molecule's own profile at cw=1.7, giving the fitter a
	// known target to recover.
	if err := hist.ApplyWaterScalingFactor(1.7); err != nil {
		t.Fatalf("ApplyWaterScalingFactor: %v", err)
	}
	target := debye.Transform(hist, 0, 0)
	data := &ScatteringProfile{Q: append([]float64{}, target.Q...), I: append([]float64{}, target.I...)}

	hist2 := NewCompositeDistanceHistogram(set)
	fitter := NewSmartFitter(data, hist2, debye, []FitParam{{Name: "cw", Default: 1.0, Lo: 0, Hi: 10}})
	result, err := fitter.Fit()
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if math.IsNaN(result.Cw) || math.IsInf(result.Cw, 0) {
		t.Fatalf("Cw = %v, want finite", result.Cw)
	}
	if result.Linear == nil || math.IsNaN(result.Linear.Chi2) {
		t.Fatalf("fit produced no usable linear diagnostics")
	}
}

// TestPipelineEndToEndFFExplicit checks that the type-resolved manager
// agrees with PlainManager's placement of total mass once form factors
// are folded back out, since both describe the same atoms.
func TestPipelineEndToEndFFExplicit(t *testing.T) {
	mol := latticeMolecule(t)
	plain, err := NewPlainManager(0, 0).CalculateAll(mol)
	if err != nil {
		t.Fatalf("PlainManager.CalculateAll: %v", err)
	}
	explicit, err := NewFFExplicitManager(0, 0, 0).CalculateAll(mol)
	if err != nil {
		t.Fatalf("FFExplicitManager.CalculateAll: %v", err)
	}

	// every atom here is carbon with unit weight, so FFExplicit's
	// unweighted bin placement (before any F(q) is applied) must
	// exactly match PlainManager's.
	for b := 0; b < plain.Aa.Bins(); b++ {
		if plain.Aa.At(b) != explicit.Aa.At(b) {
			t.Fatalf("bin %d: plain=%v explicit=%v, want equal for a single-type molecule", b, plain.Aa.At(b), explicit.Aa.At(b))
		}
	}
}

// TestPipelineCheckpointRoundTripPreservesTotal verifies that writing
// and reading back a histogram set through the checkpoint format
// reproduces the same composite total (spec §8's checkpoint-round-trip
// invariant).
func TestPipelineCheckpointRoundTripPreservesTotal(t *testing.T) {
	mol := latticeMolecule(t)
	set, err := NewPlainManager(0, 0).CalculateAll(mol)
	if err != nil {
		t.Fatalf("CalculateAll: %v", err)
	}
	before := NewCompositeDistanceHistogram(set).Total()

	path := t.TempDir() + "/roundtrip.ausx"
	if err := WriteCheckpoint(path, set, len(mol.Bodies)); err != nil {
		t.Fatalf("WriteCheckpoint: %v", err)
	}
	readSet, _, err := ReadCheckpoint(path, set.Aa.BinWidth())
	if err != nil {
		t.Fatalf("ReadCheckpoint: %v", err)
	}
	after := NewCompositeDistanceHistogram(readSet).Total()

	for b := 0; b < before.Bins(); b++ {
		if before.At(b) != after.At(b) {
			t.Fatalf("bin %d: before=%v after=%v, checkpoint round trip should preserve the total exactly", b, before.At(b), after.At(b))
		}
	}
}
