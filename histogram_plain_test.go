// Copyright © 2026 the AUSAXS authors.
// This file is part of AUSAXS.
//
// AUSAXS is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package ausaxs

import "testing"

func twoAtomMolecule(t *testing.T) *Molecule {
	t.Helper()
	body := &Body{UID: "A", Atoms: []Atom{
		{X: 0, Y: 0, Z: 0, Weight: 1, Type: FFCarbon, Occupancy: 1},
		{X: 1, Y: 0, Z: 0, Weight: 2, Type: FFCarbon, Occupancy: 1},
	}}
	mol, err := NewMolecule([]*Body{body}, nil)
	if err != nil {
		t.Fatalf("NewMolecule: %v", err)
	}
	return mol
}

func TestPlainManagerBinZeroMass(t *testing.T) {
	mol := twoAtomMolecule(t)
	m := NewPlainManager(0, 0)
	set, err := m.CalculateAll(mol)
	if err != nil {
		t.Fatalf("CalculateAll: %v", err)
	}
	// bin 0 must carry the self mass: w1^2 + w2^2 = 1 + 4 = 5
	if got := set.Aa.At(0); got != 5 {
		t.Fatalf("Aa.At(0) = %v, want 5", got)
	}
	// the single cross pair at distance 1.0, weight 1*2=2, lands in bin 8
	b, ok := DistanceBin(1.0, m.BinWidth, m.Bins)
	if !ok {
		t.Fatalf("DistanceBin(1.0) not ok")
	}
	if got := set.Aa.At(b); got != 4 {
		t.Fatalf("Aa.At(%d) = %v, want 4", b, got)
	}
}

func TestPlainManagerHydrationCross(t *testing.T) {
	mol := twoAtomMolecule(t)
	mol.Hydration = []Water{{X: 0, Y: 0, Z: 0, Weight: 1}}
	m := NewPlainManager(0, 0)
	set, err := m.CalculateAll(mol)
	if err != nil {
		t.Fatalf("CalculateAll: %v", err)
	}
	if set.Aw == nil {
		t.Fatalf("Aw is nil with hydration present")
	}
	if set.Ww.At(0) != 1 {
		t.Fatalf("Ww.At(0) = %v, want 1 (single water self-term)", set.Ww.At(0))
	}
	total := 0.0
	for b := 0; b < set.Aw.Bins(); b++ {
		total += set.Aw.At(b)
	}
	// cross terms carry a factor of 2 (I = Iaa + 2*Iaw + Iww):
	// atom 1 (dist 0, weight 1*1=1) -> 2, atom 2 (dist 1, weight 2*1=2) -> 4
	if total != 6 {
		t.Fatalf("Aw total mass = %v, want 6", total)
	}
}

func TestPlainManagerRejectsEmptyMolecule(t *testing.T) {
	m := NewPlainManager(0, 0)
	if _, err := m.CalculateAll(&Molecule{}); err == nil {
		t.Fatalf("expected InputError for molecule with no bodies")
	}
}

func TestPlainManagerKindAndExv(t *testing.T) {
	m := NewPlainManager(0, 0)
	if m.Kind() != KindPlain {
		t.Fatalf("Kind() = %v, want KindPlain", m.Kind())
	}
	if m.Exv() != ExvNone {
		t.Fatalf("Exv() = %v, want ExvNone", m.Exv())
	}
}
