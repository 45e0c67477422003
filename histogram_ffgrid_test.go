// Copyright © 2026 the AUSAXS authors.
// This file is part of AUSAXS.
//
// AUSAXS is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package ausaxs

import "testing"

func gridMolecule(t *testing.T) *Molecule {
	t.Helper()
	body := &Body{UID: "A", Atoms: []Atom{
		{X: 0, Y: 0, Z: 0, Weight: 1, Type: FFCarbon, Occupancy: 1},
		{X: 1, Y: 0, Z: 0, Weight: 1, Type: FFCarbon, Occupancy: 1},
	}}
	mol, err := NewMolecule([]*Body{body}, nil)
	if err != nil {
		t.Fatalf("NewMolecule: %v", err)
	}
	mol.Grid = &ExcludedVolumeGrid{
		Interior: []Atom{{X: 0.5, Y: 0, Z: 0, Weight: 1}},
		Surface:  []Atom{{X: 0.5, Y: 1, Z: 0, Weight: 1}},
	}
	return mol
}

func TestFFGridManagerRequiresGrid(t *testing.T) {
	body := &Body{UID: "A", Atoms: []Atom{{X: 0, Y: 0, Z: 0, Weight: 1, Type: FFCarbon, Occupancy: 1}}}
	mol, err := NewMolecule([]*Body{body}, nil)
	if err != nil {
		t.Fatalf("NewMolecule: %v", err)
	}
	m := NewFFGridManager(0, 0, false)
	if _, err := m.CalculateAll(mol); err == nil {
		t.Fatalf("expected InputError when molecule has no grid")
	}
}

func TestFFGridManagerInteriorPlusSurface(t *testing.T) {
	mol := gridMolecule(t)
	m := NewFFGridManager(0, 0, false)
	set, err := m.CalculateAll(mol)
	if err != nil {
		t.Fatalf("CalculateAll: %v", err)
	}
	if set.Kind != KindWeighted {
		t.Fatalf("set.Kind = %v, want KindWeighted", set.Kind)
	}
	totalXx := 0.0
	for b := 0; b < set.Xx.Bins(); b++ {
		totalXx += set.Xx.At(b)
	}
	// two grid points (interior + surface): bin-0 self mass 1+1=2, plus
	// one cross pair between them contributing 2*1=2
	if totalXx != 4 {
		t.Fatalf("Xx total = %v, want 4", totalXx)
	}
}

func TestFFGridManagerSurfaceOnly(t *testing.T) {
	mol := gridMolecule(t)
	m := NewFFGridManager(0, 0, true)
	set, err := m.CalculateAll(mol)
	if err != nil {
		t.Fatalf("CalculateAll: %v", err)
	}
	// surface-only: a single grid point, so Xx carries only bin-0 self mass 1
	if got := set.Xx.At(0); got != 1 {
		t.Fatalf("surface-only Xx.At(0) = %v, want 1", got)
	}
	total := 0.0
	for b := 0; b < set.Xx.Bins(); b++ {
		total += set.Xx.At(b)
	}
	if total != 1 {
		t.Fatalf("surface-only Xx total = %v, want 1", total)
	}
}
