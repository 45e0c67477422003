// Copyright © 2026 the AUSAXS authors.
// This file is part of AUSAXS.
//
// AUSAXS is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package ausaxs

// PlainManager builds unweighted, form-factor-blind distance
// histograms: ExvNone, KindPlain. This is the baseline manager against
// which the form-factor-aware managers are checked for agreement on
// bin placement (spec §4.2's simplest concrete combination).
type PlainManager struct {
	Bins     int
	BinWidth float64
}

// NewPlainManager returns a manager using the default bin layout when
// bins/binWidth are zero.
func NewPlainManager(bins int, binWidth float64) *PlainManager {
	if bins == 0 {
		bins = DefaultBins
	}
	if binWidth == 0 {
		binWidth = DefaultBinWidth
	}
	return &PlainManager{Bins: bins, BinWidth: binWidth}
}

func (m *PlainManager) Kind() DistributionKind { return KindPlain }
func (m *PlainManager) Exv() ExvModel          { return ExvNone }

func (m *PlainManager) Calculate(mol *Molecule) (*Distribution1D, error) {
	set, err := m.CalculateAll(mol)
	if err != nil {
		return nil, err
	}
	return set.Aa, nil
}

func (m *PlainManager) CalculateAll(mol *Molecule) (*PartialHistogramSet, error) {
	if mol == nil || len(mol.Bodies) == 0 {
		return nil, &InputError{Op: "PlainManager.CalculateAll", Msg: "molecule has no bodies"}
	}
	set := newPartialHistogramSet(KindPlain, ExvNone, m.Bins, m.BinWidth)

	var allAtoms []Atom
	bodyOffsets := make(map[string][2]int, len(mol.Bodies))
	for _, b := range mol.Bodies {
		start := len(allAtoms)
		atoms := b.AllAtoms()
		allAtoms = append(allAtoms, atoms...)
		bodyOffsets[b.UID] = [2]int{start, start + len(atoms)}
	}
	cc := NewCompactCoordinates(allAtoms, false)
	set.Aa = selfHistogram(cc, m.Bins, m.BinWidth)

	for uid, rng := range bodyOffsets {
		sub := &CompactCoordinates{X: cc.X[rng[0]:rng[1]], Y: cc.Y[rng[0]:rng[1]], Z: cc.Z[rng[0]:rng[1]], W: cc.W[rng[0]:rng[1]], Type: cc.Type[rng[0]:rng[1]]}
		set.SelfByBody[uid] = selfHistogram(sub, m.Bins, m.BinWidth)
	}

	if len(mol.Hydration) > 0 {
		waterAtoms := make([]Atom, len(mol.Hydration))
		for i, h := range mol.Hydration {
			waterAtoms[i] = Atom{X: h.X, Y: h.Y, Z: h.Z, Weight: h.Weight, Type: FFOH}
		}
		wcc := NewCompactCoordinates(waterAtoms, false)
		set.Ww = selfHistogram(wcc, m.Bins, m.BinWidth)
		set.SelfWater = set.Ww.Clone()
		set.Aw = crossHistogram(cc, wcc, m.Bins, m.BinWidth)
	}

	return set, nil
}
