// Copyright © 2026 the AUSAXS authors.
// This file is part of AUSAXS.
//
// AUSAXS is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package ausaxs

// FFExplicitManager keeps one distance histogram per (type, type) pair
// category instead of folding form factors into a scalar weight, so
// the Debye transform can apply the exact q-dependent F_i(q)F_j(q)
// product rather than FFAvgManager's zero-angle approximation
// (ExvExplicit, KindPlain; spec §9's HistogramManagerMTFFExplicit).
type FFExplicitManager struct {
	Bins     int
	BinWidth float64
	ExvRatio float64
}

func NewFFExplicitManager(bins int, binWidth, exvRatio float64) *FFExplicitManager {
	if bins == 0 {
		bins = DefaultBins
	}
	if binWidth == 0 {
		binWidth = DefaultBinWidth
	}
	return &FFExplicitManager{Bins: bins, BinWidth: binWidth, ExvRatio: exvRatio}
}

func (m *FFExplicitManager) Kind() DistributionKind { return KindPlain }
func (m *FFExplicitManager) Exv() ExvModel          { return ExvExplicit }

func (m *FFExplicitManager) Calculate(mol *Molecule) (*Distribution1D, error) {
	set, err := m.CalculateAll(mol)
	if err != nil {
		return nil, err
	}
	return set.Aa, nil
}

// ByType holds one Distribution1D per (type,type) category, the
// per-pair histograms the Debye transform needs to apply F_i(q)F_j(q)
// exactly instead of an averaged amplitude.
type ByType struct {
	Bins     int
	BinWidth float64
	data     [numFormFactorTypes][numFormFactorTypes]*Distribution1D
}

func newByType(bins int, binWidth float64) *ByType {
	bt := &ByType{Bins: bins, BinWidth: binWidth}
	return bt
}

// Get returns the histogram for (t1,t2), allocating it lazily so that
// unused type pairs never consume memory.
func (bt *ByType) Get(t1, t2 FormFactorType) *Distribution1D {
	if bt.data[t1][t2] == nil {
		bt.data[t1][t2] = NewDistribution1D(bt.Bins, bt.BinWidth)
	}
	return bt.data[t1][t2]
}

// Sum folds every (type,type) histogram into a single Distribution1D;
// CalculateAll uses it to build the total Aa from the per-type partials.
func (bt *ByType) Sum() *Distribution1D {
	out := NewDistribution1D(bt.Bins, bt.BinWidth)
	for i := 0; i < numFormFactorTypes; i++ {
		for j := 0; j < numFormFactorTypes; j++ {
			if bt.data[i][j] != nil {
				out.AddOther(bt.data[i][j])
			}
		}
	}
	return out
}

func (m *FFExplicitManager) CalculateAll(mol *Molecule) (*PartialHistogramSet, error) {
	if mol == nil || len(mol.Bodies) == 0 {
		return nil, &InputError{Op: "FFExplicitManager.CalculateAll", Msg: "molecule has no bodies"}
	}
	set := newPartialHistogramSet(KindPlain, ExvExplicit, m.Bins, m.BinWidth)

	var allAtoms []Atom
	for _, b := range mol.Bodies {
		allAtoms = append(allAtoms, b.AllAtoms()...)
	}
	cc := NewCompactCoordinates(allAtoms, false)

	byType := pairwiseSelf(cc,
		func() *ByType { return newByType(m.Bins, m.BinWidth) },
		func(bt *ByType, i, j int, dist, w float32, ti, tj uint8) {
			bt.Get(FormFactorType(ti), FormFactorType(tj)).Add(float64(dist), 2*float64(w))
		},
		func(a, b *ByType) *ByType {
			for i := 0; i < numFormFactorTypes; i++ {
				for j := 0; j < numFormFactorTypes; j++ {
					if b.data[i][j] != nil {
						a.Get(FormFactorType(i), FormFactorType(j)).AddOther(b.data[i][j])
					}
				}
			}
			return a
		},
	)
	var selfByType [numFormFactorTypes]float64
	for i, w := range cc.W {
		selfByType[cc.Type[i]] += float64(w) * float64(w)
	}
	for ty, s := range selfByType {
		if s != 0 {
			byType.Get(FormFactorType(ty), FormFactorType(ty)).AddSelf(s)
		}
	}
	set.Aa = byType.Sum()
	set.ByTypeAA = byType

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

	if m.ExvRatio > 0 {
		xAtoms := make([]Atom, len(allAtoms))
		for i, a := range allAtoms {
			xAtoms[i] = Atom{X: a.X, Y: a.Y, Z: a.Z, Weight: a.EffectiveWeight() * m.ExvRatio, Type: FFExcludedVolume}
		}
		xcc := NewCompactCoordinates(xAtoms, false)
		set.Xx = selfHistogram(xcc, m.Bins, m.BinWidth)
		set.Ax = crossHistogram(cc, xcc, m.Bins, m.BinWidth)
		if set.Ww != nil {
			wAtoms := make([]Atom, len(mol.Hydration))
			for i, h := range mol.Hydration {
				wAtoms[i] = Atom{X: h.X, Y: h.Y, Z: h.Z, Weight: h.Weight, Type: FFOH}
			}
			wcc := NewCompactCoordinates(wAtoms, false)
			set.Wx = crossHistogram(wcc, xcc, m.Bins, m.BinWidth)
		}
	}

	return set, nil
}
