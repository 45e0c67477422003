// Copyright © 2026 the AUSAXS authors.
// This file is part of AUSAXS.
//
// AUSAXS is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package ausaxs

// avgFormFactorWeight is the zero-angle value of a type's form factor
// (Σa_i + c), used by FFAvgManager as a single scalar per-atom weight
// rather than carrying the full q-dependent curve into distance space
// (spec §9: the "average form factor" monomorphization of the original
// template hierarchy's HistogramManagerMTFFAvg).
func avgFormFactorWeight(t FormFactorType) float64 {
	c := formFactorCoeffs[t]
	v := c.c
	for _, a := range c.a {
		v += a
	}
	return v
}

// FFAvgManager builds distance histograms whose per-atom weight folds
// in the type's average scattering strength, without tracking per-type
// partials explicitly (ExvAverage, KindPlain). Each atom carries its
// type's zero-angle amplitude; the Debye transform applies no further
// per-type form-factor q-dependence to these histograms.
type FFAvgManager struct {
	Bins     int
	BinWidth float64
	ExvRatio float64 // fraction of each atom's volume treated as excluded volume, spec §4.2
}

func NewFFAvgManager(bins int, binWidth, exvRatio float64) *FFAvgManager {
	if bins == 0 {
		bins = DefaultBins
	}
	if binWidth == 0 {
		binWidth = DefaultBinWidth
	}
	return &FFAvgManager{Bins: bins, BinWidth: binWidth, ExvRatio: exvRatio}
}

func (m *FFAvgManager) Kind() DistributionKind { return KindPlain }
func (m *FFAvgManager) Exv() ExvModel          { return ExvAverage }

func (m *FFAvgManager) Calculate(mol *Molecule) (*Distribution1D, error) {
	set, err := m.CalculateAll(mol)
	if err != nil {
		return nil, err
	}
	return set.Aa, nil
}

func weightedAtoms(atoms []Atom, typeScale func(FormFactorType) float64) []Atom {
	out := make([]Atom, len(atoms))
	for i, a := range atoms {
		scaled := a
		scaled.Weight = a.EffectiveWeight() * typeScale(a.Type)
		scaled.Occupancy = 0 // EffectiveWeight already folded above
		out[i] = scaled
	}
	return out
}

func (m *FFAvgManager) CalculateAll(mol *Molecule) (*PartialHistogramSet, error) {
	if mol == nil || len(mol.Bodies) == 0 {
		return nil, &InputError{Op: "FFAvgManager.CalculateAll", Msg: "molecule has no bodies"}
	}
	set := newPartialHistogramSet(KindPlain, ExvAverage, m.Bins, m.BinWidth)

	var allAtoms []Atom
	bodyOffsets := make(map[string][2]int, len(mol.Bodies))
	for _, b := range mol.Bodies {
		start := len(allAtoms)
		atoms := b.AllAtoms()
		allAtoms = append(allAtoms, atoms...)
		bodyOffsets[b.UID] = [2]int{start, start + len(atoms)}
	}

	ccAtoms := weightedAtoms(allAtoms, avgFormFactorWeight)
	cc := NewCompactCoordinates(ccAtoms, false)
	set.Aa = selfHistogram(cc, m.Bins, m.BinWidth)

	for uid, rng := range bodyOffsets {
		sub := &CompactCoordinates{X: cc.X[rng[0]:rng[1]], Y: cc.Y[rng[0]:rng[1]], Z: cc.Z[rng[0]:rng[1]], W: cc.W[rng[0]:rng[1]], Type: cc.Type[rng[0]:rng[1]]}
		set.SelfByBody[uid] = selfHistogram(sub, m.Bins, m.BinWidth)
	}

	xScale := m.ExvRatio
	if xScale > 0 {
		xAtoms := weightedAtoms(allAtoms, func(t FormFactorType) float64 { return avgFormFactorWeight(FFExcludedVolume) * xScale })
		xcc := NewCompactCoordinates(xAtoms, false)
		set.Xx = selfHistogram(xcc, m.Bins, m.BinWidth)
		set.Ax = crossHistogram(cc, xcc, m.Bins, m.BinWidth)
	} else {
		set.Xx, set.Ax, set.Wx = nil, nil, nil
	}

	if len(mol.Hydration) > 0 {
		waterAtoms := make([]Atom, len(mol.Hydration))
		for i, h := range mol.Hydration {
			waterAtoms[i] = Atom{X: h.X, Y: h.Y, Z: h.Z, Weight: h.Weight * avgFormFactorWeight(FFOH), Type: FFOH}
		}
		wcc := NewCompactCoordinates(waterAtoms, false)
		set.Ww = selfHistogram(wcc, m.Bins, m.BinWidth)
		set.SelfWater = set.Ww.Clone()
		set.Aw = crossHistogram(cc, wcc, m.Bins, m.BinWidth)
		if set.Xx != nil {
			xAtoms := weightedAtoms(allAtoms, func(t FormFactorType) float64 { return avgFormFactorWeight(FFExcludedVolume) * xScale })
			xcc := NewCompactCoordinates(xAtoms, false)
			set.Wx = crossHistogram(wcc, xcc, m.Bins, m.BinWidth)
		}
	}

	return set, nil
}

// selfHistogram is the shared self-term driver used by every manager
// that doesn't need per-pair type bookkeeping: it carries weight
// already folded into cc.W.
func selfHistogram(cc *CompactCoordinates, bins int, binWidth float64) *Distribution1D {
	d := pairwiseSelf(cc,
		func() *Distribution1D { return NewDistribution1D(bins, binWidth) },
		func(d *Distribution1D, i, j int, dist, w float32, ti, tj uint8) { d.Add(float64(dist), 2*float64(w)) },
		func(a, b *Distribution1D) *Distribution1D { a.AddOther(b); return a },
	)
	var sumWSq float64
	for _, w := range cc.W {
		sumWSq += float64(w) * float64(w)
	}
	d.AddSelf(sumWSq)
	return d
}

// crossHistogram is the shared cross-term driver between two distinct
// weighted atom sets.
func crossHistogram(a, b *CompactCoordinates, bins int, binWidth float64) *Distribution1D {
	return pairwiseCross(a, b,
		func() *Distribution1D { return NewDistribution1D(bins, binWidth) },
		func(d *Distribution1D, i, j int, dist, w float32, ta, tb uint8) { d.Add(float64(dist), 2*float64(w)) },
		func(x, y *Distribution1D) *Distribution1D { x.AddOther(y); return x },
	)
}
