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

	"github.com/ctessum/sparse"
)

// DefaultBinWidth is the real-space distance bin width in ångström
// (spec §3).
const DefaultBinWidth = 0.125

// DefaultBins is the number of distance bins, covering 0-1000 Å at the
// default bin width.
const DefaultBins = 8000

// DistanceBin maps a distance to a bin index using ties-away-from-zero
// rounding (spec §4.1). It returns (0, false) when d falls at or beyond
// the upper bound, signalling that the distance must be dropped.
func DistanceBin(d, binWidth float64, nbins int) (int, bool) {
	b := int(math.Floor(d/binWidth + 0.5)) // round, ties away from zero (d >= 0)
	if b < 0 || b >= nbins {
		return 0, false
	}
	return b, true
}

// Distribution1D is a dense, unweighted pair-distance histogram of
// length B over [0, B*binWidth) (spec §3).
type Distribution1D struct {
	data     *sparse.DenseArray
	binWidth float64
}

// NewDistribution1D allocates a zeroed distribution with nbins bins of
// width binWidth.
func NewDistribution1D(nbins int, binWidth float64) *Distribution1D {
	return &Distribution1D{data: sparse.ZerosDense(nbins), binWidth: binWidth}
}

// Bins returns the number of bins.
func (d *Distribution1D) Bins() int { return d.data.Shape[0] }

// BinWidth returns the configured bin width in ångström.
func (d *Distribution1D) BinWidth() float64 { return d.binWidth }

// At returns the accumulated weight in bin b.
func (d *Distribution1D) At(b int) float64 { return d.data.Get(b) }

// Set overwrites the weight in bin b.
func (d *Distribution1D) Set(b int, v float64) { d.data.Set(v, b) }

// Add accumulates weight w at real-space distance dist, dropping the
// contribution silently if dist is beyond the last bin (spec §4.1, §7
// "leaf kernels never fail").
func (d *Distribution1D) Add(dist, w float64) {
	b, ok := DistanceBin(dist, d.binWidth, d.Bins())
	if !ok {
		return
	}
	d.data.AddVal(w, b)
}

// AddBin accumulates weight w directly into bin b, used by the driver
// when the bin index has already been computed.
func (d *Distribution1D) AddBin(b int, w float64) {
	if b < 0 || b >= d.Bins() {
		return
	}
	d.data.AddVal(w, b)
}

// AddSelf accumulates bin-0 mass Σw_i² for a set of self-contributions
// (spec §4.2 "For self-terms, bin-0 accumulates Σ w_i² once").
func (d *Distribution1D) AddSelf(sumWSquared float64) {
	d.data.AddVal(sumWSquared, 0)
}

// AddOther adds another distribution of the same shape in place.
func (d *Distribution1D) AddOther(o *Distribution1D) {
	d.data.AddDense(o.data)
}

// Clone returns a deep copy.
func (d *Distribution1D) Clone() *Distribution1D {
	return &Distribution1D{data: d.data.Copy(), binWidth: d.binWidth}
}

// ToSlice returns a copy of the dense bin values.
func (d *Distribution1D) ToSlice() []float64 {
	out := make([]float64, d.Bins())
	copy(out, d.data.Elements)
	return out
}

// Scale multiplies every bin by factor in place.
func (d *Distribution1D) Scale(factor float64) { d.data.Scale(factor) }

// WeightedDistribution1D additionally tracks, per bin, the count of
// contributions and the sum of their distances, so that the reported
// bin center can be the weighted mean distance rather than the nominal
// bin center (spec §3, §4.2 "weighted bins").
type WeightedDistribution1D struct {
	Distribution1D
	count   *sparse.DenseArrayInt
	dsum    *sparse.DenseArray
}

// NewWeightedDistribution1D allocates a zeroed weighted distribution.
func NewWeightedDistribution1D(nbins int, binWidth float64) *WeightedDistribution1D {
	return &WeightedDistribution1D{
		Distribution1D: Distribution1D{data: sparse.ZerosDense(nbins), binWidth: binWidth},
		count:          sparse.ZerosDenseInt(nbins),
		dsum:           sparse.ZerosDense(nbins),
	}
}

// Add accumulates weight w at distance dist into the nominal bin, and
// folds dist into that bin's running (count, Σd) so WeightedCenter can
// later report the weighted-mean distance.
func (d *WeightedDistribution1D) Add(dist, w float64) {
	b, ok := DistanceBin(dist, d.binWidth, d.Bins())
	if !ok {
		return
	}
	d.data.AddVal(w, b)
	d.count.Set(d.count.Get(b)+1, b)
	d.dsum.AddVal(dist, b)
}

// WeightedCenter returns the weighted mean distance Σd/count for bin b,
// falling back to the nominal bin center when the bin received no
// contributions.
func (d *WeightedDistribution1D) WeightedCenter(b int) float64 {
	n := d.count.Get(b)
	if n == 0 {
		return (float64(b) + 0.5) * d.binWidth
	}
	return d.dsum.Get(b) / float64(n)
}

// Clone returns a deep copy.
func (d *WeightedDistribution1D) Clone() *WeightedDistribution1D {
	count := sparse.ZerosDenseInt(d.Bins())
	copy(count.Elements, d.count.Elements)
	return &WeightedDistribution1D{
		Distribution1D: Distribution1D{data: d.data.Copy(), binWidth: d.binWidth},
		count:          count,
		dsum:           d.dsum.Copy(),
	}
}

// AddOther adds another weighted distribution of the same shape in place.
func (d *WeightedDistribution1D) AddOther(o *WeightedDistribution1D) {
	d.data.AddDense(o.data)
	d.dsum.AddDense(o.dsum)
	for b := 0; b < d.Bins(); b++ {
		d.count.Set(d.count.Get(b)+o.count.Get(b), b)
	}
}
