// Copyright © 2026 the AUSAXS authors.
// This file is part of AUSAXS.
//
// AUSAXS is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package ausaxs

import "math"

// ExvModel selects the excluded-volume treatment a HistogramManager
// applies (spec §4.2, §9 "monomorphize the template<bool> explosion
// into concrete combinations").
type ExvModel int

const (
	ExvNone ExvModel = iota
	ExvAverage
	ExvExplicit
	ExvGrid
	ExvGridSurface
)

// DistributionKind selects whether a manager emits Distribution1D or
// WeightedDistribution1D partials.
type DistributionKind int

const (
	KindPlain DistributionKind = iota
	KindWeighted
)

// HistogramManager is the single trait every concrete builder
// implements (spec §9: replaces ~10 derived templated C++ types with one
// interface plus an ExvModel/DistributionKind combination).
type HistogramManager interface {
	// Calculate returns only the atom-atom histogram (the set's Aa).
	Calculate(mol *Molecule) (*Distribution1D, error)
	// CalculateAll returns every partial the manager produces.
	CalculateAll(mol *Molecule) (*PartialHistogramSet, error)
	// Kind reports whether this manager's partials carry weighted bins.
	Kind() DistributionKind
	// Exv reports the excluded-volume treatment this manager applies.
	Exv() ExvModel
}

// blockSize is the per-thread job granularity for the O(N²) pair driver
// (spec §4.2 "~8k atoms each").
const blockSize = 8192

type blockPair struct{ j, k int } // block index ranges [j*blockSize, ...) x [k*blockSize, ...)

func blockPairs(n int) []blockPair {
	nb := (n + blockSize - 1) / blockSize
	if nb == 0 {
		return nil
	}
	pairs := make([]blockPair, 0, nb*(nb+1)/2)
	for j := 0; j < nb; j++ {
		for k := j; k < nb; k++ {
			pairs = append(pairs, blockPair{j, k})
		}
	}
	return pairs
}

func blockRange(block, n int) (lo, hi int) {
	lo = block * blockSize
	hi = lo + blockSize
	if hi > n {
		hi = n
	}
	return
}

// pairwiseSelf drives the O(N²) self-interaction loop over cc (pairs
// i<j only; callers add the bin-0 self contribution), splitting the block-pair list
// statically across Threads() goroutines and combining the per-thread
// accumulators with a fixed-topology TreeReduce (spec §4.2 driver
// algorithm, §5 "fixed topology, not a free-for-all fetch_add").
//
// Grounded on inmap run.go's Calculations(): a fixed goroutine count,
// each owning a strided slice of the work list, joined by a
// WaitGroup — generalized here from "one cell per slice slot" to "one
// block-pair per slice slot".
func pairwiseSelf[A any](cc *CompactCoordinates, newAccum func() A, accumulate func(a A, i, j int, dist, weight float32, ti, tj uint8), combine func(a, b A) A) A {
	n := cc.Len()
	pairs := blockPairs(n)
	nThreads := Threads()
	if nThreads > len(pairs)+1 {
		nThreads = len(pairs) + 1
	}
	if nThreads < 1 {
		nThreads = 1
	}
	locals := make([]A, nThreads)
	for t := range locals {
		locals[t] = newAccum()
	}
	Dispatch(func(t, total int) {
		if t >= nThreads {
			return
		}
		acc := locals[t]
		for idx := t; idx < len(pairs); idx += nThreads {
			p := pairs[idx]
			jlo, jhi := blockRange(p.j, n)
			klo, khi := blockRange(p.k, n)
			for i := jlo; i < jhi; i++ {
				start := klo
				if p.j == p.k && start <= i {
					start = i + 1
				}
				for j := start; j < khi; j++ {
					dist, w := cc.EvalPair(i, j)
					accumulate(acc, i, j, dist, w, cc.Type[i], cc.Type[j])
				}
			}
		}
		locals[t] = acc
	})
	if nThreads == 1 {
		return locals[0]
	}
	return TreeReduce(locals, combine)
}

// pairwiseCross drives the O(N*M) cross-interaction loop between a and
// b (distinct atom sets, e.g. atom-water), using the same block/thread
// partition strategy as pairwiseSelf.
func pairwiseCross[A any](a, b *CompactCoordinates, newAccum func() A, accumulate func(acc A, ai, bi int, dist, weight float32, ta, tb uint8), combine func(x, y A) A) A {
	na, nb := a.Len(), b.Len()
	nba := (na + blockSize - 1) / blockSize
	nbb := (nb + blockSize - 1) / blockSize
	type pr struct{ j, k int }
	pairs := make([]pr, 0, nba*nbb)
	for j := 0; j < nba; j++ {
		for k := 0; k < nbb; k++ {
			pairs = append(pairs, pr{j, k})
		}
	}
	nThreads := Threads()
	if nThreads > len(pairs)+1 {
		nThreads = len(pairs) + 1
	}
	if nThreads < 1 {
		nThreads = 1
	}
	locals := make([]A, nThreads)
	for t := range locals {
		locals[t] = newAccum()
	}
	Dispatch(func(t, total int) {
		if t >= nThreads {
			return
		}
		acc := locals[t]
		for idx := t; idx < len(pairs); idx += nThreads {
			p := pairs[idx]
			alo, ahi := blockRange(p.j, na)
			blo, bhi := blockRange(p.k, nb)
			for i := alo; i < ahi; i++ {
				for j := blo; j < bhi; j++ {
					dx := a.X[i] - b.X[j]
					dy := a.Y[i] - b.Y[j]
					dz := a.Z[i] - b.Z[j]
					dist := float32(math.Sqrt(float64(dx*dx + dy*dy + dz*dz)))
					w := a.W[i] * b.W[j]
					accumulate(acc, i, j, dist, w, a.Type[i], b.Type[j])
				}
			}
		}
		locals[t] = acc
	})
	if nThreads == 1 {
		return locals[0]
	}
	return TreeReduce(locals, combine)
}

// PartialHistogramSet holds the distance-space partial histograms a
// HistogramManager produces (spec §3). Not every manager populates
// every field: ExvNone leaves Ax/Xx/Wx nil.
type PartialHistogramSet struct {
	Aa *Distribution1D // atom-atom
	Aw *Distribution1D // atom-water
	Ww *Distribution1D // water-water
	Ax *Distribution1D // atom-excluded volume
	Xx *Distribution1D // excluded volume-excluded volume
	Wx *Distribution1D // water-excluded volume

	// Per-body partials, keyed by body uid, used by the partial cache
	// (partialcache.go) for invalidation and by the S2/S3/S5 test
	// scenarios for cache-correctness checks.
	SelfByBody map[string]*Distribution1D
	SelfWater  *Distribution1D
	CrossByPair map[[2]string]*Distribution1D
	HydrationByBody map[string]*Distribution1D

	// ByTypeAA holds the per-(type,type) atom-atom histograms produced
	// by FFExplicitManager; nil for managers that
	// fold form factors into a scalar weight instead (spec §9).
	ByTypeAA *ByType

	Kind DistributionKind
	Exv  ExvModel
}

func newPartialHistogramSet(kind DistributionKind, exv ExvModel, nbins int, binWidth float64) *PartialHistogramSet {
	newDist := func() *Distribution1D { return NewDistribution1D(nbins, binWidth) }
	p := &PartialHistogramSet{
		Aa: newDist(), Aw: newDist(), Ww: newDist(),
		SelfByBody:      make(map[string]*Distribution1D),
		CrossByPair:     make(map[[2]string]*Distribution1D),
		HydrationByBody: make(map[string]*Distribution1D),
		Kind:            kind,
		Exv:             exv,
	}
	if exv != ExvNone {
		p.Ax, p.Xx, p.Wx = newDist(), newDist(), newDist()
	}
	return p
}
