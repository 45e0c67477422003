// Copyright © 2026 the AUSAXS authors.
// This file is part of AUSAXS.
//
// AUSAXS is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package ausaxs

import "math"

// CompactCoordinates is the packed, cache-friendly representation of a
// set of atoms: parallel (x,y,z,w) float32 slices plus a parallel
// form-factor type-tag slice. The packed block is never mutated after
// construction (spec §3); a modified molecule produces a new
// CompactCoordinates rather than an in-place update.
//
// Weighted records the flag passed to NewCompactCoordinates; the pair
// kernels do not read it, and the packed block holds no bin-center data.
type CompactCoordinates struct {
	X, Y, Z  []float32
	W        []float32
	Type     []uint8
	Weighted bool
}

// NewCompactCoordinates packs atoms into a CompactCoordinates block.
// Each packed weight is Atom.EffectiveWeight(), so occupancy is folded
// in here.
func NewCompactCoordinates(atoms []Atom, weighted bool) *CompactCoordinates {
	n := len(atoms)
	cc := &CompactCoordinates{
		X: make([]float32, n), Y: make([]float32, n), Z: make([]float32, n),
		W: make([]float32, n), Type: make([]uint8, n), Weighted: weighted,
	}
	for i, a := range atoms {
		cc.X[i] = float32(a.X)
		cc.Y[i] = float32(a.Y)
		cc.Z[i] = float32(a.Z)
		cc.W[i] = float32(a.EffectiveWeight())
		cc.Type[i] = uint8(a.Type)
	}
	return cc
}

// Len returns the number of packed atoms.
func (cc *CompactCoordinates) Len() int { return len(cc.X) }

// EvalPair evaluates the distance and weight product between atom i and
// atom j. This is the unbatched 1-wide form of the hot-path contract
// (spec §4.1); it never allocates.
func (cc *CompactCoordinates) EvalPair(i, j int) (dist, weight float32) {
	dx := cc.X[i] - cc.X[j]
	dy := cc.Y[i] - cc.Y[j]
	dz := cc.Z[i] - cc.Z[j]
	dist = float32(math.Sqrt(float64(dx*dx + dy*dy + dz*dz)))
	weight = cc.W[i] * cc.W[j]
	return
}

// EvalBatch4 evaluates the distances and weights between atom i and up
// to 4 atoms starting at j0. It writes into out (which must have
// capacity >= 4) and returns the number of valid entries written
// (fewer than 4 only at the tail of a block). The kernel never
// allocates: out is caller-owned.
func (cc *CompactCoordinates) EvalBatch4(i, j0 int, outDist, outWeight *[4]float32) int {
	n := cc.Len()
	count := 0
	for k := 0; k < 4 && j0+k < n; k++ {
		j := j0 + k
		dx := cc.X[i] - cc.X[j]
		dy := cc.Y[i] - cc.Y[j]
		dz := cc.Z[i] - cc.Z[j]
		outDist[k] = float32(math.Sqrt(float64(dx*dx + dy*dy + dz*dz)))
		outWeight[k] = cc.W[i] * cc.W[j]
		count++
	}
	return count
}

// EvalBatch8 is the 8-wide form of EvalBatch4, letting a SIMD-capable
// backend unroll twice as far per call without changing the contract.
func (cc *CompactCoordinates) EvalBatch8(i, j0 int, outDist, outWeight *[8]float32) int {
	n := cc.Len()
	count := 0
	for k := 0; k < 8 && j0+k < n; k++ {
		j := j0 + k
		dx := cc.X[i] - cc.X[j]
		dy := cc.Y[i] - cc.Y[j]
		dz := cc.Z[i] - cc.Z[j]
		outDist[k] = float32(math.Sqrt(float64(dx*dx + dy*dy + dz*dz)))
		outWeight[k] = cc.W[i] * cc.W[j]
		count++
	}
	return count
}
