// Copyright © 2026 the AUSAXS authors.
// This file is part of AUSAXS.
//
// AUSAXS is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package ausaxs

import "math"

// formFactorCoeff holds a 5-Gaussian (Cromer-Mann-style) approximation
// coefficient set, ai/bi plus a constant c, for a single form-factor
// type: f(q) = Σ_i a_i exp(-b_i (q/4π)²) + c. Values below are standard
// literature approximations; what matters for the pipeline is that every
// FormFactorType maps to a smooth, positive, monotonically decreasing
// curve; curves are not normalized, f(0) is the sum of the coefficients.
type formFactorCoeff struct {
	a [5]float64
	b [5]float64
	c float64
}

// formFactorCoeffs is the process-wide, read-only coefficient table
// indexed by FormFactorType.
var formFactorCoeffs = [numFormFactorTypes]formFactorCoeff{
	FFCarbon:         {a: [5]float64{2.31, 1.02, 1.5886, 0.865, 0}, b: [5]float64{20.8439, 10.2075, 0.5687, 51.6512, 0}, c: 0.2156},
	FFCH:             {a: [5]float64{2.31, 1.02, 1.5886, 0.865, 0}, b: [5]float64{20.8439, 10.2075, 0.5687, 51.6512, 0}, c: 1.2156},
	FFCH2:            {a: [5]float64{2.31, 1.02, 1.5886, 0.865, 0}, b: [5]float64{20.8439, 10.2075, 0.5687, 51.6512, 0}, c: 2.2156},
	FFCH3:            {a: [5]float64{2.31, 1.02, 1.5886, 0.865, 0}, b: [5]float64{20.8439, 10.2075, 0.5687, 51.6512, 0}, c: 3.2156},
	FFNitrogen:       {a: [5]float64{12.2126, 3.1322, 2.0125, 1.1663, 0}, b: [5]float64{0.0057, 9.8933, 28.9975, 0.5826, 0}, c: -11.529},
	FFNH:             {a: [5]float64{12.2126, 3.1322, 2.0125, 1.1663, 0}, b: [5]float64{0.0057, 9.8933, 28.9975, 0.5826, 0}, c: -10.529},
	FFNH2:            {a: [5]float64{12.2126, 3.1322, 2.0125, 1.1663, 0}, b: [5]float64{0.0057, 9.8933, 28.9975, 0.5826, 0}, c: -9.529},
	FFNH3:            {a: [5]float64{12.2126, 3.1322, 2.0125, 1.1663, 0}, b: [5]float64{0.0057, 9.8933, 28.9975, 0.5826, 0}, c: -8.529},
	FFOxygen:         {a: [5]float64{3.0485, 2.2868, 1.5463, 0.867, 0}, b: [5]float64{13.2771, 5.7011, 0.3239, 32.9089, 0}, c: 0.2508},
	FFOH:             {a: [5]float64{3.0485, 2.2868, 1.5463, 0.867, 0}, b: [5]float64{13.2771, 5.7011, 0.3239, 32.9089, 0}, c: 1.2508},
	FFSulfur:         {a: [5]float64{6.9053, 5.2034, 1.4379, 1.5863, 0}, b: [5]float64{1.4679, 22.2151, 0.2536, 56.172, 0}, c: 0.8669},
	FFSH:             {a: [5]float64{6.9053, 5.2034, 1.4379, 1.5863, 0}, b: [5]float64{1.4679, 22.2151, 0.2536, 56.172, 0}, c: 1.8669},
	FFOther:          {a: [5]float64{2.31, 1.02, 1.5886, 0.865, 0}, b: [5]float64{20.8439, 10.2075, 0.5687, 51.6512, 0}, c: 0.2156},
	FFExcludedVolume: {a: [5]float64{1, 0, 0, 0, 0}, b: [5]float64{23.5, 0, 0, 0, 0}, c: 0},
}

func (c formFactorCoeff) at(q float64) float64 {
	s := q / (4 * math.Pi)
	v := c.c
	for i := range c.a {
		v += c.a[i] * math.Exp(-c.b[i]*s*s)
	}
	return v
}

// FormFactorTable is the process-wide, read-only lookup of F_i(q_k) and
// F_i(q_k)*F_j(q_k) for a fixed q-axis (spec §2 item 2, §5 "process-wide
// immutable singletons initialized on first use").
type FormFactorTable struct {
	qAxis   []float64
	single  [numFormFactorTypes][]float64
	product [numFormFactorTypes][numFormFactorTypes][]float64
}

// NewFormFactorTable builds the tables for qAxis. Construction is not
// guarded by sync.Once: each call builds a new table scoped to one
// q-axis, and the table is read-only once built.
func NewFormFactorTable(qAxis []float64) *FormFactorTable {
	t := &FormFactorTable{qAxis: qAxis}
	for ty := 0; ty < numFormFactorTypes; ty++ {
		t.single[ty] = make([]float64, len(qAxis))
		for k, q := range qAxis {
			t.single[ty][k] = formFactorCoeffs[ty].at(q)
		}
	}
	for i := 0; i < numFormFactorTypes; i++ {
		for j := 0; j < numFormFactorTypes; j++ {
			t.product[i][j] = make([]float64, len(qAxis))
			for k := range qAxis {
				t.product[i][j][k] = t.single[i][k] * t.single[j][k]
			}
		}
	}
	return t
}

// At returns F_type(q_k).
func (t *FormFactorTable) At(ty FormFactorType, k int) float64 { return t.single[ty][k] }

// Product returns F_t1(q_k) * F_t2(q_k).
func (t *FormFactorTable) Product(t1, t2 FormFactorType, k int) float64 {
	return t.product[t1][t2][k]
}

// DebyeWaller returns the per-atom Debye-Waller attenuation
// exp(-cd*q^2/(8*pi^2)) for B-factor cd at q_k. Applied exactly once,
// inside the Debye transform (spec §9, Open Question c).
func DebyeWaller(cd, q float64) float64 {
	if cd == 0 {
		return 1
	}
	return math.Exp(-cd * q * q / (8 * math.Pi * math.Pi))
}
