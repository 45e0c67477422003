// Copyright © 2026 the AUSAXS authors.
// This file is part of AUSAXS.
//
// AUSAXS is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package ausaxs

import "sort"

// AlignModelToData resamples model onto data's q-grid by linear
// interpolation, dropping any data point whose q falls outside the
// model's covered range entirely (spec §4.6.1's splicing rule: no
// extrapolation, only interpolation). It returns the spliced data and
// model intensity slices (and sigma, if data carries one), all the
// same length and ready for LinearLeastSquares.
func AlignModelToData(data, model *ScatteringProfile) (dataI, modelI, sigma []float64, err error) {
	if err := data.Validate(); err != nil {
		return nil, nil, nil, err
	}
	if err := model.Validate(); err != nil {
		return nil, nil, nil, err
	}
	if model.Len() < 2 {
		return nil, nil, nil, &InputError{Op: "AlignModelToData", Msg: "model needs at least 2 points to interpolate"}
	}

	qLo, qHi := model.Q[0], model.Q[model.Len()-1]
	dataI = make([]float64, 0, data.Len())
	modelI = make([]float64, 0, data.Len())
	var sig []float64
	if data.Err != nil {
		sig = make([]float64, 0, data.Len())
	}

	for i, q := range data.Q {
		if q < qLo || q > qHi {
			continue
		}
		hi := sort.SearchFloat64s(model.Q, q)
		if hi == 0 {
			hi = 1
		}
		if hi >= model.Len() {
			hi = model.Len() - 1
		}
		lo := hi - 1

		t := (q - model.Q[lo]) / (model.Q[hi] - model.Q[lo])
		interp := model.I[lo] + t*(model.I[hi]-model.I[lo])

		dataI = append(dataI, data.I[i])
		modelI = append(modelI, interp)
		if sig != nil {
			sig = append(sig, data.Err[i])
		}
	}

	if len(dataI) < 3 {
		return nil, nil, nil, &InputError{Op: "AlignModelToData", Msg: "fewer than 3 overlapping points after splicing"}
	}
	return dataI, modelI, sig, nil
}
