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

	"gonum.org/v1/gonum/optimize"
)

// FitParam is one of the four scaling parameters a SmartFitter
// explores (spec §4.6.3's table of bounds/defaults).
type FitParam struct {
	Name         string
	Default      float64
	Lo, Hi       float64
}

// DefaultFitParams returns {cw, cx, cd, cx_dw} with the bounds and
// defaults spec §4.6.3 lists.
func DefaultFitParams() []FitParam {
	return []FitParam{
		{Name: "cw", Default: 1.0, Lo: 0, Hi: 10},
		{Name: "cx", Default: 1.0, Lo: 0, Hi: 4},
		{Name: "cd", Default: 0.0, Lo: 0, Hi: 4},
		{Name: "cx_dw", Default: 0.0, Lo: 0, Hi: 4},
	}
}

// LandscapePoint is one evaluated (params, chi2) sample, kept so a
// caller can inspect the explored surface after a fit (spec §4.6.3
// "evaluated_points").
type LandscapePoint struct {
	Params []float64
	Chi2   float64
	Valid  bool
}

// SmartFitResult is the outcome of SmartFitter.Fit.
type SmartFitResult struct {
	Cw, Cx, Cd, CxDW float64
	Linear           *LinearFitResult
	Landscape        []LandscapePoint
	Evaluations      int
}

// SmartFitter implements the scan-then-refine strategy: a coarse
// uniform scan over cw (the parameter the data is most sensitive to)
// seeds a golden-section bisection for cw alone, and the result then
// seeds a joint Nelder-Mead simplex refinement over every active
// parameter (spec §4.6.3). A non-finite χ² at any evaluation marks
// that point invalid without aborting the search (spec §7 "failed
// evaluations are recorded, not fatal").
type SmartFitter struct {
	Data    *ScatteringProfile
	Hist    *CompositeDistanceHistogram
	Debye   *DebyeTransform
	Params  []FitParam // which of {cw,cx,cd,cx_dw} to optimize; others stay at Default
	ScanSteps int
	Tol       float64
	MaxEvals  int
}

// NewSmartFitter builds a fitter with spec §4.6.3's defaults: 25 scan
// steps, tolerance 1e-6, and a 1000-evaluation budget.
func NewSmartFitter(data *ScatteringProfile, hist *CompositeDistanceHistogram, debye *DebyeTransform, params []FitParam) *SmartFitter {
	if params == nil {
		params = DefaultFitParams()
	}
	return &SmartFitter{Data: data, Hist: hist, Debye: debye, Params: params, ScanSteps: 25, Tol: 1e-6, MaxEvals: 1000}
}

func (f *SmartFitter) paramValue(name string) float64 {
	for _, p := range f.Params {
		if p.Name == name {
			return p.Default
		}
	}
	for _, p := range DefaultFitParams() {
		if p.Name == name {
			return p.Default
		}
	}
	return 0
}

func (f *SmartFitter) evalChi2(cw, cx, cd, cxDW float64) (float64, bool) {
	if err := f.Hist.ApplyWaterScalingFactor(cw); err != nil {
		return math.NaN(), false
	}
	if err := f.Hist.ApplyExcludedVolumeScalingFactor(cx); err != nil {
		return math.NaN(), false
	}
	profile := f.Debye.Transform(f.Hist, cd, cxDW)
	dataI, modelI, sigma, err := AlignModelToData(f.Data, profile)
	if err != nil {
		return math.NaN(), false
	}
	res, err := LinearLeastSquares(dataI, modelI, sigma)
	if err != nil || res.Singular || math.IsNaN(res.Chi2) || math.IsInf(res.Chi2, 0) {
		return math.NaN(), false
	}
	return res.Chi2, true
}

// Fit runs the scan/golden/Nelder-Mead pipeline and returns the best
// parameters found plus the final linear-fit diagnostics.
func (f *SmartFitter) Fit() (*SmartFitResult, error) {
	cwParam := f.findParam("cw")
	cx0 := f.paramValue("cx")
	cd0 := f.paramValue("cd")
	cxDW0 := f.paramValue("cx_dw")

	result := &SmartFitResult{Cw: f.paramValue("cw"), Cx: cx0, Cd: cd0, CxDW: cxDW0}

	if cwParam != nil {
		scan := Scan(func(cw float64) float64 {
			v, ok := f.evalChi2(cw, cx0, cd0, cxDW0)
			result.Evaluations++
			result.Landscape = append(result.Landscape, LandscapePoint{Params: []float64{cw, cx0, cd0, cxDW0}, Chi2: v, Valid: ok})
			if !ok {
				return math.Inf(1)
			}
			return v
		}, cwParam.Lo, cwParam.Hi, f.ScanSteps)

		width := (cwParam.Hi - cwParam.Lo) / float64(f.ScanSteps)
		lo := math.Max(cwParam.Lo, scan.BestX-width)
		hi := math.Min(cwParam.Hi, scan.BestX+width)
		golden := GoldenSectionMinimize(func(cw float64) float64 {
			v, ok := f.evalChi2(cw, cx0, cd0, cxDW0)
			result.Evaluations++
			result.Landscape = append(result.Landscape, LandscapePoint{Params: []float64{cw, cx0, cd0, cxDW0}, Chi2: v, Valid: ok})
			if !ok {
				return math.Inf(1)
			}
			return v
		}, lo, hi, f.Tol, f.MaxEvals-result.Evaluations)
		result.Cw = golden.X
	}

	active := f.Params
	if len(active) > 1 {
		x0 := make([]float64, len(active))
		for i, p := range active {
			switch p.Name {
			case "cw":
				x0[i] = result.Cw
			default:
				x0[i] = p.Default
			}
		}

		fun := func(x []float64) float64 {
			args := map[string]float64{"cw": result.Cw, "cx": cx0, "cd": cd0, "cx_dw": cxDW0}
			for i, p := range active {
				args[p.Name] = clamp(x[i], p.Lo, p.Hi)
			}
			v, ok := f.evalChi2(args["cw"], args["cx"], args["cd"], args["cx_dw"])
			result.Evaluations++
			pt := []float64{args["cw"], args["cx"], args["cd"], args["cx_dw"]}
			result.Landscape = append(result.Landscape, LandscapePoint{Params: pt, Chi2: v, Valid: ok})
			if !ok {
				return math.Inf(1)
			}
			return v
		}

		problem := optimize.Problem{Func: fun}
		remaining := f.MaxEvals - result.Evaluations
		if remaining < 1 {
			remaining = 1
		}
		settings := &optimize.Settings{
			FuncEvaluations: remaining,
		}
		res, _ := optimize.Minimize(problem, x0, settings, &optimize.NelderMead{})
		if res != nil {
			for i, p := range active {
				v := clamp(res.X[i], p.Lo, p.Hi)
				switch p.Name {
				case "cw":
					result.Cw = v
				case "cx":
					result.Cx = v
				case "cd":
					result.Cd = v
				case "cx_dw":
					result.CxDW = v
				}
			}
		}
	}

	if err := f.Hist.ApplyWaterScalingFactor(result.Cw); err != nil {
		return nil, err
	}
	if err := f.Hist.ApplyExcludedVolumeScalingFactor(result.Cx); err != nil {
		return nil, err
	}
	profile := f.Debye.Transform(f.Hist, result.Cd, result.CxDW)
	dataI, modelI, sigma, err := AlignModelToData(f.Data, profile)
	if err != nil {
		return nil, err
	}
	linear, err := LinearLeastSquares(dataI, modelI, sigma)
	if err != nil {
		return nil, err
	}
	result.Linear = linear
	return result, nil
}

func (f *SmartFitter) findParam(name string) *FitParam {
	for i := range f.Params {
		if f.Params[i].Name == name {
			return &f.Params[i]
		}
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
