// Copyright © 2026 the AUSAXS authors.
// This file is part of AUSAXS.
//
// AUSAXS is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package ausaxs

// CompositeDistanceHistogram combines the raw partials from a
// HistogramManager into a single total distance histogram under a
// pair of scaling factors, without rebuilding any O(N²) partial (spec
// §4.4: "apply_water_scaling_factor/apply_excluded_volume_scaling_factor
// rescale in O(B), never recompute a partial from atom positions").
type CompositeDistanceHistogram struct {
	set *PartialHistogramSet

	cw float64 // water scaling factor, spec §4.6.3 bounds [0,10]
	cx float64 // excluded-volume scaling factor, bounds depend on Exv()
}

// NewCompositeDistanceHistogram wraps a freshly computed partial set
// with unit scaling factors (cw=1, cx=1).
func NewCompositeDistanceHistogram(set *PartialHistogramSet) *CompositeDistanceHistogram {
	return &CompositeDistanceHistogram{set: set, cw: 1, cx: 1}
}

// ApplyWaterScalingFactor sets cw, validating it against spec §4.6.3's
// [0,10] bound.
func (h *CompositeDistanceHistogram) ApplyWaterScalingFactor(cw float64) error {
	if cw < 0 || cw > 10 {
		return &InputError{Op: "ApplyWaterScalingFactor", Value: cw, Msg: "water scaling factor out of [0,10]"}
	}
	h.cw = cw
	return nil
}

// ApplyExcludedVolumeScalingFactor sets cx. The valid range depends on
// the manager's Exv() flavor: ExvNone ignores cx entirely (there is no
// excluded-volume partial to scale), the others accept cx in [0,4]
// per spec §4.6.3.
func (h *CompositeDistanceHistogram) ApplyExcludedVolumeScalingFactor(cx float64) error {
	if h.set.Exv == ExvNone {
		return nil
	}
	if cx < 0 || cx > 4 {
		return &InputError{Op: "ApplyExcludedVolumeScalingFactor", Value: cx, Msg: "excluded-volume scaling factor out of [0,4]"}
	}
	h.cx = cx
	return nil
}

// Total returns cw/cx-rescaled p_aa + 2*cw*p_aw + cw²*p_ww, additionally
// mixing in the excluded-volume partials when present:
// - cx²*p_xx - 2*cx*p_ax - 2*cw*cx*p_wx, following the (a - cx*x + cw*w)²
// expansion of the scattering amplitude (spec §4.4).
func (h *CompositeDistanceHistogram) Total() *Distribution1D {
	s := h.set
	out := s.Aa.Clone()
	if s.Aw != nil {
		aw := s.Aw.Clone()
		aw.Scale(2 * h.cw)
		out.AddOther(aw)
	}
	if s.Ww != nil {
		ww := s.Ww.Clone()
		ww.Scale(h.cw * h.cw)
		out.AddOther(ww)
	}
	if s.Exv != ExvNone {
		if s.Xx != nil {
			xx := s.Xx.Clone()
			xx.Scale(h.cx * h.cx)
			out.AddOther(xx)
		}
		if s.Ax != nil {
			ax := s.Ax.Clone()
			ax.Scale(-2 * h.cx)
			out.AddOther(ax)
		}
		if s.Wx != nil {
			wx := s.Wx.Clone()
			wx.Scale(-2 * h.cw * h.cx)
			out.AddOther(wx)
		}
	}
	return out
}

// Partials returns the underlying unscaled partial set, for callers
// that need individual partials (e.g. the Debye transform, which
// applies form-factor weighting per-partial before any q-space
// summation).
func (h *CompositeDistanceHistogram) Partials() *PartialHistogramSet { return h.set }

// WaterScale returns the currently applied cw.
func (h *CompositeDistanceHistogram) WaterScale() float64 { return h.cw }

// ExvScale returns the currently applied cx.
func (h *CompositeDistanceHistogram) ExvScale() float64 { return h.cx }
