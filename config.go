// Copyright © 2026 the AUSAXS authors.
// This file is part of AUSAXS.
//
// AUSAXS is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package ausaxs

import "github.com/spf13/viper"

// EngineConfig is the immutable, fully-validated configuration for one
// computation (spec §6.5, §9: this replaces the original's scattered
// process-wide settings singletons with a single value handed
// explicitly to whatever needs it).
type EngineConfig struct {
	Threads int

	QMin, QMax float64
	NSamples   int
	LogSpaced  bool

	BinWidth float64
	Bins     int

	ExvModel   ExvModel
	GridSurface bool

	WeightedBins bool

	FitCw, FitCx, FitCd, FitCxDW bool
}

// LoadEngineConfig reads and validates configuration from v, following
// the inmaputil convention of unmarshaling one viper.Viper into a
// single config struct with explicit per-field Get calls rather than
// viper's reflection-based Unmarshal (spec §6.5, ambient stack per the
// teacher's inmaputil/config.go).
func LoadEngineConfig(v *viper.Viper) (*EngineConfig, error) {
	c := &EngineConfig{
		Threads:      v.GetInt("threads"),
		QMin:         v.GetFloat64("q_min"),
		QMax:         v.GetFloat64("q_max"),
		NSamples:     v.GetInt("n_samples"),
		LogSpaced:    !v.IsSet("log_spaced") || v.GetBool("log_spaced"),
		BinWidth:     v.GetFloat64("bin_width"),
		Bins:         v.GetInt("bins"),
		WeightedBins: v.GetBool("weighted_bins"),
		GridSurface:  v.GetBool("grid_surface"),
		FitCw:        !v.IsSet("fit_cw") || v.GetBool("fit_cw"),
		FitCx:        v.GetBool("fit_cx"),
		FitCd:        v.GetBool("fit_cd"),
		FitCxDW:      v.GetBool("fit_cx_dw"),
	}

	if c.QMin == 0 {
		c.QMin = 1e-2
	}
	if c.QMax == 0 {
		c.QMax = 0.5
	}
	if c.NSamples == 0 {
		c.NSamples = 1000
	}
	if c.BinWidth == 0 {
		c.BinWidth = DefaultBinWidth
	}
	if c.Bins == 0 {
		c.Bins = DefaultBins
	}
	if c.Threads == 0 {
		c.Threads = 0 // resolved lazily to GOMAXPROCS by the worker pool
	}

	switch v.GetString("histogram_manager") {
	case "", "plain":
		c.ExvModel = ExvNone
	case "ff_avg":
		c.ExvModel = ExvAverage
	case "ff_explicit":
		c.ExvModel = ExvExplicit
	case "ff_grid":
		if c.GridSurface {
			c.ExvModel = ExvGridSurface
		} else {
			c.ExvModel = ExvGrid
		}
	default:
		return nil, &ConfigError{Field: "histogram_manager", Value: v.GetString("histogram_manager"), Msg: "unknown manager name"}
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the cross-field invariants spec §6.5/§7 require.
func (c *EngineConfig) Validate() error {
	if c.QMin < 1e-4 || c.QMin > 0.01 {
		return &ConfigError{Field: "q_min", Value: c.QMin, Msg: "out of [1e-4, 0.01]"}
	}
	if c.QMax < 0.1 || c.QMax > 1.0 {
		return &ConfigError{Field: "q_max", Value: c.QMax, Msg: "out of [0.1, 1.0]"}
	}
	if c.QMin >= c.QMax {
		return &ConfigError{Field: "q_min", Value: c.QMin, Msg: "must be less than q_max"}
	}
	if c.BinWidth <= 0 {
		return &ConfigError{Field: "bin_width", Value: c.BinWidth, Msg: "must be positive"}
	}
	if c.Bins <= 0 {
		return &ConfigError{Field: "bins", Value: float64(c.Bins), Msg: "must be positive"}
	}
	if (c.ExvModel == ExvGrid || c.ExvModel == ExvGridSurface) && !c.WeightedBins {
		return &ConfigError{Field: "weighted_bins", Value: 0, Msg: "grid excluded-volume models require weighted_bins=true"}
	}
	if c.Threads < 0 {
		return &ConfigError{Field: "threads", Value: float64(c.Threads), Msg: "must be non-negative"}
	}
	return nil
}

// QAxisConfig extracts the q-axis portion of this configuration.
func (c *EngineConfig) QAxisConfig() QAxisConfig {
	return QAxisConfig{QMin: c.QMin, QMax: c.QMax, NSamples: c.NSamples, LogSpaced: c.LogSpaced}
}

// NewManager constructs the HistogramManager this configuration
// selects.
func (c *EngineConfig) NewManager(exvRatio float64) HistogramManager {
	switch c.ExvModel {
	case ExvAverage:
		return NewFFAvgManager(c.Bins, c.BinWidth, exvRatio)
	case ExvExplicit:
		return NewFFExplicitManager(c.Bins, c.BinWidth, exvRatio)
	case ExvGrid:
		return NewFFGridManager(c.Bins, c.BinWidth, false)
	case ExvGridSurface:
		return NewFFGridManager(c.Bins, c.BinWidth, true)
	default:
		return NewPlainManager(c.Bins, c.BinWidth)
	}
}
