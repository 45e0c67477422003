/*
Copyright © 2026 the AUSAXS authors.
This file is part of AUSAXS.

AUSAXS is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

AUSAXS is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with AUSAXS.  If not, see <http://www.gnu.org/licenses/>.
*/

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AUSAXS/AUSAXS-sub010"
)

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Compute a scattering profile for a molecule and report fit diagnostics.",
	Long: `fit builds the distance histograms for a molecule, applies the Debye
transform across the configured q-axis, and runs the scan/golden/Nelder-Mead
fitter against a supplied or demonstration data profile.`,
	RunE: runFit,
}

func runFit(cmd *cobra.Command, args []string) error {
	v, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg, err := ausaxs.LoadEngineConfig(v)
	if err != nil {
		return err
	}
	if cfg.Threads > 0 {
		ausaxs.SetThreads(cfg.Threads)
	}

	mol, data, err := demonstrationInputs(cfg)
	if err != nil {
		return err
	}

	manager := cfg.NewManager(1.0)
	set, err := manager.CalculateAll(mol)
	if err != nil {
		return fmt.Errorf("ausaxsfit: computing histograms: %w", err)
	}
	hist := ausaxs.NewCompositeDistanceHistogram(set)

	qAxis := cfg.QAxisConfig().Build()
	ffTable := ausaxs.NewFormFactorTable(qAxis)
	debye := ausaxs.NewDebyeTransform(qAxis, ffTable, cfg.Bins, cfg.BinWidth)

	params := ausaxs.DefaultFitParams()
	var active []ausaxs.FitParam
	for _, p := range params {
		switch p.Name {
		case "cw":
			if cfg.FitCw {
				active = append(active, p)
			}
		case "cx":
			if cfg.FitCx {
				active = append(active, p)
			}
		case "cd":
			if cfg.FitCd {
				active = append(active, p)
			}
		case "cx_dw":
			if cfg.FitCxDW {
				active = append(active, p)
			}
		}
	}
	if len(active) == 0 {
		active = []ausaxs.FitParam{params[0]}
	}

	fitter := ausaxs.NewSmartFitter(data, hist, debye, active)
	result, err := fitter.Fit()
	if err != nil {
		return fmt.Errorf("ausaxsfit: fitting: %w", err)
	}

	fmt.Printf("cw=%.4f cx=%.4f cd=%.4f cx_dw=%.4f\n", result.Cw, result.Cx, result.Cd, result.CxDW)
	if result.Linear != nil {
		fmt.Printf("a=%.6g b=%.6g chi2=%.6g dof=%d Q=%.4f\n",
			result.Linear.A, result.Linear.B, result.Linear.Chi2, result.Linear.DoF, result.Linear.Q)
	}
	fmt.Printf("evaluations=%d\n", result.Evaluations)
	return nil
}

// demonstrationInputs builds a small in-memory molecule (a cubic
// lattice of carbon atoms, standing in for a caller-supplied
// structure: parsing structure files is out of scope, spec §1) and a
// synthetic data profile computed from that same molecule at unit
// scaling, so `fit` has something to run end-to-end without any
// file-format parser.
func demonstrationInputs(cfg *ausaxs.EngineConfig) (*ausaxs.Molecule, *ausaxs.ScatteringProfile, error) {
	const side = 4
	const spacing = 1.5
	var atoms []ausaxs.Atom
	for x := 0; x < side; x++ {
		for y := 0; y < side; y++ {
			for z := 0; z < side; z++ {
				atoms = append(atoms, ausaxs.Atom{
					X: float64(x) * spacing, Y: float64(y) * spacing, Z: float64(z) * spacing,
					Weight: 1, Type: ausaxs.FFCarbon, Occupancy: 1,
				})
			}
		}
	}
	body := &ausaxs.Body{UID: "lattice", Atoms: atoms}
	mol, err := ausaxs.NewMolecule([]*ausaxs.Body{body}, nil)
	if err != nil {
		return nil, nil, err
	}

	manager := cfg.NewManager(1.0)
	set, err := manager.CalculateAll(mol)
	if err != nil {
		return nil, nil, fmt.Errorf("ausaxsfit: computing demonstration histogram: %w", err)
	}
	hist := ausaxs.NewCompositeDistanceHistogram(set)

	qAxis := cfg.QAxisConfig().Build()
	ffTable := ausaxs.NewFormFactorTable(qAxis)
	debye := ausaxs.NewDebyeTransform(qAxis, ffTable, cfg.Bins, cfg.BinWidth)
	profile := debye.Transform(hist, 0, 0)

	return mol, &ausaxs.ScatteringProfile{Q: profile.Q, I: profile.I}, nil
}
