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

// Package cmd contains the commands and subcommands for the ausaxsfit
// command-line interface.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const version = "0.1.0"

// configFile specifies the location of the configuration file.
var configFile string

// RootCmd is the main command.
var RootCmd = &cobra.Command{
	Use:   "ausaxsfit",
	Short: "A SAXS scattering-profile calculator and fitter.",
	Long: `ausaxsfit computes theoretical small-angle X-ray scattering profiles
from molecular coordinates and fits them against measured data.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the ausaxsfit version.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("ausaxsfit " + version)
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
	RootCmd.AddCommand(fitCmd)

	RootCmd.PersistentFlags().StringVar(&configFile, "config", "", "configuration file location")
	fitCmd.Flags().Float64("q-min", 0, "minimum scattering vector magnitude (overrides config)")
	fitCmd.Flags().Float64("q-max", 0, "maximum scattering vector magnitude (overrides config)")
	fitCmd.Flags().String("manager", "", "histogram manager: plain, ff_avg, ff_explicit, or ff_grid")
	fitCmd.Flags().Int("threads", 0, "worker thread count (0 = GOMAXPROCS)")
}

// loadConfig builds a viper.Viper from configFile (if set) plus any
// flags bound on cmd, following the inmaputil convention of an
// explicit per-field reader rather than viper's struct-tag Unmarshal.
func loadConfig(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.BindPFlags(cmd.Flags())
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("ausaxsfit: reading config file: %w", err)
		}
	}
	if q := cmd.Flags().Lookup("q-min"); q != nil && q.Changed {
		v.Set("q_min", v.GetFloat64("q-min"))
	}
	if q := cmd.Flags().Lookup("q-max"); q != nil && q.Changed {
		v.Set("q_max", v.GetFloat64("q-max"))
	}
	if m := cmd.Flags().Lookup("manager"); m != nil && m.Changed {
		v.Set("histogram_manager", v.GetString("manager"))
	}
	if t := cmd.Flags().Lookup("threads"); t != nil && t.Changed {
		v.Set("threads", v.GetInt("threads"))
	}
	return v, nil
}
