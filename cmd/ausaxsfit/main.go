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

// Command ausaxsfit is a command-line interface for fitting a SAXS
// scattering profile against an in-memory molecule.
package main

import (
	"fmt"
	"os"

	"github.com/AUSAXS/AUSAXS-sub010/internal/cmd"
)

func main() {
	if err := cmd.RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
