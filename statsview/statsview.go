// This file is part of Maplebus.
//
// Maplebus is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Maplebus is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Maplebus.  If not, see <https://www.gnu.org/licenses/>.
//go:build statsview

package statsview

import (
	"fmt"
	"io"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// charts are sampled at this interval in milliseconds.
const interval = 500

// Launch starts the server on addr and returns the function that stops it.
func Launch(output io.Writer, addr string) func() {
	viewer.SetConfiguration(
		viewer.WithAddr(addr),
		viewer.WithInterval(interval),
		viewer.WithTheme(viewer.ThemeMacarons),
	)

	mgr := statsview.New()
	go mgr.Start()

	fmt.Fprintf(output, "bus statistics at http://%s/debug/statsview\n", addr)
	return mgr.Stop
}

// Available is true in builds with the statsview tag.
func Available() bool {
	return true
}
