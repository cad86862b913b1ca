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

package clocks_test

import (
	"testing"

	"github.com/jetsetilly/maplebus/hardware/clocks"
	"github.com/jetsetilly/maplebus/test"
)

func TestCyclesForXfer(t *testing.T) {
	// one second worth of data takes one second
	test.ExpectEquality(t, clocks.CyclesForXfer(clocks.MapleIn, clocks.MapleIn), uint64(clocks.Second))

	// 250 bytes at 250000 bytes per second is one millisecond
	test.ExpectEquality(t, clocks.CyclesForXfer(250, clocks.MapleIn), uint64(clocks.SH4/1000))

	test.ExpectEquality(t, clocks.CyclesForXfer(100, 0), uint64(0))
}
