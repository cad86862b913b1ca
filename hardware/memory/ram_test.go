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

package memory_test

import (
	"strings"
	"testing"

	"github.com/jetsetilly/maplebus/hardware/memory"
	"github.com/jetsetilly/maplebus/test"
)

func TestValid(t *testing.T) {
	ram := memory.NewRAM()

	test.ExpectSuccess(t, ram.Valid(memory.Origin, 4))
	test.ExpectSuccess(t, ram.Valid(0x8c010000, 4))
	test.ExpectSuccess(t, ram.Valid(0x0fffff00, 0x100))

	// area 0 is not RAM
	test.ExpectFailure(t, ram.Valid(0x00000000, 4))

	// crossing the end of a mirror
	test.ExpectFailure(t, ram.Valid(0x0cfffffe, 4))
}

func TestMirrors(t *testing.T) {
	ram := memory.NewRAM()

	test.ExpectSuccess(t, ram.Write32(0x0c001000, 0x12345678))
	test.ExpectEquality(t, ram.Read32(0x0d001000), uint32(0x12345678))
	test.ExpectEquality(t, ram.Read32(0xac001000), uint32(0x12345678))

	// little endian
	v, ok := ram.Peek(0x0c001000)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, v, uint8(0x78))

	test.ExpectEquality(t, ram.Read32(0x04000000), uint32(0))
	test.ExpectFailure(t, ram.Write32(0x04000000, 1))
}

func TestWords(t *testing.T) {
	ram := memory.NewRAM()

	test.ExpectSuccess(t, ram.WriteWords(0x0c000100, []uint32{1, 2, 3}))
	d, ok := ram.ReadWords(0x0c000100, 3)
	test.DemandSuccess(t, ok)
	test.DemandEquality(t, len(d), 3)
	test.ExpectEquality(t, d[0], uint32(1))
	test.ExpectEquality(t, d[2], uint32(3))

	_, ok = ram.ReadWords(0x00000100, 3)
	test.ExpectFailure(t, ok)

	test.ExpectSuccess(t, strings.HasPrefix(ram.Dump(0x0c000100), "           -0"))
	test.ExpectSuccess(t, strings.Contains(ram.Dump(0x0c000100), "0c000100 |  01 00 00 00 02"))
}
