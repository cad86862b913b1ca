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

package memory

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Size of system RAM in bytes.
const Size = 16 * 1024 * 1024

// Origin is the first address of system RAM.
const Origin = 0x0c000000

const (
	physicalMask = 0x1fffffff
	mirrorMask   = Size - 1
	area         = 3
)

// RAM is the system RAM of the console.
type RAM struct {
	memory []uint8
}

// NewRAM is the preferred method of initialisation for the RAM type.
func NewRAM() *RAM {
	return &RAM{
		memory: make([]uint8, Size),
	}
}

// Dump returns a hex dump of 16 rows of memory beginning at address.
func (ram *RAM) Dump(address uint32) string {
	s := strings.Builder{}
	s.WriteString("           -0 -1 -2 -3 -4 -5 -6 -7 -8 -9 -A -B -C -D -E -F\n")
	s.WriteString("         ---- -- -- -- -- -- -- -- -- -- -- -- -- -- -- --\n")
	address &= ^uint32(0x0f)
	for y := 0; y < 16; y++ {
		a := address + uint32(y*16)
		s.WriteString(fmt.Sprintf("%08x | ", a))
		for x := uint32(0); x < 16; x++ {
			v, ok := ram.Peek(a + x)
			if ok {
				s.WriteString(fmt.Sprintf(" %02x", v))
			} else {
				s.WriteString(" --")
			}
		}
		s.WriteString("\n")
	}
	return strings.Trim(s.String(), "\n")
}

// resolve returns the offset into the memory slice for the address. the
// boolean is false if the address is not in system RAM
func resolve(address uint32) (uint32, bool) {
	address &= physicalMask
	if (address>>26)&7 != area {
		return 0, false
	}
	return address & mirrorMask, true
}

// Valid implements the DMABus interface.
func (ram *RAM) Valid(address uint32, size uint32) bool {
	if size == 0 {
		size = 1
	}
	start, ok := resolve(address)
	if !ok {
		return false
	}
	end, ok := resolve(address + size - 1)
	if !ok {
		return false
	}

	// the range must not wrap around the end of a mirror
	return end >= start && end-start == size-1
}

// Peek returns the byte at the address.
func (ram *RAM) Peek(address uint32) (uint8, bool) {
	o, ok := resolve(address)
	if !ok {
		return 0, false
	}
	return ram.memory[o], true
}

// Poke sets the byte at the address.
func (ram *RAM) Poke(address uint32, data uint8) bool {
	o, ok := resolve(address)
	if !ok {
		return false
	}
	ram.memory[o] = data
	return true
}

// Read32 implements the DMABus interface.
func (ram *RAM) Read32(address uint32) uint32 {
	if !ram.Valid(address, 4) {
		return 0
	}
	o, _ := resolve(address)
	return binary.LittleEndian.Uint32(ram.memory[o:])
}

// Write32 writes a single word to the address.
func (ram *RAM) Write32(address uint32, data uint32) bool {
	if !ram.Valid(address, 4) {
		return false
	}
	o, _ := resolve(address)
	binary.LittleEndian.PutUint32(ram.memory[o:], data)
	return true
}

// ReadWords implements the DMABus interface.
func (ram *RAM) ReadWords(address uint32, count int) ([]uint32, bool) {
	if count < 0 || !ram.Valid(address, uint32(count*4)) {
		return nil, false
	}
	o, _ := resolve(address)
	d := make([]uint32, count)
	for i := range d {
		d[i] = binary.LittleEndian.Uint32(ram.memory[o+uint32(i*4):])
	}
	return d, true
}

// WriteWords implements the DMABus interface.
func (ram *RAM) WriteWords(address uint32, data []uint32) bool {
	if !ram.Valid(address, uint32(len(data)*4)) {
		return false
	}
	o, _ := resolve(address)
	for i, w := range data {
		binary.LittleEndian.PutUint32(ram.memory[o+uint32(i*4):], w)
	}
	return true
}
