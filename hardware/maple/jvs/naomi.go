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

package jvs

import "github.com/jetsetilly/maplebus/hardware/maple/devices"

// arcade switch bits. the low sixteen bits are the digital input word for a
// player in the order the JVS protocol sends them
const (
	naomiBtn8    uint32 = 1 << 1
	naomiBtn7    uint32 = 1 << 2
	naomiBtn6    uint32 = 1 << 3
	naomiBtn5    uint32 = 1 << 4
	naomiBtn4    uint32 = 1 << 5
	naomiBtn3    uint32 = 1 << 6
	naomiBtn2    uint32 = 1 << 7
	naomiBtn1    uint32 = 1 << 8
	naomiBtn0    uint32 = 1 << 9
	naomiRight   uint32 = 1 << 10
	naomiLeft    uint32 = 1 << 11
	naomiDown    uint32 = 1 << 12
	naomiUp      uint32 = 1 << 13
	naomiService uint32 = 1 << 14
	naomiStart   uint32 = 1 << 15
	naomiTest    uint32 = 1 << 16
	naomiCoin    uint32 = 1 << 17
	naomiReload  uint32 = 1 << 18
)

// buttonMapping maps each bit of the controller key code to an arcade switch.
var buttonMapping = [...]uint32{
	naomiBtn2,    // C
	naomiBtn1,    // B
	naomiBtn0,    // A
	naomiStart,   // Start
	naomiUp,      // DPad up
	naomiDown,    // DPad down
	naomiLeft,    // DPad left
	naomiRight,   // DPad right
	naomiBtn5,    // Z
	naomiBtn4,    // Y
	naomiBtn3,    // X
	naomiCoin,    // D
	naomiService, // DPad2 up
	naomiTest,    // DPad2 down
	naomiBtn6,    // DPad2 left
	naomiBtn7,    // DPad2 right
	naomiReload,  // Reload
	naomiBtn8,
}

// arcadeButtons converts an active-low controller key code to the active-high
// arcade switch word. Opposite directions pressed together are both released.
func arcadeButtons(kcode uint32) uint32 {
	var b uint32
	for i, m := range buttonMapping {
		if kcode&(1<<i) == 0 {
			b |= m
		}
	}
	if b&(naomiUp|naomiDown) == naomiUp|naomiDown {
		b &^= naomiUp | naomiDown
	}
	if b&(naomiLeft|naomiRight) == naomiLeft|naomiRight {
		b &^= naomiLeft | naomiRight
	}
	return b
}

// the arcade switch word for every player.
func readButtons(input devices.InputSource) [4]uint32 {
	var b [4]uint32
	for p := range b {
		b[p] = arcadeButtons(input.Input(p).KCode)
	}
	return b
}
