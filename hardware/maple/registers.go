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

package maple

import "fmt"

// Registers of the Maple DMA controller.
type Registers struct {
	// start address of the descriptor list
	MDSTAR uint32

	// transfer mode. zero is a software start, one is a start triggered by
	// vblank
	MDTSEL uint32

	// DMA enable
	MDEN uint32

	// DMA start and busy flag
	MDST uint32

	// system control. bit 12 selects the manual reset of the vblank trigger
	MSYS uint32

	// writing bit 0 clears the pending vblank trigger reset
	MSHTCL uint32

	// protected address window. bits 8 to 14 are the bottom of the window
	// and bits 0 to 6 are the top
	MDAPRO uint32

	// payload words are byte swapped when this is zero
	MMSEL uint32
}

func (r Registers) String() string {
	return fmt.Sprintf("MDSTAR=%08x MDTSEL=%d MDEN=%d MDST=%d MSYS=%08x MSHTCL=%d MDAPRO=%04x MMSEL=%d",
		r.MDSTAR, r.MDTSEL, r.MDEN, r.MDST, r.MSYS, r.MSHTCL, r.MDAPRO, r.MMSEL)
}

// reset values
const (
	resetMSYS   = 0x3a980000
	resetMDAPRO = 0x00007f00
)

// the value of the upper half of a MDAPRO write that unlocks the register
const mdaproKey = 0x6155

func (r *Registers) reset(swapMSB bool) {
	*r = Registers{
		MSYS:   resetMSYS,
		MDAPRO: resetMDAPRO,
		MMSEL:  1,
	}
	if swapMSB {
		r.MMSEL = 0
	}
}

// the protected window. addresses outside of area 3 are never inside the
// window
func (r Registers) protected(addr uint32) bool {
	if (addr>>26)&7 != 3 {
		return false
	}
	bottom := ((r.MDAPRO>>8)&0x7f)<<20 | 0x08000000
	top := (r.MDAPRO&0x7f)<<20 | 0x080fffe0
	return addr >= bottom && addr <= top
}
