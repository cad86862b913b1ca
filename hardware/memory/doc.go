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

// Package memory is the system RAM as seen by the Maple DMA engine.
//
// Only the area of the address space that the DMA engine can reach is
// modelled. That is system RAM in area 3 of the physical address space:
//
//	0x0c000000 - 0x0cffffff   system RAM (16MiB)
//	0x0d000000 - 0x0fffffff   mirrors of system RAM
//
// Addresses are physical and the top three bits are ignored, so the
// P1/P2 segment addresses (eg. 0x8c000000) resolve to the same location.
//
// Words are stored little-endian, which is the byte order of the CPU.
package memory
