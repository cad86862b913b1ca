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

// DMABus defines the operations required by a DMA engine. The RAM type
// implements this interface but other implementations are possible, for
// example for testing.
type DMABus interface {
	// Valid returns true if the entire range beginning at address is backed
	// by memory
	Valid(address uint32, size uint32) bool

	// Read32 returns zero for addresses that are not valid
	Read32(address uint32) uint32

	// ReadWords returns false if the range is not valid
	ReadWords(address uint32, count int) ([]uint32, bool)

	// WriteWords returns false if the range is not valid. Nothing is written
	// in that case
	WriteWords(address uint32, data []uint32) bool
}
