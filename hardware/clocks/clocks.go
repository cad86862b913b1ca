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

// Package clocks defines the constant values that define the speed of the main
// clock in the console and the transfer rates of the Maple bus.
//
// All virtual time in the emulation is measured in cycles of the main CPU
// clock.
package clocks

// SH4 is the frequency of the main CPU clock in Hz.
const SH4 = 200000000

// Second is one second of virtual time measured in SH4 cycles.
const Second = SH4

// Transfer rates of the Maple bus in bytes per second. Data sent to the
// devices is faster than data returned from them.
const (
	MapleIn  = 2000000 / 8
	MapleOut = 740000 / 8
)

// CyclesForXfer returns the number of SH4 cycles required to transfer the
// number of bytes at the specified rate (bytes per second).
func CyclesForXfer(bytes uint64, rate uint64) uint64 {
	if rate == 0 {
		return 0
	}
	return SH4 * bytes / rate
}
