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
// Package random supplies the random values used by emulated devices, such
// as the ID bytes of a fresh RFID card.
//
// Values are seeded from the virtual clock, so two buses running in step see
// the same values. ZeroSeed removes the per-process seed, which makes the
// sequence repeatable between runs.
package random
