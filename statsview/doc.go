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
// Package statsview serves charts of the Go runtime (heap, goroutines, GC
// pauses) while a bus is polling. It is useful for spotting allocations in
// the DMA path during long runs.
//
// The server only exists in builds with the statsview tag. The charts are at
// /debug/statsview and the pprof pages at /debug/pprof/ on the chosen
// address.
package statsview

// DefaultAddress is a suggested address for the server.
const DefaultAddress = "localhost:12600"
