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

// Package poller drives the Maple bus the way a console BIOS does. Once per
// frame a descriptor list is written to memory and the bus is triggered by
// the vblank. The list identifies each newly connected device with a
// DeviceRequest and then reads its condition with GetCondition on every
// following frame.
//
// The poller owns the memory, the virtual clock and the bus. It is the
// minimal system needed to exercise the devices outside of an emulator.
package poller
