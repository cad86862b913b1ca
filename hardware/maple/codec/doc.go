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

// Package codec is the binary layout of the Maple bus. It covers the DMA
// descriptor header, the command frame sent to a device and the reply frame
// returned by the device.
//
// A DMA descriptor is made of two header words followed by the command frame:
//
//	word 0     bit 31      last descriptor in the list
//	           bits 16-17  bus (SDCKB occupy only)
//	           bits 8-10   opcode
//	           bits 0-7    number of words in the frame, minus one
//	word 1     destination address of the reply
//	word 2..   command frame
//
// The first word of a command frame is:
//
//	byte 0     command
//	byte 1     recipient
//	byte 2     sender
//	byte 3     number of payload words
//
// The recipient byte carries the bus number in bits 6 and 7 and a port mask
// in bits 0 to 5. The reply frame has the same layout except that the
// recipient and sender bytes are exchanged. Not all devices do this.
//
// Payloads are sequences of little-endian words. The Reader and Writer types
// are bounds-checked cursors over payload bytes. Reading past the end of a
// payload or writing past the capacity of a reply is not fatal. The cursor
// records an OutOfBounds error and the caller can decide what to do with it.
package codec
