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

// Package devices contains the peripherals that can be attached to a Maple
// bus. Every peripheral implements the Device interface and is addressed by
// the (bus, port) pair of the slot it occupies.
//
// A device receives the command byte and the payload bytes of a command frame
// and returns a status byte and the reply payload. The payload is read and
// written through the bounds-checked cursors of the codec package. Reads past
// the end of a malformed payload return zero and are logged, they never cause
// the device to fail.
//
// Some devices build the entire reply frame themselves. These implement the
// RawDevice interface. The RFID reader/writer, the passthrough to real
// hardware and the JVS hub (in the jvs package) are raw devices.
//
// Devices talk to the outside world through collaborators supplied in the
// Config type: an InputSource for controller state, Storage for the VMU flash
// image and RFID card data, a Rumbler for the vibration pack, and so on. All
// collaborators are optional. A nil collaborator is replaced by one that does
// nothing.
package devices
