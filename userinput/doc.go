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

// Package userinput turns host input events into the per-player input
// snapshots read by the Maple devices.
//
// The GUI sends events to Controllers.HandleUserInput() as they arrive.
// Controllers implements the devices.InputSource interface so it can be
// given directly to the device configuration.
//
// Keyboard events are used twice. They are mapped to the buttons of the
// first player's controller and they are also recorded as HID key codes for
// an attached keyboard.
package userinput
