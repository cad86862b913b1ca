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

// Package jvs implements the arcade I/O hub found on bus A of the NAOMI. The
// hub (the MIE) tunnels the JVS serial protocol inside Maple command frames.
// Requests are relayed to a chain of I/O boards and the replies are buffered
// per channel until the guest asks for them.
//
// The Hub type implements the devices.RawDevice interface because a single
// command can produce more than one reply frame.
//
// The Board type is a single JVS I/O board. Board models differ only in the
// features they report and in the number of inputs of each type.
package jvs
