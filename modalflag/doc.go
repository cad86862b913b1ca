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

// Package modalflag wraps the flag package of the standard library and adds
// program modes. Each mode has its own set of flags and can have sub-modes of
// its own. The maplebus command uses it like this:
//
//	md := &modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("POLL", "VMU", "JVS")
//	p, err := md.Parse()
//	if p != modalflag.ParseContinue {
//		return err
//	}
//
//	switch md.Mode() {
//	case "VMU":
//		md.NewMode()
//		md.AddSubModes("INFO", "FORMAT")
//		p, err = md.Parse()
//		...
//	}
//
// The first sub-mode in the list is the default and is selected when the
// first argument after the flags does not name a sub-mode. Sub-mode names are
// case insensitive.
//
// Arguments that are neither flags nor a sub-mode are returned by
// RemainingArgs() and GetArg().
//
// A -help flag prints the flags of the current mode and the list of
// sub-modes to the Output writer.
package modalflag
