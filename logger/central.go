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
// Package logger keeps a bounded, shared log of tagged entries. A run of
// identical entries is stored once with a repeat count.
//
// Each request carries a Permission. A bus environment is a Permission, which
// lets scratch buses stay quiet without every call site checking.
package logger

import "io"

// the shared log
var central = NewLogger(256)

// Log adds detail to the shared log under tag.
func Log(perm Permission, tag string, detail any) {
	central.Log(perm, tag, detail)
}

// Logf is the formatted variant of Log.
func Logf(perm Permission, tag string, format string, args ...any) {
	central.Logf(perm, tag, format, args...)
}

// Write copies the shared log to output.
func Write(output io.Writer) {
	central.Write(output)
}

// SetEcho copies every new entry of the shared log to output. A nil output
// turns echoing off.
func SetEcho(output io.Writer, writeCurrent bool) {
	central.SetEcho(output, writeCurrent)
}
