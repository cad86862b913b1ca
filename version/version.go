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

// Package version reports the version of the maplebus command. The number is
// set by the linker for release builds. Other builds report the VCS revision
// recorded by the Go toolchain.
package version

import (
	"runtime/debug"
)

// ApplicationName is used when referring to the application.
const ApplicationName = "Maplebus"

// set with -ldflags "-X github.com/jetsetilly/maplebus/version.number=v0.1.0"
var number string

// Version returns the version string and the revision. Release is true if the
// version is a numbered release.
//
// The version is "unreleased" for a build from a VCS checkout without a
// number and "local" if there is no VCS information, for example with "go
// run". A revision with uncommitted changes is suffixed with "+dirty".
func Version() (version string, revision string, release bool) {
	revision = buildRevision()

	switch {
	case number != "":
		return number, revision, true
	case revision != "":
		return "unreleased", revision, false
	}
	return "local", "", false
}

func buildRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}

	var rev string
	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}

	if rev != "" && dirty {
		rev += "+dirty"
	}
	return rev
}
