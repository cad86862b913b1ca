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

package modalflag

import (
	"fmt"
	"strings"
)

// help prints the flags and sub-modes of the current mode
func (md *Modes) help() {
	if md.Output == nil {
		return
	}

	var flags strings.Builder
	md.flags.SetOutput(&flags)
	md.flags.PrintDefaults()
	md.flags.SetOutput(nil)

	var b strings.Builder

	if flags.Len() == 0 && len(md.subModes) == 0 && md.additionalHelp == "" {
		b.WriteString("No help available")
		if p := md.Path(); p != "" {
			fmt.Fprintf(&b, " for %s mode", p)
		}
		b.WriteString("\n")
		md.Output.Write([]byte(b.String()))
		return
	}

	if p := md.Path(); p != "" {
		fmt.Fprintf(&b, "Usage for %s mode:\n", p)
	} else {
		b.WriteString("Usage:\n")
	}

	b.WriteString(flags.String())

	if len(md.subModes) > 0 {
		if flags.Len() > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "  sub-modes: %s (default %s)\n", strings.Join(md.subModes, ", "), md.subModes[0])
	}

	if md.additionalHelp != "" {
		fmt.Fprintf(&b, "\n%s\n", md.additionalHelp)
	}

	md.Output.Write([]byte(b.String()))
}
