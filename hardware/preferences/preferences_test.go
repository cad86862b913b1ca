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

package preferences

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jetsetilly/maplebus/test"
)

func TestDefaults(t *testing.T) {
	p := NewTransientPreferences()
	test.ExpectEquality(t, p.Platform.String(), PlatformConsole)
	test.ExpectEquality(t, p.Bus[0].Main.String(), "controller")
	test.ExpectEquality(t, p.Bus[0].Expansion[0].String(), "vmu")
	test.ExpectEquality(t, p.Bus[1].Main.String(), "none")
	test.ExpectEquality(t, p.MaxDescriptors.Get().(int), 4096)
	test.ExpectEquality(t, p.KeyboardLang.Get().(int), KeyboardUS)

	// transient preferences can be saved without error
	test.ExpectSuccess(t, p.Save())
}

func TestValidation(t *testing.T) {
	p := NewTransientPreferences()
	test.ExpectFailure(t, p.Bus[0].Main.Set("vmu"))
	test.ExpectEquality(t, p.Bus[0].Main.String(), "controller")
	test.ExpectSuccess(t, p.Bus[0].Main.Set("lightgun"))
	test.ExpectFailure(t, p.Bus[1].Expansion[1].Set("keyboard"))
	test.ExpectFailure(t, p.JVSBoard.Set("837-00000"))
	test.ExpectFailure(t, p.MaxDescriptors.Set(0))
	test.ExpectFailure(t, p.Platform.Set("handheld"))
}

func TestSaveLoad(t *testing.T) {
	pth := filepath.Join(t.TempDir(), "preferences")

	p, err := newPreferences(pth)
	test.DemandSuccess(t, err)

	// the file is created on first load
	_, err = os.Stat(pth)
	test.ExpectSuccess(t, err)

	test.ExpectSuccess(t, p.Bus[2].Main.Set("keyboard"))
	test.ExpectSuccess(t, p.SwapMSB.Set(true))
	test.ExpectSuccess(t, p.Save())

	d, err := os.ReadFile(pth)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, strings.Contains(string(d), "maple.bus.2.main :: keyboard"))

	q, err := newPreferences(pth)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, q.Bus[2].Main.String(), "keyboard")
	test.ExpectEquality(t, q.SwapMSB.Get().(bool), true)

	q.SetDefaults()
	test.ExpectEquality(t, q.Bus[2].Main.String(), "none")
}
