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

package environment_test

import (
	"strings"
	"testing"

	"github.com/jetsetilly/maplebus/environment"
	"github.com/jetsetilly/maplebus/logger"
	"github.com/jetsetilly/maplebus/test"
)

func TestPermission(t *testing.T) {
	env := environment.NewEnvironment(nil, nil)
	test.ExpectSuccess(t, env.IsLive())
	test.ExpectSuccess(t, env.AllowLogging())

	scratch := environment.NewEnvironment(nil, env.Prefs)
	scratch.Label = environment.Scratch
	test.ExpectFailure(t, scratch.AllowLogging())
	test.ExpectFailure(t, scratch.IsLive())

	log := logger.NewLogger(10)
	log.Log(scratch, "maple", "not logged")
	log.Log(env, "maple", "logged")

	w := &strings.Builder{}
	log.Write(w)
	test.ExpectEquality(t, w.String(), "maple: logged\n")
}

func TestNormalise(t *testing.T) {
	a := environment.NewEnvironment(nil, nil)
	b := environment.NewEnvironment(nil, nil)
	a.Normalise()
	b.Normalise()

	for i := 0; i < 8; i++ {
		test.ExpectEquality(t, a.Random.Byte(), b.Random.Byte())
	}

	test.ExpectEquality(t, a.Prefs.Bus[0].Main.String(), "controller")
}
