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
// Package environment holds what a bus needs from its surroundings but which
// is not the bus itself: preferences and a source of random values.
package environment

import (
	"github.com/jetsetilly/maplebus/hardware/preferences"
	"github.com/jetsetilly/maplebus/random"
)

// Label identifies the purpose of a bus.
type Label string

const (
	// Live is the bus driven by the user.
	Live Label = ""

	// Scratch is a bus built only to be examined, for example to dump a save
	// state. Scratch buses do not log.
	Scratch Label = "scratch"
)

// Environment is shared by every component of one bus. Two buses can share
// preferences but each has its own Environment.
type Environment struct {
	Label  Label
	Random *random.Random
	Prefs  *preferences.Preferences
}

// NewEnvironment is the preferred method of initialisation for the
// Environment type. If prefs is nil the environment gets preferences that
// are never written to disk.
func NewEnvironment(clk random.Clock, prefs *preferences.Preferences) *Environment {
	if prefs == nil {
		prefs = preferences.NewTransientPreferences()
	}
	return &Environment{
		Random: random.NewRandom(clk),
		Prefs:  prefs,
	}
}

// Normalise puts the environment into a repeatable state. Used by tests.
func (env *Environment) Normalise() {
	env.Random.ZeroSeed = true
	env.Prefs.SetDefaults()
}

// AllowLogging implements the logger.Permission interface.
func (env *Environment) AllowLogging() bool {
	return env.Label != Scratch
}

// IsLive is true for the bus driven by the user.
func (env *Environment) IsLive() bool {
	return env.Label == Live
}
