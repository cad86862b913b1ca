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

package jvs

import (
	"github.com/jetsetilly/maplebus/environment"
	"github.com/jetsetilly/maplebus/hardware/maple/devices"
)

// ChainEntry is a board in a chain preset.
type ChainEntry struct {
	Model       Model
	FirstPlayer int
}

// Chains are the presets selectable with the maple.jvs.board preference.
var Chains = map[string][]ChainEntry{
	// the most common setup
	"837-13551": {
		{Model: Model837_13551},
	},

	// rotary encoder board followed by a regular board
	"837-13938": {
		{Model: Model837_13938},
		{Model: Model837_13551},
	},

	// two regular boards for four players
	"dual": {
		{Model: Model837_13551},
		{Model: Model837_13551, FirstPlayer: 2},
	},

	"837-13844": {
		{Model: Model837_13844},
	},

	"837-13551-4p": {
		{Model: Model837_13551_4P},
	},
}

// DefaultChain is used when the preferred chain is not known.
const DefaultChain = "837-13551"

// NewChain creates the boards of a chain preset. Node IDs are assigned in
// chain order starting from one.
func NewChain(env *environment.Environment, input devices.InputSource, name string) []*Board {
	entries, ok := Chains[name]
	if !ok {
		entries = Chains[DefaultChain]
	}

	boards := make([]*Board, len(entries))
	for i, e := range entries {
		boards[i] = NewBoard(env, input, e.Model, uint8(i+1), e.FirstPlayer)
	}
	return boards
}
