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

package random

import (
	"math/rand"
	"time"
)

// the base seed for all random numbers
var baseSeed int64

// initialise base seed
func init() {
	baseSeed = int64(time.Now().Nanosecond())
}

// Clock is the source of virtual time for the Random type.
type Clock interface {
	Now() uint64
}

// Random is a random number generator that is sensitive to time within the
// emulation.
type Random struct {
	clk Clock

	// use zero seed rather than the random base seed. this is only really
	// useful for normalised instances where random numbers must be predictable
	ZeroSeed bool

	// number of values produced since the virtual clock last changed. this
	// means that successive calls at the same virtual time return different
	// values
	last  uint64
	count int64
}

// NewRandom is the preferred method of initialisation for the Random type. A
// nil Clock is allowed, in which case the virtual time is always zero.
func NewRandom(clk Clock) *Random {
	return &Random{
		clk: clk,
	}
}

// SetClock changes the source of virtual time.
func (rnd *Random) SetClock(clk Clock) {
	rnd.clk = clk
	rnd.last = 0
	rnd.count = 0
}

// new RNG from the standard library
func (rnd *Random) rand() *rand.Rand {
	var now uint64
	if rnd.clk != nil {
		now = rnd.clk.Now()
	}

	if now != rnd.last {
		rnd.last = now
		rnd.count = 0
	}
	rnd.count++

	seed := int64(now)*31 + rnd.count
	if !rnd.ZeroSeed {
		seed += baseSeed
	}
	return rand.New(rand.NewSource(seed))
}

// Intn returns a non-negative random number in the half-open interval [0,n)
func (rnd *Random) Intn(n int) int {
	return rnd.rand().Intn(n)
}

// Byte returns a random byte value
func (rnd *Random) Byte() uint8 {
	return uint8(rnd.rand().Intn(256))
}
