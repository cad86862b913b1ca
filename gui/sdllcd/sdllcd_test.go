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

package sdllcd

import (
	"testing"

	"github.com/jetsetilly/maplebus/test"
)

func TestExpand(t *testing.T) {
	pixels := make([]byte, 3*depth)
	expand(pixels, []byte{0xff, 0x00, 0x7f})
	test.ExpectBytes(t, pixels[0:depth], colourUnlit[:])
	test.ExpectBytes(t, pixels[depth:depth*2], colourLit[:])
	test.ExpectBytes(t, pixels[depth*2:], colourLit[:])
}
