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

package userinput

// USB HID usage codes for the keys sent to the keyboard device. Keys are
// named as they are by SDL.
var hidCodes = map[string]uint8{}

func init() {
	for i, c := range "ABCDEFGHIJKLMNOPQRSTUVWXYZ" {
		hidCodes[string(c)] = uint8(0x04 + i)
	}
	for i, c := range "123456789" {
		hidCodes[string(c)] = uint8(0x1e + i)
	}
	hidCodes["0"] = 0x27

	for i := 0; i < 12; i++ {
		hidCodes[fkey(i+1)] = uint8(0x3a + i)
	}

	for k, v := range map[string]uint8{
		"Return":    0x28,
		"Escape":    0x29,
		"Backspace": 0x2a,
		"Tab":       0x2b,
		"Space":     0x2c,
		"-":         0x2d,
		"=":         0x2e,
		"[":         0x2f,
		"]":         0x30,
		"\\":        0x31,
		";":         0x33,
		"'":         0x34,
		"`":         0x35,
		",":         0x36,
		".":         0x37,
		"/":         0x38,
		"CapsLock":  0x39,
		"Insert":    0x49,
		"Home":      0x4a,
		"PageUp":    0x4b,
		"Delete":    0x4c,
		"End":       0x4d,
		"PageDown":  0x4e,
		"Right":     0x4f,
		"Left":      0x50,
		"Down":      0x51,
		"Up":        0x52,
	} {
		hidCodes[k] = v
	}
}

func fkey(n int) string {
	if n < 10 {
		return "F" + string(rune('0'+n))
	}
	return "F1" + string(rune('0'+n-10))
}
