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

package devices

import "math"

// Button bits of the Input.KCode field. The bits are active low: a pressed
// button is a zero bit.
const (
	ButtonC       uint32 = 1 << 0
	ButtonB       uint32 = 1 << 1
	ButtonA       uint32 = 1 << 2
	ButtonStart   uint32 = 1 << 3
	DPadUp        uint32 = 1 << 4
	DPadDown      uint32 = 1 << 5
	DPadLeft      uint32 = 1 << 6
	DPadRight     uint32 = 1 << 7
	ButtonZ       uint32 = 1 << 8
	ButtonY       uint32 = 1 << 9
	ButtonX       uint32 = 1 << 10
	ButtonD       uint32 = 1 << 11
	DPad2Up       uint32 = 1 << 12
	DPad2Down     uint32 = 1 << 13
	DPad2Left     uint32 = 1 << 14
	DPad2Right    uint32 = 1 << 15
	ButtonReload  uint32 = 1 << 16
	ButtonsMask   uint32 = 0x1ffff
	ReleasedKCode uint32 = 0xffffffff
)

// Indexes into the Input.Joy array.
const (
	AxisX1 = iota
	AxisY1
	AxisX2
	AxisY2
)

// Indexes into the Input.Trigger array.
const (
	TriggerR = iota
	TriggerL
)

// Input is a snapshot of the host input for one player. The snapshot is
// requested from the InputSource when a device is polled and is not retained
// by the device.
type Input struct {
	KCode uint32

	// joysticks and triggers in the unsigned form used by the controller. the
	// centre of a joystick axis is 0x80
	Joy     [4]uint8
	Trigger [2]uint8

	// full range analog axes used by arcade I/O boards. zero is the centre
	Axes [8]int16

	// mouse. the buttons are active low and the movement is relative to the
	// previous snapshot
	MouseButtons uint8
	MouseX       int
	MouseY       int
	Wheel        int

	// absolute screen position of the light gun. negative values mean the gun
	// is pointing off screen
	AbsX int
	AbsY int

	// keyboard modifiers and up to six HID key codes
	Shift uint8
	Keys  [6]uint8
}

// NeutralInput returns an Input with no buttons pressed and all axes centred.
func NeutralInput() Input {
	return Input{
		KCode:        ReleasedKCode,
		Joy:          [4]uint8{0x80, 0x80, 0x80, 0x80},
		MouseButtons: 0xff,
		AbsX:         -1,
		AbsY:         -1,
	}
}

// InputSource supplies Input snapshots. The player number is the bus number
// of the device.
type InputSource interface {
	Input(player int) Input
}

type neutralSource struct{}

func (neutralSource) Input(_ int) Input {
	return NeutralInput()
}

// mutualExclusion releases both directions of a pair if both are pressed.
func mutualExclusion(kcode uint32, mask uint32) uint32 {
	if kcode&mask == 0 {
		kcode |= mask
	}
	return kcode
}

// dpadExclusion applies mutualExclusion to both axes of the first DPAD.
func dpadExclusion(kcode uint32) uint32 {
	kcode = mutualExclusion(kcode, DPadUp|DPadDown)
	return mutualExclusion(kcode, DPadLeft|DPadRight)
}

// dpad2Exclusion applies mutualExclusion to both axes of the second DPAD.
func dpad2Exclusion(kcode uint32) uint32 {
	kcode = mutualExclusion(kcode, DPad2Up|DPad2Down)
	return mutualExclusion(kcode, DPad2Left|DPad2Right)
}

// limitMagnitude scales the stick vector so that its length is no more than
// limit. the stick values are unsigned with a centre of 0x80.
func limitMagnitude(x, y uint8, limit float64) (uint8, uint8) {
	sx := float64(int8(x - 0x80))
	sy := float64(int8(y - 0x80))

	l := math.Hypot(sx, sy)
	if l > limit {
		sx = sx * limit / l
		sy = sy * limit / l
	}

	return uint8(int(math.Round(clampf(sx, -128, 127))) + 0x80), uint8(int(math.Round(clampf(sy, -128, 127))) + 0x80)
}

func clampf(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
