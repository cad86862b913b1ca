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

// Event represents all the different type of events that can occur in the gui.
type Event interface{}

// EventQuit is sent when the gui wants to quit.
type EventQuit struct{}

// KeyMod identifies a keyboard modifier.
type KeyMod int

// List of valid key modifiers.
const (
	KeyModNone KeyMod = iota
	KeyModShift
	KeyModCtrl
	KeyModAlt
)

// EventKeyboard is sent for a key press or release. The key is named in the
// SDL style, for example "Return" or "Left".
type EventKeyboard struct {
	Key    string
	Down   bool
	Repeat bool
	Mod    KeyMod
}

// MouseButton identifies the mouse button.
type MouseButton int

// List of valid MouseButtons.
const (
	MouseButtonNone MouseButton = iota
	MouseButtonLeft
	MouseButtonRight
	MouseButtonMiddle
)

// EventMouseButton is sent for a mouse button press or release.
type EventMouseButton struct {
	Button MouseButton
	Down   bool
}

// EventMouseMotion is sent when the mouse moves. X and Y are the position on
// the emulated screen. DX and DY are the relative motion.
type EventMouseMotion struct {
	X, Y   int
	DX, DY int
}

// EventMouseWheel is sent when the mouse wheel moves.
type EventMouseWheel struct {
	Delta int
}

// GamepadButton identifies a gamepad button.
type GamepadButton int

// List of valid GamepadButtons.
const (
	GamepadButtonNone GamepadButton = iota
	GamepadButtonA
	GamepadButtonB
	GamepadButtonX
	GamepadButtonY
	GamepadButtonStart
	GamepadButtonBack
	GamepadButtonGuide
	GamepadButtonLeftShoulder
	GamepadButtonRightShoulder
)

// EventGamepadButton is sent for a gamepad button press or release. The ID
// is the player number.
type EventGamepadButton struct {
	ID     int
	Button GamepadButton
	Down   bool
}

// DPadDirection indentifies the direction the dpad is being pressed.
type DPadDirection int

// List of valid DPadDirections.
const (
	DPadCentre DPadDirection = iota
	DPadUp
	DPadDown
	DPadLeft
	DPadRight
	DPadLeftUp
	DPadLeftDown
	DPadRightUp
	DPadRightDown
)

// EventGamepadDPad is sent when the gamepad dpad changes.
type EventGamepadDPad struct {
	ID        int
	Direction DPadDirection
}

// GamepadThumbstick identifies the thumbstick.
type GamepadThumbstick int

// List of valid GamepadThumbsticks.
const (
	GamepadThumbstickLeft GamepadThumbstick = iota
	GamepadThumbstickRight
)

// EventGamepadThumbstick is sent when a thumbstick moves. The values are in
// the SDL range with zero in the centre.
type EventGamepadThumbstick struct {
	ID         int
	Thumbstick GamepadThumbstick
	Horiz      int16
	Vert       int16
}

// GamepadTrigger identifies the trigger.
type GamepadTrigger int

// List of valid GamepadTriggers.
const (
	GamepadTriggerLeft GamepadTrigger = iota
	GamepadTriggerRight
)

// EventGamepadTrigger is sent when a trigger moves. The amount is between 0
// and 32767.
type EventGamepadTrigger struct {
	ID      int
	Trigger GamepadTrigger
	Amount  int16
}
