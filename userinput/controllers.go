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

import (
	"sync"

	"github.com/jetsetilly/maplebus/curated"
	"github.com/jetsetilly/maplebus/hardware/maple/devices"
)

// NumPlayers is the number of players with their own input state.
const NumPlayers = 4

// NoPlayer is the error pattern for an event with an invalid player ID.
const NoPlayer = "userinput: no player %d"

// mouse button bits. active low
const (
	mouseRight  uint8 = 1 << 1
	mouseLeft   uint8 = 1 << 2
	mouseMiddle uint8 = 1 << 3
)

// keyboard modifier bits
const (
	modCtrl  uint8 = 0x01
	modShift uint8 = 0x02
	modAlt   uint8 = 0x04
)

// Controllers keeps track of the input state of every player. Events are
// handled by the GUI goroutine and snapshots are taken by the emulation
// goroutine.
type Controllers struct {
	crit  sync.Mutex
	state [NumPlayers]devices.Input

	// keys held down on the host keyboard, in the order they were pressed
	keys []uint8

	// whether or not the last keyboard event was consumed as controller input
	LastKeyHandled bool
}

// NewControllers is the preferred method of initialisation for the
// Controllers type.
func NewControllers() *Controllers {
	c := &Controllers{}
	for i := range c.state {
		c.state[i] = devices.NeutralInput()
	}
	return c
}

// Input implements the devices.InputSource interface. Relative mouse motion
// is reset once it has been read.
func (c *Controllers) Input(player int) devices.Input {
	c.crit.Lock()
	defer c.crit.Unlock()

	if player < 0 || player >= NumPlayers {
		return devices.NeutralInput()
	}

	in := c.state[player]
	c.state[player].MouseX = 0
	c.state[player].MouseY = 0
	c.state[player].Wheel = 0
	return in
}

// Reset every player to the neutral state.
func (c *Controllers) Reset() {
	c.crit.Lock()
	defer c.crit.Unlock()
	for i := range c.state {
		c.state[i] = devices.NeutralInput()
	}
	c.keys = c.keys[:0]
}

// press clears the active low bits when the button is down and sets them
// otherwise
func press(in *devices.Input, bits uint32, down bool) {
	if down {
		in.KCode &^= bits
	} else {
		in.KCode |= bits
	}
}

func (c *Controllers) player(id int) (*devices.Input, error) {
	if id < 0 || id >= NumPlayers {
		return nil, curated.Errorf(NoPlayer, id)
	}
	return &c.state[id], nil
}

// HandleUserInput updates the input state with the event. Returns true if
// the event is a quit event.
func (c *Controllers) HandleUserInput(ev Event) (bool, error) {
	c.crit.Lock()
	defer c.crit.Unlock()

	var err error

	switch ev := ev.(type) {
	case EventQuit:
		return true, nil
	case EventKeyboard:
		c.keyboard(ev)
	case EventMouseButton:
		c.mouseButton(ev)
	case EventMouseMotion:
		c.mouseMotion(ev)
	case EventMouseWheel:
		c.state[0].Wheel += ev.Delta
	case EventGamepadButton:
		err = c.gamepadButton(ev)
	case EventGamepadDPad:
		err = c.gamepadDPad(ev)
	case EventGamepadThumbstick:
		err = c.gamepadThumbstick(ev)
	case EventGamepadTrigger:
		err = c.gamepadTrigger(ev)
	default:
	}

	return false, err
}

// the controller buttons of the first player on the host keyboard
var keyButtons = map[string]uint32{
	"Up":     devices.DPadUp,
	"Down":   devices.DPadDown,
	"Left":   devices.DPadLeft,
	"Right":  devices.DPadRight,
	"Z":      devices.ButtonA,
	"X":      devices.ButtonB,
	"A":      devices.ButtonX,
	"S":      devices.ButtonY,
	"C":      devices.ButtonC,
	"Return": devices.ButtonStart,

	// arcade coin and test switches
	"5":  devices.ButtonD,
	"F2": devices.DPad2Down,
}

func (c *Controllers) keyboard(ev EventKeyboard) {
	in := &c.state[0]

	switch ev.Mod {
	case KeyModShift:
		in.Shift = modShift
	case KeyModCtrl:
		in.Shift = modCtrl
	case KeyModAlt:
		in.Shift = modAlt
	default:
		in.Shift = 0
	}

	if code, ok := hidCodes[ev.Key]; ok {
		if ev.Down {
			if !ev.Repeat {
				c.keys = appendKey(c.keys, code)
			}
		} else {
			c.keys = removeKey(c.keys, code)
		}

		clear(in.Keys[:])
		copy(in.Keys[:], c.keys)
	}

	c.LastKeyHandled = false
	if ev.Repeat {
		return
	}

	// the triggers are fully pressed or fully released
	switch ev.Key {
	case "Q":
		in.Trigger[devices.TriggerL] = trigger(ev.Down)
		c.LastKeyHandled = true
		return
	case "W":
		in.Trigger[devices.TriggerR] = trigger(ev.Down)
		c.LastKeyHandled = true
		return
	}

	if bits, ok := keyButtons[ev.Key]; ok {
		press(in, bits, ev.Down)
		c.LastKeyHandled = true
	}
}

func trigger(down bool) uint8 {
	if down {
		return 0xff
	}
	return 0x00
}

func appendKey(keys []uint8, code uint8) []uint8 {
	for _, k := range keys {
		if k == code {
			return keys
		}
	}
	return append(keys, code)
}

func removeKey(keys []uint8, code uint8) []uint8 {
	for i, k := range keys {
		if k == code {
			return append(keys[:i], keys[i+1:]...)
		}
	}
	return keys
}

// the mouse also drives the light gun of the first player. the left button
// is the trigger and the right button reloads
func (c *Controllers) mouseButton(ev EventMouseButton) {
	in := &c.state[0]

	var bit uint8
	switch ev.Button {
	case MouseButtonLeft:
		bit = mouseLeft
		press(in, devices.ButtonA, ev.Down)
	case MouseButtonRight:
		bit = mouseRight
		press(in, devices.ButtonReload, ev.Down)
	case MouseButtonMiddle:
		bit = mouseMiddle
	default:
		return
	}

	if ev.Down {
		in.MouseButtons &^= bit
	} else {
		in.MouseButtons |= bit
	}
}

func (c *Controllers) mouseMotion(ev EventMouseMotion) {
	in := &c.state[0]
	in.MouseX += ev.DX
	in.MouseY += ev.DY
	in.AbsX = ev.X
	in.AbsY = ev.Y
}

var padButtons = map[GamepadButton]uint32{
	GamepadButtonA:             devices.ButtonA,
	GamepadButtonB:             devices.ButtonB,
	GamepadButtonX:             devices.ButtonX,
	GamepadButtonY:             devices.ButtonY,
	GamepadButtonStart:         devices.ButtonStart,
	GamepadButtonBack:          devices.ButtonD,
	GamepadButtonGuide:         devices.DPad2Down,
	GamepadButtonLeftShoulder:  devices.ButtonZ,
	GamepadButtonRightShoulder: devices.ButtonC,
}

func (c *Controllers) gamepadButton(ev EventGamepadButton) error {
	in, err := c.player(ev.ID)
	if err != nil {
		return err
	}
	if bits, ok := padButtons[ev.Button]; ok {
		press(in, bits, ev.Down)
	}
	return nil
}

func (c *Controllers) gamepadDPad(ev EventGamepadDPad) error {
	in, err := c.player(ev.ID)
	if err != nil {
		return err
	}

	in.KCode |= devices.DPadUp | devices.DPadDown | devices.DPadLeft | devices.DPadRight

	switch ev.Direction {
	case DPadUp:
		in.KCode &^= devices.DPadUp
	case DPadDown:
		in.KCode &^= devices.DPadDown
	case DPadLeft:
		in.KCode &^= devices.DPadLeft
	case DPadRight:
		in.KCode &^= devices.DPadRight
	case DPadLeftUp:
		in.KCode &^= devices.DPadLeft | devices.DPadUp
	case DPadLeftDown:
		in.KCode &^= devices.DPadLeft | devices.DPadDown
	case DPadRightUp:
		in.KCode &^= devices.DPadRight | devices.DPadUp
	case DPadRightDown:
		in.KCode &^= devices.DPadRight | devices.DPadDown
	}

	return nil
}

// stickToJoy converts the signed SDL axis value to the unsigned form used by
// the controller
func stickToJoy(v int16) uint8 {
	return uint8((int(v) + 0x8000) >> 8)
}

func (c *Controllers) gamepadThumbstick(ev EventGamepadThumbstick) error {
	in, err := c.player(ev.ID)
	if err != nil {
		return err
	}

	x, y := devices.AxisX1, devices.AxisY1
	if ev.Thumbstick == GamepadThumbstickRight {
		x, y = devices.AxisX2, devices.AxisY2
	}

	in.Joy[x] = stickToJoy(ev.Horiz)
	in.Joy[y] = stickToJoy(ev.Vert)
	in.Axes[x] = ev.Horiz
	in.Axes[y] = ev.Vert

	return nil
}

func (c *Controllers) gamepadTrigger(ev EventGamepadTrigger) error {
	in, err := c.player(ev.ID)
	if err != nil {
		return err
	}

	amount := max(ev.Amount, 0)

	t := devices.TriggerL
	if ev.Trigger == GamepadTriggerRight {
		t = devices.TriggerR
	}
	in.Trigger[t] = uint8(amount >> 7)
	in.Axes[4+t] = amount

	return nil
}
