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

// Package sdlinput reads host keyboard, mouse and game controller events
// with SDL and forwards them to the userinput package. It also drives the
// rumble motors of the game controllers for the vibration pack.
//
// SDL requires that events are polled by the main thread. Service() should
// be called once per frame by the main loop.
package sdlinput

import (
	"math"

	"github.com/jetsetilly/maplebus/curated"
	"github.com/jetsetilly/maplebus/hardware/maple/devices"
	"github.com/jetsetilly/maplebus/logger"
	"github.com/jetsetilly/maplebus/userinput"
	"github.com/veandco/go-sdl2/sdl"
)

// the size of the emulated screen. mouse positions are scaled to this size
// for the light gun
const (
	screenWidth  = 640
	screenHeight = 480
)

// Input polls SDL for input events.
type Input struct {
	perm logger.Permission
	ctrl *userinput.Controllers

	// game controllers in player order
	pads []*sdl.GameController

	// window used to scale mouse positions. may be nil
	window *sdl.Window
}

// NewInput initialises the SDL game controller subsystem and opens every
// attached game controller. The first controller is the first player.
func NewInput(perm logger.Permission, ctrl *userinput.Controllers) (*Input, error) {
	err := sdl.InitSubSystem(sdl.INIT_GAMECONTROLLER | sdl.INIT_JOYSTICK | sdl.INIT_EVENTS | sdl.INIT_HAPTIC)
	if err != nil {
		return nil, curated.Errorf("sdlinput: %v", err)
	}

	inp := &Input{
		perm: perm,
		ctrl: ctrl,
	}

	for i := 0; i < sdl.NumJoysticks(); i++ {
		if !sdl.IsGameController(i) {
			continue
		}
		pad := sdl.GameControllerOpen(i)
		if pad == nil || !pad.Attached() {
			continue
		}
		logger.Logf(perm, "sdlinput", "player %d: %s", len(inp.pads), pad.Name())
		inp.pads = append(inp.pads, pad)
	}

	if len(inp.pads) == 0 {
		logger.Log(perm, "sdlinput", "no game controllers found")
	}

	return inp, nil
}

// SetWindow sets the window used to scale mouse positions.
func (inp *Input) SetWindow(w *sdl.Window) {
	inp.window = w
}

// Destroy closes the game controllers.
func (inp *Input) Destroy() {
	for _, pad := range inp.pads {
		pad.Close()
	}
	inp.pads = nil
	sdl.QuitSubSystem(sdl.INIT_GAMECONTROLLER | sdl.INIT_JOYSTICK | sdl.INIT_HAPTIC)
}

// player returns the player number for the SDL joystick instance. returns -1
// if the instance is not one of the opened controllers
func (inp *Input) player(which sdl.JoystickID) int {
	for i, pad := range inp.pads {
		if pad.Joystick().InstanceID() == which {
			return i
		}
	}
	return -1
}

// Service polls all pending SDL events. Returns true if a quit event was
// received.
func (inp *Input) Service() bool {
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		uev := inp.translate(ev)
		if uev == nil {
			continue
		}

		quit, err := inp.ctrl.HandleUserInput(uev)
		if err != nil {
			logger.Log(inp.perm, "sdlinput", err)
		}
		if quit {
			return true
		}
	}
	return false
}

func (inp *Input) translate(ev sdl.Event) userinput.Event {
	switch ev := ev.(type) {
	case *sdl.QuitEvent:
		return userinput.EventQuit{}

	case *sdl.KeyboardEvent:
		mod := userinput.KeyModNone
		if ev.Keysym.Mod&sdl.KMOD_LSHIFT == sdl.KMOD_LSHIFT || ev.Keysym.Mod&sdl.KMOD_RSHIFT == sdl.KMOD_RSHIFT {
			mod = userinput.KeyModShift
		} else if ev.Keysym.Mod&sdl.KMOD_LCTRL == sdl.KMOD_LCTRL || ev.Keysym.Mod&sdl.KMOD_RCTRL == sdl.KMOD_RCTRL {
			mod = userinput.KeyModCtrl
		} else if ev.Keysym.Mod&sdl.KMOD_LALT == sdl.KMOD_LALT || ev.Keysym.Mod&sdl.KMOD_RALT == sdl.KMOD_RALT {
			mod = userinput.KeyModAlt
		}
		return userinput.EventKeyboard{
			Key:    sdl.GetScancodeName(ev.Keysym.Scancode),
			Down:   ev.Type == sdl.KEYDOWN,
			Repeat: ev.Repeat != 0,
			Mod:    mod,
		}

	case *sdl.MouseButtonEvent:
		var button userinput.MouseButton
		switch ev.Button {
		case sdl.BUTTON_LEFT:
			button = userinput.MouseButtonLeft
		case sdl.BUTTON_RIGHT:
			button = userinput.MouseButtonRight
		case sdl.BUTTON_MIDDLE:
			button = userinput.MouseButtonMiddle
		default:
			return nil
		}
		return userinput.EventMouseButton{
			Button: button,
			Down:   ev.Type == sdl.MOUSEBUTTONDOWN,
		}

	case *sdl.MouseMotionEvent:
		x, y := inp.scale(ev.X, ev.Y)
		return userinput.EventMouseMotion{
			X: x, Y: y,
			DX: int(ev.XRel), DY: int(ev.YRel),
		}

	case *sdl.MouseWheelEvent:
		var delta int
		if ev.Y > 0 {
			delta++
		} else if ev.Y < 0 {
			delta--
		}
		return userinput.EventMouseWheel{Delta: delta}

	case *sdl.ControllerButtonEvent:
		id := inp.player(ev.Which)
		if id < 0 {
			return nil
		}

		// dpad buttons are handled separately
		if ev.Button >= 11 && ev.Button <= 14 {
			return userinput.EventGamepadDPad{
				ID:        id,
				Direction: dpad(inp.pads[id]),
			}
		}

		button := padButton(ev.Button)
		if button == userinput.GamepadButtonNone {
			return nil
		}
		return userinput.EventGamepadButton{
			ID:     id,
			Button: button,
			Down:   ev.State == 1,
		}

	case *sdl.ControllerAxisEvent:
		id := inp.player(ev.Which)
		if id < 0 {
			return nil
		}
		pad := inp.pads[id]

		switch ev.Axis {
		case 0, 1:
			return userinput.EventGamepadThumbstick{
				ID:         id,
				Thumbstick: userinput.GamepadThumbstickLeft,
				Horiz:      pad.Axis(0),
				Vert:       pad.Axis(1),
			}
		case 2, 3:
			return userinput.EventGamepadThumbstick{
				ID:         id,
				Thumbstick: userinput.GamepadThumbstickRight,
				Horiz:      pad.Axis(2),
				Vert:       pad.Axis(3),
			}
		case 4:
			return userinput.EventGamepadTrigger{ID: id, Trigger: userinput.GamepadTriggerLeft, Amount: ev.Value}
		case 5:
			return userinput.EventGamepadTrigger{ID: id, Trigger: userinput.GamepadTriggerRight, Amount: ev.Value}
		}
	}

	return nil
}

// scale window coordinates to the emulated screen
func (inp *Input) scale(x, y int32) (int, int) {
	if inp.window == nil {
		return int(x), int(y)
	}
	w, h := inp.window.GetSize()
	if w == 0 || h == 0 {
		return -1, -1
	}
	return int(x) * screenWidth / int(w), int(y) * screenHeight / int(h)
}

// button numbers in the SDL game controller layout
func padButton(b uint8) userinput.GamepadButton {
	switch b {
	case 0:
		return userinput.GamepadButtonA
	case 1:
		return userinput.GamepadButtonB
	case 2:
		return userinput.GamepadButtonX
	case 3:
		return userinput.GamepadButtonY
	case 4:
		return userinput.GamepadButtonBack
	case 5:
		return userinput.GamepadButtonGuide
	case 6:
		return userinput.GamepadButtonStart
	case 9:
		return userinput.GamepadButtonLeftShoulder
	case 10:
		return userinput.GamepadButtonRightShoulder
	}
	return userinput.GamepadButtonNone
}

// the dpad direction from the current state of the four dpad buttons
func dpad(pad *sdl.GameController) userinput.DPadDirection {
	return direction(
		pad.Button(11) == 1,
		pad.Button(12) == 1,
		pad.Button(13) == 1,
		pad.Button(14) == 1,
	)
}

func direction(up, down, left, right bool) userinput.DPadDirection {
	switch {
	case left && up:
		return userinput.DPadLeftUp
	case left && down:
		return userinput.DPadLeftDown
	case right && up:
		return userinput.DPadRightUp
	case right && down:
		return userinput.DPadRightDown
	case up:
		return userinput.DPadUp
	case down:
		return userinput.DPadDown
	case left:
		return userinput.DPadLeft
	case right:
		return userinput.DPadRight
	}
	return userinput.DPadCentre
}

// Rumbler returns the force feedback output of the game controller for the
// player. If there is no controller for the player the returned Rumbler does
// nothing.
func (inp *Input) Rumbler(player int) devices.Rumbler {
	r := &rumbler{perm: inp.perm}
	if player >= 0 && player < len(inp.pads) {
		r.pad = inp.pads[player]
	}
	return r
}

type rumbler struct {
	perm logger.Permission
	pad  *sdl.GameController
}

// SetVibration implements the devices.Rumbler interface. The host controller
// can not change power over time so the inclination is ignored.
func (r *rumbler) SetVibration(power float32, _ float32, durationMS uint32) {
	if r.pad == nil {
		return
	}
	lo, hi := motors(power)
	err := r.pad.Rumble(lo, hi, durationMS)
	if err != nil {
		logger.Log(r.perm, "sdlinput", err)
	}
}

// the low frequency motor takes the full power. the high frequency motor is
// used for the upper half of the range
func motors(power float32) (uint16, uint16) {
	power = float32(math.Max(0, math.Min(1, float64(power))))
	lo := uint16(power * math.MaxUint16)
	hi := uint16(math.Max(0, float64(power)-0.5) * 2 * math.MaxUint16)
	return lo, hi
}
