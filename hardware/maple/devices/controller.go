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

import (
	"github.com/jetsetilly/maplebus/hardware/maple/codec"
	"github.com/jetsetilly/maplebus/hardware/maple/savestate"
)

const controllerVersion = "Version 1.010,1998/09/28,315-6211-AB   ,Analog Module : The 4th Edition.5/8  +DF"

// the differences between the controller variants.
type controllerVariant struct {
	ident ident

	// called with the raw kcode from the input snapshot
	transform func(kcode uint32) uint32

	// returns the value for each of the six axis bytes
	axis func(index int, in Input) uint8
}

var controllerVariants = map[Kind]controllerVariant{
	KindController: {
		ident: ident{
			function: codec.FuncInput,
			defs:     [3]uint32{0xfe060f00, 0, 0},
			area:     0xff,
			name:     "Dreamcast Controller",
			standby:  0x01ae,
			max:      0x01f4,
			version:  controllerVersion,
		},
		transform: func(kcode uint32) uint32 {
			// DPAD2, C, D and Z are not present
			return dpadExclusion(kcode) | 0xf901
		},
		axis: standardAxis,
	},
	KindTwinStick: {
		ident: ident{
			function: codec.FuncInput,
			defs:     [3]uint32{0xfefe0000, 0, 0},
			area:     0xff,
			name:     "Twin Stick",
			standby:  0x00dc,
			max:      0x012c,
			version:  controllerVersion,
		},
		transform: func(kcode uint32) uint32 {
			return dpad2Exclusion(dpadExclusion(kcode)) | 0x0101
		},
		axis: centredAxis,
	},
	KindAsciiStick: {
		ident: ident{
			function: codec.FuncInput,
			defs:     [3]uint32{0xff070000, 0, 0},
			area:     0xff,
			name:     "ASCII STICK",
			standby:  0x010e,
			max:      0x0172,
			version:  controllerVersion,
		},
		transform: func(kcode uint32) uint32 {
			return dpadExclusion(kcode) | 0xf800
		},
		axis: centredAxis,
	},
	KindControllerXL: {
		ident: ident{
			function: codec.FuncInput,
			defs:     [3]uint32{0xffff3f00, 0, 0},
			area:     0xff,
			name:     "Dreamcast Controller XL",
			standby:  0x01ae,
			max:      0x01f4,
			version:  controllerVersion,
		},
		transform: func(kcode uint32) uint32 {
			return dpad2Exclusion(dpadExclusion(kcode))
		},
		axis: func(index int, in Input) uint8 {
			switch index {
			case 4:
				x, _ := limitMagnitude(in.Joy[AxisX2], in.Joy[AxisY2], 128)
				return x
			case 5:
				_, y := limitMagnitude(in.Joy[AxisX2], in.Joy[AxisY2], 128)
				return y
			}
			return standardAxis(index, in)
		},
	},
}

// axis bytes 0 and 1 are the triggers, 2 and 3 the joystick.
func standardAxis(index int, in Input) uint8 {
	switch index {
	case 0:
		return in.Trigger[TriggerR]
	case 1:
		return in.Trigger[TriggerL]
	case 2:
		x, _ := limitMagnitude(in.Joy[AxisX1], in.Joy[AxisY1], 128)
		return x
	case 3:
		_, y := limitMagnitude(in.Joy[AxisX1], in.Joy[AxisY1], 128)
		return y
	}
	return 0x80
}

func centredAxis(_ int, _ Input) uint8 {
	return 0x80
}

// Controller is the standard Dreamcast controller and its variants: the twin
// stick, the ASCII arcade stick and the XL controller with six axes.
type Controller struct {
	cfg     Config
	kind    Kind
	variant controllerVariant
}

// NewController is the preferred method of initialisation for the Controller
// type. The kind must be one of KindController, KindTwinStick,
// KindAsciiStick or KindControllerXL.
func NewController(cfg Config, kind Kind) *Controller {
	cfg.Normalise()
	v, ok := controllerVariants[kind]
	if !ok {
		kind = KindController
		v = controllerVariants[kind]
	}
	return &Controller{
		cfg:     cfg,
		kind:    kind,
		variant: v,
	}
}

// Kind implements the Device interface.
func (c *Controller) Kind() Kind {
	return c.kind
}

// Buttons returns the button word that would be sent to the guest for the
// input snapshot.
func (c *Controller) Buttons(in Input) uint16 {
	return uint16(c.variant.transform(in.KCode))
}

// Dispatch implements the Device interface.
func (c *Controller) Dispatch(cmd uint8, in []byte) (uint8, []byte) {
	return dispatch(c.cfg.Env, c.kind.String(), c.dma, cmd, in)
}

func (c *Controller) dma(cmd uint8, _ *codec.Reader, w *codec.Writer) uint8 {
	switch cmd {
	case codec.DeviceRequest, codec.AllStatusReq:
		return c.variant.ident.write(cmd, w)

	case codec.GetCondition:
		in := c.cfg.Input.Input(c.cfg.Player)
		w.W32(codec.FuncInput)
		w.W16(c.Buttons(in))
		for i := 0; i < 6; i++ {
			w.W8(c.variant.axis(i, in))
		}
		return codec.DataTransfer

	case codec.DeviceReset, codec.DeviceKill:
		return codec.DeviceReply
	}

	return unknown(c.cfg.Env, c.kind.String(), cmd)
}

// Serialize implements the Device interface. A controller has no state.
func (c *Controller) Serialize(_ *savestate.Serializer) {
}

// Deserialize implements the Device interface.
func (c *Controller) Deserialize(_ *savestate.Deserializer) {
}

// Destroy implements the Device interface.
func (c *Controller) Destroy() {
}
