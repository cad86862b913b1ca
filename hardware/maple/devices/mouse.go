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

var mouseIdent = ident{
	function: codec.FuncMouse,
	defs:     [3]uint32{0x00070e00, 0, 0},
	area:     0xff,
	name:     "Emulated Dreamcast Mouse",
	standby:  0x0190,
	max:      0x01f4,
}

// the number of axes in the mouse condition. only the first three are used
const mouseAxes = 8

// Mouse is the Dreamcast mouse.
type Mouse struct {
	cfg Config
}

// NewMouse is the preferred method of initialisation for the Mouse type.
func NewMouse(cfg Config) *Mouse {
	cfg.Normalise()
	return &Mouse{cfg: cfg}
}

// Kind implements the Device interface.
func (m *Mouse) Kind() Kind {
	return KindMouse
}

// movement is sent as an unsigned value centred on 0x200
func mouseAxis(delta int) uint16 {
	return uint16(clamp(delta+0x200, 0, 0x3ff))
}

// Dispatch implements the Device interface.
func (m *Mouse) Dispatch(cmd uint8, in []byte) (uint8, []byte) {
	return dispatch(m.cfg.Env, "mouse", m.dma, cmd, in)
}

func (m *Mouse) dma(cmd uint8, _ *codec.Reader, w *codec.Writer) uint8 {
	switch cmd {
	case codec.DeviceRequest, codec.AllStatusReq:
		return mouseIdent.write(cmd, w)

	case codec.GetCondition:
		in := m.cfg.Input.Input(m.cfg.Player)
		y := in.MouseY
		if m.cfg.Env.Prefs.MouseInvertY.Get().(bool) {
			y = -y
		}

		w.W32(codec.FuncMouse)
		w.W8(in.MouseButtons)
		w.W8(0) // options
		w.W8(0) // overflow
		w.W8(0)

		axes := [mouseAxes]int{in.MouseX, y, in.Wheel}
		for _, a := range axes {
			w.W16(mouseAxis(a))
		}
		return codec.DataTransfer

	case codec.DeviceReset, codec.DeviceKill:
		return codec.DeviceReply
	}

	return unknown(m.cfg.Env, "mouse", cmd)
}

// Serialize implements the Device interface.
func (m *Mouse) Serialize(_ *savestate.Serializer) {
}

// Deserialize implements the Device interface.
func (m *Mouse) Deserialize(_ *savestate.Deserializer) {
}

// Destroy implements the Device interface.
func (m *Mouse) Destroy() {
}
