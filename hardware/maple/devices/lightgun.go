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

var lightgunIdent = ident{
	function: codec.FuncLightGun | codec.FuncInput,
	defs:     [3]uint32{0, 0xfe000000, 0},
	area:     0x01,
	name:     "Dreamcast Gun",
	standby:  0x0069,
	max:      0x0120,
}

// LightGun is the Dreamcast light gun. The position of the gun is not part of
// the condition reply. Instead it is reported through the Pointer
// collaborator when the bus is occupied.
type LightGun struct {
	cfg Config
}

// NewLightGun is the preferred method of initialisation for the LightGun type.
func NewLightGun(cfg Config) *LightGun {
	cfg.Normalise()
	return &LightGun{cfg: cfg}
}

// Kind implements the Device interface.
func (g *LightGun) Kind() Kind {
	return KindLightGun
}

// the trigger is the A button. reload is the trigger pulled while the gun is
// pointed off screen
func lightgunButtons(kcode uint32) uint16 {
	kcode = dpadExclusion(kcode)
	if kcode&ButtonReload == 0 {
		kcode &^= ButtonA
	}
	return uint16(kcode | 0xff01)
}

// Dispatch implements the Device interface.
func (g *LightGun) Dispatch(cmd uint8, in []byte) (uint8, []byte) {
	return dispatch(g.cfg.Env, "lightgun", g.dma, cmd, in)
}

func (g *LightGun) dma(cmd uint8, _ *codec.Reader, w *codec.Writer) uint8 {
	switch cmd {
	case codec.DeviceRequest, codec.AllStatusReq:
		return lightgunIdent.write(cmd, w)

	case codec.GetCondition:
		in := g.cfg.Input.Input(g.cfg.Player)
		w.W32(codec.FuncInput)
		w.W16(lightgunButtons(in.KCode))
		w.W16(0)
		w.W32(0x80808080)
		return codec.DataTransfer

	case codec.DeviceReset, codec.DeviceKill:
		return codec.DeviceReply
	}

	return unknown(g.cfg.Env, "lightgun", cmd)
}

// Occupy implements the Occupier interface. The position is off screen while
// reload is held.
func (g *LightGun) Occupy() bool {
	in := g.cfg.Input.Input(g.cfg.Player)
	if in.KCode&ButtonReload == 0 {
		g.cfg.Pointer.LightgunPosition(-1, -1)
	} else {
		g.cfg.Pointer.LightgunPosition(in.AbsX, in.AbsY)
	}
	return true
}

// Serialize implements the Device interface.
func (g *LightGun) Serialize(_ *savestate.Serializer) {
}

// Deserialize implements the Device interface.
func (g *LightGun) Deserialize(_ *savestate.Deserializer) {
}

// Destroy implements the Device interface.
func (g *LightGun) Destroy() {
}
