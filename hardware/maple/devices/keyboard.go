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
	"github.com/jetsetilly/maplebus/hardware/preferences"
)

// Keyboard is the Dreamcast keyboard.
type Keyboard struct {
	cfg Config
}

// NewKeyboard is the preferred method of initialisation for the Keyboard
// type.
func NewKeyboard(cfg Config) *Keyboard {
	cfg.Normalise()
	return &Keyboard{cfg: cfg}
}

// Kind implements the Device interface.
func (k *Keyboard) Kind() Kind {
	return KindKeyboard
}

func (k *Keyboard) ident() ident {
	lang := k.cfg.Env.Prefs.KeyboardLang.Get().(int)

	var keys uint32
	switch lang {
	case preferences.KeyboardJP:
		keys = 2 // 92 keys
	case preferences.KeyboardUS:
		keys = 5 // 104 keys
	default:
		keys = 6 // 105 keys
	}

	return ident{
		function: codec.FuncKeyboard,
		defs:     [3]uint32{uint32(uint8(lang)) | keys<<8 | 0x80<<24, 0, 0},
		area:     0xff,
		name:     "Emulated Dreamcast Keyboard",
		standby:  0x01ae,
		max:      0x01f5,
	}
}

// Dispatch implements the Device interface.
func (k *Keyboard) Dispatch(cmd uint8, in []byte) (uint8, []byte) {
	return dispatch(k.cfg.Env, "keyboard", k.dma, cmd, in)
}

func (k *Keyboard) dma(cmd uint8, _ *codec.Reader, w *codec.Writer) uint8 {
	switch cmd {
	case codec.DeviceRequest, codec.AllStatusReq:
		return k.ident().write(cmd, w)

	case codec.GetCondition:
		in := k.cfg.Input.Input(k.cfg.Player)
		w.W32(codec.FuncKeyboard)
		w.W8(in.Shift)
		w.W8(0) // LEDs
		w.WBytes(in.Keys[:])
		return codec.DataTransfer

	case codec.DeviceReset, codec.DeviceKill:
		return codec.DeviceReply
	}

	return unknown(k.cfg.Env, "keyboard", cmd)
}

// Serialize implements the Device interface.
func (k *Keyboard) Serialize(_ *savestate.Serializer) {
}

// Deserialize implements the Device interface.
func (k *Keyboard) Deserialize(_ *savestate.Deserializer) {
}

// Destroy implements the Device interface.
func (k *Keyboard) Destroy() {
}
