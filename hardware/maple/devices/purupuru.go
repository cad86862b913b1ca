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
	"encoding/binary"
	"fmt"

	"github.com/jetsetilly/maplebus/hardware/maple/codec"
	"github.com/jetsetilly/maplebus/hardware/maple/savestate"
)

const purupuruVersion = "Version 1.000,1998/11/10,315-6211-AH   ,Vibration Motor:1,Fm:4 - 30Hz,Pow:7     "

var purupuruIdent = ident{
	function: codec.FuncVibration,
	defs:     [3]uint32{0x00000101, 0, 0},
	area:     0xff,
	name:     "Puru Puru Pack",
	standby:  0x00c8,
	max:      0x0640,
	version:  purupuruVersion,
}

// Vibration is the decoded form of a SetCondition command to the vibration
// pack.
type Vibration struct {
	Power       float32
	Inclination float32
	DurationMS  uint32
}

func (v Vibration) String() string {
	return fmt.Sprintf("power=%.2f incl=%.4f duration=%dms", v.Power, v.Inclination, v.DurationMS)
}

// DecodeVibration decodes the VIBSET word of a SetCondition command. The
// autoStopMS argument is the duration used for continuous vibration.
func DecodeVibration(vibset uint32, autoStopMS uint16) Vibration {
	powPos := int((vibset >> 8) & 0x07)
	powNeg := int((vibset >> 12) & 0x07)
	freq := int((vibset >> 16) & 0xff)
	inc := int((vibset >> 24) & 0xff)

	if vibset&0x8000 == 0x8000 {
		inc = -inc
	} else if vibset&0x0800 == 0 {
		inc = 0
	}
	cnt := vibset&0x01 == 0x01

	var v Vibration

	v.Power = min(float32(powPos+powNeg)/7.0, 1.0)

	if freq > 0 && (!cnt || inc != 0) {
		n := 1
		if inc != 0 {
			n = abs(inc) * max(powPos, powNeg)
		}
		v.DurationMS = uint32(min(1000*n/freq, int(autoStopMS)))
	} else {
		v.DurationMS = uint32(autoStopMS)
	}

	if inc != 0 && v.Power != 0 {
		v.Inclination = float32(freq) / (1000.0 * float32(inc) * float32(max(powPos, powNeg)))
	}

	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Purupuru is the vibration pack.
type Purupuru struct {
	cfg Config

	// auto stop time. in units of 250ms and milliseconds
	ast   uint16
	astMS uint16

	vibset uint32
}

// NewPurupuru is the preferred method of initialisation for the Purupuru type.
func NewPurupuru(cfg Config) *Purupuru {
	cfg.Normalise()
	return &Purupuru{
		cfg:   cfg,
		ast:   19,
		astMS: 5000,
	}
}

// Kind implements the Device interface.
func (p *Purupuru) Kind() Kind {
	return KindPurupuru
}

// Dispatch implements the Device interface.
func (p *Purupuru) Dispatch(cmd uint8, in []byte) (uint8, []byte) {
	return dispatch(p.cfg.Env, "purupuru", p.dma, cmd, in)
}

func (p *Purupuru) dma(cmd uint8, r *codec.Reader, w *codec.Writer) uint8 {
	switch cmd {
	case codec.DeviceRequest, codec.AllStatusReq:
		return purupuruIdent.write(cmd, w)

	case codec.GetCondition:
		w.W32(codec.FuncVibration)
		w.W32(p.vibset)
		return codec.DataTransfer

	case codec.GetMediaInfo:
		w.W32(codec.FuncVibration)
		w.W32(0x3b07e010)
		return codec.DataTransfer

	case codec.BlockRead:
		w.W32(codec.FuncVibration)
		w.W32(0)
		w.W16(2)
		w.W16(p.ast)
		return codec.DataTransfer

	case codec.BlockWrite:
		// the auto stop time is the third byte of the second word after the
		// function word
		r.Skip(10)
		p.ast = uint16(r.R8())
		p.astMS = p.ast*250 + 250
		return codec.DeviceReply

	case codec.SetCondition:
		r.Skip(4)
		b := r.Bytes(4)
		p.vibset = binary.LittleEndian.Uint32(b)
		v := DecodeVibration(p.vibset, p.astMS)
		p.cfg.Rumbler.SetVibration(v.Power, v.Inclination, v.DurationMS)
		return codec.DeviceReply

	case codec.DeviceReset, codec.DeviceKill:
		return codec.DeviceReply
	}

	return unknown(p.cfg.Env, "purupuru", cmd)
}

// Serialize implements the Device interface.
func (p *Purupuru) Serialize(s *savestate.Serializer) {
	s.U16(p.ast)
	s.U16(p.astMS)
	s.U32(p.vibset)
}

// Deserialize implements the Device interface.
func (p *Purupuru) Deserialize(d *savestate.Deserializer) {
	p.ast = d.U16()
	p.astMS = d.U16()
	p.vibset = d.U32()
}

// Destroy implements the Device interface.
func (p *Purupuru) Destroy() {
}
