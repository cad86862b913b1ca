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
	"fmt"

	"github.com/jetsetilly/maplebus/hardware/maple/codec"
	"github.com/jetsetilly/maplebus/hardware/maple/savestate"
	"github.com/jetsetilly/maplebus/logger"
)

// Passthrough forwards every frame to real hardware over a Link and returns
// the reply of the real device.
type Passthrough struct {
	cfg Config
	tag string
}

// NewPassthrough is the preferred method of initialisation for the
// Passthrough type. The Link field of the Config must not be nil.
func NewPassthrough(cfg Config) *Passthrough {
	cfg.Normalise()
	return &Passthrough{
		cfg: cfg,
		tag: fmt.Sprintf("passthrough %s", LogicalPort(cfg.Bus, cfg.Port)),
	}
}

// Kind implements the Device interface.
func (p *Passthrough) Kind() Kind {
	return KindPassthrough
}

func (p *Passthrough) exchange(f codec.Frame) (codec.Frame, bool) {
	if p.cfg.Link == nil {
		return codec.Frame{}, false
	}
	reply, err := p.cfg.Link.Exchange(f)
	if err != nil {
		logger.Log(p.cfg.Env, p.tag, err)
		return codec.Frame{}, false
	}
	return reply, true
}

// Dispatch implements the Device interface.
func (p *Passthrough) Dispatch(cmd uint8, in []byte) (uint8, []byte) {
	f := codec.Frame{
		Command:   cmd,
		Recipient: p.cfg.address(),
		Sender:    uint8(p.cfg.Bus << 6),
		Payload:   codec.BytesToWords(in),
	}
	reply, ok := p.exchange(f)
	if !ok {
		return codec.NoResponse, nil
	}
	return reply.Command, reply.PayloadBytes()
}

// RawDMA implements the RawDevice interface. The frame is forwarded
// verbatim. If there is no reply the all-ones word is returned, which is the
// same as there being no device in the slot.
func (p *Passthrough) RawDMA(frame []byte, _ uint8) []byte {
	f, err := codec.DecodeCommandFrame(frame)
	if err != nil {
		logger.Log(p.cfg.Env, p.tag, err)
	}

	reply, ok := p.exchange(f)
	if !ok {
		return codec.WordsToBytes([]uint32{codec.NoDevice})
	}
	return reply.Bytes()
}

// Serialize implements the Device interface. The state of the real device is
// not recorded.
func (p *Passthrough) Serialize(_ *savestate.Serializer) {
}

// Deserialize implements the Device interface.
func (p *Passthrough) Deserialize(_ *savestate.Deserializer) {
}

// Destroy implements the Device interface.
func (p *Passthrough) Destroy() {
}
