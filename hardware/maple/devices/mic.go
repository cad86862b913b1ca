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
	"math"

	"github.com/jetsetilly/maplebus/hardware/maple/codec"
	"github.com/jetsetilly/maplebus/hardware/maple/savestate"
	"github.com/jetsetilly/maplebus/logger"
)

// maximum number of samples in a single reply.
const micMaxSamples = 240

// MICControl subcommands.
const (
	micGetSamplingData = 0x01
	micBasicControl    = 0x02
	micAmpGain         = 0x03
	micExtUBit         = 0x04
	micVolumeMode      = 0x05
	micTransmitAgain   = 0xfc
)

var micIdent = ident{
	function: codec.FuncMic,
	defs:     [3]uint32{0xf0000000, 0, 0},
	area:     0xff,
	name:     "MicDevice for Dreameye",
	standby:  0x012c,
	max:      0x012c,
}

// Microphone is the microphone expansion device. Samples are taken from the
// SoundSource collaborator while sampling is enabled by the guest.
type Microphone struct {
	cfg Config

	gain     uint32
	sampling bool
	eightKHz bool

	samples [micMaxSamples]int16
}

// NewMicrophone is the preferred method of initialisation for the Microphone
// type.
func NewMicrophone(cfg Config) *Microphone {
	cfg.Normalise()
	m := &Microphone{cfg: cfg}
	m.setup()
	return m
}

func (m *Microphone) setup() {
	m.gain = 0x0f
	m.sampling = false
	m.eightKHz = false
}

// Kind implements the Device interface.
func (m *Microphone) Kind() Kind {
	return KindMicrophone
}

// Sampling returns true if the guest has enabled sampling.
func (m *Microphone) Sampling() bool {
	return m.sampling
}

func (m *Microphone) start() {
	err := m.cfg.Sound.Start(m.eightKHz)
	if err != nil {
		logger.Logf(m.cfg.Env, "mic", "could not start recording: %v", err)
	}
}

// Dispatch implements the Device interface.
func (m *Microphone) Dispatch(cmd uint8, in []byte) (uint8, []byte) {
	return dispatch(m.cfg.Env, "mic", m.dma, cmd, in)
}

func (m *Microphone) dma(cmd uint8, r *codec.Reader, w *codec.Writer) uint8 {
	switch cmd {
	case codec.DeviceRequest, codec.AllStatusReq:
		return micIdent.write(cmd, w)

	case codec.DeviceReset:
		if m.sampling {
			m.cfg.Sound.Stop()
		}
		m.setup()
		return codec.DeviceReply

	case codec.DeviceKill:
		return codec.DeviceReply

	case codec.MICControl:
		if fn := r.R32(); fn != codec.FuncMic {
			logger.Logf(m.cfg.Env, "mic", "unknown function %08x", fn)
			return codec.UnknownFunction
		}

		sub := r.R8()
		dt1 := r.R8()
		_ = r.R16()

		switch sub {
		case micGetSamplingData:
			n := m.cfg.Sound.Record(m.samples[:])
			n = clamp(n, 0, micMaxSamples)

			if m.cfg.Env.Prefs.MicrophoneGainBoost.Get().(bool) {
				for i := range m.samples[:n] {
					m.samples[i] = int16(clampf(float64(m.samples[i])*2, math.MinInt16, math.MaxInt16))
				}
			}

			w.W32(codec.FuncMic)

			var status uint8
			if m.sampling {
				status |= 0x04
			}
			if m.eightKHz {
				status |= 0x01
			}
			w.W8(status)
			w.W8(uint8(m.gain))
			w.W8(0)
			w.W8(uint8(n))

			// samples are sent in pairs
			data := make([]byte, ((n+1)>>1)<<2)
			for i := 0; i < n; i++ {
				binary.LittleEndian.PutUint16(data[i*2:], uint16(m.samples[i]))
			}
			w.WBytes(data)

			return codec.DataTransfer

		case micBasicControl:
			m.eightKHz = (dt1>>2)&3 == 1
			if (dt1&0x80 == 0x80) != m.sampling {
				if m.sampling {
					m.cfg.Sound.Stop()
				} else {
					m.start()
				}
				m.sampling = dt1&0x80 == 0x80
			}
			return codec.DeviceReply

		case micAmpGain:
			m.gain = uint32(dt1)
			return codec.DeviceReply

		case micExtUBit, micVolumeMode, micTransmitAgain:
			return codec.DeviceReply
		}

		logger.Logf(m.cfg.Env, "mic", "unhandled subcommand %02x", sub)
		return codec.UnknownFunction
	}

	return unknown(m.cfg.Env, "mic", cmd)
}

// Serialize implements the Device interface.
func (m *Microphone) Serialize(s *savestate.Serializer) {
	s.U32(m.gain)
	s.Bool(m.sampling)
	s.Bool(m.eightKHz)
}

// Deserialize implements the Device interface. Recording is restarted if the
// restored state is sampling.
func (m *Microphone) Deserialize(d *savestate.Deserializer) {
	if m.sampling {
		m.cfg.Sound.Stop()
	}
	m.gain = d.U32()
	m.sampling = d.Bool()
	m.eightKHz = d.Bool()
	if m.sampling {
		m.start()
	}
}

// Resume implements the Resumer interface.
func (m *Microphone) Resume() {
	if m.sampling {
		m.start()
	}
}

// Destroy implements the Device interface.
func (m *Microphone) Destroy() {
	if m.sampling {
		m.cfg.Sound.Stop()
	}
}
