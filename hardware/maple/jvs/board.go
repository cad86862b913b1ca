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

package jvs

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/maplebus/environment"
	"github.com/jetsetilly/maplebus/hardware/maple/devices"
	"github.com/jetsetilly/maplebus/hardware/maple/savestate"
	"github.com/jetsetilly/maplebus/logger"
)

// Model describes the features of an I/O board.
type Model struct {
	ID string

	Players   int
	Digital   int
	Coins     int
	Analog    int
	Encoders  int
	Lightguns int
	Outputs   int
}

// List of supported board models.
var (
	Model837_13551 = Model{
		ID:      "SEGA ENTERPRISES,LTD.;I/O BD JVS;837-13551 ;Ver1.00;98/10",
		Players: 2, Digital: 13, Coins: 2, Analog: 8, Outputs: 6,
	}

	Model837_13551_4P = Model{
		ID:      "SEGA ENTERPRISES,LTD.;I/O BD JVS;837-13551 ;Ver1.00;98/10",
		Players: 4, Digital: 12, Coins: 4, Outputs: 6,
	}

	Model837_13938 = Model{
		ID:      "SEGA ENTERPRISES,LTD.;837-13938 ENCORDER BD  ;Ver0.01;99/08",
		Players: 1, Digital: 9, Encoders: 4, Outputs: 8,
	}

	Model837_13844 = Model{
		ID:      "SEGA ENTERPRISES,LTD.;837-13844-01 I/O CNTL BD2 ;Ver1.00;99/07",
		Players: 2, Digital: 12, Coins: 2, Analog: 8, Outputs: 22,
	}
)

// screen dimensions used to scale light gun positions
const (
	screenWidth  = 640
	screenHeight = 480
)

// JVS report and status codes.
const (
	reportNormal       = 0x01
	reportCommandError = 0x02
)

// Board is a single JVS I/O board in the chain of an arcade hub.
type Board struct {
	env   *environment.Environment
	input devices.InputSource
	model Model

	// nodes are numbered from one in chain order
	nodeID uint8

	// player number of the first player handled by this board
	firstPlayer int

	// report light gun positions as the first two analog channels
	LightgunAsAnalog bool

	coinCount [4]int32
	coinChute [4]bool

	outputs uint32

	rotX int16
	rotY int16

	initInProgress bool
}

// NewBoard is the preferred method of initialisation for the Board type.
func NewBoard(env *environment.Environment, input devices.InputSource, model Model, nodeID uint8, firstPlayer int) *Board {
	return &Board{
		env:         env,
		input:       input,
		model:       model,
		nodeID:      nodeID,
		firstPlayer: firstPlayer,
	}
}

func (b *Board) String() string {
	return fmt.Sprintf("node %d: %s", b.nodeID, b.model.ID)
}

// NodeID returns the node number of the board.
func (b *Board) NodeID() uint8 {
	return b.nodeID
}

// Model returns the model of the board.
func (b *Board) Model() Model {
	return b.model
}

// Outputs returns the state of the general purpose outputs. Lamps mostly.
func (b *Board) Outputs() uint32 {
	return b.outputs
}

// Coins returns the coin counter for a slot.
func (b *Board) Coins(slot int) int {
	if slot < 0 || slot >= len(b.coinCount) {
		return 0
	}
	return int(b.coinCount[slot])
}

func (b *Board) tag() string {
	return fmt.Sprintf("jvs node %d", b.nodeID)
}

// Handle a JVS request addressed to the board. The returned reply is a
// complete JVS packet including the sync byte and the checksum. An empty
// reply means the request was not for this board.
func (b *Board) Handle(in []byte) []byte {
	if len(in) == 0 {
		return nil
	}

	// reads outside the request are treated as zero
	at := func(i int) uint8 {
		if i < len(in) {
			return in[i]
		}
		logger.Logf(b.env, b.tag(), "request too short (%d bytes)", len(in))
		return 0
	}

	cmd := in[0]
	switch {
	case cmd == 0xf0:
		// bus reset
		return nil
	case cmd == 0xf1 && (len(in) < 2 || in[1] != b.nodeID):
		// address assignment for another node
		return nil
	}

	// sync, master node and a placeholder for the length
	out := []byte{0xe0, 0x00, 0x00}

	switch cmd {
	case 0xf1:
		out = append(out, reportNormal, reportNormal, 5)
		logger.Logf(b.env, b.tag(), "address assigned")

	case 0x10:
		out = append(out, reportNormal, reportNormal)
		out = append(out, b.model.ID...)
		out = append(out, 0)

	case 0x11:
		// command format version 1.1
		out = append(out, reportNormal, reportNormal, 0x11)

	case 0x12:
		// JAMMA video version 2.0
		out = append(out, reportNormal, reportNormal, 0x20)

	case 0x13:
		// communication version 1.0
		out = append(out, reportNormal, reportNormal, 0x10)

	case 0x14:
		out = append(out, reportNormal, reportNormal)
		out = b.features(out)

	case 0x15:
		// master board id
		out = append(out, reportNormal, reportNormal)

	case 0x70:
		b.initInProgress = true
		out = append(out, reportNormal, reportNormal)
		if at(2) == 3 {
			out = append(out, 0x10)
			for i := 0; i < 16; i++ {
				out = append(out, 0x7f)
			}
			if at(4) == 0x10 || at(4) == 0x11 {
				b.initInProgress = false
			}
		} else {
			out = append(out, 2, 3, 1)
		}

	default:
		if (cmd >= 0x20 && cmd <= 0x38) || cmd == 0x74 {
			out = append(out, reportNormal)
			out = b.inputs(in, at, out)
		} else {
			logger.Logf(b.env, b.tag(), "unknown command %02x", cmd)
			out = append(out, reportCommandError)
		}
	}

	out[2] = uint8(len(out) - 2)

	var sum uint8
	for _, v := range out[1:] {
		sum += v
	}
	return append(out, sum)
}

func (b *Board) features(out []byte) []byte {
	m := b.model

	out = append(out, 1, uint8(m.Players), uint8(m.Digital), 0)
	if m.Coins > 0 {
		out = append(out, 2, uint8(m.Coins), 0, 0)
	}
	if m.Analog > 0 {
		// sixteen bits per channel
		out = append(out, 3, uint8(m.Analog), 0x10, 0)
	}
	if m.Encoders > 0 {
		out = append(out, 4, uint8(m.Encoders), 0, 0)
	}
	if m.Lightguns > 0 {
		out = append(out, 6, 16, 16, uint8(m.Lightguns))
	}
	out = append(out, 0x12, uint8(m.Outputs), 0, 0)

	// end of list
	return append(out, 0)
}

// the read family of commands may be chained in a single request. processing
// stops at the first unknown command
func (b *Board) inputs(in []byte, at func(int) uint8, out []byte) []byte {
	buttons := readButtons(b.input)

	for i := 0; i < len(in); {
		switch in[i] {
		case 0x20:
			out = append(out, reportNormal)
			digital := b.digital(buttons)
			if digital[0]&naomiTest == naomiTest {
				out = append(out, 0x80)
			} else {
				out = append(out, 0x00)
			}
			bytesPerPlayer := at(i + 2)
			for p := 0; p < int(at(i+1)); p++ {
				var v uint32
				if p < len(digital) {
					v = digital[p]
				}
				out = append(out, uint8(v>>8))
				if bytesPerPlayer == 2 {
					out = append(out, uint8(v))
				}
			}
			i += 3

		case 0x21:
			out = append(out, reportNormal)
			for slot := 0; slot < int(at(i+1)); slot++ {
				if slot >= len(b.coinCount) {
					out = append(out, 0, 0)
					continue
				}
				var chute bool
				if p := b.firstPlayer + slot; p < len(buttons) && buttons[p]&naomiCoin == naomiCoin {
					chute = true
					if !b.coinChute[slot] {
						b.coinCount[slot]++
					}
				}
				b.coinChute[slot] = chute

				// top two bits are the coin condition. zero is normal
				out = append(out, uint8(b.coinCount[slot]>>8)&0x3f, uint8(b.coinCount[slot]))
			}
			i += 2

		case 0x22:
			out = append(out, reportNormal)
			out = b.analog(int(at(i+1)), buttons, out)
			i += 2

		case 0x23:
			out = append(out, reportNormal)
			rel := b.input.Input(b.firstPlayer)
			b.rotX += int16(rel.MouseX * 3)
			b.rotY -= int16(rel.MouseY * 3)
			for ch := 0; ch < int(at(i+1)); ch++ {
				var v int16
				switch ch {
				case 0:
					v = b.rotX
				case 1:
					v = b.rotY
				}
				out = append(out, uint8(v>>8), uint8(v))
			}
			i += 2

		case 0x25:
			out = append(out, reportNormal)
			p := min(max(b.firstPlayer+int(at(i+1))-1, 0), 3)
			var x, y uint16
			if buttons[p]&naomiReload != naomiReload {
				pos := b.input.Input(p)
				x = uint16(pos.AbsX)
				y = uint16(pos.AbsY)
			}
			out = append(out, uint8(x>>8), uint8(x), uint8(y>>8), uint8(y))
			i += 2

		case 0x30:
			slot := int(at(i + 1))
			if slot > 0 && slot-1 < len(b.coinCount) {
				b.coinCount[slot-1] -= int32(at(i+2))<<8 | int32(at(i+3))
			}
			out = append(out, reportNormal)
			i += 4

		case 0x32:
			n := int(at(i + 1))
			b.writeOutputs(n, in[min(i+2, len(in)):])
			out = append(out, reportNormal)
			i += n + 2

		case 0x33:
			// analog outputs are acknowledged and discarded
			out = append(out, reportNormal)
			i += int(at(i+1)) + 2

		case 0x74:
			// serial port on the board. a printer on the games that use it
			n := int(at(i + 1))
			s := strings.Builder{}
			for j := 0; j < n; j++ {
				s.WriteByte(at(i + 2 + j))
			}
			logger.Logf(b.env, b.tag(), "printer: %q", s.String())
			out = append(out, reportNormal, 0x0f)
			i += n + 2

		default:
			logger.Logf(b.env, b.tag(), "unknown input command %02x", in[i])
			out = append(out, reportCommandError)
			i = len(in)
		}
	}

	return out
}

// the light gun is off screen if the position is outside the visible area or
// if reload is held.
func offscreen(in devices.Input, buttons uint32) bool {
	return in.AbsX < 0 || in.AbsX >= screenWidth || in.AbsY < 0 || in.AbsY >= screenHeight || buttons&naomiReload == naomiReload
}

// digital returns the digital input word for each player handled by the board.
func (b *Board) digital(buttons [4]uint32) [4]uint32 {
	var v [4]uint32
	for p := b.firstPlayer; p < len(buttons); p++ {
		kc := buttons[p]
		if kc == 0 {
			continue
		}
		if kc&naomiReload == naomiReload {
			kc |= naomiBtn0
		}
		if b.LightgunAsAnalog && kc&naomiBtn0 == naomiBtn0 {
			if offscreen(b.input.Input(p), kc) {
				kc |= naomiBtn1
			}
		}
		v[p-b.firstPlayer] |= kc
	}
	return v
}

func (b *Board) analog(channels int, buttons [4]uint32, out []byte) []byte {
	axis := 0

	if b.LightgunAsAnalog {
		for ; axis/2 < b.model.Players && axis < channels; axis += 2 {
			p := min(b.firstPlayer+axis/2, 3)
			pos := b.input.Input(p)
			var x, y uint16
			if !offscreen(pos, buttons[p]) {
				x = uint16(pos.AbsX * 0xffff / (screenWidth - 1))
				y = uint16(pos.AbsY * 0xffff / (screenHeight - 1))
			}
			out = append(out, uint8(x>>8), uint8(x), uint8(y>>8), uint8(y))
		}
	}

	axes := b.input.Input(min(b.firstPlayer, 3)).Axes
	for ; axis < channels; axis++ {
		v := uint16(0x8000)
		if axis < len(axes) {
			v = uint16(int32(axes[axis]) + 0x8000)
		}

		// the low byte is treated as signed by the guest
		v = min(v, 0xff7f)
		if v&0x80 == 0x80 {
			v += 0x100
		}
		out = append(out, uint8(v>>8), uint8(v))
	}

	return out
}

func (b *Board) writeOutputs(n int, data []byte) {
	v := b.outputs
	for i := 0; i < n && i < 4 && i < len(data); i++ {
		mask := uint32(0xff) << (i * 8)
		v = (v &^ mask) | uint32(data[i])<<(i*8)
	}

	changes := v ^ b.outputs
	for i := 0; i < 32; i++ {
		if changes&(1<<i) != 0 {
			logger.Logf(b.env, b.tag(), "lamp%d: %d", i, (v>>i)&1)
		}
	}
	b.outputs = v
}

// Serialize the board.
func (b *Board) Serialize(s *savestate.Serializer) {
	s.U8(b.nodeID)
	s.Bool(b.LightgunAsAnalog)
	for _, c := range b.coinCount {
		s.I32(c)
	}
}

// Deserialize the board. Coin counters are reset if the state does not
// include them.
func (b *Board) Deserialize(d *savestate.Deserializer) {
	b.nodeID = d.U8()
	b.LightgunAsAnalog = d.Bool()
	if d.Version() >= savestate.V2 {
		for i := range b.coinCount {
			b.coinCount[i] = d.I32()
		}
	} else {
		clear(b.coinCount[:])
	}
}
