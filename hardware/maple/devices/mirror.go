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

	"github.com/jetsetilly/maplebus/hardware/maple/codec"
	"github.com/jetsetilly/maplebus/logger"
)

// number of attempts made to read each block from a real VMU.
const mirrorReadAttempts = 4

// the frame sent to the real device is rebuilt from the command and the
// payload. the sender is the host on the same bus
func mirrorFrame(cfg Config, cmd uint8, in []byte) codec.Frame {
	return codec.Frame{
		Command:   cmd,
		Recipient: cfg.address(),
		Sender:    uint8(cfg.Bus << 6),
		Payload:   codec.BytesToWords(in),
	}
}

func mirrorSend(cfg Config, tag string, f codec.Frame) {
	if cfg.Link == nil {
		return
	}
	err := cfg.Link.Send(f)
	if err != nil {
		logger.Log(cfg.Env, tag, err)
	}
}

// MirrorVMU is an emulated VMU that forwards writes to a real VMU. The real
// VMU and the emulated VMU are kept in step so reads are answered locally.
type MirrorVMU struct {
	*VMU
}

// NewMirrorVMU is the preferred method of initialisation for the MirrorVMU
// type. If useReal is true the image is not written to storage and the real
// VMU is the only copy of the data.
func NewMirrorVMU(cfg Config, useReal bool) *MirrorVMU {
	m := &MirrorVMU{
		VMU: newVMU(cfg, !useReal),
	}
	m.VMU.tag = "mirror " + m.VMU.tag
	return m
}

// Kind implements the Device interface.
func (m *MirrorVMU) Kind() Kind {
	return KindMirrorVMU
}

// Dispatch implements the Device interface.
func (m *MirrorVMU) Dispatch(cmd uint8, in []byte) (uint8, []byte) {
	if len(in) >= 4 {
		fn := binary.LittleEndian.Uint32(in)
		switch {
		case fn == codec.FuncStorage:
			mirrorSend(m.cfg, m.tag, mirrorFrame(m.cfg, cmd, in))
		case fn == codec.FuncLCD && cmd == codec.BlockWrite:
			mirrorSend(m.cfg, m.tag, mirrorFrame(m.cfg, cmd, in))
		case fn == codec.FuncClock && cmd == codec.SetCondition:
			mirrorSend(m.cfg, m.tag, mirrorFrame(m.cfg, cmd, in))
		}
	}
	return m.VMU.Dispatch(cmd, in)
}

// Pull reads the image from the real VMU, replacing the emulated image. Each
// block is requested with a BlockRead command. Blocks that can not be read
// are left unchanged. Returns the number of blocks read.
func (m *MirrorVMU) Pull() int {
	if m.cfg.Link == nil {
		return 0
	}

	var n int
	for block := 0; block < VMUNumBlocks; block++ {
		in := make([]byte, 8)
		binary.LittleEndian.PutUint32(in, codec.FuncStorage)
		binary.LittleEndian.PutUint32(in[4:], codec.Swap32(uint32(block)))

		for i := 0; i < mirrorReadAttempts; i++ {
			reply, err := m.cfg.Link.Exchange(mirrorFrame(m.cfg, codec.BlockRead, in))
			if err != nil {
				logger.Logf(m.cfg.Env, m.tag, "block %d: %v", block, err)
				continue
			}

			// function word, block word and the block data
			if reply.Command != codec.DataTransfer || reply.WordCount() != 2+VMUBlockSize/4 {
				continue
			}
			copy(m.flash[block*VMUBlockSize:], codec.WordsToBytes(reply.Payload[2:]))
			n++
			break
		}
	}

	logger.Logf(m.cfg.Env, m.tag, "pulled %d blocks from real VMU", n)
	return n
}

// UpdateScreen sends the current LCD data to the real VMU.
func (m *MirrorVMU) UpdateScreen() {
	in := make([]byte, 8+vmuLCDSize)
	binary.LittleEndian.PutUint32(in, codec.FuncLCD)
	copy(in[8:], m.lcd[:])
	mirrorSend(m.cfg, m.tag, mirrorFrame(m.cfg, codec.BlockWrite, in))
}

// MirrorPurupuru is an emulated vibration pack that forwards vibration
// commands to a real vibration pack.
type MirrorPurupuru struct {
	*Purupuru
}

// NewMirrorPurupuru is the preferred method of initialisation for the
// MirrorPurupuru type.
func NewMirrorPurupuru(cfg Config) *MirrorPurupuru {
	return &MirrorPurupuru{
		Purupuru: NewPurupuru(cfg),
	}
}

// Kind implements the Device interface.
func (m *MirrorPurupuru) Kind() Kind {
	return KindMirrorPurupuru
}

// Dispatch implements the Device interface.
func (m *MirrorPurupuru) Dispatch(cmd uint8, in []byte) (uint8, []byte) {
	if cmd == codec.BlockWrite || cmd == codec.SetCondition {
		mirrorSend(m.cfg, "mirror purupuru", mirrorFrame(m.cfg, cmd, in))
	}
	return m.Purupuru.Dispatch(cmd, in)
}
