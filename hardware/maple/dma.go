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

package maple

import (
	"fmt"

	"github.com/jetsetilly/maplebus/hardware/clocks"
	"github.com/jetsetilly/maplebus/hardware/maple/codec"
	"github.com/jetsetilly/maplebus/hardware/maple/devices"
	"github.com/jetsetilly/maplebus/hardware/scheduler"
	"github.com/jetsetilly/maplebus/logger"
)

// the reply to a single command frame. the reply is written to memory when
// the pass completes
type output struct {
	address uint32
	data    []uint32
}

// Pass summarises a single walk of the descriptor list.
type Pass struct {
	Descriptors int
	Frames      int

	// bytes sent to and received from the devices
	XferIn  uint64
	XferOut uint64

	// number of cycles until the completion of the pass. zero if the
	// completion has been deferred by an occupied bus
	Delay uint64

	// the walk ended at a descriptor with the last flag set. false if the
	// walk was stopped by the descriptor limit or by an invalid address
	Terminated bool
}

func (p Pass) String() string {
	return fmt.Sprintf("%d descriptors, %d frames, in=%d out=%d, delay=%d", p.Descriptors, p.Frames, p.XferIn, p.XferOut, p.Delay)
}

// transferCycles returns the number of SH4 cycles required for the bytes
// transferred in each direction. The result is capped at one second.
func transferCycles(xferIn uint64, xferOut uint64) uint64 {
	c := clocks.CyclesForXfer(xferIn, clocks.MapleIn)
	c += clocks.CyclesForXfer(xferOut, clocks.MapleOut)
	return min(c, clocks.Second)
}

// the walk of the descriptor list. dispatches every command frame and
// schedules the completion of the pass
func (m *Maple) pass() {
	m.LastPass = Pass{}

	addr := m.Registers.MDSTAR
	if m.strict() && !m.Registers.protected(addr) {
		logger.Logf(m.env, "maple: dma", "illegal descriptor address: %08x", addr)
		m.raise(InterruptIllegalAddress)
		m.Registers.MDST = 0
		return
	}

	swap := m.Registers.MMSEL == 0
	limit := m.env.Prefs.MaxDescriptors.Get().(int)

	var xferIn, xferOut uint64

	for !m.LastPass.Terminated {
		if m.LastPass.Descriptors >= limit {
			logger.Logf(m.env, "maple: dma", "descriptor limit reached (%d). no last descriptor", limit)
			break
		}
		m.LastPass.Descriptors++

		hdr := codec.DecodeHeader(m.mem.Read32(addr))
		m.LastPass.Terminated = hdr.Last

		switch hdr.Opcode {
		case codec.Start:
			dest := m.mem.Read32(addr+4) & codec.DestinationMask
			end := addr + 8 + uint32(hdr.Words*4) - 1
			if m.strict() {
				if !m.Registers.protected(dest) || !m.Registers.protected(end) {
					logger.Logf(m.env, "maple: dma", "destination outside of protected area: %08x", dest)
					dest = 0
				}
			} else if !m.mem.Valid(dest, 1) {
				logger.Logf(m.env, "maple: dma", "destination not in system ram: %08x", dest)
				dest = 0
			}

			words, ok := m.mem.ReadWords(addr+8, hdr.Words)
			if !ok {
				logger.Logf(m.env, "maple: dma", "invalid descriptor address: %08x", addr)
				m.Registers.MDST = 0
				m.out = m.out[:0]
				m.LastPass.Terminated = false
				return
			}
			if swap {
				for i := range words {
					words[i] = codec.Swap32(words[i])
				}
			}

			reply, in := m.dispatch(words)
			m.LastPass.Frames++
			if in > 0 {
				xferIn += uint64(in) + 3
				xferOut += uint64(len(reply)*4) + 3
			}
			m.addOutput(dest, reply, swap)

			addr += 8 + uint32(hdr.Words*4)

		case codec.SDCKBOccupy:
			if d, ok := m.Registry.Get(Address{Bus: hdr.Bus, Port: codec.MainPort}); ok {
				if o, ok := d.(devices.Occupier); ok {
					m.occupied = o.Occupy() || m.occupied
				}
				xferIn++
			}
			addr += 4

		case codec.SDCKBOccupyCancel:
			m.occupied = false
			addr += 4

		case codec.Reset:
			xferIn++
			addr += 4

		case codec.NOP:
			addr += 4

		default:
			logger.Logf(m.env, "maple: dma", "unknown opcode %d (%d words)", hdr.Opcode, hdr.Words)
			addr += 4
		}
	}

	m.LastPass.XferIn = xferIn
	m.LastPass.XferOut = xferOut

	if !m.occupied {
		m.LastPass.Delay = transferCycles(xferIn, xferOut)
		m.sched.ScheduleEvent(scheduler.MapleDMA, m.LastPass.Delay)
	}
}

// dispatch a command frame to the addressed device. returns the reply frame
// and the number of bytes sent to the device. zero bytes are sent if there is
// no device at the address
func (m *Maple) dispatch(words []uint32) ([]uint32, int) {
	f, err := codec.DecodeFrame(words)
	if err != nil {
		logger.Logf(m.env, "maple: dma", "%v: %s", err, f)
	}

	d, addr, ok := m.Registry.Target(f.Recipient)
	if !ok {
		if addr.Port != codec.MainPort && f.Command != codec.DeviceRequest {
			logger.Logf(m.env, "maple", "no device at %s: command %02x", addr, f.Command)
		}
		return []uint32{codec.NoDevice}, 0
	}

	raw := f.Bytes()
	var reply []byte

	if r, ok := d.(devices.RawDevice); ok {
		reply = r.RawDMA(raw, m.Registry.AttachedMask(addr.Bus))
	} else {
		status, out := d.Dispatch(f.Command, f.PayloadBytes())
		reci := f.Recipient
		if reci&0x20 == 0x20 {
			reci |= m.Registry.AttachedMask(addr.Bus)
		}
		reply = codec.EncodeReply(status, f.Sender, reci, out)
	}

	return codec.BytesToWords(reply), len(raw)
}

func (m *Maple) addOutput(dest uint32, data []uint32, swap bool) {
	if m.strict() && dest != 0 && !m.Registers.protected(dest+uint32(len(data)*4)-1) {
		logger.Logf(m.env, "maple: dma", "reply overruns protected area: %08x", dest)
		m.raise(InterruptOverrun)
		m.Registers.MDST = 0
		m.out = m.out[:0]
		return
	}

	if swap {
		for i := range data {
			data[i] = codec.Swap32(data[i])
		}
	}
	m.out = append(m.out, output{address: dest, data: data})
}

// the completion of the pass. the replies are written to memory and the
// completion interrupt is raised. if DMA has been disabled during the pass
// the replies are discarded
func (m *Maple) complete() {
	if m.Registers.MDEN&1 == 1 {
		for _, o := range m.out {
			if o.address == 0 {
				m.raise(InterruptOverrun)
				continue
			}
			if !m.mem.WriteWords(o.address, o.data) {
				logger.Logf(m.env, "maple: dma", "reply not written: %08x", o.address)
				m.raise(InterruptOverrun)
			}
		}
		m.Registers.MDST = 0
		m.raise(InterruptDMADone)
	} else {
		logger.Log(m.env, "maple: dma", "dma aborted")
		m.Registers.MDST = 0
	}
	m.out = m.out[:0]
}

// PendingOutput returns the number of replies waiting to be written to
// memory.
func (m *Maple) PendingOutput() int {
	return len(m.out)
}
