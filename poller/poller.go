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

package poller

import (
	"fmt"
	"math/bits"

	"github.com/jetsetilly/maplebus/curated"
	"github.com/jetsetilly/maplebus/environment"
	"github.com/jetsetilly/maplebus/hardware/clocks"
	"github.com/jetsetilly/maplebus/hardware/maple"
	"github.com/jetsetilly/maplebus/hardware/maple/codec"
	"github.com/jetsetilly/maplebus/hardware/maple/devices"
	"github.com/jetsetilly/maplebus/hardware/memory"
	"github.com/jetsetilly/maplebus/hardware/scheduler"
	"github.com/jetsetilly/maplebus/logger"
)

// FrameCycles is the number of cycles between vblanks.
const FrameCycles = clocks.Second / 60

// memory layout of the descriptor list and the reply buffers. each bus has
// its own reply buffer, large enough for the largest reply
const (
	descriptorBase = memory.Origin + 0x10000
	replyBase      = memory.Origin + 0x20000
	replyStride    = 0x800
)

// Reply from the device on the main port of a bus.
type Reply struct {
	Addr    maple.Address
	Command uint8
	Present bool

	// the reply frame. the zero value if Present is false
	Frame codec.Frame
}

func (r Reply) String() string {
	if !r.Present {
		return fmt.Sprintf("%s: no device", r.Addr)
	}
	return fmt.Sprintf("%s: %s", r.Addr, r.Frame)
}

// Poller owns a bus and the memory and clock required to run it.
type Poller struct {
	env   *environment.Environment
	ram   *memory.RAM
	sched *scheduler.Scheduler

	Maple *maple.Maple

	// function mask reported by the device on each bus. zero until the
	// device has answered a DeviceRequest
	ident [maple.NumBuses]uint32

	// buses queried by the most recent descriptor list, in order
	queried []int

	// number of vblanks so far
	Frames int

	// count of each interrupt raised by the bus
	Interrupts map[maple.Interrupt]int

	replies func([]Reply)
}

// NewPoller is the preferred method of initialisation for the Poller type.
// The host supplies the device collaborators and may be nil. Devices are
// created according to the preferences in the environment.
func NewPoller(env *environment.Environment, host maple.Host) (*Poller, error) {
	p := &Poller{
		env:        env,
		ram:        memory.NewRAM(),
		sched:      scheduler.NewScheduler(),
		Interrupts: make(map[maple.Interrupt]int),
	}

	env.Random.SetClock(p.sched)

	p.Maple = maple.NewMaple(env, p.ram, p.sched, p, host)
	err := p.Maple.CreateDevices()
	if err != nil {
		return nil, curated.Errorf("poller: %v", err)
	}

	// replies are written in the same byte order as the descriptors
	p.Maple.WriteMMSEL(1)
	p.Maple.WriteMDSTAR(descriptorBase)
	p.Maple.WriteMDTSEL(1)

	p.sched.RegisterEvent(scheduler.VBlank, p.vblank)
	p.sched.ScheduleEvent(scheduler.VBlank, FrameCycles)

	return p, nil
}

// Now returns the virtual time in cycles.
func (p *Poller) Now() uint64 {
	return p.sched.Now()
}

// OnReplies sets the function called with the replies of every completed
// pass. The slice is not retained by the poller.
func (p *Poller) OnReplies(f func([]Reply)) {
	p.replies = f
}

// Identified returns the function mask of the device on the main port of the
// bus. Returns zero if the device has not been identified.
func (p *Poller) Identified(bus int) uint32 {
	return p.ident[bus]
}

// Frame advances the virtual clock by one frame.
func (p *Poller) Frame() {
	p.sched.Advance(FrameCycles)
}

// RaiseInterrupt implements the maple.InterruptController interface.
func (p *Poller) RaiseInterrupt(i maple.Interrupt) {
	p.Interrupts[i]++
	if i == maple.InterruptDMADone {
		p.collect()
	}
}

// ConditionFunction chooses the function used for GetCondition from the
// function mask of a device.
func ConditionFunction(mask uint32) uint32 {
	for _, f := range []uint32{codec.FuncInput, codec.FuncKeyboard, codec.FuncLightGun, codec.FuncMouse, codec.FuncRFID} {
		if mask&f == f {
			return f
		}
	}
	if mask == 0 {
		return 0
	}
	return 1 << bits.TrailingZeros32(mask)
}

// the list of command frames for the current frame, one per populated bus
func (p *Poller) frames() ([]codec.Frame, []int) {
	var list []codec.Frame
	var buses []int

	for bus := 0; bus < maple.NumBuses; bus++ {
		if p.Maple.Registry.Kind(maple.Address{Bus: bus, Port: codec.MainPort}) == devices.KindNone {
			p.ident[bus] = 0
			continue
		}

		f := codec.Frame{
			Recipient: codec.Recipient(bus, codec.MainPort),
			Sender:    uint8(bus << 6),
		}
		if p.ident[bus] == 0 {
			f.Command = codec.DeviceRequest
		} else {
			f.Command = codec.GetCondition
			f.Payload = []uint32{ConditionFunction(p.ident[bus])}
		}

		list = append(list, f)
		buses = append(buses, bus)
	}

	return list, buses
}

func (p *Poller) vblank() {
	p.Frames++
	p.sched.ScheduleEvent(scheduler.VBlank, FrameCycles)

	if p.Maple.Busy() {
		logger.Log(p.env, "poller", "bus busy at vblank")
		p.Maple.VBlank()
		return
	}

	list, buses := p.frames()
	if len(list) == 0 {
		p.Maple.WriteMDEN(0)
		p.Maple.VBlank()
		return
	}

	addr := uint32(descriptorBase)
	for i, f := range list {
		w := f.Words()
		h := codec.Header{Last: i == len(list)-1, Opcode: codec.Start, Words: len(w)}
		p.ram.WriteWords(addr, []uint32{h.Encode(), replyBase + uint32(buses[i]*replyStride)})
		p.ram.WriteWords(addr+8, w)
		addr += 8 + uint32(len(w)*4)
	}

	p.queried = buses
	p.Maple.WriteMDEN(1)
	p.Maple.VBlank()
}

// read the replies of the completed pass from memory
func (p *Poller) collect() {
	replies := make([]Reply, 0, len(p.queried))

	for _, bus := range p.queried {
		r := Reply{Addr: maple.Address{Bus: bus, Port: codec.MainPort}}
		dest := replyBase + uint32(bus*replyStride)

		hdr := p.ram.Read32(dest)
		if hdr == codec.NoDevice {
			p.ident[bus] = 0
			replies = append(replies, r)
			continue
		}

		words, _ := p.ram.ReadWords(dest, int(hdr>>24)+1)
		f, err := codec.DecodeFrame(words)
		if err != nil {
			logger.Logf(p.env, "poller", "%s: %v", r.Addr, err)
			continue
		}

		r.Present = true
		r.Command = f.Command
		r.Frame = f

		if f.Command == codec.DeviceStatus && len(f.Payload) > 0 {
			p.ident[bus] = f.Payload[0]
		}

		replies = append(replies, r)
	}

	p.queried = p.queried[:0]

	if p.replies != nil {
		p.replies(replies)
	}
}
