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

package maple_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jetsetilly/maplebus/curated"
	"github.com/jetsetilly/maplebus/environment"
	"github.com/jetsetilly/maplebus/hardware/clocks"
	"github.com/jetsetilly/maplebus/hardware/maple"
	"github.com/jetsetilly/maplebus/hardware/maple/codec"
	"github.com/jetsetilly/maplebus/hardware/maple/devices"
	"github.com/jetsetilly/maplebus/hardware/maple/savestate"
	"github.com/jetsetilly/maplebus/hardware/memory"
	"github.com/jetsetilly/maplebus/hardware/scheduler"
	"github.com/jetsetilly/maplebus/test"
)

const (
	descriptors = memory.Origin + 0x1000
	replies     = memory.Origin + 0x8000
)

type interrupts struct {
	raised []maple.Interrupt
}

func (irq *interrupts) RaiseInterrupt(i maple.Interrupt) {
	irq.raised = append(irq.raised, i)
}

func (irq *interrupts) count(i maple.Interrupt) int {
	var n int
	for _, r := range irq.raised {
		if r == i {
			n++
		}
	}
	return n
}

type bench struct {
	env   *environment.Environment
	ram   *memory.RAM
	sched *scheduler.Scheduler
	irq   *interrupts
	host  *maple.MemoryHost
	m     *maple.Maple
}

// a bus with the default devices. a controller, a VMU and a vibration pack on
// the first bus
func newBench(t *testing.T) *bench {
	t.Helper()

	env := environment.NewEnvironment(nil, nil)
	env.Normalise()

	b := &bench{
		env:   env,
		ram:   memory.NewRAM(),
		sched: scheduler.NewScheduler(),
		irq:   &interrupts{},
		host:  &maple.MemoryHost{},
	}
	b.m = maple.NewMaple(b.env, b.ram, b.sched, b.irq, b.host)
	test.DemandSuccess(t, b.m.CreateDevices())

	return b
}

type descriptor struct {
	op    codec.Opcode
	bus   int
	dest  uint32
	frame codec.Frame
}

func start(dest uint32, f codec.Frame) descriptor {
	return descriptor{op: codec.Start, dest: dest, frame: f}
}

// write the descriptor list to memory. the last descriptor has the last flag
// set
func (b *bench) write(swap bool, list ...descriptor) {
	addr := uint32(descriptors)
	for i, d := range list {
		h := codec.Header{Last: i == len(list)-1, Opcode: d.op, Words: 1, Bus: d.bus}
		if d.op != codec.Start {
			b.ram.Write32(addr, h.Encode())
			addr += 4
			continue
		}

		w := d.frame.Words()
		if swap {
			for i := range w {
				w[i] = codec.Swap32(w[i])
			}
		}
		h.Words = len(w)
		b.ram.WriteWords(addr, []uint32{h.Encode(), d.dest})
		b.ram.WriteWords(addr+8, w)
		addr += 8 + uint32(len(w)*4)
	}
}

func (b *bench) run(list ...descriptor) {
	b.write(false, list...)
	b.m.WriteMDSTAR(descriptors)
	b.m.WriteMDEN(1)
	b.m.WriteMDST(1)
}

func (b *bench) complete() {
	b.sched.Advance(b.m.LastPass.Delay)
}

func (b *bench) reply(addr uint32, words int) []uint32 {
	w, ok := b.ram.ReadWords(addr, words)
	if !ok {
		return nil
	}
	return w
}

func header(status uint8, sender uint8, recipient uint8, words int) uint32 {
	return uint32(status) | uint32(sender)<<8 | uint32(recipient)<<16 | uint32(words)<<24
}

func TestAddressing(t *testing.T) {
	for bus := 0; bus < maple.NumBuses; bus++ {
		for port := 0; port < codec.NumPorts; port++ {
			a := maple.Address{Bus: bus, Port: port}
			test.ExpectEquality(t, maple.Resolve(a.Recipient()), a)
		}
	}

	// no port bit is the main port. the lowest set bit wins
	test.ExpectEquality(t, maple.Resolve(0x40), maple.Address{Bus: 1, Port: 5})
	test.ExpectEquality(t, maple.Resolve(0xc6), maple.Address{Bus: 3, Port: 1})
}

func TestDeviceRequest(t *testing.T) {
	b := newBench(t)

	b.run(start(replies, codec.Frame{Command: codec.DeviceRequest, Recipient: 0x20}))
	test.ExpectEquality(t, b.m.Busy(), true)
	test.ExpectEquality(t, b.m.LastPass.Frames, 1)
	test.ExpectEquality(t, b.m.LastPass.Terminated, true)
	test.ExpectEquality(t, b.m.PendingOutput(), 1)

	// nothing is written until the pass completes
	test.ExpectEquality(t, b.ram.Read32(replies), uint32(0))
	test.ExpectEquality(t, b.irq.count(maple.InterruptDMADone), 0)

	b.complete()
	test.ExpectEquality(t, b.m.Busy(), false)
	test.ExpectEquality(t, b.irq.count(maple.InterruptDMADone), 1)
	test.ExpectEquality(t, b.m.PendingOutput(), 0)

	// the VMU and the vibration pack are attached
	r := b.reply(replies, 2)
	test.ExpectEquality(t, r[0], header(codec.DeviceStatus, 0x00, 0x23, 28))
	test.ExpectEquality(t, r[1], codec.FuncInput)
}

func TestTiming(t *testing.T) {
	b := newBench(t)
	b.run(start(replies, codec.Frame{Command: codec.DeviceRequest, Recipient: 0x20}))

	// one frame word sent and the identification block received
	test.ExpectEquality(t, b.m.LastPass.XferIn, uint64(4+3))
	test.ExpectEquality(t, b.m.LastPass.XferOut, uint64(29*4+3))
	test.ExpectEquality(t, b.m.LastPass.Delay, clocks.CyclesForXfer(7, clocks.MapleIn)+clocks.CyclesForXfer(119, clocks.MapleOut))

	// completion does not happen early
	b.sched.Advance(b.m.LastPass.Delay - 1)
	test.ExpectEquality(t, b.m.Busy(), true)
	b.sched.Advance(1)
	test.ExpectEquality(t, b.m.Busy(), false)
}

func TestMissingDevice(t *testing.T) {
	b := newBench(t)

	// nothing on the second bus. a sub-port with no device on the first bus
	cmds := []uint8{codec.DeviceRequest, codec.GetCondition, codec.BlockRead, 0x55}
	var list []descriptor
	for i, c := range cmds {
		list = append(list, start(replies+uint32(i*0x10), codec.Frame{Command: c, Recipient: 0x60}))
	}
	list = append(list, start(replies+0x100, codec.Frame{Command: codec.DeviceRequest, Recipient: 0x04}))

	b.run(list...)
	test.ExpectEquality(t, b.m.LastPass.XferIn, uint64(0))
	b.complete()

	for i := range cmds {
		test.ExpectEquality(t, b.ram.Read32(replies+uint32(i*0x10)), codec.NoDevice)
	}
	test.ExpectEquality(t, b.ram.Read32(replies+0x100), codec.NoDevice)
}

func TestUnknownCommand(t *testing.T) {
	b := newBench(t)
	b.run(start(replies, codec.Frame{Command: 0x55, Recipient: 0x20, Payload: []uint32{1, 2}}))
	b.complete()
	test.ExpectEquality(t, b.ram.Read32(replies), header(codec.UnknownCmd, 0x00, 0x23, 0))
}

func TestSubDevice(t *testing.T) {
	b := newBench(t)
	b.run(start(replies, codec.Frame{Command: codec.DeviceRequest, Recipient: 0x01, Sender: 0x00}))
	b.complete()

	r := b.reply(replies, 2)
	test.ExpectEquality(t, r[0]&0x00ffffff, header(codec.DeviceStatus, 0x00, 0x01, 0))
	test.ExpectEquality(t, r[1]&codec.FuncStorage, codec.FuncStorage)
}

func TestByteSwap(t *testing.T) {
	b := newBench(t)
	b.m.WriteMMSEL(0)

	b.write(true, start(replies, codec.Frame{Command: codec.DeviceRequest, Recipient: 0x20}))
	b.m.WriteMDSTAR(descriptors)
	b.m.WriteMDEN(1)
	b.m.WriteMDST(1)
	b.complete()

	r := b.reply(replies, 2)
	test.ExpectEquality(t, r[0], codec.Swap32(header(codec.DeviceStatus, 0x00, 0x23, 28)))
	test.ExpectEquality(t, r[1], codec.Swap32(codec.FuncInput))
}

func TestDisabled(t *testing.T) {
	b := newBench(t)

	// start has no effect while DMA is disabled
	b.write(false, start(replies, codec.Frame{Command: codec.DeviceRequest, Recipient: 0x20}))
	b.m.WriteMDSTAR(descriptors)
	b.m.WriteMDST(1)
	test.ExpectEquality(t, b.m.Busy(), false)
	test.ExpectEquality(t, b.sched.Pending(scheduler.MapleDMA), false)

	// disabling during the pass discards the replies
	b.run(start(replies, codec.Frame{Command: codec.DeviceRequest, Recipient: 0x20}))
	b.m.WriteMDEN(0)
	b.complete()
	test.ExpectEquality(t, b.m.Busy(), false)
	test.ExpectEquality(t, b.irq.count(maple.InterruptDMADone), 0)
	test.ExpectEquality(t, b.ram.Read32(replies), uint32(0))
	test.ExpectEquality(t, b.m.PendingOutput(), 0)
}

func TestDescriptorLimit(t *testing.T) {
	b := newBench(t)
	test.DemandSuccess(t, b.env.Prefs.MaxDescriptors.Set(8))

	// a list of NOPs with no last descriptor
	nop := codec.Header{Opcode: codec.NOP, Words: 1}.Encode()
	for i := 0; i < 32; i++ {
		b.ram.Write32(descriptors+uint32(i*4), nop)
	}
	b.m.WriteMDSTAR(descriptors)
	b.m.WriteMDEN(1)
	b.m.WriteMDST(1)

	test.ExpectEquality(t, b.m.LastPass.Descriptors, 8)
	test.ExpectEquality(t, b.m.LastPass.Terminated, false)

	// the pass still completes
	b.complete()
	test.ExpectEquality(t, b.irq.count(maple.InterruptDMADone), 1)
}

func TestOpcodes(t *testing.T) {
	b := newBench(t)

	// reset, an unused opcode and a NOP each take a single word
	b.ram.Write32(descriptors, codec.Header{Opcode: codec.Reset, Words: 1}.Encode())
	b.ram.Write32(descriptors+4, codec.Header{Opcode: 5, Words: 8}.Encode())
	b.ram.Write32(descriptors+8, codec.Header{Opcode: codec.SDCKBOccupyCancel, Words: 1}.Encode())
	b.ram.Write32(descriptors+12, codec.Header{Opcode: codec.NOP, Words: 1}.Encode())
	f := codec.Frame{Command: codec.DeviceRequest, Recipient: 0x20}
	b.ram.WriteWords(descriptors+16, []uint32{codec.Header{Last: true, Opcode: codec.Start, Words: 1}.Encode(), replies})
	b.ram.WriteWords(descriptors+24, f.Words())

	b.m.WriteMDSTAR(descriptors)
	b.m.WriteMDEN(1)
	b.m.WriteMDST(1)

	test.ExpectEquality(t, b.m.LastPass.Descriptors, 5)
	test.ExpectEquality(t, b.m.LastPass.Frames, 1)

	// the reset adds a single byte
	test.ExpectEquality(t, b.m.LastPass.XferIn, uint64(1+4+3))
}

func TestOverrun(t *testing.T) {
	b := newBench(t)

	// a destination outside of RAM
	b.run(start(0x00001000, codec.Frame{Command: codec.DeviceRequest, Recipient: 0x20}))
	b.complete()
	test.ExpectEquality(t, b.irq.count(maple.InterruptOverrun), 1)
	test.ExpectEquality(t, b.irq.count(maple.InterruptDMADone), 1)
}

func TestVBlankTrigger(t *testing.T) {
	b := newBench(t)
	b.write(false, start(replies, codec.Frame{Command: codec.DeviceRequest, Recipient: 0x20}))
	b.m.WriteMDSTAR(descriptors)
	b.m.WriteMDTSEL(1)
	b.m.WriteMDEN(1)

	// manual reset of the trigger
	b.m.WriteMSYS(b.m.Registers.MSYS | 1<<12)

	b.m.VBlank()
	test.ExpectEquality(t, b.sched.Pending(scheduler.MapleDMA), true)
	b.complete()
	test.ExpectEquality(t, b.irq.count(maple.InterruptDMADone), 1)

	// the trigger must be reset before the next pass
	b.m.VBlank()
	test.ExpectEquality(t, b.sched.Pending(scheduler.MapleDMA), false)

	b.m.WriteMSHTCL(1)
	b.m.VBlank()
	test.ExpectEquality(t, b.sched.Pending(scheduler.MapleDMA), true)
}

type pointer struct {
	x, y int
}

func (p *pointer) LightgunPosition(x int, y int) {
	p.x = x
	p.y = y
}

type gunHost struct {
	maple.MemoryHost
	ptr *pointer
}

func (h *gunHost) Configure(kind devices.Kind, cfg *devices.Config) error {
	cfg.Pointer = h.ptr
	return h.MemoryHost.Configure(kind, cfg)
}

type gunInput struct{}

func (gunInput) Input(_ int) devices.Input {
	in := devices.NeutralInput()
	in.AbsX = 100
	in.AbsY = 200
	return in
}

func TestOccupy(t *testing.T) {
	env := environment.NewEnvironment(nil, nil)
	env.Normalise()
	test.DemandSuccess(t, env.Prefs.Bus[0].Main.Set("lightgun"))
	test.DemandSuccess(t, env.Prefs.Bus[0].Expansion[0].Set("none"))

	ram := memory.NewRAM()
	sched := scheduler.NewScheduler()
	irq := &interrupts{}
	host := &gunHost{ptr: &pointer{}}
	host.Input = gunInput{}

	m := maple.NewMaple(env, ram, sched, irq, host)
	test.DemandSuccess(t, m.CreateDevices())

	f := codec.Frame{Command: codec.GetCondition, Recipient: 0x20, Payload: []uint32{codec.FuncInput}}
	ram.Write32(descriptors, codec.Header{Opcode: codec.SDCKBOccupy, Words: 1, Bus: 0}.Encode())
	ram.WriteWords(descriptors+4, []uint32{codec.Header{Last: true, Opcode: codec.Start, Words: 2}.Encode(), replies})
	ram.WriteWords(descriptors+12, f.Words())

	m.WriteMDSTAR(descriptors)
	m.WriteMDEN(1)
	m.WriteMDST(1)

	// completion is deferred to the next vblank
	test.ExpectEquality(t, m.LastPass.Delay, uint64(0))
	test.ExpectEquality(t, sched.Pending(scheduler.MapleDMA), false)
	test.ExpectEquality(t, *host.ptr, pointer{x: 100, y: 200})

	m.VBlank()
	test.ExpectEquality(t, irq.count(maple.InterruptDMADone), 1)
	test.ExpectEquality(t, ram.Read32(replies)&0xff, uint32(codec.DataTransfer))
}

func TestStrictAddressing(t *testing.T) {
	b := newBench(t)
	test.DemandSuccess(t, b.env.Prefs.StrictAddressing.Set(true))

	// the protected window is empty after reset
	b.m.WriteMDSTAR(descriptors)
	test.ExpectEquality(t, b.irq.count(maple.InterruptIllegalAddress), 1)

	// writes without the key are ignored
	b.m.WriteMDAPRO(0x0000407f)
	test.ExpectEquality(t, b.m.Registers.MDAPRO, uint32(0x7f00))

	b.m.WriteMDAPRO(0x6155407f)
	test.ExpectEquality(t, b.m.Registers.MDAPRO, uint32(0x407f))

	b.run(start(replies, codec.Frame{Command: codec.DeviceRequest, Recipient: 0x20}))
	test.ExpectEquality(t, b.irq.count(maple.InterruptIllegalAddress), 1)
	b.complete()
	test.ExpectEquality(t, b.irq.count(maple.InterruptDMADone), 1)
	test.ExpectEquality(t, b.ram.Read32(replies)&0xff, uint32(codec.DeviceStatus))
}

type monitor struct {
	events []string
}

func (m *monitor) Plugged(addr maple.Address, kind devices.Kind) {
	m.events = append(m.events, addr.String()+":"+kind.String())
}

func TestPlugging(t *testing.T) {
	b := newBench(t)
	b.m.Registry.Clear()

	mon := &monitor{}
	b.m.Registry.AttachPlugMonitor(mon)

	// no main device
	err := b.m.Plug(1, 0, devices.KindVMU)
	test.ExpectEquality(t, curated.Is(err, maple.NoHub), true)

	// wrong slot for the kind
	err = b.m.Plug(1, codec.MainPort, devices.KindVMU)
	test.ExpectEquality(t, curated.Is(err, maple.WrongSlot), true)
	err = b.m.Plug(1, 0, devices.KindController)
	test.ExpectEquality(t, curated.Is(err, maple.WrongSlot), true)
	err = b.m.Plug(1, 7, devices.KindController)
	test.ExpectEquality(t, curated.Is(err, maple.SlotOutOfRange), true)

	test.DemandSuccess(t, b.m.Plug(1, codec.MainPort, devices.KindController))
	test.DemandSuccess(t, b.m.Plug(1, 0, devices.KindVMU))
	test.DemandSuccess(t, b.m.Plug(1, 1, devices.KindPurupuru))
	test.ExpectEquality(t, b.m.Registry.AttachedMask(1), uint8(0x03))
	test.ExpectEquality(t, b.m.Registry.AttachedMask(0), uint8(0x00))

	// replacing the main device keeps the sub-devices
	test.DemandSuccess(t, b.m.Plug(1, codec.MainPort, devices.KindTwinStick))
	test.ExpectEquality(t, b.m.Registry.Kind(maple.Address{Bus: 1, Port: 0}), devices.KindVMU)

	// unplugging the main device unplugs the sub-devices
	b.m.Unplug(1, codec.MainPort)
	test.ExpectEquality(t, b.m.Registry.AttachedMask(1), uint8(0x00))
	test.ExpectEquality(t, b.m.Registry.HasHub(1), false)
	test.ExpectEquality(t, b.m.Registry.String(), "no devices")

	test.ExpectEquality(t, strings.Join(mon.events, " "),
		"B:controller B1:vmu B2:purupuru B:twinstick B1:none B2:none B:none")
}

func TestCreateDevices(t *testing.T) {
	b := newBench(t)
	test.ExpectEquality(t, b.m.Registry.String(), "A:controller A1:vmu A2:purupuru")

	// a light gun has a single expansion slot
	test.DemandSuccess(t, b.env.Prefs.Bus[0].Main.Set("lightgun"))
	test.DemandSuccess(t, b.env.Prefs.Bus[2].Main.Set("keyboard"))
	test.DemandSuccess(t, b.env.Prefs.Bus[2].Expansion[0].Set("vmu"))
	test.DemandSuccess(t, b.m.CreateDevices())
	test.ExpectEquality(t, b.m.Registry.String(), "A:lightgun A1:vmu C:keyboard")

	test.DemandSuccess(t, b.env.Prefs.Platform.Set("arcade"))
	test.DemandSuccess(t, b.m.CreateDevices())
	test.ExpectEquality(t, b.m.Registry.String(), "A:jvs B:controller B1:vmu C:controller C1:vmu")

	test.DemandSuccess(t, b.env.Prefs.ArcadeKeyboards.Set(true))
	test.DemandSuccess(t, b.m.CreateDevices())
	test.ExpectEquality(t, b.m.Registry.String(), "A:jvs B:keyboard C:keyboard")
}

func TestArcadeHub(t *testing.T) {
	b := newBench(t)
	test.DemandSuccess(t, b.env.Prefs.Platform.Set("arcade"))
	test.DemandSuccess(t, b.m.CreateDevices())

	b.run(start(replies, codec.Frame{Command: codec.JVSGetId, Recipient: 0x20}))
	b.complete()

	// the identification is split over two frames
	r := b.reply(replies, 14)
	test.ExpectEquality(t, r[0], header(codec.JVSGetIdReply, 0x00, 0x20, 7))
	test.ExpectEquality(t, r[8], header(codec.JVSGetIdReply, 0x00, 0x20, 5))
}

func TestReconnect(t *testing.T) {
	b := newBench(t)
	b.m.ReconnectDevices()
	test.ExpectEquality(t, b.m.Registry.String(), "no devices")
	test.ExpectEquality(t, b.m.ReconnectPending(), true)

	// too early
	b.m.VBlank()
	test.ExpectEquality(t, b.m.Registry.String(), "no devices")

	b.sched.Advance(clocks.Second / 10)
	test.ExpectEquality(t, b.m.Registry.String(), "no devices")
	b.m.VBlank()
	test.ExpectEquality(t, b.m.ReconnectPending(), false)
	test.ExpectEquality(t, b.m.Registry.String(), "A:controller A1:vmu A2:purupuru")
}

func TestSaveState(t *testing.T) {
	b := newBench(t)

	// write a block to the VMU and leave a pass waiting for completion
	blk := make([]uint32, 2+32)
	blk[0] = codec.FuncStorage
	blk[1] = codec.Swap32(0x00000010)
	for i := 2; i < len(blk); i++ {
		blk[i] = uint32(i)
	}
	b.run(start(replies, codec.Frame{Command: codec.BlockWrite, Recipient: 0x01, Payload: blk}))
	b.complete()
	b.run(start(replies, codec.Frame{Command: codec.DeviceRequest, Recipient: 0x20}))
	test.ExpectEquality(t, b.m.PendingOutput(), 1)

	data := b.m.Save()

	c := newBench(t)
	c.m.Registry.Clear()
	test.DemandSuccess(t, c.m.Load(data))
	test.ExpectEquality(t, c.m.PendingOutput(), 1)
	test.ExpectEquality(t, c.m.Registry.String(), "A:controller A1:vmu A2:purupuru")
	test.ExpectBytes(t, c.m.Save(), data)

	d, _ := c.m.Registry.Get(maple.Address{Bus: 0, Port: 0})
	e, _ := b.m.Registry.Get(maple.Address{Bus: 0, Port: 0})
	test.ExpectEquality(t, d.(*devices.VMU).Digest(), e.(*devices.VMU).Digest())

	// the state must be consumed exactly
	err := c.m.Load(data[:len(data)-1])
	test.ExpectEquality(t, curated.Is(err, savestate.SizeMismatch), true)
	err = c.m.Load(append(append([]byte{}, data...), 0))
	test.ExpectEquality(t, curated.Is(err, savestate.SizeMismatch), true)
}

func TestTruncatedLoad(t *testing.T) {
	b := newBench(t)
	data := b.m.Save()

	// an empty bus stays empty
	c := newBench(t)
	c.m.Unplug(0, codec.MainPort)
	test.DemandEquality(t, c.m.Registry.String(), "no devices")
	err := c.m.Load(data[:len(data)-100])
	test.ExpectSuccess(t, curated.Is(err, savestate.SizeMismatch))
	test.ExpectEquality(t, c.m.Registry.String(), "no devices")

	// a populated bus keeps its devices
	d := newBench(t)
	d.m.Unplug(0, 1)
	err = d.m.Load(data[:len(data)-100])
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, d.m.Registry.String(), "A:controller A1:vmu")

	// the data is still good for a complete load
	test.DemandSuccess(t, d.m.Load(data))
	test.ExpectEquality(t, d.m.Registry.String(), "A:controller A1:vmu A2:purupuru")
}

func TestLoadCompletesPendingPass(t *testing.T) {
	b := newBench(t)
	b.run(start(replies, codec.Frame{Command: codec.DeviceRequest, Recipient: 0x20}))
	test.DemandEquality(t, b.m.PendingOutput(), 1)
	data := b.m.Save()

	c := newBench(t)
	test.DemandSuccess(t, c.m.Load(data))
	test.ExpectEquality(t, c.m.PendingOutput(), 1)
	test.ExpectEquality(t, c.m.Busy(), true)
	test.ExpectEquality(t, c.sched.Pending(scheduler.MapleDMA), true)

	b.complete()
	c.m.WriteMDEN(1)
	c.sched.Advance(clocks.Second)

	test.ExpectEquality(t, c.m.PendingOutput(), 0)
	test.ExpectEquality(t, c.irq.count(maple.InterruptDMADone), 1)
	test.ExpectEquality(t, c.reply(replies, 1)[0], b.reply(replies, 1)[0])

	// a state without output leaves nothing scheduled
	data = b.m.Save()
	test.DemandSuccess(t, c.m.Load(data))
	test.ExpectEquality(t, c.sched.Pending(scheduler.MapleDMA), false)
	test.ExpectEquality(t, c.m.Busy(), false)
}

func TestSaveStateV1(t *testing.T) {
	b := newBench(t)

	// version tag, pending reset flag and an empty slot table
	data := []byte{0x01, 0x00, 0x00, 0x00, 0x00}
	for i := 0; i < maple.NumBuses*codec.NumPorts; i++ {
		data = append(data, uint8(devices.KindNone))
	}

	test.DemandSuccess(t, b.m.Load(data))
	test.ExpectEquality(t, b.m.PendingOutput(), 0)
	test.ExpectEquality(t, b.m.Registry.String(), "no devices")
}

func TestDump(t *testing.T) {
	b := newBench(t)
	buf := &bytes.Buffer{}
	b.m.Dump(buf)
	test.ExpectSuccess(t, strings.Contains(buf.String(), "digraph"))
}
