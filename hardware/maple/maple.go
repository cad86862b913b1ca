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

	"github.com/jetsetilly/maplebus/environment"
	"github.com/jetsetilly/maplebus/hardware/clocks"
	"github.com/jetsetilly/maplebus/hardware/memory"
	"github.com/jetsetilly/maplebus/hardware/scheduler"
	"github.com/jetsetilly/maplebus/logger"
)

// Interrupt raised by the Maple DMA controller.
type Interrupt int

// List of valid Interrupt values.
const (
	InterruptDMADone Interrupt = iota
	InterruptOverrun
	InterruptIllegalAddress
)

func (i Interrupt) String() string {
	switch i {
	case InterruptDMADone:
		return "maple dma"
	case InterruptOverrun:
		return "maple overrun"
	case InterruptIllegalAddress:
		return "maple illegal address"
	}
	return fmt.Sprintf("interrupt %d", int(i))
}

// InterruptController is the part of the system that receives interrupts
// from the Maple bus.
type InterruptController interface {
	RaiseInterrupt(Interrupt)
}

// the delay between ReconnectDevices() and the devices being recreated.
const reconnectDelay = clocks.Second / 10

// Maple is the Maple bus. It is made up of the DMA controller, the registry
// of attached devices and the host collaborators used to create devices.
type Maple struct {
	env   *environment.Environment
	mem   memory.DMABus
	sched *scheduler.Scheduler
	irq   InterruptController
	host  Host

	Registry  *Registry
	Registers Registers

	// the vblank trigger has fired and must be reset before it can fire
	// again. only used when MSYS bit 12 is set
	pendingReset bool

	// a device has occupied the bus and the completion of the pass is
	// deferred to the next vblank
	occupied bool

	// replies waiting for the completion of the pass
	out []output

	// devices have been destroyed by ReconnectDevices() and are waiting to
	// be recreated. recreation happens on the first vblank after the
	// reconnection event has fired
	reconnecting bool
	reconnectDue bool

	// summary of the most recent pass
	LastPass Pass
}

// NewMaple is the preferred method of initialisation for the Maple type. The
// registry is empty until CreateDevices() is called.
func NewMaple(env *environment.Environment, mem memory.DMABus, sched *scheduler.Scheduler, irq InterruptController, host Host) *Maple {
	if host == nil {
		host = &FileHost{}
	}

	m := &Maple{
		env:      env,
		mem:      mem,
		sched:    sched,
		irq:      irq,
		host:     host,
		Registry: NewRegistry(),
	}

	m.sched.RegisterEvent(scheduler.MapleDMA, m.complete)
	m.sched.RegisterEvent(scheduler.MapleReconnect, func() {
		m.reconnectDue = true
	})
	m.Reset()

	return m
}

func (m *Maple) String() string {
	return m.Registers.String()
}

// Reset the DMA controller. Devices are not affected.
func (m *Maple) Reset() {
	m.Registers.reset(m.env.Prefs.SwapMSB.Get().(bool))
	m.pendingReset = false
	m.occupied = false
	m.out = m.out[:0]
	m.sched.DescheduleEvent(scheduler.MapleDMA)
}

func (m *Maple) raise(i Interrupt) {
	if m.irq != nil {
		m.irq.RaiseInterrupt(i)
	}
}

// Busy returns true while a pass is in progress. A pass is in progress from
// the start of the DMA until the completion interrupt.
func (m *Maple) Busy() bool {
	return m.Registers.MDST&1 == 1
}

// WriteMDST writes to the MDST register. Writing one starts a pass if DMA is
// enabled.
func (m *Maple) WriteMDST(v uint32) {
	if v&1 == 1 && m.Registers.MDEN&1 == 1 {
		m.Registers.MDST = 1
		m.pass()
	}
}

// WriteMDEN writes to the MDEN register. Clearing the register does not stop a
// pass that is in progress.
func (m *Maple) WriteMDEN(v uint32) {
	m.Registers.MDEN = v & 1
	if v&1 == 0 && m.Registers.MDST != 0 {
		logger.Log(m.env, "maple: dma", "abort requested")
	}
}

// WriteMDTSEL writes to the MDTSEL register.
func (m *Maple) WriteMDTSEL(v uint32) {
	m.Registers.MDTSEL = v & 1
}

// WriteMDSTAR writes to the MDSTAR register. In strict mode an address outside
// of the protected window raises the illegal address interrupt.
func (m *Maple) WriteMDSTAR(v uint32) {
	m.Registers.MDSTAR = v & 0x1fffffe0
	if m.strict() && !m.Registers.protected(m.Registers.MDSTAR) {
		logger.Logf(m.env, "maple: dma", "illegal address: %08x (MDAPRO %04x)", m.Registers.MDSTAR, m.Registers.MDAPRO)
		m.raise(InterruptIllegalAddress)
	}
}

// WriteMSYS writes to the MSYS register.
func (m *Maple) WriteMSYS(v uint32) {
	m.Registers.MSYS = v
}

// WriteMSHTCL writes to the MSHTCL register.
func (m *Maple) WriteMSHTCL(v uint32) {
	if v&1 == 1 {
		m.pendingReset = false
	}
}

// WriteMDAPRO writes to the MDAPRO register. The write is ignored unless the
// upper half of the value is the unlock code.
func (m *Maple) WriteMDAPRO(v uint32) {
	if v>>16 == mdaproKey {
		m.Registers.MDAPRO = v & 0x7f7f
	}
}

// WriteMMSEL writes to the MMSEL register.
func (m *Maple) WriteMMSEL(v uint32) {
	m.Registers.MMSEL = v & 1
}

// VBlank should be called once per frame by the video hardware.
func (m *Maple) VBlank() {
	if m.Registers.MDEN&1 == 1 {
		if m.Registers.MDTSEL == 1 {
			if m.pendingReset {
				logger.Log(m.env, "maple: dma", "vblank trigger: reset pending")
			} else {
				m.Registers.MDST = 1
				m.pass()
				if (m.Registers.MSYS>>12)&1 == 1 {
					m.pendingReset = true
				}
			}
		} else {
			m.pendingReset = false
			if m.occupied {
				m.complete()
			}
		}
		m.occupied = false
	}

	m.handleReconnect()
}

// ReconnectDevices destroys every device. The devices are created again by
// the first VBlank() after a short delay.
func (m *Maple) ReconnectDevices() {
	m.Registry.Clear()
	m.reconnecting = true
	m.reconnectDue = false
	m.sched.ScheduleEvent(scheduler.MapleReconnect, reconnectDelay)
}

// ReconnectPending returns true if the devices are waiting to be recreated.
func (m *Maple) ReconnectPending() bool {
	return m.reconnecting
}

func (m *Maple) handleReconnect() {
	if !m.reconnectDue {
		return
	}
	m.reconnecting = false
	m.reconnectDue = false
	if err := m.CreateDevices(); err != nil {
		logger.Log(m.env, "maple", err)
	}
}

func (m *Maple) strict() bool {
	return m.env.Prefs.StrictAddressing.Get().(bool)
}
