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
	"github.com/jetsetilly/maplebus/curated"
	"github.com/jetsetilly/maplebus/hardware/maple/codec"
	"github.com/jetsetilly/maplebus/hardware/maple/devices"
	"github.com/jetsetilly/maplebus/hardware/maple/savestate"
	"github.com/jetsetilly/maplebus/hardware/scheduler"
)

// the largest reply that can be recorded in a save state. the frame header
// word and 255 payload words
const maxOutputWords = 256

// Serialize the bus. The DMA registers and the time of a scheduled
// completion are not included. Replies still waiting to be written are kept
// and a completion is scheduled for them when the state is loaded.
func (m *Maple) Serialize(s *savestate.Serializer) {
	s.Bool(m.pendingReset)

	s.U32(uint32(len(m.out)))
	for _, o := range m.out {
		s.U32(o.address)
		s.U32(uint32(len(o.data)))
		s.Words(o.data)
	}

	for b := 0; b < NumBuses; b++ {
		for p := 0; p < codec.NumPorts; p++ {
			d, ok := m.Registry.Get(Address{Bus: b, Port: p})
			if !ok {
				s.U8(uint8(devices.KindNone))
				continue
			}
			s.U8(uint8(d.Kind()))
			d.Serialize(s)
		}
	}
}

// Save returns the serialized state of the bus.
func (m *Maple) Save() []byte {
	s := savestate.NewSerializer()
	m.Serialize(s)
	return s.Data()
}

// the bus state read from a save state before it replaces the current state
type restored struct {
	pendingReset bool
	out          []output
	slots        [NumBuses][codec.NumPorts]devices.Device
}

func (r *restored) destroy() {
	for b := range r.slots {
		for p := range r.slots[b] {
			if d := r.slots[b][p]; d != nil {
				d.Destroy()
			}
		}
	}
}

func (m *Maple) restore(d *savestate.Deserializer) (*restored, error) {
	r := &restored{}
	r.pendingReset = d.Bool()

	if d.Version() >= savestate.V2 {
		n := int(d.U32())
		for i := 0; i < n && d.Err() == nil; i++ {
			addr := d.U32()
			size := int(d.U32())
			if size > maxOutputWords {
				return r, curated.Errorf(savestate.Corrupt, "dma output too large")
			}
			o := output{address: addr, data: make([]uint32, size)}
			d.Words(o.data)
			r.out = append(r.out, o)
		}
	}

	for b := 0; b < NumBuses; b++ {
		for p := 0; p < codec.NumPorts; p++ {
			kind := devices.Kind(d.U8())
			if d.Err() != nil {
				return r, d.Err()
			}
			if kind == devices.KindNone {
				continue
			}

			addr := Address{Bus: b, Port: p}
			dev, err := m.newDevice(kind, addr, m.defaultPlayer(addr, kind))
			if err != nil {
				return r, err
			}
			r.slots[b][p] = dev
			dev.Deserialize(d)
		}
	}

	// expansion devices are only meaningful with a main device
	for b := range r.slots {
		if r.slots[b][codec.MainPort] != nil {
			continue
		}
		for p := 0; p < codec.MainPort; p++ {
			if r.slots[b][p] != nil {
				return r, curated.Errorf(savestate.Corrupt, "expansion device without main device")
			}
		}
	}

	return r, d.Err()
}

// replace the current registry and dma output with the restored state
func (m *Maple) commit(r *restored) {
	m.Registry.Clear()

	m.pendingReset = r.pendingReset
	m.out = append(m.out[:0], r.out...)

	for b := range r.slots {
		for p := range r.slots[b] {
			if dev := r.slots[b][p]; dev != nil {
				m.Registry.slots[b][p] = dev
				if m.Registry.monitor != nil {
					m.Registry.monitor.Plugged(Address{Bus: b, Port: p}, dev.Kind())
				}
			}
		}
	}

	m.occupied = false

	// a pass was in flight when the state was saved
	if len(m.out) > 0 {
		var n uint64
		for _, o := range m.out {
			n += uint64(len(o.data) * 4)
		}
		m.Registers.MDST = 1
		m.sched.ScheduleEvent(scheduler.MapleDMA, transferCycles(0, n))
	} else {
		m.Registers.MDST = 0
		m.sched.DescheduleEvent(scheduler.MapleDMA)
	}

	m.resume()
}

// destroying a device can stop a host collaborator that is shared with
// another device. resume restarts the collaborators of installed devices
func (m *Maple) resume() {
	m.Registry.Devices(func(_ Address, d devices.Device) {
		if r, ok := d.(devices.Resumer); ok {
			r.Resume()
		}
	})
}

// Deserialize the bus. Devices are created from the state and replace the
// current devices only if the whole state could be read. On error the bus is
// unchanged.
func (m *Maple) Deserialize(d *savestate.Deserializer) error {
	return m.deserialize(d, false)
}

func (m *Maple) deserialize(d *savestate.Deserializer, exact bool) error {
	r, err := m.restore(d)
	if err == nil && exact {
		err = d.Finish()
	}
	if err != nil {
		r.destroy()
		m.resume()
		return err
	}
	m.commit(r)
	return nil
}

// Load restores the state returned by Save(). The state must be consumed
// exactly. On error the bus is unchanged.
func (m *Maple) Load(data []byte) error {
	d, err := savestate.NewDeserializer(data)
	if err != nil {
		return err
	}
	return m.deserialize(d, true)
}
