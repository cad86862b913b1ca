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

	"github.com/jetsetilly/maplebus/curated"
	"github.com/jetsetilly/maplebus/hardware/maple/codec"
	"github.com/jetsetilly/maplebus/hardware/maple/devices"
	"github.com/jetsetilly/maplebus/hardware/preferences"
)

// NumBuses is the number of buses in the registry.
const NumBuses = preferences.NumBuses

// Sentinal error patterns for the registry.
const (
	NoHub          = "maple: no main device on bus %d"
	SlotOutOfRange = "maple: slot out of range (bus %d port %d)"
	SlotOccupied   = "maple: slot occupied (%s)"
)

// Address of a slot in the registry.
type Address struct {
	Bus  int
	Port int
}

func (a Address) String() string {
	return devices.LogicalPort(a.Bus, a.Port)
}

// Valid returns true if the address is inside the registry.
func (a Address) Valid() bool {
	return a.Bus >= 0 && a.Bus < NumBuses && a.Port >= 0 && a.Port < codec.NumPorts
}

// Recipient returns the recipient byte that addresses the slot. It is the
// inverse of Resolve().
func (a Address) Recipient() uint8 {
	return codec.Recipient(a.Bus, a.Port)
}

// Resolve the recipient byte of a command frame to a slot address.
func Resolve(recipient uint8) Address {
	return Address{
		Bus:  codec.BusFromRecipient(recipient),
		Port: codec.PortFromRecipient(recipient),
	}
}

// PlugMonitor is notified when devices are added to or removed from the
// registry. A kind of devices.KindNone means the slot has been cleared.
type PlugMonitor interface {
	Plugged(addr Address, kind devices.Kind)
}

// Registry is the table of devices attached to the buses. Each slot owns the
// device in it. Port 5 of each bus is the main device, ports 0 to 4 are the
// sub-devices of the main device.
//
// An expansion slot can only be occupied if the main slot of the same bus is
// occupied.
type Registry struct {
	slots   [NumBuses][codec.NumPorts]devices.Device
	monitor PlugMonitor
}

// NewRegistry is the preferred method of initialisation for the Registry type.
func NewRegistry() *Registry {
	return &Registry{}
}

// AttachPlugMonitor adds a monitor to the registry. Only one monitor can be
// attached. A nil value removes the monitor.
func (r *Registry) AttachPlugMonitor(m PlugMonitor) {
	r.monitor = m
}

func (r *Registry) String() string {
	s := ""
	for b := range r.slots {
		// main device first
		for _, p := range []int{codec.MainPort, 0, 1, 2, 3, 4} {
			if d := r.slots[b][p]; d != nil {
				s = fmt.Sprintf("%s%s:%s ", s, Address{Bus: b, Port: p}, d.Kind())
			}
		}
	}
	if s == "" {
		return "no devices"
	}
	return s[:len(s)-1]
}

// Get returns the device at the address. The second return value is false
// if the slot is empty or the address is not valid.
func (r *Registry) Get(addr Address) (devices.Device, bool) {
	if !addr.Valid() {
		return nil, false
	}
	d := r.slots[addr.Bus][addr.Port]
	return d, d != nil
}

// Kind returns the kind of device at the address. KindNone is returned for an
// empty slot.
func (r *Registry) Kind(addr Address) devices.Kind {
	if d, ok := r.Get(addr); ok {
		return d.Kind()
	}
	return devices.KindNone
}

// HasHub returns true if the main slot of the bus is occupied.
func (r *Registry) HasHub(bus int) bool {
	_, ok := r.Get(Address{Bus: bus, Port: codec.MainPort})
	return ok
}

// AttachedMask returns the bit mask of occupied sub-device ports on the bus.
func (r *Registry) AttachedMask(bus int) uint8 {
	if bus < 0 || bus >= NumBuses {
		return 0
	}
	var m uint8
	for p := 0; p < codec.MainPort; p++ {
		if r.slots[bus][p] != nil {
			m |= 1 << p
		}
	}
	return m
}

// Target returns the device that should receive a frame with the recipient
// byte. A device is only reachable if the main device of the bus is present.
func (r *Registry) Target(recipient uint8) (devices.Device, Address, bool) {
	addr := Resolve(recipient)
	if !r.HasHub(addr.Bus) {
		return nil, addr, false
	}
	d, ok := r.Get(addr)
	return d, addr, ok
}

// Insert a device into an empty slot.
func (r *Registry) Insert(addr Address, d devices.Device) error {
	if !addr.Valid() {
		return curated.Errorf(SlotOutOfRange, addr.Bus, addr.Port)
	}
	if r.slots[addr.Bus][addr.Port] != nil {
		return curated.Errorf(SlotOccupied, addr)
	}
	if addr.Port != codec.MainPort && !r.HasHub(addr.Bus) {
		return curated.Errorf(NoHub, addr.Bus)
	}

	r.slots[addr.Bus][addr.Port] = d
	if r.monitor != nil {
		r.monitor.Plugged(addr, d.Kind())
	}
	return nil
}

// Remove the device from the slot. The device is destroyed. Removing the main
// device of a bus also removes the sub-devices.
func (r *Registry) Remove(addr Address) {
	if !addr.Valid() {
		return
	}

	if addr.Port == codec.MainPort {
		for p := 0; p < codec.MainPort; p++ {
			r.Remove(Address{Bus: addr.Bus, Port: p})
		}
	}

	d := r.slots[addr.Bus][addr.Port]
	if d == nil {
		return
	}
	d.Destroy()
	r.slots[addr.Bus][addr.Port] = nil

	if r.monitor != nil {
		r.monitor.Plugged(addr, devices.KindNone)
	}
}

// Clear removes every device in the registry.
func (r *Registry) Clear() {
	for b := range r.slots {
		r.Remove(Address{Bus: b, Port: codec.MainPort})
	}
}

// Devices calls the function for every device in the registry, in bus and
// then port order.
func (r *Registry) Devices(f func(addr Address, d devices.Device)) {
	for b := range r.slots {
		for p := range r.slots[b] {
			if d := r.slots[b][p]; d != nil {
				f(Address{Bus: b, Port: p}, d)
			}
		}
	}
}
