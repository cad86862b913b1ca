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
	"github.com/jetsetilly/maplebus/hardware/maple/jvs"
	"github.com/jetsetilly/maplebus/hardware/preferences"
	"github.com/jetsetilly/maplebus/logger"
)

// Sentinal error patterns for device creation.
const (
	UnknownDeviceType = "maple: unknown device type: %v"
	WrongSlot         = "maple: %v can not be attached to %s"
)

// the number of expansion slots a main device provides
func expansionSlots(kind devices.Kind) int {
	switch kind {
	case devices.KindController, devices.KindControllerXL:
		return 2
	case devices.KindLightGun, devices.KindTwinStick, devices.KindAsciiStick:
		return 1
	}
	return 0
}

// the player whose input is used by a device. arcade keyboards are on the
// second and third buses but are used by the first and second players
func (m *Maple) defaultPlayer(addr Address, kind devices.Kind) int {
	if kind == devices.KindKeyboard && m.env.Prefs.Platform.String() == preferences.PlatformArcade {
		return max(addr.Bus-1, 0)
	}
	return addr.Bus
}

func (m *Maple) newDevice(kind devices.Kind, addr Address, player int) (devices.Device, error) {
	cfg := devices.Config{
		Env:    m.env,
		Bus:    addr.Bus,
		Port:   addr.Port,
		Player: player,
	}

	err := m.host.Configure(kind, &cfg)
	if err != nil {
		return nil, curated.Errorf("maple: %v", err)
	}

	if kind == devices.KindJVS {
		return jvs.NewHub(cfg), nil
	}

	d, err := devices.Create(kind, cfg)
	if err != nil {
		return nil, curated.Errorf(UnknownDeviceType, kind)
	}
	return d, nil
}

// Plug a device into the slot. Any device already in the slot is removed
// first. Expansion devices can only be plugged into a sub-port and only when
// the main slot of the bus is occupied. The main device uses the input of the
// player with the same number as the bus.
//
// Plugging KindNone is the same as calling Unplug().
func (m *Maple) Plug(bus int, port int, kind devices.Kind) error {
	return m.plug(Address{Bus: bus, Port: port}, kind, bus)
}

func (m *Maple) plug(addr Address, kind devices.Kind, player int) error {
	if !addr.Valid() {
		return curated.Errorf(SlotOutOfRange, addr.Bus, addr.Port)
	}
	if kind == devices.KindNone {
		m.Registry.Remove(addr)
		return nil
	}

	main := addr.Port == codec.MainPort
	if main == kind.IsExpansion() {
		return curated.Errorf(WrongSlot, kind, addr)
	}
	if !main && !m.Registry.HasHub(addr.Bus) {
		return curated.Errorf(NoHub, addr.Bus)
	}

	d, err := m.newDevice(kind, addr, player)
	if err != nil {
		return err
	}

	// replacing a main device keeps the sub-devices
	if old, ok := m.Registry.Get(addr); ok {
		old.Destroy()
		m.Registry.slots[addr.Bus][addr.Port] = nil
	}

	return m.Registry.Insert(addr, d)
}

// Unplug the device in the slot. Unplugging the main device of a bus also
// unplugs the sub-devices.
func (m *Maple) Unplug(bus int, port int) {
	m.Registry.Remove(Address{Bus: bus, Port: port})
}

// CreateDevices removes all devices and creates new devices according to the
// preferences for the platform.
func (m *Maple) CreateDevices() error {
	m.Registry.Clear()

	switch m.env.Prefs.Platform.String() {
	case preferences.PlatformArcade:
		return m.createArcadeDevices()
	}
	return m.createConsoleDevices()
}

func (m *Maple) createConsoleDevices() error {
	for bus := 0; bus < NumBuses; bus++ {
		p := &m.env.Prefs.Bus[bus]

		kind, ok := devices.ParseKind(p.Main.String())
		if !ok {
			logger.Logf(m.env, "maple", "invalid device type for bus %d: %s", bus, p.Main.String())
			continue
		}
		if kind == devices.KindNone {
			continue
		}

		err := m.Plug(bus, codec.MainPort, kind)
		if err != nil {
			return err
		}

		for e := 0; e < expansionSlots(kind) && e < len(p.Expansion); e++ {
			ek, ok := devices.ParseKind(p.Expansion[e].String())
			if !ok {
				logger.Logf(m.env, "maple", "invalid expansion type for %s: %s", Address{Bus: bus, Port: e}, p.Expansion[e].String())
				continue
			}
			err := m.Plug(bus, e, ek)
			if err != nil {
				return err
			}
		}
	}

	logger.Logf(m.env, "maple", "devices: %s", m.Registry)
	return nil
}

// the arcade board has the I/O hub on the first bus. the other buses have
// controllers with a VMU each or keyboards
func (m *Maple) createArcadeDevices() error {
	err := m.Plug(0, codec.MainPort, devices.KindJVS)
	if err != nil {
		return err
	}

	for bus := 1; bus <= 2; bus++ {
		if m.env.Prefs.ArcadeKeyboards.Get().(bool) {
			addr := Address{Bus: bus, Port: codec.MainPort}
			err = m.plug(addr, devices.KindKeyboard, m.defaultPlayer(addr, devices.KindKeyboard))
			if err != nil {
				return err
			}
			continue
		}

		err = m.Plug(bus, codec.MainPort, devices.KindController)
		if err != nil {
			return err
		}
		err = m.Plug(bus, 0, devices.KindVMU)
		if err != nil {
			return err
		}
	}

	logger.Logf(m.env, "maple", "devices: %s", m.Registry)
	return nil
}
