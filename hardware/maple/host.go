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
	"path/filepath"

	"github.com/jetsetilly/maplebus/hardware/maple/devices"
)

// Host supplies the collaborators of a device when it is created. The Env,
// Bus, Port and Player fields of the Config are filled in before Configure()
// is called.
type Host interface {
	Configure(kind devices.Kind, cfg *devices.Config) error
}

// JVSEEPROMFilename is the name of the file containing the EEPROM of the
// arcade I/O hub.
const JVSEEPROMFilename = "jvs_eeprom.bin"

// FileHost is the default Host implementation. Device storage is kept in
// files. Collaborators that are left nil are replaced by null
// implementations when the device is created.
type FileHost struct {
	Input   devices.InputSource
	Beeper  devices.Beeper
	Sound   devices.SoundSource
	Pointer devices.Pointer

	// per-player and per-slot collaborators. the functions may be nil or
	// may return nil
	Rumbler func(player int) devices.Rumbler
	Display func(bus int, port int) devices.Display
	Link    func(bus int) devices.Link

	// directory for storage files. the StoragePath() of the preferences is
	// used if the field is empty
	Dir string
}

// Configure implements the Host interface.
func (h *FileHost) Configure(kind devices.Kind, cfg *devices.Config) error {
	cfg.Input = h.Input
	cfg.Beeper = h.Beeper
	cfg.Sound = h.Sound
	cfg.Pointer = h.Pointer
	if h.Rumbler != nil {
		cfg.Rumbler = h.Rumbler(cfg.Player)
	}
	if h.Display != nil {
		cfg.Display = h.Display(cfg.Bus, cfg.Port)
	}
	if h.Link != nil {
		cfg.Link = h.Link(cfg.Bus)
	}

	var fn string
	switch kind {
	case devices.KindVMU, devices.KindMirrorVMU:
		fn = devices.VMUFilename(cfg.Bus, cfg.Port)
	case devices.KindRFID:
		fn = devices.RFIDFilename(cfg.Player)
	case devices.KindJVS:
		fn = JVSEEPROMFilename
	default:
		return nil
	}

	dir := h.Dir
	if dir == "" {
		var err error
		dir, err = cfg.Env.Prefs.StoragePath()
		if err != nil {
			return err
		}
	}
	cfg.Storage = devices.NewFileStorage(filepath.Join(dir, fn))

	return nil
}

// MemoryHost is a Host that keeps device storage in memory. Storage for a
// slot survives the destruction of the device in the slot.
type MemoryHost struct {
	Input devices.InputSource

	storage map[Address]*devices.MemoryStorage
}

// Storage returns the storage for the slot. The storage is created if it
// does not exist.
func (h *MemoryHost) Storage(addr Address) *devices.MemoryStorage {
	if h.storage == nil {
		h.storage = make(map[Address]*devices.MemoryStorage)
	}
	s, ok := h.storage[addr]
	if !ok {
		s = devices.NewMemoryStorage()
		h.storage[addr] = s
	}
	return s
}

// Configure implements the Host interface.
func (h *MemoryHost) Configure(_ devices.Kind, cfg *devices.Config) error {
	cfg.Input = h.Input
	cfg.Storage = h.Storage(Address{Bus: cfg.Bus, Port: cfg.Port})
	return nil
}
