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
	"fmt"
	"time"

	"github.com/jetsetilly/maplebus/environment"
	"github.com/jetsetilly/maplebus/hardware/maple/codec"
	"github.com/jetsetilly/maplebus/hardware/maple/savestate"
	"github.com/jetsetilly/maplebus/logger"
)

// Device is implemented by every peripheral that can occupy a slot in the bus
// registry.
type Device interface {
	Kind() Kind

	// Dispatch a command to the device. The input is the payload of the
	// command frame. The returned status and payload are used to build the
	// reply frame. Dispatch never fails, problems are reported through the
	// status byte.
	Dispatch(cmd uint8, in []byte) (uint8, []byte)

	// Serialize and Deserialize must read and write exactly the same number
	// of bytes for a given save state version.
	Serialize(s *savestate.Serializer)
	Deserialize(d *savestate.Deserializer)

	// Destroy is called when the device is removed from the registry.
	Destroy()
}

// RawDevice is implemented by devices that build the entire reply frame
// themselves. The frame argument is the command frame, including the header
// word, as little-endian bytes. The attached argument is the mask of
// sub-devices present on the bus.
type RawDevice interface {
	Device
	RawDMA(frame []byte, attached uint8) []byte
}

// Occupier is implemented by devices that respond to the SDCKB occupy
// descriptor. Returning true means the device holds the bus and the
// completion interrupt is deferred until the next vblank.
type Occupier interface {
	Occupy() bool
}

// Resetter is implemented by devices with state that is cleared by a bus
// reset, as opposed to being destroyed and recreated.
type Resetter interface {
	Reset()
}

// Resumer is implemented by devices that drive a host collaborator. Resume
// is called when the device is installed by a restore, after the devices it
// replaces have been destroyed.
type Resumer interface {
	Resume()
}

// Config is the information and collaborators given to a device on creation.
type Config struct {
	Env *environment.Environment

	// the slot the device occupies
	Bus  int
	Port int

	// the player number used when requesting input. usually the same as the
	// bus number
	Player int

	Input   InputSource
	Storage Storage
	Rumbler Rumbler
	Beeper  Beeper
	Display Display
	Sound   SoundSource
	Pointer Pointer

	// link to real hardware. used only by the Passthrough and mirror variants
	Link Link

	// source of the wall clock time for the VMU clock function. defaults to
	// time.Now
	Now func() time.Time
}

// Normalise replaces nil collaborators with their null implementations.
func (cfg *Config) Normalise() {
	if cfg.Env == nil {
		cfg.Env = environment.NewEnvironment(nil, nil)
	}
	if cfg.Input == nil {
		cfg.Input = neutralSource{}
	}
	if cfg.Storage == nil {
		cfg.Storage = NewMemoryStorage()
	}
	if cfg.Rumbler == nil {
		cfg.Rumbler = nullCollaborator{}
	}
	if cfg.Beeper == nil {
		cfg.Beeper = nullCollaborator{}
	}
	if cfg.Display == nil {
		cfg.Display = nullCollaborator{}
	}
	if cfg.Sound == nil {
		cfg.Sound = nullCollaborator{}
	}
	if cfg.Pointer == nil {
		cfg.Pointer = nullCollaborator{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
}

// the sender byte used by a device when it originates a frame. the bus number
// is in the top two bits and the port bit is that of the device
func (cfg Config) address() uint8 {
	return codec.Recipient(cfg.Bus, cfg.Port)
}

func (cfg Config) String() string {
	return fmt.Sprintf("bus %d port %d", cfg.Bus, cfg.Port)
}

// brand string used in the identification block of every device.
const brand = "Produced By or Under License From SEGA ENTERPRISES,LTD."

// ident is the identification block returned in response to DeviceRequest and
// AllStatusReq.
type ident struct {
	function uint32
	defs     [3]uint32
	area     uint8
	name     string
	standby  uint16
	max      uint16

	// appended to the block for AllStatusReq. may be empty
	version string
}

// write the identification block and return the appropriate status for the
// command.
func (id ident) write(cmd uint8, w *codec.Writer) uint8 {
	w.W32(id.function)
	for _, d := range id.defs {
		w.W32(d)
	}
	w.W8(id.area)
	w.W8(0)
	w.WString(id.name, 30)
	w.WString(brand, 60)
	w.W16(id.standby)
	w.W16(id.max)

	if cmd == codec.DeviceRequest {
		return codec.DeviceStatus
	}
	w.WBytes([]byte(id.version))
	return codec.DeviceStatusAll
}

// handler is the per-device command handler called by dispatch().
type handler func(cmd uint8, r *codec.Reader, w *codec.Writer) uint8

// dispatch runs the handler with cursors over the input and output buffers.
// cursor errors are logged but otherwise ignored.
func dispatch(env *environment.Environment, tag string, h handler, cmd uint8, in []byte) (uint8, []byte) {
	r := codec.NewReader(in)
	w := codec.NewWriter(codec.MaxReplyBytes)

	status := h(cmd, r, w)

	if err := r.Err(); err != nil {
		logger.Logf(env, tag, "command %02x: %v", cmd, err)
	}
	if err := w.Err(); err != nil {
		logger.Logf(env, tag, "command %02x: %v", cmd, err)
	}

	return status, w.Data()
}

// unknown logs an unhandled command and returns the UnknownCmd status.
func unknown(env *environment.Environment, tag string, cmd uint8) uint8 {
	logger.Logf(env, tag, "unknown command %02x", cmd)
	return codec.UnknownCmd
}
