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
	"bytes"
	"compress/zlib"
	"crypto/sha1"
	"fmt"
	"io"

	"github.com/jetsetilly/maplebus/curated"
	"github.com/jetsetilly/maplebus/hardware/maple/codec"
	"github.com/jetsetilly/maplebus/hardware/maple/savestate"
	"github.com/jetsetilly/maplebus/logger"
)

// VMU flash geometry.
const (
	VMUSize      = 128 * 1024
	VMUBlockSize = 512
	VMUNumBlocks = VMUSize / VMUBlockSize

	// a block is written in four phases
	vmuPhaseSize = VMUBlockSize / 4

	// size of the LCD data in a BlockWrite
	vmuLCDSize = LCDWidth * LCDHeight / 8

	// offset of the media info in the root block
	vmuMediaInfo = 0xff*VMUBlockSize + 0x40
)

const vmuVersion = "Version 1.005,1999/04/15,315-6208-03,SEGA Visual Memory System BIOS Produced by "

// DefaultVMUImage returns a freshly formatted VMU image.
func DefaultVMUImage() ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(vmuDefault))
	if err != nil {
		return nil, curated.Errorf("vmu: default image: %v", err)
	}
	defer zr.Close()

	img := make([]byte, VMUSize)
	_, err = io.ReadFull(zr, img)
	if err != nil {
		return nil, curated.Errorf("vmu: default image: %v", err)
	}

	return img, nil
}

// VMUFilename returns the filename of the VMU image for the slot. The
// filename uses the logical port name, for example "vmu_save_A1.bin".
func VMUFilename(bus int, port int) string {
	return fmt.Sprintf("vmu_save_%s.bin", LogicalPort(bus, port))
}

// LogicalPort returns the user facing name of a slot. Buses are lettered from
// A and sub-ports are numbered from 1. The main port has no number.
func LogicalPort(bus int, port int) string {
	if port == codec.MainPort {
		return fmt.Sprintf("%c", 'A'+bus)
	}
	return fmt.Sprintf("%c%d", 'A'+bus, port+1)
}

// VMU is the visual memory unit. It has three functions: storage, the LCD
// screen and the clock.
type VMU struct {
	cfg Config
	tag string

	flash   [VMUSize]byte
	lcd     [vmuLCDSize]byte
	decoded [LCDWidth * LCDHeight]byte

	// after a deserialisation the storage may not match the flash data so
	// the next write saves the entire image
	fullSaveNeeded bool

	// writes are not passed to storage if writeThrough is false
	writeThrough bool
}

var vmuIdent = ident{
	function: codec.FuncStorage | codec.FuncLCD | codec.FuncClock,
	defs:     [3]uint32{0x403f7e7e, 0x00100500, 0x00410f00},
	area:     0xff,
	name:     "Visual Memory",
	standby:  0x007c,
	max:      0x0082,
	version:  vmuVersion,
}

// NewVMU is the preferred method of initialisation for the VMU type. The
// flash image is loaded from storage. A missing or blank image is replaced by
// a formatted one.
func NewVMU(cfg Config) *VMU {
	return newVMU(cfg, true)
}

func newVMU(cfg Config, writeThrough bool) *VMU {
	cfg.Normalise()
	v := &VMU{
		cfg:          cfg,
		tag:          fmt.Sprintf("vmu %s", LogicalPort(cfg.Bus, cfg.Port)),
		writeThrough: writeThrough,
	}
	v.load()
	return v
}

func (v *VMU) load() {
	clear(v.flash[:])
	clear(v.lcd[:])

	data, err := v.cfg.Storage.ReadAll()
	if err != nil {
		logger.Logf(v.cfg.Env, v.tag, "could not load image: %v", err)
	} else {
		if len(data) > 0 && len(data) != VMUSize {
			logger.Logf(v.cfg.Env, v.tag, "image is of incorrect length (%d)", len(data))
		}
		copy(v.flash[:], data)
	}

	if v.blank() {
		logger.Logf(v.cfg.Env, v.tag, "initialising empty image")
		img, err := DefaultVMUImage()
		if err != nil {
			logger.Log(v.cfg.Env, v.tag, err)
		} else {
			copy(v.flash[:], img)
			err = v.fullSave()
			if err != nil {
				logger.Log(v.cfg.Env, v.tag, err)
			}
		}
	}

	v.fullSaveNeeded = false
}

func (v *VMU) blank() bool {
	for _, b := range v.flash {
		if b != 0 {
			return false
		}
	}
	return true
}

func (v *VMU) fullSave() error {
	if !v.writeThrough {
		return nil
	}
	err := v.cfg.Storage.WriteRange(0, v.flash[:])
	if err != nil {
		return err
	}
	v.fullSaveNeeded = false
	return nil
}

func (v *VMU) save(addr int, n int) error {
	if !v.writeThrough {
		return nil
	}
	if v.fullSaveNeeded {
		return v.fullSave()
	}
	return v.cfg.Storage.WriteRange(addr, v.flash[addr:addr+n])
}

// Kind implements the Device interface.
func (v *VMU) Kind() Kind {
	return KindVMU
}

// Flash returns a copy of the flash image.
func (v *VMU) Flash() []byte {
	b := make([]byte, VMUSize)
	copy(b, v.flash[:])
	return b
}

// LCD returns a copy of the decoded LCD image. See the Display interface for
// the layout.
func (v *VMU) LCD() []byte {
	b := make([]byte, len(v.decoded))
	copy(b, v.decoded[:])
	return b
}

// Digest returns the SHA-1 hash of the flash image as a hex string.
func (v *VMU) Digest() string {
	return fmt.Sprintf("%x", sha1.Sum(v.flash[:]))
}

// Dispatch implements the Device interface.
func (v *VMU) Dispatch(cmd uint8, in []byte) (uint8, []byte) {
	return dispatch(v.cfg.Env, v.tag, v.dma, cmd, in)
}

func (v *VMU) dma(cmd uint8, r *codec.Reader, w *codec.Writer) uint8 {
	switch cmd {
	case codec.DeviceRequest, codec.AllStatusReq:
		return vmuIdent.write(cmd, w)

	case codec.GetMediaInfo:
		return v.mediaInfo(r, w)

	case codec.BlockRead:
		return v.blockRead(r, w)

	case codec.BlockWrite:
		return v.blockWrite(r)

	case codec.GetLastError:
		return codec.DeviceReply

	case codec.SetCondition:
		switch fn := r.R32(); fn {
		case codec.FuncClock:
			alw := r.R8()
			ald := r.R8()
			_ = r.R16()
			logger.Logf(v.cfg.Env, v.tag, "beep: %d/%d", alw, ald)
			v.cfg.Beeper.Beep(alw, ald)
			return codec.DeviceReply
		default:
			logger.Logf(v.cfg.Env, v.tag, "set condition: unknown function %08x", fn)
			return codec.UnknownFunction
		}

	case codec.DeviceReset, codec.DeviceKill:
		v.cfg.Beeper.Beep(0, 0)
		return codec.DeviceReply
	}

	return unknown(v.cfg.Env, v.tag, cmd)
}

func (v *VMU) mediaInfo(r *codec.Reader, w *codec.Writer) uint8 {
	switch fn := r.R32(); fn {
	case codec.FuncStorage:
		w.W32(codec.FuncStorage)

		if uint16(v.flash[vmuMediaInfo])|uint16(v.flash[vmuMediaInfo+1])<<8 != 0xff {
			// unformatted. return the media info of a freshly formatted unit
			w.W16(0xff) // total size
			w.W16(0)    // partition
			w.W16(0xff) // system area block
			w.W16(0xfe) // FAT block
			w.W16(1)    // number of FAT blocks
			w.W16(0xfd) // file info block
			w.W16(0xd)  // number of file info blocks
			w.W8(0)     // volume icon
			w.W8(0)     // reserved
			w.W16(0xc8) // save area block
			w.W16(0x1f) // number of save blocks
			w.W32(0)    // reserved
		} else {
			w.WBytes(v.flash[vmuMediaInfo : vmuMediaInfo+24])
		}
		return codec.DataTransfer

	case codec.FuncLCD:
		if pt := r.R32(); pt != 0 {
			logger.Logf(v.cfg.Env, v.tag, "media info: bad LCD parameter %08x", pt)
			return codec.UnknownCmd
		}
		w.W32(codec.FuncLCD)
		w.W8(LCDWidth - 1)
		w.W8(LCDHeight - 1)
		w.W8(1 << 4) // one colour, no contrast levels
		w.W8(2)
		return codec.DataTransfer

	default:
		logger.Logf(v.cfg.Env, v.tag, "media info: unknown function %08x", fn)
		return codec.UnknownFunction
	}
}

func (v *VMU) blockRead(r *codec.Reader, w *codec.Writer) uint8 {
	switch fn := r.R32(); fn {
	case codec.FuncStorage:
		w.W32(codec.FuncStorage)
		xo := r.R32()
		block := int(codec.Swap32(xo) & 0xffff)
		w.W32(xo)

		if block >= VMUNumBlocks {
			logger.Logf(v.cfg.Env, v.tag, "block read: block %d out of range", block)
			block &= VMUNumBlocks - 1
		}
		w.WBytes(v.flash[block*VMUBlockSize : (block+1)*VMUBlockSize])
		return codec.DataTransfer

	case codec.FuncLCD:
		w.W32(codec.FuncLCD)
		w.W32(r.R32())
		w.WBytes(v.flash[:vmuLCDSize])
		return codec.DataTransfer

	case codec.FuncClock:
		if r.R32() != 0 {
			logger.Logf(v.cfg.Env, v.tag, "block read: bad clock parameter")
			return codec.TransmitAgain
		}
		now := v.cfg.Now()
		w.W32(codec.FuncClock)
		w.W8(uint8(now.Year() % 256))
		w.W8(uint8(now.Year() / 256))
		w.W8(uint8(now.Month()))
		w.W8(uint8(now.Day()))
		w.W8(uint8(now.Hour()))
		w.W8(uint8(now.Minute()))
		w.W8(uint8(now.Second()))
		w.W8(0)
		return codec.DataTransfer

	default:
		logger.Logf(v.cfg.Env, v.tag, "block read: unknown function %08x", fn)
		return codec.UnknownFunction
	}
}

func (v *VMU) blockWrite(r *codec.Reader) uint8 {
	switch fn := r.R32(); fn {
	case codec.FuncStorage:
		bph := codec.Swap32(r.R32())
		block := int(bph & 0xffff)
		phase := int((bph >> 16) & 0xff)
		addr := block*VMUBlockSize + phase*vmuPhaseSize
		data := r.Rest()

		if addr+len(data) > VMUSize {
			logger.Logf(v.cfg.Env, v.tag, "block write: overflow: block %d phase %d len %d", block, phase, len(data))
			return codec.FileError
		}

		old := make([]byte, len(data))
		copy(old, v.flash[addr:])
		copy(v.flash[addr:], data)

		err := v.save(addr, len(data))
		if err != nil {
			copy(v.flash[addr:], old)
			logger.Logf(v.cfg.Env, v.tag, "block write: %v", err)
			return codec.FileError
		}
		return codec.DeviceReply

	case codec.FuncLCD:
		_ = r.R32()
		copy(v.lcd[:], r.Bytes(vmuLCDSize))
		v.decodeLCD()
		v.cfg.Display.SetImage(v.LCD())
		return codec.DeviceReply

	case codec.FuncClock:
		if r.R32() != 0 || r.Remaining() != 8 {
			logger.Logf(v.cfg.Env, v.tag, "block write: bad clock parameters")
			return codec.TransmitAgain
		}
		t := r.Bytes(8)
		logger.Logf(v.cfg.Env, v.tag, "clock write ignored: %04d/%02d/%02d %02d:%02d:%02d",
			int(t[0])+int(t[1])*256, t[2], t[3], t[4], t[5], t[6])
		return codec.DeviceReply

	default:
		logger.Logf(v.cfg.Env, v.tag, "block write: unknown function %08x", fn)
		return codec.UnknownFunction
	}
}

// each row of the LCD is six bytes, stored right to left. the least
// significant bit of each byte is the leftmost pixel of that byte
func (v *VMU) decodeLCD() {
	for y := 0; y < LCDHeight; y++ {
		dst := v.decoded[y*LCDWidth:]
		src := 6*y + 5
		for x := 0; x < 6; x++ {
			col := v.lcd[src-x]
			for l := 0; l < 8; l++ {
				if col&1 == 1 {
					dst[x*8+l] = 0x00
				} else {
					dst[x*8+l] = 0xff
				}
				col >>= 1
			}
		}
	}
}

// Serialize implements the Device interface.
func (v *VMU) Serialize(s *savestate.Serializer) {
	s.Bytes(v.flash[:])
	s.Bytes(v.lcd[:])
	s.Bytes(v.decoded[:])
}

// Deserialize implements the Device interface.
func (v *VMU) Deserialize(d *savestate.Deserializer) {
	d.Bytes(v.flash[:])
	d.Bytes(v.lcd[:])
	d.Bytes(v.decoded[:])

	for _, b := range v.lcd {
		if b != 0 {
			v.cfg.Display.SetImage(v.LCD())
			break
		}
	}

	v.fullSaveNeeded = true
}

// Destroy implements the Device interface.
func (v *VMU) Destroy() {
}
