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

	"github.com/jetsetilly/maplebus/hardware/maple/codec"
	"github.com/jetsetilly/maplebus/hardware/maple/savestate"
	"github.com/jetsetilly/maplebus/logger"
)

// CardSize is the number of bytes on an RFID card.
const CardSize = 128

// RFID commands. The reader/writer uses its own command codes on top of the
// Maple frame.
const (
	rfidGetStatus   = 0x90
	rfidLastStatus  = 0x91
	rfidA0          = 0xa0
	rfidRead        = 0xa1
	rfidWrite       = 0xb1
	rfidC1          = 0xc1
	rfidStart       = 0xd0
	rfidDecrement   = 0xd1
	rfidSelectData  = 0xd4
	rfidLock        = 0xd9
	rfidUnlock      = 0xda
	rfidCommandDone = 0xfe
)

var rfidIdent = ident{
	function: codec.FuncRFID,
	area:     0xff,
	name:     "MAPLE/232C CONVERT BD",
	standby:  0x0069,
	max:      0x0120,
}

// RFIDFilename returns the filename of the card data for a player.
func RFIDFilename(player int) string {
	return fmt.Sprintf("card-p%d.card", player+1)
}

// RFID is the maple to RS232 converter wired to an RFID card reader/writer.
type RFID struct {
	cfg Config
	tag string

	card     [CardSize]byte
	d4Seen   bool
	inserted bool
	locked   bool

	// card data has been set by SetCardData() and is not loaded or saved
	transient bool
}

// NewRFID is the preferred method of initialisation for the RFID type.
func NewRFID(cfg Config) *RFID {
	cfg.Normalise()
	return &RFID{
		cfg: cfg,
		tag: fmt.Sprintf("rfid %s", LogicalPort(cfg.Bus, cfg.Port)),
	}
}

// Kind implements the Device interface.
func (c *RFID) Kind() Kind {
	return KindRFID
}

func (c *RFID) status() uint32 {
	s := uint32(1)
	if c.inserted {
		s &^= 1
	}
	if c.locked {
		s |= 0x40
	}
	return s
}

// Inserted returns true if a card is in the reader.
func (c *RFID) Inserted() bool {
	return c.inserted
}

// Locked returns true if the reader has locked the card in place.
func (c *RFID) Locked() bool {
	return c.locked
}

// InsertCard inserts a card if the reader is empty and ejects it otherwise. A
// locked card can not be ejected.
func (c *RFID) InsertCard() {
	if !c.inserted {
		c.inserted = true
		c.load()
	} else if !c.locked {
		c.inserted = false
		if !c.transient {
			clear(c.card[:])
		}
	}
}

// CardData returns a copy of the card data.
func (c *RFID) CardData() []byte {
	c.load()
	b := make([]byte, CardSize)
	copy(b, c.card[:])
	return b
}

// SetCardData replaces the card data. The data is not saved to storage and
// is not replaced by loading from storage.
func (c *RFID) SetCardData(data []byte) {
	copy(c.card[:], data)
	c.transient = true
}

func (c *RFID) load() {
	if c.transient {
		return
	}

	data, err := c.cfg.Storage.ReadAll()
	if err != nil {
		logger.Logf(c.cfg.Env, c.tag, "could not load card: %v", err)
	}

	if len(data) > 0 {
		if len(data) != CardSize {
			logger.Logf(c.cfg.Env, c.tag, "truncated or empty card data (%d)", len(data))
		}
		clear(c.card[:])
		copy(c.card[:], data)
		return
	}

	// a new card in the format expected by Virtua Fighter 4. the random
	// bytes make up the card id
	clear(c.card[:])
	c.card[0] = 0x10
	c.card[12] = 0x04
	c.card[13] = 0x6c
	c.card[127] = 0xff
	for _, i := range []int{2, 4, 5, 6, 7} {
		c.card[i] = c.cfg.Env.Random.Byte()
	}
	logger.Logf(c.cfg.Env, c.tag, "new card initialised")
}

func (c *RFID) save() {
	if c.transient {
		return
	}
	err := c.cfg.Storage.WriteRange(0, c.card[:])
	if err != nil {
		logger.Logf(c.cfg.Env, c.tag, "could not save card: %v", err)
	}
}

// Dispatch implements the Device interface.
func (c *RFID) Dispatch(cmd uint8, in []byte) (uint8, []byte) {
	return dispatch(c.cfg.Env, c.tag, c.dma, cmd, in)
}

// RawDMA implements the RawDevice interface. The recipient and sender are
// not exchanged in the reply.
func (c *RFID) RawDMA(frame []byte, attached uint8) []byte {
	if len(frame) < 4 {
		logger.Logf(c.cfg.Env, c.tag, "short frame (%d bytes)", len(frame))
		return codec.WordsToBytes([]uint32{codec.NoDevice})
	}

	cmd := frame[0]
	reci := frame[1]
	send := frame[2]

	status, out := c.Dispatch(cmd, frame[4:])

	if reci&0x20 == 0x20 {
		reci |= attached
	}

	return codec.EncodeReplyUnswapped(status, send, reci, out)
}

func (c *RFID) dma(cmd uint8, r *codec.Reader, w *codec.Writer) uint8 {
	switch cmd {
	case codec.DeviceRequest, codec.AllStatusReq:
		return rfidIdent.write(cmd, w)

	case codec.GetCondition:
		w.W32(codec.FuncRFID)
		return codec.DataTransfer

	case codec.DeviceReset, codec.DeviceKill:
		return codec.DeviceReply

	case rfidStart, rfidGetStatus, rfidLastStatus, rfidA0, rfidSelectData, rfidC1:
		if cmd == rfidStart {
			c.d4Seen = false
		}
		w.W32(c.status())
		if cmd == rfidSelectData {
			c.d4Seen = true
		}
		return rfidCommandDone

	case rfidRead:
		w.W32(c.status())
		if c.d4Seen {
			w.WBytes(c.card[:])
		} else {
			// serial numbers only
			w.WBytes(c.card[:8])
		}
		return rfidCommandDone

	case rfidLock:
		c.locked = true
		w.W32(c.status())
		logger.Logf(c.cfg.Env, c.tag, "card locked")
		return rfidCommandDone

	case rfidUnlock:
		c.locked = false
		c.inserted = false
		w.W32(c.status())
		logger.Logf(c.cfg.Env, c.tag, "card unlocked and ejected")
		return rfidCommandDone

	case rfidWrite:
		w.W32(c.status())
		offset := int(r.R8()) * 4
		size := int(r.R8()) * 4
		r.Skip(2)
		if offset < CardSize {
			n := min(size, CardSize-offset)
			copy(c.card[offset:offset+n], r.Bytes(n))
		} else {
			logger.Logf(c.cfg.Env, c.tag, "write offset out of range (%d)", offset)
		}
		c.save()
		return rfidCommandDone

	case rfidDecrement:
		var counter int
		switch sel := r.R8(); sel {
		case 0x03:
			counter = 0
		case 0x0c:
			counter = 1
		case 0x30:
			counter = 2
		case 0xc0:
			counter = 3
		default:
			logger.Logf(c.cfg.Env, c.tag, "unknown counter selector %02x", sel)
		}
		c.card[19-counter]--
		c.save()
		w.W32(c.status())
		return rfidCommandDone
	}

	return unknown(c.cfg.Env, c.tag, cmd)
}

// Serialize implements the Device interface.
func (c *RFID) Serialize(s *savestate.Serializer) {
	s.Bytes(c.card[:])
	s.Bool(c.d4Seen)
	s.Bool(c.inserted)
	s.Bool(c.locked)
}

// Deserialize implements the Device interface.
func (c *RFID) Deserialize(d *savestate.Deserializer) {
	d.Bytes(c.card[:])
	c.d4Seen = d.Bool()
	c.inserted = d.Bool()
	c.locked = d.Bool()
}

// Destroy implements the Device interface.
func (c *RFID) Destroy() {
}
