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

package codec_test

import (
	"testing"

	"github.com/jetsetilly/maplebus/curated"
	"github.com/jetsetilly/maplebus/hardware/maple/codec"
	"github.com/jetsetilly/maplebus/test"
)

func TestDecodeHeader(t *testing.T) {
	h := codec.DecodeHeader(0x80000001)
	test.ExpectSuccess(t, h.Last)
	test.ExpectEquality(t, h.Opcode, codec.Start)
	test.ExpectEquality(t, h.Words, 2)

	h = codec.DecodeHeader(0x00020200)
	test.ExpectFailure(t, h.Last)
	test.ExpectEquality(t, h.Opcode, codec.SDCKBOccupy)
	test.ExpectEquality(t, h.Bus, 2)
	test.ExpectEquality(t, h.Words, 1)

	h = codec.DecodeHeader(0x000000ff)
	test.ExpectEquality(t, h.Words, 256)

	// unused opcodes still decode
	h = codec.DecodeHeader(0x00000500)
	test.ExpectEquality(t, h.Opcode, codec.Opcode(5))
	test.ExpectEquality(t, h.Opcode.String(), "opcode 5")

	for _, w := range []uint32{0x80000001, 0x00020200, 0x000007ff, 0x00030400} {
		test.ExpectEquality(t, codec.DecodeHeader(w).Encode(), w)
	}
}

func TestAddressing(t *testing.T) {
	for bus := 0; bus < 4; bus++ {
		for port := 0; port < codec.NumPorts; port++ {
			r := codec.Recipient(bus, port)
			test.ExpectEquality(t, codec.BusFromRecipient(r), bus)
			test.ExpectEquality(t, codec.PortFromRecipient(r), port)
		}
	}

	// lowest bit wins
	test.ExpectEquality(t, codec.PortFromRecipient(0x06), 1)

	// no bit means the main port
	test.ExpectEquality(t, codec.PortFromRecipient(0xc0), codec.MainPort)
	test.ExpectEquality(t, codec.BusFromRecipient(0xc0), 3)
}

func TestFrame(t *testing.T) {
	f := codec.Frame{
		Command:   codec.GetCondition,
		Recipient: 0x20,
		Sender:    0x00,
		Payload:   []uint32{codec.FuncInput},
	}
	test.ExpectEquality(t, f.HeaderWord(), uint32(0x01002009))

	g, err := codec.DecodeFrame(f.Words())
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, g.Command, f.Command)
	test.ExpectEquality(t, g.Recipient, f.Recipient)
	test.ExpectEquality(t, g.WordCount(), 1)
	test.ExpectEquality(t, g.Payload[0], codec.FuncInput)

	g, err = codec.DecodeCommandFrame(f.Bytes())
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, g.Payload[0], codec.FuncInput)

	// header says two words but only one is available
	_, err = codec.DecodeFrame([]uint32{0x02002009, 0})
	test.ExpectSuccess(t, curated.Is(err, codec.OutOfBounds))

	_, err = codec.DecodeFrame(nil)
	test.ExpectFailure(t, err)
}

func TestEncodeReply(t *testing.T) {
	b := codec.EncodeReply(codec.DataTransfer, 0x00, 0x20, []byte{1, 2, 3, 4, 5})
	test.ExpectBytes(t, b, []byte{0x08, 0x00, 0x20, 0x02, 1, 2, 3, 4, 5, 0, 0, 0})

	b = codec.EncodeReplyUnswapped(codec.UnknownFunction, 0x00, 0x20, nil)
	test.ExpectBytes(t, b, []byte{0xfe, 0x20, 0x00, 0x00})

	b = codec.EncodeReply(codec.DataTransfer, 0, 0, make([]byte, 2000))
	test.ExpectEquality(t, len(b), 4+codec.MaxReplyBytes)
	test.ExpectEquality(t, b[3], uint8(255))
}

func TestSwap32(t *testing.T) {
	test.ExpectEquality(t, codec.Swap32(0x12345678), uint32(0x78563412))
	test.ExpectEquality(t, codec.Swap32(codec.Swap32(0xdeadbeef)), uint32(0xdeadbeef))
}

func TestReader(t *testing.T) {
	r := codec.NewReader([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07})
	test.ExpectEquality(t, r.R32(), uint32(0x04030201))
	test.ExpectEquality(t, r.R16(), uint16(0x0605))
	test.ExpectEquality(t, r.Remaining(), 1)
	test.ExpectSuccess(t, r.Err())

	// out of bounds read returns zero and records the error
	test.ExpectEquality(t, r.R16(), uint16(0))
	test.ExpectSuccess(t, curated.Is(r.Err(), codec.OutOfBounds))
	test.ExpectEquality(t, r.Remaining(), 0)
	test.ExpectEquality(t, r.R8(), uint8(0))

	r = codec.NewReader([]byte{0xaa, 0xbb})
	b := r.Bytes(4)
	test.ExpectBytes(t, b, []byte{0xaa, 0xbb, 0, 0})
	test.ExpectFailure(t, r.Err())
}

func TestWriter(t *testing.T) {
	w := codec.NewWriter(8)
	w.W32(0x01000000)
	w.W16(0x1234)
	w.W8(0xff)
	test.ExpectSuccess(t, w.Err())
	test.ExpectBytes(t, w.Data(), []byte{0, 0, 0, 1, 0x34, 0x12, 0xff})

	// does not fit
	w.W16(0)
	test.ExpectFailure(t, w.Err())
	test.ExpectEquality(t, w.Len(), 7)

	w.Reset()
	w.WString("VMU", 5)
	test.ExpectSuccess(t, w.Err())
	test.ExpectBytes(t, w.Data(), []byte("VMU  "))

	w.Reset()
	w.WString("Dreamcast", 4)
	test.ExpectBytes(t, w.Data(), []byte("Drea"))
}
