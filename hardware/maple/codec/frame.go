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

package codec

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/jetsetilly/maplebus/curated"
)

// Frame is a command or reply frame. The number of payload words is implied
// by the length of the Payload field.
type Frame struct {
	Command   uint8
	Recipient uint8
	Sender    uint8
	Payload   []uint32
}

func (f Frame) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("cmd=%02x reci=%02x send=%02x words=%d", f.Command, f.Recipient, f.Sender, len(f.Payload)))
	for _, w := range f.Payload {
		s.WriteString(fmt.Sprintf(" %08x", w))
	}
	return s.String()
}

// WordCount returns the number of payload words.
func (f Frame) WordCount() int {
	return len(f.Payload)
}

// HeaderWord returns the first word of the frame.
func (f Frame) HeaderWord() uint32 {
	return uint32(f.Command) | uint32(f.Recipient)<<8 | uint32(f.Sender)<<16 | uint32(len(f.Payload)&0xff)<<24
}

// Words returns the frame as a sequence of words, beginning with the header
// word.
func (f Frame) Words() []uint32 {
	w := make([]uint32, 0, len(f.Payload)+1)
	w = append(w, f.HeaderWord())
	return append(w, f.Payload...)
}

// Bytes returns the frame as little-endian bytes.
func (f Frame) Bytes() []byte {
	return WordsToBytes(f.Words())
}

// PayloadBytes returns the payload as little-endian bytes.
func (f Frame) PayloadBytes() []byte {
	return WordsToBytes(f.Payload)
}

// DecodeFrame decodes a frame from a sequence of words. The first word is the
// frame header. Returns an OutOfBounds error if the header indicates more
// payload words than are available. The frame is still returned in that case
// with as much payload as is available.
func DecodeFrame(words []uint32) (Frame, error) {
	if len(words) == 0 {
		return Frame{}, curated.Errorf(OutOfBounds, "frame header", 0)
	}

	h := words[0]
	f := Frame{
		Command:   uint8(h),
		Recipient: uint8(h >> 8),
		Sender:    uint8(h >> 16),
	}

	n := int(h >> 24)
	if n > len(words)-1 {
		f.Payload = append([]uint32{}, words[1:]...)
		return f, curated.Errorf(OutOfBounds, "frame payload", n)
	}
	f.Payload = append([]uint32{}, words[1:n+1]...)

	return f, nil
}

// DecodeCommandFrame decodes a frame from little-endian bytes. Trailing bytes
// that do not make a whole word are ignored.
func DecodeCommandFrame(b []byte) (Frame, error) {
	return DecodeFrame(BytesToWords(b))
}

// EncodeReply builds the reply frame for a device. The payload is padded to a
// whole number of words and truncated to MaxReplyBytes.
//
// The sender and recipient arguments are the bytes from the command frame.
// They are exchanged in the reply.
func EncodeReply(status uint8, sender uint8, recipient uint8, payload []byte) []byte {
	if len(payload) > MaxReplyBytes {
		payload = payload[:MaxReplyBytes]
	}
	words := (len(payload) + 3) / 4

	b := make([]byte, 4+words*4)
	b[0] = status
	b[1] = sender
	b[2] = recipient
	b[3] = uint8(words)
	copy(b[4:], payload)
	return b
}

// EncodeReplyUnswapped is the same as EncodeReply except that the sender and
// recipient bytes are in the same position as they were in the command frame.
func EncodeReplyUnswapped(status uint8, sender uint8, recipient uint8, payload []byte) []byte {
	b := EncodeReply(status, sender, recipient, payload)
	b[1], b[2] = recipient, sender
	return b
}

// BytesToWords converts little-endian bytes to words. Trailing bytes that do
// not make a whole word are ignored.
func BytesToWords(b []byte) []uint32 {
	w := make([]uint32, len(b)/4)
	for i := range w {
		w[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return w
}

// WordsToBytes converts words to little-endian bytes.
func WordsToBytes(w []uint32) []byte {
	b := make([]byte, len(w)*4)
	for i, v := range w {
		binary.LittleEndian.PutUint32(b[i*4:], v)
	}
	return b
}
