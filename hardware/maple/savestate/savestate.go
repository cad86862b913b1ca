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

// Package savestate is the binary encoding of the Maple bus state. Values are
// written in order with no field names, little-endian, and the whole state is
// preceded by a version tag.
//
// Fields added in later versions are read conditionally by checking
// Deserializer.Version(). Older states lack those fields and the reader
// substitutes a default.
package savestate

import (
	"bytes"
	"encoding/binary"

	"github.com/jetsetilly/maplebus/curated"
)

// Version of the save state layout.
type Version uint32

// List of Version values.
//
// V1 is the first version. V2 adds the pending DMA output and the coin
// counters of JVS I/O boards.
const (
	V1      Version = 1
	V2      Version = 2
	Current         = V2
)

// Sentinal errors.
const (
	SizeMismatch       = "savestate: size mismatch: %s"
	UnsupportedVersion = "savestate: unsupported version (%d)"
	Corrupt            = "savestate: corrupt data: %s"
)

// Serializer accumulates the state. The version tag is written on creation.
type Serializer struct {
	buf bytes.Buffer
}

// NewSerializer is the preferred method of initialisation for the Serializer
// type.
func NewSerializer() *Serializer {
	s := &Serializer{}
	s.U32(uint32(Current))
	return s
}

// U8 writes a single byte.
func (s *Serializer) U8(v uint8) {
	s.buf.WriteByte(v)
}

// Bool writes a boolean as a single byte.
func (s *Serializer) Bool(v bool) {
	if v {
		s.U8(1)
	} else {
		s.U8(0)
	}
}

// U16 writes a 16 bit value.
func (s *Serializer) U16(v uint16) {
	s.buf.Write(binary.LittleEndian.AppendUint16(nil, v))
}

// U32 writes a 32 bit value.
func (s *Serializer) U32(v uint32) {
	s.buf.Write(binary.LittleEndian.AppendUint32(nil, v))
}

// I32 writes a signed 32 bit value.
func (s *Serializer) I32(v int32) {
	s.U32(uint32(v))
}

// U64 writes a 64 bit value.
func (s *Serializer) U64(v uint64) {
	s.buf.Write(binary.LittleEndian.AppendUint64(nil, v))
}

// Bytes writes a fixed length buffer. The length is not recorded.
func (s *Serializer) Bytes(b []byte) {
	s.buf.Write(b)
}

// Words writes a fixed length sequence of words. The length is not recorded.
func (s *Serializer) Words(w []uint32) {
	for _, v := range w {
		s.U32(v)
	}
}

// Data returns the serialized state.
func (s *Serializer) Data() []byte {
	return s.buf.Bytes()
}

// Len returns the number of bytes written so far, including the version tag.
func (s *Serializer) Len() int {
	return s.buf.Len()
}

// Deserializer reads the state in the same order it was written. A read past
// the end of the data returns zero values and records a SizeMismatch error.
// The first error is kept.
type Deserializer struct {
	data    []byte
	pos     int
	version Version
	err     error
}

// NewDeserializer is the preferred method of initialisation for the
// Deserializer type. The version tag is read and checked.
func NewDeserializer(data []byte) (*Deserializer, error) {
	d := &Deserializer{data: data}
	v := Version(d.U32())
	if d.err != nil {
		return nil, d.err
	}
	if v < V1 || v > Current {
		return nil, curated.Errorf(UnsupportedVersion, v)
	}
	d.version = v
	return d, nil
}

// Version returns the version of the state being read.
func (d *Deserializer) Version() Version {
	return d.version
}

func (d *Deserializer) take(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || d.pos+n > len(d.data) {
		d.err = curated.Errorf(SizeMismatch, "data too short")
		d.pos = len(d.data)
		return nil
	}
	b := d.data[d.pos : d.pos+n]
	d.pos += n
	return b
}

// U8 reads a single byte.
func (d *Deserializer) U8() uint8 {
	b := d.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

// Bool reads a boolean.
func (d *Deserializer) Bool() bool {
	return d.U8() != 0
}

// U16 reads a 16 bit value.
func (d *Deserializer) U16() uint16 {
	b := d.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

// U32 reads a 32 bit value.
func (d *Deserializer) U32() uint32 {
	b := d.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

// I32 reads a signed 32 bit value.
func (d *Deserializer) I32() int32 {
	return int32(d.U32())
}

// U64 reads a 64 bit value.
func (d *Deserializer) U64() uint64 {
	b := d.take(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

// Bytes fills the buffer. The buffer is unchanged if there is not enough data.
func (d *Deserializer) Bytes(b []byte) {
	copy(b, d.take(len(b)))
}

// Words fills the slice of words.
func (d *Deserializer) Words(w []uint32) {
	for i := range w {
		w[i] = d.U32()
	}
}

// Skip discards n bytes.
func (d *Deserializer) Skip(n int) {
	_ = d.take(n)
}

// Remaining returns the number of unread bytes.
func (d *Deserializer) Remaining() int {
	return len(d.data) - d.pos
}

// Err returns the first error or nil.
func (d *Deserializer) Err() error {
	return d.err
}

// Fail records an error found by the caller while interpreting the data. It
// is kept if it is the first error. Reads after a failure return zero
// values.
func (d *Deserializer) Fail(err error) {
	if d.err == nil {
		d.err = err
		d.pos = len(d.data)
	}
}

// Finish returns the first error. If there was no error but there is unread
// data then a SizeMismatch error is returned.
func (d *Deserializer) Finish() error {
	if d.err != nil {
		return d.err
	}
	if d.Remaining() != 0 {
		return curated.Errorf(SizeMismatch, "unread data")
	}
	return nil
}
