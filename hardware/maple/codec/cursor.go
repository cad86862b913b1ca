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

	"github.com/jetsetilly/maplebus/curated"
)

// OutOfBounds is the error pattern for accesses outside of a buffer.
const OutOfBounds = "codec: out of bounds: %s (%d)"

// Reader is a bounds-checked cursor over payload bytes. Reads beyond the end
// of the payload return zero and record an OutOfBounds error. The first error
// is kept.
type Reader struct {
	data []byte
	pos  int
	err  error
}

// NewReader is the preferred method of initialisation for the Reader type.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

func (r *Reader) take(n int) []byte {
	if n < 0 || r.pos+n > len(r.data) {
		if r.err == nil {
			r.err = curated.Errorf(OutOfBounds, "read", r.pos)
		}
		r.pos = len(r.data)
		return nil
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b
}

// R8 reads a single byte.
func (r *Reader) R8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

// R16 reads a little-endian 16 bit value.
func (r *Reader) R16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

// R32 reads a little-endian 32 bit value.
func (r *Reader) R32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

// Bytes reads n bytes into a new slice. The slice is the requested length
// even if the read was out of bounds.
func (r *Reader) Bytes(n int) []byte {
	d := make([]byte, max(n, 0))
	b := r.take(n)
	copy(d, b)
	return d
}

// Skip moves the cursor forward by n bytes.
func (r *Reader) Skip(n int) {
	_ = r.take(n)
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// Rest returns all unread bytes and moves the cursor to the end.
func (r *Reader) Rest() []byte {
	return r.take(r.Remaining())
}

// Offset returns the position of the cursor.
func (r *Reader) Offset() int {
	return r.pos
}

// Err returns the first out of bounds error or nil.
func (r *Reader) Err() error {
	return r.err
}

// Writer is a bounds-checked cursor for building a payload. Writes that would
// exceed the capacity are dropped and record an OutOfBounds error. The first
// error is kept.
type Writer struct {
	data     []byte
	capacity int
	err      error
}

// NewWriter is the preferred method of initialisation for the Writer type. A
// capacity of zero or less means MaxReplyBytes.
func NewWriter(capacity int) *Writer {
	if capacity <= 0 {
		capacity = MaxReplyBytes
	}
	return &Writer{
		data:     make([]byte, 0, min(capacity, 1024)),
		capacity: capacity,
	}
}

func (w *Writer) fits(n int) bool {
	if len(w.data)+n > w.capacity {
		if w.err == nil {
			w.err = curated.Errorf(OutOfBounds, "write", len(w.data))
		}
		return false
	}
	return true
}

// W8 writes a single byte.
func (w *Writer) W8(v uint8) {
	if w.fits(1) {
		w.data = append(w.data, v)
	}
}

// W16 writes a little-endian 16 bit value.
func (w *Writer) W16(v uint16) {
	if w.fits(2) {
		w.data = binary.LittleEndian.AppendUint16(w.data, v)
	}
}

// W32 writes a little-endian 32 bit value.
func (w *Writer) W32(v uint32) {
	if w.fits(4) {
		w.data = binary.LittleEndian.AppendUint32(w.data, v)
	}
}

// WBytes writes the bytes verbatim.
func (w *Writer) WBytes(b []byte) {
	if w.fits(len(b)) {
		w.data = append(w.data, b...)
	}
}

// WString writes exactly n bytes of the string. Strings shorter than n are
// padded with spaces.
func (w *Writer) WString(s string, n int) {
	if !w.fits(n) {
		return
	}
	for i := 0; i < n; i++ {
		if i < len(s) {
			w.data = append(w.data, s[i])
		} else {
			w.data = append(w.data, ' ')
		}
	}
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return len(w.data)
}

// Data returns the bytes written so far.
func (w *Writer) Data() []byte {
	return w.data
}

// Reset discards everything written and clears the error.
func (w *Writer) Reset() {
	w.data = w.data[:0]
	w.err = nil
}

// Err returns the first out of bounds error or nil.
func (w *Writer) Err() error {
	return w.err
}
