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

package test

import (
	"fmt"
	"strings"
)

// RingWriter is an io.Writer that keeps only the most recent lines of
// output. Useful for checking the tail of a long log echo.
type RingWriter struct {
	lines   []string
	max     int
	partial strings.Builder
}

// NewRingWriter creates a RingWriter that keeps the last n lines.
func NewRingWriter(n int) (*RingWriter, error) {
	if n <= 0 {
		return nil, fmt.Errorf("test: invalid size for RingWriter (%d)", n)
	}
	return &RingWriter{max: n}, nil
}

// Write implements the io.Writer interface. Text after the last newline is
// held until the line is completed.
func (r *RingWriter) Write(p []byte) (int, error) {
	s := string(p)
	for {
		i := strings.IndexByte(s, '\n')
		if i == -1 {
			r.partial.WriteString(s)
			break
		}
		r.partial.WriteString(s[:i])
		r.push(r.partial.String())
		r.partial.Reset()
		s = s[i+1:]
	}
	return len(p), nil
}

func (r *RingWriter) push(l string) {
	if len(r.lines) == r.max {
		copy(r.lines, r.lines[1:])
		r.lines = r.lines[:r.max-1]
	}
	r.lines = append(r.lines, l)
}

// Lines returns the completed lines held by the ring, oldest first.
func (r *RingWriter) Lines() []string {
	return append([]string(nil), r.lines...)
}

// Reset empties the ring.
func (r *RingWriter) Reset() {
	r.lines = r.lines[:0]
	r.partial.Reset()
}

// String returns the completed lines joined by newlines.
func (r *RingWriter) String() string {
	if len(r.lines) == 0 {
		return ""
	}
	return strings.Join(r.lines, "\n") + "\n"
}
