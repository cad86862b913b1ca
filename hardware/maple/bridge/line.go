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

package bridge

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jetsetilly/maplebus/curated"
	"github.com/jetsetilly/maplebus/hardware/maple/codec"
)

// MalformedLine is the error pattern for a line that can not be decoded.
const MalformedLine = "bridge: malformed line: %s"

// the line sent by the peer when the expansion devices have changed
var refreshLine = []byte{0xff, 0xff, 0xff, 0xff}

// EncodeLine returns the frame as a line of uppercase hex bytes, separated by
// spaces and terminated with CR LF.
func EncodeLine(f codec.Frame) string {
	b := f.Bytes()
	s := strings.Builder{}
	for i, v := range b {
		if i > 0 {
			s.WriteByte(' ')
		}
		s.WriteString(fmt.Sprintf("%02X", v))
	}
	s.WriteString("\r\n")
	return s.String()
}

// DecodeLine parses a line of hex bytes. The refresh return value is true if
// the line is the refresh message, in which case the frame is empty.
func DecodeLine(line string) (f codec.Frame, refresh bool, err error) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return codec.Frame{}, false, curated.Errorf(MalformedLine, strings.TrimSpace(line))
	}

	b := make([]byte, 0, len(fields))
	for _, s := range fields {
		v, err := strconv.ParseUint(s, 16, 8)
		if err != nil {
			return codec.Frame{}, false, curated.Errorf(MalformedLine, strings.TrimSpace(line))
		}
		b = append(b, uint8(v))
	}

	if len(b) == len(refreshLine) && string(b) == string(refreshLine) {
		return codec.Frame{}, true, nil
	}

	f, err = codec.DecodeCommandFrame(b)
	if err != nil {
		return f, false, curated.Errorf(MalformedLine, err)
	}
	return f, false, nil
}
