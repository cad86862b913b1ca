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

import "fmt"

// Opcode is the pattern selection field of a DMA descriptor.
type Opcode uint8

// List of valid Opcode values. Values 1, 5 and 6 are not used.
const (
	Start             Opcode = 0
	SDCKBOccupy       Opcode = 2
	Reset             Opcode = 3
	SDCKBOccupyCancel Opcode = 4
	NOP               Opcode = 7
)

func (op Opcode) String() string {
	switch op {
	case Start:
		return "start"
	case SDCKBOccupy:
		return "sdckb occupy"
	case Reset:
		return "reset"
	case SDCKBOccupyCancel:
		return "sdckb occupy cancel"
	case NOP:
		return "nop"
	}
	return fmt.Sprintf("opcode %d", uint8(op))
}

// Header is the decoded first word of a DMA descriptor.
type Header struct {
	Last   bool
	Opcode Opcode

	// number of words in the command frame. between 1 and 256
	Words int

	// the bus field is only meaningful for the SDCKBOccupy opcode
	Bus int
}

func (h Header) String() string {
	s := fmt.Sprintf("%s (%d words)", h.Opcode, h.Words)
	if h.Last {
		s = fmt.Sprintf("%s last", s)
	}
	return s
}

// DecodeHeader decodes the first word of a DMA descriptor. Any word is a
// valid header.
func DecodeHeader(w uint32) Header {
	return Header{
		Last:   w>>31 == 1,
		Opcode: Opcode((w >> 8) & 0x07),
		Words:  int(w&0xff) + 1,
		Bus:    int((w >> 16) & 0x03),
	}
}

// Encode is the inverse of DecodeHeader.
func (h Header) Encode() uint32 {
	var w uint32
	if h.Last {
		w |= 1 << 31
	}
	w |= uint32(h.Opcode&0x07) << 8
	w |= uint32((h.Words-1)&0xff) | uint32(h.Bus&0x03)<<16
	return w
}

// DestinationMask is applied to the second word of a DMA descriptor.
const DestinationMask = 0x1fffffe0

// NumPorts is the number of addressable ports on a bus. Port 5 is the main
// device. Ports 0 to 4 are expansion ports of the main device.
const NumPorts = 6

// MainPort is the port number of the main device on a bus.
const MainPort = 5

// PortFromRecipient returns the port addressed by the recipient byte. The
// port is the lowest set bit of the port mask or the main port if no bit is
// set.
func PortFromRecipient(recipient uint8) int {
	for i := 0; i < NumPorts; i++ {
		if recipient&(1<<i) != 0 {
			return i
		}
	}
	return MainPort
}

// BusFromRecipient returns the bus addressed by the recipient byte.
func BusFromRecipient(recipient uint8) int {
	return int(recipient >> 6)
}

// Recipient returns the recipient byte for the bus and port.
func Recipient(bus int, port int) uint8 {
	return uint8(bus<<6) | uint8(1<<port)
}

// Swap32 reverses the byte order of the word.
func Swap32(w uint32) uint32 {
	return w>>24 | (w>>8)&0xff00 | (w<<8)&0xff0000 | w<<24
}
