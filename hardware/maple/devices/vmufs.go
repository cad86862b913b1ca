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
	"encoding/binary"
	"fmt"
	"strings"
)

// MediaInfo is the volume information stored in the root block of a VMU
// image.
type MediaInfo struct {
	TotalSize       uint16
	Partition       uint16
	SystemArea      uint16
	FATBlock        uint16
	FATBlocks       uint16
	FileInfoBlock   uint16
	FileInfoBlocks  uint16
	VolumeIcon      uint8
	SaveAreaBlock   uint16
	SaveAreaBlocks  uint16
	ExecutionFormat uint32
}

func (mi MediaInfo) String() string {
	return fmt.Sprintf("size=%d fat=%d/%d dir=%d/%d save=%d/%d",
		int(mi.TotalSize)+1, mi.FATBlock, mi.FATBlocks,
		mi.FileInfoBlock, mi.FileInfoBlocks, mi.SaveAreaBlock, mi.SaveAreaBlocks)
}

// Formatted returns true if the image has a valid root block.
func Formatted(img []byte) bool {
	if len(img) < VMUSize {
		return false
	}
	return binary.LittleEndian.Uint16(img[vmuMediaInfo:]) == 0xff
}

// ReadMediaInfo returns the media info stored in the image.
func ReadMediaInfo(img []byte) (MediaInfo, bool) {
	if !Formatted(img) {
		return MediaInfo{}, false
	}

	b := img[vmuMediaInfo:]
	return MediaInfo{
		TotalSize:       binary.LittleEndian.Uint16(b[0:]),
		Partition:       binary.LittleEndian.Uint16(b[2:]),
		SystemArea:      binary.LittleEndian.Uint16(b[4:]),
		FATBlock:        binary.LittleEndian.Uint16(b[6:]),
		FATBlocks:       binary.LittleEndian.Uint16(b[8:]),
		FileInfoBlock:   binary.LittleEndian.Uint16(b[10:]),
		FileInfoBlocks:  binary.LittleEndian.Uint16(b[12:]),
		VolumeIcon:      b[14],
		SaveAreaBlock:   binary.LittleEndian.Uint16(b[16:]),
		SaveAreaBlocks:  binary.LittleEndian.Uint16(b[18:]),
		ExecutionFormat: binary.LittleEndian.Uint32(b[20:]),
	}, true
}

// FileType of a directory entry.
type FileType uint8

// List of valid FileType values.
const (
	FileNone FileType = 0x00
	FileData FileType = 0x33
	FileGame FileType = 0xcc
)

func (t FileType) String() string {
	switch t {
	case FileData:
		return "data"
	case FileGame:
		return "game"
	}
	return "none"
}

// DirEntry is a single file in the directory of a VMU image.
type DirEntry struct {
	Type       FileType
	Protected  bool
	FirstBlock uint16
	Name       string
	Blocks     uint16

	// the timestamp is BCD: century, year, month, day, hour, minute, second
	// and day of week
	Timestamp [8]uint8
}

func (e DirEntry) String() string {
	t := e.Timestamp
	return fmt.Sprintf("%-12s %s %3d blocks %02x%02x-%02x-%02x %02x:%02x", e.Name, e.Type, e.Blocks, t[0], t[1], t[2], t[3], t[4], t[5])
}

const dirEntrySize = 32

// Directory lists the files in a VMU image. The directory blocks are stored
// in descending order from the file info block.
func Directory(img []byte) []DirEntry {
	mi, ok := ReadMediaInfo(img)
	if !ok {
		return nil
	}

	var entries []DirEntry

	for i := 0; i < int(mi.FileInfoBlocks); i++ {
		blk := int(mi.FileInfoBlock) - i
		if blk < 0 || blk >= VMUNumBlocks {
			break
		}
		data := img[blk*VMUBlockSize : (blk+1)*VMUBlockSize]
		for o := 0; o < VMUBlockSize; o += dirEntrySize {
			e := data[o : o+dirEntrySize]
			if FileType(e[0]) == FileNone {
				continue
			}
			var d DirEntry
			d.Type = FileType(e[0])
			d.Protected = e[1] == 0xff
			d.FirstBlock = binary.LittleEndian.Uint16(e[2:])
			d.Name = strings.TrimRight(string(e[4:16]), " \x00")
			copy(d.Timestamp[:], e[16:24])
			d.Blocks = binary.LittleEndian.Uint16(e[24:])
			entries = append(entries, d)
		}
	}

	return entries
}
