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

package devices_test

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jetsetilly/maplebus/hardware/maple/devices"
	"github.com/jetsetilly/maplebus/test"
)

func TestDefaultImage(t *testing.T) {
	img, err := devices.DefaultVMUImage()
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(img), devices.VMUSize)
	test.ExpectSuccess(t, devices.Formatted(img))

	mi, ok := devices.ReadMediaInfo(img)
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, mi.TotalSize, uint16(0xff))
	test.ExpectEquality(t, mi.FATBlock, uint16(0xfe))
	test.ExpectEquality(t, mi.FileInfoBlocks, uint16(13))
	test.ExpectEquality(t, mi.SaveAreaBlock, uint16(0xc8))

	// freshly formatted
	test.ExpectEquality(t, len(devices.Directory(img)), 0)

	test.ExpectFailure(t, devices.Formatted(make([]byte, devices.VMUSize)))
	test.ExpectFailure(t, devices.Formatted(nil))
}

func TestDirectory(t *testing.T) {
	img, err := devices.DefaultVMUImage()
	test.DemandSuccess(t, err)

	// second entry of the first directory block
	e := img[0xfd*devices.VMUBlockSize+32:]
	e[0] = uint8(devices.FileData)
	e[1] = 0xff
	binary.LittleEndian.PutUint16(e[2:], 199)
	copy(e[4:16], "SONIC_ADV   ")
	copy(e[16:24], []byte{0x19, 0x99, 0x12, 0x23, 0x10, 0x30, 0x00, 0x04})
	binary.LittleEndian.PutUint16(e[24:], 12)

	dir := devices.Directory(img)
	test.DemandEquality(t, len(dir), 1)
	test.ExpectEquality(t, dir[0].Type, devices.FileData)
	test.ExpectSuccess(t, dir[0].Protected)
	test.ExpectEquality(t, dir[0].FirstBlock, uint16(199))
	test.ExpectEquality(t, dir[0].Name, "SONIC_ADV")
	test.ExpectEquality(t, dir[0].Blocks, uint16(12))
	test.ExpectEquality(t, dir[0].Timestamp[1], uint8(0x99))
}

func TestLogicalPort(t *testing.T) {
	test.ExpectEquality(t, devices.LogicalPort(0, 5), "A")
	test.ExpectEquality(t, devices.LogicalPort(0, 0), "A1")
	test.ExpectEquality(t, devices.LogicalPort(3, 1), "D2")
	test.ExpectEquality(t, devices.VMUFilename(1, 0), "vmu_save_B1.bin")
	test.ExpectEquality(t, devices.RFIDFilename(0), "card-p1.card")
}

func TestMemoryStorage(t *testing.T) {
	m := devices.NewMemoryStorage()
	test.ExpectSuccess(t, m.WriteRange(4, []byte{1, 2}))
	b, err := m.ReadAll()
	test.ExpectSuccess(t, err)
	test.ExpectBytes(t, b, []byte{0, 0, 0, 0, 1, 2})

	m.Fail = errors.New("broken")
	test.ExpectFailure(t, m.WriteRange(0, []byte{9}))
	test.ExpectEquality(t, m.Data[0], uint8(0))
}

func TestFileStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "vmu_save_A1.bin")
	f := devices.NewFileStorage(path)
	test.ExpectEquality(t, f.Path(), path)

	// missing file is empty
	b, err := f.ReadAll()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, len(b), 0)

	test.ExpectSuccess(t, f.WriteRange(0, []byte{1, 2, 3, 4}))
	test.ExpectSuccess(t, f.WriteRange(2, []byte{9}))

	b, err = os.ReadFile(path)
	test.DemandSuccess(t, err)
	test.ExpectBytes(t, b, []byte{1, 2, 9, 4})

	b, err = f.ReadAll()
	test.ExpectSuccess(t, err)
	test.ExpectBytes(t, b, []byte{1, 2, 9, 4})
}
