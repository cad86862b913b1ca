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
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jetsetilly/maplebus/curated"
)

// StorageError is the error pattern for failed storage operations.
const StorageError = "devices: storage: %v"

// Storage is the persistent data of a device. The data is read once when the
// device is created and written back in ranges.
type Storage interface {
	// ReadAll returns the stored data. Missing data is not an error and
	// results in an empty slice
	ReadAll() ([]byte, error)

	// WriteRange writes the bytes at the offset. The stored data is extended
	// as required
	WriteRange(offset int, b []byte) error
}

// MemoryStorage is a Storage implementation that keeps the data in memory.
type MemoryStorage struct {
	Data []byte

	// if Fail is not nil it is returned by every call to WriteRange
	Fail error
}

// NewMemoryStorage is the preferred method of initialisation for the
// MemoryStorage type.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// ReadAll implements the Storage interface.
func (m *MemoryStorage) ReadAll() ([]byte, error) {
	b := make([]byte, len(m.Data))
	copy(b, m.Data)
	return b, nil
}

// WriteRange implements the Storage interface.
func (m *MemoryStorage) WriteRange(offset int, b []byte) error {
	if m.Fail != nil {
		return curated.Errorf(StorageError, m.Fail)
	}
	if offset < 0 {
		return curated.Errorf(StorageError, fmt.Sprintf("negative offset (%d)", offset))
	}
	if end := offset + len(b); end > len(m.Data) {
		m.Data = append(m.Data, make([]byte, end-len(m.Data))...)
	}
	copy(m.Data[offset:], b)
	return nil
}

// FileStorage is a Storage implementation backed by a file.
type FileStorage struct {
	path string
}

// NewFileStorage is the preferred method of initialisation for the
// FileStorage type. The file is not opened or created until it is needed.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Path returns the filename of the storage.
func (f *FileStorage) Path() string {
	return f.path
}

// ReadAll implements the Storage interface.
func (f *FileStorage) ReadAll() ([]byte, error) {
	b, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []byte{}, nil
		}
		return nil, curated.Errorf(StorageError, err)
	}
	return b, nil
}

// WriteRange implements the Storage interface.
func (f *FileStorage) WriteRange(offset int, b []byte) error {
	if offset < 0 {
		return curated.Errorf(StorageError, fmt.Sprintf("negative offset (%d)", offset))
	}

	err := os.MkdirAll(filepath.Dir(f.path), 0700)
	if err != nil {
		return curated.Errorf(StorageError, err)
	}

	fh, err := os.OpenFile(f.path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return curated.Errorf(StorageError, err)
	}
	defer fh.Close()

	_, err = fh.WriteAt(b, int64(offset))
	if err != nil {
		return curated.Errorf(StorageError, err)
	}

	return nil
}
