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

package prefs

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/jetsetilly/maplebus/curated"
)

// DefaultPrefsFile is the default filename of the global preferences file.
const DefaultPrefsFile = "preferences"

// WarningBoilerPlate is inserted at the beginning of a preferences file.
const WarningBoilerPlate = "*** do not edit this file by hand ***"

// KeySep is the separator between key and value in a preferences file.
const KeySep = " :: "

// Sentinal error patterns.
const (
	NoPrefsFile = "prefs: no prefs file (%s)"
	InvalidLine = "prefs: invalid line in prefs file (%s)"
)

// keys that are no longer used. they are dropped when the file is next saved
var defunct = map[string]bool{
	"maple.vmu.compress": true,
	"maple.jvs.rotary":   true,
}

// Disk represents preference values as stored on disk. Values are
// registered with Add() and are then loaded and saved as a group.
//
// A Disk with an empty path is held in memory only. Load() and Save() do
// nothing for such a Disk.
type Disk struct {
	path    string
	entries map[string]pref
}

func (dsk *Disk) String() string {
	keys := make([]string, 0, len(dsk.entries))
	for k := range dsk.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s := strings.Builder{}
	for _, k := range keys {
		s.WriteString(fmt.Sprintf("%s%s%s\n", k, KeySep, dsk.entries[k]))
	}
	return s.String()
}

// NewDisk is the preferred method of initialisation for the Disk type.
func NewDisk(path string) (*Disk, error) {
	dsk := &Disk{
		path:    path,
		entries: make(map[string]pref),
	}
	return dsk, nil
}

// Add preference value to list of values to store/load from Disk. The key
// value is used to identify the value in the preferences file. Keys must not
// contain the separator string.
func (dsk *Disk) Add(key string, p pref) error {
	if strings.Contains(key, strings.TrimSpace(KeySep)) {
		return fmt.Errorf("prefs: illegal key name: %s", key)
	}

	dsk.entries[key] = p

	if v, ok := override(key); ok {
		if err := p.Set(v); err != nil {
			return curated.Errorf("prefs: %s: %v", key, err)
		}
	}

	return nil
}

// Reset all entries in the Disk to their zero values.
func (dsk *Disk) Reset() error {
	for _, v := range dsk.entries {
		if err := v.Reset(); err != nil {
			return err
		}
	}
	return nil
}

// readLines returns the key/value pairs in the preferences file. entries that
// are not registered with this Disk instance are included so that they can be
// preserved when the file is saved
func (dsk *Disk) readLines() (map[string]string, error) {
	f, err := os.Open(dsk.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, curated.Errorf(NoPrefsFile, dsk.path)
		}
		return nil, curated.Errorf("prefs: %v", err)
	}
	defer f.Close()

	return parse(f)
}

func parse(r io.Reader) (map[string]string, error) {
	lines := make(map[string]string)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		l := scanner.Text()
		if l == "" || l == WarningBoilerPlate {
			continue
		}

		kv := strings.SplitN(l, KeySep, 2)
		if len(kv) != 2 {
			return nil, curated.Errorf(InvalidLine, l)
		}

		if defunct[kv[0]] {
			continue
		}

		lines[kv[0]] = kv[1]
	}

	if err := scanner.Err(); err != nil {
		return nil, curated.Errorf("prefs: %v", err)
	}

	return lines, nil
}

// Save current preference values to disk. Values in the preferences file that
// have not been added to this Disk are preserved.
func (dsk *Disk) Save() error {
	if dsk.path == "" {
		return nil
	}

	lines, err := dsk.readLines()
	if err != nil {
		if !curated.Is(err, NoPrefsFile) {
			return err
		}
		lines = make(map[string]string)
	}

	for k, v := range dsk.entries {
		lines[k] = v.String()
	}

	keys := make([]string, 0, len(lines))
	for k := range lines {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	f, err := os.Create(dsk.path)
	if err != nil {
		return curated.Errorf("prefs: %v", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "%s\n", WarningBoilerPlate)
	for _, k := range keys {
		fmt.Fprintf(w, "%s%s%s\n", k, KeySep, lines[k])
	}

	if err := w.Flush(); err != nil {
		return curated.Errorf("prefs: %v", err)
	}

	return nil
}

// Load preference values from disk. If saveOnFail is true and the
// preferences file does not exist then the current values are saved to
// create the file. The NoPrefsFile error is still returned in that case.
func (dsk *Disk) Load(saveOnFail bool) error {
	if dsk.path == "" {
		return nil
	}

	lines, err := dsk.readLines()
	if err != nil {
		if curated.Is(err, NoPrefsFile) && saveOnFail {
			if serr := dsk.Save(); serr != nil {
				return serr
			}
		}
		return err
	}

	for k, p := range dsk.entries {
		v, ok := override(k)
		if !ok {
			v, ok = lines[k]
		}
		if ok {
			if err := p.Set(v); err != nil {
				return curated.Errorf("prefs: %s: %v", k, err)
			}
		}
	}

	return nil
}

// DoesNotHaveEntry returns true if the preferences file does not contain the
// key. A missing file has no entries.
func (dsk *Disk) DoesNotHaveEntry(key string) (bool, error) {
	if dsk.path == "" {
		return true, nil
	}

	lines, err := dsk.readLines()
	if err != nil {
		if curated.Is(err, NoPrefsFile) {
			return true, nil
		}
		return false, err
	}

	_, ok := lines[key]
	return !ok, nil
}
