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
	"sort"
	"strings"
	"sync"

	"github.com/jetsetilly/maplebus/curated"
)

// MalformedOverride is the error pattern for an override string that can not
// be parsed.
const MalformedOverride = "prefs: malformed override (%s)"

// OverrideSep separates the key and the value in an override string. Pairs
// are separated by a semi-colon. For example:
//
//	maple.bus.0.main::keyboard; maple.swapmsb::true
const OverrideSep = "::"

// values given on the command line. they are applied when a preference is
// added to a Disk and again after the Disk is loaded
var overrides struct {
	crit   sync.Mutex
	values map[string]string
	used   map[string]bool
}

// SetOverrides replaces the current overrides with those in the string. An
// empty string clears the overrides.
func SetOverrides(s string) error {
	values := make(map[string]string)

	for _, p := range strings.Split(s, ";") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		k, v, ok := strings.Cut(p, OverrideSep)
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return curated.Errorf(MalformedOverride, p)
		}
		values[k] = strings.TrimSpace(v)
	}

	overrides.crit.Lock()
	defer overrides.crit.Unlock()
	overrides.values = values
	overrides.used = make(map[string]bool)

	return nil
}

// UnusedOverrides returns the keys of overrides that have not been applied to
// any preference, in sorted order. Usually a sign of a mistyped key.
func UnusedOverrides() []string {
	overrides.crit.Lock()
	defer overrides.crit.Unlock()

	var keys []string
	for k := range overrides.values {
		if !overrides.used[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func override(key string) (string, bool) {
	overrides.crit.Lock()
	defer overrides.crit.Unlock()

	v, ok := overrides.values[key]
	if ok {
		overrides.used[key] = true
	}
	return v, ok
}
