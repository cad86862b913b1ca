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
package resources

import (
	"os"
	"path/filepath"
	"strings"
)

// a directory with this name in the working directory takes precedence over
// the build specific base.
const portablePath = ".maplebus"

func basePath() (string, error) {
	if fi, err := os.Stat(portablePath); err == nil && fi.IsDir() {
		return portablePath, nil
	}
	return resourcePath()
}

// JoinPath returns the location of a resource below the base path. Parent
// directories are created as needed but the resource itself is not.
func JoinPath(elem ...string) (string, error) {
	base, err := basePath()
	if err != nil {
		return "", err
	}

	p := filepath.Join(elem...)
	if !strings.HasPrefix(p, base) {
		p = filepath.Join(base, p)
	}

	if _, err := os.Stat(p); err != nil {
		if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
			return "", err
		}
	}
	return p, nil
}
