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
package curated

import (
	"fmt"
	"strings"
)

// separator between the parts of a message chain.
const separator = ": "

// failure is the error type returned by Errorf. The message is only built
// when Error() is called.
type failure struct {
	pattern string
	args    []any
}

// Errorf returns an error that remembers the pattern it was created with.
// The pattern takes the same verbs as fmt.Errorf.
func Errorf(pattern string, args ...any) error {
	return failure{pattern: pattern, args: args}
}

// Error implements the error interface. Repeated neighbouring parts of the
// message chain are collapsed into one.
func (f failure) Error() string {
	msg := fmt.Sprintf(f.pattern, f.args...)

	var b strings.Builder
	var prev string
	for i, part := range strings.Split(msg, separator) {
		if i > 0 {
			if part == prev {
				continue
			}
			b.WriteString(separator)
		}
		b.WriteString(part)
		prev = part
	}
	return b.String()
}

// Unwrap gives the errors package access to the first error argument.
func (f failure) Unwrap() error {
	for _, a := range f.args {
		if err, ok := a.(error); ok {
			return err
		}
	}
	return nil
}

// IsAny is true if err was created by Errorf.
func IsAny(err error) bool {
	_, ok := err.(failure)
	return ok
}

// Is is true if err was created by Errorf with the given pattern.
func Is(err error, pattern string) bool {
	f, ok := err.(failure)
	return ok && f.pattern == pattern
}

// Has is like Is but also looks at every curated error in the argument list,
// recursively.
func Has(err error, pattern string) bool {
	f, ok := err.(failure)
	if !ok {
		return false
	}
	if f.pattern == pattern {
		return true
	}
	for _, a := range f.args {
		if inner, ok := a.(error); ok && Has(inner, pattern) {
			return true
		}
	}
	return false
}
