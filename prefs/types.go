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
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
)

// Value is the type accepted by Set() and returned by Get().
type Value any

// the interface required of a type added to a Disk
type pref interface {
	fmt.Stringer
	Set(value Value) error
	Get() Value
	Reset() error
}

// hooks are shared by every preference type. the pre hook can reject a value
// by returning an error. both hooks are called even if the value is unchanged
type hooks struct {
	pre  func(value Value) error
	post func(value Value) error
}

// SetHookPre sets the function called before a new value is stored.
func (h *hooks) SetHookPre(f func(value Value) error) {
	h.pre = f
}

// SetHookPost sets the function called after a new value is stored.
func (h *hooks) SetHookPost(f func(value Value) error) {
	h.post = f
}

func store[T bool | string | int](h *hooks, a *atomic.Value, v T) error {
	if h.pre != nil {
		if err := h.pre(v); err != nil {
			return err
		}
	}
	a.Store(v)
	if h.post != nil {
		return h.post(v)
	}
	return nil
}

// the zero value of T is returned if nothing has been stored
func load[T bool | string | int](a *atomic.Value) T {
	v, _ := a.Load().(T)
	return v
}

// Bool is a boolean preference.
type Bool struct {
	hooks
	value atomic.Value
}

func (p *Bool) String() string {
	return strconv.FormatBool(load[bool](&p.value))
}

// Set accepts a bool or a string. Any string other than "true", in any case,
// is false.
func (p *Bool) Set(v Value) error {
	switch v := v.(type) {
	case bool:
		return store(&p.hooks, &p.value, v)
	case string:
		return store(&p.hooks, &p.value, strings.EqualFold(strings.TrimSpace(v), "true"))
	}
	return fmt.Errorf("prefs: cannot set Bool from %T", v)
}

// Get returns the value as a bool.
func (p *Bool) Get() Value {
	return load[bool](&p.value)
}

// Reset to false.
func (p *Bool) Reset() error {
	return p.Set(false)
}

// String is a string preference.
type String struct {
	hooks
	value atomic.Value
}

func (p *String) String() string {
	return load[string](&p.value)
}

// Set accepts any value. Values that are not strings are formatted with the
// default format.
func (p *String) Set(v Value) error {
	s, ok := v.(string)
	if !ok {
		s = fmt.Sprint(v)
	}
	return store(&p.hooks, &p.value, s)
}

// Get returns the value as a string.
func (p *String) Get() Value {
	return p.String()
}

// Reset to the empty string.
func (p *String) Reset() error {
	return p.Set("")
}

// Int is an integer preference.
type Int struct {
	hooks
	value atomic.Value
}

func (p *Int) String() string {
	return strconv.Itoa(load[int](&p.value))
}

// Set accepts any integer type or a string in base 10.
func (p *Int) Set(v Value) error {
	switch v := v.(type) {
	case int:
		return store(&p.hooks, &p.value, v)
	case int32:
		return store(&p.hooks, &p.value, int(v))
	case int64:
		return store(&p.hooks, &p.value, int(v))
	case uint8:
		return store(&p.hooks, &p.value, int(v))
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("prefs: cannot set Int: %w", err)
		}
		return store(&p.hooks, &p.value, n)
	}
	return fmt.Errorf("prefs: cannot set Int from %T", v)
}

// Get returns the value as an int.
func (p *Int) Get() Value {
	return load[int](&p.value)
}

// Reset to zero.
func (p *Int) Reset() error {
	return p.Set(0)
}
