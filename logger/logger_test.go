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

package logger_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/jetsetilly/maplebus/logger"
	"github.com/jetsetilly/maplebus/test"
)

func TestTail(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Write(w)
	test.ExpectEquality(t, w.String(), "")

	log.Log(logger.Allow, "maple", "device attached")
	log.Write(w)
	test.ExpectEquality(t, w.String(), "maple: device attached\n")

	w.Reset()
	log.Log(logger.Allow, "vmu", "blank image")
	log.Write(w)
	test.ExpectEquality(t, w.String(), "maple: device attached\nvmu: blank image\n")

	// asking for too many entries in a Tail() should be okay
	w.Reset()
	log.Tail(w, 100)
	test.ExpectEquality(t, w.String(), "maple: device attached\nvmu: blank image\n")

	w.Reset()
	log.Tail(w, 1)
	test.ExpectEquality(t, w.String(), "vmu: blank image\n")

	w.Reset()
	log.Tail(w, 0)
	test.ExpectEquality(t, w.String(), "")
}

func TestRepeat(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Log(logger.Allow, "maple: dma", "unknown opcode 6")
	log.Log(logger.Allow, "maple: dma", "unknown opcode 6")
	log.Log(logger.Allow, "maple: dma", "unknown opcode 6")
	log.Write(w)
	test.ExpectEquality(t, w.String(), "maple: dma: unknown opcode 6 (repeat x3)\n")

	// a different tag breaks the run
	w.Reset()
	log.Log(logger.Allow, "maple", "unknown opcode 6")
	log.Tail(w, 1)
	test.ExpectEquality(t, w.String(), "maple: unknown opcode 6\n")
}

func TestMaxEntries(t *testing.T) {
	log := logger.NewLogger(2)
	w := &strings.Builder{}

	log.Log(logger.Allow, "a", "1")
	log.Log(logger.Allow, "b", "2")
	log.Log(logger.Allow, "c", "3")
	log.Write(w)
	test.ExpectEquality(t, w.String(), "b: 2\nc: 3\n")
}

type prohibitLogging struct {
	allow bool
}

func (p prohibitLogging) AllowLogging() bool {
	return p.allow
}

func TestPermissions(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Log(prohibitLogging{allow: false}, "tag", "detail")
	log.Write(w)
	test.ExpectEquality(t, w.String(), "")

	log.Log(prohibitLogging{allow: true}, "tag", "detail")
	log.Write(w)
	test.ExpectEquality(t, w.String(), "tag: detail\n")
}

type stringerTest struct{}

func (_ stringerTest) String() string {
	return "stringer test"
}

func TestDetailTypes(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Log(logger.Allow, "tag", errors.New("test error"))
	log.Log(logger.Allow, "tag", stringerTest{})
	log.Log(logger.Allow, "tag", 100)
	log.Logf(logger.Allow, "tag", "wrapped: %v", errors.New("test error"))
	log.Write(w)
	test.ExpectEquality(t, w.String(), "tag: test error\ntag: stringer test\ntag: 100\ntag: wrapped: test error\n")
}

func TestEcho(t *testing.T) {
	log := logger.NewLogger(100)
	log.Log(logger.Allow, "tag", "before")

	w := &test.CompareWriter{}
	log.SetEcho(w, true)
	log.Log(logger.Allow, "tag", "after")
	test.ExpectSuccess(t, w.Compare("tag: before\ntag: after\n"))

	// repeated entries are not echoed
	log.Log(logger.Allow, "tag", "after")
	test.ExpectSuccess(t, w.Compare("tag: before\ntag: after\n"))

	log.SetEcho(nil, false)
	log.Log(logger.Allow, "tag", "silent")
	test.ExpectSuccess(t, w.Compare("tag: before\ntag: after\n"))

	var n int
	log.BorrowLog(func(e []logger.Entry) {
		n = len(e)
	})
	test.ExpectEquality(t, n, 3)
}
