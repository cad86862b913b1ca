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

package scheduler_test

import (
	"testing"

	"github.com/jetsetilly/maplebus/hardware/scheduler"
	"github.com/jetsetilly/maplebus/test"
)

func TestSchedule(t *testing.T) {
	s := scheduler.NewScheduler()

	var fired []string
	var when []uint64
	s.RegisterEvent(scheduler.MapleDMA, func() {
		fired = append(fired, "dma")
		when = append(when, s.Now())
	})
	s.RegisterEvent(scheduler.MapleReconnect, func() {
		fired = append(fired, "reconnect")
		when = append(when, s.Now())
	})

	s.ScheduleEvent(scheduler.MapleReconnect, 100)
	s.ScheduleEvent(scheduler.MapleDMA, 50)
	test.ExpectSuccess(t, s.Pending(scheduler.MapleDMA))

	n, ok := s.Until(scheduler.MapleDMA)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, n, uint64(50))

	s.Advance(49)
	test.ExpectEquality(t, len(fired), 0)

	s.Advance(100)
	test.DemandEquality(t, len(fired), 2)
	test.ExpectEquality(t, fired[0], "dma")
	test.ExpectEquality(t, when[0], uint64(50))
	test.ExpectEquality(t, fired[1], "reconnect")
	test.ExpectEquality(t, when[1], uint64(100))
	test.ExpectEquality(t, s.Now(), uint64(149))
	test.ExpectFailure(t, s.Pending(scheduler.MapleDMA))
}

func TestDeschedule(t *testing.T) {
	s := scheduler.NewScheduler()

	var count int
	s.RegisterEvent(scheduler.MapleDMA, func() {
		count++
	})

	s.ScheduleEvent(scheduler.MapleDMA, 10)
	s.DescheduleEvent(scheduler.MapleDMA)
	s.Advance(20)
	test.ExpectEquality(t, count, 0)

	_, ok := s.Until(scheduler.MapleDMA)
	test.ExpectFailure(t, ok)
}

func TestRescheduleFromHandler(t *testing.T) {
	s := scheduler.NewScheduler()

	var count int
	s.RegisterEvent(scheduler.VBlank, func() {
		count++
		s.ScheduleEvent(scheduler.VBlank, 10)
	})
	s.ScheduleEvent(scheduler.VBlank, 10)
	s.Advance(35)
	test.ExpectEquality(t, count, 3)

	s.Reset()
	test.ExpectEquality(t, s.Now(), uint64(0))
	test.ExpectFailure(t, s.Pending(scheduler.VBlank))
}
