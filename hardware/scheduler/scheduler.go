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

// Package scheduler is the virtual clock of the emulation. Time only moves
// forward when Advance() is called. Events are registered once and can then
// be scheduled to fire a number of cycles in the future.
//
// There is no concurrency in the scheduler. Event handlers are called from
// inside Advance() in the order of their due time. Events that are due at the
// same time are called in the order in which they were registered.
package scheduler

import (
	"fmt"
	"strings"
)

// EventType identifies a registered event.
type EventType int

// List of valid EventType values.
const (
	MapleDMA EventType = iota
	MapleReconnect
	VBlank
	numEventTypes
)

func (t EventType) String() string {
	switch t {
	case MapleDMA:
		return "maple dma"
	case MapleReconnect:
		return "maple reconnect"
	case VBlank:
		return "vblank"
	}
	return fmt.Sprintf("event %d", int(t))
}

type event struct {
	handler func()
	due     uint64
	active  bool
}

// Scheduler holds the virtual time and the list of events.
type Scheduler struct {
	now    uint64
	events [numEventTypes]event
}

// NewScheduler is the preferred method of initialisation for the Scheduler type.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

func (s *Scheduler) String() string {
	b := strings.Builder{}
	b.WriteString(fmt.Sprintf("now=%d", s.now))
	for i := range s.events {
		if s.events[i].active {
			b.WriteString(fmt.Sprintf(" [%s @ %d]", EventType(i), s.events[i].due))
		}
	}
	return b.String()
}

// Now returns the current virtual time in cycles. Implements the random.Clock
// interface.
func (s *Scheduler) Now() uint64 {
	return s.now
}

// RegisterEvent sets the handler for the event type. Registering an event
// that is already registered replaces the handler.
func (s *Scheduler) RegisterEvent(t EventType, handler func()) {
	s.events[t].handler = handler
}

// ScheduleEvent arranges for the event handler to be called after the
// specified number of cycles. A pending event is rescheduled.
func (s *Scheduler) ScheduleEvent(t EventType, cycles uint64) {
	s.events[t].due = s.now + cycles
	s.events[t].active = true
}

// DescheduleEvent cancels a pending event. It is not an error to deschedule
// an event that is not pending.
func (s *Scheduler) DescheduleEvent(t EventType) {
	s.events[t].active = false
}

// Pending returns true if the event is scheduled and has not yet fired.
func (s *Scheduler) Pending(t EventType) bool {
	return s.events[t].active
}

// Until returns the number of cycles until the event fires. The boolean is
// false if the event is not pending.
func (s *Scheduler) Until(t EventType) (uint64, bool) {
	if !s.events[t].active {
		return 0, false
	}
	return s.events[t].due - s.now, true
}

// Advance moves virtual time forward by the number of cycles, firing every
// event that falls due along the way. Handlers see Now() as the time the
// event was due.
func (s *Scheduler) Advance(cycles uint64) {
	end := s.now + cycles

	for {
		next := -1
		for i := range s.events {
			e := &s.events[i]
			if e.active && e.due <= end {
				if next == -1 || e.due < s.events[next].due {
					next = i
				}
			}
		}
		if next == -1 {
			break
		}

		e := &s.events[next]
		if e.due > s.now {
			s.now = e.due
		}
		e.active = false
		if e.handler != nil {
			e.handler()
		}
	}

	s.now = end
}

// Reset clears all pending events and sets virtual time to zero. Handlers
// remain registered.
func (s *Scheduler) Reset() {
	s.now = 0
	for i := range s.events {
		s.events[i].active = false
	}
}
