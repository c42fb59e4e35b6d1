// video-monitor - timelapse and motion triggered recording from a camera stream
//  Copyright (C) 2020, The Cacophony Project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Package healthcheck decides when to take a liveness snapshot so that a
// dead camera can be told apart from a quiet scene.
package healthcheck

import (
	"sync/atomic"
)

// Scheduler counts frames between health checks. A new Scheduler is due
// straight away so the first Idle frame produces a snapshot.
type Scheduler struct {
	interval  int
	sinceLast int
	requested atomic.Bool
}

// NewScheduler returns a Scheduler that is due every interval frames.
func NewScheduler(interval int) *Scheduler {
	return &Scheduler{
		interval:  interval,
		sinceLast: interval,
	}
}

// FrameRead is called for every frame successfully read from the stream.
func (s *Scheduler) FrameRead() {
	s.sinceLast++
}

// Due reports whether a health check should be taken now. Callers only
// ask while the monitor is idle.
func (s *Scheduler) Due() bool {
	return s.requested.Load() || s.sinceLast >= s.interval
}

// Taken restarts the count after a health check.
func (s *Scheduler) Taken() {
	s.sinceLast = 0
	s.requested.Store(false)
}

// Request makes the next Due call return true. Safe to call from any
// goroutine.
func (s *Scheduler) Request() {
	s.requested.Store(true)
}

func (s *Scheduler) FramesSinceLast() int {
	return s.sinceLast
}
