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

// Package trip turns a noisy per frame motion signal into a stable
// tripped / not tripped decision.
package trip

import (
	"errors"
	"fmt"
)

type Phase int

const (
	Idle Phase = iota
	Tripped
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Tripped:
		return "tripped"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

type Config struct {
	// MinMotionFrames is the number of consecutive motion frames needed to trip.
	MinMotionFrames int `yaml:"min_motion_frames"`
	// MinNoMotionFrames is the number of consecutive still frames after which
	// a partial motion count is forgotten.
	MinNoMotionFrames int `yaml:"min_no_motion_frames"`
}

func DefaultConfig() Config {
	return Config{
		MinMotionFrames:   8,
		MinNoMotionFrames: 4,
	}
}

func (conf Config) Validate() error {
	if conf.MinMotionFrames < 1 {
		return errors.New("min_motion_frames must be at least 1")
	}
	if conf.MinNoMotionFrames < 1 {
		return errors.New("min_no_motion_frames must be at least 1")
	}
	return nil
}

type State struct {
	Phase          Phase
	MotionFrames   int
	NoMotionFrames int
}

func (s State) Tripped() bool {
	return s.Phase == Tripped
}

func (s State) String() string {
	return fmt.Sprintf("Tripped: %t, MotionFrameCount: %d, NoMotionFrameCount: %d",
		s.Tripped(), s.MotionFrames, s.NoMotionFrames)
}

// Next applies one frame's motion signal to s. A tripped state is returned
// unchanged; it only goes back to Idle through Release.
func Next(s State, motion bool, conf Config) State {
	if s.Phase == Tripped {
		return s
	}

	if motion {
		s.NoMotionFrames = 0
		s.MotionFrames++
		if s.MotionFrames >= conf.MinMotionFrames {
			return State{Phase: Tripped}
		}
		return s
	}

	s.NoMotionFrames++
	if s.NoMotionFrames >= conf.MinNoMotionFrames {
		s.MotionFrames = 0
		s.NoMotionFrames = 0
	}
	return s
}

// Release ends a trip.
func Release(State) State {
	return State{Phase: Idle}
}

// Debouncer holds the current State for a single stream.
type Debouncer struct {
	conf  Config
	state State
}

func NewDebouncer(conf Config) *Debouncer {
	return &Debouncer{conf: conf}
}

// Observe feeds one frame's motion signal and reports whether this frame
// tripped the debouncer.
func (d *Debouncer) Observe(motion bool) bool {
	prev := d.state
	d.state = Next(d.state, motion, d.conf)
	return prev.Phase == Idle && d.state.Phase == Tripped
}

func (d *Debouncer) Release() {
	d.state = Release(d.state)
}

func (d *Debouncer) State() State {
	return d.state
}
