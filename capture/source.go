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

// Package capture reads frames from a camera stream and keeps the stream
// alive across connection problems.
package capture

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/TheCacophonyProject/video-monitor/loglimiter"
)

const minLogInterval = time.Minute

var (
	ErrConnectFailed      = errors.New("could not connect to camera")
	ErrReadFailed         = errors.New("error reading frame")
	ErrReconnectExhausted = errors.New("reconnect attempts exhausted")
	ErrNotOpen            = errors.New("stream is not open")
)

// ReconnectConfig bounds how hard the Source tries to keep the stream open.
type ReconnectConfig struct {
	// MaxReconnects is the number of connection attempts made each time the
	// stream is (re)opened.
	MaxReconnects int `yaml:"max_reconnects"`
	// MaxErrorFrames is the number of consecutive failed reads tolerated
	// before the stream is reopened.
	MaxErrorFrames int `yaml:"max_error_frames"`
	// RetryDelay is the pause between connection attempts.
	RetryDelay time.Duration `yaml:"-"`
}

func DefaultReconnectConfig() ReconnectConfig {
	return ReconnectConfig{
		MaxReconnects:  5,
		MaxErrorFrames: 10,
		RetryDelay:     10 * time.Second,
	}
}

func (conf ReconnectConfig) Validate() error {
	if conf.MaxReconnects < 1 {
		return errors.New("max_reconnects must be at least 1")
	}
	if conf.MaxErrorFrames < 1 {
		return errors.New("max_error_frames must be at least 1")
	}
	if conf.RetryDelay < 0 {
		return errors.New("reconnect_delay can't be negative")
	}
	return nil
}

// Counters exposes the stream health counters.
type Counters struct {
	// ErrorFrames is the number of consecutive failed reads.
	ErrorFrames int
	// ReconnectAttempts is the number of connection attempts made since
	// the last successful read.
	ReconnectAttempts int
	// Connections is the number of times the stream has been opened
	// successfully. A change means a new stream generation.
	Connections int
}

// Source wraps a Device with the retry policy. It is not safe for
// concurrent use; it has exactly one reader.
type Source struct {
	device   Device
	source   string
	conf     ReconnectConfig
	sleep    func(time.Duration)
	handle   Handle
	pending  *Frame
	counters Counters
	log      *loglimiter.LogLimiter
}

func NewSource(device Device, source string, conf ReconnectConfig) *Source {
	return &Source{
		device: device,
		source: source,
		conf:   conf,
		sleep:  time.Sleep,
		log:    loglimiter.New(minLogInterval),
	}
}

// Open connects to the stream making up to MaxReconnects attempts with
// RetryDelay between them. A connection only counts once a first frame
// has been read from it; that frame is returned by the next Read.
func (s *Source) Open() error {
	s.closeHandle()

	for attempt := 1; attempt <= s.conf.MaxReconnects; attempt++ {
		s.counters.ReconnectAttempts++
		log.Printf("stream connection attempt #%d", attempt)

		err := s.connect()
		if err == nil {
			s.counters.Connections++
			log.Print("video monitoring started")
			return nil
		}
		log.Printf("connection attempt #%d failed: %v", attempt, err)

		if attempt < s.conf.MaxReconnects {
			s.sleep(s.conf.RetryDelay)
		}
	}
	return fmt.Errorf("%w: could not connect to %q after %d attempts",
		ErrReconnectExhausted, s.source, s.conf.MaxReconnects)
}

func (s *Source) connect() error {
	handle, err := s.device.Open(s.source)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnectFailed, err)
	}
	frame, err := handle.Read()
	if err != nil {
		handle.Close()
		return fmt.Errorf("%w: unable to read first image: %v", ErrConnectFailed, err)
	}
	s.handle = handle
	s.pending = frame
	return nil
}

// Read returns the next frame. Failed reads are counted and retried; once
// MaxErrorFrames consecutive reads fail the stream is reopened. The only
// errors returned are ErrNotOpen and ErrReconnectExhausted.
func (s *Source) Read() (*Frame, error) {
	for {
		if s.pending != nil {
			frame := s.pending
			s.pending = nil
			s.readSucceeded()
			return frame, nil
		}
		if s.handle == nil {
			return nil, ErrNotOpen
		}

		frame, err := s.handle.Read()
		if err == nil {
			s.readSucceeded()
			return frame, nil
		}

		s.counters.ErrorFrames++
		s.log.Printf("error reading frame: %v", err)
		if s.counters.ErrorFrames < s.conf.MaxErrorFrames {
			continue
		}

		log.Printf("too many errors in input stream (%d), reconnecting", s.counters.ErrorFrames)
		s.counters.ErrorFrames = 0
		if err := s.Open(); err != nil {
			return nil, err
		}
	}
}

func (s *Source) readSucceeded() {
	s.counters.ErrorFrames = 0
	s.counters.ReconnectAttempts = 0
	s.log.Flush()
}

// Pause releases the device handle so nothing else competes with it,
// e.g. while an upload runs. Resume reopens it.
func (s *Source) Pause() {
	log.Print("pausing capture")
	s.closeHandle()
}

// Resume reopens a paused stream using the normal retry policy.
func (s *Source) Resume() error {
	log.Print("resuming capture")
	return s.Open()
}

func (s *Source) Close() {
	s.closeHandle()
}

func (s *Source) Counters() Counters {
	return s.counters
}

func (s *Source) closeHandle() {
	if s.pending != nil {
		s.pending.Close()
		s.pending = nil
	}
	if s.handle != nil {
		if err := s.handle.Close(); err != nil {
			log.Printf("error closing stream: %v", err)
		}
		s.handle = nil
	}
}
