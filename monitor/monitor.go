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

// Package monitor drives the capture loop for both operating modes.
package monitor

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/TheCacophonyProject/video-monitor/capture"
	"github.com/TheCacophonyProject/video-monitor/events"
	"github.com/TheCacophonyProject/video-monitor/healthcheck"
	"github.com/TheCacophonyProject/video-monitor/loglimiter"
	"github.com/TheCacophonyProject/video-monitor/motion"
	"github.com/TheCacophonyProject/video-monitor/recorder"
	"github.com/TheCacophonyProject/video-monitor/trip"
	"github.com/TheCacophonyProject/video-monitor/upload"
)

const minLogInterval = time.Minute

type Mode string

const (
	Timelapse Mode = "timelapse"
	Intrusion Mode = "intrusion"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case Timelapse, Intrusion:
		return m, nil
	default:
		return "", fmt.Errorf("unknown mode %q (expected %q or %q)", s, Timelapse, Intrusion)
	}
}

// Source is the reconnecting frame stream.
type Source interface {
	Open() error
	Read() (*capture.Frame, error)
	Pause()
	Resume() error
	Close()
	Counters() capture.Counters
}

// Sensor finds motion in frames.
type Sensor interface {
	Seed(*capture.Frame)
	Detect(*capture.Frame) motion.Result
	Mask() *gocv.Mat
}

// Preview shows frames to an operator. Show reports whether the operator
// asked to quit.
type Preview interface {
	Show(frame *capture.Frame, mask *gocv.Mat) bool
}

// Shipper hands finished artifacts to remote storage.
type Shipper interface {
	Enabled() bool
	Ship(localPath, remotePath string) bool
}

// Window reports whether intrusion detection is armed.
type Window interface {
	Active() bool
}

// Watchdog is told when the stream is up and when frames arrive.
type Watchdog interface {
	Ready()
	FrameRead()
}

type Config struct {
	OutputDir string

	MaxFramesPerVid int
	WaitBetweenCaps time.Duration
	TimelapseFPS    float64

	IntrusionFPS      float64
	FramesToRecord    int
	MaxVideosToMake   int
	HealthCheckFrames int
	Trip              trip.Config
}

// Components are the capabilities the monitor drives. Source, Encoder and
// Stills are required; Sensor is required for intrusion mode. The rest
// may be left nil.
type Components struct {
	Source   Source
	Sensor   Sensor
	Encoder  recorder.VideoEncoder
	Stills   recorder.StillEncoder
	Shipper  Shipper
	Preview  Preview
	Window   Window
	Events   events.Reporter
	Watchdog Watchdog
}

// RunState is a snapshot of the process wide counters.
type RunState struct {
	Mode                       Mode
	RecordedVideos             int
	FramesRead                 int
	ErrorFrames                int
	ReconnectAttempts          int
	Connections                int
	FramesSinceLastHealthCheck int
	Trip                       trip.State
	Recording                  string
}

// Monitor owns the stream for the duration of a run. Only State and
// RequestHealthCheck may be called from other goroutines.
type Monitor struct {
	conf      Config
	c         Components
	debouncer *trip.Debouncer
	health    *healthcheck.Scheduler
	log       *loglimiter.LogLimiter

	now   func() time.Time
	sleep func(context.Context, time.Duration)

	connections int
	reseed      bool

	mu    sync.Mutex
	state RunState
}

func New(conf Config, c Components) *Monitor {
	if c.Shipper == nil {
		c.Shipper = upload.NewGateway(nil, false)
	}
	if c.Window == nil {
		c.Window = alwaysArmed{}
	}
	if c.Events == nil {
		c.Events = events.Nop{}
	}
	if c.Watchdog == nil {
		c.Watchdog = nopWatchdog{}
	}
	return &Monitor{
		conf:      conf,
		c:         c,
		debouncer: trip.NewDebouncer(conf.Trip),
		health:    healthcheck.NewScheduler(conf.HealthCheckFrames),
		log:       loglimiter.New(minLogInterval),
		now:       time.Now,
		sleep:     sleepContext,
	}
}

// Run runs the loop for mode until a terminal condition. A nil error means
// a controlled stop.
func (m *Monitor) Run(ctx context.Context, mode Mode) error {
	m.mu.Lock()
	m.state.Mode = mode
	m.mu.Unlock()

	switch mode {
	case Timelapse:
		return m.RunTimelapse(ctx)
	case Intrusion:
		return m.RunIntrusion(ctx)
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
}

// State returns a copy of the current run counters.
func (m *Monitor) State() RunState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// RequestHealthCheck makes the next idle frame produce a health check.
func (m *Monitor) RequestHealthCheck() {
	log.Print("health check requested")
	m.health.Request()
}

func (m *Monitor) open() error {
	if err := m.c.Source.Open(); err != nil {
		return fmt.Errorf("unable to open stream: %w", err)
	}
	m.streamRestarted()
	m.c.Watchdog.Ready()
	log.Print("system initialized")
	return nil
}

// read returns the next frame and keeps the counters in step.
func (m *Monitor) read() (*capture.Frame, error) {
	frame, err := m.c.Source.Read()
	if err != nil {
		return nil, err
	}
	m.health.FrameRead()
	m.c.Watchdog.FrameRead()

	counters := m.c.Source.Counters()
	if counters.Connections != m.connections {
		log.Printf("stream reconnected (connection #%d)", counters.Connections)
		m.c.Events.Report(events.StreamReconnect, map[string]interface{}{
			"connections": counters.Connections,
		})
		m.streamRestarted()
	}

	m.mu.Lock()
	m.state.FramesRead++
	m.state.ErrorFrames = counters.ErrorFrames
	m.state.ReconnectAttempts = counters.ReconnectAttempts
	m.state.Connections = counters.Connections
	m.state.FramesSinceLastHealthCheck = m.health.FramesSinceLast()
	m.mu.Unlock()
	return frame, nil
}

// streamRestarted marks the start of a new stream generation. The
// background model is rebuilt from its first frame.
func (m *Monitor) streamRestarted() {
	m.connections = m.c.Source.Counters().Connections
	m.reseed = true
}

func (m *Monitor) startSession(name string, fps float64, frame *capture.Frame, now time.Time) (*recorder.Session, error) {
	path := filepath.Join(m.conf.OutputDir, name)
	session, err := recorder.Start(m.c.Encoder, path, fps, frame.Size(), now)
	if err != nil {
		return nil, err
	}
	m.setRecording(path)
	return session, nil
}

func (m *Monitor) write(session *recorder.Session, frame *capture.Frame) {
	if err := session.Write(frame); err != nil {
		m.log.Printf("error writing frame to %s: %v", session.Path, err)
	}
}

// finishSession closes a segment and ships it. Capture is paused while
// the upload runs and resumed afterwards when resume is set.
func (m *Monitor) finishSession(session *recorder.Session, resume bool) error {
	if err := session.Close(); err != nil {
		log.Printf("error closing %s: %v", session.Path, err)
	}

	m.mu.Lock()
	m.state.RecordedVideos++
	m.state.Recording = ""
	recorded := m.state.RecordedVideos
	m.mu.Unlock()

	log.Printf("stopping recording - video #%d", recorded)
	m.c.Events.Report(events.Recording, map[string]interface{}{
		"path":    filepath.Base(session.Path),
		"frames":  session.Frames(),
		"session": session.ID,
	})

	if !m.c.Shipper.Enabled() {
		return nil
	}
	m.c.Source.Pause()
	m.c.Shipper.Ship(session.Path, upload.DestPath(m.now(), session.Path))
	if !resume {
		return nil
	}
	if err := m.c.Source.Resume(); err != nil {
		return err
	}
	m.streamRestarted()
	return nil
}

// abandonSession closes a segment on a fatal path without shipping it.
func (m *Monitor) abandonSession(session *recorder.Session) {
	if session == nil {
		return
	}
	if err := session.Close(); err != nil {
		log.Printf("error closing %s: %v", session.Path, err)
	}
	m.setRecording("")
}

// still writes frame to name in the output directory and ships it to
// remotePath(now, name). Stills are shipped without pausing capture.
func (m *Monitor) still(name string, frame *capture.Frame, now time.Time, remotePath func(time.Time, string) string) error {
	path := filepath.Join(m.conf.OutputDir, name)
	if err := m.c.Stills.WriteStill(path, frame); err != nil {
		return err
	}
	if m.c.Shipper.Enabled() {
		m.c.Shipper.Ship(path, remotePath(now, name))
	}
	return nil
}

func (m *Monitor) show(frame *capture.Frame, mask *gocv.Mat) bool {
	if m.c.Preview == nil {
		return false
	}
	if m.c.Preview.Show(frame, mask) {
		log.Print("quit requested from preview")
		return true
	}
	return false
}

func (m *Monitor) setRecording(path string) {
	m.mu.Lock()
	m.state.Recording = path
	m.mu.Unlock()
}

func (m *Monitor) setTrip(s trip.State) {
	m.mu.Lock()
	m.state.Trip = s
	m.mu.Unlock()
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

type alwaysArmed struct{}

func (alwaysArmed) Active() bool { return true }

type nopWatchdog struct{}

func (nopWatchdog) Ready()     {}
func (nopWatchdog) FrameRead() {}
