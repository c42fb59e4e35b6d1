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

package monitor

import (
	"context"
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/TheCacophonyProject/video-monitor/capture"
	"github.com/TheCacophonyProject/video-monitor/events"
	"github.com/TheCacophonyProject/video-monitor/motion"
	"github.com/TheCacophonyProject/video-monitor/recorder"
	"github.com/TheCacophonyProject/video-monitor/upload"
)

// RunIntrusion watches for sustained motion and records a clip of
// FramesToRecord frames, plus the frame before the trigger, each time the
// debouncer trips. While idle it takes a health check every
// HealthCheckFrames frames. It returns nil once MaxVideosToMake clips have
// been made or the operator quits.
func (m *Monitor) RunIntrusion(ctx context.Context) error {
	if err := m.open(); err != nil {
		return err
	}
	defer m.c.Source.Close()

	var previous *capture.Frame
	defer func() { previous.Close() }()
	var session *recorder.Session

	for {
		if ctx.Err() != nil {
			return m.quit(session)
		}

		frame, err := m.read()
		if err != nil {
			m.abandonSession(session)
			return err
		}
		if m.reseed {
			m.c.Sensor.Seed(frame)
			m.reseed = false
		}
		now := m.now()

		tripped := m.debouncer.State().Tripped()
		var result motion.Result
		var mask *gocv.Mat
		// An open clip records in full; detection only continues for the
		// preview.
		if !tripped || m.c.Preview != nil {
			result = m.c.Sensor.Detect(frame)
			mask = m.c.Sensor.Mask()
		}
		if !tripped {
			tripped = m.observe(result.MotionPresent)
		}
		m.setTrip(m.debouncer.State())

		capture.DrawRegions(frame, result.Regions)
		capture.Caption(frame, m.debouncer.State().String())
		capture.Stamp(frame, now)

		if !tripped && m.health.Due() {
			m.healthCheck(frame, now)
		}

		if m.show(frame, mask) {
			frame.Close()
			return m.quit(session)
		}

		if tripped {
			if session == nil {
				session, err = m.startClip(previous, frame, now)
				if err != nil {
					frame.Close()
					return err
				}
			}
			m.write(session, frame)

			if session.Done(m.conf.FramesToRecord) {
				m.debouncer.Release()
				m.setTrip(m.debouncer.State())
				done := m.conf.MaxVideosToMake > 0 && m.State().RecordedVideos+1 >= m.conf.MaxVideosToMake
				err := m.finishSession(session, !done)
				session = nil
				if err != nil {
					frame.Close()
					return err
				}
				if done {
					frame.Close()
					log.Printf("max videos reached %d - stopping", m.State().RecordedVideos)
					return nil
				}
			}
		}

		previous.Close()
		previous = frame
	}
}

// observe feeds the debouncer while the window is armed.
func (m *Monitor) observe(motionPresent bool) bool {
	if !m.c.Window.Active() {
		if motionPresent {
			m.log.Print("motion detected but outside of recording window")
		}
		return false
	}
	if m.debouncer.Observe(motionPresent) {
		log.Print("tripped")
		return true
	}
	return false
}

// startClip saves the trigger still and opens a clip that begins with the
// frame before the trigger.
func (m *Monitor) startClip(previous, frame *capture.Frame, now time.Time) (*recorder.Session, error) {
	stillName := recorder.TripStillName(now)
	log.Printf("tripped. saving image %s", stillName)
	if err := m.still(stillName, frame, now, upload.DestPath); err != nil {
		log.Printf("could not save %s: %v", stillName, err)
	}

	session, err := m.startSession(recorder.ClipName(now), m.conf.IntrusionFPS, frame, now)
	if err != nil {
		return nil, err
	}
	if previous != nil {
		if err := session.WritePreroll(previous); err != nil {
			m.log.Printf("error writing frame to %s: %v", session.Path, err)
		}
	}
	return session, nil
}

func (m *Monitor) healthCheck(frame *capture.Frame, now time.Time) {
	m.health.Taken()
	name := recorder.HealthCheckName(now)
	log.Printf("health check time: %s", name)
	if err := m.still(name, frame, now, upload.HealthCheckDestPath); err != nil {
		log.Printf("could not save %s: %v", name, err)
		return
	}
	m.c.Events.Report(events.HealthCheck, map[string]interface{}{
		"path": name,
	})
}

// quit is the controlled exit path: an open clip is closed and shipped.
func (m *Monitor) quit(session *recorder.Session) error {
	log.Print("exiting intrusion detection")
	if session == nil {
		return nil
	}
	m.debouncer.Release()
	m.setTrip(m.debouncer.State())
	return m.finishSession(session, false)
}
