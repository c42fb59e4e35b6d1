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

	"github.com/TheCacophonyProject/video-monitor/capture"
	"github.com/TheCacophonyProject/video-monitor/recorder"
)

// RunTimelapse records back to back segments of MaxFramesPerVid frames,
// one frame every WaitBetweenCaps, until the operator quits or the stream
// is lost. A lost stream still flushes and ships the open segment before
// the error is returned.
func (m *Monitor) RunTimelapse(ctx context.Context) error {
	if err := m.open(); err != nil {
		return err
	}
	defer m.c.Source.Close()

	for {
		stop, err := m.timelapseSegment(ctx)
		if err != nil {
			return err
		}
		if stop {
			log.Print("exiting timelapse")
			return nil
		}
	}
}

func (m *Monitor) timelapseSegment(ctx context.Context) (stop bool, err error) {
	var session *recorder.Session
	var streamErr error

	for i := 0; i < m.conf.MaxFramesPerVid; i++ {
		if ctx.Err() != nil {
			stop = true
			break
		}

		frame, err := m.read()
		if err != nil {
			log.Printf("capture loop ended: %v", err)
			streamErr = err
			break
		}
		now := m.now()
		capture.Stamp(frame, now)

		if session == nil {
			session, err = m.startSession(recorder.TimelapseName(now), m.conf.TimelapseFPS, frame, now)
			if err != nil {
				frame.Close()
				return true, err
			}
		}

		if m.show(frame, nil) {
			frame.Close()
			stop = true
			break
		}
		m.write(session, frame)
		frame.Close()

		m.sleep(ctx, m.conf.WaitBetweenCaps)
	}

	if session != nil {
		resume := !stop && streamErr == nil
		if err := m.finishSession(session, resume); err != nil {
			return true, err
		}
	}
	return stop, streamErr
}
