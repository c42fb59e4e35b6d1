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

package main

import (
	"errors"
	"fmt"

	"github.com/godbus/dbus"
	"github.com/godbus/dbus/introspect"

	"github.com/TheCacophonyProject/video-monitor/monitor"
)

const (
	dbusName = "org.cacophony.videomonitor"
	dbusPath = "/org/cacophony/videomonitor"
)

// uploadCounter reports how many uploads succeeded and failed.
type uploadCounter interface {
	Counts() (shipped, failed int)
}

type service struct {
	monitor *monitor.Monitor
	uploads uploadCounter
	stop    func()
}

func startService(m *monitor.Monitor, uploads uploadCounter, stop func()) error {
	conn, err := dbus.SystemBus()
	if err != nil {
		return err
	}
	reply, err := conn.RequestName(dbusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return err
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return errors.New("name already taken")
	}

	s := &service{
		monitor: m,
		uploads: uploads,
		stop:    stop,
	}
	conn.Export(s, dbusPath, dbusName)
	conn.Export(genIntrospectable(s), dbusPath, "org.freedesktop.DBus.Introspectable")
	return nil
}

func genIntrospectable(v interface{}) introspect.Introspectable {
	node := &introspect.Node{
		Interfaces: []introspect.Interface{{
			Name:    dbusName,
			Methods: introspect.Methods(v),
		}},
	}
	return introspect.NewIntrospectable(node)
}

// TakeSnapshot takes a health check on the next idle frame.
func (s *service) TakeSnapshot() *dbus.Error {
	s.monitor.RequestHealthCheck()
	return nil
}

// Stop ends the capture loop through the controlled exit path.
func (s *service) Stop() *dbus.Error {
	s.stop()
	return nil
}

// Status returns the run counters as a single line.
func (s *service) Status() (string, *dbus.Error) {
	shipped, failed := s.uploads.Counts()
	return formatStatus(s.monitor.State(), shipped, failed), nil
}

func formatStatus(st monitor.RunState, shipped, failed int) string {
	status := fmt.Sprintf("mode=%s videos=%d frames=%d connections=%d error-frames=%d since-health-check=%d trip=%q",
		st.Mode, st.RecordedVideos, st.FramesRead, st.Connections, st.ErrorFrames,
		st.FramesSinceLastHealthCheck, st.Trip.String())
	status += fmt.Sprintf(" uploads=%d upload-failures=%d", shipped, failed)
	if st.Recording != "" {
		status += fmt.Sprintf(" recording=%s", st.Recording)
	}
	return status
}
