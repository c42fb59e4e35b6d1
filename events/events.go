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

// Package events queues notable monitor events on the Cacophony event
// service. Reporting is best effort.
package events

import (
	"encoding/json"
	"log"
	"time"

	"github.com/godbus/dbus"
)

const (
	Recording       = "recording"
	HealthCheck     = "healthcheck"
	StreamReconnect = "stream-reconnect"

	dbusDest   = "org.cacophony.Events"
	dbusPath   = "/org/cacophony/Events"
	dbusMethod = "org.cacophony.Events.Queue"
)

// Reporter is told about events as they happen.
type Reporter interface {
	Report(kind string, details map[string]interface{})
}

// Nop discards every event.
type Nop struct{}

func (Nop) Report(string, map[string]interface{}) {}

// DBusReporter queues events with the event service over the system bus.
type DBusReporter struct {
	Now func() time.Time
}

func NewDBusReporter() *DBusReporter {
	return &DBusReporter{Now: time.Now}
}

func (r *DBusReporter) Report(kind string, details map[string]interface{}) {
	detailsJSON, err := eventJSON(kind, details)
	if err != nil {
		log.Printf("could not record %s event: %v", kind, err)
		return
	}

	conn, err := dbus.SystemBus()
	if err != nil {
		log.Printf("could not record %s event: %v", kind, err)
		return
	}

	obj := conn.Object(dbusDest, dbusPath)
	call := obj.Call(dbusMethod, 0, detailsJSON, r.Now().UnixNano())
	if call.Err != nil {
		log.Printf("could not record %s event: %v", kind, call.Err)
	}
}

func eventJSON(kind string, details map[string]interface{}) ([]byte, error) {
	description := map[string]interface{}{
		"type": kind,
	}
	if len(details) > 0 {
		description["details"] = details
	}
	return json.Marshal(map[string]interface{}{
		"description": description,
	})
}
