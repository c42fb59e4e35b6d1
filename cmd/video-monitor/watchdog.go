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
	"log"

	"github.com/coreos/go-systemd/daemon"
)

const framesPerSdNotify = 50

// sdWatchdog keeps systemd informed that frames are still arriving.
type sdWatchdog struct {
	notifyCount int
}

func newWatchdog() *sdWatchdog {
	return new(sdWatchdog)
}

func (w *sdWatchdog) Ready() {
	if _, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		log.Printf("systemd notify failed: %v", err)
	}
}

func (w *sdWatchdog) FrameRead() {
	if w.notifyCount++; w.notifyCount >= framesPerSdNotify {
		daemon.SdNotify(false, daemon.SdNotifyWatchdog)
		w.notifyCount = 0
	}
}
