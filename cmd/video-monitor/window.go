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
	goconfig "github.com/TheCacophonyProject/go-config"
	"github.com/TheCacophonyProject/window"
)

// loadRecordingWindow builds the arming window from the windows and
// location sections of the device config in configDir.
func loadRecordingWindow(configDir string) (*window.Window, error) {
	configRW, err := goconfig.New(configDir)
	if err != nil {
		return nil, err
	}

	locationConfig := goconfig.DefaultWindowLocation()
	if err := configRW.Unmarshal(goconfig.LocationKey, &locationConfig); err != nil {
		return nil, err
	}
	windowsConfig := goconfig.DefaultWindows()
	if err := configRW.Unmarshal(goconfig.WindowsKey, &windowsConfig); err != nil {
		return nil, err
	}

	return window.New(
		windowsConfig.StartRecording,
		windowsConfig.StopRecording,
		float64(locationConfig.Latitude),
		float64(locationConfig.Longitude))
}
