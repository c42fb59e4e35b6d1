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

// Package recorder writes bounded video segments and still images.
package recorder

import (
	"image"

	"github.com/TheCacophonyProject/video-monitor/capture"
)

// VideoEncoder creates playable video files.
type VideoEncoder interface {
	Create(path string, fps float64, size image.Point) (VideoWriter, error)
}

type VideoWriter interface {
	Write(*capture.Frame) error
	Close() error
}

// StillEncoder writes single images.
type StillEncoder interface {
	WriteStill(path string, frame *capture.Frame) error
}
