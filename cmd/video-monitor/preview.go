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
	"gocv.io/x/gocv"

	"github.com/TheCacophonyProject/video-monitor/capture"
)

const (
	originalWindowName  = "Original"
	processedWindowName = "Movement Indicator"
	quitKey             = 'q'
)

// preview shows the annotated frames, and in intrusion mode the motion
// mask, in desktop windows.
type preview struct {
	original  *gocv.Window
	processed *gocv.Window
}

func newPreview(showMask bool) *preview {
	p := &preview{
		original: gocv.NewWindow(originalWindowName),
	}
	p.original.MoveWindow(800, 20)
	if showMask {
		p.processed = gocv.NewWindow(processedWindowName)
	}
	return p
}

// Show reports whether q was pressed.
func (p *preview) Show(frame *capture.Frame, mask *gocv.Mat) bool {
	if p.processed != nil && mask != nil && !mask.Empty() {
		p.processed.IMShow(*mask)
	}
	if !frame.Empty() {
		p.original.IMShow(*frame.Image)
	}
	return p.original.WaitKey(1)&0xFF == quitKey
}

func (p *preview) Close() {
	if p.processed != nil {
		p.processed.Close()
	}
	p.original.Close()
}
