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

package capture

import (
	"image"
	"image/color"
	"time"

	"gocv.io/x/gocv"
)

const (
	TimestampFormat = "Monday 02 January 2006 15:04:05"

	fontScale     = 0.6
	textThickness = 2
	textMargin    = 10
	captionY      = 20
)

var (
	textColor   = color.RGBA{R: 255}
	regionColor = color.RGBA{G: 255}
)

// Stamp writes the wall clock time in the bottom left corner of the frame.
func Stamp(f *Frame, t time.Time) {
	if f.Empty() {
		return
	}
	org := image.Pt(textMargin, f.Height()-textMargin)
	gocv.PutText(f.Image, t.Format(TimestampFormat), org, gocv.FontHersheySimplex, fontScale, textColor, textThickness)
}

// Caption writes a line of text in the top left corner of the frame.
func Caption(f *Frame, text string) {
	if f.Empty() {
		return
	}
	gocv.PutText(f.Image, text, image.Pt(textMargin, captionY), gocv.FontHersheySimplex, fontScale, textColor, textThickness)
}

// DrawRegions outlines motion regions, given in full resolution coordinates.
func DrawRegions(f *Frame, regions []image.Rectangle) {
	if f.Empty() {
		return
	}
	for _, r := range regions {
		gocv.Rectangle(f.Image, r, regionColor, textThickness)
	}
}
