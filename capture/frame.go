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
	"time"

	"gocv.io/x/gocv"
)

// Frame is a single image read from the stream along with the time it
// was acquired. Image may be nil for frames that carry no pixels.
type Frame struct {
	Image     *gocv.Mat
	Timestamp time.Time
}

// NewFrame takes ownership of img.
func NewFrame(img gocv.Mat, ts time.Time) *Frame {
	return &Frame{Image: &img, Timestamp: ts}
}

func (f *Frame) Empty() bool {
	return f == nil || f.Image == nil || f.Image.Empty()
}

func (f *Frame) Width() int {
	if f.Empty() {
		return 0
	}
	return f.Image.Cols()
}

func (f *Frame) Height() int {
	if f.Empty() {
		return 0
	}
	return f.Image.Rows()
}

// Size returns the frame dimensions as width, height.
func (f *Frame) Size() image.Point {
	return image.Pt(f.Width(), f.Height())
}

// Clone returns a deep copy which must be closed separately.
func (f *Frame) Clone() *Frame {
	if f == nil {
		return nil
	}
	c := &Frame{Timestamp: f.Timestamp}
	if f.Image != nil {
		img := f.Image.Clone()
		c.Image = &img
	}
	return c
}

// Close releases the pixel buffer. It is safe to call on a nil frame.
func (f *Frame) Close() {
	if f == nil || f.Image == nil {
		return
	}
	f.Image.Close()
	f.Image = nil
}
