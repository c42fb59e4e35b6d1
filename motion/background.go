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

package motion

import (
	"image"

	"gocv.io/x/gocv"
)

const (
	// BlurSize is the Gaussian kernel used when reducing frames.
	BlurSize = 21
	// ReduceScale is the scale of a reduced frame relative to the original.
	ReduceScale = 0.5
)

// Reduce writes a grayscale, half scale, blurred copy of img into dst.
func Reduce(img gocv.Mat, dst *gocv.Mat) {
	gray := gocv.NewMat()
	defer gray.Close()
	if img.Channels() > 1 {
		gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)
	} else {
		img.CopyTo(&gray)
	}

	small := gocv.NewMat()
	defer small.Close()
	gocv.Resize(gray, &small, image.Point{}, ReduceScale, ReduceScale, gocv.InterpolationLinear)

	gocv.GaussianBlur(small, dst, image.Pt(BlurSize, BlurSize), 0, 0, gocv.BorderDefault)
}

// BackgroundModel is an exponentially weighted running average of reduced
// frames: the scene the detector expects to see.
type BackgroundModel struct {
	alpha  float64
	acc    gocv.Mat
	seeded bool
}

func NewBackgroundModel(alpha float64) *BackgroundModel {
	return &BackgroundModel{
		alpha: alpha,
		acc:   gocv.NewMat(),
	}
}

// Seed replaces the model with a copy of reduced.
func (b *BackgroundModel) Seed(reduced gocv.Mat) {
	reduced.ConvertTo(&b.acc, gocv.MatTypeCV32F)
	b.seeded = true
}

// Update blends reduced into the model:
// acc = alpha*reduced + (1-alpha)*acc
func (b *BackgroundModel) Update(reduced gocv.Mat) {
	if !b.seeded {
		b.Seed(reduced)
		return
	}
	gocv.AccumulatedWeighted(reduced, &b.acc, b.alpha)
}

func (b *BackgroundModel) Seeded() bool {
	return b.seeded
}

// Estimate writes the model as an 8 bit image into dst.
func (b *BackgroundModel) Estimate(dst *gocv.Mat) {
	gocv.ConvertScaleAbs(b.acc, dst, 1, 0)
}

// Reset forgets the model; the next Update seeds it.
func (b *BackgroundModel) Reset() {
	b.seeded = false
}

func (b *BackgroundModel) Close() {
	b.acc.Close()
}
