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

// Package motion decides whether a frame differs enough from the recent
// scene to count as motion.
package motion

import (
	"image"
	"log"

	"gocv.io/x/gocv"

	"github.com/TheCacophonyProject/video-monitor/capture"
)

const (
	dilateIterations = 2
	// fullScale converts reduced frame coordinates back to the original.
	fullScale = 2
)

// Result is the outcome of running detection on one frame.
type Result struct {
	MotionPresent bool
	// Regions are bounding boxes in full resolution coordinates.
	Regions []image.Rectangle
}

// Detector compares each frame against a BackgroundModel and reports the
// regions that deviate from it.
type Detector struct {
	conf       Config
	background *BackgroundModel
	reduced    gocv.Mat
	estimate   gocv.Mat
	diff       gocv.Mat
	mask       gocv.Mat
	kernel     gocv.Mat
}

func NewDetector(conf Config) *Detector {
	return &Detector{
		conf:       conf,
		background: NewBackgroundModel(conf.BackgroundAlpha),
		reduced:    gocv.NewMat(),
		estimate:   gocv.NewMat(),
		diff:       gocv.NewMat(),
		mask:       gocv.NewMat(),
		kernel:     gocv.GetStructuringElement(gocv.MorphRect, image.Pt(3, 3)),
	}
}

// Seed starts a new background model from frame. Used whenever the
// stream is (re)connected.
func (d *Detector) Seed(frame *capture.Frame) {
	if frame.Empty() {
		d.background.Reset()
		return
	}
	Reduce(*frame.Image, &d.reduced)
	d.background.Seed(d.reduced)
}

// Detect folds frame into the background model and then looks for regions
// of the frame that differ from it.
func (d *Detector) Detect(frame *capture.Frame) Result {
	if frame.Empty() {
		return Result{}
	}

	Reduce(*frame.Image, &d.reduced)
	if !d.background.Seeded() {
		d.background.Seed(d.reduced)
		return Result{}
	}
	d.background.Update(d.reduced)
	d.background.Estimate(&d.estimate)

	gocv.AbsDiff(d.reduced, d.estimate, &d.diff)
	gocv.Threshold(d.diff, &d.mask, float32(d.conf.DeltaThresh), 255, gocv.ThresholdBinary)
	for i := 0; i < dilateIterations; i++ {
		gocv.Dilate(d.mask, &d.mask, d.kernel)
	}

	contours := gocv.FindContours(d.mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	regions := selectRegions(
		contours.Size(),
		func(i int) float64 { return gocv.ContourArea(contours.At(i)) },
		func(i int) image.Rectangle { return gocv.BoundingRect(contours.At(i)) },
		float64(d.conf.MinArea),
		d.conf.MaxDrawnContours,
	)
	return Result{
		MotionPresent: len(regions) > 0,
		Regions:       regions,
	}
}

// Mask returns the binary motion mask of the last detected frame.
func (d *Detector) Mask() *gocv.Mat {
	return &d.mask
}

func (d *Detector) Close() {
	d.background.Close()
	d.reduced.Close()
	d.estimate.Close()
	d.diff.Close()
	d.mask.Close()
	d.kernel.Close()
}

// selectRegions keeps candidates with at least minArea pixels, scaled to
// full resolution. It stops once max regions have been found.
func selectRegions(
	count int,
	area func(int) float64,
	bounds func(int) image.Rectangle,
	minArea float64,
	max int,
) []image.Rectangle {
	var regions []image.Rectangle
	for i := 0; i < count; i++ {
		if area(i) < minArea {
			continue
		}
		regions = append(regions, scaleRect(bounds(i), fullScale))
		if len(regions) >= max {
			if i < count-1 {
				log.Printf("max drawn contours reached: %d", max)
			}
			break
		}
	}
	return regions
}

func scaleRect(r image.Rectangle, k int) image.Rectangle {
	return image.Rect(r.Min.X*k, r.Min.Y*k, r.Max.X*k, r.Max.Y*k)
}
