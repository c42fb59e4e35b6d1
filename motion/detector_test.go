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
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"github.com/TheCacophonyProject/video-monitor/capture"
)

type candidate struct {
	area   float64
	bounds image.Rectangle
}

func selectFrom(candidates []candidate, minArea float64, max int) []image.Rectangle {
	return selectRegions(
		len(candidates),
		func(i int) float64 { return candidates[i].area },
		func(i int) image.Rectangle { return candidates[i].bounds },
		minArea,
		max,
	)
}

func TestSmallRegionsAreIgnored(t *testing.T) {
	regions := selectFrom([]candidate{
		{area: 10, bounds: image.Rect(0, 0, 2, 5)},
		{area: 99, bounds: image.Rect(0, 0, 9, 11)},
	}, 100, 10)
	assert.Empty(t, regions)
}

func TestRegionsAreScaledToFullResolution(t *testing.T) {
	regions := selectFrom([]candidate{
		{area: 100, bounds: image.Rect(5, 6, 15, 16)},
		{area: 20, bounds: image.Rect(0, 0, 4, 5)},
		{area: 400, bounds: image.Rect(30, 40, 50, 60)},
	}, 100, 10)
	assert.Equal(t, []image.Rectangle{
		image.Rect(10, 12, 30, 32),
		image.Rect(60, 80, 100, 120),
	}, regions)
}

func TestRegionsStopAtMaxDrawnContours(t *testing.T) {
	var candidates []candidate
	for i := 0; i < 6; i++ {
		candidates = append(candidates, candidate{area: 500, bounds: image.Rect(i, i, i+20, i+20)})
	}

	calls := 0
	regions := selectRegions(
		len(candidates),
		func(i int) float64 { calls++; return candidates[i].area },
		func(i int) image.Rectangle { return candidates[i].bounds },
		100,
		3,
	)
	assert.Len(t, regions, 3)
	assert.Equal(t, image.Rect(4, 4, 44, 44), regions[2])
	// Candidates past the cap are never looked at.
	assert.Equal(t, 3, calls)
}

func TestDetectorNoFrame(t *testing.T) {
	d := NewDetector(DefaultConfig())
	defer d.Close()

	assert.Equal(t, Result{}, d.Detect(nil))
	assert.Equal(t, Result{}, d.Detect(&capture.Frame{}))
}

func TestDetectorStillScene(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires OpenCV")
	}

	d := NewDetector(testConfig())
	defer d.Close()

	background := blankFrame()
	defer background.Close()
	d.Seed(background)

	for i := 0; i < 3; i++ {
		frame := blankFrame()
		result := d.Detect(frame)
		frame.Close()
		assert.False(t, result.MotionPresent)
		assert.Empty(t, result.Regions)
	}
}

func TestDetectorSeesNewObject(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires OpenCV")
	}

	d := NewDetector(testConfig())
	defer d.Close()

	background := blankFrame()
	defer background.Close()
	d.Seed(background)

	frame := blankFrame()
	defer frame.Close()
	object := image.Rect(160, 120, 240, 200)
	gocv.Rectangle(frame.Image, object, color.RGBA{R: 255, G: 255, B: 255}, -1)

	result := d.Detect(frame)
	require.True(t, result.MotionPresent)
	require.Len(t, result.Regions, 1)
	// Blurring and dilation grow the region a little, but it has to cover
	// the object in full resolution coordinates.
	assert.True(t, object.In(result.Regions[0]), "%v not in %v", object, result.Regions[0])

	mask := d.Mask()
	assert.Equal(t, 160, mask.Cols())
	assert.Equal(t, 120, mask.Rows())
}

func TestSeedDiscardsOldBackground(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires OpenCV")
	}

	d := NewDetector(testConfig())
	defer d.Close()

	background := blankFrame()
	defer background.Close()
	d.Seed(background)

	// The scene changes completely while reconnecting.
	bright := blankFrame()
	defer bright.Close()
	bright.Image.SetTo(gocv.NewScalar(200, 200, 200, 0))
	d.Seed(bright)

	result := d.Detect(bright)
	assert.False(t, result.MotionPresent)
}

func testConfig() Config {
	return Config{
		DeltaThresh:      25,
		MinArea:          100,
		MaxDrawnContours: 10,
		BackgroundAlpha:  0.5,
	}
}

func blankFrame() *capture.Frame {
	return capture.NewFrame(gocv.NewMatWithSize(240, 320, gocv.MatTypeCV8UC3), time.Now())
}
