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
	"fmt"
	"log"
	"strconv"
	"time"

	"gocv.io/x/gocv"
)

// Device is the frame grabbing capability: it opens a stream given a
// device index or a stream URL.
type Device interface {
	Open(source string) (Handle, error)
}

// Handle is an open stream.
type Handle interface {
	Read() (*Frame, error)
	Close() error
}

// OpenCVDevice opens streams with OpenCV's VideoCapture.
type OpenCVDevice struct{}

// Open treats an all-digit source as a local device index, anything else
// as a file name or stream URL.
func (OpenCVDevice) Open(source string) (Handle, error) {
	var target interface{} = source
	if index, err := strconv.Atoi(source); err == nil {
		target = index
	}

	vc, err := gocv.OpenVideoCapture(target)
	if err != nil {
		return nil, err
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("unable to open %q", source)
	}
	log.Printf("opened %q (%.0fx%.0f @ %.1f fps)", source,
		vc.Get(gocv.VideoCaptureFrameWidth),
		vc.Get(gocv.VideoCaptureFrameHeight),
		vc.Get(gocv.VideoCaptureFPS))
	return &openCVHandle{capture: vc}, nil
}

type openCVHandle struct {
	capture *gocv.VideoCapture
}

func (h *openCVHandle) Read() (*Frame, error) {
	mat := gocv.NewMat()
	if ok := h.capture.Read(&mat); !ok {
		mat.Close()
		return nil, ErrReadFailed
	}
	if mat.Empty() {
		mat.Close()
		return nil, ErrReadFailed
	}
	return NewFrame(mat, time.Now()), nil
}

func (h *openCVHandle) Close() error {
	return h.capture.Close()
}
