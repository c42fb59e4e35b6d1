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

package recorder

import (
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/TheCacophonyProject/video-monitor/capture"
)

const DefaultCodec = "XVID"

var errNoPixels = errors.New("frame has no pixels")

// OpenCVEncoder writes video with OpenCV's VideoWriter using the given
// four character codec code.
type OpenCVEncoder struct {
	Codec string
}

func (e OpenCVEncoder) Create(path string, fps float64, size image.Point) (VideoWriter, error) {
	codec := e.Codec
	if codec == "" {
		codec = DefaultCodec
	}
	vw, err := gocv.VideoWriterFile(path, codec, fps, size.X, size.Y, true)
	if err != nil {
		return nil, err
	}
	if !vw.IsOpened() {
		vw.Close()
		return nil, fmt.Errorf("video writer for %s did not open (codec %s)", path, codec)
	}
	return &openCVWriter{vw: vw}, nil
}

type openCVWriter struct {
	vw *gocv.VideoWriter
}

func (w *openCVWriter) Write(frame *capture.Frame) error {
	if frame.Empty() {
		return errNoPixels
	}
	return w.vw.Write(*frame.Image)
}

func (w *openCVWriter) Close() error {
	return w.vw.Close()
}

// OpenCVStill writes stills with imwrite; the format follows the extension.
type OpenCVStill struct{}

func (OpenCVStill) WriteStill(path string, frame *capture.Frame) error {
	if frame.Empty() {
		return errNoPixels
	}
	if ok := gocv.IMWrite(path, *frame.Image); !ok {
		return fmt.Errorf("failed to write %s", path)
	}
	return nil
}
