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
	"image"
	"sync"

	"github.com/TheCacophonyProject/video-monitor/capture"
)

// MemoryEncoder keeps track of what would have been written instead of
// encoding anything. Frames are identified by capture.FrameNumber.
type MemoryEncoder struct {
	mu     sync.Mutex
	Videos []*MemoryVideo
	Err    error
	// WriteErr is returned by every frame write when set.
	WriteErr error
}

type MemoryVideo struct {
	Path   string
	FPS    float64
	Size   image.Point
	Frames []int
	Closed bool
}

func (e *MemoryEncoder) Create(path string, fps float64, size image.Point) (VideoWriter, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Err != nil {
		return nil, e.Err
	}
	v := &MemoryVideo{Path: path, FPS: fps, Size: size}
	e.Videos = append(e.Videos, v)
	return &memoryWriter{enc: e, video: v}, nil
}

type memoryWriter struct {
	enc   *MemoryEncoder
	video *MemoryVideo
}

func (w *memoryWriter) Write(frame *capture.Frame) error {
	w.enc.mu.Lock()
	defer w.enc.mu.Unlock()
	if w.enc.WriteErr != nil {
		return w.enc.WriteErr
	}
	w.video.Frames = append(w.video.Frames, capture.FrameNumber(frame))
	return nil
}

func (w *memoryWriter) Close() error {
	w.enc.mu.Lock()
	defer w.enc.mu.Unlock()
	w.video.Closed = true
	return nil
}

// MemoryStills records still writes as path -> frame number.
type MemoryStills struct {
	mu     sync.Mutex
	Paths  []string
	Frames []int
}

func (s *MemoryStills) WriteStill(path string, frame *capture.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Paths = append(s.Paths, path)
	s.Frames = append(s.Frames, capture.FrameNumber(frame))
	return nil
}
