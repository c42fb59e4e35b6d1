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
	"fmt"
	"image"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/TheCacophonyProject/video-monitor/capture"
)

// Session is one open output video segment.
type Session struct {
	ID        string
	Path      string
	StartedAt time.Time
	// FramesWritten counts frames appended with Write, including those the
	// encoder failed to write. The segment length never depends on the
	// encoder succeeding.
	FramesWritten int
	// Preroll counts frames from before the session started.
	Preroll int
	// WriteErrors counts appends the encoder rejected.
	WriteErrors int

	writer VideoWriter
}

// Start opens a new segment at path.
func Start(enc VideoEncoder, path string, fps float64, size image.Point, now time.Time) (*Session, error) {
	writer, err := enc.Create(path, fps, size)
	if err != nil {
		return nil, fmt.Errorf("could not create %s: %w", path, err)
	}
	s := &Session{
		ID:        uuid.New().String(),
		Path:      path,
		StartedAt: now,
		writer:    writer,
	}
	log.Printf("recording started: %s (%dx%d @ %.1f fps, session %s)", path, size.X, size.Y, fps, s.ID)
	return s, nil
}

// WritePreroll writes a frame captured before the session started.
func (s *Session) WritePreroll(frame *capture.Frame) error {
	s.Preroll++
	return s.append(frame)
}

func (s *Session) Write(frame *capture.Frame) error {
	s.FramesWritten++
	return s.append(frame)
}

func (s *Session) append(frame *capture.Frame) error {
	if err := s.writer.Write(frame); err != nil {
		s.WriteErrors++
		return err
	}
	return nil
}

// Frames is the total number of frames in the segment.
func (s *Session) Frames() int {
	return s.Preroll + s.FramesWritten
}

// Done reports whether limit frames have been appended.
func (s *Session) Done(limit int) bool {
	return s.FramesWritten >= limit
}

func (s *Session) Close() error {
	if s.writer == nil {
		return nil
	}
	err := s.writer.Close()
	s.writer = nil
	log.Printf("recording stopped: %s (%d frames, %s)", s.Path, s.Frames(), time.Since(s.StartedAt).Round(time.Second))
	if s.WriteErrors > 0 {
		log.Printf("%d frames of %s could not be written", s.WriteErrors, s.Path)
	}
	return err
}
