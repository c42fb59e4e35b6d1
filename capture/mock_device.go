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
	"errors"
	"sync"
	"time"
)

var errMockOpen = errors.New("mock device unavailable")

// MockDevice plays back a script of open and read outcomes. Once a script
// runs out every further call succeeds. Frames it produces carry no pixels;
// their timestamps count up one second per frame from the Unix epoch.
type MockDevice struct {
	mu          sync.Mutex
	openResults []bool
	readResults []bool
	frames      int

	Opens  int
	Closes int
	Reads  int
}

func NewMockDevice() *MockDevice {
	return new(MockDevice)
}

// FailOpens queues n failing Open calls.
func (d *MockDevice) FailOpens(n int) *MockDevice {
	return d.queueOpens(n, false)
}

// SucceedOpens queues n successful Open calls.
func (d *MockDevice) SucceedOpens(n int) *MockDevice {
	return d.queueOpens(n, true)
}

// FailReads queues n failing reads.
func (d *MockDevice) FailReads(n int) *MockDevice {
	return d.queueReads(n, false)
}

// SucceedReads queues n successful reads.
func (d *MockDevice) SucceedReads(n int) *MockDevice {
	return d.queueReads(n, true)
}

func (d *MockDevice) queueOpens(n int, ok bool) *MockDevice {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := 0; i < n; i++ {
		d.openResults = append(d.openResults, ok)
	}
	return d
}

func (d *MockDevice) queueReads(n int, ok bool) *MockDevice {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := 0; i < n; i++ {
		d.readResults = append(d.readResults, ok)
	}
	return d
}

func (d *MockDevice) Open(source string) (Handle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.Opens++
	if len(d.openResults) > 0 {
		ok := d.openResults[0]
		d.openResults = d.openResults[1:]
		if !ok {
			return nil, errMockOpen
		}
	}
	return &mockHandle{device: d}, nil
}

// FramesProduced returns how many frames have been handed out.
func (d *MockDevice) FramesProduced() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frames
}

// FrameNumber returns the sequence number of a frame made by a MockDevice,
// starting at 1.
func FrameNumber(f *Frame) int {
	if f == nil {
		return 0
	}
	return int(f.Timestamp.Unix())
}

type mockHandle struct {
	device *MockDevice
	closed bool
}

func (h *mockHandle) Read() (*Frame, error) {
	d := h.device
	d.mu.Lock()
	defer d.mu.Unlock()

	if h.closed {
		return nil, ErrNotOpen
	}
	d.Reads++
	if len(d.readResults) > 0 {
		ok := d.readResults[0]
		d.readResults = d.readResults[1:]
		if !ok {
			return nil, ErrReadFailed
		}
	}
	d.frames++
	return &Frame{Timestamp: time.Unix(int64(d.frames), 0)}, nil
}

func (h *mockHandle) Close() error {
	h.device.mu.Lock()
	defer h.device.mu.Unlock()
	if !h.closed {
		h.closed = true
		h.device.Closes++
	}
	return nil
}
