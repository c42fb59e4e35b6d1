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

package healthcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDueOnFirstFrame(t *testing.T) {
	s := NewScheduler(100)
	assert.True(t, s.Due())
	s.Taken()
	assert.False(t, s.Due())
	assert.Equal(t, 0, s.FramesSinceLast())
}

func TestDueEveryInterval(t *testing.T) {
	s := NewScheduler(5)
	s.Taken()

	var fired []int
	for frame := 1; frame <= 17; frame++ {
		s.FrameRead()
		if s.Due() {
			fired = append(fired, frame)
			s.Taken()
		}
	}
	assert.Equal(t, []int{5, 10, 15}, fired)
}

func TestStaysDueUntilTaken(t *testing.T) {
	s := NewScheduler(2)
	s.Taken()
	s.FrameRead()
	s.FrameRead()
	s.FrameRead()
	assert.True(t, s.Due())
	assert.Equal(t, 3, s.FramesSinceLast())
}

func TestRequest(t *testing.T) {
	s := NewScheduler(1000)
	s.Taken()
	assert.False(t, s.Due())

	s.Request()
	assert.True(t, s.Due())
	s.Taken()
	assert.False(t, s.Due())
}
