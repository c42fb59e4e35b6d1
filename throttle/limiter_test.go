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

package throttle

import (
	"bytes"
	"io/ioutil"
	"strings"
	"testing"
	"time"

	"github.com/juju/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoLimit(t *testing.T) {
	assert.Nil(t, NewLimiter(0))
	assert.Nil(t, NewLimiter(-5))

	var l *Limiter
	r := strings.NewReader("hello")
	assert.Equal(t, r, l.Reader(r))
}

func TestBurstIsNotDelayed(t *testing.T) {
	clock := newTestClock()
	l := NewLimiterWithClock(1000, clock)
	assert.Equal(t, int64(1000), l.bucket.Available())

	data, err := ioutil.ReadAll(l.Reader(bytes.NewReader(make([]byte, 400))))
	require.NoError(t, err)
	assert.Len(t, data, 400)
	assert.Equal(t, time.Duration(0), clock.elapsed())
	assert.Equal(t, int64(600), l.bucket.Available())
}

func TestReadsAreHeldToRate(t *testing.T) {
	clock := newTestClock()
	l := NewLimiterWithClock(100, clock)

	data, err := ioutil.ReadAll(l.Reader(bytes.NewReader(make([]byte, 300))))
	require.NoError(t, err)
	assert.Len(t, data, 300)

	// The first 100 bytes come out of the full bucket, the other 200 take
	// two seconds to refill.
	assert.InDelta(t, float64(2*time.Second), float64(clock.elapsed()), float64(50*time.Millisecond))
}

func TestBucketRefills(t *testing.T) {
	clock := newTestClock()
	l := NewLimiterWithClock(100, clock)

	_, err := ioutil.ReadAll(l.Reader(bytes.NewReader(make([]byte, 100))))
	require.NoError(t, err)
	assert.Equal(t, int64(0), l.bucket.Available())

	clock.Sleep(500 * time.Millisecond)
	assert.Equal(t, int64(50), l.bucket.Available())

	clock.Sleep(time.Hour)
	assert.Equal(t, int64(100), l.bucket.Available())
}

var _ ratelimit.Clock = new(realClock)
var _ ratelimit.Clock = new(testClock)

// testClock implements a fake ratelimit.Clock for testing.
type testClock struct {
	start time.Time
	now   time.Time
}

func newTestClock() *testClock {
	now := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	return &testClock{start: now, now: now}
}

func (c *testClock) Now() time.Time {
	return c.now
}

// Sleep advances the fake time instead of sleeping.
func (c *testClock) Sleep(d time.Duration) {
	c.now = c.now.Add(d)
}

func (c *testClock) elapsed() time.Duration {
	return c.now.Sub(c.start)
}
