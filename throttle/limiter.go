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

// Package throttle limits the bandwidth used when shipping recordings so
// uploads don't starve the camera stream on a shared uplink.
package throttle

import (
	"io"
	"log"
	"time"

	"github.com/juju/ratelimit"
)

// Limiter is a token bucket of bytes, refilled at a fixed rate. A nil
// Limiter doesn't limit anything.
type Limiter struct {
	bucket *ratelimit.Bucket
}

// NewLimiter returns a Limiter allowing bytesPerSecond with bursts of up to
// one second's worth of data. A rate of zero or less means no limit and
// returns nil.
func NewLimiter(bytesPerSecond int64) *Limiter {
	return NewLimiterWithClock(bytesPerSecond, new(realClock))
}

func NewLimiterWithClock(bytesPerSecond int64, clock ratelimit.Clock) *Limiter {
	if bytesPerSecond <= 0 {
		return nil
	}
	log.Printf("upload bandwidth limited to %d bytes/s", bytesPerSecond)
	return &Limiter{
		bucket: ratelimit.NewBucketWithRateAndClock(float64(bytesPerSecond), bytesPerSecond, clock),
	}
}

// Reader wraps r so reads from it are held to the limit.
func (l *Limiter) Reader(r io.Reader) io.Reader {
	if l == nil {
		return r
	}
	return ratelimit.Reader(r, l.bucket)
}

// realClock implements ratelimit.Clock in terms of standard time functions.
type realClock struct{}

// Now implements Clock.Now by calling time.Now.
func (realClock) Now() time.Time {
	return time.Now()
}

// Sleep implements Clock.Sleep by calling time.Sleep.
func (realClock) Sleep(d time.Duration) {
	time.Sleep(d)
}
