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

// Package loglimiter rate limits identical log lines so a failing camera
// stream doesn't flood the journal.
package loglimiter

import (
	"fmt"
	"log"
	"time"
)

// New returns a new LogLimiter with the configured minimum log interval.
func New(interval time.Duration) *LogLimiter {
	return &LogLimiter{
		interval: interval,
		nowFunc:  time.Now,
	}
}

// LogLimiter will suppress log messages if the same log message is
// seen within some time interval. The number of suppressed messages is
// reported when the next message gets through or on Flush.
type LogLimiter struct {
	interval      time.Duration
	nowFunc       func() time.Time
	previousEntry string
	previousTime  time.Time
	suppressed    int
}

func (limiter *LogLimiter) Printf(format string, v ...interface{}) {
	limiter.Print(fmt.Sprintf(format, v...))
}

func (limiter *LogLimiter) Print(s string) {
	now := limiter.nowFunc()
	if now.Sub(limiter.previousTime) < limiter.interval && s == limiter.previousEntry {
		limiter.suppressed++
		return
	}

	limiter.Flush()
	log.Print(s)
	limiter.previousTime = now
	limiter.previousEntry = s
}

// Flush logs how many messages were suppressed since the last message
// that got through, if any.
func (limiter *LogLimiter) Flush() {
	if limiter.suppressed == 0 {
		return
	}
	log.Printf("last message repeated %d times", limiter.suppressed)
	limiter.suppressed = 0
}

// Suppressed returns the number of messages dropped since the last one logged.
func (limiter *LogLimiter) Suppressed() int {
	return limiter.suppressed
}
