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
	"time"
)

const ShortTimeFormat = "20060102-15h04m05"

// TimelapseName is the file name of a timelapse segment started at t.
func TimelapseName(t time.Time) string {
	return fmt.Sprintf("lapse%s.avi", t.Format(ShortTimeFormat))
}

// ClipName is the file name of a motion triggered clip started at t.
func ClipName(t time.Time) string {
	return fmt.Sprintf("out%s.avi", t.Format(ShortTimeFormat))
}

// TripStillName is the file name of the still saved alongside a clip.
func TripStillName(t time.Time) string {
	return fmt.Sprintf("out%s.jpg", t.Format(ShortTimeFormat))
}

func HealthCheckName(t time.Time) string {
	return fmt.Sprintf("hc%s.jpg", t.Format(ShortTimeFormat))
}
