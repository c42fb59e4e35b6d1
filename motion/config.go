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

package motion

import "errors"

type Config struct {
	DeltaThresh      int     `yaml:"delta_thresh"`
	MinArea          int     `yaml:"min_area"`
	MaxDrawnContours int     `yaml:"maxDrawnContours"`
	BackgroundAlpha  float64 `yaml:"background_alpha"`
}

func DefaultConfig() Config {
	return Config{
		DeltaThresh:      5,
		MinArea:          5000,
		MaxDrawnContours: 10,
		BackgroundAlpha:  0.5,
	}
}

func (conf Config) Validate() error {
	if conf.DeltaThresh < 0 || conf.DeltaThresh > 255 {
		return errors.New("delta_thresh must be between 0 and 255")
	}
	if conf.MinArea < 0 {
		return errors.New("min_area can't be negative")
	}
	if conf.MaxDrawnContours < 1 {
		return errors.New("maxDrawnContours must be at least 1")
	}
	if conf.BackgroundAlpha <= 0 || conf.BackgroundAlpha > 1 {
		return errors.New("background_alpha must be in (0, 1]")
	}
	return nil
}
