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

package main

import (
	"errors"
	"fmt"
	"io/ioutil"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/TheCacophonyProject/video-monitor/capture"
	"github.com/TheCacophonyProject/video-monitor/monitor"
	"github.com/TheCacophonyProject/video-monitor/motion"
	"github.com/TheCacophonyProject/video-monitor/recorder"
	"github.com/TheCacophonyProject/video-monitor/trip"
)

// VideoSource is a device index or a stream URL. Both a YAML integer and a
// string are accepted.
type VideoSource string

func (s *VideoSource) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var index int
	if err := unmarshal(&index); err == nil {
		*s = VideoSource(strconv.Itoa(index))
		return nil
	}
	var url string
	if err := unmarshal(&url); err != nil {
		return err
	}
	*s = VideoSource(url)
	return nil
}

type Config struct {
	Mode        string      `yaml:"mode"`
	ShowVideo   bool        `yaml:"show_video"`
	VideoSource VideoSource `yaml:"video_capture_source"`
	OutputDir   string      `yaml:"output_dir"`
	Codec       string      `yaml:"codec"`

	Reconnect capture.ReconnectConfig `yaml:",inline"`
	// ReconnectDelay is a duration string such as "10s".
	ReconnectDelay string `yaml:"reconnect_delay"`
	Motion    motion.Config           `yaml:",inline"`
	Trip      trip.Config             `yaml:",inline"`

	MaxFramesPerVid        int     `yaml:"max_frames_per_vid"`
	WaitSecondsBetweenCaps float64 `yaml:"wait_seconds_between_caps"`
	TimelapseFPS           float64 `yaml:"timelapse_fps"`

	FramesToRecord    int     `yaml:"frames_to_record"`
	MaxVideosToMake   int     `yaml:"max_videos_to_make"`
	HealthCheckFrames int     `yaml:"number_of_frames_before_healthcheck"`
	IntrusionFPS      float64 `yaml:"intrusion_fps"`

	UseDropbox        bool   `yaml:"use_dropbox"`
	DropboxToken      string `yaml:"dropbox_token"`
	UploadRateLimit   int64  `yaml:"upload_rate_limit"`
	DeleteAfterUpload bool   `yaml:"delete_after_upload"`

	// UseRecordingWindow arms intrusion detection only inside the device's
	// recording window, read from the Cacophony config directory.
	UseRecordingWindow bool `yaml:"use_recording_window"`

	ReportEvents bool `yaml:"report_events"`
	DBusService  bool `yaml:"dbus_service"`
}

var defaultConfig = Config{
	Mode:                   string(monitor.Intrusion),
	VideoSource:            "0",
	OutputDir:              ".",
	Codec:                  recorder.DefaultCodec,
	Reconnect:              capture.DefaultReconnectConfig(),
	ReconnectDelay:         "10s",
	Motion:                 motion.DefaultConfig(),
	Trip:                   trip.DefaultConfig(),
	MaxFramesPerVid:        1000,
	WaitSecondsBetweenCaps: 1,
	TimelapseFPS:           5,
	FramesToRecord:         100,
	MaxVideosToMake:        50,
	HealthCheckFrames:      18000,
	IntrusionFPS:           10,
}

func (conf *Config) Validate() error {
	if _, err := monitor.ParseMode(conf.Mode); err != nil {
		return err
	}
	if conf.VideoSource == "" {
		return errors.New("video_capture_source must be set")
	}
	if len(conf.Codec) != 4 {
		return fmt.Errorf("codec must be a four character code, got %q", conf.Codec)
	}
	if err := conf.Reconnect.Validate(); err != nil {
		return err
	}
	if err := conf.Motion.Validate(); err != nil {
		return err
	}
	if err := conf.Trip.Validate(); err != nil {
		return err
	}
	if conf.MaxFramesPerVid < 1 {
		return errors.New("max_frames_per_vid must be at least 1")
	}
	if conf.WaitSecondsBetweenCaps < 0 {
		return errors.New("wait_seconds_between_caps can't be negative")
	}
	if conf.TimelapseFPS <= 0 || conf.IntrusionFPS <= 0 {
		return errors.New("timelapse_fps and intrusion_fps must be positive")
	}
	if conf.FramesToRecord < 1 {
		return errors.New("frames_to_record must be at least 1")
	}
	if conf.MaxVideosToMake < 0 {
		return errors.New("max_videos_to_make can't be negative")
	}
	if conf.HealthCheckFrames < 1 {
		return errors.New("number_of_frames_before_healthcheck must be at least 1")
	}
	if conf.UseDropbox && conf.DropboxToken == "" {
		return errors.New("use_dropbox is set but dropbox_token isn't")
	}
	if conf.UploadRateLimit < 0 {
		return errors.New("upload_rate_limit can't be negative")
	}
	return nil
}

// WaitBetweenCaps is the timelapse capture cadence.
func (conf *Config) WaitBetweenCaps() time.Duration {
	return time.Duration(conf.WaitSecondsBetweenCaps * float64(time.Second))
}

func (conf *Config) monitorConfig() monitor.Config {
	return monitor.Config{
		OutputDir:         conf.OutputDir,
		MaxFramesPerVid:   conf.MaxFramesPerVid,
		WaitBetweenCaps:   conf.WaitBetweenCaps(),
		TimelapseFPS:      conf.TimelapseFPS,
		IntrusionFPS:      conf.IntrusionFPS,
		FramesToRecord:    conf.FramesToRecord,
		MaxVideosToMake:   conf.MaxVideosToMake,
		HealthCheckFrames: conf.HealthCheckFrames,
		Trip:              conf.Trip,
	}
}

func ParseConfigFile(filename string) (*Config, error) {
	buf, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseConfig(buf)
}

func ParseConfig(buf []byte) (*Config, error) {
	conf := defaultConfig
	if err := yaml.Unmarshal(buf, &conf); err != nil {
		return nil, err
	}

	delay, err := time.ParseDuration(conf.ReconnectDelay)
	if err != nil {
		return nil, fmt.Errorf("invalid reconnect_delay %q (expected a duration such as \"10s\")", conf.ReconnectDelay)
	}
	conf.Reconnect.RetryDelay = delay

	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}
