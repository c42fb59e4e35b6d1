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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheCacophonyProject/video-monitor/capture"
	"github.com/TheCacophonyProject/video-monitor/monitor"
	"github.com/TheCacophonyProject/video-monitor/motion"
	"github.com/TheCacophonyProject/video-monitor/trip"
)

func TestDefaultConfig(t *testing.T) {
	conf, err := ParseConfig([]byte(""))
	require.NoError(t, err)

	assert.Equal(t, defaultConfig, *conf)
	assert.Equal(t, "0", string(conf.VideoSource))
	assert.Equal(t, time.Second, conf.WaitBetweenCaps())
}

func TestAllSet(t *testing.T) {
	config := []byte(`
mode: timelapse
show_video: true
max_reconnects: 3
max_error_frames: 7
reconnect_delay: 30s
video_capture_source: rtsp://camera.local/stream1
output_dir: /var/spool/video
codec: MJPG
max_frames_per_vid: 500
wait_seconds_between_caps: 2.5
timelapse_fps: 4
use_dropbox: true
dropbox_token: abc123
upload_rate_limit: 65536
delete_after_upload: true
delta_thresh: 8
min_area: 2500
maxDrawnContours: 4
background_alpha: 0.25
min_motion_frames: 6
min_no_motion_frames: 3
frames_to_record: 200
max_videos_to_make: 20
number_of_frames_before_healthcheck: 9000
intrusion_fps: 12
use_recording_window: true
report_events: true
dbus_service: true
`)

	conf, err := ParseConfig(config)
	require.NoError(t, err)

	assert.Equal(t, Config{
		Mode:        "timelapse",
		ShowVideo:   true,
		VideoSource: "rtsp://camera.local/stream1",
		OutputDir:   "/var/spool/video",
		Codec:       "MJPG",
		Reconnect: capture.ReconnectConfig{
			MaxReconnects:  3,
			MaxErrorFrames: 7,
			RetryDelay:     30 * time.Second,
		},
		ReconnectDelay: "30s",
		Motion: motion.Config{
			DeltaThresh:      8,
			MinArea:          2500,
			MaxDrawnContours: 4,
			BackgroundAlpha:  0.25,
		},
		Trip: trip.Config{
			MinMotionFrames:   6,
			MinNoMotionFrames: 3,
		},
		MaxFramesPerVid:        500,
		WaitSecondsBetweenCaps: 2.5,
		TimelapseFPS:           4,
		FramesToRecord:         200,
		MaxVideosToMake:        20,
		HealthCheckFrames:      9000,
		IntrusionFPS:           12,
		UseDropbox:             true,
		DropboxToken:           "abc123",
		UploadRateLimit:        65536,
		DeleteAfterUpload:      true,
		UseRecordingWindow:     true,
		ReportEvents:           true,
		DBusService:            true,
	}, *conf)
	assert.Equal(t, 2500*time.Millisecond, conf.WaitBetweenCaps())
}

func TestJSONConfig(t *testing.T) {
	// Configuration files from the older deployment are flat JSON.
	config := []byte(`{
		"show_video": false,
		"video_capture_source": 1,
		"max_reconnects": 5,
		"max_error_frames": 10,
		"use_dropbox": false,
		"dropbox_token": "",
		"delta_thresh": 5,
		"min_area": 5000,
		"maxDrawnContours": 10,
		"min_motion_frames": 8,
		"min_no_motion_frames": 4,
		"frames_to_record": 100,
		"max_videos_to_make": 50,
		"number_of_frames_before_healthcheck": 18000
	}`)

	conf, err := ParseConfig(config)
	require.NoError(t, err)
	assert.Equal(t, VideoSource("1"), conf.VideoSource)
	assert.Equal(t, 8, conf.Trip.MinMotionFrames)
	assert.Equal(t, 18000, conf.HealthCheckFrames)
}

func TestMonitorConfig(t *testing.T) {
	conf := defaultConfig
	conf.WaitSecondsBetweenCaps = 0.5

	assert.Equal(t, monitor.Config{
		OutputDir:         ".",
		MaxFramesPerVid:   1000,
		WaitBetweenCaps:   500 * time.Millisecond,
		TimelapseFPS:      5,
		IntrusionFPS:      10,
		FramesToRecord:    100,
		MaxVideosToMake:   50,
		HealthCheckFrames: 18000,
		Trip:              trip.DefaultConfig(),
	}, conf.monitorConfig())
}

func TestInvalidMode(t *testing.T) {
	conf, err := ParseConfig([]byte("mode: garden"))
	assert.Nil(t, conf)
	assert.Error(t, err)
}

func TestDropboxWithoutToken(t *testing.T) {
	conf, err := ParseConfig([]byte("use_dropbox: true"))
	assert.Nil(t, conf)
	assert.EqualError(t, err, "use_dropbox is set but dropbox_token isn't")
}

func TestReconnectDelayNeedsUnit(t *testing.T) {
	conf, err := ParseConfig([]byte(`{"reconnect_delay": 10}`))
	assert.Nil(t, conf)
	assert.EqualError(t, err, `invalid reconnect_delay "10" (expected a duration such as "10s")`)
}

func TestReconnectDelay(t *testing.T) {
	conf, err := ParseConfig([]byte(`reconnect_delay: 1m30s`))
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, conf.Reconnect.RetryDelay)
}

func TestNegativeReconnectDelay(t *testing.T) {
	conf, err := ParseConfig([]byte(`reconnect_delay: -5s`))
	assert.Nil(t, conf)
	assert.EqualError(t, err, "reconnect_delay can't be negative")
}

func TestInvalidReconnect(t *testing.T) {
	conf, err := ParseConfig([]byte("max_reconnects: 0"))
	assert.Nil(t, conf)
	assert.EqualError(t, err, "max_reconnects must be at least 1")
}

func TestInvalidCodec(t *testing.T) {
	_, err := ParseConfig([]byte("codec: H264X"))
	assert.Error(t, err)
}
