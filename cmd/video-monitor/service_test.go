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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheCacophonyProject/video-monitor/monitor"
	"github.com/TheCacophonyProject/video-monitor/trip"
	"github.com/TheCacophonyProject/video-monitor/upload"
)

func TestFormatStatus(t *testing.T) {
	st := monitor.RunState{
		Mode:                       monitor.Intrusion,
		RecordedVideos:             2,
		FramesRead:                 400,
		Connections:                3,
		FramesSinceLastHealthCheck: 12,
		Trip:                       trip.State{Phase: trip.Idle, MotionFrames: 1},
	}
	assert.Equal(t,
		`mode=intrusion videos=2 frames=400 connections=3 error-frames=0 since-health-check=12 `+
			`trip="Tripped: false, MotionFrameCount: 1, NoMotionFrameCount: 0" uploads=4 upload-failures=1`,
		formatStatus(st, 4, 1))

	st.Recording = "out/out20200102-10h00m00.avi"
	assert.Contains(t, formatStatus(st, 0, 0), " recording=out/out20200102-10h00m00.avi")
}

type flakyUploader struct {
	calls int
}

func (u *flakyUploader) Upload(localPath, remotePath string) error {
	u.calls++
	if u.calls%2 == 0 {
		return errors.New("network down")
	}
	return nil
}

func TestStatusIncludesUploadCounts(t *testing.T) {
	shipper := upload.NewGateway(new(flakyUploader), false)
	shipper.Ship("a.avi", "/20200101/a.avi")
	shipper.Ship("b.avi", "/20200101/b.avi")
	shipper.Ship("c.avi", "/20200101/c.avi")

	s := &service{
		monitor: monitor.New(monitor.Config{}, monitor.Components{Shipper: shipper}),
		uploads: shipper,
	}
	status, dbusErr := s.Status()
	require.Nil(t, dbusErr)
	assert.Contains(t, status, " uploads=2 upload-failures=1")
}

func TestNewShipper(t *testing.T) {
	conf := defaultConfig
	assert.False(t, newShipper(&conf).Enabled())

	conf.UseDropbox = true
	conf.DropboxToken = "token"
	conf.UploadRateLimit = 1024
	assert.True(t, newShipper(&conf).Enabled())
}
