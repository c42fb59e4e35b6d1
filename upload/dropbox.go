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

package upload

import (
	"fmt"
	"os"

	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox"
	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/files"

	"github.com/TheCacophonyProject/video-monitor/throttle"
)

// Dropbox uploads files to a Dropbox app folder.
type Dropbox struct {
	client  files.Client
	limiter *throttle.Limiter
}

// NewDropbox returns an uploader authenticated with token. limiter may be
// nil for unlimited bandwidth.
func NewDropbox(token string, limiter *throttle.Limiter) *Dropbox {
	return &Dropbox{
		client: files.New(dropbox.Config{
			Token:    token,
			LogLevel: dropbox.LogOff,
		}),
		limiter: limiter,
	}
}

func (d *Dropbox) Upload(localPath, remotePath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer f.Close()

	arg := files.NewUploadArg(remotePath)
	if _, err := d.client.Upload(arg, d.limiter.Reader(f)); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUploadFailed, remotePath, err)
	}
	return nil
}
