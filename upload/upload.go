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

// Package upload ships finished recordings to remote storage. Shipping is
// best effort: a failed upload never stops the camera.
package upload

import (
	"errors"
	"log"
	"os"
	"path"
	"sync"
	"time"

	"github.com/TheCacophonyProject/video-monitor/loglimiter"
)

const (
	dateFormat     = "20060102"
	healthCheckDir = "Healthcheck"
	minLogInterval = 10 * time.Minute
)

var ErrUploadFailed = errors.New("upload failed")

// Uploader is the remote storage capability.
type Uploader interface {
	Upload(localPath, remotePath string) error
}

// DestPath is where an artifact made at t is stored: /{YYYYMMDD}/{filename}
func DestPath(t time.Time, filename string) string {
	return path.Join("/", t.Format(dateFormat), path.Base(filename))
}

// HealthCheckDestPath is where a health check still made at t is stored:
// /{YYYYMMDD}/Healthcheck/{filename}
func HealthCheckDestPath(t time.Time, filename string) string {
	return path.Join("/", t.Format(dateFormat), healthCheckDir, path.Base(filename))
}

// Gateway hands artifacts to an Uploader and swallows failures. A Gateway
// without an Uploader is disabled and ships nothing.
type Gateway struct {
	uploader    Uploader
	deleteAfter bool
	log         *loglimiter.LogLimiter

	mu      sync.Mutex
	shipped int
	failed  int
}

func NewGateway(uploader Uploader, deleteAfter bool) *Gateway {
	return &Gateway{
		uploader:    uploader,
		deleteAfter: deleteAfter,
		log:         loglimiter.New(minLogInterval),
	}
}

func (g *Gateway) Enabled() bool {
	return g != nil && g.uploader != nil
}

// Ship uploads localPath to remotePath and reports whether it worked.
func (g *Gateway) Ship(localPath, remotePath string) bool {
	if !g.Enabled() {
		return false
	}

	log.Printf("uploading %s to %s", localPath, remotePath)
	start := time.Now()
	err := g.uploader.Upload(localPath, remotePath)
	g.count(err == nil)
	if err != nil {
		g.log.Printf("failed to upload %s: %v", localPath, err)
		return false
	}
	log.Printf("uploaded %s in %s", remotePath, time.Since(start).Round(time.Millisecond))

	if g.deleteAfter {
		if err := os.Remove(localPath); err != nil {
			log.Printf("could not delete %s after upload: %v", localPath, err)
		}
	}
	return true
}

func (g *Gateway) count(ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if ok {
		g.shipped++
	} else {
		g.failed++
	}
}

// Counts returns the number of successful and failed uploads. Safe to call
// from any goroutine.
func (g *Gateway) Counts() (shipped, failed int) {
	if g == nil {
		return 0, 0
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.shipped, g.failed
}
