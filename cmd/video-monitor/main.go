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
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	goconfig "github.com/TheCacophonyProject/go-config"
	arg "github.com/alexflint/go-arg"

	"github.com/TheCacophonyProject/video-monitor/capture"
	"github.com/TheCacophonyProject/video-monitor/events"
	"github.com/TheCacophonyProject/video-monitor/monitor"
	"github.com/TheCacophonyProject/video-monitor/motion"
	"github.com/TheCacophonyProject/video-monitor/recorder"
	"github.com/TheCacophonyProject/video-monitor/throttle"
	"github.com/TheCacophonyProject/video-monitor/upload"
)

var version = "<not set>"

type Args struct {
	ConfigFile string `arg:"-c,--config" help:"path to configuration file"`
	ConfigDir  string `arg:"--config-dir" help:"path to the device configuration directory (recording window and location)"`
	Mode       string `arg:"-m,--mode" help:"timelapse or intrusion, overrides the configured mode"`
	Timestamps bool   `arg:"-t,--timestamps" help:"include timestamps in log output"`
	Verbose    bool   `arg:"-v,--verbose" help:"make logging more verbose"`
}

func (Args) Version() string {
	return version
}

func procArgs() Args {
	var args Args
	args.ConfigFile = "/etc/video-monitor.yaml"
	args.ConfigDir = goconfig.DefaultConfigDir
	arg.MustParse(&args)
	return args
}

func main() {
	err := runMain()
	if err != nil {
		log.Fatal(err)
	}
}

func runMain() error {
	args := procArgs()

	if !args.Timestamps {
		log.SetFlags(0) // Removes default timestamp flag
	}

	log.Printf("running version: %s", version)
	conf, err := ParseConfigFile(args.ConfigFile)
	if err != nil {
		return err
	}
	if args.Mode != "" {
		conf.Mode = args.Mode
	}
	mode, err := monitor.ParseMode(conf.Mode)
	if err != nil {
		return err
	}
	logConfig(conf, mode, args.Verbose)

	if err := os.MkdirAll(conf.OutputDir, 0755); err != nil {
		return fmt.Errorf("could not create output directory: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shipper := newShipper(conf)
	c := monitor.Components{
		Source:   capture.NewSource(capture.OpenCVDevice{}, string(conf.VideoSource), conf.Reconnect),
		Encoder:  recorder.OpenCVEncoder{Codec: conf.Codec},
		Stills:   recorder.OpenCVStill{},
		Shipper:  shipper,
		Watchdog: newWatchdog(),
	}

	if mode == monitor.Intrusion {
		detector := motion.NewDetector(conf.Motion)
		defer detector.Close()
		c.Sensor = detector

		if conf.UseRecordingWindow {
			w, err := loadRecordingWindow(args.ConfigDir)
			if err != nil {
				return fmt.Errorf("could not load recording window: %w", err)
			}
			c.Window = w
		}
	}

	if conf.ShowVideo {
		preview := newPreview(mode == monitor.Intrusion)
		defer preview.Close()
		c.Preview = preview
	}

	if conf.ReportEvents {
		c.Events = events.NewDBusReporter()
	}

	m := monitor.New(conf.monitorConfig(), c)

	if conf.DBusService {
		log.Println("starting d-bus service")
		if err := startService(m, shipper, stop); err != nil {
			return err
		}
	}

	return m.Run(ctx, mode)
}

func newShipper(conf *Config) *upload.Gateway {
	if !conf.UseDropbox {
		return upload.NewGateway(nil, false)
	}
	limiter := throttle.NewLimiter(conf.UploadRateLimit)
	return upload.NewGateway(upload.NewDropbox(conf.DropboxToken, limiter), conf.DeleteAfterUpload)
}

func logConfig(conf *Config, mode monitor.Mode, verbose bool) {
	log.Printf("mode: %s", mode)
	log.Printf("video source: %s", conf.VideoSource)
	log.Printf("output dir: %s", conf.OutputDir)
	log.Printf("reconnect: %d attempts, %s apart, after %d error frames",
		conf.Reconnect.MaxReconnects, conf.Reconnect.RetryDelay, conf.Reconnect.MaxErrorFrames)
	switch mode {
	case monitor.Timelapse:
		log.Printf("timelapse: %d frames per video, %s between captures",
			conf.MaxFramesPerVid, conf.WaitBetweenCaps())
	case monitor.Intrusion:
		log.Printf("recording: %d frames per clip, at most %d clips", conf.FramesToRecord, conf.MaxVideosToMake)
		log.Printf("health check every %d frames", conf.HealthCheckFrames)
		log.Printf("trip: %+v", conf.Trip)
		if verbose {
			log.Printf("motion: %+v", conf.Motion)
		}
		if conf.UseRecordingWindow {
			log.Print("recording window enabled")
		}
	}
	if conf.UseDropbox {
		log.Print("uploading to dropbox")
		if conf.UploadRateLimit > 0 {
			log.Printf("upload rate limit: %d bytes/s", conf.UploadRateLimit)
		}
	}
}
