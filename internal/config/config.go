// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package config holds the command line configuration of epdframe.
package config

import (
	"net/url"
	"strings"
	"time"

	"github.com/inhies/go-bytesize"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	flag "github.com/spf13/pflag"
)

// DefaultSource serves a placeholder picture of the 10.3" panel size.
const DefaultSource = "https://placekitten.com/1872/1404"

// DefaultMaxPixels allows four times the area of the 10.3" panel.
const DefaultMaxPixels = 4 * 1872 * 1404

// Config is the process configuration.
type Config struct {
	// Source is an http(s) URL or a file path.
	Source string
	// Pattern replaces Source with a gray level calibration chart.
	Pattern bool
	// Gamma shapes the gray levels, lower is darker.
	Gamma float64
	// Interval between two cycles. Zero runs a single cycle.
	Interval time.Duration
	// Timeout bounds one fetch.
	Timeout time.Duration
	// MaxBytes caps the size of the fetched image.
	MaxBytes int64
	// MaxPixels caps the decoded size of the image.
	MaxPixels int

	Fit        bool
	AutoOrient bool
	// Hibernate puts the controller to sleep instead of standby after a
	// refresh.
	Hibernate bool
	// VCOM in mV, zero keeps the controller value.
	VCOM uint16
	// Port is the SPI port name, empty for the first one.
	Port string

	Preview  bool
	Columns  int
	Progress bool
	Debug    bool

	maxSize string
}

// Register binds the configuration fields to fs.
func (c *Config) Register(fs *flag.FlagSet) {
	fs.StringVar(&c.Source, "source", DefaultSource, "image URL or file path")
	fs.BoolVar(&c.Pattern, "pattern", false, "show a gray level chart instead of the source")
	fs.Float64Var(&c.Gamma, "gamma", 1.2, "gamma correction, lower is darker")
	fs.DurationVar(&c.Interval, "interval", 0, "time between refreshes, 0 to run once")
	fs.DurationVar(&c.Timeout, "timeout", 30*time.Second, "download timeout")
	fs.StringVar(&c.maxSize, "max-size", "16MB", "largest accepted image")
	fs.IntVar(&c.MaxPixels, "max-pixels", DefaultMaxPixels, "largest accepted image area in pixels")
	fs.BoolVar(&c.Fit, "fit", true, "downscale images larger than the panel")
	fs.BoolVar(&c.AutoOrient, "auto-orient", true, "apply the EXIF orientation")
	fs.BoolVar(&c.Hibernate, "hibernate", false, "sleep the controller between refreshes")
	fs.Uint16Var(&c.VCOM, "vcom", 0, "panel VCOM in mV, 0 to keep")
	fs.StringVar(&c.Port, "spi", "", "SPI port name")
	fs.BoolVar(&c.Preview, "preview", false, "render to the terminal instead of the panel")
	fs.IntVar(&c.Columns, "columns", 80, "terminal width used by --preview")
	fs.BoolVar(&c.Progress, "progress", false, "show a download progress bar")
	fs.BoolVar(&c.Debug, "debug", false, "set debug")
}

// Validate checks the parsed values and fills the derived ones.
func (c *Config) Validate() error {
	if c.Source == "" {
		return errors.New("config: empty source")
	}
	if !(c.Gamma > 0) {
		return errors.Errorf("config: gamma must be positive, got %v", c.Gamma)
	}
	if c.Interval < 0 {
		return errors.Errorf("config: negative interval %s", c.Interval)
	}
	if c.Timeout <= 0 {
		return errors.Errorf("config: timeout must be positive, got %s", c.Timeout)
	}
	if c.MaxPixels <= 0 {
		return errors.Errorf("config: max pixels must be positive, got %d", c.MaxPixels)
	}
	if c.Preview && c.Columns <= 0 {
		return errors.Errorf("config: invalid column count %d", c.Columns)
	}

	if c.maxSize != "" {
		b, err := bytesize.Parse(c.maxSize)
		if err != nil {
			return errors.Wrapf(err, "config: invalid max size %q", c.maxSize)
		}
		c.MaxBytes = int64(b)
	}
	if c.MaxBytes <= 0 {
		return errors.New("config: max size must be positive")
	}
	return nil
}

// Remote reports whether Source is fetched over HTTP.
func (c *Config) Remote() bool {
	if !strings.Contains(c.Source, "://") {
		return false
	}
	u, err := url.Parse(c.Source)
	if err != nil {
		return false
	}
	return lo.Contains([]string{"http", "https"}, strings.ToLower(u.Scheme))
}
