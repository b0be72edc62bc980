// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package frame runs one wake cycle of the picture frame: power the panel,
// fetch an image, render it and power the panel down again.
package frame

import (
	"context"
	"time"

	"github.com/inhies/go-bytesize"
	"github.com/pkg/errors"
	"github.com/rs/xid"
	"go.uber.org/zap"

	"github.com/GermanBionicSystems/epdframe/gamma"
	"github.com/GermanBionicSystems/epdframe/internal/fetch"
	"github.com/GermanBionicSystems/epdframe/jpegrender"
)

// Panel is a display the cycle can render into.
type Panel interface {
	jpegrender.Surface
	// Clear fills the frame buffer with white.
	Clear()
	PowerOn() error
	Refresh() error
	PowerOff() error
	Sleep() error
}

// Cycle renders the image of a Fetcher into a Panel.
type Cycle struct {
	Panel   Panel
	Fetcher fetch.Fetcher
	Decoder *jpegrender.Decoder
	Table   gamma.Table
	// Hibernate sleeps the panel instead of powering it off.
	Hibernate bool

	Logger *zap.Logger
}

// Run executes one cycle. The panel is powered down whatever the outcome.
func (c *Cycle) Run(ctx context.Context) (err error) {
	log := c.logger().With(zap.Stringer("cycle", xid.New()))
	start := time.Now()

	if err := c.Panel.PowerOn(); err != nil {
		return errors.Wrap(err, "power on")
	}
	defer func() {
		if perr := c.powerDown(); perr != nil {
			log.Warn("power down failed", zap.Error(perr))
			if err == nil {
				err = perr
			}
		}
	}()

	src, err := c.Fetcher.Fetch(ctx)
	if err != nil {
		return errors.Wrap(err, "fetch")
	}
	log.Debug("fetched", zap.Stringer("size", bytesize.New(float64(len(src)))))

	// Pixels the new image does not cover must not keep the previous one.
	c.Panel.Clear()

	if err := jpegrender.Render(ctx, c.Decoder, src, c.Panel, c.Table); err != nil {
		return errors.Wrap(err, "decode")
	}
	if err := c.Panel.Refresh(); err != nil {
		return errors.Wrap(err, "refresh")
	}

	log.Info("rendered", zap.Duration("spent", time.Since(start)))
	return nil
}

func (c *Cycle) powerDown() error {
	if c.Hibernate {
		return errors.Wrap(c.Panel.Sleep(), "sleep")
	}
	return errors.Wrap(c.Panel.PowerOff(), "power off")
}

func (c *Cycle) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
