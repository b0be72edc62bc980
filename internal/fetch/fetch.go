// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package fetch loads the compressed image of a cycle into memory.
package fetch

import (
	"context"
	"image"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/GermanBionicSystems/epdframe/internal/config"
)

// ErrTooLarge is returned when an image exceeds the size cap.
var ErrTooLarge = errors.New("fetch: image too large")

// Fetcher returns the bytes of one image.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// FromConfig returns the Fetcher selected by c. size is the panel size, used
// by the calibration chart.
func FromConfig(c *config.Config, size image.Point, logger *zap.Logger) Fetcher {
	if c.Pattern {
		return NewPattern(size, logger)
	}
	if c.Remote() {
		h := NewHTTP(c.Source, c.Timeout, c.MaxBytes, logger)
		if c.Progress {
			h.Progress = os.Stderr
		}
		return h
	}
	return NewFile(afero.NewOsFs(), c.Source, c.MaxBytes, logger)
}
