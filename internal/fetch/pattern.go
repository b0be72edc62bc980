// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package fetch

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"strconv"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/image/font/gofont/goregular"
)

// Levels is the number of gray levels of a 4 bits per pixel panel.
const Levels = 16

// Pattern generates a gray level calibration chart: Levels vertical bars from
// black to white, each labeled with its gray value. The chart goes through
// the same decoder and gamma table as a downloaded picture.
type Pattern struct {
	size image.Point
	log  *zap.Logger
}

// NewPattern returns a Pattern of the given size.
func NewPattern(size image.Point, logger *zap.Logger) *Pattern {
	return &Pattern{size: size, log: logger}
}

func (p *Pattern) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.size.X < Levels || p.size.Y <= 0 {
		return nil, errors.Errorf("fetch: pattern size %v too small", p.size)
	}

	img, err := p.draw()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
		return nil, errors.Wrap(err, "fetch: encode pattern")
	}
	p.log.Debug("pattern generated", zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

func (p *Pattern) draw() (image.Image, error) {
	w, h := float64(p.size.X), float64(p.size.Y)
	bw := w / Levels

	font, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, errors.Wrap(err, "fetch: load font")
	}

	dc := gg.NewContext(p.size.X, p.size.Y)
	dc.SetFontFace(truetype.NewFace(font, &truetype.Options{Size: bw / 3}))

	for i := 0; i < Levels; i++ {
		v := float64(i*17) / 255
		dc.SetRGB(v, v, v)
		dc.DrawRectangle(float64(i)*bw, 0, bw, h)
		dc.Fill()

		// Labels go in the bottom fifth, in the opposite tone.
		l := 1.0
		if v > 0.5 {
			l = 0
		}
		dc.SetRGB(l, l, l)
		dc.DrawStringAnchored(strconv.Itoa(i*17), (float64(i)+0.5)*bw, h*0.9, 0.5, 0.5)
	}
	return dc.Image(), nil
}
