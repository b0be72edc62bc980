// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package jpegrender renders a JPEG image onto a single channel gray surface.
//
// The decoder owns the control flow: it hands out the decoded image as a
// sequence of rectangles in raster order and the Pipeline converts each of
// them to gamma corrected gray levels, written pixel by pixel into the
// surface. Everything runs synchronously on the calling goroutine.
package jpegrender

import (
	"image"

	"github.com/GermanBionicSystems/epdframe/gamma"
)

// Surface is the pixel store of a display driver.
type Surface interface {
	// SetPixel sets the gray level of the pixel at x, y.
	SetPixel(x, y int, v uint8)
	Bounds() image.Rectangle
}

// Rect is a decoded fragment of an image. Pix holds the RGB samples of
// Bounds in row-major order. Pix is only valid during the callback that
// received the Rect.
type Rect struct {
	Bounds image.Rectangle
	Pix    []byte
}

// Luma reduces an RGB sample to a gray level with integer weights
// approximating 0.30R + 0.59G + 0.11B.
func Luma(r, g, b uint8) uint8 {
	return uint8((uint32(r)*38 + uint32(g)*75 + uint32(b)*15) >> 7)
}

// Pipeline writes decoded rectangles into a surface.
type Pipeline struct {
	table gamma.Table
	dst   Surface
}

// NewPipeline returns a Pipeline correcting gray levels with table.
func NewPipeline(table gamma.Table, dst Surface) *Pipeline {
	return &Pipeline{table: table, dst: dst}
}

// Visit writes r into the surface. Samples outside of [0,width)x[0,height)
// are skipped.
func (p *Pipeline) Visit(r *Rect, width, height int) {
	w := r.Bounds.Dx()
	if w <= 0 {
		return
	}

	n := len(r.Pix) / 3
	for i := 0; i < n; i++ {
		x := r.Bounds.Min.X + i%w
		if x < 0 || x >= width {
			continue
		}
		y := r.Bounds.Min.Y + i/w
		if y < 0 || y >= height {
			continue
		}

		s := r.Pix[3*i : 3*i+3]
		p.dst.SetPixel(x, y, p.table[Luma(s[0], s[1], s[2])])
	}
}
