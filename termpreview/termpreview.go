// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package termpreview implements a gray frame buffer that renders to the
// terminal using ANSI color codes.
//
// It stands in for an e-paper panel while developing on a machine without
// one. Each terminal cell shows the average of a block of pixels.
package termpreview

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	xdraw "golang.org/x/image/draw"
	"periph.io/x/conn/v3/display"
)

// Opts represents the options available for this display.
type Opts struct {
	Width  int
	Height int
	// Columns is the number of terminal cells per line. Defaults to 80.
	Columns int
	Palette *ansi256.Palette
	// Writer defaults to a colorable stdout.
	Writer io.Writer

	_ struct{}
}

// Dev is an e-paper emulator that outputs to the console.
type Dev struct {
	w       io.Writer
	palette ansi256.Palette
	cols    int

	buffer *image.Gray
	buf    bytes.Buffer
}

// New returns a Dev that displays at the console.
func New(opts *Opts) (*Dev, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("termpreview: invalid size %dx%d", opts.Width, opts.Height)
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.Writer
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	cols := opts.Columns
	if cols <= 0 {
		cols = 80
	}
	if cols > opts.Width {
		cols = opts.Width
	}
	d := &Dev{
		w:       w,
		palette: *p,
		cols:    cols,
		buffer:  image.NewGray(image.Rect(0, 0, opts.Width, opts.Height)),
	}
	d.Clear()
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("TermPreview{%dx%d}", d.buffer.Rect.Dx(), d.buffer.Rect.Dy())
}

// Halt implements conn.Resource.
//
// It resets the terminal colors.
func (d *Dev) Halt() error {
	_, err := io.WriteString(d.w, "\033[0m")
	return err
}

// PowerOn is a no-op.
func (d *Dev) PowerOn() error { return nil }

// PowerOff is a no-op.
func (d *Dev) PowerOff() error { return nil }

// Sleep is a no-op.
func (d *Dev) Sleep() error { return nil }

// SetPixel sets the gray level of a pixel. Out of bounds coordinates are
// ignored.
func (d *Dev) SetPixel(x, y int, v uint8) {
	if !image.Pt(x, y).In(d.buffer.Rect) {
		return
	}
	d.buffer.Pix[y*d.buffer.Stride+x] = v
}

// Clear fills the frame buffer with white.
func (d *Dev) Clear() {
	for i := range d.buffer.Pix {
		d.buffer.Pix[i] = 0xFF
	}
}

// At implements image.Image.
func (d *Dev) At(x, y int) color.Color {
	return d.buffer.GrayAt(x, y)
}

// Set implements draw.Image.
func (d *Dev) Set(x, y int, c color.Color) {
	d.buffer.Set(x, y, c)
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return color.GrayModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return d.buffer.Rect
}

// Draw implements display.Drawer.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	xdraw.Draw(d.buffer, r, src, sp, draw.Src)
	return d.Refresh()
}

// Refresh writes the frame buffer to the console. A terminal cell is about
// twice as tall as wide so a cell covers a block twice as tall as wide.
func (d *Dev) Refresh() error {
	b := d.buffer.Rect
	cw := (b.Dx() + d.cols - 1) / d.cols
	ch := 2 * cw

	// This code is designed to minimize the amount of memory allocated per call.
	d.buf.Reset()
	for y := 0; y < b.Dy(); y += ch {
		for x := 0; x < b.Dx(); x += cw {
			v := d.average(image.Rect(x, y, x+cw, y+ch).Intersect(b))
			_, _ = io.WriteString(&d.buf, d.palette.Block(color.NRGBA{v, v, v, 255}))
		}
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	_, err := d.buf.WriteTo(d.w)
	return err
}

func (d *Dev) average(r image.Rectangle) uint8 {
	sum := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := d.buffer.PixOffset(r.Min.X, y)
		for _, v := range d.buffer.Pix[off : off+r.Dx()] {
			sum += int(v)
		}
	}
	return uint8(sum / (r.Dx() * r.Dy()))
}

var _ display.Drawer = &Dev{}
var _ draw.Image = &Dev{}
var _ fmt.Stringer = &Dev{}
