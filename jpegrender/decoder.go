// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package jpegrender

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/GermanBionicSystems/epdframe/gamma"
)

// blockSize matches the largest JPEG minimum coded unit.
const blockSize = 16

// Decoder decodes JPEG images and hands them out as rectangles.
type Decoder struct {
	// Fit downscales images larger than the target to fit in it, keeping the
	// aspect ratio. Without Fit the image is drawn at the origin and clipped.
	Fit bool
	// AutoOrient applies the EXIF orientation tag.
	AutoOrient bool
	// MaxPixels rejects images with more pixels with InsufficientMemory.
	// Zero disables the check.
	MaxPixels int

	Logger *zap.Logger
}

// Decode decodes src and calls visit once per block, in raster order. target
// is the size of the destination, used by Fit. Decoding stops with
// Interrupted when visit returns false or ctx is done.
//
// The returned size is the size of the image as handed to visit.
func (d *Decoder) Decode(ctx context.Context, src []byte, target image.Point, visit func(*Rect) bool) (image.Point, error) {
	if visit == nil {
		return image.Point{}, &DecodeError{Status: BadParameter, Err: errors.New("nil rectangle callback")}
	}
	if d.Fit && (target.X <= 0 || target.Y <= 0) {
		return image.Point{}, &DecodeError{Status: BadParameter, Err: fmt.Errorf("invalid target size %v", target)}
	}
	if len(src) == 0 {
		return image.Point{}, &DecodeError{Status: InsufficientInput, Err: io.ErrUnexpectedEOF}
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(src))
	if err != nil {
		return image.Point{}, classify(err)
	}
	if format != "jpeg" {
		return image.Point{}, &DecodeError{Status: UnsupportedStandard, Err: fmt.Errorf("%s image", format)}
	}
	if d.MaxPixels > 0 && cfg.Width*cfg.Height > d.MaxPixels {
		return image.Point{}, &DecodeError{
			Status: InsufficientMemory,
			Err:    fmt.Errorf("%dx%d image exceeds %d pixels", cfg.Width, cfg.Height, d.MaxPixels),
		}
	}

	img, err := imaging.Decode(bytes.NewReader(src), imaging.AutoOrientation(d.AutoOrient))
	if err != nil {
		return image.Point{}, classify(err)
	}

	var nrgba *image.NRGBA
	if d.Fit {
		nrgba = imaging.Fit(img, target.X, target.Y, imaging.Lanczos)
	} else {
		nrgba = imaging.Clone(img)
	}
	size := nrgba.Bounds().Size()

	d.logger().Debug("decoded",
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Int("outWidth", size.X),
		zap.Int("outHeight", size.Y))

	if err := emit(ctx, nrgba, visit); err != nil {
		return size, err
	}
	return size, nil
}

func (d *Decoder) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// emit walks img in blocks. The sample buffer is reused between calls.
func emit(ctx context.Context, img *image.NRGBA, visit func(*Rect) bool) error {
	b := img.Bounds()
	buf := make([]byte, 0, blockSize*blockSize*3)

	for by := 0; by < b.Dy(); by += blockSize {
		for bx := 0; bx < b.Dx(); bx += blockSize {
			if err := ctx.Err(); err != nil {
				return &DecodeError{Status: Interrupted, Err: err}
			}

			r := image.Rect(bx, by, bx+blockSize, by+blockSize).Intersect(image.Rect(0, 0, b.Dx(), b.Dy()))
			buf = buf[:0]
			for y := r.Min.Y; y < r.Max.Y; y++ {
				off := img.PixOffset(b.Min.X+r.Min.X, b.Min.Y+y)
				for x := 0; x < r.Dx(); x++ {
					buf = append(buf, img.Pix[off:off+3]...)
					off += 4
				}
			}

			if !visit(&Rect{Bounds: r, Pix: buf}) {
				return &DecodeError{Status: Interrupted}
			}
		}
	}
	return nil
}

// errShortData is returned by image/jpeg when the scan data ends early.
var errShortData = jpeg.FormatError("short Huffman data")

// classify maps decoder errors to a Status.
func classify(err error) *DecodeError {
	var (
		fe jpeg.FormatError
		ue jpeg.UnsupportedError
	)
	switch {
	case errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF), errors.Is(err, errShortData):
		return &DecodeError{Status: InsufficientInput, Err: err}
	case errors.As(err, &fe), errors.Is(err, image.ErrFormat):
		return &DecodeError{Status: FormatError, Err: err}
	case errors.As(err, &ue):
		return &DecodeError{Status: Unsupported, Err: err}
	}
	return &DecodeError{Status: DeviceError, Err: err}
}

// Render decodes src into dst, correcting gray levels with table.
func Render(ctx context.Context, dec *Decoder, src []byte, dst Surface, table gamma.Table) error {
	p := NewPipeline(table, dst)
	size := dst.Bounds().Size()
	_, err := dec.Decode(ctx, src, size, func(r *Rect) bool {
		p.Visit(r, size.X, size.Y)
		return true
	})
	return err
}
