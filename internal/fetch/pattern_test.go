// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package fetch

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"go.uber.org/zap"
)

func TestPattern(t *testing.T) {
	bs, err := NewPattern(image.Pt(320, 100), zap.NewNop()).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}

	img, err := jpeg.Decode(bytes.NewReader(bs))
	if err != nil {
		t.Fatalf("pattern is not a JPEG: %v", err)
	}
	if got := img.Bounds().Size(); got != image.Pt(320, 100) {
		t.Fatalf("size = %v, want 320x100", got)
	}

	// Sample the middle of each bar, above the labels.
	prev := -1
	for i := 0; i < Levels; i++ {
		c := color.GrayModel.Convert(img.At(i*20+10, 20)).(color.Gray)
		if want := i * 17; int(c.Y) < want-8 || int(c.Y) > want+8 {
			t.Errorf("bar %d = %d, want about %d", i, c.Y, want)
		}
		if int(c.Y) <= prev {
			t.Errorf("bar %d = %d is not brighter than bar %d", i, c.Y, i-1)
		}
		prev = int(c.Y)
	}
}

func TestPatternTooSmall(t *testing.T) {
	if _, err := NewPattern(image.Pt(8, 8), zap.NewNop()).Fetch(context.Background()); err == nil {
		t.Error("Fetch() accepted a size narrower than the gray scale")
	}
}
