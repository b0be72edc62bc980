// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package jpegrender

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/GermanBionicSystems/epdframe/gamma"
)

// graySurface records writes into an image.Gray.
type graySurface struct {
	*image.Gray
	writes []image.Point
}

func newGraySurface(w, h int) *graySurface {
	return &graySurface{Gray: image.NewGray(image.Rect(0, 0, w, h))}
}

func (s *graySurface) SetPixel(x, y int, v uint8) {
	s.writes = append(s.writes, image.Pt(x, y))
	s.SetGray(x, y, color.Gray{Y: v})
}

func TestLuma(t *testing.T) {
	for _, tc := range []struct {
		r, g, b uint8
		want    uint8
	}{
		{255, 255, 255, 255},
		{0, 0, 0, 0},
		{255, 0, 0, 75},
		{0, 255, 0, 149},
		{0, 0, 255, 29},
		{128, 128, 128, 128},
	} {
		if got := Luma(tc.r, tc.g, tc.b); got != tc.want {
			t.Errorf("Luma(%d, %d, %d) = %d, want %d", tc.r, tc.g, tc.b, got, tc.want)
		}
	}
}

func TestVisitClipsRightEdge(t *testing.T) {
	s := newGraySurface(10, 10)
	p := NewPipeline(gamma.Identity, s)

	r := &Rect{
		Bounds: image.Rect(8, 0, 12, 2),
		Pix:    bytes.Repeat([]byte{0x80}, 4*2*3),
	}
	p.Visit(r, 10, 10)

	want := []image.Point{image.Pt(8, 0), image.Pt(9, 0), image.Pt(8, 1), image.Pt(9, 1)}
	if diff := cmp.Diff(s.writes, want); diff != "" {
		t.Errorf("writes difference (-got +want):\n%s", diff)
	}
}

func TestVisitClipsNegativeOrigin(t *testing.T) {
	s := newGraySurface(4, 4)
	p := NewPipeline(gamma.Identity, s)

	r := &Rect{
		Bounds: image.Rect(-1, 3, 1, 5),
		Pix:    bytes.Repeat([]byte{0xFF}, 2*2*3),
	}
	p.Visit(r, 4, 4)

	want := []image.Point{image.Pt(0, 3)}
	if diff := cmp.Diff(s.writes, want); diff != "" {
		t.Errorf("writes difference (-got +want):\n%s", diff)
	}
}

func TestVisitAppliesGamma(t *testing.T) {
	table, err := gamma.Build(1.2)
	if err != nil {
		t.Fatal(err)
	}
	s := newGraySurface(1, 1)
	p := NewPipeline(table, s)

	p.Visit(&Rect{Bounds: image.Rect(0, 0, 1, 1), Pix: []byte{128, 128, 128}}, 1, 1)

	if got, want := s.GrayAt(0, 0).Y, table[128]; got != want {
		t.Errorf("pixel = %d, want %d", got, want)
	}
}

func TestVisitEmpty(t *testing.T) {
	s := newGraySurface(2, 2)
	p := NewPipeline(gamma.Identity, s)

	p.Visit(&Rect{Bounds: image.Rect(0, 0, 0, 2)}, 2, 2)
	p.Visit(&Rect{Bounds: image.Rect(0, 0, 2, 2)}, 2, 2)

	if len(s.writes) != 0 {
		t.Errorf("got %d writes, want none", len(s.writes))
	}
}
