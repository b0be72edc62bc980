// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package termpreview

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/maruel/ansi256"
)

func block(v uint8) string {
	return ansi256.Default.Block(color.NRGBA{v, v, v, 255})
}

func TestNew(t *testing.T) {
	if _, err := New(&Opts{Width: 0, Height: 4}); err == nil {
		t.Error("New() accepted an empty size")
	}

	d, err := New(&Opts{Width: 4, Height: 3, Writer: &bytes.Buffer{}})
	if err != nil {
		t.Fatal(err)
	}
	if s := d.String(); s != "TermPreview{4x3}" {
		t.Errorf("String() = %q", s)
	}
	if got := d.At(3, 2); got != (color.Gray{Y: 255}) {
		t.Errorf("At(3, 2) = %v, want white", got)
	}
	for _, f := range []func() error{d.PowerOn, d.PowerOff, d.Sleep} {
		if err := f(); err != nil {
			t.Error(err)
		}
	}
}

func TestRefresh(t *testing.T) {
	var buf bytes.Buffer
	d, err := New(&Opts{Width: 4, Height: 5, Columns: 2, Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	// Left cells black, top right cell half gray.
	for y := 0; y < 5; y++ {
		d.SetPixel(0, y, 0)
		d.SetPixel(1, y, 0)
	}
	d.SetPixel(2, 0, 0)
	d.SetPixel(3, 0, 0)
	d.SetPixel(100, 100, 0)

	if err := d.Refresh(); err != nil {
		t.Fatal(err)
	}

	want := strings.Join([]string{
		block(0) + block(191) + "\033[0m\n",
		block(0) + block(255) + "\033[0m\n",
	}, "")
	if diff := cmp.Diff(buf.String(), want); diff != "" {
		t.Errorf("output difference (-got +want):\n%s", diff)
	}
}

func TestDraw(t *testing.T) {
	var buf bytes.Buffer
	d, err := New(&Opts{Width: 2, Height: 2, Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	src := image.NewUniform(color.Black)
	if err := d.Draw(d.Bounds(), src, image.Point{}); err != nil {
		t.Fatal(err)
	}

	want := block(0) + block(0) + "\033[0m\n"
	if diff := cmp.Diff(buf.String(), want); diff != "" {
		t.Errorf("output difference (-got +want):\n%s", diff)
	}
}

func TestClear(t *testing.T) {
	var buf bytes.Buffer
	d, err := New(&Opts{Width: 2, Height: 2, Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	d.SetPixel(1, 1, 0)
	d.Clear()
	if err := d.Refresh(); err != nil {
		t.Fatal(err)
	}

	want := block(255) + block(255) + "\033[0m\n"
	if diff := cmp.Diff(buf.String(), want); diff != "" {
		t.Errorf("output difference (-got +want):\n%s", diff)
	}
}

func TestHalt(t *testing.T) {
	var buf bytes.Buffer
	d, err := New(&Opts{Width: 1, Height: 1, Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "\033[0m" {
		t.Errorf("Halt() wrote %q", buf.String())
	}
}
