// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package it8951

import (
	"image"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

type record struct {
	cmd  uint16
	data []uint16
	wait []time.Duration
}

type fakeController []record

func (r *fakeController) writeCommand(cmd uint16) {
	*r = append(*r, record{
		cmd: cmd,
	})
}

func (r *fakeController) writeData(words ...uint16) {
	cur := &(*r)[len(*r)-1]
	cur.data = append(cur.data, words...)
}

func (r *fakeController) waitReady(label string, fallback time.Duration) {
	cur := &(*r)[len(*r)-1]
	cur.wait = append(cur.wait, fallback)
}

func diffRecords(got fakeController, want []record) string {
	return cmp.Diff([]record(got), want, cmpopts.EquateEmpty(), cmp.AllowUnexported(record{}))
}

func TestPowerSequences(t *testing.T) {
	timing := DefaultTiming

	for _, tc := range []struct {
		name string
		fn   func(controller)
		want []record
	}{
		{
			name: "system run",
			fn:   func(c controller) { systemRun(c, &timing) },
			want: []record{{cmd: sysRun, wait: []time.Duration{timing.PowerOn}}},
		},
		{
			name: "standby",
			fn:   func(c controller) { enterStandby(c, &timing) },
			want: []record{{cmd: standby, wait: []time.Duration{timing.PowerOff}}},
		},
		{
			name: "sleep",
			fn:   func(c controller) { enterSleep(c, &timing) },
			want: []record{{cmd: sleepMode, wait: []time.Duration{timing.PowerOff}}},
		},
		{
			name: "vcom",
			fn:   func(c controller) { setVCOM(c, &timing, 1530) },
			want: []record{{
				cmd:  vcom,
				data: []uint16{1, 1530},
				wait: []time.Duration{timing.Default, timing.SetVCOM},
			}},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var got fakeController

			tc.fn(&got)

			if diff := diffRecords(got, tc.want); diff != "" {
				t.Errorf("difference (-got +want):\n%s", diff)
			}
		})
	}
}

func TestWriteRegister(t *testing.T) {
	var got fakeController

	writeRegister(&got, 0x1234, 0xBEEF)

	want := []record{{cmd: regWrite, data: []uint16{0x1234, 0xBEEF}}}
	if diff := diffRecords(got, want); diff != "" {
		t.Errorf("writeRegister() difference (-got +want):\n%s", diff)
	}
}

func TestSetTargetAddress(t *testing.T) {
	var got fakeController

	setTargetAddress(&got, 0x001236E0)

	want := []record{
		{cmd: regWrite, data: []uint16{regLISAR + 2, 0x0012}},
		{cmd: regWrite, data: []uint16{regLISAR, 0x36E0}},
	}
	if diff := diffRecords(got, want); diff != "" {
		t.Errorf("setTargetAddress() difference (-got +want):\n%s", diff)
	}
}

func TestLoadImage(t *testing.T) {
	pix := []byte{
		0x10, 0x20, 0x30, 0x40, 0x50,
		0x60, 0x70, 0x80, 0x90, 0xA0,
	}

	for _, tc := range []struct {
		name   string
		format PixelFormat
		area   image.Rectangle
		want   []record
	}{
		{
			name:   "8bpp",
			format: BPP8,
			area:   image.Rect(0, 0, 5, 2),
			want: []record{
				{cmd: loadImg, data: []uint16{0x0030, 0x2010, 0x4030, 0xFF50, 0x7060, 0x9080, 0xFFA0}},
				{cmd: loadImgEnd},
			},
		},
		{
			name:   "4bpp",
			format: BPP4,
			area:   image.Rect(0, 0, 5, 2),
			want: []record{
				{cmd: loadImg, data: []uint16{0x0030, 0x4321, 0xFFF5, 0x9876, 0xFFFA}},
				{cmd: loadImgEnd},
			},
		},
		{
			name:   "sub area",
			format: BPP8,
			area:   image.Rect(1, 1, 3, 2),
			want: []record{
				{cmd: loadImg, data: []uint16{0x0030, 0x8070}},
				{cmd: loadImgEnd},
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var got fakeController

			loadImage(&got, 0x0030, tc.format, pix, 5, tc.area)

			if diff := diffRecords(got, tc.want); diff != "" {
				t.Errorf("loadImage() difference (-got +want):\n%s", diff)
			}
		})
	}
}

func TestPackRow(t *testing.T) {
	for _, tc := range []struct {
		name   string
		format PixelFormat
		pix    []byte
		want   []uint16
	}{
		{name: "8bpp", format: BPP8, pix: []byte{0x01, 0x02}, want: []uint16{0x0201}},
		{name: "4bpp", format: BPP4, pix: []byte{0x00, 0x50, 0xA0, 0xF0}, want: []uint16{0xFA50}},
		{name: "2bpp", format: BPP2, pix: []byte{0x00, 0x40, 0x80, 0xC0}, want: []uint16{0xFFE4}},
		{name: "empty", format: BPP8},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := packRow(nil, tc.format, tc.pix)

			if diff := cmp.Diff(got, tc.want, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("packRow() difference (-got +want):\n%s", diff)
			}
		})
	}
}

func TestDisplayArea(t *testing.T) {
	var got fakeController

	displayArea(&got, image.Rect(8, 4, 108, 54), ModeGC16)

	want := []record{{cmd: dpyArea, data: []uint16{8, 4, 100, 50, uint16(ModeGC16)}}}
	if diff := diffRecords(got, want); diff != "" {
		t.Errorf("displayArea() difference (-got +want):\n%s", diff)
	}
}
