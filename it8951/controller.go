// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package it8951

import (
	"image"
	"time"
)

type controller interface {
	// writeCommand waits for the controller and sends a command word.
	writeCommand(uint16)
	// writeData waits for the controller and sends data words.
	writeData(...uint16)
	waitReady(label string, fallback time.Duration)
}

func systemRun(ctrl controller, t *Timing) {
	ctrl.writeCommand(sysRun)
	ctrl.waitReady("power on", t.PowerOn)
}

func enterStandby(ctrl controller, t *Timing) {
	ctrl.writeCommand(standby)
	ctrl.waitReady("power off", t.PowerOff)
}

func enterSleep(ctrl controller, t *Timing) {
	ctrl.writeCommand(sleepMode)
	ctrl.waitReady("sleep", t.PowerOff)
}

func writeRegister(ctrl controller, addr, value uint16) {
	ctrl.writeCommand(regWrite)
	ctrl.writeData(addr)
	ctrl.writeData(value)
}

func setVCOM(ctrl controller, t *Timing, mV uint16) {
	ctrl.writeCommand(vcom)
	ctrl.waitReady("vcom", t.Default)
	// 1 selects write mode.
	ctrl.writeData(1)
	ctrl.writeData(mV)
	ctrl.waitReady("vcom", t.SetVCOM)
}

func loadImageStart(ctrl controller, arg uint16) {
	ctrl.writeCommand(loadImg)
	ctrl.writeData(arg)
}

// setTargetAddress points the image loader at addr in the controller memory.
func setTargetAddress(ctrl controller, addr uint32) {
	writeRegister(ctrl, regLISAR+2, uint16(addr>>16))
	writeRegister(ctrl, regLISAR, uint16(addr))
}

// loadImage streams the rows of pix in the given format, between the load
// image start and end commands.
func loadImage(ctrl controller, arg uint16, format PixelFormat, pix []byte, stride int, area image.Rectangle) {
	loadImageStart(ctrl, arg)

	row := make([]uint16, 0, (area.Dx()+format.pixelsPerWord()-1)/format.pixelsPerWord())
	for y := area.Min.Y; y < area.Max.Y; y++ {
		off := y*stride + area.Min.X
		row = packRow(row[:0], format, pix[off:off+area.Dx()])
		ctrl.writeData(row...)
	}

	ctrl.writeCommand(loadImgEnd)
}

func displayArea(ctrl controller, area image.Rectangle, mode DisplayMode) {
	ctrl.writeCommand(dpyArea)
	ctrl.writeData(
		uint16(area.Min.X),
		uint16(area.Min.Y),
		uint16(area.Dx()),
		uint16(area.Dy()),
		uint16(mode),
	)
}

// packRow packs 8-bit gray pixels into little endian data words: the first
// pixel of a word occupies its least significant bits. Formats below 8 bits
// keep the most significant bits of each pixel. The last word is padded with
// white.
func packRow(dst []uint16, format PixelFormat, pix []byte) []uint16 {
	n := format.pixelsPerWord()
	bits := 16 / n
	for i := 0; i < len(pix); i += n {
		var w uint16
		for j := 0; j < n; j++ {
			p := byte(0xFF)
			if i+j < len(pix) {
				p = pix[i+j]
			}
			w |= uint16(p>>(8-bits)) << (j * bits)
		}
		dst = append(dst, w)
	}
	return dst
}
