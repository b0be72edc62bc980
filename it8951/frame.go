// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package it8951

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Commands
const (
	sysRun     uint16 = 0x0001
	standby    uint16 = 0x0002
	sleepMode  uint16 = 0x0003
	regWrite   uint16 = 0x0011
	loadImg    uint16 = 0x0020
	loadImgEnd uint16 = 0x0022
	dpyArea    uint16 = 0x0034
	vcom       uint16 = 0x0039
)

// Registers
const (
	regI80CPCR uint16 = 0x0004
	regLISAR   uint16 = 0x0208
)

var (
	commandPreamble = [2]byte{0x60, 0x00}
	dataPreamble    = [2]byte{0x00, 0x00}
)

// appendCommand appends the wire encoding of the command word c to b.
func appendCommand(b []byte, c uint16) []byte {
	b = append(b, commandPreamble[:]...)
	return appendWord(b, c)
}

// appendData appends the wire encoding of a data transaction carrying words
// to b.
func appendData(b []byte, words []uint16) []byte {
	b = append(b, dataPreamble[:]...)
	for _, w := range words {
		b = appendWord(b, w)
	}
	return b
}

func appendWord(b []byte, w uint16) []byte {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], w)
	return append(b, buf[:]...)
}

// Endian selects the byte order the controller applies to pixel data words.
type Endian uint16

const (
	LittleEndian Endian = 0
	BigEndian    Endian = 1
)

// PixelFormat is the number of bits per pixel of the pixel data stream.
type PixelFormat uint16

const (
	BPP2 PixelFormat = 0
	BPP3 PixelFormat = 1
	BPP4 PixelFormat = 2
	BPP8 PixelFormat = 3
)

// pixelsPerWord returns how many pixels fit into a 16-bit data word. BPP3 is
// sent padded to four bits.
func (f PixelFormat) pixelsPerWord() int {
	switch f {
	case BPP2:
		return 8
	case BPP3, BPP4:
		return 4
	default:
		return 2
	}
}

func (f PixelFormat) String() string {
	switch f {
	case BPP2:
		return "2bpp"
	case BPP3:
		return "3bpp"
	case BPP4:
		return "4bpp"
	case BPP8:
		return "8bpp"
	}
	return fmt.Sprintf("PixelFormat(%d)", uint16(f))
}

// Rotation is the rotation the controller applies while loading an image.
type Rotation uint16

const (
	Rotate0   Rotation = 0
	Rotate90  Rotation = 1
	Rotate180 Rotation = 2
	Rotate270 Rotation = 3
)

// ErrArgRange is returned when a field does not fit its slot of the packed
// load image argument.
var ErrArgRange = errors.New("it8951: load image argument out of range")

// LoadImageArgs are the arguments of the load image command.
type LoadImageArgs struct {
	Endian      Endian
	PixelFormat PixelFormat
	Rotation    Rotation
}

// Pack returns the argument word: endianness in bit 8, pixel format in bits
// 4-7 and rotation in bits 0-3.
func (a LoadImageArgs) Pack() (uint16, error) {
	if a.Endian > 1 {
		return 0, fmt.Errorf("%w: endian %d", ErrArgRange, a.Endian)
	}
	if a.PixelFormat > 0xF {
		return 0, fmt.Errorf("%w: pixel format %d", ErrArgRange, a.PixelFormat)
	}
	if a.Rotation > 0xF {
		return 0, fmt.Errorf("%w: rotation %d", ErrArgRange, a.Rotation)
	}
	return uint16(a.Endian)<<8 | uint16(a.PixelFormat)<<4 | uint16(a.Rotation), nil
}

// DisplayMode is the waveform used to refresh the panel.
type DisplayMode uint16

const (
	// ModeInit clears the panel to white, flashing it.
	ModeInit DisplayMode = 0
	// ModeDU is a fast monochrome update.
	ModeDU DisplayMode = 1
	// ModeGC16 is the high quality 16 level gray update.
	ModeGC16 DisplayMode = 2
	// ModeGL16 is a 16 level update with reduced flashing.
	ModeGL16 DisplayMode = 3
	// ModeA2 is the fastest, binary only update.
	ModeA2 DisplayMode = 6
)
