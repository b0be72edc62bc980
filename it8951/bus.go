// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package it8951

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// Bus is the byte-oriented link to the controller. It is write-only.
//
// The IT8951 host interface carries command words inside data frames, with
// the 0x6000 preamble, so Dev only uses Data. Command is there for links
// that need a raw command byte.
type Bus interface {
	// Configure selects the bus clock. It must be called before any other
	// operation.
	Configure(f physic.Frequency) error
	// Command issues a single command byte.
	Command(c byte) error
	// Data writes raw data bytes.
	Data(b []byte) error
	// Reset holds the reset line asserted for d and releases it.
	Reset(d time.Duration) error
}

var errNotConfigured = errors.New("it8951: bus is not configured")

// SPIBus implements Bus on top of a periph SPI port.
type SPIBus struct {
	p   spi.Port
	c   conn.Conn
	cs  gpio.PinOut
	rst gpio.PinOut

	sleep func(time.Duration)
}

// NewSPIBus returns a Bus using the SPI port p. cs may be nil when the port
// drives chip select itself. rst may be nil when the reset line is not wired.
func NewSPIBus(p spi.Port, cs, rst gpio.PinOut) *SPIBus {
	return &SPIBus{p: p, cs: cs, rst: rst, sleep: time.Sleep}
}

// Configure implements Bus.
func (b *SPIBus) Configure(f physic.Frequency) error {
	c, err := b.p.Connect(f, spi.Mode0, 8)
	if err != nil {
		return fmt.Errorf("it8951: failed to connect spi: %w", err)
	}
	b.c = c

	if b.cs != nil {
		if err := b.cs.Out(gpio.High); err != nil {
			return err
		}
	}
	return nil
}

// Command implements Bus. Dev does not use it.
func (b *SPIBus) Command(c byte) error {
	return b.tx([]byte{c})
}

// Data implements Bus.
func (b *SPIBus) Data(d []byte) error {
	return b.tx(d)
}

// Reset implements Bus. The IT8951 reset input is active low.
func (b *SPIBus) Reset(d time.Duration) error {
	if b.rst == nil {
		return nil
	}
	if err := b.rst.Out(gpio.Low); err != nil {
		return err
	}
	b.sleep(d)
	return b.rst.Out(gpio.High)
}

func (b *SPIBus) tx(w []byte) error {
	if b.c == nil {
		return errNotConfigured
	}
	if b.cs == nil {
		return b.c.Tx(w, nil)
	}

	if err := b.cs.Out(gpio.Low); err != nil {
		return err
	}
	if err := b.c.Tx(w, nil); err != nil {
		_ = b.cs.Out(gpio.High)
		return err
	}
	return b.cs.Out(gpio.High)
}

// String returns the underlying connection.
func (b *SPIBus) String() string {
	if b.c == nil {
		return b.p.String()
	}
	return b.c.String()
}

var _ Bus = &SPIBus{}
