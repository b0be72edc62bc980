// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package it8951

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"go.uber.org/zap"
	xdraw "golang.org/x/image/draw"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/host/v3/rpi"
)

var (
	// ErrNotInitialized is returned by operations issued before Init.
	ErrNotInitialized = errors.New("it8951: controller is not initialized")
	// ErrAlreadyInitialized is returned by a second call to Init.
	ErrAlreadyInitialized = errors.New("it8951: controller is already initialized")
	// ErrNotRunning is returned by operations that need the controller to be
	// powered on.
	ErrNotRunning = errors.New("it8951: controller is not running")
)

// PowerState is the power state of the controller as last commanded by the
// driver.
type PowerState uint8

const (
	Off PowerState = iota
	Standby
	Running
	Sleeping
)

func (s PowerState) String() string {
	switch s {
	case Off:
		return "Off"
	case Standby:
		return "Standby"
	case Running:
		return "Running"
	case Sleeping:
		return "Sleeping"
	}
	return fmt.Sprintf("PowerState(%d)", uint8(s))
}

// Timing holds the settling delays and the busy wait bounds. Zero fields are
// replaced with the values of DefaultTiming.
type Timing struct {
	// ResetPulse is how long the reset line is held low.
	ResetPulse time.Duration
	// ResetToReady is the delay after reset when HRDY is not readable.
	ResetToReady time.Duration
	PowerOn      time.Duration
	PowerOff     time.Duration
	SetVCOM      time.Duration
	// Default is the delay before every transaction when HRDY is not
	// readable.
	Default time.Duration

	// PollInterval is the HRDY sampling period while the controller is busy.
	PollInterval time.Duration
	// BusyTimeout bounds a single wait. Once exceeded the transaction is sent
	// anyway.
	BusyTimeout time.Duration
}

// DefaultTiming is used for the zero fields of Opts.Timing.
var DefaultTiming = Timing{
	ResetPulse:   200 * time.Millisecond,
	ResetToReady: 100 * time.Millisecond,
	PowerOn:      10 * time.Millisecond,
	PowerOff:     10 * time.Millisecond,
	SetVCOM:      500 * time.Millisecond,
	Default:      1 * time.Millisecond,
	PollInterval: 1 * time.Millisecond,
	BusyTimeout:  200 * time.Millisecond,
}

func (t Timing) withDefaults() Timing {
	fill := func(v *time.Duration, def time.Duration) {
		if *v == 0 {
			*v = def
		}
	}
	fill(&t.ResetPulse, DefaultTiming.ResetPulse)
	fill(&t.ResetToReady, DefaultTiming.ResetToReady)
	fill(&t.PowerOn, DefaultTiming.PowerOn)
	fill(&t.PowerOff, DefaultTiming.PowerOff)
	fill(&t.SetVCOM, DefaultTiming.SetVCOM)
	fill(&t.Default, DefaultTiming.Default)
	fill(&t.PollInterval, DefaultTiming.PollInterval)
	fill(&t.BusyTimeout, DefaultTiming.BusyTimeout)
	return t
}

// Opts defines the panel and controller configuration.
type Opts struct {
	Width  int
	Height int

	// Frequency is the SPI clock. Defaults to 12MHz.
	Frequency physic.Frequency
	// ImageBufferAddress is the controller memory address of the image
	// buffer, as reported by the device information of the controller.
	ImageBufferAddress uint32

	// Format, Rotation and Mode are used by Refresh.
	Format   PixelFormat
	Rotation Rotation
	Mode     DisplayMode

	Timing Timing

	// Logger receives busy timeouts and transaction traces. Defaults to a
	// no-op logger.
	Logger *zap.Logger
}

// EPD10in3 contains the configuration of the Waveshare 10.3" 1872x1404 panel.
var EPD10in3 = Opts{
	Width:              1872,
	Height:             1404,
	Frequency:          12 * physic.MegaHertz,
	ImageBufferAddress: 0x001236E0,
	Format:             BPP4,
	Mode:               ModeGC16,
}

// Dev is a handle to an IT8951 controller and its frame buffer.
type Dev struct {
	bus   Bus
	ready *waiter
	opts  Opts
	log   *zap.Logger

	state PowerState
	// powered mirrors the controller power flag: set by a system run, cleared
	// by standby.
	powered     bool
	initialized bool

	buffer *image.Gray
}

// New returns a Dev talking to the controller through bus. hrdy is the host
// ready line; it may be nil on boards without it, in which case only the
// fixed delays of opts.Timing are applied.
func New(bus Bus, hrdy gpio.PinIn, opts *Opts) (*Dev, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("it8951: invalid panel size %dx%d", opts.Width, opts.Height)
	}
	if _, err := (LoadImageArgs{PixelFormat: opts.Format, Rotation: opts.Rotation}).Pack(); err != nil {
		return nil, err
	}

	if hrdy != nil {
		if err := hrdy.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
			return nil, fmt.Errorf("it8951: failed to configure hrdy: %w", err)
		}
	}

	o := *opts
	o.Timing = o.Timing.withDefaults()
	if o.Frequency == 0 {
		o.Frequency = 12 * physic.MegaHertz
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}

	d := &Dev{
		bus:    bus,
		ready:  newWaiter(hrdy, &o.Timing, o.Logger),
		opts:   o,
		log:    o.Logger,
		state:  Off,
		buffer: image.NewGray(image.Rect(0, 0, o.Width, o.Height)),
	}

	d.Clear()
	return d, nil
}

// NewSPI returns a Dev using the SPI port p. cs and rst may be nil.
func NewSPI(p spi.Port, cs, rst gpio.PinOut, hrdy gpio.PinIn, opts *Opts) (*Dev, error) {
	return New(NewSPIBus(p, cs, rst), hrdy, opts)
}

// NewHat returns a Dev using the pin assignment of the Waveshare IT8951 HAT.
func NewHat(p spi.Port, opts *Opts) (*Dev, error) {
	cs := rpi.P1_24
	rst := rpi.P1_11
	hrdy := rpi.P1_18
	return NewSPI(p, cs, rst, hrdy, opts)
}

// Init configures the bus, resets the controller and waits for it to become
// ready. It must be called once, before any other operation.
func (d *Dev) Init() error {
	if d.initialized {
		return ErrAlreadyInitialized
	}

	if err := d.bus.Configure(d.opts.Frequency); err != nil {
		return err
	}
	if err := d.bus.Reset(d.opts.Timing.ResetPulse); err != nil {
		return fmt.Errorf("it8951: reset failed: %w", err)
	}
	d.ready.wait("reset", d.opts.Timing.ResetToReady)

	d.initialized = true
	d.setState(Standby)
	return nil
}

// State returns the current power state.
func (d *Dev) State() PowerState {
	return d.state
}

// PowerOn starts the controller. It does nothing when already running.
func (d *Dev) PowerOn() error {
	if !d.initialized {
		return ErrNotInitialized
	}
	if d.powered {
		return nil
	}

	eh := errorHandler{d: d}
	systemRun(&eh, &d.opts.Timing)
	if eh.err != nil {
		return eh.err
	}

	d.powered = true
	d.setState(Running)
	return nil
}

// PowerOff puts the controller in standby. It must be called before the host
// removes power from the panel.
func (d *Dev) PowerOff() error {
	if !d.initialized {
		return ErrNotInitialized
	}

	eh := errorHandler{d: d}
	enterStandby(&eh, &d.opts.Timing)
	if eh.err != nil {
		return eh.err
	}

	d.powered = false
	d.setState(Standby)
	return nil
}

// Sleep puts the controller in its lowest power mode. PowerOn resumes it.
func (d *Dev) Sleep() error {
	if err := d.checkRunning("sleep"); err != nil {
		return err
	}

	eh := errorHandler{d: d}
	enterSleep(&eh, &d.opts.Timing)
	if eh.err != nil {
		return eh.err
	}

	d.powered = false
	d.setState(Sleeping)
	return nil
}

// WriteRegister writes value into the controller register at addr.
func (d *Dev) WriteRegister(addr, value uint16) error {
	if err := d.checkRunning("write register"); err != nil {
		return err
	}

	eh := errorHandler{d: d}
	writeRegister(&eh, addr, value)
	return eh.err
}

// SetVCOM programs the panel common voltage, in millivolts as an absolute
// value (1530 for -1.53V).
func (d *Dev) SetVCOM(mV uint16) error {
	if err := d.checkRunning("set vcom"); err != nil {
		return err
	}

	eh := errorHandler{d: d}
	setVCOM(&eh, &d.opts.Timing, mV)
	return eh.err
}

// StartImageLoad issues the load image command. The controller then expects
// pixel data words followed by the load image end command.
func (d *Dev) StartImageLoad(args LoadImageArgs) error {
	if err := d.checkRunning("load image"); err != nil {
		return err
	}
	arg, err := args.Pack()
	if err != nil {
		return err
	}

	eh := errorHandler{d: d}
	loadImageStart(&eh, arg)
	return eh.err
}

// SetPixel sets the gray level of a pixel in the frame buffer. Pixels
// outside of the panel are ignored. The panel shows the change on the next
// Refresh.
//
// The frame buffer lives on the host, so it can be written in any power
// state; only Refresh needs the controller to be running.
func (d *Dev) SetPixel(x, y int, v uint8) {
	if !image.Pt(x, y).In(d.buffer.Rect) {
		return
	}
	d.buffer.Pix[y*d.buffer.Stride+x] = v
}

// Clear fills the frame buffer with white. Like SetPixel it only touches the
// host buffer.
func (d *Dev) Clear() {
	for i := range d.buffer.Pix {
		d.buffer.Pix[i] = 0xFF
	}
}

// At implements image.Image and returns the frame buffer content.
func (d *Dev) At(x, y int) color.Color {
	return d.buffer.GrayAt(x, y)
}

// Set implements draw.Image.
func (d *Dev) Set(x, y int, c color.Color) {
	d.SetPixel(x, y, color.GrayModel.Convert(c).(color.Gray).Y)
}

// Refresh uploads the frame buffer to the controller and updates the panel
// with the configured display mode.
func (d *Dev) Refresh() error {
	if err := d.checkRunning("refresh"); err != nil {
		return err
	}
	arg, err := LoadImageArgs{
		Endian:      LittleEndian,
		PixelFormat: d.opts.Format,
		Rotation:    d.opts.Rotation,
	}.Pack()
	if err != nil {
		return err
	}

	area := d.buffer.Bounds()
	start := time.Now()

	eh := errorHandler{d: d}
	// Enable packed pixel writes.
	writeRegister(&eh, regI80CPCR, 0x0001)
	setTargetAddress(&eh, d.opts.ImageBufferAddress)
	loadImage(&eh, arg, d.opts.Format, d.buffer.Pix, d.buffer.Stride, area)
	displayArea(&eh, area, d.opts.Mode)

	if eh.err == nil {
		d.log.Debug("refreshed",
			zap.Stringer("format", d.opts.Format),
			zap.Uint16("mode", uint16(d.opts.Mode)),
			zap.Duration("took", time.Since(start)))
	}
	return eh.err
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return color.GrayModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return d.buffer.Bounds()
}

// Draw implements display.Drawer. The source is drawn into the frame buffer
// and the panel is refreshed.
func (d *Dev) Draw(dstRect image.Rectangle, src image.Image, srcPts image.Point) error {
	xdraw.Draw(d.buffer, dstRect.Intersect(d.buffer.Bounds()), src, srcPts, xdraw.Src)
	return d.Refresh()
}

// Halt implements conn.Resource. A running controller is put in standby.
func (d *Dev) Halt() error {
	if d.state != Running {
		return nil
	}
	return d.PowerOff()
}

// String returns a string containing configuration information.
func (d *Dev) String() string {
	return fmt.Sprintf("it8951.Dev{%v, Width: %d, Height: %d, %s}", d.bus, d.opts.Width, d.opts.Height, d.state)
}

func (d *Dev) checkRunning(op string) error {
	if d.state != Running {
		return fmt.Errorf("%s: %w (state %s)", op, ErrNotRunning, d.state)
	}
	return nil
}

func (d *Dev) setState(s PowerState) {
	if s != d.state {
		d.log.Debug("power state", zap.Stringer("from", d.state), zap.Stringer("to", s))
	}
	d.state = s
}

var _ display.Drawer = &Dev{}
var _ draw.Image = &Dev{}
