// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// epdframe periodically downloads a JPEG picture and shows it on a Waveshare
// IT8951 e-paper HAT.
package main

import (
	"context"
	"log"
	"time"

	"github.com/samber/lo"
	flag "github.com/spf13/pflag"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/epdframe/gamma"
	"github.com/GermanBionicSystems/epdframe/internal/config"
	"github.com/GermanBionicSystems/epdframe/internal/fetch"
	"github.com/GermanBionicSystems/epdframe/internal/frame"
	"github.com/GermanBionicSystems/epdframe/it8951"
	"github.com/GermanBionicSystems/epdframe/jpegrender"
	"github.com/GermanBionicSystems/epdframe/termpreview"
)

func main() {
	cfg := &config.Config{}
	cfg.Register(flag.CommandLine)
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	fx.New(
		fx.Supply(cfg),
		fx.Provide(
			newLogger,
			newPanel,
			newDecoder,
			newTable,
			newFetcher,
			newCycle,
		),
		fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l.Named("fx")}
		}),
		fx.Invoke(loop),
	).Run()
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return lo.Ternary(cfg.Debug, zap.NewDevelopment, zap.NewProduction)()
}

func newTable(cfg *config.Config) (gamma.Table, error) {
	return gamma.Build(cfg.Gamma)
}

func newDecoder(cfg *config.Config, logger *zap.Logger) *jpegrender.Decoder {
	return &jpegrender.Decoder{
		Fit:        cfg.Fit,
		AutoOrient: cfg.AutoOrient,
		MaxPixels:  cfg.MaxPixels,
		Logger:     logger.Named("jpeg"),
	}
}

// newPanel opens the IT8951 HAT, or the terminal emulator with --preview.
func newPanel(cfg *config.Config, lc fx.Lifecycle, logger *zap.Logger) (frame.Panel, error) {
	opts := it8951.EPD10in3
	opts.Logger = logger.Named("it8951")

	if cfg.Preview {
		d, err := termpreview.New(&termpreview.Opts{
			Width:   opts.Width,
			Height:  opts.Height,
			Columns: cfg.Columns,
		})
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				return d.Halt()
			},
		})
		return d, nil
	}

	if _, err := host.Init(); err != nil {
		return nil, err
	}
	p, err := spireg.Open(cfg.Port)
	if err != nil {
		return nil, err
	}

	dev, err := it8951.NewHat(p, &opts)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	if err := dev.Init(); err != nil {
		_ = p.Close()
		return nil, err
	}
	if cfg.VCOM != 0 {
		if err := setVCOM(dev, cfg.VCOM); err != nil {
			_ = p.Close()
			return nil, err
		}
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := dev.Halt(); err != nil {
				logger.Warn("halt failed", zap.Error(err))
			}
			return p.Close()
		},
	})
	return dev, nil
}

func setVCOM(dev *it8951.Dev, mV uint16) error {
	if err := dev.PowerOn(); err != nil {
		return err
	}
	if err := dev.SetVCOM(mV); err != nil {
		return err
	}
	return dev.PowerOff()
}

func newFetcher(cfg *config.Config, panel frame.Panel, logger *zap.Logger) fetch.Fetcher {
	return fetch.FromConfig(cfg, panel.Bounds().Size(), logger.Named("fetch"))
}

func newCycle(cfg *config.Config, panel frame.Panel, f fetch.Fetcher, dec *jpegrender.Decoder, table gamma.Table, logger *zap.Logger) *frame.Cycle {
	return &frame.Cycle{
		Panel:     panel,
		Fetcher:   f,
		Decoder:   dec,
		Table:     table,
		Hibernate: cfg.Hibernate,
		Logger:    logger,
	}
}

// loop runs a cycle every interval. With a zero interval it runs once and
// stops the application.
func loop(cfg *config.Config, c *frame.Cycle, lc fx.Lifecycle, sd fx.Shutdowner, logger *zap.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)

				timer := time.NewTimer(time.Nanosecond)
				defer timer.Stop()

				for {
					select {
					case <-ctx.Done():
						return
					case <-timer.C:
						if err := c.Run(ctx); err != nil {
							logger.With(zap.Error(err)).Info("cycle failed")
						}
						if cfg.Interval == 0 {
							_ = sd.Shutdown()
							return
						}
						logger.Debug("waiting", zap.Duration("interval", cfg.Interval))
						timer.Reset(cfg.Interval)
					}
				}
			}()
			return nil
		},
		OnStop: func(stop context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stop.Done():
				return stop.Err()
			}
		},
	})
}
