// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package it8951

import (
	"time"

	"go.uber.org/zap"
	"periph.io/x/conn/v3/gpio"
)

// waiter blocks until the HRDY line reports the controller as idle. HRDY is
// low while the controller is busy.
type waiter struct {
	hrdy     gpio.PinIn
	interval time.Duration
	timeout  time.Duration
	log      *zap.Logger

	now   func() time.Time
	sleep func(time.Duration)
}

func newWaiter(hrdy gpio.PinIn, t *Timing, log *zap.Logger) *waiter {
	return &waiter{
		hrdy:     hrdy,
		interval: t.PollInterval,
		timeout:  t.BusyTimeout,
		log:      log,
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// wait returns once HRDY is high. If the line is high on the first sample
// the fallback delay is applied instead, which covers boards without a
// readable HRDY line. A line that stays low longer than the timeout is
// logged and otherwise ignored.
func (w *waiter) wait(label string, fallback time.Duration) {
	if w.hrdy == nil || w.hrdy.Read() == gpio.High {
		w.sleep(fallback)
		return
	}

	start := w.now()
	for {
		w.sleep(w.interval)
		if w.hrdy.Read() == gpio.High {
			w.log.Debug("controller ready",
				zap.String("op", label),
				zap.Duration("waited", w.now().Sub(start)))
			return
		}
		if spent := w.now().Sub(start); spent > w.timeout {
			w.log.Warn("busy timeout",
				zap.String("op", label),
				zap.Duration("spent", spent),
				zap.Duration("timeout", w.timeout))
			return
		}
	}
}
