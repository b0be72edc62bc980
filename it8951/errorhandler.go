// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package it8951

import (
	"fmt"
	"time"
)

// errorHandler is a wrapper for error management. It implements controller
// on top of the bus and stops sending once a transfer failed.
type errorHandler struct {
	d   *Dev
	buf []byte
	err error
}

func (eh *errorHandler) waitReady(label string, fallback time.Duration) {
	if eh.err != nil {
		return
	}
	eh.d.ready.wait(label, fallback)
}

func (eh *errorHandler) writeCommand(cmd uint16) {
	if eh.err != nil {
		return
	}
	eh.d.ready.wait(fmt.Sprintf("cmd(%04x)", cmd), eh.d.opts.Timing.Default)

	eh.buf = appendCommand(eh.buf[:0], cmd)
	eh.err = eh.d.bus.Data(eh.buf)
}

func (eh *errorHandler) writeData(words ...uint16) {
	if eh.err != nil {
		return
	}
	eh.d.ready.wait("data", eh.d.opts.Timing.Default)

	eh.buf = appendData(eh.buf[:0], words)
	eh.err = eh.d.bus.Data(eh.buf)
}
