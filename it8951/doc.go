// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package it8951 controls e-paper panels driven by an ITE IT8951 timing
// controller over the SPI host interface.
//
// All host transactions are 16-bit words. A command word is sent behind the
// 0x6000 preamble, data words behind the 0x0000 preamble. Before every
// transaction the host waits for the HRDY line to report the controller as
// idle; the wait is bounded and a stuck line only produces a log entry.
//
// Datasheets
//
// https://www.waveshare.net/w/upload/1/18/IT8951_D_V0.2.4.3_20170728.pdf
//
// Product page:
//
// https://www.waveshare.com/wiki/10.3inch_e-Paper_HAT
//
package it8951
