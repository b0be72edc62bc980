// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package epdframe is a picture frame for IT8951 driven e-paper panels.
//
// The it8951 package drives the controller over SPI, jpegrender decodes a
// JPEG picture into gray levels shaped by a gamma table and cmd/epdframe
// ties them together: fetch a picture, render it, power the panel down and
// wait for the next cycle.
package epdframe
