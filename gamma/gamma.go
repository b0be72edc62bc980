// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package gamma provides the lookup table used to correct linear gray levels
// before they are sent to a panel.
//
// Values below 1 darken the image and increase contrast, values above 1
// brighten it. 1.2 is a good starting point for IT8951 driven panels.
package gamma

import (
	"fmt"
	"math"
)

// Table maps a linear 8-bit gray level to its corrected level. It is a value
// type; copies can't alter the table they were taken from.
type Table [256]uint8

// Build returns the table for gamma g: out = round(255 * (v/255)^(1/g)).
func Build(g float64) (Table, error) {
	var t Table
	if !(g > 0) || math.IsInf(g, 0) {
		return t, fmt.Errorf("gamma: invalid value %v, must be positive and finite", g)
	}

	exp := 1 / g
	for v := range t {
		t[v] = uint8(math.Round(255 * math.Pow(float64(v)/255, exp)))
	}
	return t, nil
}

// Identity is the table for gamma 1.
var Identity = func() Table {
	var t Table
	for v := range t {
		t[v] = uint8(v)
	}
	return t
}()

// Apply returns the corrected level of v.
func (t *Table) Apply(v uint8) uint8 {
	return t[v]
}
