// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"testing"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/GermanBionicSystems/epdframe/internal/config"
)

func TestNewDecoder(t *testing.T) {
	cfg := &config.Config{}
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.Register(fs)
	if err := fs.Parse([]string{"--max-pixels", "4096", "--fit=false"}); err != nil {
		t.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	dec := newDecoder(cfg, zap.NewNop())
	if dec.MaxPixels != 4096 {
		t.Errorf("MaxPixels = %d, want 4096", dec.MaxPixels)
	}
	if dec.Fit || !dec.AutoOrient {
		t.Errorf("Fit = %t, AutoOrient = %t", dec.Fit, dec.AutoOrient)
	}
}
