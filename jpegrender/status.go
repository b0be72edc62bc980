// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package jpegrender

import (
	"fmt"
)

// Status is the outcome of a decode pass.
type Status uint8

const (
	OK Status = iota
	// Interrupted means the rectangle callback or the context stopped the
	// decoder.
	Interrupted
	DeviceError
	InsufficientMemory
	InsufficientInput
	BadParameter
	FormatError
	Unsupported
	UnsupportedStandard
)

var statusText = [...]string{
	OK:                  "succeeded",
	Interrupted:         "interrupted by output function",
	DeviceError:         "device error or wrong termination of input stream",
	InsufficientMemory:  "insufficient memory pool for the image",
	InsufficientInput:   "insufficient stream input buffer",
	BadParameter:        "parameter error",
	FormatError:         "data format error",
	Unsupported:         "right format but not supported",
	UnsupportedStandard: "not supported JPEG standard",
}

func (s Status) String() string {
	if int(s) < len(statusText) {
		return statusText[s]
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}

// DecodeError reports a failed decode pass.
type DecodeError struct {
	Status Status
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return "jpegrender: " + e.Status.String()
	}
	return "jpegrender: " + e.Status.String() + ": " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
