// Package adc acquires raw samples from the analog UV sensor.
// The real implementation reads a Linux industrial I/O (IIO) device
// through sysfs. The fake implementation allows testing without hardware.
package adc

import (
	"errors"
	"fmt"

	"github.com/sweeney/uv-beacon/internal/logic"
)

// Reader acquires raw samples from one ADC channel.
type Reader interface {
	// IsReady reports whether the ADC device is present.
	IsReady() bool

	// Setup selects and validates the channel to sample.
	Setup(cfg ChannelConfig) error

	// Read acquires one raw sample from the configured channel.
	Read() (logic.RawSample, error)

	// RawToMillivolts applies the device scale to a raw sample.
	// Returns ErrConversionUnsupported when the device exposes no scale.
	RawToMillivolts(raw logic.RawSample) (logic.Millivolts, error)
}

// ChannelConfig selects an ADC input.
type ChannelConfig struct {
	Channel int
}

var (
	// ErrNotReady is returned when the ADC device is absent.
	ErrNotReady = errors.New("adc: device not ready")

	// ErrConversionUnsupported is returned when raw samples cannot be
	// converted to millivolts.
	ErrConversionUnsupported = errors.New("adc: millivolt conversion unsupported")
)

// AcquisitionError reports a failure to set up or read the ADC.
type AcquisitionError struct {
	Op  string // "setup" or "read"
	Err error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("adc %s: %v", e.Op, e.Err)
}

func (e *AcquisitionError) Unwrap() error { return e.Err }
