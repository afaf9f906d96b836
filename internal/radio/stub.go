//go:build !linux

package radio

import (
	"context"
	"errors"
	"time"
)

var errUnsupported = errors.New("radio: not supported on this platform (requires Linux)")

// HCIRadio is not available on non-Linux platforms.
type HCIRadio struct{}

// NewHCIRadio returns a radio whose Enable always fails.
func NewHCIRadio(deviceID int, interval time.Duration) *HCIRadio {
	return &HCIRadio{}
}

// Enable is not implemented on non-Linux platforms.
func (r *HCIRadio) Enable(ctx context.Context) error { return errUnsupported }

// AdvertiseStart is not implemented on non-Linux platforms.
func (r *HCIRadio) AdvertiseStart(primary, scanResponse []byte) error { return errUnsupported }

// AdvertiseUpdateData is not implemented on non-Linux platforms.
func (r *HCIRadio) AdvertiseUpdateData(primary, scanResponse []byte) error { return errUnsupported }

// Close is not implemented on non-Linux platforms.
func (r *HCIRadio) Close() error { return nil }
