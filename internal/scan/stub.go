//go:build !linux

package scan

import (
	"context"
	"errors"
)

// BlueZSource is not available on non-Linux platforms.
type BlueZSource struct{}

// NewBlueZSource returns a source whose Scan always fails.
func NewBlueZSource() *BlueZSource {
	return &BlueZSource{}
}

// Scan is not implemented on non-Linux platforms.
func (s *BlueZSource) Scan(ctx context.Context, fn func(Advert)) error {
	return errors.New("scan: not supported on this platform (requires Linux)")
}
