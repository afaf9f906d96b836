//go:build linux

package scan

import (
	"context"
	"fmt"

	"tinygo.org/x/bluetooth"
)

// BlueZSource scans through the BlueZ D-Bus API on the default adapter.
// BlueZ reports the complete local name when a device sends both.
type BlueZSource struct {
	adapter *bluetooth.Adapter
}

// NewBlueZSource creates a source on the default adapter.
func NewBlueZSource() *BlueZSource {
	return &BlueZSource{adapter: bluetooth.DefaultAdapter}
}

// Scan enables the adapter and scans until ctx is done.
func (s *BlueZSource) Scan(ctx context.Context, fn func(Advert)) error {
	if err := s.adapter.Enable(); err != nil {
		return fmt.Errorf("enable bluez adapter: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
			s.adapter.StopScan()
		case <-stopped:
		}
	}()

	err := s.adapter.Scan(func(_ *bluetooth.Adapter, r bluetooth.ScanResult) {
		fn(Advert{Address: r.Address.String(), RSSI: r.RSSI, Name: r.LocalName()})
	})
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	return ctx.Err()
}
