//go:build linux

package radio

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-ble/ble"
	"github.com/go-ble/ble/linux"
	"github.com/go-ble/ble/linux/hci/cmd"
	log "github.com/sirupsen/logrus"
)

// advScanInd is the HCI advertising type for scannable, non-connectable
// undirected advertising (ADV_SCAN_IND).
const advScanInd = 0x02

// HCIRadio advertises through a raw Linux HCI socket. The payload bytes are
// handed to the controller unchanged, so the scan response carries both the
// complete and the shortened name exactly as built.
type HCIRadio struct {
	deviceID int
	interval time.Duration

	mu  sync.Mutex
	dev *linux.Device
}

// NewHCIRadio creates a radio for the HCI device hci<deviceID>.
func NewHCIRadio(deviceID int, interval time.Duration) *HCIRadio {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &HCIRadio{deviceID: deviceID, interval: interval}
}

// Enable opens the HCI device. It blocks until the controller has been
// initialized or ctx is done.
func (r *HCIRadio) Enable(ctx context.Context) error {
	units := intervalUnits(r.interval)
	params := cmd.LESetAdvertisingParameters{
		AdvertisingIntervalMin:  units,
		AdvertisingIntervalMax:  units,
		AdvertisingType:         advScanInd,
		OwnAddressType:          0x00, // public
		AdvertisingChannelMap:   0x07, // 37, 38, 39
		AdvertisingFilterPolicy: 0x00,
	}

	type result struct {
		dev *linux.Device
		err error
	}
	done := make(chan result, 1)
	go func() {
		dev, err := linux.NewDevice(ble.OptDeviceID(r.deviceID), ble.OptAdvParams(params))
		done <- result{dev, err}
	}()

	select {
	case <-ctx.Done():
		// Release the device if it comes up after we gave up on it.
		go func() {
			if res := <-done; res.dev != nil {
				res.dev.Stop()
			}
		}()
		return ctx.Err()
	case res := <-done:
		if res.err != nil {
			return fmt.Errorf("open hci%d: %w", r.deviceID, res.err)
		}
		r.mu.Lock()
		r.dev = res.dev
		r.mu.Unlock()
		log.WithField("component", "radio").Infof("hci%d ready, interval=%v", r.deviceID, r.interval)
		return nil
	}
}

// AdvertiseStart loads both payloads and enables advertising.
func (r *HCIRadio) AdvertiseStart(primary, scanResponse []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dev == nil {
		return errors.New("hci: not enabled")
	}
	if err := r.dev.HCI.SetAdvertisement(primary, scanResponse); err != nil {
		return fmt.Errorf("set advertising data: %w", err)
	}
	if err := r.dev.HCI.Advertise(); err != nil {
		return fmt.Errorf("enable advertising: %w", err)
	}
	return nil
}

// AdvertiseUpdateData reloads both payloads. The controller keeps
// advertising and switches to the new data on its next advertising event.
func (r *HCIRadio) AdvertiseUpdateData(primary, scanResponse []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dev == nil {
		return errors.New("hci: not enabled")
	}
	if err := r.dev.HCI.SetAdvertisement(primary, scanResponse); err != nil {
		return fmt.Errorf("update advertising data: %w", err)
	}
	return nil
}

// Close stops advertising and closes the HCI device.
func (r *HCIRadio) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dev == nil {
		return nil
	}

	var errs []error
	if err := r.dev.HCI.StopAdvertising(); err != nil {
		errs = append(errs, fmt.Errorf("stop advertising: %w", err))
	}
	if err := r.dev.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("stop device: %w", err))
	}
	r.dev = nil
	return errors.Join(errs...)
}
