// Package radio drives the Bluetooth LE controller that transmits the beacon.
// The real implementation talks to a Linux HCI socket.
// The fake implementation allows testing without hardware.
package radio

import (
	"context"
	"fmt"
	"time"
)

// Radio transmits legacy advertising data.
type Radio interface {
	// Enable brings up the Bluetooth stack and blocks until it is ready
	// or ctx is done.
	Enable(ctx context.Context) error

	// AdvertiseStart begins non-connectable, scannable advertising with the
	// given primary advertising data and scan response data.
	AdvertiseStart(primary, scanResponse []byte) error

	// AdvertiseUpdateData replaces both payloads while advertising continues.
	// On error the previous payloads stay in effect.
	AdvertiseUpdateData(primary, scanResponse []byte) error

	// Close stops advertising and releases the controller.
	Close() error
}

// BackendHCI is the only backend accepted by the configuration. It writes
// the payload bytes to the controller unchanged, which is what lets the scan
// response carry both the complete and the shortened name.
const BackendHCI = "hci"

// New returns the radio for backend. deviceID selects hci<N>.
func New(backend string, deviceID int, interval time.Duration) (Radio, error) {
	switch backend {
	case BackendHCI:
		return NewHCIRadio(deviceID, interval), nil
	default:
		return nil, fmt.Errorf("radio: unknown backend %q", backend)
	}
}

// DefaultInterval is the advertising interval used when none is configured.
const DefaultInterval = 100 * time.Millisecond

// intervalUnits converts d to 0.625 ms controller units, clamped to the
// legacy advertising range for scannable advertising (100 ms .. 10.24 s).
func intervalUnits(d time.Duration) uint16 {
	units := d * 8 / 5 / time.Millisecond
	if units < 0x00A0 {
		return 0x00A0
	}
	if units > 0x4000 {
		return 0x4000
	}
	return uint16(units)
}
