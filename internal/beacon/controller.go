// Package beacon owns the advertising lifecycle of the UV beacon.
//
// The Controller holds the only copies of the active advertising payloads.
// The primary data is built once from the configured scheme and never
// changes; each Update swaps in a freshly built scan response as a whole.
package beacon

import (
	"context"
	"errors"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/sweeney/uv-beacon/internal/adv"
	"github.com/sweeney/uv-beacon/internal/radio"
)

// State is the advertising lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateAdvertising
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "UNINITIALIZED"
	case StateAdvertising:
		return "ADVERTISING"
	case StateFailed:
		return "FAILED"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	// ErrNotAdvertising is returned by Update unless the controller is advertising.
	ErrNotAdvertising = errors.New("beacon: not advertising")

	// ErrAlreadyStarted is returned by a second call to Start.
	ErrAlreadyStarted = errors.New("beacon: already started")
)

// RadioError reports a failure of the radio subsystem.
type RadioError struct {
	Op  string // "enable", "start" or "update"
	Err error
}

func (e *RadioError) Error() string {
	return fmt.Sprintf("beacon: radio %s: %v", e.Op, e.Err)
}

func (e *RadioError) Unwrap() error { return e.Err }

// Controller mediates between the sampling loop and the radio.
// All methods are safe for concurrent use.
type Controller struct {
	radio       radio.Radio
	scheme      adv.Scheme
	defaultName []byte
	log         *log.Entry

	mu           sync.Mutex
	state        State
	primary      []byte
	scanResponse []byte
}

// NewController creates a controller in StateUninitialized. deviceName is
// advertised as both names until the first Update.
func NewController(r radio.Radio, scheme adv.Scheme, deviceName string) *Controller {
	return &Controller{
		radio:       r,
		scheme:      scheme,
		defaultName: []byte(deviceName),
		log:         log.WithField("component", "beacon"),
		primary:     adv.BuildPrimary(scheme),
	}
}

// Start enables the radio and begins advertising the primary data with a
// scan response built from the device name. Any radio failure moves the
// controller to StateFailed permanently.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateUninitialized {
		return ErrAlreadyStarted
	}

	sr, err := adv.BuildScanResponse(c.defaultName, c.defaultName)
	if err != nil {
		c.state = StateFailed
		return fmt.Errorf("default scan response: %w", err)
	}

	c.log.Infof("starting beacon: %s", c.scheme)
	if err := c.radio.Enable(ctx); err != nil {
		c.state = StateFailed
		return &RadioError{Op: "enable", Err: err}
	}
	if err := c.radio.AdvertiseStart(c.primary, sr); err != nil {
		c.state = StateFailed
		return &RadioError{Op: "start", Err: err}
	}

	c.scanResponse = sr
	c.state = StateAdvertising
	c.log.Infof("advertising as %q", c.defaultName)
	return nil
}

// Update replaces the active scan response with the given names. The
// primary data is passed unchanged. A radio failure is not fatal: the
// controller keeps advertising the previous scan response and returns a
// *RadioError for the caller to log.
func (c *Controller) Update(complete, short []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateAdvertising {
		return ErrNotAdvertising
	}

	sr, err := adv.BuildScanResponse(complete, short)
	if err != nil {
		return err
	}
	c.log.Debugf("updating beacon with name %q (%q)", complete, short)
	if err := c.radio.AdvertiseUpdateData(c.primary, sr); err != nil {
		return &RadioError{Op: "update", Err: err}
	}
	c.scanResponse = sr
	return nil
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Primary returns a copy of the primary advertising data.
func (c *Controller) Primary() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]byte(nil), c.primary...)
}

// ScanResponse returns a copy of the active scan response, or nil before
// advertising has started.
func (c *Controller) ScanResponse() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scanResponse == nil {
		return nil
	}
	return append([]byte(nil), c.scanResponse...)
}

// Names decodes the complete and shortened names from the active scan
// response. Both are empty before advertising has started.
func (c *Controller) Names() (complete, short string) {
	sr := c.ScanResponse()
	if sr == nil {
		return "", ""
	}
	complete, short, err := adv.ScanResponseNames(sr)
	if err != nil {
		c.log.Warnf("active scan response unreadable: %v", err)
	}
	return complete, short
}
