package radio

import (
	"context"
	"sync"
)

// Call records one advertising call made on a FakeRadio.
type Call struct {
	Op           string // "start" or "update"
	Primary      []byte
	ScanResponse []byte
}

// FakeRadio is a test double that records advertising calls.
// It is safe for concurrent use.
type FakeRadio struct {
	mu sync.Mutex

	// EnableError, if set, will be returned by Enable.
	EnableError error

	// StartError, if set, will be returned by AdvertiseStart.
	StartError error

	// UpdateError, if set, will be returned by AdvertiseUpdateData.
	UpdateError error

	enabled     bool
	advertising bool
	closed      bool
	calls       []Call

	// active payloads as a scanner would observe them
	primary      []byte
	scanResponse []byte
}

// NewFakeRadio creates a FakeRadio for testing.
func NewFakeRadio() *FakeRadio {
	return &FakeRadio{}
}

// Enable marks the radio enabled unless EnableError is set.
func (f *FakeRadio) Enable(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.EnableError != nil {
		return f.EnableError
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	f.enabled = true
	return nil
}

// AdvertiseStart records the call and makes the payloads active.
func (f *FakeRadio) AdvertiseStart(primary, scanResponse []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.StartError != nil {
		return f.StartError
	}
	f.record("start", primary, scanResponse)
	f.advertising = true
	return nil
}

// AdvertiseUpdateData records the call and makes the payloads active.
// A failed update leaves the previous payloads active.
func (f *FakeRadio) AdvertiseUpdateData(primary, scanResponse []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UpdateError != nil {
		return f.UpdateError
	}
	f.record("update", primary, scanResponse)
	return nil
}

func (f *FakeRadio) record(op string, primary, scanResponse []byte) {
	c := Call{
		Op:           op,
		Primary:      append([]byte(nil), primary...),
		ScanResponse: append([]byte(nil), scanResponse...),
	}
	f.calls = append(f.calls, c)
	f.primary = c.Primary
	f.scanResponse = c.ScanResponse
}

// Close marks the radio closed.
func (f *FakeRadio) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.advertising = false
	return nil
}

// SetUpdateError sets UpdateError under the lock.
func (f *FakeRadio) SetUpdateError(err error) {
	f.mu.Lock()
	f.UpdateError = err
	f.mu.Unlock()
}

// Calls returns a copy of the recorded calls.
func (f *FakeRadio) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Updates returns only the recorded AdvertiseUpdateData calls.
func (f *FakeRadio) Updates() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Call
	for _, c := range f.calls {
		if c.Op == "update" {
			out = append(out, c)
		}
	}
	return out
}

// Active returns the payloads currently being advertised.
func (f *FakeRadio) Active() (primary, scanResponse []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.primary, f.scanResponse
}

// Enabled reports whether Enable succeeded.
func (f *FakeRadio) Enabled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enabled
}

// Advertising reports whether AdvertiseStart succeeded and Close has not been called.
func (f *FakeRadio) Advertising() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.advertising
}

// Closed reports whether Close was called.
func (f *FakeRadio) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
