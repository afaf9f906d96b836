package adc

import (
	"errors"
	"sync"

	"github.com/sweeney/uv-beacon/internal/logic"
)

// FakeReader is a test double that returns scripted raw samples.
type FakeReader struct {
	mu sync.Mutex

	// Samples contains scripted raw values. Each call to Read consumes the
	// next sample; the last one repeats once they are exhausted.
	Samples []logic.RawSample

	// Scale is the millivolts per LSB applied by RawToMillivolts.
	Scale float64

	// Ready is returned by IsReady.
	Ready bool

	// ReadError, if set, will be returned by Read.
	ReadError error

	// Unsupported makes RawToMillivolts return ErrConversionUnsupported.
	Unsupported bool

	index   int
	channel int
	setup   bool
}

// NewFakeReader creates a ready FakeReader with a scale of 1 mV per LSB,
// so raw samples double as millivolt values.
func NewFakeReader(samples ...logic.RawSample) *FakeReader {
	return &FakeReader{Samples: samples, Scale: 1, Ready: true}
}

// IsReady returns the Ready field.
func (f *FakeReader) IsReady() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Ready
}

// Setup records the channel.
func (f *FakeReader) Setup(cfg ChannelConfig) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.Ready {
		return &AcquisitionError{Op: "setup", Err: ErrNotReady}
	}
	f.channel = cfg.Channel
	f.setup = true
	return nil
}

// Read returns the next scripted sample.
func (f *FakeReader) Read() (logic.RawSample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ReadError != nil {
		return 0, &AcquisitionError{Op: "read", Err: f.ReadError}
	}
	if len(f.Samples) == 0 {
		return 0, &AcquisitionError{Op: "read", Err: errors.New("no samples configured")}
	}

	s := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}
	return s, nil
}

// RawToMillivolts multiplies raw by Scale.
func (f *FakeReader) RawToMillivolts(raw logic.RawSample) (logic.Millivolts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Unsupported {
		return 0, ErrConversionUnsupported
	}
	return logic.Millivolts(float64(raw) * f.Scale), nil
}

// SetReadError changes the error returned by Read.
func (f *FakeReader) SetReadError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ReadError = err
}

// SetUnsupported toggles millivolt conversion support.
func (f *FakeReader) SetUnsupported(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Unsupported = v
}

// Channel returns the channel passed to Setup and whether Setup ran.
func (f *FakeReader) Channel() (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.channel, f.setup
}
