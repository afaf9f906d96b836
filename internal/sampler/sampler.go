// Package sampler runs one sensor-to-beacon cycle: acquire a raw sample,
// convert it to a UV index, render the display names and push them to the
// beacon. Failures never stop the caller's loop; they are reported as a
// *CycleError naming the step that failed.
package sampler

import (
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/sweeney/uv-beacon/internal/adc"
	"github.com/sweeney/uv-beacon/internal/beacon"
	"github.com/sweeney/uv-beacon/internal/logic"
)

// Step identifies a stage of a cycle.
type Step string

const (
	StepAcquire Step = "acquire"
	StepConvert Step = "convert"
	StepUpdate  Step = "update"
)

// CycleError reports a failed cycle step.
type CycleError struct {
	Step Step
	Err  error
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *CycleError) Unwrap() error { return e.Err }

// StepOf returns the step that produced err, or "" if err is not a *CycleError.
func StepOf(err error) Step {
	var ce *CycleError
	if errors.As(err, &ce) {
		return ce.Step
	}
	return ""
}

// Updater receives the rendered names each cycle. *beacon.Controller
// satisfies it.
type Updater interface {
	Update(complete, short []byte) error
}

// Sampler ties an ADC channel to a beacon.
type Sampler struct {
	adc    adc.Reader
	beacon Updater
	log    *log.Entry
}

// New creates a sampler. r must already be set up.
func New(r adc.Reader, b Updater) *Sampler {
	return &Sampler{
		adc:    r,
		beacon: b,
		log:    log.WithField("component", "sampler"),
	}
}

// Cycle performs one acquisition and beacon update stamped with now.
//
// The returned Reading is valid when err is nil or when StepOf(err) is
// StepUpdate: the sample was converted but the beacon did not take it.
func (s *Sampler) Cycle(now time.Time) (logic.Reading, error) {
	raw, err := s.adc.Read()
	if err != nil {
		s.log.Errorf("could not read sample: %v", err)
		return logic.Reading{}, &CycleError{Step: StepAcquire, Err: err}
	}

	mv, err := s.adc.RawToMillivolts(raw)
	if err != nil {
		s.log.Warnf("raw %d: %v", raw, err)
		return logic.Reading{}, &CycleError{Step: StepConvert, Err: err}
	}

	r := logic.NewReading(now, raw, mv)
	s.log.Infof("raw %d = %.0f mV, UV index %.2f (%s)", raw, float64(mv), r.UVIndex, r.Category)

	complete, short := logic.FormatNames(r.UVIndex)
	if err := s.beacon.Update([]byte(complete), []byte(short)); err != nil {
		if errors.Is(err, beacon.ErrNotAdvertising) {
			s.log.Debugf("beacon not advertising, skipped %q", short)
		} else {
			s.log.Errorf("beacon update failed: %v", err)
		}
		return r, &CycleError{Step: StepUpdate, Err: err}
	}
	return r, nil
}
