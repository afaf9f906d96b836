package adc

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/sweeney/uv-beacon/internal/logic"
)

// DefaultDevice is the first IIO device on a typical Linux board.
const DefaultDevice = "/sys/bus/iio/devices/iio:device0"

// IIOReader samples a voltage channel of a Linux IIO device via sysfs.
//
// The kernel exposes in_voltageN_raw per channel and a scale in millivolts
// per LSB either per channel (in_voltageN_scale) or shared by all channels
// (in_voltage_scale). An offset, if present, is added before scaling.
type IIOReader struct {
	dir     string
	channel int
	rawPath string

	scale    float64
	hasScale bool
	offset   float64
}

// NewIIOReader creates a reader for the IIO device directory dir.
func NewIIOReader(dir string) *IIOReader {
	return &IIOReader{dir: dir}
}

// IsReady reports whether the device directory exists.
func (r *IIOReader) IsReady() bool {
	fi, err := os.Stat(r.dir)
	return err == nil && fi.IsDir()
}

// Setup checks that the channel exists and loads its scale and offset.
func (r *IIOReader) Setup(cfg ChannelConfig) error {
	if !r.IsReady() {
		return &AcquisitionError{Op: "setup", Err: ErrNotReady}
	}
	if cfg.Channel < 0 {
		return &AcquisitionError{Op: "setup", Err: fmt.Errorf("invalid channel %d", cfg.Channel)}
	}

	rawPath := filepath.Join(r.dir, fmt.Sprintf("in_voltage%d_raw", cfg.Channel))
	if _, err := os.Stat(rawPath); err != nil {
		return &AcquisitionError{Op: "setup", Err: err}
	}

	r.channel = cfg.Channel
	r.rawPath = rawPath
	r.scale, r.hasScale = r.channelAttr("scale")
	r.offset, _ = r.channelAttr("offset")

	logger := log.WithField("component", "adc")
	if r.hasScale {
		logger.Infof("channel %d: scale %g mV/LSB, offset %g", r.channel, r.scale, r.offset)
	} else {
		logger.Warnf("channel %d: no scale attribute, millivolt conversion unavailable", r.channel)
	}
	return nil
}

// channelAttr reads in_voltageN_<name>, falling back to the shared
// in_voltage_<name>.
func (r *IIOReader) channelAttr(name string) (float64, bool) {
	for _, f := range []string{
		fmt.Sprintf("in_voltage%d_%s", r.channel, name),
		"in_voltage_" + name,
	} {
		b, err := os.ReadFile(filepath.Join(r.dir, f))
		if err != nil {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(string(b)), 64)
		if err != nil {
			continue
		}
		return v, true
	}
	return 0, false
}

// Read returns the current raw value of the channel.
func (r *IIOReader) Read() (logic.RawSample, error) {
	if r.rawPath == "" {
		return 0, &AcquisitionError{Op: "read", Err: ErrNotReady}
	}
	b, err := os.ReadFile(r.rawPath)
	if err != nil {
		return 0, &AcquisitionError{Op: "read", Err: err}
	}
	v, err := strconv.ParseInt(strings.TrimSpace(string(b)), 10, 32)
	if err != nil {
		return 0, &AcquisitionError{Op: "read", Err: fmt.Errorf("parse %s: %w", filepath.Base(r.rawPath), err)}
	}
	return logic.RawSample(v), nil
}

// RawToMillivolts computes (raw + offset) * scale.
func (r *IIOReader) RawToMillivolts(raw logic.RawSample) (logic.Millivolts, error) {
	if !r.hasScale {
		return 0, ErrConversionUnsupported
	}
	return logic.Millivolts((float64(raw) + r.offset) * r.scale), nil
}
