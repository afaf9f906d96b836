// Package config loads daemon settings.
//
// Values come from built-in defaults, then an optional YAML file, then
// any command-line flags the user set explicitly.
package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/uv-beacon/internal/adc"
	"github.com/sweeney/uv-beacon/internal/adv"
	"github.com/sweeney/uv-beacon/internal/gpio"
	"github.com/sweeney/uv-beacon/internal/radio"
)

// Advertising schemes.
const (
	SchemeEddystone = "eddystone"
	SchemeIBeacon   = "ibeacon"
)

// Config is the full daemon configuration.
type Config struct {
	DeviceName string          `yaml:"deviceName"`
	Period     time.Duration   `yaml:"period"`
	Heartbeat  time.Duration   `yaml:"heartbeat"`
	Scheme     string          `yaml:"scheme"`
	Eddystone  EddystoneConfig `yaml:"eddystone"`
	IBeacon    IBeaconConfig   `yaml:"ibeacon"`
	ADC        ADCConfig       `yaml:"adc"`
	Radio      RadioConfig     `yaml:"radio"`
	MQTT       MQTTConfig      `yaml:"mqtt"`
	HTTP       HTTPConfig      `yaml:"http"`
	LED        LEDConfig       `yaml:"led"`
	LogLevel   string          `yaml:"logLevel"`
}

// EddystoneConfig configures the Eddystone-URL frame.
type EddystoneConfig struct {
	URL     string `yaml:"url"`
	TxPower int    `yaml:"txPower"`
}

// IBeaconConfig configures the iBeacon frame.
type IBeaconConfig struct {
	UUID          string `yaml:"uuid"`
	Major         int    `yaml:"major"`
	Minor         int    `yaml:"minor"`
	MeasuredPower int    `yaml:"measuredPower"`
}

// ADCConfig selects the sensor input.
type ADCConfig struct {
	Device  string `yaml:"device"`
	Channel int    `yaml:"channel"`
}

// RadioConfig selects the Bluetooth backend.
type RadioConfig struct {
	Backend  string        `yaml:"backend"`
	Device   int           `yaml:"device"`
	Interval time.Duration `yaml:"interval"`
}

// MQTTConfig enables the telemetry mirror. An empty broker disables it.
type MQTTConfig struct {
	Broker string `yaml:"broker"`
}

// HTTPConfig enables the status page. An empty address disables it.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// LEDConfig enables the status LED. gpio.PinDisabled turns it off.
type LEDConfig struct {
	Pin int `yaml:"pin"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DeviceName: "UV-Beacon",
		Period:     time.Second,
		Heartbeat:  15 * time.Minute,
		Scheme:     SchemeEddystone,
		Eddystone: EddystoneConfig{
			URL: "http://www.example.org",
		},
		IBeacon: IBeaconConfig{
			UUID:          "18ee1516-016b-4bec-ad96-bcb96d166e97",
			MeasuredPower: -56,
		},
		ADC: ADCConfig{
			Device: adc.DefaultDevice,
		},
		Radio: RadioConfig{
			Backend:  radio.BackendHCI,
			Interval: radio.DefaultInterval,
		},
		LED:      LEDConfig{Pin: gpio.PinDisabled},
		LogLevel: "info",
	}
}

// Load reads the YAML file at path over the defaults. Unknown keys are
// rejected. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error

	if c.DeviceName == "" {
		errs = append(errs, errors.New("deviceName must not be empty"))
	} else if _, err := adv.BuildScanResponse([]byte(c.DeviceName), []byte(c.DeviceName)); err != nil {
		errs = append(errs, fmt.Errorf("deviceName %q: %w", c.DeviceName, err))
	}
	if c.Period <= 0 {
		errs = append(errs, fmt.Errorf("period must be positive, got %v", c.Period))
	}
	if c.Heartbeat < 0 {
		errs = append(errs, fmt.Errorf("heartbeat must not be negative, got %v", c.Heartbeat))
	}
	if _, err := c.BuildScheme(); err != nil {
		errs = append(errs, err)
	}
	if c.ADC.Device == "" {
		errs = append(errs, errors.New("adc.device must not be empty"))
	}
	if c.ADC.Channel < 0 {
		errs = append(errs, fmt.Errorf("adc.channel must not be negative, got %d", c.ADC.Channel))
	}
	if c.Radio.Backend != radio.BackendHCI {
		errs = append(errs, fmt.Errorf("radio.backend: unknown backend %q (only %q is supported)", c.Radio.Backend, radio.BackendHCI))
	}
	if c.Radio.Device < 0 {
		errs = append(errs, fmt.Errorf("radio.device must not be negative, got %d", c.Radio.Device))
	}
	if c.LED.Pin < gpio.PinDisabled {
		errs = append(errs, fmt.Errorf("led.pin must be %d (off) or a line number, got %d", gpio.PinDisabled, c.LED.Pin))
	}

	return errors.Join(errs...)
}

// BuildScheme returns the advertising scheme selected by the configuration.
func (c Config) BuildScheme() (adv.Scheme, error) {
	switch c.Scheme {
	case SchemeEddystone:
		p, err := int8Field("eddystone.txPower", c.Eddystone.TxPower)
		if err != nil {
			return nil, err
		}
		s, err := adv.NewEddystone(c.Eddystone.URL, p)
		if err != nil {
			return nil, fmt.Errorf("eddystone.url: %w", err)
		}
		return s, nil

	case SchemeIBeacon:
		p, err := int8Field("ibeacon.measuredPower", c.IBeacon.MeasuredPower)
		if err != nil {
			return nil, err
		}
		major, err := uint16Field("ibeacon.major", c.IBeacon.Major)
		if err != nil {
			return nil, err
		}
		minor, err := uint16Field("ibeacon.minor", c.IBeacon.Minor)
		if err != nil {
			return nil, err
		}
		s, err := adv.NewIBeacon(c.IBeacon.UUID, major, minor, p)
		if err != nil {
			return nil, fmt.Errorf("ibeacon.uuid: %w", err)
		}
		return s, nil

	default:
		return nil, fmt.Errorf("scheme: unknown scheme %q", c.Scheme)
	}
}

func int8Field(name string, v int) (int8, error) {
	if v < math.MinInt8 || v > math.MaxInt8 {
		return 0, fmt.Errorf("%s out of range: %d", name, v)
	}
	return int8(v), nil
}

func uint16Field(name string, v int) (uint16, error) {
	if v < 0 || v > math.MaxUint16 {
		return 0, fmt.Errorf("%s out of range: %d", name, v)
	}
	return uint16(v), nil
}
