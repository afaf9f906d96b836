// Package logic contains pure UV conversion logic for the GUVA-S12SD sensor.
// This package has NO external dependencies (no ADC, radio, MQTT, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// RawSample is a single analog-to-digital conversion result.
// It has no physical meaning without the ADC's millivolt scale.
type RawSample int32

// Millivolts is the sensor output voltage. It may be negative when the
// sensor or ADC has an offset.
type Millivolts float64

// Category is the EPA-style exposure category of a UV index.
type Category string

const (
	CategoryLow      Category = "low"
	CategoryModerate Category = "moderate"
	CategoryHigh     Category = "high"
	CategoryVeryHigh Category = "very_high"
	CategoryExtreme  Category = "extreme"
)

// Reading is one successfully converted sensor sample.
type Reading struct {
	Time        time.Time
	Raw         RawSample
	Millivolts  Millivolts
	UVIndex     float64
	UVIntensity float64 // mW/cm²
	Category    Category
}

// NewReading converts mv and returns the resulting Reading.
func NewReading(t time.Time, raw RawSample, mv Millivolts) Reading {
	uvi := UVIndex(mv)
	return Reading{
		Time:        t,
		Raw:         raw,
		Millivolts:  mv,
		UVIndex:     uvi,
		UVIntensity: UVIntensity(mv),
		Category:    CategoryFor(uvi),
	}
}
