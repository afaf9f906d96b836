package logic

// MaxUVIndex is the highest UV index the conversion table reports.
const MaxUVIndex = 11.0

// thresholds holds the sensor output (mV) at the upper edge of each UV index
// band, taken from the GUVA-S12SD conversion table.
var thresholds = [12]Millivolts{50, 227, 318, 408, 503, 606, 696, 795, 881, 976, 1079, 1170}

// UVIndex converts a sensor output voltage to a UV index.
//
// The band is the smallest i with mv < thresholds[i] (strict less-than, so a
// value equal to a threshold belongs to the next band). Inside band i the
// index is mv / thresholds[i] * (i+1). The last band and anything above it
// report MaxUVIndex. Values below 1 mV carry no signal and report 0.
func UVIndex(mv Millivolts) float64 {
	// Written as !(mv >= 1) so NaN also maps to 0.
	if !(mv >= 1) {
		return 0
	}

	i := 0
	for i < len(thresholds) && mv >= thresholds[i] {
		i++
	}
	if i >= len(thresholds)-1 {
		return MaxUVIndex
	}

	return float64(mv) / float64(thresholds[i]) * float64(i+1)
}

// UVIntensity converts a sensor output voltage to UV intensity in mW/cm².
// The sensor produces 4.3 V at 9 mW/cm². Negative voltages are passed through.
func UVIntensity(mv Millivolts) float64 {
	return float64(mv) / 43 * 9
}

// CategoryFor returns the exposure category for a UV index.
func CategoryFor(uvi float64) Category {
	switch {
	case uvi < 3:
		return CategoryLow
	case uvi < 6:
		return CategoryModerate
	case uvi < 8:
		return CategoryHigh
	case uvi < 11:
		return CategoryVeryHigh
	default:
		return CategoryExtreme
	}
}
