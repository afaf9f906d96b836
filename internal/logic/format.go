package logic

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxNameLen bounds the display strings carried in the beacon names.
const MaxNameLen = 15

// Display string prefixes.
const (
	CompletePrefix = "UV index: "
	ShortPrefix    = "UVI="
)

// FormatNames renders a UV index as the complete and shortened beacon names,
// e.g. "UV index: 7.0" and "UVI=7.0".
func FormatNames(uvi float64) (complete, short string) {
	complete = clip(fmt.Sprintf("%s%.1f", CompletePrefix, uvi))
	short = clip(fmt.Sprintf("%s%.1f", ShortPrefix, uvi))
	return complete, short
}

func clip(s string) string {
	if len(s) > MaxNameLen {
		return s[:MaxNameLen]
	}
	return s
}

// ParseName recovers the UV index from a name produced by FormatNames.
// Either prefix is accepted. ok is false for any other name, including a
// value clipped mid-number.
func ParseName(name string) (uvi float64, ok bool) {
	var rest string
	switch {
	case strings.HasPrefix(name, CompletePrefix):
		rest = name[len(CompletePrefix):]
	case strings.HasPrefix(name, ShortPrefix):
		rest = name[len(ShortPrefix):]
	default:
		return 0, false
	}
	dot := strings.IndexByte(rest, '.')
	if dot < 1 || len(rest)-dot != 2 {
		return 0, false
	}
	v, err := strconv.ParseFloat(rest, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
