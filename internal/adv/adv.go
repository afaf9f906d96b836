// Package adv encodes Bluetooth LE advertising data.
//
// A beacon transmits two payloads: the primary advertising data, which carries
// the flags and the protocol frame that identifies the beacon type and never
// changes, and the scan response, which carries the complete and shortened
// local names. Each payload is a sequence of elements laid out as
// [length][type][data...], where length counts the type byte plus data, and
// the whole payload is at most MaxPayloadLen bytes.
package adv

import (
	"errors"
	"fmt"
)

// MaxPayloadLen is the legacy advertising/scan response payload limit.
const MaxPayloadLen = 31

// Element types used by the beacon (Bluetooth Assigned Numbers, §2.3).
const (
	TypeFlags            byte = 0x01
	TypeAllUUID16        byte = 0x03
	TypeShortName        byte = 0x08
	TypeCompleteName     byte = 0x09
	TypeServiceData16    byte = 0x16
	TypeManufacturerData byte = 0xFF
)

// FlagLEOnly marks BR/EDR as not supported. The beacon is neither limited
// nor general discoverable.
const FlagLEOnly byte = 0x04

var (
	// ErrInvalidName is returned when a scan response name is empty.
	ErrInvalidName = errors.New("adv: invalid name")

	// ErrPayloadTooLong is returned when the elements do not fit in MaxPayloadLen.
	ErrPayloadTooLong = errors.New("adv: payload too long")

	// ErrMalformed is returned by Parse for a payload whose length bytes
	// run past its end.
	ErrMalformed = errors.New("adv: malformed payload")
)

// Element is a single advertising data structure.
type Element struct {
	Type byte
	Data []byte
}

// Encode lays out elements in order. It never truncates: an element set that
// does not fit returns ErrPayloadTooLong.
func Encode(elems ...Element) ([]byte, error) {
	n := 0
	for _, e := range elems {
		n += 2 + len(e.Data)
	}
	if n > MaxPayloadLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooLong, n)
	}

	b := make([]byte, 0, n)
	for _, e := range elems {
		b = append(b, byte(1+len(e.Data)), e.Type)
		b = append(b, e.Data...)
	}
	return b, nil
}

// Parse splits a payload into its elements. A zero length byte ends the
// significant part of the payload, as in the Core specification.
func Parse(b []byte) ([]Element, error) {
	var elems []Element
	for i := 0; i < len(b); {
		l := int(b[i])
		if l == 0 {
			break
		}
		if i+1+l > len(b) {
			return nil, fmt.Errorf("%w: element at %d has length %d, %d bytes left", ErrMalformed, i, l, len(b)-i-1)
		}
		elems = append(elems, Element{
			Type: b[i+1],
			Data: append([]byte(nil), b[i+2:i+1+l]...),
		})
		i += 1 + l
	}
	return elems, nil
}

// Find returns the data of the first element of type t.
func Find(elems []Element, t byte) ([]byte, bool) {
	for _, e := range elems {
		if e.Type == t {
			return e.Data, true
		}
	}
	return nil, false
}
