package adv

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
)

// Scheme is the beacon protocol carried in the primary advertising data.
// It is one of Eddystone or IBeacon.
type Scheme interface {
	fmt.Stringer
	scheme()
}

// EddystoneUUID is the 16-bit service UUID assigned to Eddystone.
const EddystoneUUID uint16 = 0xFEAA

// eddystoneURLFrame is the Eddystone-URL frame type.
const eddystoneURLFrame byte = 0x10

// Eddystone is an Eddystone-URL beacon: a 16-bit service UUID list plus
// service data holding the frame type, calibrated TX power and encoded URL.
type Eddystone struct {
	url     string
	txPower int8
	prefix  byte
	body    []byte
}

// NewEddystone encodes url for an Eddystone-URL frame. txPower is the
// calibrated TX power at 0 m in dBm.
func NewEddystone(url string, txPower int8) (Eddystone, error) {
	prefix, body, err := EncodeEddystoneURL(url)
	if err != nil {
		return Eddystone{}, err
	}
	return Eddystone{url: url, txPower: txPower, prefix: prefix, body: body}, nil
}

func (Eddystone) scheme() {}

func (e Eddystone) String() string {
	return fmt.Sprintf("eddystone-url(%s, tx=%ddBm)", e.url, e.txPower)
}

// AppleCompanyID is Apple's Bluetooth SIG company identifier.
const AppleCompanyID uint16 = 0x004C

// iBeacon type and remaining length.
const (
	ibeaconType byte = 0x02
	ibeaconLen  byte = 0x15
)

// IBeacon is an Apple iBeacon: a manufacturer-specific block with the
// proximity UUID, major, minor and measured power at 1 m.
type IBeacon struct {
	uuid          uuid.UUID
	major, minor  uint16
	measuredPower int8
}

// NewIBeacon parses the proximity UUID and returns an iBeacon scheme.
func NewIBeacon(proximityUUID string, major, minor uint16, measuredPower int8) (IBeacon, error) {
	id, err := uuid.Parse(proximityUUID)
	if err != nil {
		return IBeacon{}, fmt.Errorf("parse ibeacon uuid: %w", err)
	}
	return IBeacon{uuid: id, major: major, minor: minor, measuredPower: measuredPower}, nil
}

func (IBeacon) scheme() {}

func (b IBeacon) String() string {
	return fmt.Sprintf("ibeacon(%s, major=%d, minor=%d, power=%ddBm)", b.uuid, b.major, b.minor, b.measuredPower)
}

// BuildPrimary encodes the primary advertising data for s: the flags element
// followed by the scheme's protocol elements. It depends only on s.
func BuildPrimary(s Scheme) []byte {
	elems := []Element{{Type: TypeFlags, Data: []byte{FlagLEOnly}}}

	switch s := s.(type) {
	case Eddystone:
		svc := make([]byte, 2, 5+len(s.body))
		binary.LittleEndian.PutUint16(svc, EddystoneUUID)
		elems = append(elems,
			Element{Type: TypeAllUUID16, Data: append([]byte(nil), svc...)},
			Element{Type: TypeServiceData16, Data: append(append(svc, eddystoneURLFrame, byte(s.txPower), s.prefix), s.body...)},
		)
	case IBeacon:
		md := make([]byte, 0, 25)
		md = binary.LittleEndian.AppendUint16(md, AppleCompanyID)
		md = append(md, ibeaconType, ibeaconLen)
		md = append(md, s.uuid[:]...)
		md = binary.BigEndian.AppendUint16(md, s.major)
		md = binary.BigEndian.AppendUint16(md, s.minor)
		md = append(md, byte(s.measuredPower))
		elems = append(elems, Element{Type: TypeManufacturerData, Data: md})
	}

	// Both schemes are bounded by their constructors, so this cannot overflow.
	b, _ := Encode(elems...)
	return b
}
