package adv

import "fmt"

// BuildScanResponse encodes the complete and shortened local names, in that
// order. The names are the UV reading's transport, so they are copied
// byte-for-byte and never truncated.
func BuildScanResponse(complete, short []byte) ([]byte, error) {
	if len(complete) == 0 {
		return nil, fmt.Errorf("%w: empty complete name", ErrInvalidName)
	}
	if len(short) == 0 {
		return nil, fmt.Errorf("%w: empty short name", ErrInvalidName)
	}

	return Encode(
		Element{Type: TypeCompleteName, Data: complete},
		Element{Type: TypeShortName, Data: short},
	)
}

// ScanResponseNames extracts the complete and shortened names from a scan
// response payload.
func ScanResponseNames(sr []byte) (complete, short string, err error) {
	elems, err := Parse(sr)
	if err != nil {
		return "", "", err
	}
	c, _ := Find(elems, TypeCompleteName)
	s, _ := Find(elems, TypeShortName)
	return string(c), string(s), nil
}
