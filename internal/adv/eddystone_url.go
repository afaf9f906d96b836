package adv

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidURL is returned for URLs that cannot be carried in an
// Eddystone-URL frame.
var ErrInvalidURL = errors.New("adv: invalid eddystone url")

// maxURLBody is the longest encoded URL after the scheme prefix byte.
const maxURLBody = 17

// URL scheme prefixes, longest first so "http://www." wins over "http://".
var urlPrefixes = []struct {
	text string
	code byte
}{
	{"https://www.", 0x01},
	{"http://www.", 0x00},
	{"https://", 0x03},
	{"http://", 0x02},
}

// URL expansions, indexed by code. Entries with a trailing slash are tried
// before their bare forms.
var urlExpansions = []string{
	".com/", ".org/", ".edu/", ".net/", ".info/", ".biz/", ".gov/",
	".com", ".org", ".edu", ".net", ".info", ".biz", ".gov",
}

// EncodeEddystoneURL compresses url into the scheme prefix code and the
// encoded body of an Eddystone-URL frame.
func EncodeEddystoneURL(url string) (prefix byte, body []byte, err error) {
	rest := ""
	found := false
	for _, p := range urlPrefixes {
		if strings.HasPrefix(url, p.text) {
			prefix, rest, found = p.code, url[len(p.text):], true
			break
		}
	}
	if !found {
		return 0, nil, fmt.Errorf("%w: %q has no http:// or https:// prefix", ErrInvalidURL, url)
	}

	for len(rest) > 0 {
		if code, n := matchExpansion(rest); n > 0 {
			body = append(body, code)
			rest = rest[n:]
			continue
		}
		c := rest[0]
		if c <= 0x20 || c >= 0x7F {
			return 0, nil, fmt.Errorf("%w: byte 0x%02x not allowed", ErrInvalidURL, c)
		}
		body = append(body, c)
		rest = rest[1:]
	}

	if len(body) > maxURLBody {
		return 0, nil, fmt.Errorf("%w: encodes to %d bytes, max %d", ErrInvalidURL, len(body), maxURLBody)
	}
	return prefix, body, nil
}

func matchExpansion(s string) (byte, int) {
	for code, exp := range urlExpansions {
		if strings.HasPrefix(s, exp) {
			return byte(code), len(exp)
		}
	}
	return 0, 0
}
