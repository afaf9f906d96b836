package adv

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeEddystoneURL(t *testing.T) {
	tests := []struct {
		url        string
		wantPrefix byte
		wantBody   []byte
	}{
		{"http://www.example.org", 0x00, []byte("example\x08")},
		{"https://www.example.com/", 0x01, []byte("example\x00")},
		{"http://goo.gl/S6zT6P", 0x02, []byte("goo.gl/S6zT6P")},
		{"https://uv.example.net/index", 0x03, []byte("uv.example\x03index")},
		{"https://a.info", 0x03, []byte("a\x0b")},
		{"http://www.x.gov/", 0x00, []byte("x\x06")},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			prefix, body, err := EncodeEddystoneURL(tt.url)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if prefix != tt.wantPrefix {
				t.Errorf("prefix: got 0x%02x, want 0x%02x", prefix, tt.wantPrefix)
			}
			if !bytes.Equal(body, tt.wantBody) {
				t.Errorf("body: got % x, want % x", body, tt.wantBody)
			}
		})
	}
}

func TestEncodeEddystoneURLErrors(t *testing.T) {
	tests := []string{
		"ftp://example.org",
		"example.org",
		"http://www.this-host-name-is-far-too-long.org",
		"http://bad host.org",
	}

	for _, url := range tests {
		t.Run(url, func(t *testing.T) {
			if _, _, err := EncodeEddystoneURL(url); !errors.Is(err, ErrInvalidURL) {
				t.Errorf("got %v, want ErrInvalidURL", err)
			}
		})
	}
}

func TestNewEddystoneRejectsInvalidURL(t *testing.T) {
	if _, err := NewEddystone("gopher://example.org", 0); err == nil {
		t.Error("expected error")
	}
}
