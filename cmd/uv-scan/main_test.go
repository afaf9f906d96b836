package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/uv-beacon/internal/scan"
)

func TestRunPrintsObservationsAndSummary(t *testing.T) {
	src := &scan.FakeSource{Adverts: []scan.Advert{
		{Address: "AA:BB:CC:DD:EE:01", RSSI: -60, Name: "UV index: 7.0"},
		{Address: "AA:BB:CC:DD:EE:01", RSSI: -58, Name: "UV index: 7.0"},
		{Address: "AA:BB:CC:DD:EE:02", RSSI: -75, Name: "Keyboard"},
	}}
	var out bytes.Buffer

	if err := run(context.Background(), scan.NewWatcher(src, ""), &out); err != nil {
		t.Fatalf("run: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d:\n%s", len(lines), out.String())
	}
	if !strings.Contains(lines[0], "AA:BB:CC:DD:EE:01 rssi=-60 UV index: 7.0 (high)") {
		t.Errorf("observation line: got %q", lines[0])
	}
	if lines[1] != "1 UV beacon(s) seen" {
		t.Errorf("summary: got %q", lines[1])
	}
	if !strings.Contains(lines[2], "rssi=-58") {
		t.Errorf("summary should carry the latest RSSI: got %q", lines[2])
	}
}

func TestRunCancelledIsNotAnError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer

	if err := run(ctx, scan.NewWatcher(&scan.FakeSource{}, ""), &out); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "0 UV beacon(s) seen") {
		t.Errorf("output: got %q", out.String())
	}
}

func TestRunScanError(t *testing.T) {
	src := &scan.FakeSource{ScanError: errors.New("adapter gone")}
	if err := run(context.Background(), scan.NewWatcher(src, ""), &bytes.Buffer{}); !errors.Is(err, src.ScanError) {
		t.Errorf("got %v, want %v", err, src.ScanError)
	}
}

func TestPrintObservation(t *testing.T) {
	var out bytes.Buffer
	printObservation(&out, scan.Observation{
		Time:     time.Date(2026, 6, 21, 12, 0, 0, 0, time.UTC),
		Address:  "AA:BB:CC:DD:EE:01",
		RSSI:     -61,
		UVIndex:  6.09,
		Category: "high",
	})
	want := "2026-06-21T12:00:00Z AA:BB:CC:DD:EE:01 rssi=-61 UV index: 6.1 (high)\n"
	if out.String() != want {
		t.Errorf("got %q, want %q", out.String(), want)
	}
}
