// Command uv-scan listens for UV beacons over BlueZ and prints the UV index
// each one advertises, one line per change.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/sweeney/uv-beacon/internal/scan"
)

func main() {
	address := flag.String("address", "", "Only report this device address")
	duration := flag.Duration("duration", 0, "Stop after this long (0 runs until interrupted)")
	logLevel := flag.String("log-level", "info", "Log level")
	flag.Parse()

	lvl, err := log.ParseLevel(*logLevel)
	if err != nil {
		log.Fatalf("fatal: log level: %v", err)
	}
	log.SetLevel(lvl)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	w := scan.NewWatcher(scan.NewBlueZSource(), *address)
	if err := run(ctx, w, os.Stdout); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// run prints observations until ctx ends, then a summary of the last value
// seen from each beacon. Cancellation is a normal exit.
func run(ctx context.Context, w *scan.Watcher, out io.Writer) error {
	err := w.Run(ctx, func(o scan.Observation) { printObservation(out, o) })
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	latest := w.Latest()
	fmt.Fprintf(out, "%d UV beacon(s) seen\n", len(latest))
	for _, o := range latest {
		printObservation(out, o)
	}
	return nil
}

func printObservation(out io.Writer, o scan.Observation) {
	fmt.Fprintf(out, "%s %s rssi=%d UV index: %.1f (%s)\n",
		o.Time.Format(time.RFC3339), o.Address, o.RSSI, o.UVIndex, o.Category)
}
