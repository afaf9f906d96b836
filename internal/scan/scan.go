// Package scan listens for UV beacons and decodes the UV index carried in
// their advertised names. It is the receiving end of the beacon and is used
// to check a deployed sensor over the air.
package scan

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/sweeney/uv-beacon/internal/logic"
)

// Advert is one advertisement seen by a Source.
type Advert struct {
	Address string
	RSSI    int16
	Name    string
}

// Source delivers advertisements from nearby devices.
type Source interface {
	// Scan reports adverts to fn until ctx is done or scanning fails.
	// It returns ctx.Err() after a cancellation.
	Scan(ctx context.Context, fn func(Advert)) error
}

// Observation is a UV beacon advert with its decoded value.
type Observation struct {
	Time     time.Time
	Address  string
	RSSI     int16
	Name     string
	UVIndex  float64
	Category logic.Category
}

// Watcher turns adverts into observations. Adverts whose names do not carry
// a UV index are ignored. An address is reported again only when its name
// changes, since BlueZ repeats a device on every RSSI change.
type Watcher struct {
	src     Source
	address string
	now     func() time.Time
	log     *log.Entry

	mu   sync.Mutex
	last map[string]Observation
}

// NewWatcher creates a watcher over src. A non-empty address limits it to
// that device; the comparison ignores case.
func NewWatcher(src Source, address string) *Watcher {
	return &Watcher{
		src:     src,
		address: strings.ToUpper(address),
		now:     time.Now,
		log:     log.WithField("component", "scan"),
		last:    make(map[string]Observation),
	}
}

// Run scans until ctx is done, calling fn for each new observation.
func (w *Watcher) Run(ctx context.Context, fn func(Observation)) error {
	return w.src.Scan(ctx, func(a Advert) {
		if o, ok := w.observe(a); ok {
			fn(o)
		}
	})
}

func (w *Watcher) observe(a Advert) (Observation, bool) {
	addr := strings.ToUpper(a.Address)
	if w.address != "" && addr != w.address {
		return Observation{}, false
	}
	uvi, ok := logic.ParseName(a.Name)
	if !ok {
		return Observation{}, false
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	prev, seen := w.last[addr]
	o := Observation{
		Time:     w.now(),
		Address:  addr,
		RSSI:     a.RSSI,
		Name:     a.Name,
		UVIndex:  uvi,
		Category: logic.CategoryFor(uvi),
	}
	w.last[addr] = o
	if seen && prev.Name == a.Name {
		return Observation{}, false
	}
	if !seen {
		w.log.Debugf("found UV beacon %s", addr)
	}
	return o, true
}

// Latest returns the most recent observation per address, sorted by address.
func (w *Watcher) Latest() []Observation {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Observation, 0, len(w.last))
	for _, o := range w.last {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out
}
