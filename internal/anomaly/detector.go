// SPDX-License-Identifier: MIT

// Package anomaly decides whether a stream of classified failure events
// amounts to an ongoing incident.
//
// For each kind the detector keeps a sliding window of event timestamps, a
// same-minute bucket map and the time of the last emitted alert. All state is
// process-local and lost on restart.
package anomaly

import (
	"errors"
	"sync"
	"time"

	"github.com/ManuGH/alertgw/internal/event"
	"github.com/ManuGH/alertgw/internal/log"
	"github.com/ManuGH/alertgw/internal/metrics"
	"github.com/rs/zerolog"
)

// ErrInvalidTimestamp is returned when Record is called with a zero timestamp.
// This is a programmer error at the call site, not a recoverable input.
var ErrInvalidTimestamp = errors.New("record requires a valid timestamp")

const (
	minuteKeyLayout = "2006-01-02 15:04"
	// minute buckets older than this are garbage-collected; the retention has
	// no effect on trigger decisions, it only bounds memory.
	minuteRetention = 2 * time.Hour
)

// Detector tracks per-kind event history and applies the threshold table.
//
// Record is deterministic in (kind, ts, prior state); it never reads the
// wall clock. The mutex serializes Record against Reset, which the admin
// surface may call from another goroutine.
type Detector struct {
	mu           sync.Mutex
	windows      map[event.Kind][]time.Time
	minuteCounts map[event.Kind]map[string]int
	lastAlert    map[event.Kind]time.Time
	logger       zerolog.Logger
}

// New returns an empty detector.
func New() *Detector {
	return &Detector{
		windows:      make(map[event.Kind][]time.Time),
		minuteCounts: make(map[event.Kind]map[string]int),
		lastAlert:    make(map[event.Kind]time.Time),
		logger:       log.WithComponent("anomaly"),
	}
}

// Record registers one event and reports whether this very event crosses the
// incident threshold for its kind. A true result means an alert must be
// emitted now; cooldown suppression and sub-threshold events yield false.
func (d *Detector) Record(kind event.Kind, ts time.Time) (bool, error) {
	if ts.IsZero() {
		return false, ErrInvalidTimestamp
	}
	ts = ts.UTC()

	th, ok := thresholds[kind]
	if !ok {
		d.logger.Warn().
			Str("event", "anomaly.unknown_kind").
			Str(log.FieldKind, string(kind)).
			Msg("no threshold configured for kind")
		return false, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	metrics.IncEventRecorded(string(kind))

	triggered := false

	if th.Window > 0 && th.WindowCount > 0 {
		q := d.evictWindow(kind, ts, th.Window)
		q = append(q, ts)
		d.windows[kind] = q
		if len(q) >= th.WindowCount {
			triggered = true
		}
	}

	if th.SameMinuteCount > 0 {
		counts := d.cleanupMinutes(kind, ts)
		key := ts.Format(minuteKeyLayout)
		counts[key]++
		if counts[key] >= th.SameMinuteCount {
			triggered = true
		}
	}

	if !triggered {
		return false, nil
	}

	// Cooldown gate: suppressed triggers do not refresh the last-alert time.
	if last, ok := d.lastAlert[kind]; ok && ts.Sub(last) < th.Cooldown {
		d.logger.Info().
			Str("event", "anomaly.cooldown").
			Str(log.FieldKind, string(kind)).
			Time("last_alert", last).
			Time("ts", ts).
			Msg("incident triggered but within cooldown window")
		return false, nil
	}
	d.lastAlert[kind] = ts

	d.logger.Info().
		Str("event", "anomaly.triggered").
		Str(log.FieldKind, string(kind)).
		Int("window_len", len(d.windows[kind])).
		Time("ts", ts).
		Msg("incident threshold crossed")
	return true, nil
}

// evictWindow drops every timestamp at or beyond the window boundary.
// The boundary is strict: an entry exactly window old is evicted.
func (d *Detector) evictWindow(kind event.Kind, ts time.Time, window time.Duration) []time.Time {
	q := d.windows[kind]
	cutoff := ts.Add(-window)
	i := 0
	for i < len(q) && !q[i].After(cutoff) {
		i++
	}
	return q[i:]
}

// cleanupMinutes drops minute buckets older than the retention horizon.
// A key that no longer parses is dropped outright.
func (d *Detector) cleanupMinutes(kind event.Kind, ts time.Time) map[string]int {
	counts := d.minuteCounts[kind]
	if counts == nil {
		counts = make(map[string]int)
		d.minuteCounts[kind] = counts
	}
	cutoff := ts.Add(-minuteRetention)
	for key := range counts {
		bucket, err := time.ParseInLocation(minuteKeyLayout, key, time.UTC)
		if err != nil || bucket.Before(cutoff) {
			delete(counts, key)
		}
	}
	return counts
}

// Reset clears all detector state. Used by POST /debug/reset and by tests.
func (d *Detector) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.windows = make(map[event.Kind][]time.Time)
	d.minuteCounts = make(map[event.Kind]map[string]int)
	d.lastAlert = make(map[event.Kind]time.Time)
}
