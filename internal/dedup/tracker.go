// SPDX-License-Identifier: MIT

// Package dedup remembers recently processed message ids so a message seen in
// consecutive poll passes is handled exactly once.
package dedup

import (
	"github.com/ManuGH/alertgw/internal/metrics"
)

// Tracker is a bounded FIFO set of message ids. When the set grows past
// maxSize it is shrunk to cleanupSize by dropping the oldest entries.
//
// The tracker is owned by the poller goroutine and is not safe for
// concurrent use.
type Tracker struct {
	maxSize     int
	cleanupSize int
	seen        map[string]struct{}
	order       []string
}

// NewTracker returns a tracker bounded by maxSize with eviction down to
// cleanupSize. cleanupSize must be smaller than maxSize.
func NewTracker(maxSize, cleanupSize int) *Tracker {
	return &Tracker{
		maxSize:     maxSize,
		cleanupSize: cleanupSize,
		seen:        make(map[string]struct{}),
		order:       make([]string, 0, maxSize),
	}
}

// Seen reports whether id has been marked before.
func (t *Tracker) Seen(id string) bool {
	_, ok := t.seen[id]
	return ok
}

// Mark records id as processed. Marking an id twice is a no-op; the id keeps
// its original position in the eviction order.
func (t *Tracker) Mark(id string) {
	if _, ok := t.seen[id]; ok {
		return
	}
	t.seen[id] = struct{}{}
	t.order = append(t.order, id)

	if len(t.order) > t.maxSize {
		evict := len(t.order) - t.cleanupSize
		for _, old := range t.order[:evict] {
			delete(t.seen, old)
		}
		t.order = append(t.order[:0], t.order[evict:]...)
	}
	metrics.SetDedupTrackedIDs(len(t.order))
}

// Clear drops all tracked ids.
func (t *Tracker) Clear() {
	t.seen = make(map[string]struct{})
	t.order = t.order[:0]
	metrics.SetDedupTrackedIDs(0)
}

// Len returns the number of tracked ids.
func (t *Tracker) Len() int {
	return len(t.order)
}
