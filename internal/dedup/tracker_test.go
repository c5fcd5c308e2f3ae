// SPDX-License-Identifier: MIT

package dedup

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackerMarkAndSeen(t *testing.T) {
	tr := NewTracker(10, 5)

	assert.False(t, tr.Seen("a"))
	tr.Mark("a")
	assert.True(t, tr.Seen("a"))
	assert.Equal(t, 1, tr.Len())
}

func TestTrackerMarkIsIdempotent(t *testing.T) {
	tr := NewTracker(10, 5)

	tr.Mark("a")
	tr.Mark("a")
	tr.Mark("a")
	assert.Equal(t, 1, tr.Len())
}

func TestTrackerEvictsOldestDownToCleanupSize(t *testing.T) {
	tr := NewTracker(10, 5)

	for i := 0; i < 11; i++ {
		tr.Mark(fmt.Sprintf("id-%02d", i))
	}

	// crossing maxSize drops the oldest entries down to cleanupSize
	assert.Equal(t, 5, tr.Len())
	for i := 0; i < 6; i++ {
		assert.False(t, tr.Seen(fmt.Sprintf("id-%02d", i)), "id-%02d should be evicted", i)
	}
	for i := 6; i < 11; i++ {
		assert.True(t, tr.Seen(fmt.Sprintf("id-%02d", i)), "id-%02d should survive", i)
	}
}

func TestTrackerClear(t *testing.T) {
	tr := NewTracker(10, 5)

	tr.Mark("a")
	tr.Mark("b")
	tr.Clear()

	assert.Equal(t, 0, tr.Len())
	assert.False(t, tr.Seen("a"))

	// usable after clearing
	tr.Mark("c")
	assert.True(t, tr.Seen("c"))
}
