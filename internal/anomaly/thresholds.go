// SPDX-License-Identifier: MIT

package anomaly

import (
	"time"

	"github.com/ManuGH/alertgw/internal/event"
)

// Threshold is the static trigger configuration for one incident kind.
// A zero Window disables the sliding-window branch; a zero SameMinuteCount
// disables the same-minute branch.
type Threshold struct {
	Window          time.Duration
	WindowCount     int
	SameMinuteCount int
	Cooldown        time.Duration
}

// thresholds is the per-kind trigger table. Adding a kind is a data change,
// not a control-flow change.
var thresholds = map[event.Kind]Threshold{
	event.KindTimeout: {
		Window:      time.Hour,
		WindowCount: 3,
		Cooldown:    10 * time.Minute,
	},
	event.KindAPIError: {
		Window:          5 * time.Minute,
		WindowCount:     5,
		SameMinuteCount: 3,
		Cooldown:        5 * time.Minute,
	},
	event.KindLiveAPIDBOverload: {
		SameMinuteCount: 3,
		Cooldown:        5 * time.Minute,
	},
	event.KindYTDownloadFail: {
		Window:      30 * time.Minute,
		WindowCount: 3,
		Cooldown:    10 * time.Minute,
	},
	event.KindYTExternalFail: {
		Window:      30 * time.Minute,
		WindowCount: 3,
		Cooldown:    10 * time.Minute,
	},
}
