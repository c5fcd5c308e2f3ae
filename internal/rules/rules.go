// SPDX-License-Identifier: MIT

// Package rules holds the forwarding policy for feed-1 failure cards.
package rules

import (
	"strings"

	"github.com/ManuGH/alertgw/internal/event"
	"github.com/ManuGH/alertgw/internal/log"
)

// forwardFailureReasons is the whitelist of failure reasons that are always
// forwarded to the error channel.
var forwardFailureReasons = map[string]struct{}{
	"AUDIO_PIPELINE_FAILED": {},
	"VIDEO_PIPELINE_FAILED": {},
	"TIMEOUT":               {},
	"API_ERROR":             {},
}

// specialForwardKeywords forward the card even without a recognized failure
// reason when they appear anywhere in the error text.
var specialForwardKeywords = []string{
	"VIDEO_QUEUE_FULL",
	"VT5001",
}

// ShouldForward reports whether a raw error event is forwarded to the error
// channel. It is a pure function of the event.
func ShouldForward(ev event.RawError) bool {
	logger := log.WithComponent("rules")

	if _, ok := forwardFailureReasons[ev.FailureReason]; ok {
		logger.Info().
			Str("event", "forward.whitelist").
			Str(log.FieldReason, ev.FailureReason).
			Str(log.FieldProject, ev.Project).
			Msg("forwarding alert")
		return true
	}

	blob := strings.Join([]string{ev.ErrorMessage, ev.ErrorDetail, ev.CauseOrStackTrace}, " ")
	for _, keyword := range specialForwardKeywords {
		if strings.Contains(blob, keyword) {
			logger.Info().
				Str("event", "forward.keyword").
				Str("keyword", keyword).
				Str(log.FieldProject, ev.Project).
				Msg("forwarding alert")
			return true
		}
	}

	logger.Info().
		Str("event", "forward.dropped").
		Str(log.FieldReason, ev.FailureReason).
		Str(log.FieldProject, ev.Project).
		Msg("dropping alert")
	return false
}
