// SPDX-License-Identifier: MIT

// Package feed implements the per-channel message handlers: forwarding
// policy for the raw error feed and incident detection for both feeds.
package feed

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/ManuGH/alertgw/internal/anomaly"
	"github.com/ManuGH/alertgw/internal/event"
	"github.com/ManuGH/alertgw/internal/log"
	"github.com/ManuGH/alertgw/internal/metrics"
	"github.com/ManuGH/alertgw/internal/notify"
)

// IncidentService feeds classified events into the anomaly detector and
// posts the triggering payload to the incident channel when a threshold is
// crossed.
type IncidentService struct {
	detector *anomaly.Detector
	notifier notify.Notifier
	logger   zerolog.Logger
}

// NewIncidentService wires a detector to the incident channel.
func NewIncidentService(detector *anomaly.Detector, notifier notify.Notifier) *IncidentService {
	return &IncidentService{
		detector: detector,
		notifier: notifier,
		logger:   log.WithComponent("incidents"),
	}
}

// HandleRawEvent classifies a raw error event and records it. Events without
// a recognized kind are ignored. It reports whether an incident alert was
// emitted.
func (s *IncidentService) HandleRawEvent(ctx context.Context, ev event.RawError, payload json.RawMessage) bool {
	kind, ok := ev.Classify()
	if !ok {
		return false
	}
	return s.HandleKind(ctx, kind, ev.EventTime(), payload)
}

// HandleKind records one event of the given kind and, when this event
// crosses the incident threshold, posts the payload to the incident channel.
func (s *IncidentService) HandleKind(ctx context.Context, kind event.Kind, ts time.Time, payload json.RawMessage) bool {
	triggered, err := s.detector.Record(kind, ts)
	if err != nil {
		s.logger.Error().
			Str("event", "incident.record_failed").
			Str(log.FieldKind, string(kind)).
			Err(err).
			Msg("detector rejected event")
		return false
	}
	if !triggered {
		return false
	}

	metrics.IncIncidentTriggered(string(kind))
	if err := s.notifier.SendToIncident(ctx, payload); err != nil {
		s.logger.Error().
			Str("event", "incident.notify_failed").
			Str(log.FieldKind, string(kind)).
			Err(err).
			Msg("incident alert could not be delivered")
		// The detector state already advanced; delivery is best effort.
	}
	return true
}
