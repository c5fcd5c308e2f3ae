// SPDX-License-Identifier: MIT

package feed

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/ManuGH/alertgw/internal/card"
	"github.com/ManuGH/alertgw/internal/event"
	"github.com/ManuGH/alertgw/internal/log"
	"github.com/ManuGH/alertgw/internal/metrics"
	"github.com/ManuGH/alertgw/internal/notify"
	"github.com/ManuGH/alertgw/internal/rules"
)

// AlertHandler processes raw error cards from feed 1: it forwards cards
// matching the forwarding policy and records every classifiable event for
// incident detection.
type AlertHandler struct {
	notifier  notify.Notifier
	incidents *IncidentService
	logger    zerolog.Logger
}

// NewAlertHandler returns a handler for the raw error feed.
func NewAlertHandler(notifier notify.Notifier, incidents *IncidentService) *AlertHandler {
	return &AlertHandler{
		notifier:  notifier,
		incidents: incidents,
		logger:    log.WithComponent("feed.raw"),
	}
}

// HandleRaw processes one raw card payload. It reports whether the card
// matched the forwarding policy; delivery failures are logged but do not
// change the result. Incident detection runs regardless of the forwarding
// decision.
func (h *AlertHandler) HandleRaw(ctx context.Context, payload json.RawMessage) bool {
	c, err := card.Parse(payload)
	if err != nil {
		h.logger.Warn().
			Str("event", "raw.malformed").
			Err(err).
			Msg("payload is not a connector card")
		return false
	}
	ev := event.RawErrorFromCard(c)

	// forwarded reflects the policy decision; delivery is at most once and a
	// failed post does not change the logical result.
	forwarded := false
	if rules.ShouldForward(ev) {
		forwarded = true
		if err := h.notifier.SendToForward(ctx, payload); err != nil {
			h.logger.Error().
				Str("event", "raw.forward_failed").
				Str(log.FieldProject, ev.Project).
				Err(err).
				Msg("alert could not be forwarded")
		} else {
			metrics.IncAlertForwarded()
		}
	}

	h.incidents.HandleRawEvent(ctx, ev, payload)
	return forwarded
}

// MonitoringHandler processes monitoring cards from feed 2. Monitoring cards
// are never forwarded; they only feed incident detection.
type MonitoringHandler struct {
	incidents *IncidentService
	logger    zerolog.Logger
}

// NewMonitoringHandler returns a handler for the monitoring feed.
func NewMonitoringHandler(incidents *IncidentService) *MonitoringHandler {
	return &MonitoringHandler{
		incidents: incidents,
		logger:    log.WithComponent("feed.monitoring"),
	}
}

// HandleMonitoring processes one monitoring card payload and reports whether
// an incident alert was emitted.
func (h *MonitoringHandler) HandleMonitoring(ctx context.Context, payload json.RawMessage) bool {
	c, err := card.Parse(payload)
	if err != nil {
		h.logger.Warn().
			Str("event", "monitoring.malformed").
			Err(err).
			Msg("payload is not a connector card")
		return false
	}
	ev := event.MonitoringFromCard(c)

	kind, ok := ev.Classify()
	if !ok {
		h.logger.Debug().
			Str("event", "monitoring.unclassified").
			Str("title", ev.Title).
			Msg("monitoring card matched no known failure pattern")
		return false
	}
	return h.incidents.HandleKind(ctx, kind, ev.EventTime(), payload)
}
