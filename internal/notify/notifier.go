// SPDX-License-Identifier: MIT

// Package notify delivers card payloads to the outbound webhook channels.
package notify

import (
	"context"
	"encoding/json"

	"github.com/ManuGH/alertgw/internal/log"
)

// Notifier posts payloads to the two downstream channels. Implementations
// must be safe for concurrent use.
type Notifier interface {
	// SendToForward posts a payload to the error-forwarding channel.
	SendToForward(ctx context.Context, payload json.RawMessage) error
	// SendToIncident posts a payload to the incident channel.
	SendToIncident(ctx context.Context, payload json.RawMessage) error
}

// Noop logs instead of posting. Used in development when no webhook URLs are
// configured.
type Noop struct{}

func (Noop) SendToForward(_ context.Context, _ json.RawMessage) error {
	logger := log.WithComponent("notify")
	logger.Info().
		Str("event", "notify.noop").
		Str(log.FieldChannel, "forward").
		Msg("webhook not configured, payload discarded")
	return nil
}

func (Noop) SendToIncident(_ context.Context, _ json.RawMessage) error {
	logger := log.WithComponent("notify")
	logger.Info().
		Str("event", "notify.noop").
		Str(log.FieldChannel, "incident").
		Msg("webhook not configured, payload discarded")
	return nil
}
