// SPDX-License-Identifier: MIT

package graph

import (
	"encoding/json"
	"strings"

	"github.com/ManuGH/alertgw/internal/card"
	"github.com/ManuGH/alertgw/internal/log"
)

// connectorCardType marks an Office 365 connector card attachment. Matching
// is by case-insensitive substring since tenants report several variants.
const connectorCardType = "o365connector"

// IsWebhookOrigin reports whether the message was posted by an application
// (incoming webhook) rather than a human user.
func IsWebhookOrigin(m Message) bool {
	return m.From.Application != nil
}

// IsCardAttachment reports whether any attachment carries a connector card.
func IsCardAttachment(m Message) bool {
	for _, a := range m.Attachments {
		if strings.Contains(strings.ToLower(a.ContentType), connectorCardType) {
			return true
		}
	}
	return false
}

// ParseCard decodes the first connector-card attachment of a message. It
// returns the parsed card, the raw card JSON as received, and false when the
// message has no card attachment or the first one does not decode.
func ParseCard(m Message) (*card.Card, json.RawMessage, bool) {
	for _, a := range m.Attachments {
		if !strings.Contains(strings.ToLower(a.ContentType), connectorCardType) {
			continue
		}
		c, err := card.Parse([]byte(a.Content))
		if err != nil {
			logger := log.WithComponent("graph")
			logger.Warn().
				Str("event", "card.parse_failed").
				Str(log.FieldMessageID, m.ID).
				Err(err).
				Msg("connector card attachment did not decode")
			return nil, nil, false
		}
		return c, json.RawMessage(a.Content), true
	}
	return nil, nil, false
}
