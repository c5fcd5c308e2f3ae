// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID = "request_id"
	FieldMessageID = "message_id"
	FieldChannelID = "channel_id"
	FieldTeamID    = "team_id"

	// Process / pipeline fields
	FieldEvent     = "event"
	FieldComponent = "component"
	FieldFeed      = "feed"

	// Domain fields
	FieldKind    = "kind"
	FieldProject = "project"
	FieldReason  = "reason"
	FieldChannel = "channel"
)
