// SPDX-License-Identifier: MIT

// Package graph talks to the Microsoft Graph channel-message API and decodes
// its payloads into connector cards.
package graph

// Identity is one entry of a message's "from" set. Only presence matters for
// routing; webhook-originated messages carry an application identity.
type Identity struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// From identifies the sender of a channel message.
type From struct {
	User        *Identity `json:"user,omitempty"`
	Application *Identity `json:"application,omitempty"`
}

// Attachment is a message attachment. Content is the raw attachment body as
// a string; for connector cards it holds the card JSON.
type Attachment struct {
	ID          string `json:"id"`
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// Message is the subset of a Graph channel message the pipeline consumes.
type Message struct {
	ID                   string       `json:"id"`
	CreatedDateTime      string       `json:"createdDateTime"`
	LastModifiedDateTime string       `json:"lastModifiedDateTime"`
	From                 From         `json:"from"`
	Attachments          []Attachment `json:"attachments"`
}
