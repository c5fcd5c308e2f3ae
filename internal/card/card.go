// SPDX-License-Identifier: MIT

// Package card models the MessageCard payload carried by both upstream feeds.
//
// Only the subset of the card that the pipeline relies on is modelled:
// title, summary and sections[].facts[]. Unknown fields are tolerated and
// ignored on decode. Cards are immutable once parsed; fact values are passed
// through unchanged, including any embedded HTML markup.
package card

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedCard is returned when a payload cannot be interpreted as a card.
var ErrMalformedCard = errors.New("malformed card payload")

// Fact is a single name/value row inside a section.
// ex) { "name": "Error Detail", "value": "Failure Reason: ENGINE_ERROR ..." }
type Fact struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Section is one entry of the card's sections array.
type Section struct {
	ActivityTitle string `json:"activityTitle,omitempty"`
	Facts         []Fact `json:"facts,omitempty"`
}

// Card is the MessageCard payload.
type Card struct {
	Title    string    `json:"title,omitempty"`
	Summary  string    `json:"summary,omitempty"`
	Sections []Section `json:"sections,omitempty"`
}

// Parse decodes a JSON card payload. Missing fields default to their zero
// values; extra fields are ignored.
func Parse(data []byte) (*Card, error) {
	var c Card
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCard, err)
	}
	return &c, nil
}

// GetFact scans sections in order, facts in order, and returns the first
// value whose name exactly equals the query.
func (c *Card) GetFact(name string) (string, bool) {
	for _, section := range c.Sections {
		for _, fact := range section.Facts {
			if fact.Name == name {
				return fact.Value, true
			}
		}
	}
	return "", false
}
