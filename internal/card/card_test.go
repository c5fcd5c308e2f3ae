// SPDX-License-Identifier: MIT

package card

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	payload := []byte(`{
		"@type": "MessageCard",
		"title": "[ERROR] dubbing-api",
		"summary": "failure",
		"sections": [
			{
				"activityTitle": "Request failed",
				"facts": [
					{"name": "Project", "value": "dubbing-api"},
					{"name": "Error Message", "value": "<b>request timed out</b>"},
					{"name": "Error Detail", "value": "Failure Reason: TIMEOUT after 30s"}
				]
			}
		]
	}`)

	c, err := Parse(payload)
	require.NoError(t, err)
	assert.Equal(t, "[ERROR] dubbing-api", c.Title)
	assert.Equal(t, "failure", c.Summary)
	require.Len(t, c.Sections, 1)
	assert.Equal(t, "Request failed", c.Sections[0].ActivityTitle)

	// fact values pass through untouched, markup included
	v, ok := c.GetFact("Error Message")
	require.True(t, ok)
	assert.Equal(t, "<b>request timed out</b>", v)
}

func TestParseToleratesMissingFields(t *testing.T) {
	c, err := Parse([]byte(`{"summary": "bare"}`))
	require.NoError(t, err)
	assert.Empty(t, c.Title)
	assert.Empty(t, c.Sections)

	_, ok := c.GetFact("Project")
	assert.False(t, ok)
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", "not a card"},
		{"truncated", `{"title": "x"`},
		{"wrong shape", `{"sections": "nope"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.payload))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedCard))
		})
	}
}

func TestGetFactFirstMatchWins(t *testing.T) {
	c := &Card{Sections: []Section{
		{Facts: []Fact{{Name: "Time", Value: "first"}}},
		{Facts: []Fact{{Name: "Time", Value: "second"}}},
	}}

	v, ok := c.GetFact("Time")
	require.True(t, ok)
	assert.Equal(t, "first", v)
}

func TestGetFactExactName(t *testing.T) {
	c := &Card{Sections: []Section{
		{Facts: []Fact{{Name: "Error Detail", Value: "x"}}},
	}}

	_, ok := c.GetFact("error detail")
	assert.False(t, ok, "fact lookup is case sensitive")
}
