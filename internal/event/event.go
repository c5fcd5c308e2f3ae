// SPDX-License-Identifier: MIT

// Package event derives domain events from incoming cards and classifies
// them into incident kinds.
package event

import (
	"regexp"
	"strings"
	"time"

	"github.com/ManuGH/alertgw/internal/card"
	"github.com/ManuGH/alertgw/internal/log"
)

// failureReasonRe extracts the UPPER_SNAKE token after "Failure Reason:" in
// an Error Detail value, e.g. "Failure Reason: ENGINE_ERROR ...".
var failureReasonRe = regexp.MustCompile(`Failure Reason:\s*([A-Z0-9_]+)`)

// RawError is the structured form of a feed-1 failure card. Fields may be
// empty when the corresponding fact is absent.
type RawError struct {
	Project           string
	ErrorMessage      string
	ErrorDetail       string
	Time              string
	FailureReason     string // parsed out of ErrorDetail, may be empty
	CauseOrStackTrace string
}

// RawErrorFromCard derives a RawError via named-fact lookup.
func RawErrorFromCard(c *card.Card) RawError {
	ev := RawError{
		Project:           factOrEmpty(c, "Project"),
		ErrorMessage:      factOrEmpty(c, "Error Message"),
		ErrorDetail:       factOrEmpty(c, "Error Detail"),
		Time:              factOrEmpty(c, "Time"),
		CauseOrStackTrace: factOrEmpty(c, "Cause or Stack Trace"),
	}
	if m := failureReasonRe.FindStringSubmatch(ev.ErrorDetail); m != nil {
		ev.FailureReason = m[1]
	}
	return ev
}

// EventTime parses the card's Time field into a UTC instant.
func (e RawError) EventTime() time.Time {
	return parseEventTime(e.Time)
}

// Classify maps the event to an incident kind via its failure reason.
func (e RawError) Classify() (Kind, bool) {
	switch e.FailureReason {
	case "TIMEOUT":
		return KindTimeout, true
	case "API_ERROR":
		return KindAPIError, true
	}
	return "", false
}

// Monitoring is the structured form of a feed-2 monitoring card.
type Monitoring struct {
	Title       string
	Description string
	Time        string
}

// MonitoringFromCard derives a Monitoring event from a card.
func MonitoringFromCard(c *card.Card) Monitoring {
	return Monitoring{
		Title:       c.Title,
		Description: factOrEmpty(c, "Description"),
		Time:        factOrEmpty(c, "Time"),
	}
}

// EventTime parses the card's Time field into a UTC instant.
func (e Monitoring) EventTime() time.Time {
	return parseEventTime(e.Time)
}

// Classify maps the event to an incident kind by case-insensitive substring
// match on its description.
func (e Monitoring) Classify() (Kind, bool) {
	desc := strings.ToLower(e.Description)
	switch {
	case strings.Contains(desc, "더빙/오디오 생성 실패"):
		return KindLiveAPIDBOverload, true
	case strings.Contains(desc, "youtube url 다운로드 실패"):
		return KindYTDownloadFail, true
	case strings.Contains(desc, "외부 url 다운로드 실패"),
		strings.Contains(desc, "video 파일 업로드 실패"):
		return KindYTExternalFail, true
	}
	return "", false
}

func factOrEmpty(c *card.Card, name string) string {
	v, _ := c.GetFact(name)
	return v
}

// parseEventTime parses timestamps of the shape
// "2025-12-09T20:10:51.796441041Z[Etc/UTC]": the prefix before the first Z is
// kept, a fractional component is padded or truncated to exactly six digits,
// and the result is interpreted as UTC. Any failure falls back to now.
func parseEventTime(raw string) time.Time {
	if raw == "" {
		return time.Now().UTC()
	}

	before, _, _ := strings.Cut(raw, "Z")
	layout := "2006-01-02T15:04:05"
	if datePart, frac, ok := strings.Cut(before, "."); ok {
		frac = (frac + "000000")[:6]
		before = datePart + "." + frac
		layout = "2006-01-02T15:04:05.000000"
	}

	t, err := time.ParseInLocation(layout, before, time.UTC)
	if err != nil {
		logger := log.WithComponent("event")
		logger.Debug().
			Str("event", "time.parse_failed").
			Str("value", raw).
			Msg("unparseable event time, using now")
		return time.Now().UTC()
	}
	return t
}
