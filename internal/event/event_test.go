// SPDX-License-Identifier: MIT

package event

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/alertgw/internal/card"
)

func rawCard(facts map[string]string) *card.Card {
	section := card.Section{}
	for name, value := range facts {
		section.Facts = append(section.Facts, card.Fact{Name: name, Value: value})
	}
	return &card.Card{Sections: []card.Section{section}}
}

func TestRawErrorFromCard(t *testing.T) {
	c := rawCard(map[string]string{
		"Project":              "dubbing-api",
		"Error Message":        "request failed",
		"Error Detail":         "Failure Reason: API_ERROR status=502",
		"Time":                 "2025-12-09T20:10:51.796441041Z[Etc/UTC]",
		"Cause or Stack Trace": "at handler.go:42",
	})

	want := RawError{
		Project:           "dubbing-api",
		ErrorMessage:      "request failed",
		ErrorDetail:       "Failure Reason: API_ERROR status=502",
		Time:              "2025-12-09T20:10:51.796441041Z[Etc/UTC]",
		FailureReason:     "API_ERROR",
		CauseOrStackTrace: "at handler.go:42",
	}
	if diff := cmp.Diff(want, RawErrorFromCard(c)); diff != "" {
		t.Errorf("RawErrorFromCard mismatch (-want +got):\n%s", diff)
	}
}

func TestFailureReasonExtraction(t *testing.T) {
	tests := []struct {
		name   string
		detail string
		want   string
	}{
		{"plain", "Failure Reason: TIMEOUT", "TIMEOUT"},
		{"trailing text", "Failure Reason: ENGINE_ERROR at step 3", "ENGINE_ERROR"},
		{"extra whitespace", "Failure Reason:    VT5001", "VT5001"},
		{"embedded", "request id 7; Failure Reason: API_ERROR; retried", "API_ERROR"},
		{"lowercase token ignored", "Failure Reason: timeout", ""},
		{"absent", "something else entirely", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := RawErrorFromCard(rawCard(map[string]string{"Error Detail": tt.detail}))
			assert.Equal(t, tt.want, ev.FailureReason)
		})
	}
}

func TestRawErrorClassify(t *testing.T) {
	tests := []struct {
		reason   string
		wantKind Kind
		wantOK   bool
	}{
		{"TIMEOUT", KindTimeout, true},
		{"API_ERROR", KindAPIError, true},
		{"AUDIO_PIPELINE_FAILED", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.reason, func(t *testing.T) {
			kind, ok := RawError{FailureReason: tt.reason}.Classify()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantKind, kind)
		})
	}
}

func TestMonitoringFromCard(t *testing.T) {
	c := &card.Card{
		Title: "[MONITOR] live check",
		Sections: []card.Section{{Facts: []card.Fact{
			{Name: "Description", Value: "더빙/오디오 생성 실패 감지"},
			{Name: "Time", Value: "2025-12-09T20:10:51Z"},
		}}},
	}

	ev := MonitoringFromCard(c)
	assert.Equal(t, "[MONITOR] live check", ev.Title)
	assert.Equal(t, "더빙/오디오 생성 실패 감지", ev.Description)
}

func TestMonitoringClassify(t *testing.T) {
	tests := []struct {
		name        string
		description string
		wantKind    Kind
		wantOK      bool
	}{
		{"dubbing failure", "경고: 더빙/오디오 생성 실패 3건", KindLiveAPIDBOverload, true},
		{"youtube download", "YouTube URL 다운로드 실패", KindYTDownloadFail, true},
		{"external download", "외부 URL 다운로드 실패 발생", KindYTExternalFail, true},
		{"video upload", "Video 파일 업로드 실패", KindYTExternalFail, true},
		{"mixed case", "YOUTUBE url 다운로드 실패", KindYTDownloadFail, true},
		{"unrelated", "디스크 사용량 90%", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, ok := Monitoring{Description: tt.description}.Classify()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantKind, kind)
		})
	}
}

func TestEventTimeParsing(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{
			name: "nanosecond precision with zone suffix",
			raw:  "2025-12-09T20:10:51.796441041Z[Etc/UTC]",
			want: time.Date(2025, 12, 9, 20, 10, 51, 796441000, time.UTC),
		},
		{
			name: "microsecond precision",
			raw:  "2025-12-09T20:10:51.796441Z",
			want: time.Date(2025, 12, 9, 20, 10, 51, 796441000, time.UTC),
		},
		{
			name: "short fraction padded",
			raw:  "2025-12-09T20:10:51.7Z",
			want: time.Date(2025, 12, 9, 20, 10, 51, 700000000, time.UTC),
		},
		{
			name: "no fraction",
			raw:  "2025-12-09T20:10:51Z",
			want: time.Date(2025, 12, 9, 20, 10, 51, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RawError{Time: tt.raw}.EventTime()
			require.True(t, got.Equal(tt.want), "got %s want %s", got, tt.want)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestEventTimeFallsBackToNow(t *testing.T) {
	for _, raw := range []string{"", "not a timestamp", "2025-13-45T99:99:99Z"} {
		before := time.Now().UTC()
		got := Monitoring{Time: raw}.EventTime()
		after := time.Now().UTC()
		assert.False(t, got.Before(before), "raw=%q", raw)
		assert.False(t, got.After(after), "raw=%q", raw)
	}
}
