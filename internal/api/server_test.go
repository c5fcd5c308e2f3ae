// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/alertgw/internal/anomaly"
	"github.com/ManuGH/alertgw/internal/event"
)

type stubPoller struct{ running bool }

func (s stubPoller) Running() bool { return s.running }

func TestHealth(t *testing.T) {
	srv := NewServer(anomaly.New(), stubPoller{running: true}, "v1.2.3")
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var body struct {
		Status        string `json:"status"`
		Version       string `json:"version"`
		PollerRunning bool   `json:"poller_running"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "v1.2.3", body.Version)
	assert.True(t, body.PollerRunning)
}

func TestHealthReportsStoppedPoller(t *testing.T) {
	srv := NewServer(anomaly.New(), stubPoller{running: false}, "dev")
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["poller_running"])
}

func TestDebugReset(t *testing.T) {
	detector := anomaly.New()
	base := time.Date(2025, 12, 9, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 2; i++ {
		_, err := detector.Record(event.KindTimeout, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
	}

	srv := NewServer(detector, stubPoller{running: true}, "dev")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/debug/reset", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "reset"}`, rec.Body.String())

	// detector history is gone: two more events do not trigger
	triggered, err := detector.Record(event.KindTimeout, base.Add(2*time.Minute))
	require.NoError(t, err)
	assert.False(t, triggered)
}

func TestRequestIDPassedThrough(t *testing.T) {
	srv := NewServer(anomaly.New(), stubPoller{}, "dev")
	rec := httptest.NewRecorder()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
}

func TestUnknownRoute(t *testing.T) {
	srv := NewServer(anomaly.New(), stubPoller{}, "dev")
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResetRequiresPost(t *testing.T) {
	srv := NewServer(anomaly.New(), stubPoller{}, "dev")
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/reset", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
