// SPDX-License-Identifier: MIT

package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookSend(t *testing.T) {
	var received []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		received = body
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	w := NewWebhook(WebhookConfig{ForwardURL: srv.URL, IncidentURL: srv.URL})
	payload := json.RawMessage(`{"title": "hello"}`)

	require.NoError(t, w.SendToForward(context.Background(), payload))
	assert.JSONEq(t, string(payload), string(received))

	require.NoError(t, w.SendToIncident(context.Background(), payload))
}

func TestWebhookRejectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad payload", http.StatusBadRequest)
	}))
	defer srv.Close()

	w := NewWebhook(WebhookConfig{ForwardURL: srv.URL})
	err := w.SendToForward(context.Background(), json.RawMessage(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestWebhookUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	w := NewWebhook(WebhookConfig{ForwardURL: srv.URL})
	err := w.SendToForward(context.Background(), json.RawMessage(`{}`))
	require.Error(t, err)
}

func TestWebhookUnconfiguredChannel(t *testing.T) {
	w := NewWebhook(WebhookConfig{ForwardURL: "http://example.invalid/hook"})

	err := w.SendToIncident(context.Background(), json.RawMessage(`{}`))
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestNoopNotifier(t *testing.T) {
	n := Noop{}
	assert.NoError(t, n.SendToForward(context.Background(), json.RawMessage(`{}`)))
	assert.NoError(t, n.SendToIncident(context.Background(), json.RawMessage(`{}`)))
}
