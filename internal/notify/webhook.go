// SPDX-License-Identifier: MIT

package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"github.com/ManuGH/alertgw/internal/log"
	"github.com/ManuGH/alertgw/internal/metrics"
)

// ErrNotConfigured is returned when a send targets a channel without a URL.
var ErrNotConfigured = errors.New("webhook url not configured")

// WebhookConfig holds the outbound delivery settings.
type WebhookConfig struct {
	ForwardURL  string
	IncidentURL string
	Timeout     time.Duration
	VerifyTLS   bool
}

// Webhook posts payloads to incoming-webhook endpoints. Posts are rate
// limited to keep a burst of incidents from tripping the receiver.
type Webhook struct {
	cfg     WebhookConfig
	http    *http.Client
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// NewWebhook returns a notifier for the configured channel URLs.
func NewWebhook(cfg WebhookConfig) *Webhook {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !cfg.VerifyTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // #nosec G402 -- internal receivers with self-signed certs
	}
	return &Webhook{
		cfg: cfg,
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(transport),
		},
		limiter: rate.NewLimiter(rate.Limit(10), 20),
		logger:  log.WithComponent("notify"),
	}
}

func (w *Webhook) SendToForward(ctx context.Context, payload json.RawMessage) error {
	return w.post(ctx, "forward", w.cfg.ForwardURL, payload)
}

func (w *Webhook) SendToIncident(ctx context.Context, payload json.RawMessage) error {
	return w.post(ctx, "incident", w.cfg.IncidentURL, payload)
}

func (w *Webhook) post(ctx context.Context, channel, url string, payload json.RawMessage) error {
	if url == "" {
		w.logger.Warn().
			Str("event", "notify.skipped").
			Str(log.FieldChannel, channel).
			Msg("channel has no webhook url")
		return fmt.Errorf("%s: %w", channel, ErrNotConfigured)
	}

	if err := w.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := w.http.Do(req)
	if err != nil {
		metrics.IncWebhookPost(channel, "failure")
		w.logger.Error().
			Str("event", "notify.failed").
			Str(log.FieldChannel, channel).
			Err(err).
			Msg("webhook post failed")
		return fmt.Errorf("post webhook: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		metrics.IncWebhookPost(channel, "failure")
		w.logger.Error().
			Str("event", "notify.failed").
			Str(log.FieldChannel, channel).
			Int("status", res.StatusCode).
			Str("body", string(body)).
			Msg("webhook rejected payload")
		return fmt.Errorf("post webhook: status %d", res.StatusCode)
	}

	metrics.IncWebhookPost(channel, "success")
	w.logger.Info().
		Str("event", "notify.sent").
		Str(log.FieldChannel, channel).
		Int("status", res.StatusCode).
		Msg("payload delivered")
	return nil
}
