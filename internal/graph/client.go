// SPDX-License-Identifier: MIT

package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ManuGH/alertgw/internal/log"
)

const (
	defaultLoginBase = "https://login.microsoftonline.com"
	defaultGraphBase = "https://graph.microsoft.com/v1.0"

	// tokens are valid for an hour; refresh a little early.
	tokenLifetime = 55 * time.Minute
)

// Client fetches channel messages via the Graph REST API using
// client-credential tokens. Token acquisition is cached and refreshed
// transparently; the client is safe for concurrent use.
type Client struct {
	loginBase string
	graphBase string
	appID     string
	appSecret string
	tenantID  string
	http      *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewClient returns a Graph client for the given app registration.
func NewClient(appID, appSecret, tenantID string) *Client {
	return &Client{
		loginBase: defaultLoginBase,
		graphBase: defaultGraphBase,
		appID:     appID,
		appSecret: appSecret,
		tenantID:  tenantID,
		http: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// SetBaseURLs overrides the login and Graph endpoints. Tests point them at a
// local server.
func (c *Client) SetBaseURLs(loginBase, graphBase string) {
	c.loginBase = strings.TrimRight(loginBase, "/")
	c.graphBase = strings.TrimRight(graphBase, "/")
}

// accessToken returns a cached token, fetching a fresh one when the cached
// token is absent or near expiry.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.appID},
		"client_secret": {c.appSecret},
		"scope":         {"https://graph.microsoft.com/.default"},
	}
	endpoint := fmt.Sprintf("%s/%s/oauth2/v2.0/token", c.loginBase, c.tenantID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return "", fmt.Errorf("token request: status %d: %s", res.StatusCode, string(body))
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("token response without access_token")
	}

	c.token = payload.AccessToken
	c.tokenExpiry = time.Now().Add(tokenLifetime)
	logger := log.WithComponent("graph")
	logger.Debug().
		Str("event", "token.refreshed").
		Time("expiry", c.tokenExpiry).
		Msg("acquired graph access token")
	return c.token, nil
}

// GetMessages fetches the most recent channel messages, newest first, and
// keeps only those modified strictly after since (an RFC 3339 UTC string;
// empty keeps everything). top bounds the page size.
func (c *Client) GetMessages(ctx context.Context, teamID, channelID, since string, top int) ([]Message, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/teams/%s/channels/%s/messages?$top=%s",
		c.graphBase, url.PathEscape(teamID), url.PathEscape(channelID), strconv.Itoa(top))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build messages request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("messages request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, fmt.Errorf("messages request: status %d: %s", res.StatusCode, string(body))
	}

	var payload struct {
		Value []Message `json:"value"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode messages response: %w", err)
	}

	if since == "" {
		return payload.Value, nil
	}
	// RFC 3339 UTC strings order lexically, so a string compare suffices.
	out := payload.Value[:0]
	for _, m := range payload.Value {
		if m.LastModifiedDateTime > since {
			out = append(out, m)
		}
	}
	return out, nil
}
