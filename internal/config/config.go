// SPDX-License-Identifier: MIT

// Package config loads the daemon configuration from the environment.
// Precedence is ENV > defaults; there is no config file, the upstream
// deployment contract is environment-only.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMissingVar is returned when production mode lacks a required variable.
var ErrMissingVar = errors.New("missing required environment variable")

// Environment names accepted in ENV.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is the immutable daemon configuration.
type Config struct {
	Env string

	// Teams / Graph API
	TeamID              string
	RawChannelID        string // feed-1: per-request failure cards
	MonitoringChannelID string // feed-2: monitoring cards
	AppID               string
	AppPassword         string
	TenantID            string

	// Outbound webhooks
	ForwardWebhookURL  string
	IncidentWebhookURL string
	WebhookTimeout     time.Duration
	WebhookVerifyTLS   bool

	// Poller
	PollInterval time.Duration
	PollTop      int

	// Dedup tracker
	DedupMaxSize     int
	DedupCleanupSize int

	// Admin HTTP surface
	ListenAddr string

	// Logging
	LogLevel string

	// Tracing
	TracingEnabled  bool
	TracingExporter string // "grpc" or "http"
	TracingEndpoint string
	TracingSampling float64
}

// requiredInProduction lists the variables that must be non-empty when
// ENV=production. Startup fails otherwise.
var requiredInProduction = []string{
	"MICROSOFT_APP_ID",
	"MICROSOFT_APP_PASSWORD",
	"MICROSOFT_TENANT_ID",
	"TEAMS_TEAM_ID",
	"TEAMS_FEED1_CHANNEL_ID",
	"TEAMS_FEED2_CHANNEL_ID",
	"TEAMS_FORWARD_WEBHOOK_URL",
	"TEAMS_INCIDENT_WEBHOOK_URL",
}

// Load reads the configuration from the process environment and validates it.
func Load() (Config, error) {
	cfg := Config{
		Env: ParseString("ENV", EnvDevelopment),

		TeamID:              ParseString("TEAMS_TEAM_ID", ""),
		RawChannelID:        ParseString("TEAMS_FEED1_CHANNEL_ID", ""),
		MonitoringChannelID: ParseString("TEAMS_FEED2_CHANNEL_ID", ""),
		AppID:               ParseString("MICROSOFT_APP_ID", ""),
		AppPassword:         ParseString("MICROSOFT_APP_PASSWORD", ""),
		TenantID:            ParseString("MICROSOFT_TENANT_ID", ""),

		ForwardWebhookURL:  ParseString("TEAMS_FORWARD_WEBHOOK_URL", ""),
		IncidentWebhookURL: ParseString("TEAMS_INCIDENT_WEBHOOK_URL", ""),
		WebhookTimeout:     ParseDuration("ALERTGW_WEBHOOK_TIMEOUT", 5*time.Second),
		WebhookVerifyTLS:   ParseBool("ALERTGW_WEBHOOK_VERIFY_TLS", false),

		PollInterval: ParseDuration("ALERTGW_POLL_INTERVAL", 10*time.Second),
		PollTop:      ParseInt("ALERTGW_POLL_TOP", 10),

		DedupMaxSize:     ParseInt("ALERTGW_DEDUP_MAX_SIZE", 1000),
		DedupCleanupSize: ParseInt("ALERTGW_DEDUP_CLEANUP_SIZE", 500),

		ListenAddr: ParseString("ALERTGW_LISTEN", ":8080"),

		LogLevel: ParseString("LOG_LEVEL", "info"),

		TracingEnabled:  ParseBool("ALERTGW_TRACING_ENABLED", false),
		TracingExporter: ParseString("ALERTGW_TRACING_EXPORTER", "grpc"),
		TracingEndpoint: ParseString("ALERTGW_TRACING_ENDPOINT", "localhost:4317"),
		TracingSampling: ParseFloat("ALERTGW_TRACING_SAMPLING", 1.0),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Env != EnvDevelopment && c.Env != EnvProduction {
		return fmt.Errorf("ENV must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.Env)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", c.PollInterval)
	}
	if c.PollTop <= 0 {
		return fmt.Errorf("poll top must be positive, got %d", c.PollTop)
	}
	if c.DedupCleanupSize > c.DedupMaxSize {
		return fmt.Errorf("dedup cleanup size %d exceeds max size %d", c.DedupCleanupSize, c.DedupMaxSize)
	}
	if c.Env == EnvProduction {
		var missing []string
		for _, key := range requiredInProduction {
			if values[key](c) == "" {
				missing = append(missing, key)
			}
		}
		if len(missing) > 0 {
			return fmt.Errorf("%w in production: %s", ErrMissingVar, strings.Join(missing, ", "))
		}
	}
	return nil
}

// values maps each required variable name to its field, so the validation
// error can name exactly what is missing.
var values = map[string]func(Config) string{
	"MICROSOFT_APP_ID":           func(c Config) string { return c.AppID },
	"MICROSOFT_APP_PASSWORD":     func(c Config) string { return c.AppPassword },
	"MICROSOFT_TENANT_ID":        func(c Config) string { return c.TenantID },
	"TEAMS_TEAM_ID":              func(c Config) string { return c.TeamID },
	"TEAMS_FEED1_CHANNEL_ID":     func(c Config) string { return c.RawChannelID },
	"TEAMS_FEED2_CHANNEL_ID":     func(c Config) string { return c.MonitoringChannelID },
	"TEAMS_FORWARD_WEBHOOK_URL":  func(c Config) string { return c.ForwardWebhookURL },
	"TEAMS_INCIDENT_WEBHOOK_URL": func(c Config) string { return c.IncidentWebhookURL },
}

// NotifierConfigured reports whether both outbound webhooks are set. In
// development mode the daemon degrades to a no-op notifier when they are not.
func (c Config) NotifierConfigured() bool {
	return c.ForwardWebhookURL != "" || c.IncidentWebhookURL != ""
}
