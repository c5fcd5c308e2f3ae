// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/alertgw/internal/anomaly"
	"github.com/ManuGH/alertgw/internal/api"
	"github.com/ManuGH/alertgw/internal/config"
	"github.com/ManuGH/alertgw/internal/dedup"
	"github.com/ManuGH/alertgw/internal/feed"
	"github.com/ManuGH/alertgw/internal/graph"
	aglog "github.com/ManuGH/alertgw/internal/log"
	"github.com/ManuGH/alertgw/internal/notify"
	"github.com/ManuGH/alertgw/internal/poller"
	"github.com/ManuGH/alertgw/internal/telemetry"
)

var (
	version   = "v1.0.0"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// LOG_LEVEL is picked up by Configure itself, so the logger is usable
	// before the rest of the configuration loads.
	aglog.Configure(aglog.Config{
		Service: "alertgw",
		Version: version,
	})
	logger := aglog.WithComponent("daemon")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "config.load_failed").
			Msg("failed to load configuration")
	}

	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	logger.Info().
		Str("event", "startup").
		Str("version", version).
		Str("commit", commit).
		Str("build_date", buildDate).
		Str("env", cfg.Env).
		Str("addr", cfg.ListenAddr).
		Msg("starting alertgw")

	tracer, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.TracingEnabled,
		ServiceName:    "alertgw",
		ServiceVersion: version,
		Environment:    cfg.Env,
		ExporterType:   cfg.TracingExporter,
		Endpoint:       cfg.TracingEndpoint,
		SamplingRate:   cfg.TracingSampling,
	})
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "telemetry.init_failed").
			Msg("failed to initialize tracing")
	}
	defer func() {
		if err := tracer.Shutdown(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("tracer shutdown failed")
		}
	}()

	// Wiring. In development the notifier degrades to a no-op when no
	// webhook URLs are configured; production validation requires them.
	var notifier notify.Notifier
	if cfg.NotifierConfigured() {
		notifier = notify.NewWebhook(notify.WebhookConfig{
			ForwardURL:  cfg.ForwardWebhookURL,
			IncidentURL: cfg.IncidentWebhookURL,
			Timeout:     cfg.WebhookTimeout,
			VerifyTLS:   cfg.WebhookVerifyTLS,
		})
	} else {
		logger.Warn().
			Str("event", "notify.unconfigured").
			Msg("no webhook urls configured, alerts will be logged and discarded")
		notifier = notify.Noop{}
	}

	detector := anomaly.New()
	incidents := feed.NewIncidentService(detector, notifier)
	rawHandler := feed.NewAlertHandler(notifier, incidents)
	monHandler := feed.NewMonitoringHandler(incidents)

	source := graph.NewClient(cfg.AppID, cfg.AppPassword, cfg.TenantID)
	tracker := dedup.NewTracker(cfg.DedupMaxSize, cfg.DedupCleanupSize)
	p := poller.New(poller.Config{
		TeamID:              cfg.TeamID,
		RawChannelID:        cfg.RawChannelID,
		MonitoringChannelID: cfg.MonitoringChannelID,
		Interval:            cfg.PollInterval,
		Top:                 cfg.PollTop,
	}, source, rawHandler, monHandler, tracker)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.NewServer(detector, p, version).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().
			Str("event", "http.listening").
			Str("addr", cfg.ListenAddr).
			Msg("admin surface listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := p.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("poller: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error().
			Err(err).
			Str("event", "shutdown.error").
			Msg("daemon exited with error")
		os.Exit(1)
	}
	logger.Info().Str("event", "shutdown").Msg("daemon stopped")
}
