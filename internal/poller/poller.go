// SPDX-License-Identifier: MIT

// Package poller drives the pipeline: it repeatedly fetches channel messages
// from the upstream source and dispatches new card payloads to the feed
// handlers.
package poller

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/ManuGH/alertgw/internal/dedup"
	"github.com/ManuGH/alertgw/internal/graph"
	"github.com/ManuGH/alertgw/internal/log"
	"github.com/ManuGH/alertgw/internal/metrics"
)

// Source fetches channel messages newer than a checkpoint.
type Source interface {
	GetMessages(ctx context.Context, teamID, channelID, since string, top int) ([]graph.Message, error)
}

// RawHandler consumes raw error card payloads.
type RawHandler interface {
	HandleRaw(ctx context.Context, payload json.RawMessage) bool
}

// MonitoringHandler consumes monitoring card payloads.
type MonitoringHandler interface {
	HandleMonitoring(ctx context.Context, payload json.RawMessage) bool
}

// Feed names the two polled channels.
type Feed string

const (
	FeedRaw        Feed = "raw"
	FeedMonitoring Feed = "monitoring"
)

// Config holds the channel coordinates and poll cadence.
type Config struct {
	TeamID              string
	RawChannelID        string
	MonitoringChannelID string
	Interval            time.Duration
	Top                 int
}

// Poller owns the fetch loop. Messages seen before (tracked by id) are
// skipped; each channel keeps its own last-modified checkpoint so a pass
// only considers messages newer than the previous pass.
type Poller struct {
	cfg        Config
	source     Source
	raw        RawHandler
	monitoring MonitoringHandler
	tracker    *dedup.Tracker
	lastCheck  map[Feed]string
	running    atomic.Bool
	logger     zerolog.Logger
}

// New returns a poller over the configured channels.
func New(cfg Config, source Source, raw RawHandler, monitoring MonitoringHandler, tracker *dedup.Tracker) *Poller {
	return &Poller{
		cfg:        cfg,
		source:     source,
		raw:        raw,
		monitoring: monitoring,
		tracker:    tracker,
		lastCheck:  make(map[Feed]string),
		logger:     log.WithComponent("poller"),
	}
}

// Running reports whether the poll loop is active. Exposed via /health.
func (p *Poller) Running() bool {
	return p.running.Load()
}

// Run polls until ctx is cancelled. Checkpoints start at now, so only
// messages arriving after startup are processed.
func (p *Poller) Run(ctx context.Context) error {
	now := time.Now().UTC().Format(time.RFC3339)
	p.lastCheck[FeedRaw] = now
	p.lastCheck[FeedMonitoring] = now

	p.running.Store(true)
	defer p.running.Store(false)

	p.logger.Info().
		Str("event", "poller.started").
		Str(log.FieldTeamID, p.cfg.TeamID).
		Str("raw_channel", p.cfg.RawChannelID).
		Str("monitoring_channel", p.cfg.MonitoringChannelID).
		Dur("interval", p.cfg.Interval).
		Msg("poll loop started")

	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			p.logger.Info().Str("event", "poller.stopped").Msg("poll loop stopped")
			return ctx.Err()
		case <-timer.C:
		}

		start := time.Now()
		p.pollChannel(ctx, FeedRaw, p.cfg.RawChannelID)
		p.pollChannel(ctx, FeedMonitoring, p.cfg.MonitoringChannelID)
		metrics.ObservePollDuration(time.Since(start).Seconds())

		timer.Reset(p.cfg.Interval)
	}
}

// pollChannel runs one fetch-and-dispatch pass over a channel. The
// checkpoint advances to now even when the fetch fails, so the next tick
// never replays old history.
func (p *Poller) pollChannel(ctx context.Context, feed Feed, channelID string) {
	since := p.lastCheck[feed]
	msgs, err := p.source.GetMessages(ctx, p.cfg.TeamID, channelID, since, p.cfg.Top)
	p.lastCheck[feed] = time.Now().UTC().Format(time.RFC3339)
	if err != nil {
		metrics.IncPollError(string(feed))
		p.logger.Error().
			Str("event", "poll.fetch_failed").
			Str(log.FieldFeed, string(feed)).
			Str(log.FieldChannelID, channelID).
			Err(err).
			Msg("upstream fetch failed, treating tick as empty")
		return
	}
	metrics.IncMessagePolled(string(feed), len(msgs))

	for _, m := range msgs {
		p.processMessage(ctx, feed, m)
	}
}

func (p *Poller) processMessage(ctx context.Context, feed Feed, m graph.Message) {
	if p.tracker.Seen(m.ID) {
		metrics.IncMessageDropped(string(feed), "duplicate")
		return
	}
	if !graph.IsWebhookOrigin(m) {
		metrics.IncMessageDropped(string(feed), "not_webhook")
		p.tracker.Mark(m.ID)
		return
	}
	if !graph.IsCardAttachment(m) {
		metrics.IncMessageDropped(string(feed), "no_card")
		p.tracker.Mark(m.ID)
		return
	}
	_, payload, ok := graph.ParseCard(m)
	if !ok {
		metrics.IncMessageDropped(string(feed), "parse_failed")
		p.tracker.Mark(m.ID)
		return
	}

	metrics.IncMessageDispatched(string(feed))
	p.logger.Debug().
		Str("event", "poll.dispatch").
		Str(log.FieldFeed, string(feed)).
		Str(log.FieldMessageID, m.ID).
		Msg("dispatching card payload")

	switch feed {
	case FeedRaw:
		p.raw.HandleRaw(ctx, payload)
	case FeedMonitoring:
		p.monitoring.HandleMonitoring(ctx, payload)
	}
	p.tracker.Mark(m.ID)
}
