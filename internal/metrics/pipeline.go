// SPDX-License-Identifier: MIT
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Poller metrics
	messagesPolled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alertgw_messages_polled_total",
		Help: "Messages returned by the upstream source per feed",
	}, []string{"feed"})

	messagesDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alertgw_messages_dispatched_total",
		Help: "Messages dispatched to a feed handler",
	}, []string{"feed"})

	messagesDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alertgw_messages_dropped_total",
		Help: "Messages dropped before dispatch by reason",
	}, []string{"feed", "reason"}) // reason=duplicate|not_webhook|no_card|parse_failed

	pollErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alertgw_poll_errors_total",
		Help: "Upstream fetch failures per feed",
	}, []string{"feed"})

	pollDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "alertgw_poll_duration_seconds",
		Help:    "Time spent in one full two-channel poll pass",
		Buckets: prometheus.DefBuckets,
	})

	// Detector metrics
	eventsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alertgw_detector_events_recorded_total",
		Help: "Events recorded by the anomaly detector per kind",
	}, []string{"kind"})

	incidentsTriggered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alertgw_incidents_triggered_total",
		Help: "Incident alerts emitted per kind",
	}, []string{"kind"})

	// Forwarding metrics
	alertsForwarded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "alertgw_alerts_forwarded_total",
		Help: "Raw alerts forwarded to the error channel",
	})

	// Notifier metrics
	webhookPosts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alertgw_webhook_posts_total",
		Help: "Outbound webhook posts by channel and outcome",
	}, []string{"channel", "outcome"}) // channel=forward|incident, outcome=success|failure

	// Dedup metrics
	dedupTrackedIDs = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "alertgw_dedup_tracked_ids",
		Help: "Message ids currently held by the dedup tracker",
	})
)

func IncMessagePolled(feed string, n int) {
	messagesPolled.WithLabelValues(feed).Add(float64(n))
}
func IncMessageDispatched(feed string) { messagesDispatched.WithLabelValues(feed).Inc() }
func IncMessageDropped(feed, reason string) {
	messagesDropped.WithLabelValues(feed, reason).Inc()
}
func IncPollError(feed string)          { pollErrors.WithLabelValues(feed).Inc() }
func ObservePollDuration(secs float64)  { pollDuration.Observe(secs) }
func IncEventRecorded(kind string)      { eventsRecorded.WithLabelValues(kind).Inc() }
func IncIncidentTriggered(kind string)  { incidentsTriggered.WithLabelValues(kind).Inc() }
func IncAlertForwarded()                { alertsForwarded.Inc() }
func IncWebhookPost(channel, outcome string) {
	webhookPosts.WithLabelValues(channel, outcome).Inc()
}
func SetDedupTrackedIDs(n int) { dedupTrackedIDs.Set(float64(n)) }
