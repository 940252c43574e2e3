package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reconciliationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reconciler",
			Name:      "reconciliations_total",
			Help:      "Total message reconciliations.",
		},
		[]string{"result"}, // "created", "updated", "error"
	)

	providerFetchDurationHist = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "reconciler",
			Name:      "provider_fetch_duration_seconds",
			Help:      "Duration of provider fetch calls, including retries.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	providerFetchRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "reconciler",
			Name:      "provider_fetch_retries_total",
			Help:      "Total retry attempts against the provider fetch API.",
		},
	)

	subscriptionChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reconciler",
			Name:      "subscription_changes_total",
			Help:      "Total consent flips driven by inbound keywords.",
		},
		[]string{"unsubscribed"}, // "true", "false"
	)

	autoResponsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reconciler",
			Name:      "auto_responses_total",
			Help:      "Total auto-responder outcomes.",
		},
		[]string{"result"}, // "sent", "skipped_unsubscribed", "skipped_direction", "error"
	)

	unmappedLabelsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reconciler",
			Name:      "unmapped_remote_labels_total",
			Help:      "Remote labels that did not map to a local enum value.",
		},
		[]string{"field"}, // "status", "direction"
	)

	eventPublishFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "reconciler",
			Name:      "event_publish_failures_total",
			Help:      "Notification events that could not be published.",
		},
	)
)
