// Package metrics defines and registers the Prometheus metrics of the admin
// console. promauto registers every collector with the default registry at
// package init; the gateway exposes them at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "console"

// ── Remote API ───────────────────────────────────────────────────────────────

// APIRequestsTotal counts calls made to the remote REST API.
// Labels:
//   - resource: collection name (e.g. "articles", "auth")
//   - method:   HTTP method
//   - code:     HTTP status code, or "error" when no response was received
var APIRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Total number of requests sent to the remote API.",
	},
	[]string{"resource", "method", "code"},
)

// APIRequestDuration measures round-trip time of remote API calls.
var APIRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_duration_seconds",
		Help:      "Duration of remote API requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"resource", "method"},
)

// EnvelopeShapesTotal counts decoded response envelopes by shape, so that an
// "unrecognized" spike points at a server contract change.
var EnvelopeShapesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "envelope_shapes_total",
		Help:      "Response envelopes decoded, by resource and shape.",
	},
	[]string{"resource", "shape"},
)

// ── Stores ───────────────────────────────────────────────────────────────────

// StoreMutationsTotal counts create/update/delete attempts.
// Labels:
//   - op:     "create", "update" or "delete"
//   - result: "ok", "error" or "unauthorized"
var StoreMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_mutations_total",
		Help:      "Total number of store mutations, by resource, operation and result.",
	},
	[]string{"resource", "op", "result"},
)

// StoreFetchesTotal counts list fetches by result.
var StoreFetchesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_fetches_total",
		Help:      "Total number of collection fetches, by resource and result.",
	},
	[]string{"resource", "result"},
)

// ── Notifications ────────────────────────────────────────────────────────────

// NotificationsTotal counts notifications emitted, by variant.
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of notifications emitted.",
	},
	[]string{"variant"},
)
