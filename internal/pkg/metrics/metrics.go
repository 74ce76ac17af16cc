// Package metrics defines and registers the Prometheus metrics of the story
// client. It is the single source of truth for metric names, labels, and help
// strings. Metrics register with the default registry on package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "snooze"

// ── Remote store metrics ──────────────────────────────────────────────────────

// RemoteRequestsTotal counts calls made to the remote store.
// Labels:
//   - operation: the contract operation (e.g. "list_stories", "add_favorite")
//   - outcome: "ok" or the error kind ("auth", "validation", "not_found", "unavailable")
var RemoteRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "remote_requests_total",
		Help:      "Total number of remote store calls, by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

// RemoteRequestDuration measures the round trip of a single remote call.
var RemoteRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "remote_request_duration_seconds",
		Help:      "Duration of remote store calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// ── Mutation metrics ──────────────────────────────────────────────────────────

// MutationsTotal counts user mutations after reconciliation.
// Labels:
//   - operation: "add_story", "add_favorite", "remove_favorite", "delete_story"
//   - result: "ok" or "error"
var MutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mutations_total",
		Help:      "Total number of user mutations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// MutationQueueDepth tracks mutations waiting in each dispatcher worker.
// Label:
//   - worker_id: numeric worker index
var MutationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "mutation_queue_depth",
		Help:      "Current number of mutations pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionRestoresTotal counts silent credential restores.
// Label:
//   - result: "restored", "absent" (nothing persisted) or "failed"
var SessionRestoresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_restores_total",
		Help:      "Total number of credential restore attempts, by result.",
	},
	[]string{"result"},
)

// ActiveSessions is the number of browser scopes currently held in memory.
var ActiveSessions = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Number of session scopes held by the gateway.",
	},
)
