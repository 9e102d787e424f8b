// Package metrics defines and registers all custom Prometheus metrics for
// the membership directory. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register with the default Prometheus registry at import time via
// promauto; the /metrics endpoint exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "memberdir"

// ── Authentication metrics ────────────────────────────────────────────────────

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "ok", "failed", or "throttled"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenValidationsTotal counts per-request token validations by outcome.
// Label:
//   - result: "ok", "anonymous", "invalid", "expired", "revoked",
//     "unknown_subject", or "store_error"
var TokenValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_validations_total",
		Help:      "Total number of bearer token validations, by result.",
	},
	[]string{"result"},
)

// ── Directory metrics ─────────────────────────────────────────────────────────

// MembersRegisteredTotal counts successful registrations by assigned role.
var MembersRegisteredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "members_registered_total",
		Help:      "Total number of members registered, by role.",
	},
	[]string{"role"},
)

// LastAdminRejectionsTotal counts operations rejected by the last-admin
// invariant (demotions and deletions that would leave zero administrators).
var LastAdminRejectionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "last_admin_rejections_total",
		Help:      "Total number of operations rejected to preserve the last administrator.",
	},
)

// ── Audit trail metrics ───────────────────────────────────────────────────────

// AuditQueueDepth tracks the current number of audit events waiting in each
// dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditEventsDroppedTotal counts audit events dropped because the worker
// buffer was full.
var AuditEventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_dropped_total",
		Help:      "Total number of audit events dropped due to a saturated queue.",
	},
)

// AuditWriteDuration measures how long a single audit event takes to persist.
var AuditWriteDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "audit_write_duration_seconds",
		Help:      "Duration of audit event persistence from dequeue to write.",
		Buckets:   prometheus.DefBuckets,
	},
)
