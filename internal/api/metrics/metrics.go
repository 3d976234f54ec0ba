// Package metrics defines and registers all custom Prometheus metrics for the
// training credits API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry at package init; the
// router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "credits"

// ── Ledger metrics ────────────────────────────────────────────────────────────

// PurchasesTotal counts completed credit purchases.
// Label:
//   - course_type: the course type the credits were bought for
var PurchasesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "purchases_total",
		Help:      "Total number of completed credit purchases, by course type.",
	},
	[]string{"course_type"},
)

// CreditsDeductedTotal counts credits consumed by issuances and direct
// deductions.
var CreditsDeductedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deducted_total",
		Help:      "Total number of credits deducted from user balances.",
	},
)

// ── Issuance metrics ──────────────────────────────────────────────────────────

// IssuancesTotal counts successfully committed issuance groups.
var IssuancesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "issuances_total",
		Help:      "Total number of issuance groups committed.",
	},
)

// IssuanceErrorsTotal counts failed submissions.
// Label:
//   - reason: short failure description (e.g. "validation", "insufficient_credits", "commit_failed")
var IssuanceErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "issuance_errors_total",
		Help:      "Total number of issuance submissions that failed.",
	},
	[]string{"reason"},
)

// IssuanceDuration measures how long a submission takes from validation to
// committed transaction.
var IssuanceDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "issuance_duration_seconds",
		Help:      "Duration of issuance submissions from validation to commit.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Ticket metrics ────────────────────────────────────────────────────────────

// TicketsCreatedTotal counts created support tickets.
// Label:
//   - type: the ticket type (e.g. "General Request", "Change Request")
var TicketsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tickets_created_total",
		Help:      "Total number of support tickets created, by type.",
	},
	[]string{"type"},
)

// NotificationsTotal counts notification delivery attempts.
// Labels:
//   - recipient: "admin" or "reporter"
//   - result: "sent" or "failed"
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of ticket notification attempts, by recipient and result.",
	},
	[]string{"recipient", "result"},
)
