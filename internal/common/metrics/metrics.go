// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	InteractionsHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_interactions_handled_total",
			Help: "Total number of interactions handled, by action",
		},
		[]string{"action"},
	)

	InteractionsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_interactions_failed_total",
			Help: "Total number of interactions that ended in an error reply",
		},
		[]string{"action", "error_code"},
	)

	InteractionsIgnored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "intake_interactions_ignored_total",
			Help: "Interactions carrying identifiers this bot does not own",
		},
	)

	InteractionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "intake_interaction_duration_seconds",
			Help: "Duration of interaction handling in seconds",
		},
		[]string{"action"},
	)

	InteractionsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "intake_interactions_active",
			Help: "Number of interactions currently being handled",
		},
		[]string{"action"},
	)

	ApplicationsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_applications_submitted_total",
			Help: "Applications rendered into the review channel, by type",
		},
		[]string{"type"},
	)

	ApplicationsDecided = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_applications_decided_total",
			Help: "Applications accepted or rejected, by type",
		},
		[]string{"type", "decision"},
	)
)
