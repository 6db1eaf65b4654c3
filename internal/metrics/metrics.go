// Package metrics defines the Prometheus collectors for the backend.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReactionsFired counts lifecycle reactions run, by record kind and
	// lifecycle point.
	ReactionsFired = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "divvy_lifecycle_reactions_total",
		Help: "Lifecycle reactions fired, by record kind and point.",
	}, []string{"kind", "point"})

	// SettlementVetoes counts deletions blocked by outstanding balances.
	SettlementVetoes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "divvy_settlement_vetoes_total",
		Help: "Record deletions vetoed by the settlement guard, by record kind.",
	}, []string{"kind"})

	// FriendshipsFannedOut counts friendships returned by membership fan-out.
	FriendshipsFannedOut = promauto.NewCounter(prometheus.CounterOpts{
		Name: "divvy_friendship_fanout_total",
		Help: "Friendships linked to joining members by the fan-out reaction.",
	})

	// ActivitiesCreated counts feed entries written, by activity type.
	ActivitiesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "divvy_activities_created_total",
		Help: "Activity feed entries created, by type.",
	}, []string{"type"})

	// NotificationFailures counts post-save reactions that failed after the
	// primary record had already committed; their errors are logged and
	// dropped, never surfaced to the caller.
	NotificationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "divvy_notification_failures_total",
		Help: "Post-save reactions that failed, by record kind.",
	}, []string{"kind"})
)
