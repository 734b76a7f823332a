package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProfileBuildsTotal counts view-model rebuilds from document snapshots.
	ProfileBuildsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "profile_builds_total",
			Help: "Total number of profile view model builds",
		},
	)

	// FieldDecodeFailuresTotal counts per-field decode failures. The field
	// label names the document field whose stored JSON was malformed.
	FieldDecodeFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_field_decode_failures_total",
			Help: "Total number of isolated profile field decode failures",
		},
		[]string{"field"},
	)

	// ProfileBuildDuration tracks time spent building view models.
	ProfileBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "profile_build_duration_seconds",
			Help:    "Time spent building profile view models",
			Buckets: prometheus.DefBuckets,
		},
	)

	// ActiveSubscriptions gauges live profile document subscriptions.
	ActiveSubscriptions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "profile_active_subscriptions",
			Help: "Number of live profile document subscriptions",
		},
	)
)
