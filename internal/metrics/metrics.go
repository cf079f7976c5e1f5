package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	ProgressComputations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habit_progress_computations_total",
			Help: "Total number of streak and calendar computations",
		},
		[]string{"kind"}, // streak, calendar, overview
	)

	RecordFetchFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "habit_record_fetch_failures_total",
			Help: "Record fetches that failed and were treated as empty",
		},
	)

	StreakMilestones = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habit_streak_milestones_total",
			Help: "Streak milestones reached by habits",
		},
		[]string{"days"},
	)

	MilestoneJobsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "habit_milestone_jobs_dropped_total",
			Help: "Milestone jobs dropped because the worker queue was full",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func RecordComputation(kind string) {
	ProgressComputations.WithLabelValues(kind).Inc()
}
