// Package metrics 调度与内容检测的 Prometheus 指标
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lighthouse"

var (
	DuplicateChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicate_checks_total",
			Help:      "Duplicate content checks by outcome",
		},
		[]string{"outcome"}, // unique, similar, exact, error
	)

	DuplicateCandidates = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "duplicate_candidates",
			Help:      "Candidates compared per duplicate check",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
		},
		[]string{"source"}, // fingerprint, fallback
	)

	JobAssignmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_assignments_total",
			Help:      "Job assignment attempts by result",
		},
		[]string{"result"}, // assigned, at_capacity, unavailable, not_found, error
	)

	JobTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_transitions_total",
			Help:      "Job status transitions reported by workers",
		},
		[]string{"status"},
	)

	JobRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_retries_total",
			Help:      "Failed jobs sent back for another attempt",
		},
	)

	WorkersMarkedOffline = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workers_marked_offline_total",
			Help:      "Workers flipped offline by the heartbeat sweep",
		},
	)

	WorkerProbeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "worker_probe_duration_seconds",
			Help:      "Worker endpoint health probe latency",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 8),
		},
		[]string{"status"},
	)

	AnalyticsCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analytics_cache_total",
			Help:      "Best posting time cache lookups",
		},
		[]string{"result"}, // hit, miss, error
	)

	KafkaMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_messages_total",
			Help:      "Kafka messages consumed by topic and result",
		},
		[]string{"consumer", "result"}, // applied, skipped, dropped
	)
)

// Handler 暴露 /metrics
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
