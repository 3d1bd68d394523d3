package repo

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Write outcomes recorded in writesTotal.
const (
	resultOK       = "ok"       // row written, change published
	resultNoop     = "noop"     // statement ran but matched no rows
	resultRejected = "rejected" // empty values, unknown column, or failed validation
	resultFailed   = "failed"   // store returned an error
)

var (
	// writesTotal counts insert/update/delete calls by outcome.
	writesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trippacks_repo_writes_total",
		Help: "Repository writes by operation, table, and result",
	}, []string{"op", "table", "result"})

	// opDuration tracks statement latency, reads included.
	opDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "trippacks_repo_op_duration_seconds",
		Help:    "Repository operation duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~800ms
	}, []string{"op"})
)

func observe(op string, start time.Time) {
	opDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func countWrite(op, table, result string) {
	writesTotal.WithLabelValues(op, table, result).Inc()
}
