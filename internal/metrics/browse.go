package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/browsekit/internal/usecase/browse"
)

// Browse Prometheus metrics.
var (
	FetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "browsekit",
			Name:      "fetch_total",
			Help:      "Total number of server-mode page fetches",
		},
		[]string{"result"}, // "ok" / "error" / "stale"
	)

	FetchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "browsekit",
			Name:      "fetch_duration_seconds",
			Help:      "Server-mode page fetch duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "browsekit",
			Name:      "sessions_active",
			Help:      "Number of live browse sessions",
		},
	)

	SelectionRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "browsekit",
			Name:      "selection_rejected_total",
			Help:      "Selections ignored because the comparison set was full",
		},
	)

	ReorderCommitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "browsekit",
			Name:      "reorder_commits_total",
			Help:      "Total number of committed orderings",
		},
	)
)

var browseMetricsRegistered bool

// RegisterBrowseMetrics registers Prometheus browse metrics. Must be called once from main.
func RegisterBrowseMetrics() {
	if browseMetricsRegistered {
		return
	}
	prometheus.MustRegister(FetchTotal)
	prometheus.MustRegister(FetchDuration)
	prometheus.MustRegister(SessionsActive)
	prometheus.MustRegister(SelectionRejectedTotal)
	prometheus.MustRegister(ReorderCommitsTotal)
	browseMetricsRegistered = true
}

// Recorder feeds session and reorder telemetry into the browse metrics.
type Recorder struct{}

// Fetch counts a completed fetch. Stale completions are counted but not timed.
func (Recorder) Fetch(result browse.FetchResult, d time.Duration) {
	FetchTotal.WithLabelValues(string(result)).Inc()
	if result != browse.FetchStale {
		FetchDuration.Observe(d.Seconds())
	}
}

// SelectionRejected counts an overflowing toggle.
func (Recorder) SelectionRejected() { SelectionRejectedTotal.Inc() }

// ReorderCommitted counts a persisted ordering.
func (Recorder) ReorderCommitted() { ReorderCommitsTotal.Inc() }

// SessionCount sets the live session gauge.
func (Recorder) SessionCount(n int) { SessionsActive.Set(float64(n)) }
