package browsekit

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/browsekit/internal/usecase/browse"
)

// sdkMetrics holds prometheus metrics registered for the SDK.
type sdkMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "browsekit",
			Subsystem: "sdk",
			Name:      "operations_total",
			Help:      "Total SDK operations by type and status.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "browsekit",
			Subsystem: "sdk",
			Name:      "operation_duration_seconds",
			Help:      "SDK operation duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if err := registerOrReuse(reg, &m.operations); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector or reuses an existing one.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("browsekit: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("browsekit: register metric: %w", err)
	}
	return nil
}

// observer provides logging and metrics for SDK operations. It doubles as
// the session's telemetry sink.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

var _ browse.Recorder = (*observer)(nil)

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	var m *sdkMetrics
	if reg != nil {
		var err error
		m, err = newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
	}
	return &observer{logger: logger, metrics: m}, nil
}

func (o *observer) observe(op string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	o.record(op, status, time.Since(start), err)
}

// Fetch records a server-mode page fetch.
func (o *observer) Fetch(result browse.FetchResult, d time.Duration) {
	var err error
	if result == browse.FetchError {
		err = errors.New("page fetch failed")
	}
	o.record("fetch", string(result), d, err)
}

// SelectionRejected records a toggle ignored because the selection was full.
func (o *observer) SelectionRejected() {
	o.record("select", "rejected", 0, nil)
}

func (o *observer) record(op, status string, dur time.Duration, err error) {
	if o == nil {
		return
	}

	if o.metrics != nil {
		o.metrics.operations.WithLabelValues(op, status).Inc()
		if dur > 0 {
			o.metrics.duration.WithLabelValues(op).Observe(dur.Seconds())
		}
	}

	if o.logger != nil {
		if err != nil {
			o.logger.Warn("operation failed",
				"op", op,
				"duration", dur,
				"error", err,
			)
		} else {
			o.logger.Debug("operation completed",
				"op", op,
				"status", status,
				"duration", dur,
			)
		}
	}
}
