package browsekit

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a Session.
type Option interface {
	apply(*sessionConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*sessionConfig)

func (f optionFunc) apply(c *sessionConfig) { f(c) }

// sessionConfig holds typed options as any; the constructor checks them
// against the session's record type.
type sessionConfig struct {
	capacity     int
	pageSize     int
	maxPageSize  int
	initialCount int
	step         int
	debounce     time.Duration
	query        Query

	sorters  any
	grouping any
	onChange any

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithCapacity bounds the comparison selection. Default: 3.
func WithCapacity(n int) Option {
	return optionFunc(func(c *sessionConfig) {
		c.capacity = n
	})
}

// WithPageSize sets the server-mode page size. Default: 20.
func WithPageSize(n int) Option {
	return optionFunc(func(c *sessionConfig) {
		c.pageSize = n
	})
}

// WithMaxPageSize caps the server-mode page size. Default: 100.
func WithMaxPageSize(n int) Option {
	return optionFunc(func(c *sessionConfig) {
		c.maxPageSize = n
	})
}

// WithReveal sets the client-mode initial window and growth step. Default: 24, 24.
func WithReveal(initial, step int) Option {
	return optionFunc(func(c *sessionConfig) {
		c.initialCount = initial
		c.step = step
	})
}

// WithDebounce sets the quiet period applied to SetText. Default: 300ms.
func WithDebounce(d time.Duration) Option {
	return optionFunc(func(c *sessionConfig) {
		c.debounce = d
	})
}

// WithQuery sets the initial query.
func WithQuery(q Query) Option {
	return optionFunc(func(c *sessionConfig) {
		c.query = q
	})
}

// WithSorters replaces the sort registry. Unknown keys fall back to name order.
func WithSorters[R any](s Sorters[R]) Option {
	return optionFunc(func(c *sessionConfig) {
		c.sorters = s
	})
}

// WithGrouping enables grouped output over the visible records.
func WithGrouping[R any](g Grouping[R]) Option {
	return optionFunc(func(c *sessionConfig) {
		c.grouping = &g
	})
}

// WithOnChange receives every new snapshot. fn may run on timer and fetch
// goroutines; Snapshot.Version orders deliveries.
func WithOnChange[R any](fn func(Snapshot[R])) Option {
	return optionFunc(func(c *sessionConfig) {
		c.onChange = fn
	})
}

// WithLogger enables structured logging of fetches and rejected selections.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *sessionConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *sessionConfig) {
		c.metricsReg = reg
	})
}
