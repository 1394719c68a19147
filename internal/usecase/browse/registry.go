package browse

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/browsekit/internal/domain"
)

// Registry holds live sessions by id for the HTTP surface.
type Registry[R any] struct {
	mu       sync.Mutex
	sessions map[string]*entry[R]
	max      int
	idle     time.Duration
	now      func() time.Time
	logger   *zap.Logger
	onSize   func(int)
}

type entry[R any] struct {
	session *Session[R]
	label   string
	touched time.Time
}

// RegistryOption configures a Registry.
type RegistryOption[R any] func(*Registry[R])

// WithClock overrides the time source used for idle eviction.
func WithClock[R any](now func() time.Time) RegistryOption[R] {
	return func(r *Registry[R]) { r.now = now }
}

// WithSizeObserver reports the number of live sessions after every change.
func WithSizeObserver[R any](fn func(int)) RegistryOption[R] {
	return func(r *Registry[R]) { r.onSize = fn }
}

// NewRegistry creates a registry bounded to maxSessions entries. Sessions
// untouched for idle are closed by Sweep; zero idle disables eviction.
func NewRegistry[R any](maxSessions int, idle time.Duration, logger *zap.Logger, opts ...RegistryOption[R]) *Registry[R] {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry[R]{
		sessions: make(map[string]*entry[R]),
		max:      maxSessions,
		idle:     idle,
		now:      time.Now,
		logger:   logger,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Add registers s under a fresh id. label is kept for logging.
func (r *Registry[R]) Add(s *Session[R], label string) (string, error) {
	r.mu.Lock()
	if r.max > 0 && len(r.sessions) >= r.max {
		r.mu.Unlock()
		return "", fmt.Errorf("%w: limit %d", domain.ErrTooManySessions, r.max)
	}
	id := uuid.NewString()
	r.sessions[id] = &entry[R]{session: s, label: label, touched: r.now()}
	n := len(r.sessions)
	r.mu.Unlock()

	r.observe(n)
	r.logger.Debug("session opened", zap.String("session_id", id), zap.String("label", label))
	return id, nil
}

// Get returns the session and marks it as used.
func (r *Registry[R]) Get(id string) (*Session[R], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	e.touched = r.now()
	return e.session, nil
}

// Delete closes and removes the session.
func (r *Registry[R]) Delete(id string) error {
	r.mu.Lock()
	e, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	n := len(r.sessions)
	r.mu.Unlock()

	if !ok {
		return domain.ErrSessionNotFound
	}
	e.session.Close()
	r.observe(n)
	r.logger.Debug("session closed", zap.String("session_id", id), zap.String("label", e.label))
	return nil
}

// Len returns the number of live sessions.
func (r *Registry[R]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep closes sessions idle longer than the configured timeout and
// returns how many were evicted.
func (r *Registry[R]) Sweep() int {
	if r.idle <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.idle)

	r.mu.Lock()
	var expired []*entry[R]
	for id, e := range r.sessions {
		if e.touched.Before(cutoff) {
			expired = append(expired, e)
			delete(r.sessions, id)
		}
	}
	n := len(r.sessions)
	r.mu.Unlock()

	for _, e := range expired {
		e.session.Close()
	}
	if len(expired) > 0 {
		r.observe(n)
		r.logger.Info("idle sessions evicted", zap.Int("count", len(expired)), zap.Int("active", n))
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done.
func (r *Registry[R]) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.Sweep()
		}
	}
}

// CloseAll closes every session.
func (r *Registry[R]) CloseAll() {
	r.mu.Lock()
	all := r.sessions
	r.sessions = make(map[string]*entry[R])
	r.mu.Unlock()

	for _, e := range all {
		e.session.Close()
	}
	r.observe(0)
}

func (r *Registry[R]) observe(n int) {
	if r.onSize != nil {
		r.onSize(n)
	}
}
