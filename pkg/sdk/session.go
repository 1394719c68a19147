package browsekit

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/browsekit/internal/domain"
	"github.com/kailas-cloud/browsekit/internal/domain/browse/grouping"
	"github.com/kailas-cloud/browsekit/internal/usecase/browse"
	"github.com/kailas-cloud/browsekit/internal/usecase/pagination"
)

// NewClientSession creates a session that filters, sorts and reveals records
// held in memory. Use Session.Load to replace the list later.
func NewClientSession[R any](ctx context.Context, acc Accessor[R], records []R, opts ...Option) (*Session[R], error) {
	return newSession(ctx, "new_client_session", acc, pagination.ModeClient, records, nil, opts)
}

// NewServerSession creates a session that pages through src. The first page
// is requested immediately; Session.Wait blocks until it lands.
func NewServerSession[R any](ctx context.Context, acc Accessor[R], src DataSource[R], opts ...Option) (*Session[R], error) {
	return newSession(ctx, "new_server_session", acc, pagination.ModeServer, nil, src, opts)
}

func newSession[R any](
	ctx context.Context,
	op string,
	acc Accessor[R],
	mode Mode,
	records []R,
	src DataSource[R],
	opts []Option,
) (sess *Session[R], err error) {
	cfg := &sessionConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}
	defer func(start time.Time) { obs.observe(op, start, err) }(time.Now())

	bo := browse.Options[R]{
		Accessor: acc,
		Pagination: pagination.Config{
			Mode:         mode,
			InitialCount: cfg.initialCount,
			Step:         cfg.step,
			PageSize:     cfg.pageSize,
			MaxPageSize:  cfg.maxPageSize,
		},
		Capacity: cfg.capacity,
		Debounce: cfg.debounce,
		Source:   src,
		Records:  records,
		Query:    cfg.query,
		Recorder: obs,
	}
	if err := typed(cfg.sorters, "WithSorters", &bo.Sorters); err != nil {
		return nil, err
	}
	if err := typed(cfg.grouping, "WithGrouping", &bo.Grouping); err != nil {
		return nil, err
	}
	if err := typed(cfg.onChange, "WithOnChange", &bo.OnChange); err != nil {
		return nil, err
	}

	sess, err = browse.New(ctx, bo)
	if err != nil {
		return nil, fmt.Errorf("browsekit: %w", err)
	}
	return sess, nil
}

// typed stores v into dst when v was built for the session's record type.
func typed[T any](v any, option string, dst *T) error {
	if v == nil {
		return nil
	}
	t, ok := v.(T)
	if !ok {
		return fmt.Errorf("browsekit: %w: %s built for %T, session needs %T", domain.ErrInvalidRequest, option, v, *dst)
	}
	*dst = t
	return nil
}

// NewestFirst orders groups by a time derived from the group, latest first.
// Groups with a zero time sort last.
func NewestFirst[R any](when func(Group[R]) time.Time) func(a, b Group[R]) int {
	return grouping.NewestFirst(when)
}
