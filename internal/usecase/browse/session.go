package browse

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/browsekit/internal/domain"
	"github.com/kailas-cloud/browsekit/internal/domain/browse/filter"
	"github.com/kailas-cloud/browsekit/internal/domain/browse/grouping"
	"github.com/kailas-cloud/browsekit/internal/domain/browse/page"
	"github.com/kailas-cloud/browsekit/internal/domain/browse/query"
	"github.com/kailas-cloud/browsekit/internal/domain/browse/selection"
	"github.com/kailas-cloud/browsekit/internal/domain/record"
	"github.com/kailas-cloud/browsekit/internal/usecase/debounce"
	"github.com/kailas-cloud/browsekit/internal/usecase/pagination"
)

// Options configures a Session.
type Options[R any] struct {
	Accessor   record.Accessor[R]
	Pagination pagination.Config
	// Capacity bounds the comparison selection. Zero means selection.DefaultCapacity.
	Capacity int
	// Debounce is the quiet period for SetText. Zero means debounce.DefaultDelay.
	Debounce time.Duration
	Sorters  filter.Sorters[R]
	// Grouping enables grouped output over the visible items.
	Grouping *grouping.Options[R]
	// Source is required in server mode.
	Source DataSource[R]
	// Records is the initial list in client mode.
	Records []R
	// Query is the initial query.
	Query    query.Query
	Logger   *zap.Logger
	Recorder Recorder
	// OnChange receives every new snapshot. It runs outside the session lock
	// and may be called from timer and fetch goroutines; Version orders snapshots.
	OnChange func(Snapshot[R])
}

// Snapshot is the complete observable state of a session.
type Snapshot[R any] struct {
	Version      uint64
	Query        query.Query
	Mode         pagination.Mode
	VisibleItems []R
	Groups       []grouping.Group[R]
	Selection    []R
	IsLoading    bool
	HasMore      bool
	ErrorText    string
	// Total is the filtered length in client mode and the data source total
	// in server mode (page.TotalUnknown before the first page arrives).
	Total       int
	Page        int
	PageSize    int
	RevealCount int
}

type fetchRequest struct {
	seq    uint64
	query  query.Query
	page   int
	params page.Params
}

// Session is one browsing surface: a query, a paging strategy, a bounded
// selection and optional grouping, driven through a single set of mutations.
// A session has a single logical owner; its internal lock only lets the
// debounce timer and fetch goroutines deliver results.
type Session[R any] struct {
	acc      record.Accessor[R]
	sorters  filter.Sorters[R]
	grouping *grouping.Options[R]
	source   DataSource[R]
	logger   *zap.Logger
	recorder Recorder
	onChange func(Snapshot[R])
	text     *debounce.Debouncer[textInput]

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	closed   bool
	version  uint64
	textGen  uint64
	query    query.Query
	pager    *pagination.Controller
	sel      *selection.Set
	selected map[string]R

	// client mode
	all      []R
	byID     map[string]int
	filtered []R

	// server mode
	items []R
	total int
	// shownPage is the page items belong to; a failed fetch moves the pager back to it.
	shownPage int
	loading  bool
	errText  string
	fetchSeq uint64
	idle     chan struct{}
}

// New creates a session. In server mode the first page is requested
// immediately. ctx supplies values for fetches; its cancellation does not
// end the session, Close does.
func New[R any](ctx context.Context, opts Options[R]) (*Session[R], error) {
	if !opts.Accessor.Valid() {
		return nil, fmt.Errorf("%w: record accessor requires an ID projection", domain.ErrInvalidRequest)
	}
	pager, err := pagination.New(opts.Pagination)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	if pager.Mode() == pagination.ModeServer && opts.Source == nil {
		return nil, fmt.Errorf("%w: server mode requires a data source", domain.ErrInvalidRequest)
	}
	if err := opts.Query.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}

	sorters := opts.Sorters
	if sorters == nil {
		sorters = filter.DefaultSorters(opts.Accessor)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	recorder := opts.Recorder
	if recorder == nil {
		recorder = nopRecorder{}
	}

	base, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s := &Session[R]{
		acc:      opts.Accessor,
		sorters:  sorters,
		grouping: opts.Grouping,
		source:   opts.Source,
		logger:   logger.With(zap.String("mode", string(pager.Mode()))),
		recorder: recorder,
		onChange: opts.OnChange,
		ctx:      base,
		cancel:   cancel,
		query:    opts.Query,
		pager:    pager,
		sel:      selection.New(opts.Capacity),
		selected: make(map[string]R),
		total:    page.TotalUnknown,
		// server mode starts on the first page
		shownPage: pager.Page(),
	}
	s.text = debounce.New(opts.Debounce, s.applyText)

	s.mu.Lock()
	if pager.Mode() == pagination.ModeClient {
		s.loadLocked(opts.Records)
	} else {
		s.startFetchLocked()
	}
	s.mu.Unlock()

	return s, nil
}

// Mode returns the session's fixed paging strategy.
func (s *Session[R]) Mode() pagination.Mode { return s.pager.Mode() }

// Snapshot returns the current state.
func (s *Session[R]) Snapshot() Snapshot[R] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// SetText schedules a free-text change. The query updates once input has
// been quiet for the debounce delay.
func (s *Session[R]) SetText(text string) error {
	if len(text) > query.MaxTextLength {
		return domain.NewFieldError("text", fmt.Sprintf("too long (max %d bytes)", query.MaxTextLength))
	}
	s.mu.Lock()
	gen := s.textGen
	s.mu.Unlock()
	s.text.Schedule(textInput{text: text, gen: gen})
	return nil
}

// FlushText applies a pending SetText immediately. Reports whether one was pending.
func (s *Session[R]) FlushText() bool {
	return s.text.Flush()
}

// SetFacet sets a facet constraint immediately. "All" or "" clears it.
func (s *Session[R]) SetFacet(name, value string) error {
	if name == "" {
		return domain.NewFieldError("facet", "name is required")
	}
	var err error
	s.mutate(func() bool {
		next := s.query.WithFacet(name, value)
		if err = next.Validate(); err != nil {
			err = fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
			return false
		}
		return s.applyQueryLocked(next)
	})
	return err
}

// SetSort changes the sort key. In client mode the visible window is kept.
func (s *Session[R]) SetSort(key query.SortKey) {
	s.mutate(func() bool {
		return s.applyQueryLocked(s.query.WithSort(key))
	})
}

// RevealMore grows the client-mode window by one step. Redundant calls at
// the end of the list and calls in server mode are no-ops.
func (s *Session[R]) RevealMore() bool {
	var grew bool
	s.mutate(func() bool {
		grew = s.pager.RevealMore(len(s.filtered))
		return grew
	})
	return grew
}

// SetPage moves to page p in server mode and fetches it.
func (s *Session[R]) SetPage(p int) error {
	var err error
	s.mutate(func() bool {
		if s.pager.Mode() != pagination.ModeServer {
			err = domain.ErrWrongMode
			return false
		}
		var changed bool
		changed, err = s.pager.SetPage(p)
		if err != nil {
			err = fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
			return false
		}
		if changed {
			s.startFetchLocked()
		}
		return changed
	})
	return err
}

// Refresh refetches the current server page.
func (s *Session[R]) Refresh() error {
	var err error
	s.mutate(func() bool {
		if s.pager.Mode() != pagination.ModeServer {
			err = domain.ErrWrongMode
			return false
		}
		s.startFetchLocked()
		return true
	})
	return err
}

// Load replaces the client-mode record list. The reveal window restarts
// because the candidate set changed.
func (s *Session[R]) Load(records []R) error {
	var err error
	s.mutate(func() bool {
		if s.pager.Mode() != pagination.ModeClient {
			err = domain.ErrWrongMode
			return false
		}
		s.loadLocked(records)
		return true
	})
	return err
}

// ToggleSelect removes id from the selection or adds it when there is room.
// Unknown ids, ids of malformed records and additions beyond capacity are
// silent no-ops. Reports whether the selection changed.
func (s *Session[R]) ToggleSelect(id string) bool {
	var changed bool
	s.mutate(func() bool {
		if s.sel.Contains(id) {
			s.sel.Remove(id)
			delete(s.selected, id)
			changed = true
			return true
		}
		rec, ok := s.lookupLocked(id)
		if !ok {
			return false
		}
		if !s.sel.Add(id) {
			s.recorder.SelectionRejected()
			return false
		}
		s.selected[id] = rec
		changed = true
		return true
	})
	return changed
}

// Deselect removes id from the selection.
func (s *Session[R]) Deselect(id string) bool {
	var changed bool
	s.mutate(func() bool {
		changed = s.sel.Remove(id)
		delete(s.selected, id)
		return changed
	})
	return changed
}

// ClearSelection empties the selection.
func (s *Session[R]) ClearSelection() {
	s.mutate(func() bool {
		if s.sel.Len() == 0 {
			return false
		}
		s.sel.Clear()
		clear(s.selected)
		return true
	})
}

// Reset restores the empty query, clears the selection and restarts paging.
// A pending SetText is dropped.
func (s *Session[R]) Reset() {
	s.text.Cancel()
	s.mutate(func() bool {
		s.textGen++
		s.query = query.Empty()
		s.sel.Clear()
		clear(s.selected)
		s.pager.ResetWindow()
		if s.pager.Mode() == pagination.ModeClient {
			s.refilterLocked()
		} else {
			s.startFetchLocked()
		}
		return true
	})
}

// Wait blocks until no page fetch is outstanding.
func (s *Session[R]) Wait(ctx context.Context) error {
	for {
		s.mu.Lock()
		idle := s.idle
		s.mu.Unlock()
		if idle == nil {
			return nil
		}
		select {
		case <-idle:
		case <-ctx.Done():
			return fmt.Errorf("wait for page: %w", ctx.Err())
		}
	}
}

// Close stops the debouncer and abandons outstanding fetches.
func (s *Session[R]) Close() {
	s.text.Stop()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.cancel()
	s.loading = false
	if s.idle != nil {
		close(s.idle)
		s.idle = nil
	}
}

// mutate runs fn under the lock and publishes a snapshot when fn reports a change.
func (s *Session[R]) mutate(fn func() bool) {
	s.mu.Lock()
	if s.closed || !fn() {
		s.mu.Unlock()
		return
	}
	s.version++
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.publish(snap)
}

func (s *Session[R]) publish(snap Snapshot[R]) {
	if s.onChange != nil {
		s.onChange(snap)
	}
}

// textInput is a scheduled SetText tagged with the text generation it was typed in.
type textInput struct {
	text string
	gen  uint64
}

// applyText is the debouncer's settle callback. Input typed before a Reset
// is dropped even when its timer already fired.
func (s *Session[R]) applyText(in textInput) {
	s.mutate(func() bool {
		if in.gen != s.textGen {
			return false
		}
		return s.applyQueryLocked(s.query.WithText(in.text))
	})
}

// applyQueryLocked installs next. A filter change restarts paging; a
// sort-only change re-sorts the client list in place and keeps the window.
func (s *Session[R]) applyQueryLocked(next query.Query) bool {
	if next.Equal(s.query) {
		s.query = next
		return false
	}
	filterChanged := !next.SameFilter(s.query)
	s.query = next

	if s.pager.Mode() == pagination.ModeServer {
		s.pager.ResetWindow()
		s.startFetchLocked()
		return true
	}
	if filterChanged {
		s.pager.ResetWindow()
		s.refilterLocked()
	} else {
		filter.Sort(s.filtered, s.query.Sort(), s.sorters, s.acc)
	}
	return true
}

func (s *Session[R]) loadLocked(records []R) {
	s.all = slices.Clone(records)
	s.byID = make(map[string]int, len(s.all))
	for i, rec := range s.all {
		if id := s.acc.IDOf(rec); id != "" {
			if _, dup := s.byID[id]; !dup {
				s.byID[id] = i
			}
		}
	}
	for id := range s.selected {
		if i, ok := s.byID[id]; ok {
			s.selected[id] = s.all[i]
		}
	}
	s.pager.ResetWindow()
	s.refilterLocked()
}

func (s *Session[R]) refilterLocked() {
	s.filtered = filter.ApplySorted(s.all, s.query, s.sorters, s.acc)
}

func (s *Session[R]) lookupLocked(id string) (R, bool) {
	var zero R
	if id == "" {
		return zero, false
	}
	if s.pager.Mode() == pagination.ModeClient {
		i, ok := s.byID[id]
		if !ok {
			return zero, false
		}
		return s.all[i], true
	}
	for _, rec := range s.items {
		if s.acc.IDOf(rec) == id {
			return rec, true
		}
	}
	return zero, false
}

func (s *Session[R]) startFetchLocked() {
	s.fetchSeq++
	req := fetchRequest{
		seq:    s.fetchSeq,
		query:  s.query,
		page:   s.pager.Page(),
		params: page.ParamsFor(s.query, s.pager.Page(), s.pager.PageSize()),
	}
	s.loading = true
	if s.idle == nil {
		s.idle = make(chan struct{})
	}
	go s.fetch(req)
}

func (s *Session[R]) fetch(req fetchRequest) {
	start := time.Now()
	p, err := s.source.FetchPage(s.ctx, req.params)
	if err == nil {
		err = p.Validate(req.params.PageSize)
	}
	elapsed := time.Since(start)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if req.seq != s.fetchSeq || !req.query.Equal(s.query) || req.page != s.pager.Page() {
		s.mu.Unlock()
		s.recorder.Fetch(FetchStale, elapsed)
		s.logger.Debug("stale page discarded",
			zap.Uint64("seq", req.seq),
			zap.Int("page", req.page),
		)
		return
	}

	s.loading = false
	close(s.idle)
	s.idle = nil
	if err != nil {
		if s.pager.Page() != s.shownPage {
			_, _ = s.pager.SetPage(s.shownPage)
		}
		s.errText = fmt.Errorf("%w: %w", domain.ErrDataSource, err).Error()
		s.recorder.Fetch(FetchError, elapsed)
		s.logger.Warn("page fetch failed",
			zap.Int("page", req.page),
			zap.Duration("latency", elapsed),
			zap.Error(err),
		)
	} else {
		s.items = p.Items
		s.total = p.Total
		s.shownPage = req.page
		s.errText = ""
		s.recorder.Fetch(FetchOK, elapsed)
	}
	s.version++
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.publish(snap)
}

func (s *Session[R]) snapshotLocked() Snapshot[R] {
	snap := Snapshot[R]{
		Version:   s.version,
		Query:     s.query,
		Mode:      s.pager.Mode(),
		IsLoading: s.loading,
		ErrorText: s.errText,
	}

	if s.pager.Mode() == pagination.ModeClient {
		n := s.pager.Window(len(s.filtered))
		snap.VisibleItems = slices.Clone(s.filtered[:n])
		snap.Total = len(s.filtered)
		snap.HasMore = s.pager.HasMore(len(s.filtered))
		snap.RevealCount = n
	} else {
		snap.VisibleItems = slices.Clone(s.items)
		snap.Total = s.total
		snap.HasMore = s.pager.HasMore(s.total)
		snap.Page = s.pager.Page()
		snap.PageSize = s.pager.PageSize()
	}
	if snap.VisibleItems == nil {
		snap.VisibleItems = []R{}
	}

	if s.grouping != nil {
		snap.Groups = grouping.Partition(snap.VisibleItems, s.acc, *s.grouping)
	}

	ids := s.sel.IDs()
	snap.Selection = make([]R, 0, len(ids))
	for _, id := range ids {
		if rec, ok := s.selected[id]; ok {
			snap.Selection = append(snap.Selection, rec)
		}
	}
	return snap
}
