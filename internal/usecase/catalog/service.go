package catalog

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/browsekit/internal/domain"
	"github.com/kailas-cloud/browsekit/internal/domain/browse/page"
	"github.com/kailas-cloud/browsekit/internal/domain/browse/query"
	domentity "github.com/kailas-cloud/browsekit/internal/domain/entity"
	domevent "github.com/kailas-cloud/browsekit/internal/domain/event"
	"github.com/kailas-cloud/browsekit/internal/usecase/browse"
)

// Service handles entity and event CRUD and opens browse sessions over them.
type Service struct {
	entities EntityRepository
	events   EventRepository
	defaults domain.BrowseDefaults
	logger   *zap.Logger
	recorder browse.Recorder
}

// New creates a catalog service.
func New(entities EntityRepository, events EventRepository) *Service {
	return &Service{
		entities: entities,
		events:   events,
		defaults: domain.DefaultBrowseConfig(),
		logger:   zap.NewNop(),
	}
}

// WithDefaults overrides the browse defaults used for paging and sessions.
func (s *Service) WithDefaults(d domain.BrowseDefaults) *Service {
	s.defaults = d
	return s
}

// WithLogger sets the logger passed to sessions.
func (s *Service) WithLogger(l *zap.Logger) *Service {
	if l != nil {
		s.logger = l
	}
	return s
}

// WithRecorder sets the telemetry sink passed to sessions.
func (s *Service) WithRecorder(r browse.Recorder) *Service {
	s.recorder = r
	return s
}

// EntityInput carries the caller-supplied fields of an entity.
type EntityInput struct {
	Name    string
	EventID string
	Fields  map[string]string
	Facets  map[string]string
}

// PutEntity validates and stores an entity. Reports whether it was created.
func (s *Service) PutEntity(ctx context.Context, kind domentity.Kind, id string, in EntityInput) (domentity.Entity, bool, error) {
	e, err := domentity.New(kind, id, in.Name, in.EventID, in.Fields, in.Facets)
	if err != nil {
		return domentity.Entity{}, false, fmt.Errorf("validate entity: %w: %w", domain.ErrInvalidRequest, err)
	}
	created, err := s.entities.Upsert(ctx, e)
	if err != nil {
		return domentity.Entity{}, false, fmt.Errorf("put entity: %w", err)
	}
	return e, created, nil
}

// GetEntity retrieves an entity.
func (s *Service) GetEntity(ctx context.Context, kind domentity.Kind, id string) (domentity.Entity, error) {
	if err := validKind(kind); err != nil {
		return domentity.Entity{}, err
	}
	e, err := s.entities.Get(ctx, kind, id)
	if err != nil {
		return domentity.Entity{}, fmt.Errorf("get entity: %w", err)
	}
	return e, nil
}

// DeleteEntity removes an entity.
func (s *Service) DeleteEntity(ctx context.Context, kind domentity.Kind, id string) error {
	if err := validKind(kind); err != nil {
		return err
	}
	if err := s.entities.Delete(ctx, kind, id); err != nil {
		return fmt.Errorf("delete entity: %w", err)
	}
	return nil
}

// ListPage returns one filtered page of a kind. Page defaults to 1 and the
// page size is clamped to the configured maximum.
func (s *Service) ListPage(ctx context.Context, kind domentity.Kind, q query.Query, pageNum, pageSize int) (page.Page[domentity.Entity], error) {
	if err := validKind(kind); err != nil {
		return page.Page[domentity.Entity]{}, err
	}
	if err := q.Validate(); err != nil {
		return page.Page[domentity.Entity]{}, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	if pageNum < 1 {
		pageNum = 1
	}
	pageSize = s.ClampPageSize(pageSize)

	p, err := s.entities.FetchPage(ctx, kind, page.ParamsFor(q, pageNum, pageSize))
	if err != nil {
		return page.Page[domentity.Entity]{}, fmt.Errorf("list %s: %w", kind, err)
	}
	return p, nil
}

// PutEvent validates and stores an event.
func (s *Service) PutEvent(ctx context.Context, id, name string, startsAt time.Time) (domevent.Event, error) {
	e, err := domevent.New(id, name, startsAt)
	if err != nil {
		return domevent.Event{}, fmt.Errorf("validate event: %w: %w", domain.ErrInvalidRequest, err)
	}
	if err := s.events.Put(ctx, e); err != nil {
		return domevent.Event{}, fmt.Errorf("put event: %w", err)
	}
	return e, nil
}

// GetEvent retrieves an event.
func (s *Service) GetEvent(ctx context.Context, id string) (domevent.Event, error) {
	e, err := s.events.Get(ctx, id)
	if err != nil {
		return domevent.Event{}, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// ClampPageSize applies the default and maximum page size.
func (s *Service) ClampPageSize(size int) int {
	if size <= 0 {
		size = s.defaults.PageSize
	}
	if s.defaults.MaxPageSize > 0 && size > s.defaults.MaxPageSize {
		size = s.defaults.MaxPageSize
	}
	return size
}

func validKind(kind domentity.Kind) error {
	if !kind.IsValid() {
		return domain.NewFieldError("kind", fmt.Sprintf("unknown kind %q", kind))
	}
	return nil
}
