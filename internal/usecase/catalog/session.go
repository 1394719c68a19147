package catalog

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/browsekit/internal/domain"
	"github.com/kailas-cloud/browsekit/internal/domain/browse/grouping"
	"github.com/kailas-cloud/browsekit/internal/domain/browse/page"
	"github.com/kailas-cloud/browsekit/internal/domain/browse/query"
	domentity "github.com/kailas-cloud/browsekit/internal/domain/entity"
	domevent "github.com/kailas-cloud/browsekit/internal/domain/event"
	"github.com/kailas-cloud/browsekit/internal/usecase/browse"
	"github.com/kailas-cloud/browsekit/internal/usecase/pagination"
)

// SessionSpec describes a browse session over one entity kind.
// Zero numeric fields take the service defaults.
type SessionSpec struct {
	Kind         domentity.Kind
	Mode         pagination.Mode
	InitialCount int
	Step         int
	PageSize     int
	Capacity     int
	GroupByEvent bool
	Query        query.Query
	OnChange     func(browse.Snapshot[domentity.Entity])
}

// Source adapts the entity repository to a server-mode data source for kind.
func (s *Service) Source(kind domentity.Kind) browse.DataSource[domentity.Entity] {
	return browse.DataSourceFunc[domentity.Entity](func(ctx context.Context, p page.Params) (page.Page[domentity.Entity], error) {
		return s.entities.FetchPage(ctx, kind, p)
	})
}

// OpenSession builds a session over stored entities. Client mode loads the
// whole kind up front; server mode pages through the repository.
func (s *Service) OpenSession(ctx context.Context, spec SessionSpec) (*browse.Session[domentity.Entity], error) {
	if err := validKind(spec.Kind); err != nil {
		return nil, err
	}
	mode := spec.Mode
	if mode == "" {
		mode = pagination.ModeClient
	}
	if !mode.IsValid() {
		return nil, domain.NewFieldError("mode", fmt.Sprintf("unknown mode %q", mode))
	}

	opts := browse.Options[domentity.Entity]{
		Accessor: domentity.Accessor(),
		Pagination: pagination.Config{
			Mode:         mode,
			InitialCount: orDefault(spec.InitialCount, s.defaults.InitialCount),
			Step:         orDefault(spec.Step, s.defaults.RevealStep),
			PageSize:     orDefault(spec.PageSize, s.defaults.PageSize),
			MaxPageSize:  s.defaults.MaxPageSize,
		},
		Capacity: orDefault(spec.Capacity, s.defaults.SelectionCapacity),
		Debounce: time.Duration(s.defaults.DebounceMillis) * time.Millisecond,
		Query:    spec.Query,
		Logger:   s.logger.With(zap.String("kind", string(spec.Kind))),
		Recorder: s.recorder,
		OnChange: spec.OnChange,
	}

	if mode == pagination.ModeClient {
		records, err := s.entities.All(ctx, spec.Kind)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", spec.Kind, err)
		}
		opts.Records = records
	} else {
		opts.Source = s.Source(spec.Kind)
	}

	if spec.GroupByEvent {
		g, err := s.EventGrouping(ctx)
		if err != nil {
			return nil, err
		}
		opts.Grouping = g
	}

	sess, err := browse.New(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	return sess, nil
}

// EventGrouping partitions entities by parent event, newest event first.
// Events are loaded once; an entity whose event is unknown still forms a
// group, with nil metadata, sorted after dated groups.
func (s *Service) EventGrouping(ctx context.Context) (*grouping.Options[domentity.Entity], error) {
	events, err := s.events.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	byID := make(map[string]domevent.Event, len(events))
	for _, e := range events {
		byID[e.ID()] = e
	}

	return &grouping.Options[domentity.Entity]{
		KeyOf: domentity.Entity.EventID,
		MetaOf: func(key string, _ domentity.Entity) any {
			if e, ok := byID[key]; ok {
				return e
			}
			return nil
		},
		GroupCompare: grouping.NewestFirst(func(g grouping.Group[domentity.Entity]) time.Time {
			if e, ok := g.Meta.(domevent.Event); ok {
				return e.StartsAt()
			}
			return time.Time{}
		}),
	}, nil
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
