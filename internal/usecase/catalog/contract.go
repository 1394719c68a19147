package catalog

import (
	"context"

	"github.com/kailas-cloud/browsekit/internal/domain/browse/page"
	domentity "github.com/kailas-cloud/browsekit/internal/domain/entity"
	domevent "github.com/kailas-cloud/browsekit/internal/domain/event"
)

// EntityRepository defines the storage contract for entities.
type EntityRepository interface {
	Upsert(ctx context.Context, e domentity.Entity) (bool, error)
	Get(ctx context.Context, kind domentity.Kind, id string) (domentity.Entity, error)
	Delete(ctx context.Context, kind domentity.Kind, id string) error
	All(ctx context.Context, kind domentity.Kind) ([]domentity.Entity, error)
	FetchPage(ctx context.Context, kind domentity.Kind, p page.Params) (page.Page[domentity.Entity], error)
}

// EventRepository defines the storage contract for events.
type EventRepository interface {
	Put(ctx context.Context, e domevent.Event) error
	Get(ctx context.Context, id string) (domevent.Event, error)
	List(ctx context.Context) ([]domevent.Event, error)
}
