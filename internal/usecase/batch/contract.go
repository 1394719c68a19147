package batch

import (
	"context"

	domentity "github.com/kailas-cloud/browsekit/internal/domain/entity"
	domevent "github.com/kailas-cloud/browsekit/internal/domain/event"
)

// EntityUpserter creates or updates an entity in storage.
type EntityUpserter interface {
	Upsert(ctx context.Context, e domentity.Entity) (created bool, err error)
}

// EntityDeleter deletes an entity from storage.
type EntityDeleter interface {
	Delete(ctx context.Context, kind domentity.Kind, id string) error
}

// EventReader reads events for existence checks.
type EventReader interface {
	Get(ctx context.Context, id string) (domevent.Event, error)
}
