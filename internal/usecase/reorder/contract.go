package reorder

import (
	"context"

	domreorder "github.com/kailas-cloud/browsekit/internal/domain/reorder"
)

// Repository defines the storage contract for manual orderings.
type Repository interface {
	Get(ctx context.Context, p domreorder.Partition) ([]domreorder.Assignment, error)
	Replace(ctx context.Context, p domreorder.Partition, assignments []domreorder.Assignment) error
}

// Recorder receives reorder telemetry.
type Recorder interface {
	ReorderCommitted()
}

type nopRecorder struct{}

func (nopRecorder) ReorderCommitted() {}
