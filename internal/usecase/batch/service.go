package batch

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/browsekit/internal/domain"
	dombatch "github.com/kailas-cloud/browsekit/internal/domain/batch"
	domentity "github.com/kailas-cloud/browsekit/internal/domain/entity"
)

// MaxBatchSize is the maximum number of items per batch request.
const MaxBatchSize = 100

// Item is one entity in a batch import.
type Item struct {
	ID      string
	Name    string
	EventID string
	Fields  map[string]string
	Facets  map[string]string
}

// Service handles batch entity operations with per-item error reporting.
type Service struct {
	entities     EntityUpserter
	del          EntityDeleter
	events       EventReader
	maxBatchSize int
}

// New creates a batch service.
func New(entities EntityUpserter, del EntityDeleter, events EventReader) *Service {
	return &Service{
		entities:     entities,
		del:          del,
		events:       events,
		maxBatchSize: MaxBatchSize,
	}
}

// WithMaxBatchSize configures the maximum batch size.
func (s *Service) WithMaxBatchSize(size int) *Service {
	if size > 0 {
		s.maxBatchSize = size
	}
	return s
}

// Upsert creates or updates entities of one kind. Items referencing an
// unknown event fail individually; the rest are still stored.
func (s *Service) Upsert(ctx context.Context, kind domentity.Kind, items []Item) []dombatch.Result {
	results := make([]dombatch.Result, len(items))

	if err := s.checkBatch(kind, len(items)); err != nil {
		for i, item := range items {
			results[i] = dombatch.NewError(kind, item.ID, err)
		}
		return results
	}

	known := make(map[string]error)
	for i, item := range items {
		e, err := domentity.New(kind, item.ID, item.Name, item.EventID, item.Fields, item.Facets)
		if err != nil {
			results[i] = dombatch.NewError(kind, item.ID, fmt.Errorf("validate entity: %w: %w", domain.ErrInvalidRequest, err))
			continue
		}

		if err := s.checkEvent(ctx, e.EventID(), known); err != nil {
			if !errors.Is(err, domain.ErrEventNotFound) {
				// Storage failures cascade to the remaining items.
				for j := i; j < len(items); j++ {
					results[j] = dombatch.NewError(kind, items[j].ID, err)
				}
				return results
			}
			results[i] = dombatch.NewError(kind, item.ID, err)
			continue
		}

		if _, err := s.entities.Upsert(ctx, e); err != nil {
			results[i] = dombatch.NewError(kind, item.ID, fmt.Errorf("upsert: %w", err))
			continue
		}
		results[i] = dombatch.NewOK(kind, item.ID)
	}

	return results
}

// Delete removes entities by ID in batch.
func (s *Service) Delete(ctx context.Context, kind domentity.Kind, ids []string) []dombatch.Result {
	results := make([]dombatch.Result, len(ids))

	if err := s.checkBatch(kind, len(ids)); err != nil {
		for i, id := range ids {
			results[i] = dombatch.NewError(kind, id, err)
		}
		return results
	}

	for i, id := range ids {
		if err := s.del.Delete(ctx, kind, id); err != nil {
			results[i] = dombatch.NewError(kind, id, fmt.Errorf("delete: %w", err))
			continue
		}
		results[i] = dombatch.NewOK(kind, id)
	}

	return results
}

func (s *Service) checkBatch(kind domentity.Kind, n int) error {
	if !kind.IsValid() {
		return domain.NewFieldError("kind", fmt.Sprintf("unknown kind %q", kind))
	}
	if n > s.maxBatchSize {
		return fmt.Errorf("batch size exceeds %d: %w", s.maxBatchSize, domain.ErrInvalidRequest)
	}
	return nil
}

// checkEvent resolves eventID once per batch; known caches the outcome.
func (s *Service) checkEvent(ctx context.Context, eventID string, known map[string]error) error {
	if eventID == "" {
		return nil
	}
	if err, ok := known[eventID]; ok {
		return err
	}
	_, err := s.events.Get(ctx, eventID)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrEventNotFound):
		err = fmt.Errorf("event %q: %w", eventID, domain.ErrEventNotFound)
	default:
		err = fmt.Errorf("get event: %w", err)
	}
	known[eventID] = err
	return err
}
