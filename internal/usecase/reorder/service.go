package reorder

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/kailas-cloud/browsekit/internal/domain"
	domreorder "github.com/kailas-cloud/browsekit/internal/domain/reorder"
)

// MaxItems bounds the size of one partition.
const MaxItems = 10_000

// Service loads and persists drag orderings per partition.
type Service struct {
	repo     Repository
	recorder Recorder
	logger   *zap.Logger
}

// New creates a reorder service.
func New(repo Repository) *Service {
	return &Service{repo: repo, recorder: nopRecorder{}, logger: zap.NewNop()}
}

// WithRecorder sets the telemetry sink.
func (s *Service) WithRecorder(r Recorder) *Service {
	if r != nil {
		s.recorder = r
	}
	return s
}

// WithLogger sets the service logger.
func (s *Service) WithLogger(l *zap.Logger) *Service {
	if l != nil {
		s.logger = l
	}
	return s
}

// Order returns the stored order of a partition, empty if none was committed.
func (s *Service) Order(ctx context.Context, p domreorder.Partition) ([]string, error) {
	if err := validPartition(p); err != nil {
		return nil, err
	}
	assignments, err := s.repo.Get(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	return domreorder.Order(assignments), nil
}

// Commit persists order as the partition's dense assignments and returns them.
func (s *Service) Commit(ctx context.Context, p domreorder.Partition, order []string) ([]domreorder.Assignment, error) {
	if err := validPartition(p); err != nil {
		return nil, err
	}
	if len(order) > MaxItems {
		return nil, domain.NewFieldError("order", fmt.Sprintf("too many items (max %d)", MaxItems))
	}
	assignments := domreorder.Assign(order)
	if err := domreorder.Validate(assignments); err != nil {
		return nil, fmt.Errorf("validate order: %w: %w", domain.ErrInvalidRequest, err)
	}
	if err := s.repo.Replace(ctx, p, assignments); err != nil {
		return nil, fmt.Errorf("commit order: %w", err)
	}
	s.recorder.ReorderCommitted()
	s.logger.Debug("order committed", zap.String("partition", string(p)), zap.Int("items", len(assignments)))
	return assignments, nil
}

// Move drags fromID into overID's slot in the stored order and persists the
// result. Moving an id over itself leaves the order untouched.
func (s *Service) Move(ctx context.Context, p domreorder.Partition, fromID, overID string) ([]string, error) {
	current, err := s.Order(ctx, p)
	if err != nil {
		return nil, err
	}
	for _, id := range []string{fromID, overID} {
		if !slices.Contains(current, id) {
			return nil, fmt.Errorf("move in %s: %q: %w", p, id, domain.ErrNotFound)
		}
	}
	if fromID == overID {
		return current, nil
	}

	next := domreorder.Move(current, fromID, overID)
	if _, err := s.Commit(ctx, p, next); err != nil {
		return nil, err
	}
	return next, nil
}

func validPartition(p domreorder.Partition) error {
	if p == "" {
		return domain.NewFieldError("partition", "partition is required")
	}
	return nil
}
