package order

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/kailas-cloud/browsekit/internal/domain"
	"github.com/kailas-cloud/browsekit/internal/domain/reorder"
)

// store is the consumer interface for manual orderings (ISP).
type store interface {
	HReplace(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// Repo implements usecase/reorder.Repository. Each partition is one hash
// of id to position.
type Repo struct {
	store  store
	prefix string
}

// New creates an order repository. An empty prefix uses domain.KeyPrefix.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = domain.KeyPrefix
	}
	return &Repo{store: s, prefix: prefix}
}

// Get returns the stored assignments sorted by position. An unknown
// partition has no assignments.
func (r *Repo) Get(ctx context.Context, p reorder.Partition) ([]reorder.Assignment, error) {
	m, err := r.store.HGetAll(ctx, r.key(p))
	if err != nil {
		return nil, fmt.Errorf("hgetall order %s: %w", p, err)
	}
	out := make([]reorder.Assignment, 0, len(m))
	for id, v := range m {
		pos, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("order %s: invalid position %q for %s", p, v, id)
		}
		out = append(out, reorder.Assignment{ID: id, Order: pos})
	}
	slices.SortFunc(out, func(a, b reorder.Assignment) int { return a.Order - b.Order })
	return out, nil
}

// Replace swaps the whole partition for assignments.
func (r *Repo) Replace(ctx context.Context, p reorder.Partition, assignments []reorder.Assignment) error {
	fields := make(map[string]string, len(assignments))
	for _, a := range assignments {
		fields[a.ID] = strconv.Itoa(a.Order)
	}
	if err := r.store.HReplace(ctx, r.key(p), fields); err != nil {
		return fmt.Errorf("replace order %s: %w", p, err)
	}
	return nil
}

func (r *Repo) key(p reorder.Partition) string {
	return fmt.Sprintf("%sorder:%s", r.prefix, p)
}
