package entity

import (
	"context"
	"fmt"
	"slices"

	"github.com/kailas-cloud/browsekit/internal/domain"
	"github.com/kailas-cloud/browsekit/internal/domain/browse/filter"
	"github.com/kailas-cloud/browsekit/internal/domain/browse/page"
	domentity "github.com/kailas-cloud/browsekit/internal/domain/entity"
)

// store is the consumer interface for entities (ISP).
type store interface {
	HReplace(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements usecase/catalog.EntityRepository.
type Repo struct {
	store  store
	prefix string
}

// New creates an entity repository. An empty prefix uses domain.KeyPrefix.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = domain.KeyPrefix
	}
	return &Repo{store: s, prefix: prefix}
}

// Upsert stores an entity, replacing every previously stored field.
// Reports whether the entity was created.
func (r *Repo) Upsert(ctx context.Context, e domentity.Entity) (bool, error) {
	key := r.key(e.Kind(), e.ID())
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check exists: %w", err)
	}
	if err := r.store.HReplace(ctx, key, entityToHash(e)); err != nil {
		return false, fmt.Errorf("store %s %s: %w", e.Kind(), e.ID(), err)
	}
	return !exists, nil
}

// Get retrieves an entity.
func (r *Repo) Get(ctx context.Context, kind domentity.Kind, id string) (domentity.Entity, error) {
	m, err := r.store.HGetAll(ctx, r.key(kind, id))
	if err != nil {
		return domentity.Entity{}, fmt.Errorf("hgetall %s %s: %w", kind, id, err)
	}
	if len(m) == 0 {
		return domentity.Entity{}, domain.ErrNotFound
	}
	return entityFromHash(m)
}

// Delete removes an entity.
func (r *Repo) Delete(ctx context.Context, kind domentity.Kind, id string) error {
	key := r.key(kind, id)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s %s: %w", kind, id, err)
	}
	return nil
}

// All returns every entity of a kind ordered by id. Unparseable hashes are skipped.
func (r *Repo) All(ctx context.Context, kind domentity.Kind) ([]domentity.Entity, error) {
	keys, err := r.store.Scan(ctx, r.key(kind, "*"))
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", kind, err)
	}
	if len(keys) == 0 {
		return []domentity.Entity{}, nil
	}
	slices.Sort(keys)

	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi %s: %w", kind, err)
	}

	out := make([]domentity.Entity, 0, len(results))
	for _, m := range results {
		if len(m) == 0 {
			continue
		}
		e, err := entityFromHash(m)
		if err != nil {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// FetchPage serves one filtered, sorted page of a kind.
func (r *Repo) FetchPage(ctx context.Context, kind domentity.Kind, p page.Params) (page.Page[domentity.Entity], error) {
	all, err := r.All(ctx, kind)
	if err != nil {
		return page.Page[domentity.Entity]{}, err
	}
	acc := domentity.Accessor()
	matched := filter.ApplySorted(all, p.Query(), filter.DefaultSorters(acc), acc)
	return page.Slice(matched, p), nil
}

func (r *Repo) key(kind domentity.Kind, id string) string {
	return fmt.Sprintf("%sentity:%s:%s", r.prefix, kind, id)
}
