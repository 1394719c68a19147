package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/kailas-cloud/browsekit/internal/db"
	"github.com/kailas-cloud/browsekit/internal/domain"
	domevent "github.com/kailas-cloud/browsekit/internal/domain/event"
)

// store is the consumer interface for events (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// eventRow is the JSON-serializable representation stored under one key.
type eventRow struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	StartsAt time.Time `json:"starts_at"`
}

// Repo implements usecase/catalog.EventRepository.
type Repo struct {
	store  store
	prefix string
}

// New creates an event repository. An empty prefix uses domain.KeyPrefix.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = domain.KeyPrefix
	}
	return &Repo{store: s, prefix: prefix}
}

// Put stores an event.
func (r *Repo) Put(ctx context.Context, e domevent.Event) error {
	data, err := json.Marshal(eventRow{ID: e.ID(), Name: e.Name(), StartsAt: e.StartsAt()})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := r.store.Set(ctx, r.key(e.ID()), data); err != nil {
		return fmt.Errorf("set event %s: %w", e.ID(), err)
	}
	return nil
}

// Get retrieves an event.
func (r *Repo) Get(ctx context.Context, id string) (domevent.Event, error) {
	data, err := r.store.Get(ctx, r.key(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domevent.Event{}, domain.ErrEventNotFound
		}
		return domevent.Event{}, fmt.Errorf("get event %s: %w", id, err)
	}
	return decode(data)
}

// Delete removes an event.
func (r *Repo) Delete(ctx context.Context, id string) error {
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}
	if err := r.store.Del(ctx, r.key(id)); err != nil {
		return fmt.Errorf("del event %s: %w", id, err)
	}
	return nil
}

// List returns every stored event ordered by id. Events removed between
// the scan and the read are skipped.
func (r *Repo) List(ctx context.Context) ([]domevent.Event, error) {
	keys, err := r.store.Scan(ctx, r.key("*"))
	if err != nil {
		return nil, fmt.Errorf("scan events: %w", err)
	}
	slices.Sort(keys)

	out := make([]domevent.Event, 0, len(keys))
	for _, key := range keys {
		data, err := r.store.Get(ctx, key)
		if errors.Is(err, db.ErrKeyNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get %s: %w", key, err)
		}
		e, err := decode(data)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func decode(data []byte) (domevent.Event, error) {
	var row eventRow
	if err := json.Unmarshal(data, &row); err != nil {
		return domevent.Event{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return domevent.Reconstruct(row.ID, row.Name, row.StartsAt), nil
}

func (r *Repo) key(id string) string {
	return fmt.Sprintf("%sevent:%s", r.prefix, id)
}
