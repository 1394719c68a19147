package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"

	gochi "github.com/go-chi/chi/v5"

	"github.com/kailas-cloud/browsekit/internal/domain"
	"github.com/kailas-cloud/browsekit/internal/domain/browse/filter"
	"github.com/kailas-cloud/browsekit/internal/domain/browse/page"
	domentity "github.com/kailas-cloud/browsekit/internal/domain/entity"
	domevent "github.com/kailas-cloud/browsekit/internal/domain/event"
	domreorder "github.com/kailas-cloud/browsekit/internal/domain/reorder"
	batchuc "github.com/kailas-cloud/browsekit/internal/usecase/batch"
	"github.com/kailas-cloud/browsekit/internal/usecase/browse"
	cataloguc "github.com/kailas-cloud/browsekit/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/browsekit/internal/usecase/health"
	reorderuc "github.com/kailas-cloud/browsekit/internal/usecase/reorder"
)

// --- In-memory repositories ---

type memEntities struct {
	mu   sync.Mutex
	data map[string]domentity.Entity
}

func newMemEntities() *memEntities {
	return &memEntities{data: make(map[string]domentity.Entity)}
}

func entityKey(kind domentity.Kind, id string) string { return string(kind) + "/" + id }

func (m *memEntities) Upsert(_ context.Context, e domentity.Entity) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := entityKey(e.Kind(), e.ID())
	_, exists := m.data[k]
	m.data[k] = e
	return !exists, nil
}

func (m *memEntities) Get(_ context.Context, kind domentity.Kind, id string) (domentity.Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.data[entityKey(kind, id)]
	if !ok {
		return domentity.Entity{}, domain.ErrNotFound
	}
	return e, nil
}

func (m *memEntities) Delete(_ context.Context, kind domentity.Kind, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := entityKey(kind, id)
	if _, ok := m.data[k]; !ok {
		return domain.ErrNotFound
	}
	delete(m.data, k)
	return nil
}

func (m *memEntities) All(_ context.Context, kind domentity.Kind) ([]domentity.Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domentity.Entity
	for _, e := range m.data {
		if e.Kind() == kind {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b domentity.Entity) int { return strings.Compare(a.ID(), b.ID()) })
	return out, nil
}

func (m *memEntities) FetchPage(ctx context.Context, kind domentity.Kind, p page.Params) (page.Page[domentity.Entity], error) {
	all, _ := m.All(ctx, kind)
	acc := domentity.Accessor()
	return page.Slice(filter.ApplySorted(all, p.Query(), filter.DefaultSorters(acc), acc), p), nil
}

type memEvents struct {
	mu   sync.Mutex
	data map[string]domevent.Event
}

func (m *memEvents) Put(_ context.Context, e domevent.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[e.ID()] = e
	return nil
}

func (m *memEvents) Get(_ context.Context, id string) (domevent.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.data[id]
	if !ok {
		return domevent.Event{}, domain.ErrEventNotFound
	}
	return e, nil
}

func (m *memEvents) List(_ context.Context) ([]domevent.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domevent.Event, 0, len(m.data))
	for _, e := range m.data {
		out = append(out, e)
	}
	return out, nil
}

type memOrders struct {
	mu   sync.Mutex
	data map[domreorder.Partition][]domreorder.Assignment
}

func (m *memOrders) Get(_ context.Context, p domreorder.Partition) ([]domreorder.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.data[p]), nil
}

func (m *memOrders) Replace(_ context.Context, p domreorder.Partition, a []domreorder.Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[p] = slices.Clone(a)
	return nil
}

type mockPinger struct{ err error }

func (m *mockPinger) Ping(context.Context) error { return m.err }

// --- Harness ---

type testAPI struct {
	router   http.Handler
	entities *memEntities
	sessions *browse.Registry[domentity.Entity]
	pinger   *mockPinger
}

func newTestAPI(t *testing.T, maxSessions int) *testAPI {
	t.Helper()
	entities := newMemEntities()
	events := &memEvents{data: make(map[string]domevent.Event)}
	orders := &memOrders{data: make(map[domreorder.Partition][]domreorder.Assignment)}
	pinger := &mockPinger{}

	registry := browse.NewRegistry[domentity.Entity](maxSessions, 0, nil)
	t.Cleanup(registry.CloseAll)

	srv := NewServer(
		cataloguc.New(entities, events),
		batchuc.New(entities, entities, events),
		reorderuc.New(orders),
		registry,
		healthuc.New(pinger).WithCheck("sessions", func(context.Context) error {
			if registry.Len() > 1000 {
				return errors.New("too many sessions")
			}
			return nil
		}),
		nil,
	)
	r := gochi.NewRouter()
	srv.Mount(r)
	return &testAPI{router: r, entities: entities, sessions: registry, pinger: pinger}
}

func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader = http.NoBody
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rr.Body.String())
	}
	return v
}

func (a *testAPI) seed(t *testing.T, kind, id, name string, facets map[string]string) {
	t.Helper()
	rr := a.do(t, http.MethodPut, "/entities/"+kind+"/"+id, EntityRequest{Name: name, Facets: facets})
	if rr.Code != http.StatusCreated {
		t.Fatalf("seed %s: got %d: %s", id, rr.Code, rr.Body.String())
	}
}

func respIDs(items []EntityResponse) []string {
	out := make([]string, len(items))
	for i, e := range items {
		out[i] = e.ID
	}
	return out
}

var errTest = errors.New("connection refused")

func httptestRecorder() *httptest.ResponseRecorder { return httptest.NewRecorder() }
