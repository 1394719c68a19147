package browse

import (
	"context"
	"time"

	"github.com/kailas-cloud/browsekit/internal/domain/browse/page"
)

// DataSource serves server-mode pages. It is trusted to apply the query
// (text, facets, sort) itself; the session never filters its results.
type DataSource[R any] interface {
	FetchPage(ctx context.Context, p page.Params) (page.Page[R], error)
}

// DataSourceFunc adapts a function to DataSource.
type DataSourceFunc[R any] func(ctx context.Context, p page.Params) (page.Page[R], error)

// FetchPage calls f.
func (f DataSourceFunc[R]) FetchPage(ctx context.Context, p page.Params) (page.Page[R], error) {
	return f(ctx, p)
}

// FetchResult labels the outcome of a page fetch.
type FetchResult string

// Fetch outcomes.
const (
	FetchOK    FetchResult = "ok"
	FetchError FetchResult = "error"
	// FetchStale marks a completion discarded because the query or page moved on.
	FetchStale FetchResult = "stale"
)

// Recorder receives session telemetry.
type Recorder interface {
	Fetch(result FetchResult, d time.Duration)
	SelectionRejected()
}

type nopRecorder struct{}

func (nopRecorder) Fetch(FetchResult, time.Duration) {}
func (nopRecorder) SelectionRejected()               {}
