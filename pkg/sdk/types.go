package browsekit

import (
	"github.com/kailas-cloud/browsekit/internal/domain/browse/filter"
	"github.com/kailas-cloud/browsekit/internal/domain/browse/grouping"
	"github.com/kailas-cloud/browsekit/internal/domain/browse/page"
	"github.com/kailas-cloud/browsekit/internal/domain/browse/query"
	"github.com/kailas-cloud/browsekit/internal/domain/record"
	"github.com/kailas-cloud/browsekit/internal/domain/reorder"
	"github.com/kailas-cloud/browsekit/internal/usecase/browse"
	"github.com/kailas-cloud/browsekit/internal/usecase/pagination"
)

// Accessor projects a record type for filtering, sorting and selection.
type Accessor[R any] = record.Accessor[R]

// Session is one browsing surface over records of type R.
type Session[R any] = browse.Session[R]

// Snapshot is the complete observable state of a Session.
type Snapshot[R any] = browse.Snapshot[R]

// DataSource serves server-mode pages.
type DataSource[R any] = browse.DataSource[R]

// DataSourceFunc adapts a function to DataSource.
type DataSourceFunc[R any] = browse.DataSourceFunc[R]

// Page is one slice of a result set returned by a DataSource.
type Page[R any] = page.Page[R]

// PageParams is the request handed to a DataSource.
type PageParams = page.Params

// Query is an immutable browse query.
type Query = query.Query

// SortKey names a sort order.
type SortKey = query.SortKey

// Sorters maps sort keys to comparators.
type Sorters[R any] = filter.Sorters[R]

// Comparator orders two records.
type Comparator[R any] = filter.Comparator[R]

// Grouping configures grouped output.
type Grouping[R any] = grouping.Options[R]

// Group is a named partition of visible records.
type Group[R any] = grouping.Group[R]

// Mode is a session's paging strategy.
type Mode = pagination.Mode

// Assignment is the persisted position of one id in a manual ordering.
type Assignment = reorder.Assignment

// Drag tracks one drag gesture over an ordering.
type Drag = reorder.Drag

// Paging modes.
const (
	ModeClient = pagination.ModeClient
	ModeServer = pagination.ModeServer
)

// Sort keys shared by the browsing pages.
const (
	SortDefault = query.SortDefault
	SortNameAsc = query.SortNameAsc
	SortNameDsc = query.SortNameDsc
)

// TotalUnknown marks a page whose total is not known.
const TotalUnknown = page.TotalUnknown

// AllValue is the facet value that removes a constraint.
const AllValue = query.AllValue

// NewQuery builds a query from text, facet constraints and a sort key.
func NewQuery(text string, facets map[string]string, sort SortKey) Query {
	return query.New(text, facets, sort)
}

// FacetSort returns the sort key ordering by a facet value.
func FacetSort(name string) SortKey { return query.FacetSort(name) }

// DefaultSorters returns the name and facet sorters for acc.
func DefaultSorters[R any](acc Accessor[R]) Sorters[R] { return filter.DefaultSorters(acc) }

// Filter applies q's text and facets to records, preserving order.
func Filter[R any](records []R, q Query, acc Accessor[R]) []R { return filter.Apply(records, q, acc) }

// SlicePage cuts one page out of a filtered and sorted list. Useful for
// DataSource implementations over in-memory data.
func SlicePage[R any](all []R, p PageParams) Page[R] { return page.Slice(all, p) }
