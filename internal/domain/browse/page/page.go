package page

import (
	"fmt"
	"strconv"

	"github.com/kailas-cloud/browsekit/internal/domain/browse/query"
)

// TotalUnknown marks a page whose total is not known (client mode).
const TotalUnknown = -1

// Page is one slice of a result set.
type Page[R any] struct {
	Items  []R
	Total  int
	Cursor string
}

// Known reports whether the total count is known.
func (p Page[R]) Known() bool { return p.Total >= 0 }

// Validate checks the page invariants against the requested page size.
func (p Page[R]) Validate(pageSize int) error {
	if pageSize > 0 && len(p.Items) > pageSize {
		return fmt.Errorf("page has %d items, page size is %d", len(p.Items), pageSize)
	}
	if p.Known() && p.Total < len(p.Items) {
		return fmt.Errorf("page total %d is less than item count %d", p.Total, len(p.Items))
	}
	return nil
}

// Params is the request handed to a data source for one server-mode page.
type Params struct {
	Text     string
	Facets   map[string]string
	Sort     query.SortKey
	Page     int
	PageSize int
}

// ParamsFor builds fetch parameters from a query. Only constraining facets are sent.
func ParamsFor(q query.Query, pageNum, pageSize int) Params {
	return Params{
		Text:     q.Text(),
		Facets:   q.ActiveFacets(),
		Sort:     q.Sort(),
		Page:     pageNum,
		PageSize: pageSize,
	}
}

// Query rebuilds the query the params were built from.
func (p Params) Query() query.Query {
	return query.New(p.Text, p.Facets, p.Sort)
}

// Offset returns the zero-based index of the first item of the page.
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// Slice cuts the requested page out of a fully filtered and sorted list.
func Slice[R any](all []R, p Params) Page[R] {
	total := len(all)
	start := p.Offset()
	if start >= total || p.PageSize <= 0 {
		return Page[R]{Total: total}
	}
	end := min(start+p.PageSize, total)
	out := Page[R]{Items: all[start:end:end], Total: total}
	if end < total {
		out.Cursor = strconv.Itoa(p.Page + 1)
	}
	return out
}
