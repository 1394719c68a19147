// Package filter implements the browse predicate and ordering: free-text
// containment over a record's searchable fields, AND across facet
// constraints, and a stable sort with a locale-aware name tie-break.
package filter

import (
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/kailas-cloud/browsekit/internal/domain/browse/query"
	"github.com/kailas-cloud/browsekit/internal/domain/record"
)

// Matcher is a query compiled for repeated matching.
type Matcher struct {
	needle string
	facets map[string]string
}

// Compile normalizes the query text and active facets once.
func Compile(q query.Query) Matcher {
	active := q.ActiveFacets()
	facets := make(map[string]string, len(active))
	for name, v := range active {
		facets[name] = query.Normalize(v)
	}
	return Matcher{needle: query.Normalize(q.Text()), facets: facets}
}

// Match reports whether rec satisfies the compiled query.
func Match[R any](m Matcher, rec R, acc record.Accessor[R]) bool {
	if m.needle != "" {
		haystack := query.Normalize(strings.Join(acc.SearchableOf(rec), " "))
		if !strings.Contains(haystack, m.needle) {
			return false
		}
	}
	for name, want := range m.facets {
		if query.Normalize(acc.FacetOf(rec, name)) != want {
			return false
		}
	}
	return true
}

// Matches reports whether rec satisfies q.
func Matches[R any](rec R, q query.Query, acc record.Accessor[R]) bool {
	return Match(Compile(q), rec, acc)
}

// Apply returns the records matching q, preserving upstream order.
// The input slice is not modified.
func Apply[R any](records []R, q query.Query, acc record.Accessor[R]) []R {
	m := Compile(q)
	out := make([]R, 0, len(records))
	for _, rec := range records {
		if Match(m, rec, acc) {
			out = append(out, rec)
		}
	}
	return out
}

// Comparator orders two records; negative when a sorts first.
type Comparator[R any] func(a, b R) int

// Sorters maps sort keys to primary comparators.
type Sorters[R any] map[query.SortKey]Comparator[R]

// Sort stably orders records in place by the comparator registered for key.
// Ties on the primary comparator fall back to the record name under a
// case-insensitive collation. Unregistered facet keys sort by that facet;
// any other unknown key sorts by name ascending.
func Sort[R any](records []R, key query.SortKey, sorters Sorters[R], acc record.Accessor[R]) {
	primary, ok := sorters[key]
	if !ok || primary == nil {
		if facet, isFacet := key.FacetName(); isFacet {
			primary = ByFacet(acc, facet)
		} else {
			primary = ByName(acc)
		}
	}
	slices.SortStableFunc(records, func(a, b R) int {
		if c := primary(a, b); c != 0 {
			return c
		}
		return CompareNames(acc.NameOf(a), acc.NameOf(b))
	})
}

// Sorted returns a sorted copy of records.
func Sorted[R any](records []R, key query.SortKey, sorters Sorters[R], acc record.Accessor[R]) []R {
	out := slices.Clone(records)
	Sort(out, key, sorters, acc)
	return out
}

// ApplySorted filters then sorts.
func ApplySorted[R any](records []R, q query.Query, sorters Sorters[R], acc record.Accessor[R]) []R {
	out := Apply(records, q, acc)
	Sort(out, q.Sort(), sorters, acc)
	return out
}

// ByName orders records by display name, ascending.
func ByName[R any](acc record.Accessor[R]) Comparator[R] {
	return func(a, b R) int {
		return CompareNames(acc.NameOf(a), acc.NameOf(b))
	}
}

// ByNameDesc orders records by display name, descending.
func ByNameDesc[R any](acc record.Accessor[R]) Comparator[R] {
	return func(a, b R) int {
		return CompareNames(acc.NameOf(b), acc.NameOf(a))
	}
}

// ByFacet orders records by a facet value, ascending. Records without the
// facet sort last.
func ByFacet[R any](acc record.Accessor[R], name string) Comparator[R] {
	return func(a, b R) int {
		va, vb := acc.FacetOf(a, name), acc.FacetOf(b, name)
		switch {
		case va == "" && vb == "":
			return 0
		case va == "":
			return 1
		case vb == "":
			return -1
		}
		return CompareNames(va, vb)
	}
}

// DefaultSorters returns the name sorters every browsing page offers.
func DefaultSorters[R any](acc record.Accessor[R]) Sorters[R] {
	return Sorters[R]{
		query.SortDefault: ByName(acc),
		query.SortNameAsc: ByName(acc),
		query.SortNameDsc: ByNameDesc(acc),
	}
}

// Collators keep internal buffers and are not safe for concurrent use.
var collators = sync.Pool{
	New: func() any {
		return collate.New(language.Und, collate.IgnoreCase)
	},
}

// CompareNames compares two display names case-insensitively using the
// root locale collation.
func CompareNames(a, b string) int {
	c, _ := collators.Get().(*collate.Collator)
	defer collators.Put(c)
	return c.CompareString(strings.TrimSpace(a), strings.TrimSpace(b))
}
