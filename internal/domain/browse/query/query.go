package query

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Query limits and sentinels.
const (
	// MaxTextLength is the maximum accepted free-text length in bytes.
	MaxTextLength = 512
	// MaxFacets is the maximum number of facet constraints on one query.
	MaxFacets = 16
	// AllValue is the facet value the UI uses for "no constraint".
	AllValue = "All"
)

// SortKey names a sort order registered by the integration layer.
type SortKey string

// Sort key constants shared by the browsing pages.
const (
	// SortDefault sorts by display name ascending.
	SortDefault SortKey = ""
	SortNameAsc SortKey = "name_asc"
	SortNameDsc SortKey = "name_desc"
)

const facetSortPrefix = "facet:"

// FacetSort returns the key that sorts by a facet value.
func FacetSort(name string) SortKey { return SortKey(facetSortPrefix + name) }

// FacetName returns the facet a FacetSort key orders by.
func (k SortKey) FacetName() (string, bool) {
	name, ok := strings.CutPrefix(string(k), facetSortPrefix)
	return name, ok && name != ""
}

// Query is an immutable browse query: free text, facet constraints and sort key.
type Query struct {
	text   string
	facets map[string]string
	sort   SortKey
}

// New creates a Query. Facet values are kept verbatim; "All" and empty
// values are retained for display but never constrain matching.
func New(text string, facets map[string]string, sort SortKey) Query {
	return Query{text: text, facets: maps.Clone(facets), sort: sort}
}

// Empty returns the default query that matches everything.
func Empty() Query { return Query{} }

// Validate checks query limits.
func (q Query) Validate() error {
	if len(q.text) > MaxTextLength {
		return fmt.Errorf("query text too long (max %d bytes)", MaxTextLength)
	}
	if len(q.facets) > MaxFacets {
		return fmt.Errorf("too many facets (max %d)", MaxFacets)
	}
	for name := range q.facets {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("facet name is required")
		}
	}
	return nil
}

// Text returns the raw query text as typed.
func (q Query) Text() string { return q.text }

// Sort returns the sort key.
func (q Query) Sort() SortKey { return q.sort }

// Facets returns a copy of all facet values, including unconstrained ones.
func (q Query) Facets() map[string]string { return maps.Clone(q.facets) }

// Facet returns the raw value of a facet.
func (q Query) Facet(name string) string { return q.facets[name] }

// ActiveFacets returns the facets that constrain matching, keyed by name.
func (q Query) ActiveFacets() map[string]string {
	out := make(map[string]string, len(q.facets))
	for name, v := range q.facets {
		if Constrains(v) {
			out[name] = v
		}
	}
	return out
}

// WithText returns a copy with the given text.
func (q Query) WithText(text string) Query {
	q.facets = maps.Clone(q.facets)
	q.text = text
	return q
}

// WithFacet returns a copy with the facet set. An unconstrained value removes the facet.
func (q Query) WithFacet(name, value string) Query {
	facets := maps.Clone(q.facets)
	if facets == nil {
		facets = make(map[string]string, 1)
	}
	if Constrains(value) {
		facets[name] = value
	} else {
		delete(facets, name)
	}
	q.facets = facets
	return q
}

// WithSort returns a copy with the given sort key.
func (q Query) WithSort(sort SortKey) Query {
	q.facets = maps.Clone(q.facets)
	q.sort = sort
	return q
}

// IsEmpty reports whether the query matches everything.
func (q Query) IsEmpty() bool {
	return Normalize(q.text) == "" && len(q.ActiveFacets()) == 0
}

// SameFilter reports whether q and o select the same records (sort ignored).
func (q Query) SameFilter(o Query) bool {
	if Normalize(q.text) != Normalize(o.text) {
		return false
	}
	a, b := q.ActiveFacets(), o.ActiveFacets()
	if len(a) != len(b) {
		return false
	}
	for name, v := range a {
		ov, ok := b[name]
		if !ok || Normalize(v) != Normalize(ov) {
			return false
		}
	}
	return true
}

// Equal reports whether q and o select the same records in the same order.
func (q Query) Equal(o Query) bool {
	return q.sort == o.sort && q.SameFilter(o)
}

// FacetNames returns the active facet names in sorted order.
func (q Query) FacetNames() []string {
	return slices.Sorted(maps.Keys(q.ActiveFacets()))
}

// Constrains reports whether a facet value is a real constraint.
// Empty strings and "All" mean "no constraint".
func Constrains(value string) bool {
	v := strings.TrimSpace(value)
	return v != "" && !strings.EqualFold(v, AllValue)
}

// Normalize trims, NFC-normalizes and case-folds s for comparison.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return cases.Fold().String(norm.NFC.String(s))
}
