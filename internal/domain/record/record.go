// Package record defines how the browsing engine sees caller-owned records.
//
// The engine never inspects record shapes itself: the integration layer
// supplies an Accessor that projects a record onto its id, display name,
// searchable text and facet values.
package record

// Accessor projects a record of type R onto the fields the engine uses.
type Accessor[R any] struct {
	// ID returns the stable identifier. An empty id marks a malformed record.
	ID func(R) string
	// Name returns the display name used for tie-breaking and member sorting.
	Name func(R) string
	// Searchable returns the free-text fields matched by the query text.
	Searchable func(R) []string
	// Facet returns the categorical value of the named facet, "" if absent.
	Facet func(R, string) string
}

// IDOf returns the record id, or "" when no ID projection is configured.
func (a Accessor[R]) IDOf(r R) string {
	if a.ID == nil {
		return ""
	}
	return a.ID(r)
}

// NameOf returns the display name, or "" when no Name projection is configured.
func (a Accessor[R]) NameOf(r R) string {
	if a.Name == nil {
		return ""
	}
	return a.Name(r)
}

// SearchableOf returns the searchable fields. Falls back to the name.
func (a Accessor[R]) SearchableOf(r R) []string {
	if a.Searchable == nil {
		return []string{a.NameOf(r)}
	}
	return a.Searchable(r)
}

// FacetOf returns the value of the named facet.
func (a Accessor[R]) FacetOf(r R, name string) string {
	if a.Facet == nil {
		return ""
	}
	return a.Facet(r, name)
}

// Valid reports whether the accessor can identify records.
func (a Accessor[R]) Valid() bool {
	return a.ID != nil
}
