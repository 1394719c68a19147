package entity

import (
	"fmt"
	"strings"

	domentity "github.com/kailas-cloud/browsekit/internal/domain/entity"
)

// Hash layout: reserved fields start with "__", searchable text fields
// with "s:" and facet values with "f:".
const (
	fieldKind     = "__kind"
	fieldID       = "__id"
	fieldName     = "__name"
	fieldEvent    = "__event"
	prefixText    = "s:"
	prefixFacet   = "f:"
	reservedStart = "__"
)

// entityToHash converts a domain Entity to a map for HSET.
func entityToHash(e domentity.Entity) map[string]string {
	fields := e.Fields()
	facets := e.Facets()
	m := make(map[string]string, 4+len(fields)+len(facets))
	m[fieldKind] = string(e.Kind())
	m[fieldID] = e.ID()
	m[fieldName] = e.Name()
	if e.EventID() != "" {
		m[fieldEvent] = e.EventID()
	}
	for k, v := range fields {
		m[prefixText+k] = v
	}
	for k, v := range facets {
		m[prefixFacet+k] = v
	}
	return m
}

// entityFromHash hydrates a domain Entity from an HGETALL result map.
func entityFromHash(m map[string]string) (domentity.Entity, error) {
	kind := domentity.Kind(m[fieldKind])
	if !kind.IsValid() {
		return domentity.Entity{}, fmt.Errorf("invalid kind %q", m[fieldKind])
	}
	id := m[fieldID]
	if id == "" {
		return domentity.Entity{}, fmt.Errorf("missing %s", fieldID)
	}

	var fields, facets map[string]string
	for k, v := range m {
		switch {
		case strings.HasPrefix(k, reservedStart):
		case strings.HasPrefix(k, prefixText):
			if fields == nil {
				fields = make(map[string]string)
			}
			fields[strings.TrimPrefix(k, prefixText)] = v
		case strings.HasPrefix(k, prefixFacet):
			if facets == nil {
				facets = make(map[string]string)
			}
			facets[strings.TrimPrefix(k, prefixFacet)] = v
		}
	}
	return domentity.Reconstruct(kind, id, m[fieldName], m[fieldEvent], fields, facets), nil
}
