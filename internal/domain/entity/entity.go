// Package entity holds the browsable platform records: speakers,
// exhibitors, community members and marketplace items.
package entity

import (
	"fmt"
	"maps"
	"regexp"
	"slices"

	"github.com/kailas-cloud/browsekit/internal/domain/record"
)

// Kind is the record collection an entity belongs to.
type Kind string

// Entity kinds browsed by the public pages.
const (
	Speaker   Kind = "speaker"
	Exhibitor Kind = "exhibitor"
	Community Kind = "community"
	Market    Kind = "market"
)

// IsValid checks if the kind is one of the supported values.
func (k Kind) IsValid() bool {
	return k == Speaker || k == Exhibitor || k == Community || k == Market
}

// Limits on entity shape.
const (
	MaxIDLength   = 128
	MaxNameLength = 256
	MaxFields     = 32
	MaxFieldBytes = 8 * 1024
)

var keyPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)

// Entity is one browsable record.
type Entity struct {
	id      string
	kind    Kind
	name    string
	eventID string
	fields  map[string]string
	facets  map[string]string
}

// New validates and creates an Entity.
func New(kind Kind, id, name, eventID string, fields, facets map[string]string) (Entity, error) {
	if !kind.IsValid() {
		return Entity{}, fmt.Errorf("invalid kind %q", kind)
	}
	if id == "" {
		return Entity{}, fmt.Errorf("id is required")
	}
	if len(id) > MaxIDLength || !keyPattern.MatchString(id) {
		return Entity{}, fmt.Errorf("invalid id %q", id)
	}
	if name == "" {
		return Entity{}, fmt.Errorf("name is required")
	}
	if len(name) > MaxNameLength {
		return Entity{}, fmt.Errorf("name too long (max %d)", MaxNameLength)
	}
	if eventID != "" && !keyPattern.MatchString(eventID) {
		return Entity{}, fmt.Errorf("invalid event id %q", eventID)
	}
	if len(fields) > MaxFields || len(facets) > MaxFields {
		return Entity{}, fmt.Errorf("too many fields (max %d)", MaxFields)
	}
	for k, v := range fields {
		if !keyPattern.MatchString(k) {
			return Entity{}, fmt.Errorf("invalid field name %q", k)
		}
		if len(v) > MaxFieldBytes {
			return Entity{}, fmt.Errorf("field %q too large (max %d bytes)", k, MaxFieldBytes)
		}
	}
	for k := range facets {
		if !keyPattern.MatchString(k) {
			return Entity{}, fmt.Errorf("invalid facet name %q", k)
		}
	}
	return Reconstruct(kind, id, name, eventID, fields, facets), nil
}

// Reconstruct restores an Entity from storage without validation.
func Reconstruct(kind Kind, id, name, eventID string, fields, facets map[string]string) Entity {
	return Entity{
		id:      id,
		kind:    kind,
		name:    name,
		eventID: eventID,
		fields:  maps.Clone(fields),
		facets:  maps.Clone(facets),
	}
}

// ID returns the entity identifier.
func (e Entity) ID() string { return e.id }

// Kind returns the entity collection.
func (e Entity) Kind() Kind { return e.kind }

// Name returns the display name.
func (e Entity) Name() string { return e.name }

// EventID returns the parent event, "" if ungrouped.
func (e Entity) EventID() string { return e.eventID }

// Fields returns a copy of the searchable text fields.
func (e Entity) Fields() map[string]string { return maps.Clone(e.fields) }

// Facets returns a copy of the categorical values.
func (e Entity) Facets() map[string]string { return maps.Clone(e.facets) }

// Facet returns one categorical value.
func (e Entity) Facet(name string) string { return e.facets[name] }

// Searchable returns the name followed by the text fields in key order.
func (e Entity) Searchable() []string {
	out := make([]string, 0, 1+len(e.fields))
	out = append(out, e.name)
	for _, k := range slices.Sorted(maps.Keys(e.fields)) {
		out = append(out, e.fields[k])
	}
	return out
}

// Accessor projects entities for the browsing engine.
func Accessor() record.Accessor[Entity] {
	return record.Accessor[Entity]{
		ID:         Entity.ID,
		Name:       Entity.Name,
		Searchable: Entity.Searchable,
		Facet:      Entity.Facet,
	}
}
