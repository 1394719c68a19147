// Package selection implements the bounded comparison selection.
//
// A Set holds at most Cap ids in insertion order. Adding beyond capacity is
// a silent rejection rather than an error, and removal always succeeds.
package selection

import "slices"

// DefaultCapacity is the comparison panel size used by the browsing pages.
const DefaultCapacity = 3

// Set is an ordered, capacity-bounded set of record ids.
// The zero value is unusable; use New.
type Set struct {
	ids      []string
	capacity int
}

// New creates a Set. Non-positive capacity falls back to DefaultCapacity.
func New(capacity int) *Set {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Set{ids: make([]string, 0, capacity), capacity: capacity}
}

// Toggle removes id when present, otherwise appends it if there is room.
// Reports whether the set changed.
func (s *Set) Toggle(id string) bool {
	if s.Contains(id) {
		s.Remove(id)
		return true
	}
	return s.Add(id)
}

// Add appends id when absent and the set is not full. Empty ids are ignored.
func (s *Set) Add(id string) bool {
	if id == "" || s.Contains(id) || s.Full() {
		return false
	}
	s.ids = append(s.ids, id)
	return true
}

// Remove deletes id. Reports whether it was present.
func (s *Set) Remove(id string) bool {
	i := slices.Index(s.ids, id)
	if i < 0 {
		return false
	}
	s.ids = slices.Delete(s.ids, i, i+1)
	return true
}

// Clear empties the set.
func (s *Set) Clear() { s.ids = s.ids[:0] }

// Contains reports whether id is selected.
func (s *Set) Contains(id string) bool {
	return id != "" && slices.Contains(s.ids, id)
}

// IDs returns the selected ids in insertion order.
func (s *Set) IDs() []string { return slices.Clone(s.ids) }

// Len returns the number of selected ids.
func (s *Set) Len() int { return len(s.ids) }

// Cap returns the capacity.
func (s *Set) Cap() int { return s.capacity }

// Full reports whether no more ids can be added.
func (s *Set) Full() bool { return len(s.ids) >= s.capacity }
