// Package reorder computes manual drag orderings for admin lists.
//
// A move takes the dragged id out of the list and reinserts it at the slot
// the target occupied before the removal, pushing the target forward. Order
// assignments are dense and zero-based within one partition.
package reorder

import (
	"fmt"
	"slices"
)

// Partition scopes an ordering, e.g. a schedule day. Partitions are independent.
type Partition string

// Assignment is the persisted position of one id within a partition.
type Assignment struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}

// Move returns a new order with fromID moved into overID's slot.
// Equal ids or ids missing from order leave the order unchanged.
func Move(order []string, fromID, overID string) []string {
	out := slices.Clone(order)
	if fromID == overID {
		return out
	}
	from := slices.Index(out, fromID)
	over := slices.Index(out, overID)
	if from < 0 || over < 0 {
		return out
	}
	out = slices.Delete(out, from, from+1)
	return slices.Insert(out, over, fromID)
}

// Assign maps the current visual order to dense zero-based positions.
func Assign(order []string) []Assignment {
	out := make([]Assignment, len(order))
	for i, id := range order {
		out[i] = Assignment{ID: id, Order: i}
	}
	return out
}

// Order rebuilds the id list from assignments, sorted by position.
func Order(assignments []Assignment) []string {
	sorted := slices.Clone(assignments)
	slices.SortStableFunc(sorted, func(a, b Assignment) int { return a.Order - b.Order })
	out := make([]string, len(sorted))
	for i, a := range sorted {
		out[i] = a.ID
	}
	return out
}

// Validate checks that assignments form the permutation {0..n-1} over distinct ids.
func Validate(assignments []Assignment) error {
	seenIDs := make(map[string]struct{}, len(assignments))
	seenPos := make([]bool, len(assignments))
	for _, a := range assignments {
		if a.ID == "" {
			return fmt.Errorf("empty id in order")
		}
		if _, dup := seenIDs[a.ID]; dup {
			return fmt.Errorf("duplicate id %q in order", a.ID)
		}
		seenIDs[a.ID] = struct{}{}
		if a.Order < 0 || a.Order >= len(assignments) {
			return fmt.Errorf("order %d of %q out of range [0,%d)", a.Order, a.ID, len(assignments))
		}
		if seenPos[a.Order] {
			return fmt.Errorf("duplicate order %d", a.Order)
		}
		seenPos[a.Order] = true
	}
	return nil
}

// Drag tracks one drag gesture. Every drag-over applies Move to the live
// order and End commits the live order, not the order the drag started from.
type Drag struct {
	start  []string
	live   []string
	active bool
}

// NewDrag starts a gesture over the given order.
func NewDrag(order []string) *Drag {
	return &Drag{start: slices.Clone(order), live: slices.Clone(order), active: true}
}

// Over handles a drag-over event. Reports whether the live order changed.
func (d *Drag) Over(fromID, overID string) bool {
	if !d.active {
		return false
	}
	next := Move(d.live, fromID, overID)
	if slices.Equal(next, d.live) {
		return false
	}
	d.live = next
	return true
}

// Live returns the in-progress order.
func (d *Drag) Live() []string { return slices.Clone(d.live) }

// Active reports whether the gesture is still in progress.
func (d *Drag) Active() bool { return d.active }

// End finishes the gesture and returns assignments for the live order.
// A finished gesture returns nil.
func (d *Drag) End() []Assignment {
	if !d.active {
		return nil
	}
	d.active = false
	return Assign(d.live)
}

// Cancel abandons the gesture and returns the order it started from.
func (d *Drag) Cancel() []string {
	d.active = false
	d.live = slices.Clone(d.start)
	return slices.Clone(d.start)
}
