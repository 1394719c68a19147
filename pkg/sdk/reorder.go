package browsekit

import "github.com/kailas-cloud/browsekit/internal/domain/reorder"

// Move returns a new order with fromID moved into overID's slot. Equal ids
// or ids missing from order return an unchanged copy.
func Move(order []string, fromID, overID string) []string {
	return reorder.Move(order, fromID, overID)
}

// Assign maps an order to dense zero-based positions.
func Assign(order []string) []Assignment { return reorder.Assign(order) }

// Order rebuilds the id list from assignments.
func Order(assignments []Assignment) []string { return reorder.Order(assignments) }

// ValidateOrder checks that assignments are a permutation of 0..n-1 over distinct ids.
func ValidateOrder(assignments []Assignment) error { return reorder.Validate(assignments) }

// NewDrag starts a drag gesture. End commits the live order.
func NewDrag(order []string) *Drag { return reorder.NewDrag(order) }
