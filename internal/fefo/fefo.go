// Package fefo implements the First-Expired-First-Out allocation algorithm:
// given a required quantity and an expiration-ordered snapshot of batches, it
// computes which batches to deduct from and by how much. The package is pure:
// no I/O, no clock, no side effects, which keeps it independently testable.
package fefo

import (
	"errors"

	"github.com/google/uuid"
)

// ErrInsufficientStock means the batch snapshot cannot cover the requested
// quantity. Plan never returns a partial result alongside this error.
var ErrInsufficientStock = errors.New("insufficient stock to cover requested quantity")

// BatchStock is the allocator's view of one batch. Callers must pass batches
// already sorted ascending by expiration date, ties broken by batch ID, so
// the resulting plan is deterministic.
type BatchStock struct {
	BatchID   uuid.UUID
	Available int
}

// Deduction is one step of an allocation plan: take Quantity units out of
// the given batch.
type Deduction struct {
	BatchID  uuid.UUID
	Quantity int
}

// Plan walks the ordered batches once, deducting min(remaining, available)
// at each step and stopping as soon as the requirement is met. Zero-stock
// batches contribute nothing and never appear in the plan.
//
// The total-availability check runs before any deduction is recorded; on the
// insufficient-stock path the caller gets ErrInsufficientStock and nothing
// else. That is a precondition, not a rollback.
func Plan(required int, batches []BatchStock) ([]Deduction, error) {
	if required <= 0 {
		return nil, errors.New("required quantity must be positive")
	}

	total := 0
	for _, b := range batches {
		total += b.Available
	}
	if total < required {
		return nil, ErrInsufficientStock
	}

	plan := make([]Deduction, 0, len(batches))
	remaining := required
	for _, b := range batches {
		if remaining <= 0 {
			break
		}
		deduct := min(remaining, b.Available)
		if deduct > 0 {
			plan = append(plan, Deduction{BatchID: b.BatchID, Quantity: deduct})
			remaining -= deduct
		}
	}

	return plan, nil
}
