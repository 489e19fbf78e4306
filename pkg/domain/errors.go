// Package domain holds the shared error taxonomy and the domain event
// contract. Entity invariants live in the subpackages (account, budget,
// transaction, transfer, category, notification).
package domain

import (
	"errors"
	"fmt"
)

// Error categories. Specific sentinel errors wrap one of these so
// callers can branch with errors.Is on either the category or the
// specific condition.
var (
	// ErrValidation is the category for rejected input.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is the category for unknown entity references.
	ErrNotFound = errors.New("not found")

	// ErrExternalService is the category for collaborator failures
	// (rate provider unavailable, timed out).
	ErrExternalService = errors.New("external service failure")

	// ErrConsistency is the category for operations that would violate
	// a cross-entity invariant.
	ErrConsistency = errors.New("consistency violation")
)

var (
	// ErrAmountMustBePositive is returned when an operation amount is zero or negative.
	ErrAmountMustBePositive = fmt.Errorf("%w: amount must be positive", ErrValidation)
)

// Event is implemented by all domain events published on the event bus.
type Event interface {
	Type() string
}
