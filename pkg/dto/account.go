// Package dto defines the data transfer objects exchanged between the
// service layer and the repositories. Read DTOs are query-shaped;
// Create/Update DTOs carry write intents.
package dto

import (
	"time"

	"github.com/google/uuid"
)

// AccountRead is a read-optimized DTO for account queries and API responses.
type AccountRead struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Name           string
	Type           string
	Currency       string
	InitialBalance int64 // smallest currency unit
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AccountCreate is a DTO for creating a new account.
type AccountCreate struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Name           string
	Type           string
	Currency       string
	InitialBalance int64
	Active         bool
}

// AccountUpdate is a DTO for partial updates of an account.
type AccountUpdate struct {
	Name   *string
	Type   *string
	Active *bool
}

// BalanceSums carries the per-type transaction aggregates used by the
// balance calculator, in the smallest currency unit.
type BalanceSums struct {
	Income       int64
	Expense      int64
	TransfersIn  int64
	TransfersOut int64
}
