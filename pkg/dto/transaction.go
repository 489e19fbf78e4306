package dto

import (
	"time"

	"github.com/google/uuid"
)

// TransactionRead is a read-optimized DTO for transaction queries and
// API responses.
type TransactionRead struct {
	ID              uuid.UUID
	AccountID       uuid.UUID
	UserID          uuid.UUID
	CategoryID      *uuid.UUID
	Type            string
	Amount          int64 // smallest currency unit, non-negative
	Currency        string
	TransactionDate time.Time
	Description     string
	Reference       string
	IsReconciled    bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TransactionCreate is a DTO for creating a new transaction.
type TransactionCreate struct {
	ID              uuid.UUID
	AccountID       uuid.UUID
	UserID          uuid.UUID
	CategoryID      *uuid.UUID
	Type            string
	Amount          int64
	Currency        string
	TransactionDate time.Time
	Description     string
	Reference       string
	IsReconciled    bool
}

// TransactionUpdate is a DTO for partial updates of a transaction.
type TransactionUpdate struct {
	CategoryID      *uuid.UUID
	ClearCategory   bool // distinguish "set nil" from "leave unchanged"
	Amount          *int64
	TransactionDate *time.Time
	Description     *string
	IsReconciled    *bool
}

// TransactionCommand is the user/service input for recording a
// transaction. Amount is in the main unit of the account's currency;
// the stored amount is always non-negative and signed by Type.
type TransactionCommand struct {
	UserID          uuid.UUID
	AccountID       uuid.UUID
	CategoryID      *uuid.UUID
	Type            string
	Amount          float64
	TransactionDate time.Time
	Description     string
	IsReconciled    bool
}

// ExpenseSumFilter selects the expense transactions whose amounts are
// summed during a budget recompute.
type ExpenseSumFilter struct {
	UserID     uuid.UUID
	CategoryID *uuid.UUID // nil matches any category
	From       time.Time  // inclusive
	To         time.Time  // inclusive
}

// TransactionListFilter narrows transaction listings.
type TransactionListFilter struct {
	AccountID  *uuid.UUID
	CategoryID *uuid.UUID
	Type       *string
	From       *time.Time
	To         *time.Time
}
