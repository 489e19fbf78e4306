// Package transaction defines ledger transactions. A transaction's
// effect on the account balance is determined by its type (and, for
// transfer legs, the direction encoded in the reference), never by the
// sign of the stored amount, which is always non-negative.
package transaction

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pennywiseapp/pennywise/pkg/domain"
	"github.com/pennywiseapp/pennywise/pkg/money"
)

var (
	// ErrTransactionNotFound is returned when a transaction cannot be found.
	ErrTransactionNotFound = fmt.Errorf("%w: transaction", domain.ErrNotFound)

	// ErrInvalidTransactionType is returned when an unknown type is given.
	ErrInvalidTransactionType = fmt.Errorf("%w: invalid transaction type", domain.ErrValidation)

	// ErrNegativeAmount is returned when a transaction amount is negative.
	// The sign of a transaction's effect comes from its type.
	ErrNegativeAmount = fmt.Errorf("%w: transaction amount cannot be negative", domain.ErrValidation)

	// ErrTransferLegDirect is returned when a transfer leg is created,
	// updated, or deleted outside the transfer coordinator. Legs only
	// change as a pair.
	ErrTransferLegDirect = fmt.Errorf("%w: transfer legs are managed by the transfer coordinator", domain.ErrConsistency)

	// ErrMissingTransferReference is returned when a transfer-type
	// transaction carries no leg reference.
	ErrMissingTransferReference = fmt.Errorf("%w: transfer transaction without leg reference", domain.ErrConsistency)
)

// Type signs a transaction's effect on the account balance.
type Type string

// Supported transaction types.
const (
	TypeIncome   Type = "income"
	TypeExpense  Type = "expense"
	TypeTransfer Type = "transfer"
)

// IsValid reports whether the transaction type is a supported value.
func (t Type) IsValid() bool {
	switch t {
	case TypeIncome, TypeExpense, TypeTransfer:
		return true
	}
	return false
}

// Reference prefixes tagging the two legs of a transfer. The suffix is
// the correlation ID shared by both legs.
const (
	transferOutPrefix = "TRANSFER-OUT-"
	transferInPrefix  = "TRANSFER-IN-"
)

// TransferOutReference builds the reference for the debit leg of a transfer.
func TransferOutReference(correlation uuid.UUID) string {
	return transferOutPrefix + correlation.String()
}

// TransferInReference builds the reference for the credit leg of a transfer.
func TransferInReference(correlation uuid.UUID) string {
	return transferInPrefix + correlation.String()
}

// IsTransferOut reports whether the reference tags a debit leg.
func IsTransferOut(reference string) bool {
	return strings.HasPrefix(reference, transferOutPrefix)
}

// IsTransferIn reports whether the reference tags a credit leg.
func IsTransferIn(reference string) bool {
	return strings.HasPrefix(reference, transferInPrefix)
}

// Transaction is a single ledger entry belonging to exactly one account
// and optionally one category.
type Transaction struct {
	ID              uuid.UUID
	AccountID       uuid.UUID
	UserID          uuid.UUID
	CategoryID      *uuid.UUID
	Type            Type
	Amount          money.Money // non-negative; effect signed by Type
	TransactionDate time.Time   // calendar date, distinct from CreatedAt
	Description     string
	Reference       string
	IsReconciled    bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Validate checks the transaction's own invariants.
func (t *Transaction) Validate() error {
	if !t.Type.IsValid() {
		return ErrInvalidTransactionType
	}
	if t.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	if t.Type == TypeTransfer && !IsTransferOut(t.Reference) && !IsTransferIn(t.Reference) {
		return ErrMissingTransferReference
	}
	return nil
}

// IsTransferLeg reports whether the transaction is one leg of a transfer.
func (t *Transaction) IsTransferLeg() bool {
	return t.Type == TypeTransfer
}
