// Package transaction defines the data access contract for ledger
// transactions, including the aggregate sums the balance calculator and
// budget tracker are built on.
package transaction

import (
	"context"

	"github.com/google/uuid"

	"github.com/pennywiseapp/pennywise/pkg/dto"
)

// Repository defines the interface for transaction data access
// operations. Soft-deleted rows are excluded from every query and sum.
type Repository interface {
	// Create inserts a new transaction record from a DTO.
	Create(ctx context.Context, create dto.TransactionCreate) error

	// Update applies a partial update to a transaction by its ID.
	Update(ctx context.Context, id uuid.UUID, update dto.TransactionUpdate) error

	// Get retrieves a transaction by its ID as a read-optimized DTO.
	Get(ctx context.Context, id uuid.UUID) (*dto.TransactionRead, error)

	// ListByAccount lists all transactions for a given account.
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*dto.TransactionRead, error)

	// ListByUser lists a user's transactions, optionally filtered.
	ListByUser(ctx context.Context, userID uuid.UUID, filter dto.TransactionListFilter) ([]*dto.TransactionRead, error)

	// BalanceSums returns the per-type aggregates for one account:
	// income, expense, transfers in, transfers out.
	BalanceSums(ctx context.Context, accountID uuid.UUID) (*dto.BalanceSums, error)

	// SumExpenses sums matching expense transactions for a budget
	// recompute.
	SumExpenses(ctx context.Context, filter dto.ExpenseSumFilter) (int64, error)

	// SoftDelete marks a transaction deleted without removing the row.
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
