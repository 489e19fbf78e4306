// Package budget defines the data access contract for budgets.
package budget

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pennywiseapp/pennywise/pkg/dto"
)

// Repository defines the interface for budget data access operations.
type Repository interface {
	// Create inserts a new budget record from a DTO.
	Create(ctx context.Context, create dto.BudgetCreate) error

	// Update applies a partial update to a budget by its ID. Spent
	// amount and status are excluded; they change via ApplyRecompute.
	Update(ctx context.Context, id uuid.UUID, update dto.BudgetUpdate) error

	// Get retrieves a budget by its ID as a read-optimized DTO.
	Get(ctx context.Context, id uuid.UUID) (*dto.BudgetRead, error)

	// GetForUpdate retrieves a budget with a row-level lock, serializing
	// concurrent recomputes of the same budget. Only meaningful inside a
	// unit of work.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*dto.BudgetRead, error)

	// ListByUser lists all budgets for a given user.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*dto.BudgetRead, error)

	// ListCheckable lists budgets eligible for a recompute sweep:
	// status active or exceeded.
	ListCheckable(ctx context.Context) ([]*dto.BudgetRead, error)

	// ListMatching lists the user's active/exceeded budgets whose window
	// contains the date and whose category scope covers categoryID.
	ListMatching(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID, date time.Time) ([]*dto.BudgetRead, error)

	// ApplyRecompute writes a freshly computed spent amount and status.
	ApplyRecompute(ctx context.Context, id uuid.UUID, rec dto.BudgetRecompute) error

	// SoftDelete marks a budget deleted without removing the row.
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
