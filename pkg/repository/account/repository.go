// Package account defines the data access contract for accounts.
package account

import (
	"context"

	"github.com/google/uuid"

	"github.com/pennywiseapp/pennywise/pkg/dto"
)

// Repository defines the interface for account data access operations.
type Repository interface {
	// Create inserts a new account record from a DTO.
	Create(ctx context.Context, create dto.AccountCreate) error

	// Update applies a partial update to an account by its ID.
	Update(ctx context.Context, id uuid.UUID, update dto.AccountUpdate) error

	// Get retrieves an account by its ID as a read-optimized DTO.
	Get(ctx context.Context, id uuid.UUID) (*dto.AccountRead, error)

	// ListByUser lists all accounts for a given user.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*dto.AccountRead, error)

	// SoftDelete marks an account deleted without removing the row.
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
