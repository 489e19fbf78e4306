// Package transfer defines the data access contract for transfer
// records linking paired transactions.
package transfer

import (
	"context"

	"github.com/google/uuid"

	"github.com/pennywiseapp/pennywise/pkg/dto"
)

// Repository defines the interface for transfer data access operations.
type Repository interface {
	// Create inserts a new transfer record from a DTO.
	Create(ctx context.Context, create dto.TransferCreate) error

	// Get retrieves a transfer by its ID, joined with both legs.
	Get(ctx context.Context, id uuid.UUID) (*dto.TransferRead, error)

	// GetByTransactionID retrieves the transfer owning the given leg,
	// whichever side it is on.
	GetByTransactionID(ctx context.Context, transactionID uuid.UUID) (*dto.TransferRead, error)

	// ListByUser lists all transfers touching the user's accounts.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*dto.TransferRead, error)

	// SoftDelete marks a transfer record deleted. The coordinator
	// soft-deletes both legs in the same unit of work.
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
