// Package category defines the data access contract for categories.
package category

import (
	"context"

	"github.com/google/uuid"

	"github.com/pennywiseapp/pennywise/pkg/dto"
)

// Repository defines the interface for category data access operations.
type Repository interface {
	// Create inserts a new category record from a DTO.
	Create(ctx context.Context, create dto.CategoryCreate) error

	// Update applies a partial update to a category by its ID.
	Update(ctx context.Context, id uuid.UUID, update dto.CategoryUpdate) error

	// Get retrieves a category by its ID as a read-optimized DTO.
	Get(ctx context.Context, id uuid.UUID) (*dto.CategoryRead, error)

	// ListByUser lists the user's categories plus the system defaults.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*dto.CategoryRead, error)

	// SoftDelete marks a category deleted without removing the row.
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
