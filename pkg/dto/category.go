package dto

import (
	"time"

	"github.com/google/uuid"
)

// CategoryRead is a read-optimized DTO for category queries and API
// responses.
type CategoryRead struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	Type      string
	Color     string
	Icon      string
	IsSystem  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CategoryCreate is a DTO for creating a new category.
type CategoryCreate struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Name     string
	Type     string
	Color    string
	Icon     string
	IsSystem bool
}

// CategoryUpdate is a DTO for partial updates of a category.
type CategoryUpdate struct {
	Name  *string
	Color *string
	Icon  *string
}
