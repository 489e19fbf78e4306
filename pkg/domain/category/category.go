// Package category defines transaction categories, including the
// system defaults that cannot be deleted by users.
package category

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pennywiseapp/pennywise/pkg/domain"
)

var (
	// ErrCategoryNotFound is returned when a category cannot be found.
	ErrCategoryNotFound = fmt.Errorf("%w: category", domain.ErrNotFound)

	// ErrSystemCategoryProtected is returned when a delete targets a
	// seeded system category.
	ErrSystemCategoryProtected = fmt.Errorf("%w: system categories cannot be deleted", domain.ErrValidation)

	// ErrInvalidCategoryType is returned when an unknown category type is given.
	ErrInvalidCategoryType = fmt.Errorf("%w: invalid category type", domain.ErrValidation)
)

// Type tags a category with the kind of transactions it classifies.
type Type string

// Supported category types. TypeTransfer marks the neutral category
// assigned to transfer legs.
const (
	TypeIncome   Type = "income"
	TypeExpense  Type = "expense"
	TypeTransfer Type = "transfer"
)

// IsValid reports whether the category type is a supported value.
func (t Type) IsValid() bool {
	switch t {
	case TypeIncome, TypeExpense, TypeTransfer:
		return true
	}
	return false
}

// Category classifies transactions for reporting and budget matching.
type Category struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	Type      Type
	Color     string
	Icon      string
	IsSystem  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
