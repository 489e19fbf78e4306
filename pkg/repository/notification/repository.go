// Package notification defines the data access contract for
// notification records.
package notification

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pennywiseapp/pennywise/pkg/dto"
)

// Repository defines the interface for notification data access
// operations.
type Repository interface {
	// Create inserts a new notification record from a DTO.
	Create(ctx context.Context, create dto.NotificationCreate) error

	// Get retrieves a notification by its ID.
	Get(ctx context.Context, id uuid.UUID) (*dto.NotificationRead, error)

	// ListByUser lists a user's notifications, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*dto.NotificationRead, error)

	// ExistsForBudgetSince reports whether a notification of the given
	// type was already created for the budget at or after since. Used to
	// suppress repeat threshold notifications within one period window.
	ExistsForBudgetSince(ctx context.Context, budgetID uuid.UUID, ntype string, since time.Time) (bool, error)

	// MarkRead stamps ReadAt on one notification.
	MarkRead(ctx context.Context, id uuid.UUID, at time.Time) error

	// MarkAllRead stamps ReadAt on all of a user's unread notifications.
	MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) error
}
