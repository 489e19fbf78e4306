package dto

import (
	"time"

	"github.com/google/uuid"
)

// BudgetRead is a read-optimized DTO for budget queries and API responses.
type BudgetRead struct {
	ID                    uuid.UUID
	UserID                uuid.UUID
	CategoryID            *uuid.UUID
	Name                  string
	Amount                int64 // smallest currency unit
	SpentAmount           int64 // cached projection, recomputed only
	Currency              string
	Period                string
	StartDate             time.Time
	EndDate               time.Time
	Status                string
	NotificationThreshold int
	SendNotifications     bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// BudgetCreate is a DTO for creating a new budget.
type BudgetCreate struct {
	ID                    uuid.UUID
	UserID                uuid.UUID
	CategoryID            *uuid.UUID
	Name                  string
	Amount                int64
	Currency              string
	Period                string
	StartDate             time.Time
	EndDate               time.Time
	Status                string
	NotificationThreshold int
	SendNotifications     bool
}

// BudgetUpdate is a DTO for partial updates of a budget. SpentAmount and
// Status are deliberately absent here: they only change through the
// recompute path (BudgetRecompute).
type BudgetUpdate struct {
	Name                  *string
	CategoryID            *uuid.UUID
	ClearCategory         bool
	Amount                *int64
	StartDate             *time.Time
	EndDate               *time.Time
	NotificationThreshold *int
	SendNotifications     *bool
}

// BudgetRecompute carries the result of a spent-amount recompute.
type BudgetRecompute struct {
	SpentAmount int64
	Status      string
}
