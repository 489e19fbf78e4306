// Package events defines the domain events published on the event bus.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/pennywiseapp/pennywise/pkg/money"
)

// EventTypeBudgetSpentChanged identifies BudgetSpentChanged on the bus.
const EventTypeBudgetSpentChanged = "budget.spent_changed"

// BudgetSpentChanged is published after a committed write changed a
// budget's spent amount. The notification trigger subscribes to it; the
// write path never calls the trigger directly.
type BudgetSpentChanged struct {
	BudgetID          uuid.UUID
	UserID            uuid.UUID
	BudgetName        string
	Currency          money.Code
	AmountMinor       int64
	PreviousSpent     int64
	SpentAmount       int64
	Threshold         int // percent
	SendNotifications bool
	PeriodStart       time.Time
	PeriodEnd         time.Time
	OccurredAt        time.Time
}

// Type implements domain.Event.
func (BudgetSpentChanged) Type() string { return EventTypeBudgetSpentChanged }
