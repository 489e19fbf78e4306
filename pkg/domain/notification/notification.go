// Package notification defines the notification records produced by the
// budget threshold trigger. Delivery across channels is an external
// consumer; the core's contract ends at record creation.
package notification

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pennywiseapp/pennywise/pkg/domain"
)

// ErrNotificationNotFound is returned when a notification cannot be found.
var ErrNotificationNotFound = fmt.Errorf("%w: notification", domain.ErrNotFound)

// Type tags the condition that produced a notification.
type Type string

// Notification types produced by the budget trigger.
const (
	TypeBudgetWarning  Type = "budget_warning"
	TypeBudgetExceeded Type = "budget_exceeded"
)

// Channel names the delivery channel a notification is addressed to.
type Channel string

// Supported channels. ChannelDatabase records are surfaced in-app;
// email and push are drained by external delivery workers.
const (
	ChannelDatabase Channel = "database"
	ChannelEmail    Channel = "email"
	ChannelPush     Channel = "push"
)

// Notification is a pending or delivered message to a user. ReadAt and
// IsSent are mutated by external collaborators (UI, delivery workers).
type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	BudgetID  *uuid.UUID // set for budget threshold notifications
	Type      Type
	Title     string
	Message   string
	Data      map[string]any
	Channel   Channel
	ReadAt    *time.Time
	IsSent    bool
	CreatedAt time.Time
}
