package dto

import (
	"time"

	"github.com/google/uuid"
)

// NotificationRead is a read-optimized DTO for notification queries and
// API responses.
type NotificationRead struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	BudgetID  *uuid.UUID
	Type      string
	Title     string
	Message   string
	Data      map[string]any
	Channel   string
	ReadAt    *time.Time
	IsSent    bool
	CreatedAt time.Time
}

// NotificationCreate is a DTO for creating a new notification record.
type NotificationCreate struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	BudgetID *uuid.UUID
	Type     string
	Title    string
	Message  string
	Data     map[string]any
	Channel  string
}
