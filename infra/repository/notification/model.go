package notification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification represents a notification record. Data holds the typed
// payload serialized as JSON.
type Notification struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID  `gorm:"type:uuid;index;not null"`
	BudgetID  *uuid.UUID `gorm:"type:uuid;index"`
	Type      string     `gorm:"type:varchar(32);not null;index"`
	Title     string     `gorm:"type:varchar(128);not null"`
	Message   string     `gorm:"type:varchar(512)"`
	Data      []byte     `gorm:"type:jsonb"`
	Channel   string     `gorm:"type:varchar(16);not null;default:'database'"`
	ReadAt    *time.Time
	IsSent    bool `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"index"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for the Notification model.
func (Notification) TableName() string {
	return "notifications"
}
