package budget

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Budget represents a budget record. SpentAmount is a cached projection
// over matching expense transactions; it is only written through the
// recompute path.
type Budget struct {
	ID                    uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID                uuid.UUID  `gorm:"type:uuid;index;not null"`
	CategoryID            *uuid.UUID `gorm:"type:uuid;index"`
	Name                  string     `gorm:"type:varchar(128);not null"`
	Amount                int64      `gorm:"not null"`
	SpentAmount           int64      `gorm:"not null;default:0"`
	Currency              string     `gorm:"type:varchar(3);not null;default:'USD'"`
	Period                string     `gorm:"type:varchar(16);not null"`
	StartDate             time.Time  `gorm:"type:date;not null;index"`
	EndDate               time.Time  `gorm:"type:date;not null;index"`
	Status                string     `gorm:"type:varchar(16);not null;index;default:'active'"`
	NotificationThreshold int        `gorm:"not null;default:80"`
	SendNotifications     bool       `gorm:"not null;default:true"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
	DeletedAt             gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for the Budget model.
func (Budget) TableName() string {
	return "budgets"
}
