package category

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category represents a category record in the database. System
// categories have a nil user and survive user deletion.
type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;index"`
	Name      string    `gorm:"type:varchar(64);not null"`
	Type      string    `gorm:"type:varchar(16);not null;index"`
	Color     string    `gorm:"type:varchar(16)"`
	Icon      string    `gorm:"type:varchar(32)"`
	IsSystem  bool      `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for the Category model.
func (Category) TableName() string {
	return "categories"
}
