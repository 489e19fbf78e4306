package account

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account represents an account record in the database. The balance is
// never stored: it is derived from initial_balance and the transaction
// sums on every read.
type Account struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID `gorm:"type:uuid;index;not null"`
	Name           string    `gorm:"type:varchar(128);not null"`
	Type           string    `gorm:"type:varchar(16);not null;default:'checking'"`
	Currency       string    `gorm:"type:varchar(3);not null;default:'USD'"`
	InitialBalance int64     `gorm:"not null;default:0"`
	Active         bool      `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for the Account model.
func (Account) TableName() string {
	return "accounts"
}
