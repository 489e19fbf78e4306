package transaction

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transaction represents a persisted ledger transaction. Amount is
// non-negative; the effect on the balance is signed by Type and, for
// transfer legs, by the direction prefix in Reference.
type Transaction struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	AccountID       uuid.UUID  `gorm:"type:uuid;index;not null"`
	UserID          uuid.UUID  `gorm:"type:uuid;index;not null"`
	CategoryID      *uuid.UUID `gorm:"type:uuid;index"`
	Type            string     `gorm:"type:varchar(16);not null;index"`
	Amount          int64      `gorm:"not null"`
	Currency        string     `gorm:"type:varchar(3);not null;default:'USD'"`
	TransactionDate time.Time  `gorm:"type:date;not null;index"`
	Description     string     `gorm:"type:varchar(255)"`
	Reference       string     `gorm:"type:varchar(64);index"`
	IsReconciled    bool       `gorm:"not null;default:false"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for the Transaction model.
func (Transaction) TableName() string {
	return "transactions"
}
