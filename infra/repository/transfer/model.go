package transfer

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transfer links the two leg transactions of a money movement between
// accounts and records the rate that produced the destination amount.
type Transfer struct {
	ID                       uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SourceTransactionID      uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null"`
	DestinationTransactionID uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null"`
	ExchangeRate             decimal.Decimal `gorm:"type:decimal(20,6);not null"`
	UsedRealTimeRate         bool            `gorm:"not null;default:false"`
	CreatedAt                time.Time
	DeletedAt                gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for the Transfer model.
func (Transfer) TableName() string {
	return "transfers"
}
