package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferRead is a read-optimized DTO for transfer queries and API
// responses.
type TransferRead struct {
	ID                       uuid.UUID
	UserID                   uuid.UUID // owner of both legs
	SourceTransactionID      uuid.UUID
	DestinationTransactionID uuid.UUID
	SourceAccountID          uuid.UUID
	DestinationAccountID     uuid.UUID
	SourceAmount             int64 // smallest unit of the source currency
	DestinationAmount        int64 // smallest unit of the destination currency
	SourceCurrency           string
	DestinationCurrency      string
	ExchangeRate             decimal.Decimal
	UsedRealTimeRate         bool
	CreatedAt                time.Time
}

// TransferCreate is a DTO for persisting a transfer record. The two leg
// transactions are created alongside it in the same unit of work.
type TransferCreate struct {
	ID                       uuid.UUID
	SourceTransactionID      uuid.UUID
	DestinationTransactionID uuid.UUID
	ExchangeRate             decimal.Decimal
	UsedRealTimeRate         bool
}

// TransferCommand is the user/service input for creating a transfer.
// Amount is in the main unit of the source account's currency.
type TransferCommand struct {
	UserID               uuid.UUID
	SourceAccountID      uuid.UUID
	DestinationAccountID uuid.UUID
	Amount               float64
	Date                 time.Time
	Description          string
	UseLiveRate          bool
	ManualRate           *decimal.Decimal // required when currencies differ and no live rate
}
