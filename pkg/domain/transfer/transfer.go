// Package transfer defines the relation object linking the two legs of
// a money transfer between accounts.
package transfer

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pennywiseapp/pennywise/pkg/domain"
)

var (
	// ErrTransferNotFound is returned when a transfer cannot be found.
	ErrTransferNotFound = fmt.Errorf("%w: transfer", domain.ErrNotFound)

	// ErrSameAccount is returned when source and destination accounts
	// are the same.
	ErrSameAccount = fmt.Errorf("%w: cannot transfer to the same account", domain.ErrValidation)

	// ErrManualRateRequired is returned when currencies differ, no live
	// rate was requested, and no positive manual rate was supplied.
	ErrManualRateRequired = fmt.Errorf("%w: a positive manual exchange rate is required", domain.ErrValidation)

	// ErrOrphanedLeg is returned when a transfer-type transaction has no
	// Transfer record linking it to a counterpart.
	ErrOrphanedLeg = fmt.Errorf("%w: transfer leg without a linking transfer record", domain.ErrConsistency)
)

// RateScale is the number of fractional digits kept on exchange rates.
const RateScale = 6

// Transfer links the debit leg on the source account to the credit leg
// on the destination account. It owns no transactions, only references
// the pair.
//
// Invariants:
//   - Both referenced transactions are of type transfer.
//   - Exactly one Transfer record exists per pair; removing either leg
//     removes the pair and the record in one transactional operation.
type Transfer struct {
	ID                       uuid.UUID
	SourceTransactionID      uuid.UUID
	DestinationTransactionID uuid.UUID
	ExchangeRate             decimal.Decimal // scaled to RateScale digits
	UsedRealTimeRate         bool
	CreatedAt                time.Time
}
