// Package provider defines the contracts for external collaborators
// consumed by the core, currently the exchange-rate provider used by
// cross-currency transfers.
package provider

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Quote is one exchange-rate observation from a provider.
type Quote struct {
	FromCurrency string
	ToCurrency   string
	Rate         decimal.Decimal
	Timestamp    time.Time
	Source       string
}

// ExchangeRate is implemented by external rate providers. GetRate must
// honor ctx cancellation; a timed-out or failed lookup is a hard
// failure for the caller, never a silent fallback rate.
type ExchangeRate interface {
	// GetRate fetches the current exchange rate for a currency pair.
	GetRate(ctx context.Context, from, to string) (*Quote, error)

	// Name returns the provider's name for logging and identification.
	Name() string

	// IsHealthy checks if the provider is currently available.
	IsHealthy() bool
}
