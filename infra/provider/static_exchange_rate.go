package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pennywiseapp/pennywise/pkg/domain"
	"github.com/pennywiseapp/pennywise/pkg/provider"
)

// StaticExchangeRate serves rates from a fixed table. It backs local
// development when no API key is configured and tests that need a
// deterministic provider.
type StaticExchangeRate struct {
	rates map[string]decimal.Decimal // keyed FROM:TO
}

// NewStaticExchangeRate creates a static provider from a FROM:TO rate
// table.
func NewStaticExchangeRate(rates map[string]decimal.Decimal) *StaticExchangeRate {
	return &StaticExchangeRate{rates: rates}
}

var _ provider.ExchangeRate = (*StaticExchangeRate)(nil)

// GetRate implements provider.ExchangeRate.
func (p *StaticExchangeRate) GetRate(ctx context.Context, from, to string) (*provider.Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if from == to {
		return p.quote(from, to, decimal.NewFromInt(1)), nil
	}
	if rate, ok := p.rates[from+":"+to]; ok {
		return p.quote(from, to, rate), nil
	}
	if inverse, ok := p.rates[to+":"+from]; ok && !inverse.IsZero() {
		return p.quote(from, to, decimal.NewFromInt(1).DivRound(inverse, 12)), nil
	}
	return nil, fmt.Errorf("%w: no static rate for %s/%s", domain.ErrExternalService, from, to)
}

// Name implements provider.ExchangeRate.
func (p *StaticExchangeRate) Name() string {
	return "static"
}

// IsHealthy implements provider.ExchangeRate.
func (p *StaticExchangeRate) IsHealthy() bool {
	return true
}

func (p *StaticExchangeRate) quote(from, to string, rate decimal.Decimal) *provider.Quote {
	return &provider.Quote{
		FromCurrency: from,
		ToCurrency:   to,
		Rate:         rate,
		Timestamp:    time.Now(),
		Source:       p.Name(),
	}
}
