package provider_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraprovider "github.com/pennywiseapp/pennywise/infra/provider"
	"github.com/pennywiseapp/pennywise/pkg/domain"
)

func TestStaticRateLookup(t *testing.T) {
	p := infraprovider.NewStaticExchangeRate(map[string]decimal.Decimal{
		"USD:EUR": decimal.NewFromFloat(0.8),
	})
	ctx := context.Background()

	quote, err := p.GetRate(ctx, "USD", "EUR")
	require.NoError(t, err)
	assert.True(t, quote.Rate.Equal(decimal.NewFromFloat(0.8)))

	// The reverse direction derives from the configured pair.
	quote, err = p.GetRate(ctx, "EUR", "USD")
	require.NoError(t, err)
	assert.True(t, quote.Rate.Equal(decimal.NewFromFloat(1.25)))
}

func TestStaticRateIdentityAndMisses(t *testing.T) {
	p := infraprovider.NewStaticExchangeRate(nil)
	ctx := context.Background()

	quote, err := p.GetRate(ctx, "USD", "USD")
	require.NoError(t, err)
	assert.True(t, quote.Rate.Equal(decimal.NewFromInt(1)))

	_, err = p.GetRate(ctx, "USD", "EUR")
	assert.ErrorIs(t, err, domain.ErrExternalService)
}
