package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pennywiseapp/pennywise/pkg/money"
)

func TestNewStoresSmallestUnit(t *testing.T) {
	assert := assert.New(t)

	m, err := money.New(12.50, money.USD.ToCurrency())
	require.NoError(t, err)
	assert.Equal(int64(1250), m.Amount())
	assert.Equal(money.USD, m.CurrencyCode())
	assert.Equal(12.50, m.AmountFloat())
}

func TestNewRespectsCurrencyDecimals(t *testing.T) {
	assert := assert.New(t)

	// JPY has no minor unit.
	m, err := money.New(1500, money.JPY.ToCurrency())
	require.NoError(t, err)
	assert.Equal(int64(1500), m.Amount())

	_, err = money.New(10.5, money.JPY.ToCurrency())
	assert.ErrorIs(err, money.ErrTooManyDecimals)

	// KWD carries three decimal places.
	kwd, err := money.New(1.250, money.KWD.ToCurrency())
	require.NoError(t, err)
	assert.Equal(int64(1250), kwd.Amount())
}

func TestNewRejectsInvalidCurrency(t *testing.T) {
	// Unregistered code.
	_, err := money.New(10, money.Currency{Code: "XXX", Decimals: 2})
	assert.ErrorIs(t, err, money.ErrInvalidCurrency)

	// Malformed code.
	_, err = money.New(10, money.Currency{Code: "US", Decimals: 2})
	assert.ErrorIs(t, err, money.ErrInvalidCurrency)

	assert.False(t, money.Code("usd").IsValid())
	assert.True(t, money.Code("USD").IsValid())
	assert.True(t, money.Code("INR").IsValid())
}

func TestArithmeticRequiresMatchingCurrencies(t *testing.T) {
	assert := assert.New(t)

	usd := money.Must(10, money.USD.ToCurrency())
	eur := money.Must(10, money.EUR.ToCurrency())

	_, err := usd.Add(eur)
	assert.ErrorIs(err, money.ErrMismatchedCurrencies)
	_, err = usd.Sub(eur)
	assert.ErrorIs(err, money.ErrMismatchedCurrencies)
	_, err = usd.GreaterThan(eur)
	assert.ErrorIs(err, money.ErrMismatchedCurrencies)

	sum, err := usd.Add(money.Must(2.50, money.USD.ToCurrency()))
	require.NoError(t, err)
	assert.Equal(int64(1250), sum.Amount())
}

func TestConvertAppliesRateAcrossDecimals(t *testing.T) {
	assert := assert.New(t)

	usd := money.Must(100, money.USD.ToCurrency())

	eur, err := usd.Convert(decimal.NewFromFloat(2.0), money.EUR.ToCurrency())
	require.NoError(t, err)
	assert.Equal(int64(20000), eur.Amount())
	assert.Equal(money.EUR, eur.CurrencyCode())

	// Two-decimal source to zero-decimal target rounds half-even.
	jpy, err := usd.Convert(decimal.NewFromFloat(149.731), money.JPY.ToCurrency())
	require.NoError(t, err)
	assert.Equal(int64(14973), jpy.Amount())
}

func TestConvertRoundTripAtRateTwo(t *testing.T) {
	source := money.Must(100, money.USD.ToCurrency())
	dest, err := source.Convert(decimal.NewFromFloat(2.0), money.EUR.ToCurrency())
	require.NoError(t, err)
	back, err := dest.Convert(decimal.NewFromFloat(0.5), money.USD.ToCurrency())
	require.NoError(t, err)
	assert.True(t, source.Equals(back))
}

func TestZeroAndSigns(t *testing.T) {
	assert := assert.New(t)

	zero := money.Zero(money.USD.ToCurrency())
	assert.True(zero.IsZero())
	assert.False(zero.IsPositive())
	assert.False(zero.IsNegative())

	m, err := money.NewFromSmallestUnit(-500, money.USD.ToCurrency())
	require.NoError(t, err)
	assert.True(m.IsNegative())
}

func TestStringFormatsMainUnits(t *testing.T) {
	assert.Equal(t, "12.50 USD", money.Must(12.5, money.USD.ToCurrency()).String())
	assert.Equal(t, "1500 JPY", money.Must(1500, money.JPY.ToCurrency()).String())
}
