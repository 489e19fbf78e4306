// Package money provides a value object for monetary amounts.
//
// Invariants:
//   - Amount is always stored in the smallest currency unit (e.g., cents
//     for USD).
//   - Currency code must be valid ISO 4217 (3 uppercase letters).
//   - All arithmetic operations require matching currencies.
package money

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidCurrency is returned when a currency code is invalid.
	ErrInvalidCurrency = errors.New("invalid currency code")

	// ErrMismatchedCurrencies is returned when performing arithmetic on
	// money with different currencies.
	ErrMismatchedCurrencies = errors.New("mismatched currencies")

	// ErrTooManyDecimals is returned when an amount carries more decimal
	// places than the currency allows.
	ErrTooManyDecimals = errors.New("amount has more decimal places than the currency allows")
)

// Amount represents a monetary amount as an integer in the smallest
// currency unit.
type Amount = int64

// Currency represents a monetary unit with its standard decimal places.
type Currency struct {
	Code     Code // 3-letter ISO 4217 code (e.g., "USD")
	Decimals int  // Number of minor-unit decimal places (0-8)
}

// IsValid checks if the currency is valid.
func (c Currency) IsValid() bool {
	return c.Code.IsValid() && c.Decimals >= 0 && c.Decimals <= 8
}

// String returns the currency code as a string.
func (c Currency) String() string { return string(c.Code) }

// Money represents a monetary value in a specific currency.
type Money struct {
	amount   Amount
	currency Currency
}

// New creates a Money value from an amount in the main currency unit
// (e.g., dollars). The amount must not carry more decimal places than
// the currency allows.
func New(amount float64, currency Currency) (Money, error) {
	if !currency.IsValid() {
		return Money{}, fmt.Errorf("%w: %v", ErrInvalidCurrency, currency)
	}
	d := decimal.NewFromFloat(amount)
	if int(-d.Exponent()) > currency.Decimals {
		// Trailing float noise is fine; a genuinely finer amount is not.
		if !d.Round(int32(currency.Decimals)).Equal(d) {
			return Money{}, fmt.Errorf("%w: %v %s", ErrTooManyDecimals, amount, currency)
		}
	}
	minor := d.Shift(int32(currency.Decimals)).Round(0)
	return Money{amount: minor.IntPart(), currency: currency}, nil
}

// NewFromSmallestUnit creates a Money value from the smallest currency
// unit. This is the hydration path used by repositories and tests.
func NewFromSmallestUnit(amount int64, currency Currency) (Money, error) {
	if !currency.IsValid() {
		return Money{}, fmt.Errorf("%w: %v", ErrInvalidCurrency, currency)
	}
	return Money{amount: amount, currency: currency}, nil
}

// Must creates a Money value and panics on invariant violation. For
// test setup and package-level defaults only.
func Must(amount float64, currency Currency) Money {
	m, err := New(amount, currency)
	if err != nil {
		panic(fmt.Sprintf("money.Must(%v, %v): %v", amount, currency, err))
	}
	return m
}

// Zero returns a zero amount in the given currency.
func Zero(currency Currency) Money {
	return Money{amount: 0, currency: currency}
}

// Amount returns the amount in the smallest currency unit.
func (m Money) Amount() Amount { return m.amount }

// AmountFloat returns the amount as a float64 in the main currency unit.
func (m Money) AmountFloat() float64 {
	f, _ := decimal.NewFromInt(m.amount).Shift(int32(-m.currency.Decimals)).Float64()
	return f
}

// Currency returns the currency of the Money value.
func (m Money) Currency() Currency { return m.currency }

// CurrencyCode returns the currency code of the Money value.
func (m Money) CurrencyCode() Code { return m.currency.Code }

// IsSameCurrency reports whether both values share a currency.
func (m Money) IsSameCurrency(other Money) bool {
	return m.currency == other.currency
}

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool { return m.amount > 0 }

// IsNegative reports whether the amount is strictly less than zero.
func (m Money) IsNegative() bool { return m.amount < 0 }

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool { return m.amount == 0 }

// Add returns the sum of two amounts.
// Invariants enforced:
//   - Currencies must match.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("%w: %s and %s",
			ErrMismatchedCurrencies, m.currency.Code, other.currency.Code)
	}
	return Money{amount: m.amount + other.amount, currency: m.currency}, nil
}

// Sub returns the difference of two amounts.
// Invariants enforced:
//   - Currencies must match.
func (m Money) Sub(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("%w: %s and %s",
			ErrMismatchedCurrencies, m.currency.Code, other.currency.Code)
	}
	return Money{amount: m.amount - other.amount, currency: m.currency}, nil
}

// GreaterThan reports whether m is strictly greater than other.
func (m Money) GreaterThan(other Money) (bool, error) {
	if m.currency != other.currency {
		return false, fmt.Errorf("%w: %s and %s",
			ErrMismatchedCurrencies, m.currency.Code, other.currency.Code)
	}
	return m.amount > other.amount, nil
}

// Equals reports whether both amount and currency are equal.
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount == other.amount
}

// Convert applies an exchange rate to this amount and returns the result
// in the target currency, rounded half-even to the target currency's
// decimal places.
func (m Money) Convert(rate decimal.Decimal, target Currency) (Money, error) {
	if !target.IsValid() {
		return Money{}, fmt.Errorf("%w: %v", ErrInvalidCurrency, target)
	}
	converted := decimal.NewFromInt(m.amount).
		Shift(int32(-m.currency.Decimals)).
		Mul(rate).
		Shift(int32(target.Decimals)).
		RoundBank(0)
	return Money{amount: converted.IntPart(), currency: target}, nil
}

// String formats the amount in main units with the currency code, e.g.
// "12.50 USD".
func (m Money) String() string {
	return fmt.Sprintf("%s %s",
		decimal.NewFromInt(m.amount).Shift(int32(-m.currency.Decimals)).StringFixed(int32(m.currency.Decimals)),
		m.currency.Code)
}

// MarshalJSON implements json.Marshaler.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"amount":   m.amount,
		"currency": m.currency.Code,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Money) UnmarshalJSON(data []byte) error {
	var aux struct {
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	code := Code(aux.Currency)
	if !code.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidCurrency, aux.Currency)
	}
	m.amount = aux.Amount
	m.currency = code.ToCurrency()
	return nil
}
