package money

// Code represents an ISO 4217 currency code (e.g., "USD", "EUR").
type Code string

// Common currency codes.
const (
	USD Code = "USD"
	EUR Code = "EUR"
	GBP Code = "GBP"
	JPY Code = "JPY"
	EGP Code = "EGP"
	KWD Code = "KWD"
	CAD Code = "CAD"
	AUD Code = "AUD"
	CHF Code = "CHF"
	CNY Code = "CNY"
	INR Code = "INR"
)

// decimalsByCode is the registry of supported currencies and their
// minor-unit exponents.
var decimalsByCode = map[Code]int{
	USD: 2,
	EUR: 2,
	GBP: 2,
	JPY: 0,
	EGP: 2,
	KWD: 3,
	CAD: 2,
	AUD: 2,
	CHF: 2,
	CNY: 2,
	INR: 2,
}

// IsValid checks that the code names a supported currency.
func (c Code) IsValid() bool {
	_, ok := decimalsByCode[c]
	return ok
}

// String returns the string representation of the currency code.
func (c Code) String() string {
	return string(c)
}

// ToCurrency resolves the code to a Currency with its standard decimal
// places.
func (c Code) ToCurrency() Currency {
	if d, ok := decimalsByCode[c]; ok {
		return Currency{Code: c, Decimals: d}
	}
	return Currency{Code: c, Decimals: 2}
}

// DefaultCurrency is the currency assumed when none is configured.
var DefaultCurrency = USD.ToCurrency()
