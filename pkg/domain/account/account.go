// Package account defines the Account aggregate: a user-owned,
// single-currency container for transactions.
package account

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pennywiseapp/pennywise/pkg/domain"
	"github.com/pennywiseapp/pennywise/pkg/money"
)

var (
	// ErrAccountNotFound is returned when an account cannot be found.
	ErrAccountNotFound = fmt.Errorf("%w: account", domain.ErrNotFound)

	// ErrAccountInactive is returned when an operation targets a
	// deactivated account.
	ErrAccountInactive = fmt.Errorf("%w: account is inactive", domain.ErrValidation)

	// ErrInvalidAccountType is returned when an unknown account type is given.
	ErrInvalidAccountType = fmt.Errorf("%w: invalid account type", domain.ErrValidation)
)

// Type classifies an account.
type Type string

// Supported account types.
const (
	TypeChecking Type = "checking"
	TypeSavings  Type = "savings"
	TypeCash     Type = "cash"
	TypeCredit   Type = "credit"
)

// IsValid reports whether the account type is one of the supported values.
func (t Type) IsValid() bool {
	switch t {
	case TypeChecking, TypeSavings, TypeCash, TypeCredit:
		return true
	}
	return false
}

// Account represents a user's financial account.
//
// Invariants:
//   - An account must always have a valid owner (UserID).
//   - The current balance is a pure function of InitialBalance plus the
//     account's non-deleted transaction history; it is never stored as
//     an authoritative column.
type Account struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Name           string
	Type           Type
	InitialBalance money.Money
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Currency returns the account's currency.
func (a *Account) Currency() money.Currency {
	return a.InitialBalance.Currency()
}

// Builder provides a fluent API for constructing Account values.
type Builder struct {
	id             uuid.UUID
	userID         uuid.UUID
	name           string
	accountType    Type
	currency       money.Currency
	initialBalance int64
	active         bool
	createdAt      time.Time
	updatedAt      time.Time
}

// New creates a Builder with sensible defaults: a fresh UUID, the
// default currency, type checking, and the active flag set.
func New() *Builder {
	return &Builder{
		id:          uuid.New(),
		accountType: TypeChecking,
		currency:    money.DefaultCurrency,
		active:      true,
		createdAt:   time.Now(),
	}
}

// WithID sets the ID for the account being built.
func (b *Builder) WithID(id uuid.UUID) *Builder {
	b.id = id
	return b
}

// WithUserID sets the owning user. Mandatory.
func (b *Builder) WithUserID(userID uuid.UUID) *Builder {
	b.userID = userID
	return b
}

// WithName sets the display name.
func (b *Builder) WithName(name string) *Builder {
	b.name = name
	return b
}

// WithType sets the account type.
func (b *Builder) WithType(t Type) *Builder {
	b.accountType = t
	return b
}

// WithCurrency sets the account currency.
func (b *Builder) WithCurrency(c money.Currency) *Builder {
	b.currency = c
	return b
}

// WithInitialBalance sets the opening balance in the smallest currency
// unit. Used for hydration from a data store and for test setup.
func (b *Builder) WithInitialBalance(minor int64) *Builder {
	b.initialBalance = minor
	return b
}

// WithActive sets the active flag.
func (b *Builder) WithActive(active bool) *Builder {
	b.active = active
	return b
}

// WithCreatedAt sets the creation timestamp, for hydration.
func (b *Builder) WithCreatedAt(t time.Time) *Builder {
	b.createdAt = t
	return b
}

// WithUpdatedAt sets the last-updated timestamp, for hydration.
func (b *Builder) WithUpdatedAt(t time.Time) *Builder {
	b.updatedAt = t
	return b
}

// Build validates all invariants and returns the Account.
func (b *Builder) Build() (*Account, error) {
	if !b.currency.IsValid() {
		return nil, money.ErrInvalidCurrency
	}
	if b.userID == uuid.Nil {
		return nil, errors.New("userID is required")
	}
	if !b.accountType.IsValid() {
		return nil, ErrInvalidAccountType
	}
	initial, err := money.NewFromSmallestUnit(b.initialBalance, b.currency)
	if err != nil {
		return nil, err
	}
	return &Account{
		ID:             b.id,
		UserID:         b.userID,
		Name:           b.name,
		Type:           b.accountType,
		InitialBalance: initial,
		Active:         b.active,
		CreatedAt:      b.createdAt,
		UpdatedAt:      b.updatedAt,
	}, nil
}
