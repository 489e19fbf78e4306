package budget_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pennywiseapp/pennywise/pkg/domain/budget"
	"github.com/pennywiseapp/pennywise/pkg/money"
)

func buildBudget(t *testing.T, amountMinor int64) *budget.Budget {
	t.Helper()
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)
	b, err := budget.New().
		WithUserID(uuid.New()).
		WithName("groceries").
		WithAmount(amountMinor).
		WithCurrency(money.USD.ToCurrency()).
		WithWindow(start, end).
		Build()
	require.NoError(t, err)
	return b
}

func usd(minor int64) money.Money {
	m, _ := money.NewFromSmallestUnit(minor, money.USD.ToCurrency())
	return m
}

func TestApplySpentKeepsActiveUnderCeiling(t *testing.T) {
	b := buildBudget(t, 100000)
	now := time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)

	require.NoError(t, b.ApplySpent(usd(50000), now))
	assert.Equal(t, budget.StatusActive, b.Status)
	assert.Equal(t, int64(50000), b.SpentAmount.Amount())
}

func TestApplySpentExceedsOnlyWhenOver(t *testing.T) {
	b := buildBudget(t, 100000)
	now := time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)

	// Exactly at the ceiling is not exceeded.
	require.NoError(t, b.ApplySpent(usd(100000), now))
	assert.Equal(t, budget.StatusActive, b.Status)

	require.NoError(t, b.ApplySpent(usd(100001), now))
	assert.Equal(t, budget.StatusExceeded, b.Status)
}

func TestExceededIsSticky(t *testing.T) {
	b := buildBudget(t, 100000)
	now := time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)

	require.NoError(t, b.ApplySpent(usd(120000), now))
	require.Equal(t, budget.StatusExceeded, b.Status)

	// Spend dropping back under the ceiling does not reactivate.
	require.NoError(t, b.ApplySpent(usd(30000), now))
	assert.Equal(t, budget.StatusExceeded, b.Status)
}

func TestWindowPassedCompletes(t *testing.T) {
	b := buildBudget(t, 100000)
	after := time.Date(2026, 10, 1, 0, 0, 1, 0, time.UTC)

	require.NoError(t, b.ApplySpent(usd(10000), after))
	assert.Equal(t, budget.StatusCompleted, b.Status)
}

func TestApplySpentRejectsMismatchedCurrency(t *testing.T) {
	b := buildBudget(t, 100000)
	eur, _ := money.NewFromSmallestUnit(500, money.EUR.ToCurrency())
	err := b.ApplySpent(eur, time.Now())
	assert.ErrorIs(t, err, money.ErrMismatchedCurrencies)
}

func TestSpentPercentage(t *testing.T) {
	assert := assert.New(t)

	b := buildBudget(t, 100000)
	require.NoError(t, b.ApplySpent(usd(85000), time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)))
	assert.InDelta(85.0, b.SpentPercentage(), 0.001)

	// Over the ceiling caps at 100.
	require.NoError(t, b.ApplySpent(usd(250000), time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(100.0, b.SpentPercentage())
}

func TestZeroAmountBudgetPercentage(t *testing.T) {
	b := buildBudget(t, 0)
	assert.Equal(t, 0.0, b.SpentPercentage())
	require.NoError(t, b.ApplySpent(usd(1), time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 100.0, b.SpentPercentage())
	assert.Equal(t, budget.StatusExceeded, b.Status)
}

func TestMatchesCategoryScope(t *testing.T) {
	assert := assert.New(t)

	inWindow := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	outOfWindow := time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC)
	catID := uuid.New()
	otherID := uuid.New()

	all := buildBudget(t, 100000)
	assert.True(all.Matches(&catID, inWindow))
	assert.True(all.Matches(nil, inWindow))
	assert.False(all.Matches(&catID, outOfWindow))

	scoped := buildBudget(t, 100000)
	scoped.CategoryID = &catID
	assert.True(scoped.Matches(&catID, inWindow))
	assert.False(scoped.Matches(&otherID, inWindow))
	assert.False(scoped.Matches(nil, inWindow))
}

func TestBuildValidation(t *testing.T) {
	assert := assert.New(t)

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	_, err := budget.New().
		WithUserID(uuid.New()).
		WithName("broken").
		WithAmount(1000).
		WithCurrency(money.USD.ToCurrency()).
		WithWindow(start, end).
		Build()
	assert.ErrorIs(err, budget.ErrInvalidWindow)

	_, err = budget.New().
		WithUserID(uuid.New()).
		WithName("bad period").
		WithAmount(1000).
		WithCurrency(money.USD.ToCurrency()).
		WithPeriod(budget.Period("fortnightly")).
		WithWindow(end, start).
		Build()
	assert.ErrorIs(err, budget.ErrInvalidPeriod)

	_, err = budget.New().
		WithUserID(uuid.New()).
		WithName("bad threshold").
		WithAmount(1000).
		WithCurrency(money.USD.ToCurrency()).
		WithNotificationThreshold(150).
		WithWindow(end, start).
		Build()
	assert.ErrorIs(err, budget.ErrInvalidThreshold)
}
