package budget_test

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pennywiseapp/pennywise/internal/fixtures"
	"github.com/pennywiseapp/pennywise/pkg/domain"
	budgetdomain "github.com/pennywiseapp/pennywise/pkg/domain/budget"
	"github.com/pennywiseapp/pennywise/pkg/domain/events"
	"github.com/pennywiseapp/pennywise/pkg/dto"
	"github.com/pennywiseapp/pennywise/pkg/eventbus"
	"github.com/pennywiseapp/pennywise/pkg/repository"
	"github.com/pennywiseapp/pennywise/pkg/service/budget"
	ledgersvc "github.com/pennywiseapp/pennywise/pkg/service/ledger"
)

func newServices(t *testing.T) (*budget.Service, *ledgersvc.Service, *fixtures.UnitOfWork, eventbus.EventBus) {
	t.Helper()
	uow := fixtures.NewUnitOfWork()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := eventbus.NewMemoryEventBus()
	budgets := budget.New(uow, bus, logger)
	ledger := ledgersvc.New(uow, budgets, logger)
	return budgets, ledger, uow, bus
}

// currentWindow returns a window that contains time.Now.
func currentWindow() (time.Time, time.Time) {
	now := time.Now().UTC()
	return now.AddDate(0, 0, -7), now.AddDate(0, 0, 7)
}

func createAccount(t *testing.T, ledger *ledgersvc.Service, userID uuid.UUID) *dto.AccountRead {
	t.Helper()
	read, err := ledger.CreateAccount(context.Background(), dto.AccountCreate{
		UserID:   userID,
		Name:     "checking",
		Type:     "checking",
		Currency: "USD",
		Active:   true,
	})
	require.NoError(t, err)
	return read
}

func createBudget(t *testing.T, svc *budget.Service, userID uuid.UUID, amountMinor int64) *dto.BudgetRead {
	t.Helper()
	start, end := currentWindow()
	read, err := svc.CreateBudget(context.Background(), dto.BudgetCreate{
		UserID:            userID,
		Name:              "groceries",
		Amount:            amountMinor,
		Currency:          "USD",
		Period:            "monthly",
		StartDate:         start,
		EndDate:           end,
		SendNotifications: true,
	})
	require.NoError(t, err)
	return read
}

func TestCreateBudgetCountsExistingExpenses(t *testing.T) {
	svc, ledger, _, _ := newServices(t)
	ctx := context.Background()
	userID := uuid.New()
	acct := createAccount(t, ledger, userID)

	_, err := ledger.CreateTransaction(ctx, dto.TransactionCommand{
		UserID: userID, AccountID: acct.ID, Type: "expense", Amount: 42.50,
		TransactionDate: time.Now().UTC(),
	})
	require.NoError(t, err)

	read := createBudget(t, svc, userID, 100000)
	assert.Equal(t, int64(4250), read.SpentAmount)
	assert.Equal(t, string(budgetdomain.StatusActive), read.Status)
}

func TestExpenseWritesMoveSpentAmount(t *testing.T) {
	svc, ledger, _, _ := newServices(t)
	ctx := context.Background()
	userID := uuid.New()
	acct := createAccount(t, ledger, userID)
	read := createBudget(t, svc, userID, 10000) // $100

	_, err := ledger.CreateTransaction(ctx, dto.TransactionCommand{
		UserID: userID, AccountID: acct.ID, Type: "expense", Amount: 30,
		TransactionDate: time.Now().UTC(),
	})
	require.NoError(t, err)

	read, err = svc.GetBudget(ctx, read.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), read.SpentAmount)
	assert.Equal(t, string(budgetdomain.StatusActive), read.Status)
}

func TestRecomputeMarksExceededWhenSpentPassesCeiling(t *testing.T) {
	svc, ledger, _, _ := newServices(t)
	ctx := context.Background()
	userID := uuid.New()
	acct := createAccount(t, ledger, userID)
	read := createBudget(t, svc, userID, 10000)

	_, err := ledger.CreateTransaction(ctx, dto.TransactionCommand{
		UserID: userID, AccountID: acct.ID, Type: "expense", Amount: 100.01,
		TransactionDate: time.Now().UTC(),
	})
	require.NoError(t, err)

	read, err = svc.GetBudget(ctx, read.ID)
	require.NoError(t, err)
	assert.Equal(t, string(budgetdomain.StatusExceeded), read.Status)
}

func TestPastWindowCompletesOnRecompute(t *testing.T) {
	svc, _, _, _ := newServices(t)
	ctx := context.Background()
	userID := uuid.New()

	read, err := svc.CreateBudget(ctx, dto.BudgetCreate{
		UserID:    userID,
		Name:      "last month",
		Amount:    10000,
		Currency:  "USD",
		Period:    "monthly",
		StartDate: time.Now().UTC().AddDate(0, -2, 0),
		EndDate:   time.Now().UTC().AddDate(0, -1, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, string(budgetdomain.StatusCompleted), read.Status)
}

func TestRecomputeIsIdempotent(t *testing.T) {
	svc, ledger, _, bus := newServices(t)
	ctx := context.Background()
	userID := uuid.New()
	acct := createAccount(t, ledger, userID)
	read := createBudget(t, svc, userID, 10000)

	var published atomic.Int64
	bus.Subscribe(events.EventTypeBudgetSpentChanged, func(context.Context, domain.Event) {
		published.Add(1)
	})

	_, err := ledger.CreateTransaction(ctx, dto.TransactionCommand{
		UserID: userID, AccountID: acct.ID, Type: "expense", Amount: 25,
		TransactionDate: time.Now().UTC(),
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), published.Load())

	// Nothing changed since the write, so further recomputes neither
	// move the projection nor emit events.
	again, err := svc.RecomputeSpentAmount(ctx, read.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), again.SpentAmount)
	assert.Equal(t, int64(1), published.Load())
}

func TestUpdateBudgetRejectsBadThreshold(t *testing.T) {
	svc, _, _, _ := newServices(t)
	ctx := context.Background()
	read := createBudget(t, svc, uuid.New(), 10000)

	threshold := 150
	_, err := svc.UpdateBudget(ctx, read.ID, dto.BudgetUpdate{NotificationThreshold: &threshold})
	assert.ErrorIs(t, err, budgetdomain.ErrInvalidThreshold)
}

func TestCreateBudgetValidation(t *testing.T) {
	svc, _, _, _ := newServices(t)
	ctx := context.Background()
	start, end := currentWindow()

	_, err := svc.CreateBudget(ctx, dto.BudgetCreate{
		UserID: uuid.New(), Name: "bad window", Amount: 10000, Currency: "USD",
		Period: "monthly", StartDate: end, EndDate: start,
	})
	assert.ErrorIs(t, err, budgetdomain.ErrInvalidWindow)

	_, err = svc.CreateBudget(ctx, dto.BudgetCreate{
		UserID: uuid.New(), Name: "bad period", Amount: 10000, Currency: "USD",
		Period: "fortnightly", StartDate: start, EndDate: end,
	})
	assert.ErrorIs(t, err, budgetdomain.ErrInvalidPeriod)
}

func TestCheckAllActiveBudgetsRepairsDrift(t *testing.T) {
	svc, ledger, uow, _ := newServices(t)
	ctx := context.Background()
	userID := uuid.New()
	acct := createAccount(t, ledger, userID)
	read := createBudget(t, svc, userID, 10000)

	// Insert an expense through the repository directly, bypassing the
	// write path that keeps budgets current.
	err := uow.Do(ctx, func(u repository.UnitOfWork) error {
		transactions, err := u.TransactionRepository()
		if err != nil {
			return err
		}
		return transactions.Create(ctx, dto.TransactionCreate{
			ID: uuid.New(), AccountID: acct.ID, UserID: userID,
			Type: "expense", Amount: 1500, Currency: "USD",
			TransactionDate: time.Now().UTC(),
		})
	})
	require.NoError(t, err)

	stale, err := svc.GetBudget(ctx, read.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), stale.SpentAmount)

	require.NoError(t, svc.CheckAllActiveBudgets(ctx))

	fresh, err := svc.GetBudget(ctx, read.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), fresh.SpentAmount)
}

func TestCheckAllBudgetThresholdsPublishesWithoutMutation(t *testing.T) {
	svc, ledger, _, bus := newServices(t)
	ctx := context.Background()
	userID := uuid.New()
	acct := createAccount(t, ledger, userID)
	read := createBudget(t, svc, userID, 10000)

	_, err := ledger.CreateTransaction(ctx, dto.TransactionCommand{
		UserID: userID, AccountID: acct.ID, Type: "expense", Amount: 85,
		TransactionDate: time.Now().UTC(),
	})
	require.NoError(t, err)

	var last atomic.Value
	bus.Subscribe(events.EventTypeBudgetSpentChanged, func(_ context.Context, ev domain.Event) {
		last.Store(ev.(events.BudgetSpentChanged))
	})

	require.NoError(t, svc.CheckAllBudgetThresholds(ctx))

	ev, ok := last.Load().(events.BudgetSpentChanged)
	require.True(t, ok, "expected a threshold sweep event")
	assert.Equal(t, read.ID, ev.BudgetID)
	assert.Equal(t, int64(8500), ev.SpentAmount)
	assert.Equal(t, ev.PreviousSpent, ev.SpentAmount)

	after, err := svc.GetBudget(ctx, read.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(8500), after.SpentAmount)
	assert.Equal(t, string(budgetdomain.StatusActive), after.Status)
}
