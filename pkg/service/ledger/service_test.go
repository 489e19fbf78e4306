package ledger_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraprovider "github.com/pennywiseapp/pennywise/infra/provider"
	"github.com/pennywiseapp/pennywise/internal/fixtures"
	accountdomain "github.com/pennywiseapp/pennywise/pkg/domain/account"
	budgetdomain "github.com/pennywiseapp/pennywise/pkg/domain/budget"
	transactiondomain "github.com/pennywiseapp/pennywise/pkg/domain/transaction"
	"github.com/pennywiseapp/pennywise/pkg/dto"
	"github.com/pennywiseapp/pennywise/pkg/eventbus"
	budgetsvc "github.com/pennywiseapp/pennywise/pkg/service/budget"
	"github.com/pennywiseapp/pennywise/pkg/service/ledger"
	transfersvc "github.com/pennywiseapp/pennywise/pkg/service/transfer"
)

func newServices(t *testing.T) (*ledger.Service, *budgetsvc.Service, *transfersvc.Service, *fixtures.UnitOfWork) {
	t.Helper()
	uow := fixtures.NewUnitOfWork()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	budgets := budgetsvc.New(uow, eventbus.NewMemoryEventBus(), logger)
	rates := infraprovider.NewStaticExchangeRate(map[string]decimal.Decimal{
		"USD:EUR": decimal.NewFromFloat(2.0),
	})
	transfers := transfersvc.New(uow, rates, logger)
	return ledger.New(uow, budgets, logger), budgets, transfers, uow
}

func createAccount(t *testing.T, svc *ledger.Service, userID uuid.UUID, currency string, initialMinor int64) *dto.AccountRead {
	t.Helper()
	read, err := svc.CreateAccount(context.Background(), dto.AccountCreate{
		UserID:         userID,
		Name:           "checking",
		Type:           "checking",
		Currency:       currency,
		InitialBalance: initialMinor,
		Active:         true,
	})
	require.NoError(t, err)
	return read
}

func TestBalanceOfEmptyAccountIsInitial(t *testing.T) {
	svc, _, _, _ := newServices(t)
	userID := uuid.New()
	acct := createAccount(t, svc, userID, "USD", 50000)

	balance, err := svc.ComputeBalance(context.Background(), acct.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(50000), balance.Amount())
}

func TestBalanceSumsAllTransactionKinds(t *testing.T) {
	svc, _, transfers, _ := newServices(t)
	ctx := context.Background()
	userID := uuid.New()
	acct := createAccount(t, svc, userID, "USD", 10000) // $100
	other := createAccount(t, svc, userID, "USD", 0)

	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.CreateTransaction(ctx, dto.TransactionCommand{
		UserID: userID, AccountID: acct.ID, Type: "income", Amount: 200, TransactionDate: date,
	})
	require.NoError(t, err)
	_, err = svc.CreateTransaction(ctx, dto.TransactionCommand{
		UserID: userID, AccountID: acct.ID, Type: "expense", Amount: 75.25, TransactionDate: date,
	})
	require.NoError(t, err)

	// Incoming and outgoing transfer legs count too.
	_, err = transfers.CreateTransfer(ctx, dto.TransferCommand{
		UserID: userID, SourceAccountID: acct.ID, DestinationAccountID: other.ID, Amount: 30, Date: date,
	})
	require.NoError(t, err)
	_, err = transfers.CreateTransfer(ctx, dto.TransferCommand{
		UserID: userID, SourceAccountID: other.ID, DestinationAccountID: acct.ID, Amount: 10, Date: date,
	})
	require.NoError(t, err)

	balance, err := svc.ComputeBalance(ctx, acct.ID)
	require.NoError(t, err)
	// 100 + 200 - 75.25 - 30 + 10 dollars
	assert.Equal(t, int64(20475), balance.Amount())

	otherBalance, err := svc.ComputeBalance(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), otherBalance.Amount())
}

func TestDeletedTransactionsLeaveTheBalance(t *testing.T) {
	svc, _, _, _ := newServices(t)
	ctx := context.Background()
	userID := uuid.New()
	acct := createAccount(t, svc, userID, "USD", 0)

	tx, err := svc.CreateTransaction(ctx, dto.TransactionCommand{
		UserID: userID, AccountID: acct.ID, Type: "income", Amount: 500,
		TransactionDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTransaction(ctx, tx.ID))

	balance, err := svc.ComputeBalance(ctx, acct.ID)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestCreateTransactionRejectsTransferType(t *testing.T) {
	svc, _, _, _ := newServices(t)
	userID := uuid.New()
	acct := createAccount(t, svc, userID, "USD", 0)

	_, err := svc.CreateTransaction(context.Background(), dto.TransactionCommand{
		UserID: userID, AccountID: acct.ID, Type: "transfer", Amount: 10,
		TransactionDate: time.Now(),
	})
	assert.ErrorIs(t, err, transactiondomain.ErrTransferLegDirect)
}

func TestTransferLegCannotBeTouchedDirectly(t *testing.T) {
	svc, _, transfers, _ := newServices(t)
	ctx := context.Background()
	userID := uuid.New()
	src := createAccount(t, svc, userID, "USD", 10000)
	dst := createAccount(t, svc, userID, "USD", 0)

	read, err := transfers.CreateTransfer(ctx, dto.TransferCommand{
		UserID: userID, SourceAccountID: src.ID, DestinationAccountID: dst.ID, Amount: 20,
		Date: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	desc := "tweak"
	_, err = svc.UpdateTransaction(ctx, read.SourceTransactionID, dto.TransactionUpdate{Description: &desc})
	assert.ErrorIs(t, err, transactiondomain.ErrTransferLegDirect)

	err = svc.DeleteTransaction(ctx, read.DestinationTransactionID)
	assert.ErrorIs(t, err, transactiondomain.ErrTransferLegDirect)
}

func TestCreateTransactionOwnershipAndActiveChecks(t *testing.T) {
	svc, _, _, _ := newServices(t)
	ctx := context.Background()
	owner := uuid.New()
	acct := createAccount(t, svc, owner, "USD", 0)

	_, err := svc.CreateTransaction(ctx, dto.TransactionCommand{
		UserID: uuid.New(), AccountID: acct.ID, Type: "income", Amount: 10,
		TransactionDate: time.Now(),
	})
	assert.ErrorIs(t, err, accountdomain.ErrAccountNotFound)

	inactive := false
	_, err = svc.UpdateAccount(ctx, acct.ID, dto.AccountUpdate{Active: &inactive})
	require.NoError(t, err)

	_, err = svc.CreateTransaction(ctx, dto.TransactionCommand{
		UserID: owner, AccountID: acct.ID, Type: "income", Amount: 10,
		TransactionDate: time.Now(),
	})
	assert.ErrorIs(t, err, accountdomain.ErrAccountInactive)
}

func TestExpenseWriteRecomputesMatchingBudget(t *testing.T) {
	svc, budgets, _, _ := newServices(t)
	ctx := context.Background()
	userID := uuid.New()
	acct := createAccount(t, svc, userID, "USD", 100000)

	budget, err := budgets.CreateBudget(ctx, dto.BudgetCreate{
		UserID:    userID,
		Name:      "september",
		Amount:    50000,
		Currency:  "USD",
		Period:    "monthly",
		StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC),
		Status:    string(budgetdomain.StatusActive),
	})
	require.NoError(t, err)
	require.Equal(t, int64(0), budget.SpentAmount)

	_, err = svc.CreateTransaction(ctx, dto.TransactionCommand{
		UserID: userID, AccountID: acct.ID, Type: "expense", Amount: 120.50,
		TransactionDate: time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	updated, err := budgets.GetBudget(ctx, budget.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(12050), updated.SpentAmount)

	// A transaction outside the window leaves the budget alone.
	_, err = svc.CreateTransaction(ctx, dto.TransactionCommand{
		UserID: userID, AccountID: acct.ID, Type: "expense", Amount: 40,
		TransactionDate: time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	updated, err = budgets.GetBudget(ctx, budget.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(12050), updated.SpentAmount)
}

func TestDeleteExpenseRecomputesBudget(t *testing.T) {
	svc, budgets, _, _ := newServices(t)
	ctx := context.Background()
	userID := uuid.New()
	acct := createAccount(t, svc, userID, "USD", 100000)

	budget, err := budgets.CreateBudget(ctx, dto.BudgetCreate{
		UserID:    userID,
		Name:      "september",
		Amount:    50000,
		Currency:  "USD",
		Period:    "monthly",
		StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	tx, err := svc.CreateTransaction(ctx, dto.TransactionCommand{
		UserID: userID, AccountID: acct.ID, Type: "expense", Amount: 80,
		TransactionDate: time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTransaction(ctx, tx.ID))

	updated, err := budgets.GetBudget(ctx, budget.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), updated.SpentAmount)
}

func TestDeleteAccountHidesItFromReads(t *testing.T) {
	svc, _, _, _ := newServices(t)
	ctx := context.Background()
	userID := uuid.New()
	acct := createAccount(t, svc, userID, "USD", 10000)

	_, err := svc.CreateTransaction(ctx, dto.TransactionCommand{
		UserID: userID, AccountID: acct.ID, Type: "expense", Amount: 10,
		TransactionDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAccount(ctx, acct.ID))

	_, err = svc.GetAccount(ctx, acct.ID)
	assert.ErrorIs(t, err, accountdomain.ErrAccountNotFound)
	_, err = svc.ComputeBalance(ctx, acct.ID)
	assert.ErrorIs(t, err, accountdomain.ErrAccountNotFound)

	assert.ErrorIs(t, svc.DeleteAccount(ctx, uuid.New()), accountdomain.ErrAccountNotFound)
}
