package transfer_test

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
	"github.com/pennywiseapp/pennywise/pkg/domain"
	transactiondomain "github.com/pennywiseapp/pennywise/pkg/domain/transaction"
	transferdomain "github.com/pennywiseapp/pennywise/pkg/domain/transfer"
	"github.com/pennywiseapp/pennywise/pkg/dto"
	"github.com/pennywiseapp/pennywise/pkg/eventbus"
	"github.com/pennywiseapp/pennywise/pkg/provider"
	budgetsvc "github.com/pennywiseapp/pennywise/pkg/service/budget"
	ledgersvc "github.com/pennywiseapp/pennywise/pkg/service/ledger"
	"github.com/pennywiseapp/pennywise/pkg/service/transfer"
)

func newFixture(t *testing.T, rates provider.ExchangeRate) (*transfer.Service, *ledgersvc.Service) {
	t.Helper()
	uow := fixtures.NewUnitOfWork()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	budgets := budgetsvc.New(uow, eventbus.NewMemoryEventBus(), logger)
	ledger := ledgersvc.New(uow, budgets, logger)
	return transfer.New(uow, rates, logger), ledger
}

func seedAccount(t *testing.T, ledger *ledgersvc.Service, userID uuid.UUID, currency string, initialMinor int64) *dto.AccountRead {
	t.Helper()
	read, err := ledger.CreateAccount(context.Background(), dto.AccountCreate{
		UserID:         userID,
		Name:           currency + " account",
		Type:           "checking",
		Currency:       currency,
		InitialBalance: initialMinor,
		Active:         true,
	})
	require.NoError(t, err)
	return read
}

func staticRates() provider.ExchangeRate {
	return infraprovider.NewStaticExchangeRate(map[string]decimal.Decimal{
		"USD:EUR": decimal.NewFromFloat(2.0),
	})
}

func TestCreateTransferSameCurrency(t *testing.T) {
	svc, ledger := newFixture(t, staticRates())
	ctx := context.Background()
	userID := uuid.New()
	src := seedAccount(t, ledger, userID, "USD", 100000)
	dst := seedAccount(t, ledger, userID, "USD", 0)

	read, err := svc.CreateTransfer(ctx, dto.TransferCommand{
		UserID:               userID,
		SourceAccountID:      src.ID,
		DestinationAccountID: dst.ID,
		Amount:               250,
		Date:                 time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		UseLiveRate:          true, // ignored for same-currency pairs
	})
	require.NoError(t, err)

	assert.Equal(t, int64(25000), read.SourceAmount)
	assert.Equal(t, int64(25000), read.DestinationAmount)
	assert.True(t, read.ExchangeRate.Equal(decimal.NewFromInt(1)))
	assert.False(t, read.UsedRealTimeRate)

	// Both legs carry the shared correlation reference.
	out, err := ledger.GetTransaction(ctx, read.SourceTransactionID)
	require.NoError(t, err)
	in, err := ledger.GetTransaction(ctx, read.DestinationTransactionID)
	require.NoError(t, err)
	assert.True(t, transactiondomain.IsTransferOut(out.Reference))
	assert.True(t, transactiondomain.IsTransferIn(in.Reference))
	assert.Equal(t, out.Reference[len("TRANSFER-OUT-"):], in.Reference[len("TRANSFER-IN-"):])
}

func TestCreateTransferCrossCurrencyLiveRate(t *testing.T) {
	svc, ledger := newFixture(t, staticRates())
	ctx := context.Background()
	userID := uuid.New()
	src := seedAccount(t, ledger, userID, "USD", 100000)
	dst := seedAccount(t, ledger, userID, "EUR", 0)

	read, err := svc.CreateTransfer(ctx, dto.TransferCommand{
		UserID:               userID,
		SourceAccountID:      src.ID,
		DestinationAccountID: dst.ID,
		Amount:               100,
		UseLiveRate:          true,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(10000), read.SourceAmount)
	assert.Equal(t, int64(20000), read.DestinationAmount)
	assert.Equal(t, "EUR", read.DestinationCurrency)
	assert.True(t, read.UsedRealTimeRate)
	assert.True(t, read.ExchangeRate.Equal(decimal.NewFromFloat(2.0)))
}

func TestCreateTransferManualRate(t *testing.T) {
	svc, ledger := newFixture(t, staticRates())
	ctx := context.Background()
	userID := uuid.New()
	src := seedAccount(t, ledger, userID, "USD", 100000)
	dst := seedAccount(t, ledger, userID, "EUR", 0)

	rate := decimal.NewFromFloat(0.9)
	read, err := svc.CreateTransfer(ctx, dto.TransferCommand{
		UserID:               userID,
		SourceAccountID:      src.ID,
		DestinationAccountID: dst.ID,
		Amount:               100,
		ManualRate:           &rate,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(9000), read.DestinationAmount)
	assert.False(t, read.UsedRealTimeRate)
}

func TestCrossCurrencyWithoutRateFails(t *testing.T) {
	svc, ledger := newFixture(t, staticRates())
	ctx := context.Background()
	userID := uuid.New()
	src := seedAccount(t, ledger, userID, "USD", 100000)
	dst := seedAccount(t, ledger, userID, "EUR", 0)

	_, err := svc.CreateTransfer(ctx, dto.TransferCommand{
		UserID:               userID,
		SourceAccountID:      src.ID,
		DestinationAccountID: dst.ID,
		Amount:               100,
	})
	assert.ErrorIs(t, err, transferdomain.ErrManualRateRequired)
}

func TestProviderFailureLeavesStoreUntouched(t *testing.T) {
	// Empty table: every cross-currency lookup fails.
	svc, ledger := newFixture(t, infraprovider.NewStaticExchangeRate(nil))
	ctx := context.Background()
	userID := uuid.New()
	src := seedAccount(t, ledger, userID, "USD", 100000)
	dst := seedAccount(t, ledger, userID, "EUR", 0)

	_, err := svc.CreateTransfer(ctx, dto.TransferCommand{
		UserID:               userID,
		SourceAccountID:      src.ID,
		DestinationAccountID: dst.ID,
		Amount:               100,
		UseLiveRate:          true,
	})
	require.ErrorIs(t, err, domain.ErrExternalService)

	// No orphaned legs, no record.
	txs, err := ledger.ListTransactions(ctx, userID, dto.TransactionListFilter{})
	require.NoError(t, err)
	assert.Empty(t, txs)
	reads, err := svc.ListTransfers(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, reads)

	balance, err := ledger.ComputeBalance(ctx, src.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100000), balance.Amount())
}

func TestCreateTransferValidation(t *testing.T) {
	svc, ledger := newFixture(t, staticRates())
	ctx := context.Background()
	userID := uuid.New()
	src := seedAccount(t, ledger, userID, "USD", 100000)

	_, err := svc.CreateTransfer(ctx, dto.TransferCommand{
		UserID:               userID,
		SourceAccountID:      src.ID,
		DestinationAccountID: src.ID,
		Amount:               10,
	})
	assert.ErrorIs(t, err, transferdomain.ErrSameAccount)

	dst := seedAccount(t, ledger, userID, "USD", 0)
	_, err = svc.CreateTransfer(ctx, dto.TransferCommand{
		UserID:               userID,
		SourceAccountID:      src.ID,
		DestinationAccountID: dst.ID,
		Amount:               0,
	})
	assert.ErrorIs(t, err, domain.ErrAmountMustBePositive)

	_, err = svc.CreateTransfer(ctx, dto.TransferCommand{
		UserID:               uuid.New(),
		SourceAccountID:      src.ID,
		DestinationAccountID: dst.ID,
		Amount:               10,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteTransferRemovesBothLegs(t *testing.T) {
	svc, ledger := newFixture(t, staticRates())
	ctx := context.Background()
	userID := uuid.New()
	src := seedAccount(t, ledger, userID, "USD", 100000)
	dst := seedAccount(t, ledger, userID, "USD", 0)

	read, err := svc.CreateTransfer(ctx, dto.TransferCommand{
		UserID:               userID,
		SourceAccountID:      src.ID,
		DestinationAccountID: dst.ID,
		Amount:               40,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTransfer(ctx, read.ID))

	_, err = svc.GetTransfer(ctx, read.ID)
	assert.ErrorIs(t, err, transferdomain.ErrTransferNotFound)
	_, err = ledger.GetTransaction(ctx, read.SourceTransactionID)
	assert.ErrorIs(t, err, transactiondomain.ErrTransactionNotFound)
	_, err = ledger.GetTransaction(ctx, read.DestinationTransactionID)
	assert.ErrorIs(t, err, transactiondomain.ErrTransactionNotFound)

	// Balances revert to their initial values.
	balance, err := ledger.ComputeBalance(ctx, src.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100000), balance.Amount())
}
