// Package transfer implements the transfer coordinator: the only write
// path allowed to create or delete transfer-type transactions. A
// transfer is always a debit leg, a credit leg, and one linking record,
// written atomically in a single unit of work.
package transfer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pennywiseapp/pennywise/pkg/domain"
	accountdomain "github.com/pennywiseapp/pennywise/pkg/domain/account"
	transactiondomain "github.com/pennywiseapp/pennywise/pkg/domain/transaction"
	transferdomain "github.com/pennywiseapp/pennywise/pkg/domain/transfer"
	"github.com/pennywiseapp/pennywise/pkg/dto"
	"github.com/pennywiseapp/pennywise/pkg/money"
	"github.com/pennywiseapp/pennywise/pkg/provider"
	"github.com/pennywiseapp/pennywise/pkg/repository"
)

// Service coordinates transfer creation and deletion.
type Service struct {
	uow    repository.UnitOfWork
	rates  provider.ExchangeRate
	logger *slog.Logger
}

// New creates a transfer Service with the provided dependencies.
func New(uow repository.UnitOfWork, rates provider.ExchangeRate, logger *slog.Logger) *Service {
	return &Service{uow: uow, rates: rates, logger: logger}
}

// CreateTransfer moves money between two accounts as one atomic unit:
// a TRANSFER-OUT leg on the source, a TRANSFER-IN leg on the
// destination carrying the converted amount, and a Transfer record
// linking the pair. When currencies differ the rate comes from the live
// provider (a failure there aborts the whole operation) or from an
// explicit manual rate; same-currency transfers always use rate 1.0.
func (s *Service) CreateTransfer(ctx context.Context, cmd dto.TransferCommand) (read *dto.TransferRead, err error) {
	if cmd.SourceAccountID == cmd.DestinationAccountID {
		return nil, transferdomain.ErrSameAccount
	}
	if cmd.Amount <= 0 {
		return nil, domain.ErrAmountMustBePositive
	}

	source, dest, err := s.loadAccounts(ctx, cmd)
	if err != nil {
		return nil, err
	}
	sourceCurrency := money.Code(source.Currency).ToCurrency()
	destCurrency := money.Code(dest.Currency).ToCurrency()

	// Rate resolution happens before the unit of work opens so a
	// provider failure leaves the store untouched and the transaction
	// never spans a network call.
	rate, usedLiveRate, err := s.resolveRate(ctx, sourceCurrency, destCurrency, cmd)
	if err != nil {
		return nil, err
	}

	sourceAmount, err := money.New(cmd.Amount, sourceCurrency)
	if err != nil {
		return nil, err
	}
	destAmount, err := sourceAmount.Convert(rate, destCurrency)
	if err != nil {
		return nil, err
	}

	correlation := uuid.New()
	transferID := uuid.New()
	outLegID := uuid.New()
	inLegID := uuid.New()
	date := cmd.Date
	if date.IsZero() {
		date = time.Now()
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		transactions, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		transfers, err := uow.TransferRepository()
		if err != nil {
			return err
		}
		if err = transactions.Create(ctx, dto.TransactionCreate{
			ID:              outLegID,
			AccountID:       source.ID,
			UserID:          cmd.UserID,
			Type:            string(transactiondomain.TypeTransfer),
			Amount:          sourceAmount.Amount(),
			Currency:        sourceCurrency.Code.String(),
			TransactionDate: date,
			Description:     cmd.Description,
			Reference:       transactiondomain.TransferOutReference(correlation),
		}); err != nil {
			return err
		}
		if err = transactions.Create(ctx, dto.TransactionCreate{
			ID:              inLegID,
			AccountID:       dest.ID,
			UserID:          cmd.UserID,
			Type:            string(transactiondomain.TypeTransfer),
			Amount:          destAmount.Amount(),
			Currency:        destCurrency.Code.String(),
			TransactionDate: date,
			Description:     cmd.Description,
			Reference:       transactiondomain.TransferInReference(correlation),
		}); err != nil {
			return err
		}
		if err = transfers.Create(ctx, dto.TransferCreate{
			ID:                       transferID,
			SourceTransactionID:      outLegID,
			DestinationTransactionID: inLegID,
			ExchangeRate:             rate.Round(transferdomain.RateScale),
			UsedRealTimeRate:         usedLiveRate,
		}); err != nil {
			return err
		}
		read, err = transfers.Get(ctx, transferID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("transfer created",
		"transfer_id", transferID,
		"source_account", source.ID,
		"destination_account", dest.ID,
		"rate", rate.String(),
		"live_rate", usedLiveRate)
	return read, nil
}

// DeleteTransfer removes a transfer: both legs are soft-deleted and the
// linking record removed in one unit of work, so no orphaned leg is
// ever observable.
func (s *Service) DeleteTransfer(ctx context.Context, id uuid.UUID) error {
	return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		transactions, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		transfers, err := uow.TransferRepository()
		if err != nil {
			return err
		}
		t, err := transfers.Get(ctx, id)
		if err != nil {
			return err
		}
		if err = transactions.SoftDelete(ctx, t.SourceTransactionID); err != nil {
			return err
		}
		if err = transactions.SoftDelete(ctx, t.DestinationTransactionID); err != nil {
			return err
		}
		return transfers.SoftDelete(ctx, id)
	})
}

// GetTransfer retrieves one transfer with both legs.
func (s *Service) GetTransfer(ctx context.Context, id uuid.UUID) (read *dto.TransferRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.TransferRepository()
		if err != nil {
			return err
		}
		read, err = repo.Get(ctx, id)
		return err
	})
	return read, err
}

// ListTransfers lists all transfers touching the user's accounts.
func (s *Service) ListTransfers(ctx context.Context, userID uuid.UUID) (reads []*dto.TransferRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.TransferRepository()
		if err != nil {
			return err
		}
		reads, err = repo.ListByUser(ctx, userID)
		return err
	})
	return reads, err
}

// loadAccounts fetches both accounts and checks ownership and the
// active flag.
func (s *Service) loadAccounts(ctx context.Context, cmd dto.TransferCommand) (source, dest *dto.AccountRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		if source, err = accounts.Get(ctx, cmd.SourceAccountID); err != nil {
			return err
		}
		if dest, err = accounts.Get(ctx, cmd.DestinationAccountID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if source.UserID != cmd.UserID || dest.UserID != cmd.UserID {
		return nil, nil, accountdomain.ErrAccountNotFound
	}
	if !source.Active || !dest.Active {
		return nil, nil, accountdomain.ErrAccountInactive
	}
	return source, dest, nil
}

// resolveRate picks the exchange rate for a transfer per the
// coordinator's contract.
func (s *Service) resolveRate(ctx context.Context, source, dest money.Currency, cmd dto.TransferCommand) (decimal.Decimal, bool, error) {
	if source.Code == dest.Code {
		return decimal.NewFromInt(1), false, nil
	}
	if cmd.UseLiveRate {
		quote, err := s.rates.GetRate(ctx, source.Code.String(), dest.Code.String())
		if err != nil {
			return decimal.Decimal{}, false, fmt.Errorf("%w: %s %s->%s: %v",
				domain.ErrExternalService, s.rates.Name(), source.Code, dest.Code, err)
		}
		if !quote.Rate.IsPositive() {
			return decimal.Decimal{}, false, fmt.Errorf("%w: %s returned non-positive rate %s",
				domain.ErrExternalService, s.rates.Name(), quote.Rate)
		}
		return quote.Rate, true, nil
	}
	if cmd.ManualRate == nil || !cmd.ManualRate.IsPositive() {
		return decimal.Decimal{}, false, transferdomain.ErrManualRateRequired
	}
	return *cmd.ManualRate, false, nil
}
