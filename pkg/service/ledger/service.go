// Package ledger implements transaction recording and the balance
// calculator. Balances are derived on every read from the initial
// balance plus the signed, non-deleted transaction history; no cached
// column is ever trusted. Writes that can move a budget's spent amount
// recompute it synchronously in the same unit of work.
package ledger

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pennywiseapp/pennywise/pkg/domain"
	accountdomain "github.com/pennywiseapp/pennywise/pkg/domain/account"
	"github.com/pennywiseapp/pennywise/pkg/domain/events"
	transactiondomain "github.com/pennywiseapp/pennywise/pkg/domain/transaction"
	"github.com/pennywiseapp/pennywise/pkg/dto"
	"github.com/pennywiseapp/pennywise/pkg/money"
	"github.com/pennywiseapp/pennywise/pkg/repository"
	budgetsvc "github.com/pennywiseapp/pennywise/pkg/service/budget"
)

// Service provides business logic for accounts and their transactions.
type Service struct {
	uow     repository.UnitOfWork
	budgets *budgetsvc.Service
	logger  *slog.Logger
}

// New creates a ledger Service with the provided dependencies.
func New(uow repository.UnitOfWork, budgets *budgetsvc.Service, logger *slog.Logger) *Service {
	return &Service{uow: uow, budgets: budgets, logger: logger}
}

// CreateAccount validates and persists a new account.
func (s *Service) CreateAccount(ctx context.Context, create dto.AccountCreate) (read *dto.AccountRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		builder := accountdomain.New().
			WithUserID(create.UserID).
			WithName(create.Name).
			WithType(accountdomain.Type(create.Type)).
			WithCurrency(money.Code(create.Currency).ToCurrency()).
			WithInitialBalance(create.InitialBalance).
			WithActive(create.Active)
		if create.ID != uuid.Nil {
			builder = builder.WithID(create.ID)
		}
		a, err := builder.Build()
		if err != nil {
			return err
		}
		if err = repo.Create(ctx, dto.AccountCreate{
			ID:             a.ID,
			UserID:         a.UserID,
			Name:           a.Name,
			Type:           string(a.Type),
			Currency:       a.Currency().Code.String(),
			InitialBalance: a.InitialBalance.Amount(),
			Active:         a.Active,
		}); err != nil {
			return err
		}
		read, err = repo.Get(ctx, a.ID)
		return err
	})
	return read, err
}

// GetAccount retrieves one account.
func (s *Service) GetAccount(ctx context.Context, id uuid.UUID) (read *dto.AccountRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		read, err = repo.Get(ctx, id)
		return err
	})
	return read, err
}

// ListAccounts lists a user's accounts.
func (s *Service) ListAccounts(ctx context.Context, userID uuid.UUID) (reads []*dto.AccountRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		reads, err = repo.ListByUser(ctx, userID)
		return err
	})
	return reads, err
}

// UpdateAccount applies a partial update to an account.
func (s *Service) UpdateAccount(ctx context.Context, id uuid.UUID, update dto.AccountUpdate) (read *dto.AccountRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		if _, err = repo.Get(ctx, id); err != nil {
			return err
		}
		if err = repo.Update(ctx, id, update); err != nil {
			return err
		}
		read, err = repo.Get(ctx, id)
		return err
	})
	return read, err
}

// DeleteAccount soft-deletes an account. Its transactions are kept for
// history, but the account no longer resolves and accepts no new writes.
func (s *Service) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		if _, err = repo.Get(ctx, id); err != nil {
			return err
		}
		return repo.SoftDelete(ctx, id)
	})
}

// ComputeBalance derives the account's current balance:
// initial + income + transfers in - expense - transfers out, summed over
// the non-deleted transaction set by the store. An account with no
// transactions yields exactly its initial balance.
func (s *Service) ComputeBalance(ctx context.Context, accountID uuid.UUID) (balance money.Money, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		transactions, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		acct, err := accounts.Get(ctx, accountID)
		if err != nil {
			return err
		}
		sums, err := transactions.BalanceSums(ctx, accountID)
		if err != nil {
			return err
		}
		currency := money.Code(acct.Currency).ToCurrency()
		balance, err = money.NewFromSmallestUnit(
			acct.InitialBalance+sums.Income+sums.TransfersIn-sums.Expense-sums.TransfersOut,
			currency,
		)
		return err
	})
	return balance, err
}

// CreateTransaction records an income or expense transaction. Transfer
// legs are rejected here; they are only written by the transfer
// coordinator as an atomic pair. An expense write recomputes every
// matching budget before the unit of work commits.
func (s *Service) CreateTransaction(ctx context.Context, cmd dto.TransactionCommand) (read *dto.TransactionRead, err error) {
	txType := transactiondomain.Type(cmd.Type)
	if !txType.IsValid() {
		return nil, transactiondomain.ErrInvalidTransactionType
	}
	if txType == transactiondomain.TypeTransfer {
		return nil, transactiondomain.ErrTransferLegDirect
	}
	if cmd.Amount <= 0 {
		return nil, domain.ErrAmountMustBePositive
	}

	var evs []events.BudgetSpentChanged
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		transactions, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		acct, err := accounts.Get(ctx, cmd.AccountID)
		if err != nil {
			return err
		}
		if acct.UserID != cmd.UserID {
			return accountdomain.ErrAccountNotFound
		}
		if !acct.Active {
			return accountdomain.ErrAccountInactive
		}
		amount, err := money.New(cmd.Amount, money.Code(acct.Currency).ToCurrency())
		if err != nil {
			return err
		}
		tx := &transactiondomain.Transaction{
			ID:              uuid.New(),
			AccountID:       cmd.AccountID,
			UserID:          cmd.UserID,
			CategoryID:      cmd.CategoryID,
			Type:            txType,
			Amount:          amount,
			TransactionDate: cmd.TransactionDate,
			Description:     cmd.Description,
			IsReconciled:    cmd.IsReconciled,
		}
		if err = tx.Validate(); err != nil {
			return err
		}
		if err = transactions.Create(ctx, dto.TransactionCreate{
			ID:              tx.ID,
			AccountID:       tx.AccountID,
			UserID:          tx.UserID,
			CategoryID:      tx.CategoryID,
			Type:            string(tx.Type),
			Amount:          tx.Amount.Amount(),
			Currency:        tx.Amount.CurrencyCode().String(),
			TransactionDate: tx.TransactionDate,
			Description:     tx.Description,
			IsReconciled:    tx.IsReconciled,
		}); err != nil {
			return err
		}
		if txType == transactiondomain.TypeExpense {
			evs, err = s.budgets.RecomputeMatching(ctx, uow, cmd.UserID, cmd.CategoryID, cmd.TransactionDate)
			if err != nil {
				return err
			}
		}
		read, err = transactions.Get(ctx, tx.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.publishBudgetEvents(ctx, evs)
	return read, nil
}

// UpdateTransaction applies a partial update. Budgets matching either
// the old or the new (category, date) pair are recomputed in the same
// unit of work. Transfer legs cannot be updated here.
func (s *Service) UpdateTransaction(ctx context.Context, id uuid.UUID, update dto.TransactionUpdate) (read *dto.TransactionRead, err error) {
	var evs []events.BudgetSpentChanged
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		transactions, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		before, err := transactions.Get(ctx, id)
		if err != nil {
			return err
		}
		if transactiondomain.Type(before.Type) == transactiondomain.TypeTransfer {
			return transactiondomain.ErrTransferLegDirect
		}
		if update.Amount != nil && *update.Amount < 0 {
			return transactiondomain.ErrNegativeAmount
		}
		if err = transactions.Update(ctx, id, update); err != nil {
			return err
		}
		after, err := transactions.Get(ctx, id)
		if err != nil {
			return err
		}
		if transactiondomain.Type(before.Type) == transactiondomain.TypeExpense {
			evs, err = s.recomputeAround(ctx, uow, before, after)
			if err != nil {
				return err
			}
		}
		read = after
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publishBudgetEvents(ctx, evs)
	return read, nil
}

// DeleteTransaction soft-deletes a transaction and recomputes affected
// budgets. Transfer legs must be deleted through the transfer
// coordinator so the pair and its record go together.
func (s *Service) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	var evs []events.BudgetSpentChanged
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		transactions, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		tx, err := transactions.Get(ctx, id)
		if err != nil {
			return err
		}
		if transactiondomain.Type(tx.Type) == transactiondomain.TypeTransfer {
			return transactiondomain.ErrTransferLegDirect
		}
		if err = transactions.SoftDelete(ctx, id); err != nil {
			return err
		}
		if transactiondomain.Type(tx.Type) == transactiondomain.TypeExpense {
			evs, err = s.budgets.RecomputeMatching(ctx, uow, tx.UserID, tx.CategoryID, tx.TransactionDate)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.publishBudgetEvents(ctx, evs)
	return nil
}

// GetTransaction retrieves one transaction.
func (s *Service) GetTransaction(ctx context.Context, id uuid.UUID) (read *dto.TransactionRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		read, err = repo.Get(ctx, id)
		return err
	})
	return read, err
}

// ListTransactions lists a user's transactions with optional filters.
func (s *Service) ListTransactions(ctx context.Context, userID uuid.UUID, filter dto.TransactionListFilter) (reads []*dto.TransactionRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		reads, err = repo.ListByUser(ctx, userID, filter)
		return err
	})
	return reads, err
}

// recomputeAround recomputes budgets matching the transaction's shape
// before and after an update, deduplicating by budget ID so each budget
// is recomputed (and reported) once.
func (s *Service) recomputeAround(ctx context.Context, uow repository.UnitOfWork, before, after *dto.TransactionRead) ([]events.BudgetSpentChanged, error) {
	evs, err := s.budgets.RecomputeMatching(ctx, uow, before.UserID, before.CategoryID, before.TransactionDate)
	if err != nil {
		return nil, err
	}
	seen := make(map[uuid.UUID]bool, len(evs))
	for _, ev := range evs {
		seen[ev.BudgetID] = true
	}
	more, err := s.budgets.RecomputeMatching(ctx, uow, after.UserID, after.CategoryID, after.TransactionDate)
	if err != nil {
		return nil, err
	}
	for _, ev := range more {
		if !seen[ev.BudgetID] {
			evs = append(evs, ev)
		}
	}
	return evs, nil
}

func (s *Service) publishBudgetEvents(ctx context.Context, evs []events.BudgetSpentChanged) {
	if len(evs) == 0 {
		return
	}
	s.budgets.Publish(ctx, evs)
}
