package fixtures

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	transactiondomain "github.com/pennywiseapp/pennywise/pkg/domain/transaction"
	"github.com/pennywiseapp/pennywise/pkg/dto"
)

type transactionRepository struct {
	store *Store
}

func (r *transactionRepository) Create(ctx context.Context, create dto.TransactionCreate) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	now := time.Now()
	r.store.transactions[create.ID] = transactionRecord{read: dto.TransactionRead{
		ID:              create.ID,
		AccountID:       create.AccountID,
		UserID:          create.UserID,
		CategoryID:      create.CategoryID,
		Type:            create.Type,
		Amount:          create.Amount,
		Currency:        create.Currency,
		TransactionDate: dateOnly(create.TransactionDate),
		Description:     create.Description,
		Reference:       create.Reference,
		IsReconciled:    create.IsReconciled,
		CreatedAt:       now,
		UpdatedAt:       now,
	}}
	return nil
}

func (r *transactionRepository) Update(ctx context.Context, id uuid.UUID, update dto.TransactionUpdate) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	rec, ok := r.store.transactions[id]
	if !ok || rec.deleted {
		return transactiondomain.ErrTransactionNotFound
	}
	if update.CategoryID != nil {
		rec.read.CategoryID = update.CategoryID
	} else if update.ClearCategory {
		rec.read.CategoryID = nil
	}
	if update.Amount != nil {
		rec.read.Amount = *update.Amount
	}
	if update.TransactionDate != nil {
		rec.read.TransactionDate = dateOnly(*update.TransactionDate)
	}
	if update.Description != nil {
		rec.read.Description = *update.Description
	}
	if update.IsReconciled != nil {
		rec.read.IsReconciled = *update.IsReconciled
	}
	rec.read.UpdatedAt = time.Now()
	r.store.transactions[id] = rec
	return nil
}

func (r *transactionRepository) Get(ctx context.Context, id uuid.UUID) (*dto.TransactionRead, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	rec, ok := r.store.transactions[id]
	if !ok || rec.deleted {
		return nil, transactiondomain.ErrTransactionNotFound
	}
	read := rec.read
	return &read, nil
}

func (r *transactionRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*dto.TransactionRead, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var reads []*dto.TransactionRead
	for _, rec := range r.store.transactions {
		if rec.deleted || rec.read.AccountID != accountID {
			continue
		}
		read := rec.read
		reads = append(reads, &read)
	}
	sortByDateDesc(reads)
	return reads, nil
}

func (r *transactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter dto.TransactionListFilter) ([]*dto.TransactionRead, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var reads []*dto.TransactionRead
	for _, rec := range r.store.transactions {
		if rec.deleted || rec.read.UserID != userID {
			continue
		}
		if filter.AccountID != nil && rec.read.AccountID != *filter.AccountID {
			continue
		}
		if filter.CategoryID != nil && (rec.read.CategoryID == nil || *rec.read.CategoryID != *filter.CategoryID) {
			continue
		}
		if filter.Type != nil && rec.read.Type != *filter.Type {
			continue
		}
		if filter.From != nil && rec.read.TransactionDate.Before(dateOnly(*filter.From)) {
			continue
		}
		if filter.To != nil && rec.read.TransactionDate.After(dateOnly(*filter.To)) {
			continue
		}
		read := rec.read
		reads = append(reads, &read)
	}
	sortByDateDesc(reads)
	return reads, nil
}

func (r *transactionRepository) BalanceSums(ctx context.Context, accountID uuid.UUID) (*dto.BalanceSums, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	sums := dto.BalanceSums{}
	for _, rec := range r.store.transactions {
		if rec.deleted || rec.read.AccountID != accountID {
			continue
		}
		switch {
		case rec.read.Type == string(transactiondomain.TypeIncome):
			sums.Income += rec.read.Amount
		case rec.read.Type == string(transactiondomain.TypeExpense):
			sums.Expense += rec.read.Amount
		case rec.read.Type == string(transactiondomain.TypeTransfer) && strings.HasPrefix(rec.read.Reference, "TRANSFER-IN-"):
			sums.TransfersIn += rec.read.Amount
		case rec.read.Type == string(transactiondomain.TypeTransfer) && strings.HasPrefix(rec.read.Reference, "TRANSFER-OUT-"):
			sums.TransfersOut += rec.read.Amount
		}
	}
	return &sums, nil
}

func (r *transactionRepository) SumExpenses(ctx context.Context, filter dto.ExpenseSumFilter) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var total int64
	from, to := dateOnly(filter.From), dateOnly(filter.To)
	for _, rec := range r.store.transactions {
		if rec.deleted || rec.read.UserID != filter.UserID {
			continue
		}
		if rec.read.Type != string(transactiondomain.TypeExpense) {
			continue
		}
		if rec.read.TransactionDate.Before(from) || rec.read.TransactionDate.After(to) {
			continue
		}
		if filter.CategoryID != nil && (rec.read.CategoryID == nil || *rec.read.CategoryID != *filter.CategoryID) {
			continue
		}
		total += rec.read.Amount
	}
	return total, nil
}

func (r *transactionRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if rec, ok := r.store.transactions[id]; ok {
		rec.deleted = true
		r.store.transactions[id] = rec
	}
	return nil
}

func sortByDateDesc(reads []*dto.TransactionRead) {
	sort.Slice(reads, func(i, j int) bool {
		return reads[i].TransactionDate.After(reads[j].TransactionDate)
	})
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
