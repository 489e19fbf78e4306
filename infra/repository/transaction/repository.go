// Package transaction provides the GORM-backed transaction repository,
// including the indexed SUM aggregates behind the balance calculator
// and the budget tracker.
package transaction

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	transactiondomain "github.com/pennywiseapp/pennywise/pkg/domain/transaction"
	"github.com/pennywiseapp/pennywise/pkg/dto"
	repo "github.com/pennywiseapp/pennywise/pkg/repository/transaction"
)

type repository struct {
	db *gorm.DB
}

// New creates a transaction repository bound to the given session.
func New(db *gorm.DB) repo.Repository {
	return &repository{db: db}
}

// Create implements transaction.Repository.
func (r *repository) Create(ctx context.Context, create dto.TransactionCreate) error {
	m := Transaction{
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
	}
	return r.db.WithContext(ctx).Create(&m).Error
}

// Update implements transaction.Repository.
func (r *repository) Update(ctx context.Context, id uuid.UUID, update dto.TransactionUpdate) error {
	updates := map[string]any{}
	if update.CategoryID != nil {
		updates["category_id"] = *update.CategoryID
	} else if update.ClearCategory {
		updates["category_id"] = nil
	}
	if update.Amount != nil {
		updates["amount"] = *update.Amount
	}
	if update.TransactionDate != nil {
		updates["transaction_date"] = dateOnly(*update.TransactionDate)
	}
	if update.Description != nil {
		updates["description"] = *update.Description
	}
	if update.IsReconciled != nil {
		updates["is_reconciled"] = *update.IsReconciled
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&Transaction{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// Get implements transaction.Repository.
func (r *repository) Get(ctx context.Context, id uuid.UUID) (*dto.TransactionRead, error) {
	var m Transaction
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, transactiondomain.ErrTransactionNotFound
		}
		return nil, err
	}
	return mapModelToRead(&m), nil
}

// ListByAccount implements transaction.Repository.
func (r *repository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*dto.TransactionRead, error) {
	var models []Transaction
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("transaction_date DESC, created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return mapModelsToReads(models), nil
}

// ListByUser implements transaction.Repository.
func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, filter dto.TransactionListFilter) ([]*dto.TransactionRead, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if filter.AccountID != nil {
		q = q.Where("account_id = ?", *filter.AccountID)
	}
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Type != nil {
		q = q.Where("type = ?", *filter.Type)
	}
	if filter.From != nil {
		q = q.Where("transaction_date >= ?", dateOnly(*filter.From))
	}
	if filter.To != nil {
		q = q.Where("transaction_date <= ?", dateOnly(*filter.To))
	}
	var models []Transaction
	if err := q.Order("transaction_date DESC, created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	return mapModelsToReads(models), nil
}

// BalanceSums implements transaction.Repository. Soft-deleted rows are
// excluded by the default GORM scope.
func (r *repository) BalanceSums(ctx context.Context, accountID uuid.UUID) (*dto.BalanceSums, error) {
	var sums dto.BalanceSums
	err := r.db.WithContext(ctx).
		Model(&Transaction{}).
		Select(`
			COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE 0 END), 0) AS income,
			COALESCE(SUM(CASE WHEN type = 'expense' THEN amount ELSE 0 END), 0) AS expense,
			COALESCE(SUM(CASE WHEN type = 'transfer' AND reference LIKE 'TRANSFER-IN-%' THEN amount ELSE 0 END), 0) AS transfers_in,
			COALESCE(SUM(CASE WHEN type = 'transfer' AND reference LIKE 'TRANSFER-OUT-%' THEN amount ELSE 0 END), 0) AS transfers_out`).
		Where("account_id = ?", accountID).
		Scan(&sums).Error
	if err != nil {
		return nil, err
	}
	return &sums, nil
}

// SumExpenses implements transaction.Repository.
func (r *repository) SumExpenses(ctx context.Context, filter dto.ExpenseSumFilter) (int64, error) {
	q := r.db.WithContext(ctx).
		Model(&Transaction{}).
		Where("user_id = ? AND type = ?", filter.UserID, string(transactiondomain.TypeExpense)).
		Where("transaction_date >= ? AND transaction_date <= ?",
			dateOnly(filter.From), dateOnly(filter.To))
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	var total int64
	if err := q.Select("COALESCE(SUM(amount), 0)").Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// SoftDelete implements transaction.Repository.
func (r *repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Transaction{}, "id = ?", id).Error
}

// dateOnly truncates a timestamp to its calendar date so window
// comparisons work at day granularity.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mapModelToRead(m *Transaction) *dto.TransactionRead {
	return &dto.TransactionRead{
		ID:              m.ID,
		AccountID:       m.AccountID,
		UserID:          m.UserID,
		CategoryID:      m.CategoryID,
		Type:            m.Type,
		Amount:          m.Amount,
		Currency:        m.Currency,
		TransactionDate: m.TransactionDate,
		Description:     m.Description,
		Reference:       m.Reference,
		IsReconciled:    m.IsReconciled,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func mapModelsToReads(models []Transaction) []*dto.TransactionRead {
	reads := make([]*dto.TransactionRead, len(models))
	for i := range models {
		reads[i] = mapModelToRead(&models[i])
	}
	return reads
}
