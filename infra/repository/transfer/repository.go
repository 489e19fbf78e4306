// Package transfer provides the GORM-backed transfer repository.
package transfer

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	transferdomain "github.com/pennywiseapp/pennywise/pkg/domain/transfer"
	"github.com/pennywiseapp/pennywise/pkg/dto"
	repo "github.com/pennywiseapp/pennywise/pkg/repository/transfer"

	transactionmodel "github.com/pennywiseapp/pennywise/infra/repository/transaction"
)

type repository struct {
	db *gorm.DB
}

// New creates a transfer repository bound to the given session.
func New(db *gorm.DB) repo.Repository {
	return &repository{db: db}
}

// Create implements transfer.Repository.
func (r *repository) Create(ctx context.Context, create dto.TransferCreate) error {
	m := Transfer{
		ID:                       create.ID,
		SourceTransactionID:      create.SourceTransactionID,
		DestinationTransactionID: create.DestinationTransactionID,
		ExchangeRate:             create.ExchangeRate,
		UsedRealTimeRate:         create.UsedRealTimeRate,
	}
	return r.db.WithContext(ctx).Create(&m).Error
}

// Get implements transfer.Repository.
func (r *repository) Get(ctx context.Context, id uuid.UUID) (*dto.TransferRead, error) {
	var m Transfer
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, transferdomain.ErrTransferNotFound
		}
		return nil, err
	}
	return r.hydrate(ctx, &m)
}

// GetByTransactionID implements transfer.Repository.
func (r *repository) GetByTransactionID(ctx context.Context, transactionID uuid.UUID) (*dto.TransferRead, error) {
	var m Transfer
	err := r.db.WithContext(ctx).
		Where("source_transaction_id = ? OR destination_transaction_id = ?", transactionID, transactionID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, transferdomain.ErrTransferNotFound
		}
		return nil, err
	}
	return r.hydrate(ctx, &m)
}

// ListByUser implements transfer.Repository. Ownership follows the
// source leg's user.
func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*dto.TransferRead, error) {
	var models []Transfer
	err := r.db.WithContext(ctx).
		Joins("JOIN transactions ON transactions.id = transfers.source_transaction_id").
		Where("transactions.user_id = ?", userID).
		Order("transfers.created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	reads := make([]*dto.TransferRead, 0, len(models))
	for i := range models {
		read, err := r.hydrate(ctx, &models[i])
		if err != nil {
			return nil, err
		}
		reads = append(reads, read)
	}
	return reads, nil
}

// SoftDelete implements transfer.Repository.
func (r *repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Transfer{}, "id = ?", id).Error
}

// hydrate loads both legs and folds them into the read DTO. A missing
// leg is a consistency fault, not a not-found.
func (r *repository) hydrate(ctx context.Context, m *Transfer) (*dto.TransferRead, error) {
	var legs []transactionmodel.Transaction
	err := r.db.WithContext(ctx).Unscoped().
		Where("id IN ?", []uuid.UUID{m.SourceTransactionID, m.DestinationTransactionID}).
		Find(&legs).Error
	if err != nil {
		return nil, err
	}
	if len(legs) != 2 {
		return nil, transferdomain.ErrOrphanedLeg
	}

	read := &dto.TransferRead{
		ID:                       m.ID,
		SourceTransactionID:      m.SourceTransactionID,
		DestinationTransactionID: m.DestinationTransactionID,
		ExchangeRate:             m.ExchangeRate,
		UsedRealTimeRate:         m.UsedRealTimeRate,
		CreatedAt:                m.CreatedAt,
	}
	for i := range legs {
		leg := &legs[i]
		if leg.ID == m.SourceTransactionID {
			read.UserID = leg.UserID
			read.SourceAccountID = leg.AccountID
			read.SourceAmount = leg.Amount
			read.SourceCurrency = leg.Currency
		} else {
			read.DestinationAccountID = leg.AccountID
			read.DestinationAmount = leg.Amount
			read.DestinationCurrency = leg.Currency
		}
	}
	return read, nil
}
