package fixtures

import (
	"context"
	"time"

	"github.com/google/uuid"

	transferdomain "github.com/pennywiseapp/pennywise/pkg/domain/transfer"
	"github.com/pennywiseapp/pennywise/pkg/dto"
)

type transferRepository struct {
	store *Store
}

func (r *transferRepository) Create(ctx context.Context, create dto.TransferCreate) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.transfers[create.ID] = transferRecord{
		create: create,
		read: dto.TransferRead{
			ID:                       create.ID,
			SourceTransactionID:      create.SourceTransactionID,
			DestinationTransactionID: create.DestinationTransactionID,
			ExchangeRate:             create.ExchangeRate,
			UsedRealTimeRate:         create.UsedRealTimeRate,
			CreatedAt:                time.Now(),
		},
	}
	return nil
}

func (r *transferRepository) Get(ctx context.Context, id uuid.UUID) (*dto.TransferRead, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	rec, ok := r.store.transfers[id]
	if !ok || rec.deleted {
		return nil, transferdomain.ErrTransferNotFound
	}
	return r.hydrateLocked(rec)
}

func (r *transferRepository) GetByTransactionID(ctx context.Context, transactionID uuid.UUID) (*dto.TransferRead, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, rec := range r.store.transfers {
		if rec.deleted {
			continue
		}
		if rec.read.SourceTransactionID == transactionID || rec.read.DestinationTransactionID == transactionID {
			return r.hydrateLocked(rec)
		}
	}
	return nil, transferdomain.ErrTransferNotFound
}

func (r *transferRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*dto.TransferRead, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var reads []*dto.TransferRead
	for _, rec := range r.store.transfers {
		if rec.deleted {
			continue
		}
		leg, ok := r.store.transactions[rec.read.SourceTransactionID]
		if !ok || leg.read.UserID != userID {
			continue
		}
		read, err := r.hydrateLocked(rec)
		if err != nil {
			return nil, err
		}
		reads = append(reads, read)
	}
	return reads, nil
}

func (r *transferRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if rec, ok := r.store.transfers[id]; ok {
		rec.deleted = true
		r.store.transfers[id] = rec
	}
	return nil
}

func (r *transferRepository) hydrateLocked(rec transferRecord) (*dto.TransferRead, error) {
	source, okSrc := r.store.transactions[rec.read.SourceTransactionID]
	dest, okDst := r.store.transactions[rec.read.DestinationTransactionID]
	if !okSrc || !okDst {
		return nil, transferdomain.ErrOrphanedLeg
	}
	read := rec.read
	read.UserID = source.read.UserID
	read.SourceAccountID = source.read.AccountID
	read.SourceAmount = source.read.Amount
	read.SourceCurrency = source.read.Currency
	read.DestinationAccountID = dest.read.AccountID
	read.DestinationAmount = dest.read.Amount
	read.DestinationCurrency = dest.read.Currency
	return &read, nil
}
