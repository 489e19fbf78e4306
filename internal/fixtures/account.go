package fixtures

import (
	"context"
	"time"

	"github.com/google/uuid"

	accountdomain "github.com/pennywiseapp/pennywise/pkg/domain/account"
	"github.com/pennywiseapp/pennywise/pkg/dto"
)

type accountRepository struct {
	store *Store
}

func (r *accountRepository) Create(ctx context.Context, create dto.AccountCreate) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	now := time.Now()
	r.store.accounts[create.ID] = accountRecord{read: dto.AccountRead{
		ID:             create.ID,
		UserID:         create.UserID,
		Name:           create.Name,
		Type:           create.Type,
		Currency:       create.Currency,
		InitialBalance: create.InitialBalance,
		Active:         create.Active,
		CreatedAt:      now,
		UpdatedAt:      now,
	}}
	return nil
}

func (r *accountRepository) Update(ctx context.Context, id uuid.UUID, update dto.AccountUpdate) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	rec, ok := r.store.accounts[id]
	if !ok || rec.deleted {
		return accountdomain.ErrAccountNotFound
	}
	if update.Name != nil {
		rec.read.Name = *update.Name
	}
	if update.Type != nil {
		rec.read.Type = *update.Type
	}
	if update.Active != nil {
		rec.read.Active = *update.Active
	}
	rec.read.UpdatedAt = time.Now()
	r.store.accounts[id] = rec
	return nil
}

func (r *accountRepository) Get(ctx context.Context, id uuid.UUID) (*dto.AccountRead, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	rec, ok := r.store.accounts[id]
	if !ok || rec.deleted {
		return nil, accountdomain.ErrAccountNotFound
	}
	read := rec.read
	return &read, nil
}

func (r *accountRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*dto.AccountRead, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var reads []*dto.AccountRead
	for _, rec := range r.store.accounts {
		if rec.deleted || rec.read.UserID != userID {
			continue
		}
		read := rec.read
		reads = append(reads, &read)
	}
	return reads, nil
}

func (r *accountRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if rec, ok := r.store.accounts[id]; ok {
		rec.deleted = true
		r.store.accounts[id] = rec
	}
	return nil
}
