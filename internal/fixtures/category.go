package fixtures

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pennywiseapp/pennywise/pkg/domain"
	"github.com/pennywiseapp/pennywise/pkg/dto"
)

type categoryRepository struct {
	store *Store
}

func (r *categoryRepository) Create(ctx context.Context, create dto.CategoryCreate) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	now := time.Now()
	r.store.categories[create.ID] = categoryRecord{read: dto.CategoryRead{
		ID:        create.ID,
		UserID:    create.UserID,
		Name:      create.Name,
		Type:      create.Type,
		Color:     create.Color,
		Icon:      create.Icon,
		IsSystem:  create.IsSystem,
		CreatedAt: now,
		UpdatedAt: now,
	}}
	return nil
}

func (r *categoryRepository) Update(ctx context.Context, id uuid.UUID, update dto.CategoryUpdate) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	rec, ok := r.store.categories[id]
	if !ok || rec.deleted {
		return domain.ErrNotFound
	}
	if update.Name != nil {
		rec.read.Name = *update.Name
	}
	if update.Color != nil {
		rec.read.Color = *update.Color
	}
	if update.Icon != nil {
		rec.read.Icon = *update.Icon
	}
	rec.read.UpdatedAt = time.Now()
	r.store.categories[id] = rec
	return nil
}

func (r *categoryRepository) Get(ctx context.Context, id uuid.UUID) (*dto.CategoryRead, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	rec, ok := r.store.categories[id]
	if !ok || rec.deleted {
		return nil, domain.ErrNotFound
	}
	read := rec.read
	return &read, nil
}

func (r *categoryRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*dto.CategoryRead, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var reads []*dto.CategoryRead
	for _, rec := range r.store.categories {
		if rec.deleted {
			continue
		}
		if rec.read.UserID != userID && !rec.read.IsSystem {
			continue
		}
		read := rec.read
		reads = append(reads, &read)
	}
	return reads, nil
}

func (r *categoryRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if rec, ok := r.store.categories[id]; ok {
		rec.deleted = true
		r.store.categories[id] = rec
	}
	return nil
}
