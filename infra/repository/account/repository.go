// Package account provides the GORM-backed account repository.
package account

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	accountdomain "github.com/pennywiseapp/pennywise/pkg/domain/account"
	"github.com/pennywiseapp/pennywise/pkg/dto"
	repo "github.com/pennywiseapp/pennywise/pkg/repository/account"
)

type repository struct {
	db *gorm.DB
}

// New creates an account repository bound to the given session.
func New(db *gorm.DB) repo.Repository {
	return &repository{db: db}
}

// Create implements account.Repository.
func (r *repository) Create(ctx context.Context, create dto.AccountCreate) error {
	m := Account{
		ID:             create.ID,
		UserID:         create.UserID,
		Name:           create.Name,
		Type:           create.Type,
		Currency:       create.Currency,
		InitialBalance: create.InitialBalance,
		Active:         create.Active,
	}
	return r.db.WithContext(ctx).Create(&m).Error
}

// Update implements account.Repository.
func (r *repository) Update(ctx context.Context, id uuid.UUID, update dto.AccountUpdate) error {
	updates := map[string]any{}
	if update.Name != nil {
		updates["name"] = *update.Name
	}
	if update.Type != nil {
		updates["type"] = *update.Type
	}
	if update.Active != nil {
		updates["active"] = *update.Active
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&Account{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// Get implements account.Repository.
func (r *repository) Get(ctx context.Context, id uuid.UUID) (*dto.AccountRead, error) {
	var m Account
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, accountdomain.ErrAccountNotFound
		}
		return nil, err
	}
	return mapModelToRead(&m), nil
}

// ListByUser implements account.Repository.
func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*dto.AccountRead, error) {
	var models []Account
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	reads := make([]*dto.AccountRead, len(models))
	for i := range models {
		reads[i] = mapModelToRead(&models[i])
	}
	return reads, nil
}

// SoftDelete implements account.Repository.
func (r *repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Account{}, "id = ?", id).Error
}

func mapModelToRead(m *Account) *dto.AccountRead {
	return &dto.AccountRead{
		ID:             m.ID,
		UserID:         m.UserID,
		Name:           m.Name,
		Type:           m.Type,
		Currency:       m.Currency,
		InitialBalance: m.InitialBalance,
		Active:         m.Active,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
