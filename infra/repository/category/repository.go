// Package category provides the GORM-backed category repository.
package category

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pennywiseapp/pennywise/pkg/domain"
	"github.com/pennywiseapp/pennywise/pkg/dto"
	repo "github.com/pennywiseapp/pennywise/pkg/repository/category"
)

type repository struct {
	db *gorm.DB
}

// New creates a category repository bound to the given session.
func New(db *gorm.DB) repo.Repository {
	return &repository{db: db}
}

// Create implements category.Repository.
func (r *repository) Create(ctx context.Context, create dto.CategoryCreate) error {
	m := Category{
		ID:       create.ID,
		UserID:   create.UserID,
		Name:     create.Name,
		Type:     create.Type,
		Color:    create.Color,
		Icon:     create.Icon,
		IsSystem: create.IsSystem,
	}
	return r.db.WithContext(ctx).Create(&m).Error
}

// Update implements category.Repository.
func (r *repository) Update(ctx context.Context, id uuid.UUID, update dto.CategoryUpdate) error {
	updates := map[string]any{}
	if update.Name != nil {
		updates["name"] = *update.Name
	}
	if update.Color != nil {
		updates["color"] = *update.Color
	}
	if update.Icon != nil {
		updates["icon"] = *update.Icon
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&Category{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// Get implements category.Repository.
func (r *repository) Get(ctx context.Context, id uuid.UUID) (*dto.CategoryRead, error) {
	var m Category
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return mapModelToRead(&m), nil
}

// ListByUser implements category.Repository. System categories carry
// the zero user id and are visible to everyone.
func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*dto.CategoryRead, error) {
	var models []Category
	err := r.db.WithContext(ctx).
		Where("user_id = ? OR is_system = ?", userID, true).
		Order("is_system DESC, name").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	reads := make([]*dto.CategoryRead, len(models))
	for i := range models {
		reads[i] = mapModelToRead(&models[i])
	}
	return reads, nil
}

// SoftDelete implements category.Repository.
func (r *repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Category{}, "id = ?", id).Error
}

func mapModelToRead(m *Category) *dto.CategoryRead {
	return &dto.CategoryRead{
		ID:        m.ID,
		UserID:    m.UserID,
		Name:      m.Name,
		Type:      m.Type,
		Color:     m.Color,
		Icon:      m.Icon,
		IsSystem:  m.IsSystem,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
