// Package budget provides the GORM-backed budget repository.
package budget

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	budgetdomain "github.com/pennywiseapp/pennywise/pkg/domain/budget"
	"github.com/pennywiseapp/pennywise/pkg/dto"
	repo "github.com/pennywiseapp/pennywise/pkg/repository/budget"
)

type repository struct {
	db *gorm.DB
}

// New creates a budget repository bound to the given session.
func New(db *gorm.DB) repo.Repository {
	return &repository{db: db}
}

// Create implements budget.Repository.
func (r *repository) Create(ctx context.Context, create dto.BudgetCreate) error {
	m := Budget{
		ID:                    create.ID,
		UserID:                create.UserID,
		CategoryID:            create.CategoryID,
		Name:                  create.Name,
		Amount:                create.Amount,
		Currency:              create.Currency,
		Period:                create.Period,
		StartDate:             dateOnly(create.StartDate),
		EndDate:               dateOnly(create.EndDate),
		Status:                create.Status,
		NotificationThreshold: create.NotificationThreshold,
		SendNotifications:     create.SendNotifications,
	}
	return r.db.WithContext(ctx).Create(&m).Error
}

// Update implements budget.Repository. SpentAmount and Status never go
// through here.
func (r *repository) Update(ctx context.Context, id uuid.UUID, update dto.BudgetUpdate) error {
	updates := map[string]any{}
	if update.Name != nil {
		updates["name"] = *update.Name
	}
	if update.ClearCategory {
		updates["category_id"] = nil
	} else if update.CategoryID != nil {
		updates["category_id"] = *update.CategoryID
	}
	if update.Amount != nil {
		updates["amount"] = *update.Amount
	}
	if update.StartDate != nil {
		updates["start_date"] = dateOnly(*update.StartDate)
	}
	if update.EndDate != nil {
		updates["end_date"] = dateOnly(*update.EndDate)
	}
	if update.NotificationThreshold != nil {
		updates["notification_threshold"] = *update.NotificationThreshold
	}
	if update.SendNotifications != nil {
		updates["send_notifications"] = *update.SendNotifications
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&Budget{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// Get implements budget.Repository.
func (r *repository) Get(ctx context.Context, id uuid.UUID) (*dto.BudgetRead, error) {
	return r.get(ctx, r.db, id)
}

// GetForUpdate implements budget.Repository.
func (r *repository) GetForUpdate(ctx context.Context, id uuid.UUID) (*dto.BudgetRead, error) {
	return r.get(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *repository) get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*dto.BudgetRead, error) {
	var m Budget
	err := tx.WithContext(ctx).First(&m, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, budgetdomain.ErrBudgetNotFound
		}
		return nil, err
	}
	return mapModelToRead(&m), nil
}

// ListByUser implements budget.Repository.
func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*dto.BudgetRead, error) {
	var models []Budget
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_date DESC, name").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return mapModelsToReads(models), nil
}

// ListCheckable implements budget.Repository.
func (r *repository) ListCheckable(ctx context.Context) ([]*dto.BudgetRead, error) {
	var models []Budget
	err := r.db.WithContext(ctx).
		Where("status IN ?", []string{
			string(budgetdomain.StatusActive),
			string(budgetdomain.StatusExceeded),
		}).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return mapModelsToReads(models), nil
}

// ListMatching implements budget.Repository. A budget without a
// category tracks all of the user's expenses, so it matches any
// category; a categorized budget only matches its own.
func (r *repository) ListMatching(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID, date time.Time) ([]*dto.BudgetRead, error) {
	day := dateOnly(date)
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("status IN ?", []string{
			string(budgetdomain.StatusActive),
			string(budgetdomain.StatusExceeded),
		}).
		Where("start_date <= ? AND end_date >= ?", day, day)
	if categoryID != nil {
		q = q.Where("category_id IS NULL OR category_id = ?", *categoryID)
	} else {
		q = q.Where("category_id IS NULL")
	}

	var models []Budget
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}
	return mapModelsToReads(models), nil
}

// ApplyRecompute implements budget.Repository.
func (r *repository) ApplyRecompute(ctx context.Context, id uuid.UUID, rec dto.BudgetRecompute) error {
	return r.db.WithContext(ctx).
		Model(&Budget{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"spent_amount": rec.SpentAmount,
			"status":       rec.Status,
		}).Error
}

// SoftDelete implements budget.Repository.
func (r *repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Budget{}, "id = ?", id).Error
}

func mapModelToRead(m *Budget) *dto.BudgetRead {
	return &dto.BudgetRead{
		ID:                    m.ID,
		UserID:                m.UserID,
		CategoryID:            m.CategoryID,
		Name:                  m.Name,
		Amount:                m.Amount,
		SpentAmount:           m.SpentAmount,
		Currency:              m.Currency,
		Period:                m.Period,
		StartDate:             m.StartDate,
		EndDate:               m.EndDate,
		Status:                m.Status,
		NotificationThreshold: m.NotificationThreshold,
		SendNotifications:     m.SendNotifications,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}

func mapModelsToReads(models []Budget) []*dto.BudgetRead {
	reads := make([]*dto.BudgetRead, len(models))
	for i := range models {
		reads[i] = mapModelToRead(&models[i])
	}
	return reads
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
