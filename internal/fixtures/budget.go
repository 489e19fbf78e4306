package fixtures

import (
	"context"
	"time"

	"github.com/google/uuid"

	budgetdomain "github.com/pennywiseapp/pennywise/pkg/domain/budget"
	"github.com/pennywiseapp/pennywise/pkg/dto"
)

type budgetRepository struct {
	store *Store
}

func (r *budgetRepository) Create(ctx context.Context, create dto.BudgetCreate) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	now := time.Now()
	r.store.budgets[create.ID] = budgetRecord{read: dto.BudgetRead{
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
		CreatedAt:             now,
		UpdatedAt:             now,
	}}
	return nil
}

func (r *budgetRepository) Update(ctx context.Context, id uuid.UUID, update dto.BudgetUpdate) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	rec, ok := r.store.budgets[id]
	if !ok || rec.deleted {
		return budgetdomain.ErrBudgetNotFound
	}
	if update.Name != nil {
		rec.read.Name = *update.Name
	}
	if update.ClearCategory {
		rec.read.CategoryID = nil
	} else if update.CategoryID != nil {
		rec.read.CategoryID = update.CategoryID
	}
	if update.Amount != nil {
		rec.read.Amount = *update.Amount
	}
	if update.StartDate != nil {
		rec.read.StartDate = dateOnly(*update.StartDate)
	}
	if update.EndDate != nil {
		rec.read.EndDate = dateOnly(*update.EndDate)
	}
	if update.NotificationThreshold != nil {
		rec.read.NotificationThreshold = *update.NotificationThreshold
	}
	if update.SendNotifications != nil {
		rec.read.SendNotifications = *update.SendNotifications
	}
	rec.read.UpdatedAt = time.Now()
	r.store.budgets[id] = rec
	return nil
}

func (r *budgetRepository) Get(ctx context.Context, id uuid.UUID) (*dto.BudgetRead, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	rec, ok := r.store.budgets[id]
	if !ok || rec.deleted {
		return nil, budgetdomain.ErrBudgetNotFound
	}
	read := rec.read
	return &read, nil
}

func (r *budgetRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*dto.BudgetRead, error) {
	return r.Get(ctx, id)
}

func (r *budgetRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*dto.BudgetRead, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var reads []*dto.BudgetRead
	for _, rec := range r.store.budgets {
		if rec.deleted || rec.read.UserID != userID {
			continue
		}
		read := rec.read
		reads = append(reads, &read)
	}
	return reads, nil
}

func (r *budgetRepository) ListCheckable(ctx context.Context) ([]*dto.BudgetRead, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var reads []*dto.BudgetRead
	for _, rec := range r.store.budgets {
		if rec.deleted || !checkable(rec.read.Status) {
			continue
		}
		read := rec.read
		reads = append(reads, &read)
	}
	return reads, nil
}

func (r *budgetRepository) ListMatching(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID, date time.Time) ([]*dto.BudgetRead, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	day := dateOnly(date)
	var reads []*dto.BudgetRead
	for _, rec := range r.store.budgets {
		if rec.deleted || rec.read.UserID != userID || !checkable(rec.read.Status) {
			continue
		}
		if day.Before(rec.read.StartDate) || day.After(rec.read.EndDate) {
			continue
		}
		if categoryID == nil {
			if rec.read.CategoryID != nil {
				continue
			}
		} else if rec.read.CategoryID != nil && *rec.read.CategoryID != *categoryID {
			continue
		}
		read := rec.read
		reads = append(reads, &read)
	}
	return reads, nil
}

func (r *budgetRepository) ApplyRecompute(ctx context.Context, id uuid.UUID, rec dto.BudgetRecompute) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.store.budgets[id]
	if !ok || stored.deleted {
		return budgetdomain.ErrBudgetNotFound
	}
	stored.read.SpentAmount = rec.SpentAmount
	stored.read.Status = rec.Status
	stored.read.UpdatedAt = time.Now()
	r.store.budgets[id] = stored
	return nil
}

func (r *budgetRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if rec, ok := r.store.budgets[id]; ok {
		rec.deleted = true
		r.store.budgets[id] = rec
	}
	return nil
}

func checkable(status string) bool {
	return status == string(budgetdomain.StatusActive) || status == string(budgetdomain.StatusExceeded)
}
