package fixtures

import (
	"context"
	"time"

	"github.com/google/uuid"

	notificationdomain "github.com/pennywiseapp/pennywise/pkg/domain/notification"
	"github.com/pennywiseapp/pennywise/pkg/dto"
)

type notificationRepository struct {
	store *Store
}

func (r *notificationRepository) Create(ctx context.Context, create dto.NotificationCreate) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.notifications[create.ID] = notificationRecord{read: dto.NotificationRead{
		ID:        create.ID,
		UserID:    create.UserID,
		BudgetID:  create.BudgetID,
		Type:      create.Type,
		Title:     create.Title,
		Message:   create.Message,
		Data:      create.Data,
		Channel:   create.Channel,
		CreatedAt: time.Now(),
	}}
	return nil
}

func (r *notificationRepository) Get(ctx context.Context, id uuid.UUID) (*dto.NotificationRead, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	rec, ok := r.store.notifications[id]
	if !ok {
		return nil, notificationdomain.ErrNotificationNotFound
	}
	read := rec.read
	return &read, nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*dto.NotificationRead, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var reads []*dto.NotificationRead
	for _, rec := range r.store.notifications {
		if rec.read.UserID != userID {
			continue
		}
		if unreadOnly && rec.read.ReadAt != nil {
			continue
		}
		read := rec.read
		reads = append(reads, &read)
	}
	return reads, nil
}

func (r *notificationRepository) ExistsForBudgetSince(ctx context.Context, budgetID uuid.UUID, ntype string, since time.Time) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, rec := range r.store.notifications {
		if rec.read.BudgetID == nil || *rec.read.BudgetID != budgetID {
			continue
		}
		if rec.read.Type != ntype {
			continue
		}
		if !rec.read.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id uuid.UUID, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	rec, ok := r.store.notifications[id]
	if !ok {
		return notificationdomain.ErrNotificationNotFound
	}
	if rec.read.ReadAt == nil {
		rec.read.ReadAt = &at
		r.store.notifications[id] = rec
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for id, rec := range r.store.notifications {
		if rec.read.UserID != userID || rec.read.ReadAt != nil {
			continue
		}
		rec.read.ReadAt = &at
		r.store.notifications[id] = rec
	}
	return nil
}
