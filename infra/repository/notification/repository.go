// Package notification provides the GORM-backed notification repository.
package notification

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	notificationdomain "github.com/pennywiseapp/pennywise/pkg/domain/notification"
	"github.com/pennywiseapp/pennywise/pkg/dto"
	repo "github.com/pennywiseapp/pennywise/pkg/repository/notification"
)

type repository struct {
	db *gorm.DB
}

// New creates a notification repository bound to the given session.
func New(db *gorm.DB) repo.Repository {
	return &repository{db: db}
}

// Create implements notification.Repository.
func (r *repository) Create(ctx context.Context, create dto.NotificationCreate) error {
	data, err := json.Marshal(create.Data)
	if err != nil {
		return err
	}
	m := Notification{
		ID:       create.ID,
		UserID:   create.UserID,
		BudgetID: create.BudgetID,
		Type:     create.Type,
		Title:    create.Title,
		Message:  create.Message,
		Data:     data,
		Channel:  create.Channel,
	}
	return r.db.WithContext(ctx).Create(&m).Error
}

// Get implements notification.Repository.
func (r *repository) Get(ctx context.Context, id uuid.UUID) (*dto.NotificationRead, error) {
	var m Notification
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notificationdomain.ErrNotificationNotFound
		}
		return nil, err
	}
	return mapModelToRead(&m)
}

// ListByUser implements notification.Repository.
func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*dto.NotificationRead, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("read_at IS NULL")
	}
	var models []Notification
	if err := q.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	reads := make([]*dto.NotificationRead, 0, len(models))
	for i := range models {
		read, err := mapModelToRead(&models[i])
		if err != nil {
			return nil, err
		}
		reads = append(reads, read)
	}
	return reads, nil
}

// ExistsForBudgetSince implements notification.Repository.
func (r *repository) ExistsForBudgetSince(ctx context.Context, budgetID uuid.UUID, ntype string, since time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("budget_id = ? AND type = ? AND created_at >= ?", budgetID, ntype, since).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// MarkRead implements notification.Repository.
func (r *repository) MarkRead(ctx context.Context, id uuid.UUID, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("id = ? AND read_at IS NULL", id).
		Update("read_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&Notification{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return notificationdomain.ErrNotificationNotFound
		}
	}
	return nil
}

// MarkAllRead implements notification.Repository.
func (r *repository) MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", at).Error
}

func mapModelToRead(m *Notification) (*dto.NotificationRead, error) {
	var data map[string]any
	if len(m.Data) > 0 {
		if err := json.Unmarshal(m.Data, &data); err != nil {
			return nil, err
		}
	}
	return &dto.NotificationRead{
		ID:        m.ID,
		UserID:    m.UserID,
		BudgetID:  m.BudgetID,
		Type:      m.Type,
		Title:     m.Title,
		Message:   m.Message,
		Data:      data,
		Channel:   m.Channel,
		ReadAt:    m.ReadAt,
		IsSent:    m.IsSent,
		CreatedAt: m.CreatedAt,
	}, nil
}
