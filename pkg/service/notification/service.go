// Package notification implements the budget threshold trigger and the
// read-side operations over notification records. The trigger's sole
// responsibility ends at record creation; delivery is an external
// consumer of the records it writes.
package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pennywiseapp/pennywise/pkg/domain"
	"github.com/pennywiseapp/pennywise/pkg/domain/events"
	notificationdomain "github.com/pennywiseapp/pennywise/pkg/domain/notification"
	"github.com/pennywiseapp/pennywise/pkg/dto"
	"github.com/pennywiseapp/pennywise/pkg/eventbus"
	"github.com/pennywiseapp/pennywise/pkg/money"
	"github.com/pennywiseapp/pennywise/pkg/repository"
)

// Service provides the notification trigger and notification queries.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a notification Service with the provided dependencies.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// SubscribeTo registers the trigger on the bus. The budget and ledger
// write paths publish spent-change events after their commits; nothing
// calls the trigger directly.
func (s *Service) SubscribeTo(bus eventbus.EventBus) {
	bus.Subscribe(events.EventTypeBudgetSpentChanged, s.HandleBudgetSpentChanged)
}

// HandleBudgetSpentChanged evaluates the threshold condition and writes
// at most one notification record per (budget, type) per period window.
// A failure here is logged and never propagated: the budget write that
// triggered the event has already committed and must not be disturbed.
func (s *Service) HandleBudgetSpentChanged(ctx context.Context, event domain.Event) {
	ev, ok := event.(events.BudgetSpentChanged)
	if !ok {
		s.logger.Error("unexpected event payload",
			"event_type", event.Type(), "payload", fmt.Sprintf("%T", event))
		return
	}
	if !ev.SendNotifications {
		return
	}
	pct := spentPercentage(ev.SpentAmount, ev.AmountMinor)
	if pct < float64(ev.Threshold) {
		return
	}
	ntype := notificationdomain.TypeBudgetWarning
	if pct >= 100 {
		ntype = notificationdomain.TypeBudgetExceeded
	}
	if err := s.createBudgetNotification(ctx, ev, ntype, pct); err != nil {
		s.logger.Error("budget notification not recorded",
			"budget_id", ev.BudgetID, "type", ntype, "error", err)
	}
}

func (s *Service) createBudgetNotification(ctx context.Context, ev events.BudgetSpentChanged, ntype notificationdomain.Type, pct float64) error {
	return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.NotificationRepository()
		if err != nil {
			return err
		}
		// One record per (budget, type) per window: re-crossing the
		// threshold on every recompute must not pile up duplicates.
		exists, err := repo.ExistsForBudgetSince(ctx, ev.BudgetID, string(ntype), ev.PeriodStart)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}
		budgetID := ev.BudgetID
		currency := ev.Currency.ToCurrency()
		amount, _ := money.NewFromSmallestUnit(ev.AmountMinor, currency)
		spent, _ := money.NewFromSmallestUnit(ev.SpentAmount, currency)
		title := "Budget threshold reached"
		message := fmt.Sprintf("You have used %.0f%% of your %q budget (%s of %s).",
			pct, ev.BudgetName, spent, amount)
		if ntype == notificationdomain.TypeBudgetExceeded {
			title = "Budget exceeded"
			message = fmt.Sprintf("Your %q budget is over its limit: %s spent of %s.",
				ev.BudgetName, spent, amount)
		}
		return repo.Create(ctx, dto.NotificationCreate{
			ID:       uuid.New(),
			UserID:   ev.UserID,
			BudgetID: &budgetID,
			Type:     string(ntype),
			Title:    title,
			Message:  message,
			Data: map[string]any{
				"budget_id":    ev.BudgetID.String(),
				"amount":       ev.AmountMinor,
				"spent_amount": ev.SpentAmount,
				"percentage":   pct,
				"currency":     ev.Currency.String(),
			},
			Channel: string(notificationdomain.ChannelDatabase),
		})
	})
}

// GetNotification retrieves one notification.
func (s *Service) GetNotification(ctx context.Context, id uuid.UUID) (read *dto.NotificationRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.NotificationRepository()
		if err != nil {
			return err
		}
		read, err = repo.Get(ctx, id)
		return err
	})
	return read, err
}

// ListNotifications lists a user's notifications, newest first.
func (s *Service) ListNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool) (reads []*dto.NotificationRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.NotificationRepository()
		if err != nil {
			return err
		}
		reads, err = repo.ListByUser(ctx, userID, unreadOnly)
		return err
	})
	return reads, err
}

// MarkRead stamps one notification as read.
func (s *Service) MarkRead(ctx context.Context, id uuid.UUID) error {
	return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.NotificationRepository()
		if err != nil {
			return err
		}
		if _, err = repo.Get(ctx, id); err != nil {
			return err
		}
		return repo.MarkRead(ctx, id, time.Now())
	})
}

// MarkAllRead stamps all of a user's unread notifications as read.
func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.NotificationRepository()
		if err != nil {
			return err
		}
		return repo.MarkAllRead(ctx, userID, time.Now())
	})
}

// spentPercentage is min(100, spent/amount*100); a zero-amount budget
// reports 100 as soon as anything is spent.
func spentPercentage(spent, amount int64) float64 {
	if amount <= 0 {
		if spent > 0 {
			return 100
		}
		return 0
	}
	pct := float64(spent) / float64(amount) * 100
	if pct > 100 {
		return 100
	}
	return pct
}
