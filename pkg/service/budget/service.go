// Package budget implements the budget tracker: CRUD over budgets plus
// the spent-amount recompute that keeps the cached projection and the
// status in step with the transaction set.
package budget

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	budgetdomain "github.com/pennywiseapp/pennywise/pkg/domain/budget"
	"github.com/pennywiseapp/pennywise/pkg/domain/events"
	"github.com/pennywiseapp/pennywise/pkg/dto"
	"github.com/pennywiseapp/pennywise/pkg/eventbus"
	"github.com/pennywiseapp/pennywise/pkg/money"
	"github.com/pennywiseapp/pennywise/pkg/repository"
)

// Service provides business logic for budgets. Every write that can
// move a budget's spent amount funnels through the recompute here, and
// spent-change events are published only after the surrounding unit of
// work has committed.
type Service struct {
	uow    repository.UnitOfWork
	bus    eventbus.EventBus
	logger *slog.Logger
}

// New creates a budget Service with the provided dependencies.
func New(uow repository.UnitOfWork, bus eventbus.EventBus, logger *slog.Logger) *Service {
	return &Service{uow: uow, bus: bus, logger: logger}
}

// CreateBudget validates and persists a new budget, then recomputes its
// spent amount so transactions already inside the window count
// immediately.
func (s *Service) CreateBudget(ctx context.Context, create dto.BudgetCreate) (read *dto.BudgetRead, err error) {
	var evs []events.BudgetSpentChanged
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.BudgetRepository()
		if err != nil {
			return err
		}
		code := money.Code(create.Currency)
		builder := budgetdomain.New().
			WithUserID(create.UserID).
			WithCategoryID(create.CategoryID).
			WithName(create.Name).
			WithAmount(create.Amount).
			WithCurrency(code.ToCurrency()).
			WithPeriod(budgetdomain.Period(create.Period)).
			WithWindow(create.StartDate, create.EndDate)
		if create.ID != uuid.Nil {
			builder = builder.WithID(create.ID)
		}
		if create.NotificationThreshold != 0 {
			builder = builder.WithNotificationThreshold(create.NotificationThreshold)
		}
		if create.Status != "" {
			builder = builder.WithStatus(budgetdomain.Status(create.Status))
		}
		builder = builder.WithSendNotifications(create.SendNotifications)
		b, err := builder.Build()
		if err != nil {
			return err
		}
		if err = repo.Create(ctx, mapDomainToCreate(b)); err != nil {
			return err
		}
		ev, err := s.recompute(ctx, uow, b.ID, time.Now())
		if err != nil {
			return err
		}
		if ev != nil {
			evs = append(evs, *ev)
		}
		read, err = repo.Get(ctx, b.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.Publish(ctx, evs)
	return read, nil
}

// UpdateBudget applies a partial update and recomputes, since a changed
// window, category, or ceiling can move both spent amount and status.
func (s *Service) UpdateBudget(ctx context.Context, id uuid.UUID, update dto.BudgetUpdate) (read *dto.BudgetRead, err error) {
	var evs []events.BudgetSpentChanged
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.BudgetRepository()
		if err != nil {
			return err
		}
		if update.NotificationThreshold != nil {
			if *update.NotificationThreshold < 1 || *update.NotificationThreshold > 100 {
				return budgetdomain.ErrInvalidThreshold
			}
		}
		if err = repo.Update(ctx, id, update); err != nil {
			return err
		}
		ev, err := s.recompute(ctx, uow, id, time.Now())
		if err != nil {
			return err
		}
		if ev != nil {
			evs = append(evs, *ev)
		}
		read, err = repo.Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.Publish(ctx, evs)
	return read, nil
}

// DeleteBudget soft-deletes a budget.
func (s *Service) DeleteBudget(ctx context.Context, id uuid.UUID) error {
	return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.BudgetRepository()
		if err != nil {
			return err
		}
		if _, err = repo.Get(ctx, id); err != nil {
			return err
		}
		return repo.SoftDelete(ctx, id)
	})
}

// GetBudget retrieves one budget.
func (s *Service) GetBudget(ctx context.Context, id uuid.UUID) (read *dto.BudgetRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.BudgetRepository()
		if err != nil {
			return err
		}
		read, err = repo.Get(ctx, id)
		return err
	})
	return read, err
}

// ListBudgets lists a user's budgets.
func (s *Service) ListBudgets(ctx context.Context, userID uuid.UUID) (reads []*dto.BudgetRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.BudgetRepository()
		if err != nil {
			return err
		}
		reads, err = repo.ListByUser(ctx, userID)
		return err
	})
	return reads, err
}

// RecomputeSpentAmount recomputes one budget's spent amount and status
// from the transaction set, inside its own unit of work. Calling it
// twice with no intervening transaction change is a no-op the second
// time.
func (s *Service) RecomputeSpentAmount(ctx context.Context, id uuid.UUID) (read *dto.BudgetRead, err error) {
	var ev *events.BudgetSpentChanged
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if ev, err = s.recompute(ctx, uow, id, time.Now()); err != nil {
			return err
		}
		repo, err := uow.BudgetRepository()
		if err != nil {
			return err
		}
		read, err = repo.Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if ev != nil {
		s.Publish(ctx, []events.BudgetSpentChanged{*ev})
	}
	return read, nil
}

// RecomputeMatching recomputes, inside the caller's open unit of work,
// every budget of the user whose window contains date and whose category
// scope covers categoryID. It is the hook the ledger write path calls so
// spent amounts never drift stale for more than one write. The returned
// events must be published by the caller after commit.
func (s *Service) RecomputeMatching(ctx context.Context, uow repository.UnitOfWork, userID uuid.UUID, categoryID *uuid.UUID, date time.Time) ([]events.BudgetSpentChanged, error) {
	repo, err := uow.BudgetRepository()
	if err != nil {
		return nil, err
	}
	matches, err := repo.ListMatching(ctx, userID, categoryID, date)
	if err != nil {
		return nil, err
	}
	var evs []events.BudgetSpentChanged
	now := time.Now()
	for _, m := range matches {
		ev, err := s.recompute(ctx, uow, m.ID, now)
		if err != nil {
			return nil, err
		}
		if ev != nil {
			evs = append(evs, *ev)
		}
	}
	return evs, nil
}

// CheckAllActiveBudgets recomputes every active or exceeded budget. The
// scheduler invokes it periodically; each budget gets its own unit of
// work so one failure does not abort the sweep.
func (s *Service) CheckAllActiveBudgets(ctx context.Context) error {
	var checkable []*dto.BudgetRead
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.BudgetRepository()
		if err != nil {
			return err
		}
		checkable, err = repo.ListCheckable(ctx)
		return err
	})
	if err != nil {
		return err
	}
	for _, b := range checkable {
		if _, err := s.RecomputeSpentAmount(ctx, b.ID); err != nil {
			s.logger.Error("budget sweep: recompute failed",
				"budget_id", b.ID, "error", err)
		}
	}
	return nil
}

// CheckAllBudgetThresholds re-evaluates threshold triggers from the
// stored spent amounts without mutating any budget. Suppression in the
// notification trigger keeps repeated sweeps from duplicating records.
func (s *Service) CheckAllBudgetThresholds(ctx context.Context) error {
	var checkable []*dto.BudgetRead
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.BudgetRepository()
		if err != nil {
			return err
		}
		checkable, err = repo.ListCheckable(ctx)
		return err
	})
	if err != nil {
		return err
	}
	now := time.Now()
	for _, b := range checkable {
		if !b.SendNotifications {
			continue
		}
		s.Publish(ctx, []events.BudgetSpentChanged{{
			BudgetID:          b.ID,
			UserID:            b.UserID,
			BudgetName:        b.Name,
			Currency:          money.Code(b.Currency),
			AmountMinor:       b.Amount,
			PreviousSpent:     b.SpentAmount,
			SpentAmount:       b.SpentAmount,
			Threshold:         b.NotificationThreshold,
			SendNotifications: b.SendNotifications,
			PeriodStart:       b.StartDate,
			PeriodEnd:         b.EndDate,
			OccurredAt:        now,
		}})
	}
	return nil
}

// recompute locks the budget row, sums the matching expense
// transactions, and writes the new spent amount and status. Returns a
// spent-change event when the amount moved, nil otherwise.
func (s *Service) recompute(ctx context.Context, uow repository.UnitOfWork, id uuid.UUID, now time.Time) (*events.BudgetSpentChanged, error) {
	budgets, err := uow.BudgetRepository()
	if err != nil {
		return nil, err
	}
	transactions, err := uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	read, err := budgets.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	b, err := mapReadToDomain(read)
	if err != nil {
		return nil, err
	}
	spentMinor, err := transactions.SumExpenses(ctx, dto.ExpenseSumFilter{
		UserID:     read.UserID,
		CategoryID: read.CategoryID,
		From:       read.StartDate,
		To:         read.EndDate,
	})
	if err != nil {
		return nil, err
	}
	previous := b.SpentAmount.Amount()
	spent, err := money.NewFromSmallestUnit(spentMinor, b.Amount.Currency())
	if err != nil {
		return nil, err
	}
	previousStatus := b.Status
	if err = b.ApplySpent(spent, now); err != nil {
		return nil, err
	}
	if previous != spentMinor || previousStatus != b.Status {
		if err = budgets.ApplyRecompute(ctx, id, dto.BudgetRecompute{
			SpentAmount: spentMinor,
			Status:      string(b.Status),
		}); err != nil {
			return nil, err
		}
	}
	if previous == spentMinor {
		return nil, nil
	}
	return &events.BudgetSpentChanged{
		BudgetID:          b.ID,
		UserID:            b.UserID,
		BudgetName:        b.Name,
		Currency:          b.Amount.CurrencyCode(),
		AmountMinor:       b.Amount.Amount(),
		PreviousSpent:     previous,
		SpentAmount:       spentMinor,
		Threshold:         b.NotificationThreshold,
		SendNotifications: b.SendNotifications,
		PeriodStart:       b.StartDate,
		PeriodEnd:         b.EndDate,
		OccurredAt:        now,
	}, nil
}

// Publish emits spent-change events on the bus. It is exposed so the
// ledger write path can publish the events returned by
// RecomputeMatching after its own unit of work commits.
func (s *Service) Publish(ctx context.Context, evs []events.BudgetSpentChanged) {
	for _, ev := range evs {
		if err := s.bus.Publish(ctx, ev); err != nil {
			s.logger.Error("failed to publish budget event",
				"budget_id", ev.BudgetID, "error", err)
		}
	}
}

func mapDomainToCreate(b *budgetdomain.Budget) dto.BudgetCreate {
	return dto.BudgetCreate{
		ID:                    b.ID,
		UserID:                b.UserID,
		CategoryID:            b.CategoryID,
		Name:                  b.Name,
		Amount:                b.Amount.Amount(),
		Currency:              b.Amount.CurrencyCode().String(),
		Period:                string(b.Period),
		StartDate:             b.StartDate,
		EndDate:               b.EndDate,
		Status:                string(b.Status),
		NotificationThreshold: b.NotificationThreshold,
		SendNotifications:     b.SendNotifications,
	}
}

func mapReadToDomain(read *dto.BudgetRead) (*budgetdomain.Budget, error) {
	return budgetdomain.New().
		WithID(read.ID).
		WithUserID(read.UserID).
		WithCategoryID(read.CategoryID).
		WithName(read.Name).
		WithAmount(read.Amount).
		WithSpentAmount(read.SpentAmount).
		WithCurrency(money.Code(read.Currency).ToCurrency()).
		WithPeriod(budgetdomain.Period(read.Period)).
		WithWindow(read.StartDate, read.EndDate).
		WithStatus(budgetdomain.Status(read.Status)).
		WithNotificationThreshold(read.NotificationThreshold).
		WithSendNotifications(read.SendNotifications).
		WithCreatedAt(read.CreatedAt).
		WithUpdatedAt(read.UpdatedAt).
		Build()
}
