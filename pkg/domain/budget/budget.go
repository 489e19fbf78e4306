// Package budget defines spending budgets and the rules for recomputing
// their spent amount and status.
package budget

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pennywiseapp/pennywise/pkg/domain"
	"github.com/pennywiseapp/pennywise/pkg/money"
)

var (
	// ErrBudgetNotFound is returned when a budget cannot be found.
	ErrBudgetNotFound = fmt.Errorf("%w: budget", domain.ErrNotFound)

	// ErrInvalidPeriod is returned when an unknown budget period is given.
	ErrInvalidPeriod = fmt.Errorf("%w: invalid budget period", domain.ErrValidation)

	// ErrInvalidThreshold is returned when the notification threshold is
	// outside 1-100.
	ErrInvalidThreshold = fmt.Errorf("%w: notification threshold must be between 1 and 100", domain.ErrValidation)

	// ErrInvalidWindow is returned when the end date precedes the start date.
	ErrInvalidWindow = fmt.Errorf("%w: budget end date before start date", domain.ErrValidation)
)

// DefaultNotificationThreshold is the percentage at which threshold
// notifications fire unless configured otherwise.
const DefaultNotificationThreshold = 80

// Period names the recurrence a budget's explicit window was derived from.
type Period string

// Supported budget periods.
const (
	PeriodDaily     Period = "daily"
	PeriodWeekly    Period = "weekly"
	PeriodMonthly   Period = "monthly"
	PeriodQuarterly Period = "quarterly"
	PeriodYearly    Period = "yearly"
)

// IsValid reports whether the period is a supported value.
func (p Period) IsValid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodQuarterly, PeriodYearly:
		return true
	}
	return false
}

// Status describes a budget's lifecycle state.
type Status string

// Budget statuses. StatusExceeded is sticky: once set, a recompute with
// lower spend does not revert it to active.
const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusCompleted Status = "completed"
	StatusExceeded  Status = "exceeded"
)

// Budget is a spending ceiling for one category (or all categories when
// CategoryID is nil) over an explicit date window.
//
// Invariants:
//   - SpentAmount is always the sum of matching expense transactions in
//     [StartDate, EndDate]; it is recomputed, never user-mutated.
//   - Status becomes exceeded when SpentAmount > Amount, completed when
//     the window has passed, and is otherwise left unchanged.
type Budget struct {
	ID                    uuid.UUID
	UserID                uuid.UUID
	CategoryID            *uuid.UUID // nil matches all categories
	Name                  string
	Amount                money.Money
	SpentAmount           money.Money
	Period                Period
	StartDate             time.Time
	EndDate               time.Time
	Status                Status
	NotificationThreshold int // percent
	SendNotifications     bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// ApplySpent records a freshly computed spent amount and re-evaluates
// the status at that moment. The exceeded status is sticky until the
// window passes; dropping back under the ceiling never reactivates.
func (b *Budget) ApplySpent(spent money.Money, now time.Time) error {
	if !spent.IsSameCurrency(b.Amount) {
		return money.ErrMismatchedCurrencies
	}
	b.SpentAmount = spent
	over, err := spent.GreaterThan(b.Amount)
	if err != nil {
		return err
	}
	switch {
	case over:
		b.Status = StatusExceeded
	case b.windowPassed(now):
		b.Status = StatusCompleted
	}
	return nil
}

func (b *Budget) windowPassed(now time.Time) bool {
	return endOfDay(b.EndDate).Before(now)
}

// SpentPercentage returns min(100, spent/amount*100). A zero-amount
// budget reports 100 as soon as anything is spent.
func (b *Budget) SpentPercentage() float64 {
	if b.Amount.Amount() <= 0 {
		if b.SpentAmount.IsPositive() {
			return 100
		}
		return 0
	}
	pct := float64(b.SpentAmount.Amount()) / float64(b.Amount.Amount()) * 100
	if pct > 100 {
		return 100
	}
	return pct
}

// Contains reports whether the calendar date falls inside the budget's
// inclusive window.
func (b *Budget) Contains(date time.Time) bool {
	return !date.Before(startOfDay(b.StartDate)) && !date.After(endOfDay(b.EndDate))
}

// Matches reports whether an expense with the given category and date
// counts against this budget.
func (b *Budget) Matches(categoryID *uuid.UUID, date time.Time) bool {
	if !b.Contains(date) {
		return false
	}
	if b.CategoryID == nil {
		return true
	}
	return categoryID != nil && *categoryID == *b.CategoryID
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// Builder provides a fluent API for constructing Budget values.
type Builder struct {
	id                uuid.UUID
	userID            uuid.UUID
	categoryID        *uuid.UUID
	name              string
	amount            int64
	spent             int64
	currency          money.Currency
	period            Period
	startDate         time.Time
	endDate           time.Time
	status            Status
	threshold         int
	sendNotifications bool
	createdAt         time.Time
	updatedAt         time.Time
}

// New creates a Builder with defaults: fresh UUID, monthly period,
// active status, default threshold, notifications on.
func New() *Builder {
	return &Builder{
		id:                uuid.New(),
		currency:          money.DefaultCurrency,
		period:            PeriodMonthly,
		status:            StatusActive,
		threshold:         DefaultNotificationThreshold,
		sendNotifications: true,
		createdAt:         time.Now(),
	}
}

// WithID sets the ID for the budget being built.
func (b *Builder) WithID(id uuid.UUID) *Builder { b.id = id; return b }

// WithUserID sets the owning user. Mandatory.
func (b *Builder) WithUserID(userID uuid.UUID) *Builder { b.userID = userID; return b }

// WithCategoryID scopes the budget to one category; nil means all.
func (b *Builder) WithCategoryID(id *uuid.UUID) *Builder { b.categoryID = id; return b }

// WithName sets the display name.
func (b *Builder) WithName(name string) *Builder { b.name = name; return b }

// WithAmount sets the ceiling in the smallest currency unit.
func (b *Builder) WithAmount(minor int64) *Builder { b.amount = minor; return b }

// WithSpentAmount sets the cached spent amount, for hydration only.
func (b *Builder) WithSpentAmount(minor int64) *Builder { b.spent = minor; return b }

// WithCurrency sets the budget currency.
func (b *Builder) WithCurrency(c money.Currency) *Builder { b.currency = c; return b }

// WithPeriod sets the recurrence label.
func (b *Builder) WithPeriod(p Period) *Builder { b.period = p; return b }

// WithWindow sets the explicit start and end dates (inclusive).
func (b *Builder) WithWindow(start, end time.Time) *Builder {
	b.startDate, b.endDate = start, end
	return b
}

// WithStatus sets the lifecycle status, for hydration.
func (b *Builder) WithStatus(s Status) *Builder { b.status = s; return b }

// WithNotificationThreshold sets the firing percentage.
func (b *Builder) WithNotificationThreshold(pct int) *Builder { b.threshold = pct; return b }

// WithSendNotifications toggles threshold notifications.
func (b *Builder) WithSendNotifications(send bool) *Builder { b.sendNotifications = send; return b }

// WithCreatedAt sets the creation timestamp, for hydration.
func (b *Builder) WithCreatedAt(t time.Time) *Builder { b.createdAt = t; return b }

// WithUpdatedAt sets the last-updated timestamp, for hydration.
func (b *Builder) WithUpdatedAt(t time.Time) *Builder { b.updatedAt = t; return b }

// Build validates all invariants and returns the Budget.
func (b *Builder) Build() (*Budget, error) {
	if b.userID == uuid.Nil {
		return nil, errors.New("userID is required")
	}
	if !b.currency.IsValid() {
		return nil, money.ErrInvalidCurrency
	}
	if !b.period.IsValid() {
		return nil, ErrInvalidPeriod
	}
	if b.threshold < 1 || b.threshold > 100 {
		return nil, ErrInvalidThreshold
	}
	if b.endDate.Before(b.startDate) {
		return nil, ErrInvalidWindow
	}
	amount, err := money.NewFromSmallestUnit(b.amount, b.currency)
	if err != nil {
		return nil, err
	}
	spent, err := money.NewFromSmallestUnit(b.spent, b.currency)
	if err != nil {
		return nil, err
	}
	return &Budget{
		ID:                    b.id,
		UserID:                b.userID,
		CategoryID:            b.categoryID,
		Name:                  b.name,
		Amount:                amount,
		SpentAmount:           spent,
		Period:                b.period,
		StartDate:             b.startDate,
		EndDate:               b.endDate,
		Status:                b.status,
		NotificationThreshold: b.threshold,
		SendNotifications:     b.sendNotifications,
		CreatedAt:             b.createdAt,
		UpdatedAt:             b.updatedAt,
	}, nil
}
