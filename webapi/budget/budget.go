// Package budget exposes the HTTP endpoints for budgets, including the
// explicit recompute trigger.
package budget

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	budgetdomain "github.com/pennywiseapp/pennywise/pkg/domain/budget"
	"github.com/pennywiseapp/pennywise/pkg/dto"
	"github.com/pennywiseapp/pennywise/pkg/money"
	budgetsvc "github.com/pennywiseapp/pennywise/pkg/service/budget"
	"github.com/pennywiseapp/pennywise/webapi/common"
)

// CreateBudgetRequest is the payload for creating a budget. Amount is
// in the main unit of the budget's currency. A nil category tracks all
// of the user's expenses.
type CreateBudgetRequest struct {
	Name                  string  `json:"name" validate:"required,max=128"`
	CategoryID            *string `json:"category_id" validate:"omitempty,uuid4"`
	Amount                float64 `json:"amount" validate:"required,gt=0"`
	Currency              string  `json:"currency" validate:"omitempty,len=3,uppercase"`
	Period                string  `json:"period" validate:"required,oneof=daily weekly monthly quarterly yearly"`
	StartDate             string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate               string  `json:"end_date" validate:"required,datetime=2006-01-02"`
	NotificationThreshold *int    `json:"notification_threshold" validate:"omitempty,gt=0,lte=100"`
	SendNotifications     *bool   `json:"send_notifications"`
}

// UpdateBudgetRequest is the payload for a partial budget update. Spent
// amount and status are not writable; they only change via recompute.
type UpdateBudgetRequest struct {
	Name                  *string  `json:"name" validate:"omitempty,max=128"`
	CategoryID            *string  `json:"category_id" validate:"omitempty,uuid4"`
	ClearCategory         bool     `json:"clear_category"`
	Amount                *float64 `json:"amount" validate:"omitempty,gt=0"`
	StartDate             *string  `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate               *string  `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	NotificationThreshold *int     `json:"notification_threshold" validate:"omitempty,gt=0,lte=100"`
	SendNotifications     *bool    `json:"send_notifications"`
}

// Routes registers the budget endpoints.
func Routes(app *fiber.App, svc *budgetsvc.Service) {
	group := app.Group("/budgets", common.RequireUserID())
	group.Post("/", Create(svc))
	group.Get("/", List(svc))
	group.Get("/:id", Get(svc))
	group.Patch("/:id", Update(svc))
	group.Delete("/:id", Delete(svc))
	group.Post("/:id/recompute", Recompute(svc))
}

// Create handles POST /budgets.
func Create(svc *budgetsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CreateBudgetRequest](c)
		if err != nil {
			return nil
		}
		code := money.Code(input.Currency)
		if input.Currency == "" {
			code = money.DefaultCurrency.Code
		}
		amount, err := money.New(input.Amount, code.ToCurrency())
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		startDate, err := time.Parse("2006-01-02", input.StartDate)
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid date", err.Error())
		}
		endDate, err := time.Parse("2006-01-02", input.EndDate)
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid date", err.Error())
		}
		categoryID, err := parseOptionalUUID(input.CategoryID)
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid identifier", err.Error())
		}

		create := dto.BudgetCreate{
			UserID:                common.UserID(c),
			CategoryID:            categoryID,
			Name:                  input.Name,
			Amount:                amount.Amount(),
			Currency:              code.String(),
			Period:                input.Period,
			StartDate:             startDate,
			EndDate:               endDate,
			Status:                string(budgetdomain.StatusActive),
			NotificationThreshold: budgetdomain.DefaultNotificationThreshold,
			SendNotifications:     true,
		}
		if input.NotificationThreshold != nil {
			create.NotificationThreshold = *input.NotificationThreshold
		}
		if input.SendNotifications != nil {
			create.SendNotifications = *input.SendNotifications
		}

		read, err := svc.CreateBudget(c.UserContext(), create)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Budget created", read)
	}
}

// List handles GET /budgets.
func List(svc *budgetsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reads, err := svc.ListBudgets(c.UserContext(), common.UserID(c))
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Budgets retrieved", reads)
	}
}

// Get handles GET /budgets/:id.
func Get(svc *budgetsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParseIDParam(c, "id")
		if err != nil {
			return nil
		}
		read, err := svc.GetBudget(c.UserContext(), id)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		if read.UserID != common.UserID(c) {
			return common.ErrorResponseJSON(c, fiber.StatusForbidden, "Forbidden", "budget belongs to another user")
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Budget retrieved", read)
	}
}

// Update handles PATCH /budgets/:id.
func Update(svc *budgetsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParseIDParam(c, "id")
		if err != nil {
			return nil
		}
		input, err := common.BindAndValidate[UpdateBudgetRequest](c)
		if err != nil {
			return nil
		}
		current, err := svc.GetBudget(c.UserContext(), id)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		if current.UserID != common.UserID(c) {
			return common.ErrorResponseJSON(c, fiber.StatusForbidden, "Forbidden", "budget belongs to another user")
		}

		update := dto.BudgetUpdate{
			Name:                  input.Name,
			ClearCategory:         input.ClearCategory,
			NotificationThreshold: input.NotificationThreshold,
			SendNotifications:     input.SendNotifications,
		}
		if update.CategoryID, err = parseOptionalUUID(input.CategoryID); err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid identifier", err.Error())
		}
		if input.Amount != nil {
			amount, err := money.New(*input.Amount, money.Code(current.Currency).ToCurrency())
			if err != nil {
				return common.ProblemFromError(c, err)
			}
			minor := amount.Amount()
			update.Amount = &minor
		}
		if input.StartDate != nil {
			t, err := time.Parse("2006-01-02", *input.StartDate)
			if err != nil {
				return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid date", err.Error())
			}
			update.StartDate = &t
		}
		if input.EndDate != nil {
			t, err := time.Parse("2006-01-02", *input.EndDate)
			if err != nil {
				return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid date", err.Error())
			}
			update.EndDate = &t
		}

		read, err := svc.UpdateBudget(c.UserContext(), id, update)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Budget updated", read)
	}
}

// Delete handles DELETE /budgets/:id.
func Delete(svc *budgetsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParseIDParam(c, "id")
		if err != nil {
			return nil
		}
		current, err := svc.GetBudget(c.UserContext(), id)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		if current.UserID != common.UserID(c) {
			return common.ErrorResponseJSON(c, fiber.StatusForbidden, "Forbidden", "budget belongs to another user")
		}
		if err = svc.DeleteBudget(c.UserContext(), id); err != nil {
			return common.ProblemFromError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Budget deleted", nil)
	}
}

// Recompute handles POST /budgets/:id/recompute, forcing a fresh spent
// amount from the transaction history.
func Recompute(svc *budgetsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParseIDParam(c, "id")
		if err != nil {
			return nil
		}
		current, err := svc.GetBudget(c.UserContext(), id)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		if current.UserID != common.UserID(c) {
			return common.ErrorResponseJSON(c, fiber.StatusForbidden, "Forbidden", "budget belongs to another user")
		}
		read, err := svc.RecomputeSpentAmount(c.UserContext(), id)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Budget recomputed", read)
	}
}

func parseOptionalUUID(raw *string) (*uuid.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
