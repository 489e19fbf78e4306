// Package transaction exposes the HTTP endpoints for recording and
// querying ledger transactions. Transfer legs are not writable here;
// they only exist through the transfer endpoints.
package transaction

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/pennywiseapp/pennywise/pkg/dto"
	"github.com/pennywiseapp/pennywise/pkg/money"
	ledgersvc "github.com/pennywiseapp/pennywise/pkg/service/ledger"
	"github.com/pennywiseapp/pennywise/webapi/common"
)

// CreateTransactionRequest is the payload for recording a transaction.
// Amount is in the main unit of the account's currency.
type CreateTransactionRequest struct {
	AccountID    string  `json:"account_id" validate:"required,uuid4"`
	CategoryID   *string `json:"category_id" validate:"omitempty,uuid4"`
	Type         string  `json:"type" validate:"required,oneof=income expense"`
	Amount       float64 `json:"amount" validate:"required,gt=0"`
	Date         string  `json:"date" validate:"required,datetime=2006-01-02"`
	Description  string  `json:"description" validate:"max=255"`
	IsReconciled bool    `json:"is_reconciled"`
}

// UpdateTransactionRequest is the payload for a partial update.
type UpdateTransactionRequest struct {
	CategoryID    *string  `json:"category_id" validate:"omitempty,uuid4"`
	ClearCategory bool     `json:"clear_category"`
	Amount        *float64 `json:"amount" validate:"omitempty,gt=0"`
	Date          *string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Description   *string  `json:"description" validate:"omitempty,max=255"`
	IsReconciled  *bool    `json:"is_reconciled"`
}

// Routes registers the transaction endpoints.
func Routes(app *fiber.App, svc *ledgersvc.Service) {
	group := app.Group("/transactions", common.RequireUserID())
	group.Post("/", Create(svc))
	group.Get("/", List(svc))
	group.Get("/:id", Get(svc))
	group.Patch("/:id", Update(svc))
	group.Delete("/:id", Delete(svc))
}

// Create handles POST /transactions.
func Create(svc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CreateTransactionRequest](c)
		if err != nil {
			return nil
		}
		accountID, err := uuid.Parse(input.AccountID)
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid identifier", err.Error())
		}
		date, err := time.Parse("2006-01-02", input.Date)
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid date", err.Error())
		}
		categoryID, err := parseOptionalUUID(input.CategoryID)
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid identifier", err.Error())
		}
		read, err := svc.CreateTransaction(c.UserContext(), dto.TransactionCommand{
			UserID:          common.UserID(c),
			AccountID:       accountID,
			CategoryID:      categoryID,
			Type:            input.Type,
			Amount:          input.Amount,
			TransactionDate: date,
			Description:     input.Description,
			IsReconciled:    input.IsReconciled,
		})
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Transaction recorded", read)
	}
}

// List handles GET /transactions with optional account_id, category_id,
// type, from and to query filters.
func List(svc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter := dto.TransactionListFilter{}
		if raw := c.Query("account_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid identifier", err.Error())
			}
			filter.AccountID = &id
		}
		if raw := c.Query("category_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid identifier", err.Error())
			}
			filter.CategoryID = &id
		}
		if raw := c.Query("type"); raw != "" {
			filter.Type = &raw
		}
		if raw := c.Query("from"); raw != "" {
			t, err := time.Parse("2006-01-02", raw)
			if err != nil {
				return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid date", err.Error())
			}
			filter.From = &t
		}
		if raw := c.Query("to"); raw != "" {
			t, err := time.Parse("2006-01-02", raw)
			if err != nil {
				return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid date", err.Error())
			}
			filter.To = &t
		}
		reads, err := svc.ListTransactions(c.UserContext(), common.UserID(c), filter)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions retrieved", reads)
	}
}

// Get handles GET /transactions/:id.
func Get(svc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParseIDParam(c, "id")
		if err != nil {
			return nil
		}
		read, err := svc.GetTransaction(c.UserContext(), id)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		if read.UserID != common.UserID(c) {
			return common.ErrorResponseJSON(c, fiber.StatusForbidden, "Forbidden", "transaction belongs to another user")
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transaction retrieved", read)
	}
}

// Update handles PATCH /transactions/:id.
func Update(svc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParseIDParam(c, "id")
		if err != nil {
			return nil
		}
		input, err := common.BindAndValidate[UpdateTransactionRequest](c)
		if err != nil {
			return nil
		}
		current, err := svc.GetTransaction(c.UserContext(), id)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		if current.UserID != common.UserID(c) {
			return common.ErrorResponseJSON(c, fiber.StatusForbidden, "Forbidden", "transaction belongs to another user")
		}

		update := dto.TransactionUpdate{
			ClearCategory: input.ClearCategory,
			Description:   input.Description,
			IsReconciled:  input.IsReconciled,
		}
		if update.CategoryID, err = parseOptionalUUID(input.CategoryID); err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid identifier", err.Error())
		}
		if input.Amount != nil {
			minor, err := mainToMinor(*input.Amount, current.Currency)
			if err != nil {
				return common.ProblemFromError(c, err)
			}
			update.Amount = &minor
		}
		if input.Date != nil {
			t, err := time.Parse("2006-01-02", *input.Date)
			if err != nil {
				return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid date", err.Error())
			}
			update.TransactionDate = &t
		}

		read, err := svc.UpdateTransaction(c.UserContext(), id, update)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transaction updated", read)
	}
}

// Delete handles DELETE /transactions/:id.
func Delete(svc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParseIDParam(c, "id")
		if err != nil {
			return nil
		}
		current, err := svc.GetTransaction(c.UserContext(), id)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		if current.UserID != common.UserID(c) {
			return common.ErrorResponseJSON(c, fiber.StatusForbidden, "Forbidden", "transaction belongs to another user")
		}
		if err = svc.DeleteTransaction(c.UserContext(), id); err != nil {
			return common.ProblemFromError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transaction deleted", nil)
	}
}

func mainToMinor(amount float64, currency string) (int64, error) {
	m, err := money.New(amount, money.Code(currency).ToCurrency())
	if err != nil {
		return 0, err
	}
	return m.Amount(), nil
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
