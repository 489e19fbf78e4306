// Package account exposes the HTTP endpoints for accounts and the
// derived balance.
package account

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pennywiseapp/pennywise/pkg/dto"
	"github.com/pennywiseapp/pennywise/pkg/money"
	ledgersvc "github.com/pennywiseapp/pennywise/pkg/service/ledger"
	"github.com/pennywiseapp/pennywise/webapi/common"
)

// CreateAccountRequest is the payload for creating an account.
// InitialBalance is in the main unit of the account's currency.
type CreateAccountRequest struct {
	Name           string  `json:"name" validate:"required,max=128"`
	Type           string  `json:"type" validate:"required,oneof=checking savings cash credit"`
	Currency       string  `json:"currency" validate:"omitempty,len=3,uppercase"`
	InitialBalance float64 `json:"initial_balance"`
}

// UpdateAccountRequest is the payload for a partial account update.
type UpdateAccountRequest struct {
	Name   *string `json:"name" validate:"omitempty,max=128"`
	Type   *string `json:"type" validate:"omitempty,oneof=checking savings cash credit"`
	Active *bool   `json:"active"`
}

// BalanceResponse is the derived balance of one account.
type BalanceResponse struct {
	AccountID string  `json:"account_id"`
	Balance   float64 `json:"balance"`
	Currency  string  `json:"currency"`
}

// Routes registers the account endpoints.
func Routes(app *fiber.App, svc *ledgersvc.Service) {
	group := app.Group("/accounts", common.RequireUserID())
	group.Post("/", Create(svc))
	group.Get("/", List(svc))
	group.Get("/:id", Get(svc))
	group.Patch("/:id", Update(svc))
	group.Delete("/:id", Delete(svc))
	group.Get("/:id/balance", Balance(svc))
}

// Create handles POST /accounts.
func Create(svc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CreateAccountRequest](c)
		if err != nil {
			return nil
		}
		code := money.Code(input.Currency)
		if input.Currency == "" {
			code = money.DefaultCurrency.Code
		}
		initial, err := money.New(input.InitialBalance, code.ToCurrency())
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		read, err := svc.CreateAccount(c.UserContext(), dto.AccountCreate{
			UserID:         common.UserID(c),
			Name:           input.Name,
			Type:           input.Type,
			Currency:       code.String(),
			InitialBalance: initial.Amount(),
			Active:         true,
		})
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Account created", read)
	}
}

// List handles GET /accounts.
func List(svc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reads, err := svc.ListAccounts(c.UserContext(), common.UserID(c))
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Accounts retrieved", reads)
	}
}

// Get handles GET /accounts/:id.
func Get(svc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParseIDParam(c, "id")
		if err != nil {
			return nil
		}
		read, err := svc.GetAccount(c.UserContext(), id)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		if read.UserID != common.UserID(c) {
			return common.ErrorResponseJSON(c, fiber.StatusForbidden, "Forbidden", "account belongs to another user")
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account retrieved", read)
	}
}

// Update handles PATCH /accounts/:id.
func Update(svc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParseIDParam(c, "id")
		if err != nil {
			return nil
		}
		input, err := common.BindAndValidate[UpdateAccountRequest](c)
		if err != nil {
			return nil
		}
		current, err := svc.GetAccount(c.UserContext(), id)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		if current.UserID != common.UserID(c) {
			return common.ErrorResponseJSON(c, fiber.StatusForbidden, "Forbidden", "account belongs to another user")
		}
		read, err := svc.UpdateAccount(c.UserContext(), id, dto.AccountUpdate{
			Name:   input.Name,
			Type:   input.Type,
			Active: input.Active,
		})
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account updated", read)
	}
}

// Delete handles DELETE /accounts/:id. The account's transactions are
// kept for history.
func Delete(svc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParseIDParam(c, "id")
		if err != nil {
			return nil
		}
		current, err := svc.GetAccount(c.UserContext(), id)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		if current.UserID != common.UserID(c) {
			return common.ErrorResponseJSON(c, fiber.StatusForbidden, "Forbidden", "account belongs to another user")
		}
		if err = svc.DeleteAccount(c.UserContext(), id); err != nil {
			return common.ProblemFromError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account deleted", nil)
	}
}

// Balance handles GET /accounts/:id/balance. The balance is derived
// from the transaction history on every call.
func Balance(svc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParseIDParam(c, "id")
		if err != nil {
			return nil
		}
		acct, err := svc.GetAccount(c.UserContext(), id)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		if acct.UserID != common.UserID(c) {
			return common.ErrorResponseJSON(c, fiber.StatusForbidden, "Forbidden", "account belongs to another user")
		}
		balance, err := svc.ComputeBalance(c.UserContext(), id)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Balance computed", BalanceResponse{
			AccountID: id.String(),
			Balance:   balance.AmountFloat(),
			Currency:  balance.CurrencyCode().String(),
		})
	}
}
