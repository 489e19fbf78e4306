// Package transfer exposes the HTTP endpoints for account-to-account
// transfers. Both legs and the transfer record are written atomically
// by the coordinator; deleting a transfer removes all three.
package transfer

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pennywiseapp/pennywise/pkg/dto"
	transfersvc "github.com/pennywiseapp/pennywise/pkg/service/transfer"
	"github.com/pennywiseapp/pennywise/webapi/common"
)

// CreateTransferRequest is the payload for moving money between two
// accounts. Amount is in the main unit of the source currency. For a
// cross-currency transfer either UseLiveRate must be set or ManualRate
// provided.
type CreateTransferRequest struct {
	SourceAccountID      string   `json:"source_account_id" validate:"required,uuid4"`
	DestinationAccountID string   `json:"destination_account_id" validate:"required,uuid4"`
	Amount               float64  `json:"amount" validate:"required,gt=0"`
	Date                 string   `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Description          string   `json:"description" validate:"max=255"`
	UseLiveRate          bool     `json:"use_live_rate"`
	ManualRate           *float64 `json:"manual_rate" validate:"omitempty,gt=0"`
}

// Routes registers the transfer endpoints.
func Routes(app *fiber.App, svc *transfersvc.Service) {
	group := app.Group("/transfers", common.RequireUserID())
	group.Post("/", Create(svc))
	group.Get("/", List(svc))
	group.Get("/:id", Get(svc))
	group.Delete("/:id", Delete(svc))
}

// Create handles POST /transfers.
func Create(svc *transfersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CreateTransferRequest](c)
		if err != nil {
			return nil
		}
		sourceID, err := uuid.Parse(input.SourceAccountID)
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid identifier", err.Error())
		}
		destID, err := uuid.Parse(input.DestinationAccountID)
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid identifier", err.Error())
		}
		date := time.Now()
		if input.Date != "" {
			if date, err = time.Parse("2006-01-02", input.Date); err != nil {
				return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid date", err.Error())
			}
		}
		cmd := dto.TransferCommand{
			UserID:               common.UserID(c),
			SourceAccountID:      sourceID,
			DestinationAccountID: destID,
			Amount:               input.Amount,
			Date:                 date,
			Description:          input.Description,
			UseLiveRate:          input.UseLiveRate,
		}
		if input.ManualRate != nil {
			rate := decimal.NewFromFloat(*input.ManualRate)
			cmd.ManualRate = &rate
		}
		read, err := svc.CreateTransfer(c.UserContext(), cmd)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Transfer completed", read)
	}
}

// List handles GET /transfers.
func List(svc *transfersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reads, err := svc.ListTransfers(c.UserContext(), common.UserID(c))
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transfers retrieved", reads)
	}
}

// Get handles GET /transfers/:id.
func Get(svc *transfersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParseIDParam(c, "id")
		if err != nil {
			return nil
		}
		read, err := svc.GetTransfer(c.UserContext(), id)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		if read.UserID != common.UserID(c) {
			return common.ErrorResponseJSON(c, fiber.StatusForbidden, "Forbidden", "transfer belongs to another user")
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transfer retrieved", read)
	}
}

// Delete handles DELETE /transfers/:id. Both legs disappear with the
// record.
func Delete(svc *transfersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParseIDParam(c, "id")
		if err != nil {
			return nil
		}
		current, err := svc.GetTransfer(c.UserContext(), id)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		if current.UserID != common.UserID(c) {
			return common.ErrorResponseJSON(c, fiber.StatusForbidden, "Forbidden", "transfer belongs to another user")
		}
		if err = svc.DeleteTransfer(c.UserContext(), id); err != nil {
			return common.ProblemFromError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transfer deleted", nil)
	}
}
