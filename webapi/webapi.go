// Package webapi assembles the HTTP surface. It is organized into
// sub-packages per resource:
// - account: accounts and the derived balance
// - transaction: income and expense recording
// - transfer: atomic account-to-account transfers
// - budget: budgets and the recompute trigger
// - category: category management
// - notification: reading and acknowledging notifications
package webapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	budgetsvc "github.com/pennywiseapp/pennywise/pkg/service/budget"
	categorysvc "github.com/pennywiseapp/pennywise/pkg/service/category"
	ledgersvc "github.com/pennywiseapp/pennywise/pkg/service/ledger"
	notificationsvc "github.com/pennywiseapp/pennywise/pkg/service/notification"
	transfersvc "github.com/pennywiseapp/pennywise/pkg/service/transfer"
	accountweb "github.com/pennywiseapp/pennywise/webapi/account"
	budgetweb "github.com/pennywiseapp/pennywise/webapi/budget"
	categoryweb "github.com/pennywiseapp/pennywise/webapi/category"
	"github.com/pennywiseapp/pennywise/webapi/common"
	notificationweb "github.com/pennywiseapp/pennywise/webapi/notification"
	transactionweb "github.com/pennywiseapp/pennywise/webapi/transaction"
	transferweb "github.com/pennywiseapp/pennywise/webapi/transfer"
)

// Services groups the service dependencies the HTTP surface needs.
type Services struct {
	Ledger        *ledgersvc.Service
	Transfers     *transfersvc.Service
	Budgets       *budgetsvc.Service
	Categories    *categorysvc.Service
	Notifications *notificationsvc.Service
}

// SetupApp initializes Fiber with the shared middleware and registers
// every resource's routes.
func SetupApp(svcs Services) *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			}
			return common.ErrorResponseJSON(c, status, "Internal Server Error", err.Error())
		},
	})

	fiberApp.Use(recover.New())
	fiberApp.Use(logger.New())

	fiberApp.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	accountweb.Routes(fiberApp, svcs.Ledger)
	transactionweb.Routes(fiberApp, svcs.Ledger)
	transferweb.Routes(fiberApp, svcs.Transfers)
	budgetweb.Routes(fiberApp, svcs.Budgets)
	categoryweb.Routes(fiberApp, svcs.Categories)
	notificationweb.Routes(fiberApp, svcs.Notifications)

	return fiberApp
}
