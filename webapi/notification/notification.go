// Package notification exposes the HTTP endpoints for reading and
// acknowledging notifications.
package notification

import (
	"github.com/gofiber/fiber/v2"

	notificationsvc "github.com/pennywiseapp/pennywise/pkg/service/notification"
	"github.com/pennywiseapp/pennywise/webapi/common"
)

// Routes registers the notification endpoints.
func Routes(app *fiber.App, svc *notificationsvc.Service) {
	group := app.Group("/notifications", common.RequireUserID())
	group.Get("/", List(svc))
	group.Post("/read-all", MarkAllRead(svc))
	group.Post("/:id/read", MarkRead(svc))
}

// List handles GET /notifications. Pass unread=true to only see
// unacknowledged ones.
func List(svc *notificationsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		unreadOnly := c.QueryBool("unread", false)
		reads, err := svc.ListNotifications(c.UserContext(), common.UserID(c), unreadOnly)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Notifications retrieved", reads)
	}
}

// MarkRead handles POST /notifications/:id/read.
func MarkRead(svc *notificationsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := common.ParseIDParam(c, "id")
		if err != nil {
			return nil
		}
		current, err := svc.GetNotification(c.UserContext(), id)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		if current.UserID != common.UserID(c) {
			return common.ErrorResponseJSON(c, fiber.StatusForbidden, "Forbidden", "notification belongs to another user")
		}
		if err = svc.MarkRead(c.UserContext(), id); err != nil {
			return common.ProblemFromError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Notification marked read", nil)
	}
}

// MarkAllRead handles POST /notifications/read-all.
func MarkAllRead(svc *notificationsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.MarkAllRead(c.UserContext(), common.UserID(c)); err != nil {
			return common.ProblemFromError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Notifications marked read", nil)
	}
}
