package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/lor-tracker-api/internal/service"
	"github.com/noah-isme/lor-tracker-api/internal/utils"
)

// NotificationHandler exposes the in-app notification inbox.
type NotificationHandler struct {
	notifications service.NotificationService
}

// NewNotificationHandler constructs a NotificationHandler.
func NewNotificationHandler(notifications service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List returns the caller's notifications, newest first.
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return unauthorized(c)
	}

	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	items, err := h.notifications.ListForUser(c.UserContext(), p.UserID, limit, offset)
	if err != nil {
		return handleError(c, err)
	}

	return utils.OK(c, items, "notifications retrieved", fiber.Map{"count": len(items)})
}

// MarkRead marks one of the caller's notifications as read.
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := idParam(c, "id")
	if !ok {
		return badParam(c, "id")
	}

	item, err := h.notifications.MarkRead(c.UserContext(), id, p.UserID)
	if err != nil {
		return handleError(c, err)
	}

	return utils.SendSuccess(c, "notification marked as read", item)
}
