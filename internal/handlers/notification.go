package handlers

import (
	"errors"
	"strconv"
	"time"

	"verity/internal/models"
	"verity/internal/repositories"
	"verity/internal/services/notification"
	"verity/internal/utils/pagination"
	"verity/internal/utils/response"
	"verity/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const defaultReminderDays = 7

type NotificationHandler struct {
	notifications *notification.Service
}

func NewNotificationHandler(notificationSvc *notification.Service) *NotificationHandler {
	return &NotificationHandler{notifications: notificationSvc}
}

// List returns the notification history for one tenant.
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)

	tenantID, err := strconv.ParseUint(c.Query("tenantId"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "tenantId is required")
	}

	notifications, total, err := h.notifications.List(c.Context(), uint(tenantID), p.Offset, p.Limit)
	if err != nil {
		return response.ServerError(c, "Failed to list notifications")
	}
	p.Total = total
	return c.JSON(pagination.Response(p, notifications))
}

type sendNotificationRequest struct {
	TenantID uint   `json:"tenantId" validate:"required"`
	Type     string `json:"type" validate:"required"`
	Notes    string `json:"notes"`
}

// Send dispatches a manual notification to a tenant.
func (h *NotificationHandler) Send(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req sendNotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(req); err != nil {
		return response.ValidationError(c, err.Error())
	}

	if err := h.notifications.Send(c.Context(), req.TenantID, req.Type, req.Notes, claims.Email); err != nil {
		switch {
		case errors.Is(err, notification.ErrUnknownType):
			return response.BadRequest(c, "Unknown notification type")
		case errors.Is(err, repositories.ErrTenantNotFound):
			return response.NotFound(c, "Tenant not found")
		default:
			return response.ServerError(c, "Failed to send notification")
		}
	}
	return response.Success(c, "Notification sent", nil)
}

// Reminders previews tenants whose deadline falls within the window.
func (h *NotificationHandler) Reminders(c *fiber.Ctx) error {
	days, err := strconv.Atoi(c.Query("days", strconv.Itoa(defaultReminderDays)))
	if err != nil || days < 1 {
		return response.BadRequest(c, "days must be a positive integer")
	}

	targets, err := h.notifications.Reminders(c.Context(), days, time.Now())
	if err != nil {
		return response.ServerError(c, "Failed to compute reminder targets")
	}
	return response.Success(c, "Reminder targets", targets)
}

type sendRemindersRequest struct {
	Days int `json:"days"`
}

// SendReminders dispatches deadline reminders to every tenant in the window.
func (h *NotificationHandler) SendReminders(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return response.Unauthorized(c, "")
	}

	req := sendRemindersRequest{Days: defaultReminderDays}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return response.BadRequest(c, "Invalid request body")
		}
	}
	if req.Days < 1 {
		req.Days = defaultReminderDays
	}

	sent, sendErrors := h.notifications.SendReminders(c.Context(), req.Days, claims.Email)
	failed := make([]string, 0, len(sendErrors))
	for _, sendErr := range sendErrors {
		failed = append(failed, sendErr.Error())
	}
	return response.Success(c, "Reminders dispatched", fiber.Map{
		"sent":   sent,
		"failed": failed,
	})
}
