package handlers

import (
	"errors"
	"log"
	"strconv"

	"verity/internal/models"
	"verity/internal/repositories"
	"verity/internal/services/notification"
	"verity/internal/services/tenant"
	"verity/internal/services/verification"
	"verity/internal/utils/pagination"
	"verity/internal/utils/response"
	"verity/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	tenants       *tenant.Service
	verification  *verification.Service
	notifications *notification.Service
}

func NewAdminHandler(tenantSvc *tenant.Service, verificationSvc *verification.Service, notificationSvc *notification.Service) *AdminHandler {
	return &AdminHandler{
		tenants:       tenantSvc,
		verification:  verificationSvc,
		notifications: notificationSvc,
	}
}

// Queue lists tenants awaiting review, newest deadline first.
func (h *AdminHandler) Queue(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	status := c.Query("status", models.StatusUnderReview)

	tenants, total, err := h.tenants.Queue(c.Context(), status, p.Offset, p.Limit)
	if err != nil {
		return response.ServerError(c, "Failed to load review queue")
	}
	p.Total = total
	return c.JSON(pagination.Response(p, tenants))
}

type reviewRequest struct {
	Action string `json:"action" validate:"required,oneof=APPROVE REJECT REQUIRES_MORE_INFO"`
	Notes  string `json:"notes"`
}

// Review applies an eligibility decision to a tenant and notifies it.
// Notification failures are logged, not surfaced; the decision stands.
func (h *AdminHandler) Review(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return response.Unauthorized(c, "")
	}

	tenantID, err := strconv.ParseUint(c.Params("tenantId"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid tenant id")
	}

	var req reviewRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(req); err != nil {
		return response.ValidationError(c, err.Error())
	}

	reviewed, err := h.verification.Review(c.Context(), uint(tenantID), req.Action, req.Notes, claims.Email)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrTenantNotFound):
			return response.NotFound(c, "Tenant not found")
		case errors.Is(err, verification.ErrInvalidTransition):
			return response.BadRequest(c, "Decision is not valid for the tenant's current status")
		case errors.Is(err, verification.ErrInvalidAction):
			return response.BadRequest(c, "Unknown review action")
		default:
			return response.ServerError(c, "Failed to apply review")
		}
	}

	notificationType := map[string]string{
		verification.ActionApprove:          models.NotificationApproved,
		verification.ActionReject:           models.NotificationRejected,
		verification.ActionRequiresMoreInfo: models.NotificationRequiresMoreInfo,
	}[req.Action]
	if err := h.notifications.Send(c.Context(), reviewed.ID, notificationType, req.Notes, claims.Email); err != nil {
		log.Printf("⚠️ review notification for tenant %d failed: %v", reviewed.ID, err)
	}

	return response.Success(c, "Review applied", reviewed)
}
