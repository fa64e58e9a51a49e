package handlers

import (
	"strconv"
	"time"

	"verity/internal/models"
	"verity/internal/repositories"
	"verity/internal/services/audit"
	"verity/internal/utils/pagination"
	"verity/internal/utils/response"
	"verity/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type AuditHandler struct {
	audit *audit.Service
}

func NewAuditHandler(auditSvc *audit.Service) *AuditHandler {
	return &AuditHandler{audit: auditSvc}
}

// Search filters the audit trail by tenant, action and time range.
func (h *AuditHandler) Search(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)

	filter := repositories.AuditFilter{Action: c.Query("action")}
	if raw := c.Query("tenantId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return response.BadRequest(c, "Invalid tenant id")
		}
		filter.TenantID = uint(id)
	}
	if raw := c.Query("start"); raw != "" {
		start, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return response.BadRequest(c, "start must be RFC3339")
		}
		filter.Start = &start
	}
	if raw := c.Query("end"); raw != "" {
		end, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return response.BadRequest(c, "end must be RFC3339")
		}
		filter.End = &end
	}

	entries, total, err := h.audit.Query(c.Context(), filter, p.Offset, p.Limit)
	if err != nil {
		return response.ServerError(c, "Failed to search audit log")
	}
	p.Total = total
	return c.JSON(pagination.Response(p, entries))
}

type appendAuditRequest struct {
	TenantID uint        `json:"tenantId" validate:"required"`
	Action   string      `json:"action" validate:"required"`
	Details  models.JSON `json:"details"`
}

// Append writes a manual audit entry attributed to the calling admin.
func (h *AuditHandler) Append(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req appendAuditRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(req); err != nil {
		return response.ValidationError(c, err.Error())
	}

	entry, err := h.audit.Append(c.Context(), req.TenantID, req.Action, req.Details, claims.Email)
	if err != nil {
		return response.ServerError(c, "Failed to record audit entry")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Audit entry recorded",
		"data":    entry,
	})
}
