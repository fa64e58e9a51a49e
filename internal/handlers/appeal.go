package handlers

import (
	"errors"
	"strconv"

	"verity/internal/middleware"
	"verity/internal/models"
	"verity/internal/repositories"
	"verity/internal/services/appeal"
	"verity/internal/utils/pagination"
	"verity/internal/utils/response"
	"verity/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type AppealHandler struct {
	appeals *appeal.Service
}

func NewAppealHandler(appealSvc *appeal.Service) *AppealHandler {
	return &AppealHandler{appeals: appealSvc}
}

type submitAppealRequest struct {
	Reason              string   `json:"reason" validate:"required"`
	SupportingDocuments []string `json:"supportingDocuments"`
}

// Submit files an appeal against the tenant's latest adverse decision.
func (h *AppealHandler) Submit(c *fiber.Ctx) error {
	tenantID, claims, ok := middleware.TenantFromClaims(c)
	if !ok {
		return response.Forbidden(c, "No tenant associated with this account")
	}

	var req submitAppealRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(req); err != nil {
		return response.ValidationError(c, err.Error())
	}

	created, err := h.appeals.Submit(c.Context(), tenantID, claims.Email, req.Reason, req.SupportingDocuments)
	if err != nil {
		switch {
		case errors.Is(err, appeal.ErrReasonTooShort):
			return response.BadRequest(c, "Appeal reason must be at least 50 characters")
		case errors.Is(err, appeal.ErrAppealNotAllowed):
			return response.BadRequest(c, "Appeals are only accepted after an adverse decision")
		case errors.Is(err, appeal.ErrAppealPending):
			return response.BadRequest(c, "An appeal is already pending for this tenant")
		case errors.Is(err, repositories.ErrTenantNotFound):
			return response.NotFound(c, "Tenant not found")
		default:
			return response.ServerError(c, "Failed to submit appeal")
		}
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Appeal submitted",
		"data":    created,
	})
}

// Latest returns the tenant's most recent appeal.
func (h *AppealHandler) Latest(c *fiber.Ctx) error {
	tenantID, _, ok := middleware.TenantFromClaims(c)
	if !ok {
		return response.Forbidden(c, "No tenant associated with this account")
	}

	latest, err := h.appeals.Latest(c.Context(), tenantID)
	if err != nil {
		if errors.Is(err, repositories.ErrAppealNotFound) {
			return response.NotFound(c, "No appeal on file")
		}
		return response.ServerError(c, "Failed to load appeal")
	}
	return response.Success(c, "Latest appeal", latest)
}

// List returns appeals for admin review, optionally filtered by status.
func (h *AppealHandler) List(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	status := c.Query("status", models.AppealPending)

	appeals, total, err := h.appeals.List(c.Context(), status, p.Offset, p.Limit)
	if err != nil {
		return response.ServerError(c, "Failed to list appeals")
	}
	p.Total = total
	return c.JSON(pagination.Response(p, appeals))
}

type reviewAppealRequest struct {
	Decision string `json:"decision" validate:"required,oneof=APPROVED REJECTED"`
	Notes    string `json:"notes"`
}

// Review resolves a pending appeal.
func (h *AppealHandler) Review(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return response.Unauthorized(c, "")
	}

	appealID, err := strconv.ParseUint(c.Params("appealId"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid appeal id")
	}

	var req reviewAppealRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(req); err != nil {
		return response.ValidationError(c, err.Error())
	}

	reviewed, err := h.appeals.Review(c.Context(), uint(appealID), claims.Email, req.Decision, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrAppealNotFound):
			return response.NotFound(c, "Appeal not found")
		case errors.Is(err, appeal.ErrAppealClosed):
			return response.Error(c, fiber.StatusConflict, "Appeal has already been reviewed")
		case errors.Is(err, appeal.ErrInvalidDecision):
			return response.BadRequest(c, "Decision must be APPROVED or REJECTED")
		case errors.Is(err, appeal.ErrNotesRequired):
			return response.BadRequest(c, "Review notes are required when rejecting an appeal")
		default:
			return response.ServerError(c, "Failed to review appeal")
		}
	}
	return response.Success(c, "Appeal reviewed", reviewed)
}
