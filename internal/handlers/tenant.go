package handlers

import (
	"errors"

	"verity/internal/middleware"
	"verity/internal/repositories"
	"verity/internal/services/tenant"
	"verity/internal/utils/response"
	"verity/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type TenantHandler struct {
	tenants *tenant.Service
}

func NewTenantHandler(tenantSvc *tenant.Service) *TenantHandler {
	return &TenantHandler{tenants: tenantSvc}
}

// Register onboards a new institution with its owner account.
func (h *TenantHandler) Register(c *fiber.Ctx) error {
	var req tenant.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(req); err != nil {
		return response.ValidationError(c, err.Error())
	}
	if !validation.HasSpecialChar(req.Password) {
		return response.ValidationError(c, "Password must contain at least one special character")
	}

	created, owner, err := h.tenants.Register(c.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, tenant.ErrSlugTaken):
			return response.Error(c, fiber.StatusConflict, "Slug already in use")
		case errors.Is(err, tenant.ErrEmailTaken):
			return response.Error(c, fiber.StatusConflict, "Email already registered")
		default:
			return response.ServerError(c, "Registration failed")
		}
	}

	owner.Password = ""
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registration successful, verification window started",
		"data": fiber.Map{
			"tenant": created,
			"owner":  owner,
		},
	})
}

// FeatureAccess reports the caller's current access level and warnings.
func (h *TenantHandler) FeatureAccess(c *fiber.Ctx) error {
	tenantID, _, ok := middleware.TenantFromClaims(c)
	if !ok {
		return response.Forbidden(c, "No tenant associated with this account")
	}

	snapshot, err := h.tenants.Access(c.Context(), tenantID)
	if err != nil {
		if errors.Is(err, repositories.ErrTenantNotFound) {
			return response.NotFound(c, "Tenant not found")
		}
		return response.ServerError(c, "Failed to evaluate access")
	}
	return response.Success(c, "Access evaluated", snapshot)
}

// VerificationStatus returns the tenant's eligibility state and documents.
func (h *TenantHandler) VerificationStatus(c *fiber.Ctx) error {
	tenantID, _, ok := middleware.TenantFromClaims(c)
	if !ok {
		return response.Forbidden(c, "No tenant associated with this account")
	}

	status, err := h.tenants.Status(c.Context(), tenantID)
	if err != nil {
		if errors.Is(err, repositories.ErrTenantNotFound) {
			return response.NotFound(c, "Tenant not found")
		}
		return response.ServerError(c, "Failed to load verification status")
	}
	return response.Success(c, "Verification status", status)
}
