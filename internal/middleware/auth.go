package middleware

import (
	"strings"

	"verity/internal/models"
	"verity/internal/repositories"
	"verity/internal/utils"
	"verity/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware validates the bearer token, checks the token version
// against the user record and stores the claims on the request context.
func AuthMiddleware(jwtSecret string, users repositories.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return response.Unauthorized(c, "Missing authorization header")
		}
		tokenStr := strings.TrimPrefix(header, "Bearer ")
		if tokenStr == header {
			return response.Unauthorized(c, "Invalid authorization header")
		}

		_, claims, err := utils.ParseToken(tokenStr, jwtSecret)
		if err != nil {
			return response.Unauthorized(c, "Invalid or expired token")
		}

		user, err := users.GetByID(claims.UserID)
		if err != nil {
			return response.Unauthorized(c, "Account not found")
		}
		if user.Status != "active" {
			return response.Forbidden(c, "Account suspended")
		}
		if user.TokenVersion != claims.TokenVersion {
			return response.Unauthorized(c, "Token has been revoked")
		}

		c.Locals("claims", claims)
		return c.Next()
	}
}

// RequirePermission gates a route on a single permission string.
func RequirePermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("claims").(*models.UserClaims)
		if !ok {
			return response.Unauthorized(c, "Authentication required")
		}
		if !claims.HasPermission(permission) {
			return response.Forbidden(c, "Insufficient permissions")
		}
		return c.Next()
	}
}

// RequireAdmin restricts a route group to platform administrators.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("claims").(*models.UserClaims)
		if !ok {
			return response.Unauthorized(c, "Authentication required")
		}
		if claims.Role != models.RoleAdmin {
			return response.Forbidden(c, "Admin access required")
		}
		return c.Next()
	}
}

// TenantFromClaims extracts the caller's tenant from the request claims.
func TenantFromClaims(c *fiber.Ctx) (uint, *models.UserClaims, bool) {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok || claims.TenantID == nil {
		return 0, claims, false
	}
	return *claims.TenantID, claims, true
}
