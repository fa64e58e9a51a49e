package models

import "github.com/golang-jwt/jwt/v5"

// Application permissions
const (
	// Tenant-facing verification permissions
	PermissionVerificationRead  = "verification:read"
	PermissionVerificationWrite = "verification:write"
	PermissionAppealWrite       = "appeal:write"

	// User permissions
	PermissionChangePassword = "user:change-password"

	// Admin permissions
	PermissionReadAdmin        = "admin:read"
	PermissionWriteAdmin       = "admin:write"
	PermissionAuditRead        = "audit:read"
	PermissionAuditWrite       = "audit:write"
	PermissionNotificationSend = "notification:send"
)

type UserClaims struct {
	jwt.RegisteredClaims
	UserID       uint     `json:"user_id"`
	TenantID     *uint    `json:"tenant_id,omitempty"`
	Email        string   `json:"email"`
	Role         string   `json:"role"`
	Permissions  []string `json:"permissions"`
	TokenVersion int      `json:"token_version"`
}

// HasPermission checks if the claims include a specific permission
func (c *UserClaims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// GetDefaultPermissions returns default permissions based on role
func GetDefaultPermissions(role string) []string {
	switch role {
	case RoleAdmin:
		return []string{
			PermissionReadAdmin,
			PermissionWriteAdmin,
			PermissionAuditRead,
			PermissionAuditWrite,
			PermissionNotificationSend,
			PermissionVerificationRead,
			PermissionVerificationWrite,
			PermissionChangePassword,
		}
	case RoleOwner:
		return []string{
			PermissionVerificationRead,
			PermissionVerificationWrite,
			PermissionAppealWrite,
			PermissionChangePassword,
		}
	default:
		return []string{}
	}
}
