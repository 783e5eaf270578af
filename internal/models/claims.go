package models

import "github.com/golang-jwt/jwt/v5"

// Application permissions
const (
	// Admin permissions
	PermissionReadAdmin  = "admin:read"
	PermissionWriteAdmin = "admin:write"

	// Verification permissions
	PermissionVerificationSubmit = "verification:submit"
	PermissionVerificationRead   = "verification:read"
	PermissionVerificationReview = "verification:review"
)

// UserClaims is the principal handed to us by the external identity
// provider. This service never checks credentials itself; it only verifies
// and reads the provider's token.
type UserClaims struct {
	jwt.RegisteredClaims
	UserID        uint     `json:"user_id"`
	Email         string   `json:"email"`
	EmailVerified bool     `json:"email_verified"`
	Role          Role     `json:"role"`
	Permissions   []string `json:"permissions"`
	TokenVersion  int      `json:"token_version"`
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
func GetDefaultPermissions(role Role) []string {
	if role == RoleAdmin {
		return []string{
			PermissionReadAdmin,
			PermissionWriteAdmin,
			PermissionVerificationRead,
			PermissionVerificationReview,
		}
	}
	if role.Verifiable() {
		return []string{
			PermissionVerificationSubmit,
			PermissionVerificationRead,
		}
	}
	return []string{}
}
