package models

import "github.com/golang-jwt/jwt/v5"

// Application permissions consulted by the transport adapter.
const (
	PermissionOperationAccept = "operation:accept"
	PermissionOperationRevert = "operation:revert"
	PermissionTransferWrite   = "transfer:write"
	PermissionWalletDelete    = "wallet:delete"
)

// UserClaims carries the authenticated principal through the transport
// adapter. The engine itself only ever sees the UserID.
type UserClaims struct {
	jwt.RegisteredClaims
	UserID      string   `json:"user_id"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// HasPermission checks if the claims include a specific permission.
func (c *UserClaims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}
