package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims represents the identity describing fields embedded in a token
type AuthClaims interface {
	Subject() string
	Email() string
	Username() string
	Permissions() []string
	HasPermission(tag Permission) bool
	IsAdmin() bool
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete implementation of AuthClaims
type JWTClaims struct {
	jwt.RegisteredClaims
	UserEmail string   `json:"email,omitempty"`
	UserName  string   `json:"username,omitempty"`
	Perms     []string `json:"perms,omitempty"`
}

// Verify interface compliance
var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// Email returns the subject's email claim
func (c *JWTClaims) Email() string {
	return c.UserEmail
}

// Username returns the subject's username claim
func (c *JWTClaims) Username() string {
	return c.UserName
}

// Permissions returns the permission tags captured at issuance. Guards that
// need a live answer re-resolve the identity instead of trusting these.
func (c *JWTClaims) Permissions() []string {
	return c.Perms
}

// HasPermission checks the issued permission set for a tag
func (c *JWTClaims) HasPermission(tag Permission) bool {
	return hasPermissionTag(c.Perms, tag)
}

// IsAdmin checks the issued permission set for the admin tag
func (c *JWTClaims) IsAdmin() bool {
	return c.HasPermission(PermissionAdmin)
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
