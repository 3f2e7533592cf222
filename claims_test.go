package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	auth "github.com/goliatone/go-identity"
	"github.com/stretchr/testify/assert"
)

func TestJWTClaimsAccessors(t *testing.T) {
	issued := time.Now().Truncate(time.Second)
	expires := issued.Add(time.Hour)

	claims := &auth.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "f3c1b9a2-0000-4000-8000-000000000001",
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		UserEmail: "pep@example.com",
		UserName:  "peperone",
		Perms:     []string{"user", "admin"},
	}

	assert.Equal(t, "f3c1b9a2-0000-4000-8000-000000000001", claims.Subject())
	assert.Equal(t, "pep@example.com", claims.Email())
	assert.Equal(t, "peperone", claims.Username())
	assert.Equal(t, []string{"user", "admin"}, claims.Permissions())
	assert.Equal(t, issued, claims.IssuedAt())
	assert.Equal(t, expires, claims.Expires())

	assert.True(t, claims.HasPermission("user"))
	assert.False(t, claims.HasPermission("root"))
	assert.True(t, claims.IsAdmin())
}

func TestJWTClaimsZeroTimes(t *testing.T) {
	claims := &auth.JWTClaims{}

	assert.True(t, claims.Expires().IsZero())
	assert.True(t, claims.IssuedAt().IsZero())
	assert.False(t, claims.IsAdmin())
	assert.Empty(t, claims.Permissions())
}
