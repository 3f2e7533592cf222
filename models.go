package auth

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Permission is a string tag granting elevated capability
type Permission = string

// PermissionAdmin is the distinguished tag granting elevated access
const PermissionAdmin Permission = "admin"

// User is the user model. Email and username are unique case-insensitively,
// and PasswordHash only ever holds a bcrypt digest once the record persists.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	FirstName     string     `bun:"first_name" json:"first_name,omitempty"`
	LastName      string     `bun:"last_name" json:"last_name,omitempty"`
	Username      string     `bun:"username,notnull,unique" json:"username,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Phone         string     `bun:"phone_number" json:"phone_number,omitempty"`
	Position      string     `bun:"position" json:"position,omitempty"`
	Avatar        string     `bun:"avatar" json:"avatar,omitempty"`
	Website       string     `bun:"website" json:"website,omitempty"`
	Bio           string     `bun:"bio" json:"bio,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	Permissions   []string   `bun:"permissions,type:jsonb" json:"permissions,omitempty"`
	Enabled       bool       `bun:"enabled,notnull,default:true" json:"enabled"`
	LastSeenAt    *time.Time `bun:"last_seen_at,nullzero" json:"last_seen_at,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// HasPermission reports whether the user's permission set holds the tag.
func (u *User) HasPermission(tag Permission) bool {
	return hasPermissionTag(u.Permissions, tag)
}

// IsAdmin reports whether the user carries the admin permission.
func (u *User) IsAdmin() bool {
	return u.HasPermission(PermissionAdmin)
}

// GrantPermission adds a tag to the in-memory permission set. Granting an
// already held permission is a no-op.
func (u *User) GrantPermission(tag Permission) *User {
	if !u.HasPermission(tag) {
		u.Permissions = append(u.Permissions, tag)
	}
	return u
}

// RevokePermission removes a tag from the in-memory permission set. Revoking
// an absent permission is a no-op.
func (u *User) RevokePermission(tag Permission) *User {
	u.Permissions = removePermissionTag(u.Permissions, tag)
	return u
}

// MatchesIdentifier reports whether the value equals the user's username or
// email, compared case-insensitively.
func (u *User) MatchesIdentifier(value string) bool {
	if value == "" {
		return false
	}
	return strings.EqualFold(u.Username, value) || strings.EqualFold(u.Email, value)
}

// UserFollow is a social graph edge: user_id follows follows_id. The
// composite unique index keeps edge add/remove idempotent at the store level.
type UserFollow struct {
	bun.BaseModel `bun:"table:user_follows,alias:uf"`
	UserID        uuid.UUID  `bun:"user_id,pk,type:uuid" json:"user_id"`
	FollowsID     uuid.UUID  `bun:"follows_id,pk,type:uuid" json:"follows_id"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}
