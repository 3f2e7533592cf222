package auth

import (
	"context"

	"github.com/goliatone/go-repository-bun"
)

type GrantPermissionMessage struct {
	Identifier string `json:"identifier"`
	Permission string `json:"permission"`
}

func (e GrantPermissionMessage) Type() string { return "user.permission.grant" }

type RevokePermissionMessage struct {
	Identifier string `json:"identifier"`
	Permission string `json:"permission"`
}

func (e RevokePermissionMessage) Type() string { return "user.permission.revoke" }

// PermissionHandler applies grant/revoke mutations to a user's permission
// set. Both operations are idempotent: granting a held tag or revoking an
// absent one leaves the record unchanged.
type PermissionHandler struct {
	repo RepositoryManager
}

func NewPermissionHandler(repo RepositoryManager) *PermissionHandler {
	return &PermissionHandler{repo: repo}
}

func (h *PermissionHandler) Grant(ctx context.Context, event GrantPermissionMessage) (*User, error) {
	user, err := h.lookup(ctx, event.Identifier)
	if err != nil {
		return nil, err
	}

	return h.repo.Users().GrantPermission(ctx, user.ID, event.Permission)
}

func (h *PermissionHandler) Revoke(ctx context.Context, event RevokePermissionMessage) (*User, error) {
	user, err := h.lookup(ctx, event.Identifier)
	if err != nil {
		return nil, err
	}

	return h.repo.Users().RevokePermission(ctx, user.ID, event.Permission)
}

func (h *PermissionHandler) lookup(ctx context.Context, identifier string) (*User, error) {
	users := h.repo.Users()

	user, err := users.GetByEmail(ctx, identifier)
	if err == nil {
		return user, nil
	}

	if !repository.IsRecordNotFound(err) {
		return nil, err
	}

	return users.GetByUsername(ctx, identifier)
}
