package auth_test

import (
	"context"
	"strings"
	"testing"

	auth "github.com/goliatone/go-identity"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubUsers backs the permission handlers with an in-memory record set. Only
// the lookup and permission methods are implemented; the embedded interface
// covers the rest.
type stubUsers struct {
	auth.Users
	records []*auth.User
}

func (s *stubUsers) find(match func(*auth.User) bool) (*auth.User, error) {
	for _, user := range s.records {
		if match(user) {
			return user, nil
		}
	}
	return nil, repository.NewRecordNotFound()
}

func (s *stubUsers) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	return s.find(func(u *auth.User) bool {
		return strings.EqualFold(u.Email, email)
	})
}

func (s *stubUsers) GetByUsername(ctx context.Context, username string) (*auth.User, error) {
	return s.find(func(u *auth.User) bool {
		return strings.EqualFold(u.Username, username)
	})
}

func (s *stubUsers) GrantPermission(ctx context.Context, id uuid.UUID, tag auth.Permission) (*auth.User, error) {
	user, err := s.find(func(u *auth.User) bool { return u.ID == id })
	if err != nil {
		return nil, err
	}
	return user.GrantPermission(auth.NormalizePermission(tag)), nil
}

func (s *stubUsers) RevokePermission(ctx context.Context, id uuid.UUID, tag auth.Permission) (*auth.User, error) {
	user, err := s.find(func(u *auth.User) bool { return u.ID == id })
	if err != nil {
		return nil, err
	}
	return user.RevokePermission(auth.NormalizePermission(tag)), nil
}

type stubManager struct {
	auth.RepositoryManager
	users auth.Users
}

func (s stubManager) Users() auth.Users { return s.users }

func newPermissionFixture() (*auth.User, auth.RepositoryManager) {
	user := &auth.User{
		ID:       uuid.New(),
		Username: "peperone",
		Email:    "pep@example.com",
		Enabled:  true,
	}

	return user, stubManager{users: &stubUsers{records: []*auth.User{user}}}
}

func TestPermissionHandlerGrant(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
	}{
		{name: "By email", identifier: "pep@example.com"},
		// the email lookup misses and the handler falls back to username
		{name: "By username", identifier: "peperone"},
		{name: "By username case-insensitive", identifier: "PePeRoNe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, repo := newPermissionFixture()
			handler := auth.NewPermissionHandler(repo)

			updated, err := handler.Grant(context.Background(), auth.GrantPermissionMessage{
				Identifier: tt.identifier,
				Permission: "admin",
			})

			require.NoError(t, err)
			assert.True(t, updated.IsAdmin())
			assert.True(t, user.IsAdmin())
		})
	}
}

func TestPermissionHandlerRevoke(t *testing.T) {
	user, repo := newPermissionFixture()
	user.GrantPermission(auth.PermissionAdmin)

	handler := auth.NewPermissionHandler(repo)

	updated, err := handler.Revoke(context.Background(), auth.RevokePermissionMessage{
		Identifier: "peperone",
		Permission: "admin",
	})

	require.NoError(t, err)
	assert.False(t, updated.IsAdmin())

	// revoking an absent tag stays a no-op
	updated, err = handler.Revoke(context.Background(), auth.RevokePermissionMessage{
		Identifier: "peperone",
		Permission: "admin",
	})

	require.NoError(t, err)
	assert.False(t, updated.IsAdmin())
}

func TestPermissionHandlerUnknownIdentifier(t *testing.T) {
	_, repo := newPermissionFixture()
	handler := auth.NewPermissionHandler(repo)

	_, err := handler.Grant(context.Background(), auth.GrantPermissionMessage{
		Identifier: "ghost",
		Permission: "admin",
	})

	require.Error(t, err)
	// the miss keeps its record-not-found shape so transports answer 404,
	// never a masked internal error
	assert.True(t, repository.IsRecordNotFound(err))
}
