package auth

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// AccountRegistrerer is the interface we need to handle new user registrations
type AccountRegistrerer interface {
	Execute(ctx context.Context, event RegisterUserMessage) (*User, error)
}

// UserStore is the read/track surface the credential validator and the token
// resolver need. Absence is a not-found error value, distinct from store
// failures which propagate as infrastructure errors.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	TrackLastSeen(ctx context.Context, user *User) error
}

// UserProvider handles users
type UserProvider struct {
	store  UserStore
	logger Logger
}

// NewUserProvider will create a new UserProvider
func NewUserProvider(store UserStore) *UserProvider {
	return &UserProvider{
		store:  store,
		logger: defLogger{},
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	u.logger = l
	return u
}

// VerifyIdentity will find the user by email, compare the password, and
// return the identity. Unknown email, a disabled account, a wrong password,
// and a hashing fault are indistinguishable to the caller: all return
// ErrMismatchedHashAndPassword. Only store failures propagate distinctly.
func (u *UserProvider) VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error) {
	user, err := u.store.GetByEmail(ctx, identifier)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrMismatchedHashAndPassword
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	if user == nil || !user.Enabled {
		// Disabled accounts fail exactly like unknown ones; the token would
		// not resolve anyway.
		return nil, ErrMismatchedHashAndPassword
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, ErrMismatchedHashAndPassword
	}

	if err := u.store.TrackLastSeen(ctx, user); err != nil {
		u.logger.Error("failed to track last seen", "error", err)
	}

	return identityFromUser(user), nil
}

// FindIdentityByIdentifier resolves a live identity for an already validated
// token claim. The record is re-read and the enabled flag re-checked on every
// call, and last-seen is refreshed on success.
func (u *UserProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (Identity, error) {
	user, err := u.findUser(ctx, identifier)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during resolution")
	}

	if user == nil || !user.Enabled {
		return nil, ErrIdentityNotFound
	}

	if err := u.store.TrackLastSeen(ctx, user); err != nil {
		u.logger.Error("failed to track last seen", "error", err)
	}

	return identityFromUser(user), nil
}

func (u *UserProvider) findUser(ctx context.Context, identifier string) (*User, error) {
	user, err := u.store.GetByEmail(ctx, identifier)
	if err == nil {
		return user, nil
	}

	if !repository.IsRecordNotFound(err) {
		return nil, err
	}

	return u.store.GetByUsername(ctx, identifier)
}

type authIdentity struct {
	id          string
	username    string
	email       string
	permissions []string
}

func identityFromUser(user *User) authIdentity {
	return authIdentity{
		id:          user.ID.String(),
		username:    user.Username,
		email:       user.Email,
		permissions: append([]string(nil), user.Permissions...),
	}
}

func (a authIdentity) ID() string {
	return a.id
}

func (a authIdentity) Username() string {
	return a.username
}

func (a authIdentity) Email() string {
	return a.email
}

func (a authIdentity) Permissions() []string {
	return a.permissions
}

var _ Identity = authIdentity{}
