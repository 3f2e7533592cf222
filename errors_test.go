package auth_test

import (
	goerr "errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	auth "github.com/goliatone/go-identity"
	"github.com/stretchr/testify/assert"
)

func TestIsAuthFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "Nil error", err: nil, want: false},
		{name: "Credential mismatch", err: auth.ErrMismatchedHashAndPassword, want: true},
		{name: "Identity not found", err: auth.ErrIdentityNotFound, want: true},
		{name: "Expired token", err: auth.ErrTokenExpired, want: true},
		{name: "Malformed token", err: auth.ErrTokenMalformed, want: true},
		{name: "Guard denial", err: auth.ErrCouldNotAuthenticate, want: true},
		{
			name: "Wrapped auth failure",
			err:  goerrors.Wrap(auth.ErrTokenExpired, goerrors.CategoryAuth, "validating bearer token"),
			want: true,
		},
		{
			name: "Infrastructure failure",
			err:  goerrors.New("connection refused", goerrors.CategoryOperation),
			want: false,
		},
		{name: "Plain error", err: goerr.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, auth.IsAuthFailure(tt.err))
		})
	}
}

func TestSecurityFailuresShareOneMessage(t *testing.T) {
	// credential failures and guard denials read identically so callers
	// cannot probe which check rejected them
	assert.Equal(t, auth.GenericAuthMessage, auth.ErrMismatchedHashAndPassword.Message)
	assert.Equal(t, auth.GenericAuthMessage, auth.ErrCouldNotAuthenticate.Message)
}

func TestIsTokenExpiredError(t *testing.T) {
	assert.False(t, auth.IsTokenExpiredError(nil))
	assert.True(t, auth.IsTokenExpiredError(auth.ErrTokenExpired))
	assert.True(t, auth.IsTokenExpiredError(goerr.New("jwt: token is expired")))
	assert.False(t, auth.IsTokenExpiredError(goerr.New("boom")))
}

func TestIsMalformedError(t *testing.T) {
	assert.False(t, auth.IsMalformedError(nil))
	assert.True(t, auth.IsMalformedError(auth.ErrTokenMalformed))
	assert.True(t, auth.IsMalformedError(goerr.New("missing or malformed JWT")))
	assert.False(t, auth.IsMalformedError(goerr.New("boom")))
}
