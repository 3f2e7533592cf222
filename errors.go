package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeInvalidCredentials = "auth_invalid_credentials"
	TextCodeIdentityNotFound   = "auth_identity_not_found"
	TextCodeTokenExpired       = "auth_token_expired"
	TextCodeTokenMalformed     = "auth_token_malformed"
	TextCodeAccessDenied       = "auth_access_denied"
	TextCodeEmptyPassword      = "auth_empty_password"
)

// GenericAuthMessage is the single user visible message for every security
// failure. Bad credentials, bad tokens, and missing permissions all read the
// same so callers cannot probe which check failed or whether an account exists.
const GenericAuthMessage = "Could not authenticate with the provided credentials"

// ErrMismatchedHashAndPassword covers unknown email, disabled account, and
// wrong password alike.
var ErrMismatchedHashAndPassword = errors.New(GenericAuthMessage, errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrIdentityNotFound is returned when token resolution finds no live,
// enabled account behind a valid token.
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryAuth).
	WithTextCode(TextCodeIdentityNotFound).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned for correctly signed tokens past their lifetime.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned for tokens that fail signature or shape checks.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrCouldNotAuthenticate is the only error guards ever return. The denial
// reason is logged, never surfaced.
var ErrCouldNotAuthenticate = errors.New(GenericAuthMessage, errors.CategoryAuthz).
	WithTextCode(TextCodeAccessDenied).
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString rejects empty passwords before they reach bcrypt
var ErrNoEmptyString = errors.New("value must not be empty", errors.CategoryBadInput).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(errors.CodeBadRequest)

// IsAuthFailure reports whether err is a security failure that should map to
// the generic authentication message. Infrastructure failures return false
// and must be surfaced distinctly.
func IsAuthFailure(err error) bool {
	if err == nil {
		return false
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr.Category == errors.CategoryAuth ||
			richErr.Category == errors.CategoryAuthz
	}

	return false
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrTokenExpired) ||
		strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrTokenMalformed) ||
		strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
