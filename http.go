package auth

import (
	"strings"

	"github.com/goliatone/go-router"
)

const authorizationHeader = "Authorization"

// TokenFromHeader extracts the bearer token from the Authorization header.
func TokenFromHeader(ctx router.Context, scheme string) (string, error) {
	if scheme == "" {
		scheme = "Bearer"
	}

	raw := ctx.Header(authorizationHeader)
	if raw == "" {
		return "", ErrTokenMalformed
	}

	parts := strings.SplitN(raw, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], scheme) || parts[1] == "" {
		return "", ErrTokenMalformed
	}

	return parts[1], nil
}

// RequireAuthenticated resolves the bearer token to a live identity and
// attaches identity + claims to the request context before handlers and
// guards run. The store is consulted on every request: a token for a
// disabled account stops working immediately.
//
// Every failure, expired token, bad signature, or dead account, produces the
// same generic response body.
func RequireAuthenticated(auther *Auther, cfg Config, logger Logger) router.MiddlewareFunc {
	if logger == nil {
		logger = defLogger{}
	}

	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			token, err := TokenFromHeader(ctx, cfg.GetAuthScheme())
			if err != nil {
				logger.Warn("missing or malformed bearer token", "path", ctx.Path())
				return unauthorized(ctx)
			}

			identity, claims, err := auther.ResolveToken(ctx.Context(), token)
			if err != nil {
				if !IsAuthFailure(err) {
					logger.Error("token resolution infrastructure failure", "error", err)
					return ctx.JSON(router.StatusInternalServerError, map[string]string{
						"error": "internal error",
					})
				}
				logger.Warn("token resolution denied", "error", err)
				return unauthorized(ctx)
			}

			reqCtx := WithIdentityContext(ctx.Context(), identity)
			reqCtx = WithClaimsContext(reqCtx, claims)
			ctx.SetContext(reqCtx)

			return next(ctx)
		}
	}
}

// GuardedBy evaluates guards against the request context; handlers behind it
// can assume every guard passed.
func GuardedBy(logger Logger, guards ...Guard) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			if err := EvaluateGuards(ctx.Context(), logger, guards...); err != nil {
				return unauthorized(ctx)
			}
			return next(ctx)
		}
	}
}

func unauthorized(ctx router.Context) error {
	return ctx.JSON(router.StatusUnauthorized, map[string]string{
		"error": GenericAuthMessage,
	})
}
