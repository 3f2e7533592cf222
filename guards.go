package auth

import (
	"context"
	"strings"
)

// Guard reason codes. These are for logs only; callers always receive
// ErrCouldNotAuthenticate regardless of which check denied.
const (
	GuardReasonIdentityMissing   = "identity_missing"
	GuardReasonPermissionMissing = "permission_missing"
	GuardReasonTargetMismatch    = "target_mismatch"
)

// GuardResult is a single predicate outcome. Reason is only populated on
// denial.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Guard is a policy predicate gating an operation based on the identity
// resolved into the request context.
type Guard func(ctx context.Context) GuardResult

func allow() GuardResult {
	return GuardResult{Allowed: true}
}

func deny(reason string) GuardResult {
	return GuardResult{Reason: reason}
}

// Authenticated passes iff identity resolution succeeded for this request.
func Authenticated() Guard {
	return func(ctx context.Context) GuardResult {
		if _, ok := IdentityFromContext(ctx); !ok {
			return deny(GuardReasonIdentityMissing)
		}
		return allow()
	}
}

// Admin passes iff the resolved identity carries the admin permission.
func Admin() Guard {
	return func(ctx context.Context) GuardResult {
		identity, ok := IdentityFromContext(ctx)
		if !ok {
			return deny(GuardReasonIdentityMissing)
		}
		if !IsAdminPermissionSet(identity.Permissions()) {
			return deny(GuardReasonPermissionMissing)
		}
		return allow()
	}
}

// SelfOrAdmin passes when the operation declared no target, when the target
// matches the resolved identity's own username or email case-insensitively,
// or when the identity is an admin.
func SelfOrAdmin(target string) Guard {
	return func(ctx context.Context) GuardResult {
		identity, ok := IdentityFromContext(ctx)
		if !ok {
			return deny(GuardReasonIdentityMissing)
		}

		if target == "" {
			// Operation is self-scoped by default.
			return allow()
		}

		if strings.EqualFold(identity.Username(), target) ||
			strings.EqualFold(identity.Email(), target) {
			return allow()
		}

		if IsAdminPermissionSet(identity.Permissions()) {
			return allow()
		}

		return deny(GuardReasonTargetMismatch)
	}
}

// EvaluateGuards runs guards in order and short-circuits on the first
// denial. The denial reason is logged and never surfaced: every failure maps
// to the same ErrCouldNotAuthenticate.
func EvaluateGuards(ctx context.Context, logger Logger, guards ...Guard) error {
	if logger == nil {
		logger = defLogger{}
	}

	for _, guard := range guards {
		if guard == nil {
			continue
		}
		if result := guard(ctx); !result.Allowed {
			logger.Warn("guard denied request", "reason", result.Reason)
			return ErrCouldNotAuthenticate
		}
	}

	return nil
}
