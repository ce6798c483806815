package rbac

import (
	"context"
	"errors"

	"arc-staff-portal/internal/server/middleware"
)

var (
	// ErrUnauthenticated means no verified identity was found in context.
	ErrUnauthenticated = errors.New("authenticated session required")
	// ErrForbidden means the caller is authenticated but not a provisioned admin.
	ErrForbidden = errors.New("admin privilege required")
	// ErrLookupFailed means the directory could not be consulted; callers fail closed.
	ErrLookupFailed = errors.New("failed to resolve admin privilege")
)

// ElevationChecker reports whether a principal is a provisioned IT admin.
type ElevationChecker interface {
	IsElevated(ctx context.Context, principalID string) (bool, error)
}

// RequireAdmin ensures the caller's session carries the admin claim AND the
// directory still lists them as a provisioned admin. The claim check is cheap
// but can be stale after revocation; the directory check is authoritative.
// Both must pass before any privileged mutation.
// Returns the caller uid on success.
func RequireAdmin(ctx context.Context, checker ElevationChecker) (string, error) {
	uid, ok := middleware.GetUID(ctx)
	if !ok || uid == "" {
		return "", ErrUnauthenticated
	}
	if !middleware.IsAdmin(ctx) {
		return "", ErrForbidden
	}
	elevated, err := checker.IsElevated(ctx, uid)
	if err != nil {
		return "", ErrLookupFailed
	}
	if !elevated {
		return "", ErrForbidden
	}
	return uid, nil
}
