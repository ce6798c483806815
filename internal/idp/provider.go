// Package idp is the portal's identity provider: it owns account records, mints
// and verifies the ID, custom, and session tokens, and tracks session revocation.
// The rest of the portal talks to it through the Provider interface so tests can
// substitute a fake.
package idp

import (
	"context"
	"errors"
	"time"

	"arc-staff-portal/internal/idp/domain"
)

// Sentinel errors. Handlers map these to HTTP status codes; the route gate
// collapses all of them into a uniform redirect.
var (
	// ErrInvalidCredentials covers unknown email and wrong password alike; callers
	// must not reveal which one failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated is returned for an invalid or expired identity assertion.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrSessionExpired is returned when a session artifact is past its expiry.
	ErrSessionExpired = errors.New("session expired")
	// ErrSessionRevoked is returned when the session was revoked (forced logout).
	ErrSessionRevoked = errors.New("session revoked")
	// ErrSessionMalformed is returned for any structural or signature failure.
	ErrSessionMalformed = errors.New("session malformed")
	// ErrUserNotFound is returned when the referenced account does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailExists is returned when creating an account with an email already in use.
	ErrEmailExists = errors.New("email already in use")
)

// Identity is a verified principal: the uid plus the claim set captured at token
// issuance. SessionID is set only when the identity came from a session artifact.
type Identity struct {
	UID       string
	Email     string
	Name      string
	Admin     bool
	SessionID string
	ExpiresAt time.Time
}

// NewAccountParams describes an account to provision.
type NewAccountParams struct {
	UID         string // empty: provider assigns a random uid
	Email       string
	Password    string // empty: no password login (IT-admin accounts)
	DisplayName string
	Admin       bool
}

// Provider is the identity-provider surface the portal depends on. Verification
// methods are pure reads; re-verifying the same artifact yields the same identity.
type Provider interface {
	// SignInWithPassword exchanges email+password for a short-lived ID token.
	// Fails with ErrInvalidCredentials for unknown email, wrong password, or a
	// disabled account, without distinguishing them.
	SignInWithPassword(ctx context.Context, email, password string) (idToken string, err error)

	// CreateCustomToken mints a bootstrap token for the given uid. Fails with
	// ErrUserNotFound if the account is not provisioned.
	CreateCustomToken(ctx context.Context, uid string) (string, error)

	// VerifyIDToken verifies a fresh identity assertion (ID or custom token).
	// Fails with ErrUnauthenticated. Does not grant access to protected routes.
	VerifyIDToken(ctx context.Context, idToken string) (*Identity, error)

	// CreateSessionCookie exchanges a verified ID token for a session artifact
	// with the provider's session validity window.
	CreateSessionCookie(ctx context.Context, idToken, ip string) (cookie string, expiresAt time.Time, err error)

	// VerifySessionCookie verifies a session artifact. With checkRevoked it also
	// consults the session store for the revocation flag. Fails with
	// ErrSessionExpired, ErrSessionRevoked, or ErrSessionMalformed.
	VerifySessionCookie(ctx context.Context, cookie string, checkRevoked bool) (*Identity, error)

	// RevokeSession revokes the session behind the given artifact. Revoking an
	// invalid or already revoked artifact is a no-op.
	RevokeSession(ctx context.Context, cookie string) error

	// RevokeAllSessions revokes every session of the account (forced logout).
	RevokeAllSessions(ctx context.Context, uid string) error

	// GetAccount returns the account for uid, or ErrUserNotFound.
	GetAccount(ctx context.Context, uid string) (*domain.Account, error)

	// CreateAccount provisions an account. Fails with ErrEmailExists on a
	// duplicate email.
	CreateAccount(ctx context.Context, p NewAccountParams) (*domain.Account, error)

	// SetAdminClaim changes the elevated claim recorded on the account. Sessions
	// already issued keep their claim set; callers revoke them when demoting.
	SetAdminClaim(ctx context.Context, uid string, admin bool) error

	// DeleteAccount removes the account and cascades its sessions.
	DeleteAccount(ctx context.Context, uid string) error

	// SessionTTL is the validity window of session artifacts; the cookie's
	// Max-Age must match it.
	SessionTTL() time.Duration
}
