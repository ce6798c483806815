package idp

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"arc-staff-portal/internal/idp/domain"
	"arc-staff-portal/internal/idp/repository"
	"arc-staff-portal/internal/security"
	sessiondomain "arc-staff-portal/internal/session/domain"
	sessionrepo "arc-staff-portal/internal/session/repository"
)

const pgUniqueViolation = "23505"

// LocalProvider implements Provider against the portal's own account store,
// token service, and session table. Construct one per process and share it;
// it holds no per-request state.
type LocalProvider struct {
	accounts repository.Repository
	sessions sessionrepo.Repository
	tokens   *security.TokenProvider
	hasher   *security.Hasher
}

// NewLocalProvider returns a LocalProvider with the given dependencies.
func NewLocalProvider(accounts repository.Repository, sessions sessionrepo.Repository, tokens *security.TokenProvider, hasher *security.Hasher) *LocalProvider {
	return &LocalProvider{
		accounts: accounts,
		sessions: sessions,
		tokens:   tokens,
		hasher:   hasher,
	}
}

// SessionTTL returns the session artifact validity window.
func (p *LocalProvider) SessionTTL() time.Duration { return p.tokens.SessionTTL() }

// SignInWithPassword verifies email+password and mints an ID token. Unknown email,
// wrong password, a passwordless account, and a disabled account all surface as
// ErrInvalidCredentials.
func (p *LocalProvider) SignInWithPassword(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return "", ErrInvalidCredentials
	}
	account, err := p.accounts.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if account == nil || account.Disabled || account.PasswordHash == "" {
		return "", ErrInvalidCredentials
	}
	if err := p.hasher.Compare(account.PasswordHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	token, _, err := p.tokens.IssueIDToken(account.UID, account.Email, account.DisplayName, account.Admin)
	return token, err
}

// CreateCustomToken mints a bootstrap token for uid. The admin claim is read from
// the account record at mint time, never from the caller.
func (p *LocalProvider) CreateCustomToken(ctx context.Context, uid string) (string, error) {
	account, err := p.accounts.GetByUID(ctx, uid)
	if err != nil {
		return "", err
	}
	if account == nil || account.Disabled {
		return "", ErrUserNotFound
	}
	token, _, err := p.tokens.IssueCustomToken(account.UID, account.Admin)
	return token, err
}

// VerifyIDToken verifies a fresh identity assertion. Pure read.
func (p *LocalProvider) VerifyIDToken(ctx context.Context, idToken string) (*Identity, error) {
	id, err := p.tokens.ValidateIDToken(idToken)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	return tokenIdentity(id), nil
}

// CreateSessionCookie exchanges a valid ID token for a session artifact: a new
// session row plus a session JWT bound to it.
func (p *LocalProvider) CreateSessionCookie(ctx context.Context, idToken, ip string) (string, time.Time, error) {
	id, err := p.tokens.ValidateIDToken(idToken)
	if err != nil {
		return "", time.Time{}, ErrUnauthenticated
	}

	// Custom tokens carry no profile claims; fill them from the account so the
	// session claim set is complete at issuance.
	email, name, admin := id.Email, id.Name, id.Admin
	account, err := p.accounts.GetByUID(ctx, id.UID)
	if err != nil {
		return "", time.Time{}, err
	}
	if account == nil || account.Disabled {
		return "", time.Time{}, ErrUnauthenticated
	}
	email = account.Email
	name = account.DisplayName
	admin = account.Admin

	now := time.Now().UTC()
	sess := &sessiondomain.Session{
		ID:        uuid.New().String(),
		UID:       id.UID,
		ExpiresAt: now.Add(p.tokens.SessionTTL()),
		IP:        ip,
		CreatedAt: now,
	}
	if err := p.sessions.Create(ctx, sess); err != nil {
		return "", time.Time{}, err
	}
	cookie, expiresAt, err := p.tokens.IssueSessionToken(sess.ID, id.UID, email, name, admin)
	if err != nil {
		return "", time.Time{}, err
	}
	return cookie, expiresAt, nil
}

// VerifySessionCookie verifies a session artifact. Signature, expiry, and kind are
// checked on the token; with checkRevoked the session row's revocation flag is
// consulted as well. A missing row fails closed as malformed.
func (p *LocalProvider) VerifySessionCookie(ctx context.Context, cookie string, checkRevoked bool) (*Identity, error) {
	id, err := p.tokens.ValidateSessionToken(cookie)
	if err != nil {
		if errors.Is(err, security.ErrTokenExpired) {
			return nil, ErrSessionExpired
		}
		return nil, ErrSessionMalformed
	}
	if checkRevoked {
		sess, err := p.sessions.GetByID(ctx, id.SessionID)
		if err != nil {
			return nil, err
		}
		if sess == nil {
			return nil, ErrSessionMalformed
		}
		if sess.RevokedAt != nil {
			return nil, ErrSessionRevoked
		}
		if !time.Now().UTC().Before(sess.ExpiresAt) {
			return nil, ErrSessionExpired
		}
	}
	return tokenIdentity(id), nil
}

// RevokeSession revokes the session behind the artifact. Invalid artifacts are a
// no-op: logout must not fail because the cookie already went bad.
func (p *LocalProvider) RevokeSession(ctx context.Context, cookie string) error {
	id, err := p.tokens.ValidateSessionToken(cookie)
	if err != nil {
		return nil
	}
	return p.sessions.Revoke(ctx, id.SessionID)
}

// RevokeAllSessions revokes every session of the account.
func (p *LocalProvider) RevokeAllSessions(ctx context.Context, uid string) error {
	return p.sessions.RevokeAllByUID(ctx, uid)
}

// GetAccount returns the account for uid, or ErrUserNotFound.
func (p *LocalProvider) GetAccount(ctx context.Context, uid string) (*domain.Account, error) {
	account, err := p.accounts.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrUserNotFound
	}
	return account, nil
}

// CreateAccount provisions an account. Duplicate emails surface as ErrEmailExists,
// both via the pre-check and via the unique constraint for concurrent creates.
func (p *LocalProvider) CreateAccount(ctx context.Context, params NewAccountParams) (*domain.Account, error) {
	email := strings.TrimSpace(strings.ToLower(params.Email))
	existing, err := p.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	uid := params.UID
	if uid == "" {
		uid = uuid.New().String()
	}
	now := time.Now().UTC()
	account := &domain.Account{
		UID:         uid,
		Email:       email,
		DisplayName: strings.TrimSpace(params.DisplayName),
		Admin:       params.Admin,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if params.Password != "" {
		hashed, err := p.hasher.Hash([]byte(params.Password))
		if err != nil {
			return nil, err
		}
		account.PasswordHash = hashed
	}
	if err := account.Validate(); err != nil {
		return nil, err
	}
	if err := p.accounts.Create(ctx, account); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	return account, nil
}

// SetAdminClaim updates the elevated claim on the account record.
func (p *LocalProvider) SetAdminClaim(ctx context.Context, uid string, admin bool) error {
	return p.accounts.SetAdminClaim(ctx, uid, admin)
}

// DeleteAccount removes the account; sessions and staff records cascade.
func (p *LocalProvider) DeleteAccount(ctx context.Context, uid string) error {
	return p.accounts.Delete(ctx, uid)
}

func tokenIdentity(id *security.TokenIdentity) *Identity {
	return &Identity{
		UID:       id.UID,
		Email:     id.Email,
		Name:      id.Name,
		Admin:     id.Admin,
		SessionID: id.SessionID,
		ExpiresAt: id.ExpiresAt,
	}
}
