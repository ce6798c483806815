package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"arc-staff-portal/internal/audit"
	"arc-staff-portal/internal/idp"
	principaldomain "arc-staff-portal/internal/principal/domain"
	"arc-staff-portal/internal/security"
)

// Sentinel errors for the auth service; handlers map them to HTTP status codes.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrNotStaff           = errors.New("principal is not administrative staff")
	ErrNotAdmin           = errors.New("principal is not a provisioned admin")
	ErrAdminNotFound      = errors.New("no admin provisioned for identification number")
	ErrAccountNotFound    = errors.New("no account for uid")
	ErrEmailExists        = errors.New("email already registered")
)

// Directory is the principal lookup needed by the auth service. Elevation is
// always resolved here, against provisioned records, never from a client flag.
type Directory interface {
	IsElevated(ctx context.Context, principalID string) (bool, error)
	FindStaff(ctx context.Context, uid string) (*principaldomain.StaffRecord, error)
}

// StaffWriter persists staff directory records created during registration.
type StaffWriter interface {
	CreateStaff(ctx context.Context, s *principaldomain.StaffRecord) error
}

// AdminWriter persists IT-admin directory records created during provisioning.
type AdminWriter interface {
	CreateAdmin(ctx context.Context, a *principaldomain.AdminRecord) error
}

// AuthService implements login, session exchange, token minting, and the
// provisioning flows for staff and IT admins.
type AuthService struct {
	provider    idp.Provider
	directory   Directory
	staffWriter StaffWriter
	adminWriter AdminWriter
	idHasher    *security.IDHasher
	auditor     audit.AuditLogger
}

// NewAuthService returns an AuthService with the given dependencies.
// auditor may be nil; audit logging is then skipped.
func NewAuthService(
	provider idp.Provider,
	directory Directory,
	staffWriter StaffWriter,
	adminWriter AdminWriter,
	idHasher *security.IDHasher,
	auditor audit.AuditLogger,
) *AuthService {
	return &AuthService{
		provider:    provider,
		directory:   directory,
		staffWriter: staffWriter,
		adminWriter: adminWriter,
		idHasher:    idHasher,
		auditor:     auditor,
	}
}

// LoginResult holds the outcome of a password login: a short-lived ID token
// to be exchanged for a session cookie, plus the identity behind it.
type LoginResult struct {
	IDToken  string
	Identity *idp.Identity
}

// Login authenticates with email/password and returns a fresh ID token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	token, err := s.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		if errors.Is(err, idp.ErrInvalidCredentials) {
			s.logEvent(ctx, "", "login_failure", "session", email)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	ident, err := s.provider.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, err
	}
	s.logEvent(ctx, ident.UID, "login_success", "session", "")
	return &LoginResult{IDToken: token, Identity: ident}, nil
}

// SessionLogin exchanges a fresh ID token for a session cookie value.
// Any provider rejection is surfaced as ErrUnauthenticated.
func (s *AuthService) SessionLogin(ctx context.Context, idToken, ip string) (string, time.Time, error) {
	if strings.TrimSpace(idToken) == "" {
		return "", time.Time{}, ErrInvalidInput
	}
	cookie, expiresAt, err := s.provider.CreateSessionCookie(ctx, idToken, ip)
	if err != nil {
		if isProviderAuthErr(err) {
			s.logEvent(ctx, "", "session_login_failure", "session", "")
			return "", time.Time{}, ErrUnauthenticated
		}
		return "", time.Time{}, err
	}
	return cookie, expiresAt, nil
}

// UserSession verifies the session cookie (including revocation) and returns
// the identity bound to it.
func (s *AuthService) UserSession(ctx context.Context, cookie string) (*idp.Identity, error) {
	if cookie == "" {
		return nil, ErrUnauthenticated
	}
	ident, err := s.provider.VerifySessionCookie(ctx, cookie, true)
	if err != nil {
		if isProviderAuthErr(err) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	return ident, nil
}

// Logout revokes the session behind the cookie. Best-effort: an invalid or
// already-revoked cookie is not an error.
func (s *AuthService) Logout(ctx context.Context, cookie string) error {
	if cookie == "" {
		return nil
	}
	ident, err := s.provider.VerifySessionCookie(ctx, cookie, false)
	if err != nil {
		return nil
	}
	if err := s.provider.RevokeSession(ctx, cookie); err != nil {
		return err
	}
	s.logEvent(ctx, ident.UID, "logout", "session", "")
	return nil
}

// GetCustomToken exchanges an IT-admin identification number for a bootstrap
// custom token. The number is hashed server-side; the hash must match a
// provisioned admin record. Unprovisioned numbers fail as ErrUnauthenticated,
// indistinguishable from a wrong number.
func (s *AuthService) GetCustomToken(ctx context.Context, identificationNumber string) (string, error) {
	hashedID, err := s.idHasher.Hash(identificationNumber)
	if err != nil {
		if errors.Is(err, security.ErrInvalidIDNumber) {
			return "", ErrInvalidInput
		}
		return "", err
	}
	elevated, err := s.directory.IsElevated(ctx, hashedID)
	if err != nil {
		return "", err
	}
	if !elevated {
		s.logEvent(ctx, "", "admin_token_denied", "custom_token", "")
		return "", ErrUnauthenticated
	}
	token, err := s.provider.CreateCustomToken(ctx, hashedID)
	if err != nil {
		if errors.Is(err, idp.ErrUserNotFound) {
			return "", ErrUnauthenticated
		}
		return "", err
	}
	s.logEvent(ctx, hashedID, "admin_token_issued", "custom_token", "")
	return token, nil
}

// VerifyAdmin confirms that an identification number belongs to a provisioned
// IT admin and returns the hashed id. Used during staff self-registration to
// validate the sponsoring admin. Returns ErrAdminNotFound when no record exists.
func (s *AuthService) VerifyAdmin(ctx context.Context, identificationNumber string) (string, error) {
	hashedID, err := s.idHasher.Hash(identificationNumber)
	if err != nil {
		if errors.Is(err, security.ErrInvalidIDNumber) {
			return "", ErrInvalidInput
		}
		return "", err
	}
	elevated, err := s.directory.IsElevated(ctx, hashedID)
	if err != nil {
		return "", err
	}
	if !elevated {
		return "", ErrAdminNotFound
	}
	return hashedID, nil
}

// AuthoriseStaff verifies a bearer ID token and confirms the principal is in
// the staff directory. A valid token without a staff record is ErrNotStaff.
func (s *AuthService) AuthoriseStaff(ctx context.Context, idToken string) (*principaldomain.StaffRecord, error) {
	if strings.TrimSpace(idToken) == "" {
		return nil, ErrUnauthenticated
	}
	ident, err := s.provider.VerifyIDToken(ctx, idToken)
	if err != nil {
		if isProviderAuthErr(err) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	staff, err := s.directory.FindStaff(ctx, ident.UID)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		s.logEvent(ctx, ident.UID, "staff_authorise_denied", "staff", "")
		return nil, ErrNotStaff
	}
	return staff, nil
}

// RegisterStaffParams holds the self-registration form for a new staff member.
// IdentificationNumber is the sponsoring IT admin's number, not the staffer's.
type RegisterStaffParams struct {
	Email                string
	Password             string
	FirstName            string
	LastName             string
	IdentificationNumber string
}

// RegisterStaff creates a staff account sponsored by an IT admin. The sponsor
// is verified against the directory, never against a client-supplied flag or
// session claim.
func (s *AuthService) RegisterStaff(ctx context.Context, p RegisterStaffParams) (string, error) {
	email := strings.TrimSpace(strings.ToLower(p.Email))
	if err := validateEmail(email); err != nil {
		return "", ErrInvalidInput
	}
	if err := validatePassword(p.Password); err != nil {
		return "", ErrInvalidInput
	}
	firstName := strings.TrimSpace(p.FirstName)
	lastName := strings.TrimSpace(p.LastName)
	if firstName == "" || lastName == "" {
		return "", ErrInvalidInput
	}
	sponsorID, err := s.VerifyAdmin(ctx, p.IdentificationNumber)
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			s.logEvent(ctx, "", "staff_register_denied", "staff", email)
			return "", ErrNotAdmin
		}
		return "", err
	}
	uid := uuid.New().String()
	_, err = s.provider.CreateAccount(ctx, idp.NewAccountParams{
		UID:         uid,
		Email:       email,
		Password:    p.Password,
		DisplayName: firstName + " " + lastName,
		Admin:       false,
	})
	if err != nil {
		if errors.Is(err, idp.ErrEmailExists) {
			return "", ErrEmailExists
		}
		return "", err
	}
	staff := &principaldomain.StaffRecord{
		UID:       uid,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Role:      "staff",
		CreatedBy: sponsorID,
		CreatedAt: time.Now().UTC(),
	}
	if err := staff.Validate(); err != nil {
		return "", ErrInvalidInput
	}
	if err := s.staffWriter.CreateStaff(ctx, staff); err != nil {
		// Roll back the orphaned account; the directory record is the source
		// of staff privilege, so an account without one must not linger.
		_ = s.provider.DeleteAccount(ctx, uid)
		return "", err
	}
	s.logEvent(ctx, sponsorID, "staff_registered", "staff", uid)
	return uid, nil
}

// CreateAdminParams holds the provisioning form for a new IT admin.
type CreateAdminParams struct {
	IdentificationNumber string
	Email                string
	FirstName            string
	LastName             string
}

// CreateAdmin provisions a new IT admin. actorUID is the verified uid of the
// caller's session; it is re-checked against the directory before any write,
// guarding against privilege revoked after the session was issued.
func (s *AuthService) CreateAdmin(ctx context.Context, actorUID string, p CreateAdminParams) (string, error) {
	elevated, err := s.directory.IsElevated(ctx, actorUID)
	if err != nil {
		return "", err
	}
	if !elevated {
		s.logEvent(ctx, actorUID, "admin_create_denied", "admin", "")
		return "", ErrNotAdmin
	}
	email := strings.TrimSpace(strings.ToLower(p.Email))
	if err := validateEmail(email); err != nil {
		return "", ErrInvalidInput
	}
	firstName := strings.TrimSpace(p.FirstName)
	lastName := strings.TrimSpace(p.LastName)
	if firstName == "" || lastName == "" {
		return "", ErrInvalidInput
	}
	hashedID, err := s.idHasher.Hash(p.IdentificationNumber)
	if err != nil {
		if errors.Is(err, security.ErrInvalidIDNumber) {
			return "", ErrInvalidInput
		}
		return "", err
	}
	existing, err := s.directory.IsElevated(ctx, hashedID)
	if err != nil {
		return "", err
	}
	if existing {
		return "", ErrEmailExists
	}
	// Admins authenticate through the custom-token exchange, not a password.
	_, err = s.provider.CreateAccount(ctx, idp.NewAccountParams{
		UID:         hashedID,
		Email:       email,
		DisplayName: firstName + " " + lastName,
		Admin:       true,
	})
	if err != nil {
		if errors.Is(err, idp.ErrEmailExists) {
			return "", ErrEmailExists
		}
		return "", err
	}
	admin := &principaldomain.AdminRecord{
		ID:        hashedID,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		CreatedAt: time.Now().UTC(),
	}
	if err := admin.Validate(); err != nil {
		return "", ErrInvalidInput
	}
	if err := s.adminWriter.CreateAdmin(ctx, admin); err != nil {
		_ = s.provider.DeleteAccount(ctx, hashedID)
		return "", err
	}
	s.logEvent(ctx, actorUID, "admin_created", "admin", hashedID)
	return hashedID, nil
}

// SetAdminRole grants or revokes the admin claim on an existing account. The
// actor must pass the directory elevation check. Revoking the claim also
// revokes every live session for the account, so tokens carrying the stale
// claim stop verifying immediately.
func (s *AuthService) SetAdminRole(ctx context.Context, actorUID, uid string, admin bool) error {
	elevated, err := s.directory.IsElevated(ctx, actorUID)
	if err != nil {
		return err
	}
	if !elevated {
		s.logEvent(ctx, actorUID, "admin_role_denied", "account", uid)
		return ErrNotAdmin
	}
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return ErrInvalidInput
	}
	if _, err := s.provider.GetAccount(ctx, uid); err != nil {
		if errors.Is(err, idp.ErrUserNotFound) {
			return ErrAccountNotFound
		}
		return err
	}
	if err := s.provider.SetAdminClaim(ctx, uid, admin); err != nil {
		return err
	}
	action := "admin_role_granted"
	if !admin {
		action = "admin_role_revoked"
		if err := s.provider.RevokeAllSessions(ctx, uid); err != nil {
			return err
		}
	}
	s.logEvent(ctx, actorUID, action, "account", uid)
	return nil
}

func (s *AuthService) logEvent(ctx context.Context, actorUID, action, resource, metadata string) {
	if s.auditor == nil {
		return
	}
	s.auditor.LogEvent(ctx, actorUID, action, resource, metadata)
}

// isProviderAuthErr reports whether err is one of the provider's credential
// failures, all of which collapse to a single unauthenticated outcome.
func isProviderAuthErr(err error) bool {
	return errors.Is(err, idp.ErrUnauthenticated) ||
		errors.Is(err, idp.ErrInvalidCredentials) ||
		errors.Is(err, idp.ErrSessionExpired) ||
		errors.Is(err, idp.ErrSessionRevoked) ||
		errors.Is(err, idp.ErrSessionMalformed)
}

func validateEmail(email string) error {
	if email == "" {
		return errors.New("email is required")
	}
	const simpleEmail = `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	ok, _ := regexp.MatchString(simpleEmail, email)
	if !ok {
		return errors.New("invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	var hasLetter, hasNumber bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z':
			hasLetter = true
		case r >= '0' && r <= '9':
			hasNumber = true
		}
	}
	if !hasLetter || !hasNumber {
		return errors.New("password must contain at least one letter and one number")
	}
	return nil
}
