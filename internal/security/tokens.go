package security

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when a token is malformed, mis-signed, or of the
	// wrong kind for the requested validation.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is returned when a structurally valid token is past its expiry.
	ErrTokenExpired = errors.New("token expired")
)

// Token kinds carried in the "typ" claim. ID and custom tokens are short-lived
// identity assertions; only a session token grants access to protected routes.
const (
	TokenTypeID      = "id"
	TokenTypeCustom  = "custom"
	TokenTypeSession = "session"
)

// PortalClaims holds JWT claims for every token the portal mints.
type PortalClaims struct {
	jwt.RegisteredClaims
	TokenType string `json:"typ"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	Admin     bool   `json:"admin"`
	SessionID string `json:"sid,omitempty"`
}

// TokenIdentity is the verified result of token validation: the principal id and
// the claim set captured at issuance.
type TokenIdentity struct {
	UID       string
	Email     string
	Name      string
	Admin     bool
	SessionID string // set only for session tokens
	ExpiresAt time.Time
}

// TokenProvider issues and validates the portal's ID, custom, and session tokens
// using RS256 or ES256 (private/public key).
type TokenProvider struct {
	privateKey crypto.Signer
	publicKey  crypto.PublicKey
	issuer     string
	audience   string
	idTTL      time.Duration
	customTTL  time.Duration
	sessionTTL time.Duration
}

// NewTokenProvider returns a TokenProvider that signs with the given private key
// (RSA or ECDSA). issuer and audience are set on claims and validated on every parse.
func NewTokenProvider(privateKey crypto.Signer, publicKey crypto.PublicKey, issuer, audience string, idTTL, customTTL, sessionTTL time.Duration) *TokenProvider {
	return &TokenProvider{
		privateKey: privateKey,
		publicKey:  publicKey,
		issuer:     issuer,
		audience:   audience,
		idTTL:      idTTL,
		customTTL:  customTTL,
		sessionTTL: sessionTTL,
	}
}

// SessionTTL returns the configured session token lifetime. The session cookie's
// Max-Age must match it.
func (p *TokenProvider) SessionTTL() time.Duration { return p.sessionTTL }

// IssueIDToken issues a short-lived identity assertion for a principal that just
// proved its credentials. It does not grant access to protected routes; it is
// exchanged for a session cookie.
func (p *TokenProvider) IssueIDToken(uid, email, name string, admin bool) (string, time.Time, error) {
	return p.issue(uid, p.idTTL, PortalClaims{TokenType: TokenTypeID, Email: email, Name: name, Admin: admin})
}

// IssueCustomToken issues a short-lived bootstrap token for the IT-admin login path.
// uid is the hashed identification number; admin reflects the account's elevated claim.
func (p *TokenProvider) IssueCustomToken(uid string, admin bool) (string, time.Time, error) {
	return p.issue(uid, p.customTTL, PortalClaims{TokenType: TokenTypeCustom, Admin: admin})
}

// IssueSessionToken issues the long-lived session artifact bound to a stored session
// row. The claim set is captured at issuance and never mutated; a claim change
// requires a new session.
func (p *TokenProvider) IssueSessionToken(sessionID, uid, email, name string, admin bool) (string, time.Time, error) {
	return p.issue(uid, p.sessionTTL, PortalClaims{TokenType: TokenTypeSession, Email: email, Name: name, Admin: admin, SessionID: sessionID})
}

func (p *TokenProvider) issue(uid string, ttl time.Duration, claims PortalClaims) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(ttl)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   uid,
		Issuer:    p.issuer,
		Audience:  jwt.ClaimStrings{p.audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	var method jwt.SigningMethod
	switch p.privateKey.Public().(type) {
	case *rsa.PublicKey:
		method = jwt.SigningMethodRS256
	case *ecdsa.PublicKey:
		method = jwt.SigningMethodES256
	default:
		return "", time.Time{}, ErrInvalidToken
	}
	token, err := jwt.NewWithClaims(method, claims).SignedString(p.privateKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// ValidateIDToken parses a fresh identity assertion (ID or custom token) and
// returns the verified identity. Session tokens are rejected: a session cookie
// must not be replayed as login proof.
func (p *TokenProvider) ValidateIDToken(tokenString string) (*TokenIdentity, error) {
	claims, err := p.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeID && claims.TokenType != TokenTypeCustom {
		return nil, ErrInvalidToken
	}
	return claimsToIdentity(claims), nil
}

// ValidateSessionToken parses a session artifact and returns the verified identity
// including the session id. Revocation is checked by the identity provider, not here;
// this validates signature, expiry, issuer, audience, and kind only.
func (p *TokenProvider) ValidateSessionToken(tokenString string) (*TokenIdentity, error) {
	claims, err := p.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeSession || claims.SessionID == "" {
		return nil, ErrInvalidToken
	}
	return claimsToIdentity(claims), nil
}

func (p *TokenProvider) parse(tokenString string) (*PortalClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &PortalClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); ok {
			return p.publicKey, nil
		}
		if _, ok := token.Method.(*jwt.SigningMethodECDSA); ok {
			return p.publicKey, nil
		}
		return nil, ErrInvalidToken
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*PortalClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Issuer != p.issuer {
		return nil, ErrInvalidToken
	}
	audOk := false
	for _, a := range claims.Audience {
		if a == p.audience {
			audOk = true
			break
		}
	}
	if !audOk {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func claimsToIdentity(c *PortalClaims) *TokenIdentity {
	id := &TokenIdentity{
		UID:       c.Subject,
		Email:     c.Email,
		Name:      c.Name,
		Admin:     c.Admin,
		SessionID: c.SessionID,
	}
	if c.ExpiresAt != nil {
		id.ExpiresAt = c.ExpiresAt.Time
	}
	return id
}
