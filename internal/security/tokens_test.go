package security

import (
	"errors"
	"testing"
	"time"
)

func newProvider(t *testing.T) *TokenProvider {
	t.Helper()
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	return p
}

func TestTokenProvider_IDTokenRoundTrip(t *testing.T) {
	p := newProvider(t)
	token, expiresAt, err := p.IssueIDToken("uid-1", "staff@example.com", "Alice Smith", false)
	if err != nil {
		t.Fatalf("IssueIDToken: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Error("ID token already expired at issuance")
	}
	id, err := p.ValidateIDToken(token)
	if err != nil {
		t.Fatalf("ValidateIDToken: %v", err)
	}
	if id.UID != "uid-1" || id.Email != "staff@example.com" || id.Name != "Alice Smith" {
		t.Errorf("identity = %+v, want uid-1/staff@example.com/Alice Smith", id)
	}
	if id.Admin {
		t.Error("Admin = true, want false")
	}
	if id.SessionID != "" {
		t.Errorf("SessionID = %q, want empty for ID token", id.SessionID)
	}
}

func TestTokenProvider_CustomTokenAcceptedAsAssertion(t *testing.T) {
	p := newProvider(t)
	token, _, err := p.IssueCustomToken("hashed-admin-uid", true)
	if err != nil {
		t.Fatalf("IssueCustomToken: %v", err)
	}
	id, err := p.ValidateIDToken(token)
	if err != nil {
		t.Fatalf("ValidateIDToken: %v", err)
	}
	if !id.Admin {
		t.Error("Admin = false, want true")
	}
	if id.UID != "hashed-admin-uid" {
		t.Errorf("UID = %q, want hashed-admin-uid", id.UID)
	}
}

func TestTokenProvider_SessionTokenRoundTrip(t *testing.T) {
	p := newProvider(t)
	token, _, err := p.IssueSessionToken("sess-1", "uid-1", "staff@example.com", "Alice", false)
	if err != nil {
		t.Fatalf("IssueSessionToken: %v", err)
	}
	id, err := p.ValidateSessionToken(token)
	if err != nil {
		t.Fatalf("ValidateSessionToken: %v", err)
	}
	if id.SessionID != "sess-1" {
		t.Errorf("SessionID = %q, want sess-1", id.SessionID)
	}

	// Re-verification is a pure read: same claims both times.
	again, err := p.ValidateSessionToken(token)
	if err != nil {
		t.Fatalf("second ValidateSessionToken: %v", err)
	}
	if *again != *id {
		t.Errorf("re-verified identity differs: %+v vs %+v", again, id)
	}
}

func TestTokenProvider_KindConfusionRejected(t *testing.T) {
	p := newProvider(t)
	sessionToken, _, err := p.IssueSessionToken("sess-1", "uid-1", "", "", false)
	if err != nil {
		t.Fatalf("IssueSessionToken: %v", err)
	}
	if _, err := p.ValidateIDToken(sessionToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("session token accepted as ID token: %v", err)
	}
	idToken, _, err := p.IssueIDToken("uid-1", "", "", false)
	if err != nil {
		t.Fatalf("IssueIDToken: %v", err)
	}
	if _, err := p.ValidateSessionToken(idToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ID token accepted as session token: %v", err)
	}
}

func TestTokenProvider_GarbageRejected(t *testing.T) {
	p := newProvider(t)
	for _, in := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := p.ValidateSessionToken(in); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("ValidateSessionToken(%q) = %v, want ErrInvalidToken", in, err)
		}
	}
}

func TestTokenProvider_WrongIssuerRejected(t *testing.T) {
	p := newProvider(t)
	other := NewTokenProvider(p.privateKey, p.publicKey, "other-issuer", "test-audience", time.Hour, 10*time.Minute, 120*time.Hour)
	token, _, err := other.IssueSessionToken("sess-1", "uid-1", "", "", false)
	if err != nil {
		t.Fatalf("IssueSessionToken: %v", err)
	}
	if _, err := p.ValidateSessionToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("token from other issuer accepted: %v", err)
	}
}
