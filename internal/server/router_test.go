package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	authhandler "arc-staff-portal/internal/auth/handler"
	"arc-staff-portal/internal/auth/service"
	carddomain "arc-staff-portal/internal/card/domain"
	cardhandler "arc-staff-portal/internal/card/handler"
	healthhandler "arc-staff-portal/internal/health/handler"
	"arc-staff-portal/internal/idp"
	idpdomain "arc-staff-portal/internal/idp/domain"
	principaldomain "arc-staff-portal/internal/principal/domain"
	recipientdomain "arc-staff-portal/internal/recipient/domain"
	recipienthandler "arc-staff-portal/internal/recipient/handler"
	"arc-staff-portal/internal/security"
	"arc-staff-portal/internal/server/middleware"
)

// routerProvider is a session-table stub for router-level tests.
type routerProvider struct {
	sessions map[string]*idp.Identity
}

func (p *routerProvider) VerifySessionCookie(_ context.Context, cookie string, _ bool) (*idp.Identity, error) {
	if ident, ok := p.sessions[cookie]; ok {
		cp := *ident
		return &cp, nil
	}
	return nil, idp.ErrSessionMalformed
}

func (p *routerProvider) SignInWithPassword(context.Context, string, string) (string, error) {
	return "", idp.ErrInvalidCredentials
}
func (p *routerProvider) CreateCustomToken(context.Context, string) (string, error) {
	return "", idp.ErrUserNotFound
}
func (p *routerProvider) VerifyIDToken(context.Context, string) (*idp.Identity, error) {
	return nil, idp.ErrUnauthenticated
}
func (p *routerProvider) CreateSessionCookie(context.Context, string, string) (string, time.Time, error) {
	return "", time.Time{}, idp.ErrUnauthenticated
}
func (p *routerProvider) RevokeSession(context.Context, string) error     { return nil }
func (p *routerProvider) RevokeAllSessions(context.Context, string) error { return nil }
func (p *routerProvider) GetAccount(context.Context, string) (*idpdomain.Account, error) {
	return nil, idp.ErrUserNotFound
}
func (p *routerProvider) CreateAccount(context.Context, idp.NewAccountParams) (*idpdomain.Account, error) {
	return nil, idp.ErrEmailExists
}
func (p *routerProvider) SetAdminClaim(context.Context, string, bool) error {
	return idp.ErrUserNotFound
}
func (p *routerProvider) DeleteAccount(context.Context, string) error { return nil }
func (p *routerProvider) SessionTTL() time.Duration                   { return 120 * time.Hour }

// routerDirectory satisfies the auth service's directory and writer needs.
type routerDirectory struct{}

func (routerDirectory) IsElevated(context.Context, string) (bool, error) { return false, nil }
func (routerDirectory) FindStaff(context.Context, string) (*principaldomain.StaffRecord, error) {
	return nil, nil
}
func (routerDirectory) CreateStaff(context.Context, *principaldomain.StaffRecord) error { return nil }
func (routerDirectory) CreateAdmin(context.Context, *principaldomain.AdminRecord) error { return nil }

// routerRecipientRepo is an empty recipient store that records whether the
// request context carried a deadline.
type routerRecipientRepo struct {
	mu          sync.Mutex
	sawDeadline bool
}

func (f *routerRecipientRepo) GetByID(context.Context, string) (*recipientdomain.Recipient, error) {
	return nil, nil
}
func (f *routerRecipientRepo) List(ctx context.Context, _, _ int32) ([]*recipientdomain.Recipient, error) {
	f.mu.Lock()
	_, f.sawDeadline = ctx.Deadline()
	f.mu.Unlock()
	return nil, nil
}
func (f *routerRecipientRepo) Create(context.Context, *recipientdomain.Recipient) error { return nil }
func (f *routerRecipientRepo) Update(context.Context, *recipientdomain.Recipient) error { return nil }
func (f *routerRecipientRepo) SetBanned(context.Context, string, bool, string) error    { return nil }

// routerCardRepo is an empty card store.
type routerCardRepo struct{}

func (routerCardRepo) GetByID(context.Context, string) (*carddomain.Card, error) { return nil, nil }
func (routerCardRepo) ListByRecipient(context.Context, string) ([]*carddomain.Card, error) {
	return nil, nil
}
func (routerCardRepo) Create(context.Context, *carddomain.Card) error { return nil }
func (routerCardRepo) UpdateStatus(context.Context, string, carddomain.Status, int32) error {
	return nil
}

func newTestRouter(provider idp.Provider) (http.Handler, *routerRecipientRepo) {
	dir := routerDirectory{}
	svc := service.NewAuthService(provider, dir, dir, dir, security.NewIDHasher("test-pepper"), nil)
	recipients := &routerRecipientRepo{}
	router := NewRouter(Deps{
		Provider:  provider,
		Auth:      authhandler.NewHandler(svc, dir, 120*time.Hour, false),
		Recipient: recipienthandler.NewHandler(recipients, nil),
		Card:      cardhandler.NewHandler(routerCardRepo{}, recipients, nil),
		Health:    healthhandler.NewHandler(nil),
	})
	return router, recipients
}

func get(router http.Handler, path, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: cookie})
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRouter_PageGate(t *testing.T) {
	provider := &routerProvider{sessions: map[string]*idp.Identity{
		"staff-cookie": {UID: "u1", Admin: false, SessionID: "s1"},
		"admin-cookie": {UID: "a1", Admin: true, SessionID: "s2"},
	}}
	router, _ := newTestRouter(provider)

	// Staff session: staff pages allowed, admin pages redirect.
	if rec := get(router, "/dashboard", "staff-cookie"); rec.Code != http.StatusOK {
		t.Errorf("/dashboard with staff session: status = %d, want 200", rec.Code)
	}
	rec := get(router, "/admin-only/x", "staff-cookie")
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/admin/login" {
		t.Errorf("/admin-only/x with staff session: got %d %q, want 302 /admin/login",
			rec.Code, rec.Header().Get("Location"))
	}

	// Admin session passes both zones.
	if rec := get(router, "/admin-only/x", "admin-cookie"); rec.Code != http.StatusOK {
		t.Errorf("/admin-only/x with admin session: status = %d, want 200", rec.Code)
	}

	// No session: staff pages redirect to /login.
	rec = get(router, "/dashboard", "")
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/login" {
		t.Errorf("/dashboard without session: got %d %q, want 302 /login",
			rec.Code, rec.Header().Get("Location"))
	}

	// Public pages render for everyone.
	if rec := get(router, "/login", ""); rec.Code != http.StatusOK {
		t.Errorf("/login: status = %d, want 200", rec.Code)
	}
}

func TestRouter_APIRequiresSession(t *testing.T) {
	provider := &routerProvider{sessions: map[string]*idp.Identity{
		"staff-cookie": {UID: "u1", Admin: false, SessionID: "s1"},
	}}
	router, _ := newTestRouter(provider)

	// Protected API without a session: 401 JSON, not a redirect.
	rec := get(router, "/api/recipients", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("/api/recipients without session: status = %d, want 401", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "" {
		t.Errorf("API must not redirect; got Location %q", loc)
	}

	if rec := get(router, "/api/recipients", "staff-cookie"); rec.Code != http.StatusOK {
		t.Errorf("/api/recipients with session: status = %d, want 200", rec.Code)
	}

	// Health is open.
	if rec := get(router, "/api/healthz", ""); rec.Code != http.StatusOK {
		t.Errorf("/api/healthz: status = %d, want 200", rec.Code)
	}
}

func TestRouter_RequestContextHasDeadline(t *testing.T) {
	provider := &routerProvider{sessions: map[string]*idp.Identity{
		"staff-cookie": {UID: "u1", Admin: false, SessionID: "s1"},
	}}
	router, recipients := newTestRouter(provider)

	if rec := get(router, "/api/recipients", "staff-cookie"); rec.Code != http.StatusOK {
		t.Fatalf("/api/recipients: status = %d, want 200", rec.Code)
	}
	recipients.mu.Lock()
	sawDeadline := recipients.sawDeadline
	recipients.mu.Unlock()
	if !sawDeadline {
		t.Error("repository call should run under a request deadline")
	}
}
