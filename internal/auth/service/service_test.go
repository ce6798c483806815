package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"arc-staff-portal/internal/idp"
	idpdomain "arc-staff-portal/internal/idp/domain"
	principaldomain "arc-staff-portal/internal/principal/domain"
	"arc-staff-portal/internal/security"
)

const testPepper = "test-pepper"

// fakeProvider is an in-memory idp.Provider for service tests.
type fakeProvider struct {
	accounts  map[string]*idpdomain.Account
	passwords map[string]string // uid -> password
	idTokens  map[string]*idp.Identity
	sessions  map[string]*fakeSession // cookie -> state
	nextToken int
}

type fakeSession struct {
	ident   idp.Identity
	revoked bool
	expired bool
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		accounts:  map[string]*idpdomain.Account{},
		passwords: map[string]string{},
		idTokens:  map[string]*idp.Identity{},
		sessions:  map[string]*fakeSession{},
	}
}

func (f *fakeProvider) addAccount(uid, email, password string, admin bool) {
	f.accounts[uid] = &idpdomain.Account{UID: uid, Email: email, DisplayName: "Test User", Admin: admin}
	if password != "" {
		f.passwords[uid] = password
	}
}

func (f *fakeProvider) mint(uid string) (string, *idp.Identity) {
	acc := f.accounts[uid]
	f.nextToken++
	tok := fmt.Sprintf("idtok-%d", f.nextToken)
	ident := &idp.Identity{UID: uid, Email: acc.Email, Name: acc.DisplayName, Admin: acc.Admin, ExpiresAt: time.Now().Add(time.Hour)}
	f.idTokens[tok] = ident
	return tok, ident
}

func (f *fakeProvider) SignInWithPassword(_ context.Context, email, password string) (string, error) {
	for uid, acc := range f.accounts {
		if acc.Email == email && f.passwords[uid] == password && f.passwords[uid] != "" {
			tok, _ := f.mint(uid)
			return tok, nil
		}
	}
	return "", idp.ErrInvalidCredentials
}

func (f *fakeProvider) CreateCustomToken(_ context.Context, uid string) (string, error) {
	if _, ok := f.accounts[uid]; !ok {
		return "", idp.ErrUserNotFound
	}
	tok, _ := f.mint(uid)
	return tok, nil
}

func (f *fakeProvider) VerifyIDToken(_ context.Context, idToken string) (*idp.Identity, error) {
	ident, ok := f.idTokens[idToken]
	if !ok {
		return nil, idp.ErrUnauthenticated
	}
	cp := *ident
	return &cp, nil
}

func (f *fakeProvider) CreateSessionCookie(_ context.Context, idToken, _ string) (string, time.Time, error) {
	ident, ok := f.idTokens[idToken]
	if !ok {
		return "", time.Time{}, idp.ErrUnauthenticated
	}
	f.nextToken++
	cookie := fmt.Sprintf("cookie-%d", f.nextToken)
	sessIdent := *ident
	sessIdent.SessionID = cookie
	f.sessions[cookie] = &fakeSession{ident: sessIdent}
	return cookie, time.Now().Add(120 * time.Hour), nil
}

func (f *fakeProvider) VerifySessionCookie(_ context.Context, cookie string, checkRevoked bool) (*idp.Identity, error) {
	sess, ok := f.sessions[cookie]
	if !ok {
		return nil, idp.ErrSessionMalformed
	}
	if sess.expired {
		return nil, idp.ErrSessionExpired
	}
	if checkRevoked && sess.revoked {
		return nil, idp.ErrSessionRevoked
	}
	cp := sess.ident
	return &cp, nil
}

func (f *fakeProvider) RevokeSession(_ context.Context, cookie string) error {
	if sess, ok := f.sessions[cookie]; ok {
		sess.revoked = true
	}
	return nil
}

func (f *fakeProvider) RevokeAllSessions(_ context.Context, uid string) error {
	for _, sess := range f.sessions {
		if sess.ident.UID == uid {
			sess.revoked = true
		}
	}
	return nil
}

func (f *fakeProvider) GetAccount(_ context.Context, uid string) (*idpdomain.Account, error) {
	acc, ok := f.accounts[uid]
	if !ok {
		return nil, idp.ErrUserNotFound
	}
	cp := *acc
	return &cp, nil
}

func (f *fakeProvider) CreateAccount(_ context.Context, p idp.NewAccountParams) (*idpdomain.Account, error) {
	for _, acc := range f.accounts {
		if acc.Email == p.Email {
			return nil, idp.ErrEmailExists
		}
	}
	uid := p.UID
	if uid == "" {
		f.nextToken++
		uid = fmt.Sprintf("uid-%d", f.nextToken)
	}
	f.addAccount(uid, p.Email, p.Password, p.Admin)
	return f.accounts[uid], nil
}

func (f *fakeProvider) SetAdminClaim(_ context.Context, uid string, admin bool) error {
	acc, ok := f.accounts[uid]
	if !ok {
		return idp.ErrUserNotFound
	}
	acc.Admin = admin
	return nil
}

func (f *fakeProvider) DeleteAccount(_ context.Context, uid string) error {
	delete(f.accounts, uid)
	delete(f.passwords, uid)
	return nil
}

func (f *fakeProvider) SessionTTL() time.Duration { return 120 * time.Hour }

// fakeDirectory backs both the Directory reads and the staff/admin writers.
type fakeDirectory struct {
	staff  map[string]*principaldomain.StaffRecord
	admins map[string]*principaldomain.AdminRecord
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		staff:  map[string]*principaldomain.StaffRecord{},
		admins: map[string]*principaldomain.AdminRecord{},
	}
}

func (f *fakeDirectory) IsElevated(_ context.Context, principalID string) (bool, error) {
	_, ok := f.admins[principalID]
	return ok, nil
}

func (f *fakeDirectory) FindStaff(_ context.Context, uid string) (*principaldomain.StaffRecord, error) {
	return f.staff[uid], nil
}

func (f *fakeDirectory) CreateStaff(_ context.Context, s *principaldomain.StaffRecord) error {
	f.staff[s.UID] = s
	return nil
}

func (f *fakeDirectory) CreateAdmin(_ context.Context, a *principaldomain.AdminRecord) error {
	f.admins[a.ID] = a
	return nil
}

type failingStaffWriter struct{}

func (failingStaffWriter) CreateStaff(context.Context, *principaldomain.StaffRecord) error {
	return errors.New("write failed")
}

func newTestService(provider idp.Provider, dir *fakeDirectory) *AuthService {
	return NewAuthService(provider, dir, dir, dir, security.NewIDHasher(testPepper), nil)
}

func mustHash(t *testing.T, idNumber string) string {
	t.Helper()
	h, err := security.NewIDHasher(testPepper).Hash(idNumber)
	if err != nil {
		t.Fatalf("Hash(%q): %v", idNumber, err)
	}
	return h
}

func provisionAdmin(t *testing.T, provider *fakeProvider, dir *fakeDirectory, idNumber string) string {
	t.Helper()
	hashedID := mustHash(t, idNumber)
	provider.addAccount(hashedID, "it@example.com", "", true)
	dir.admins[hashedID] = &principaldomain.AdminRecord{ID: hashedID, Email: "it@example.com"}
	return hashedID
}

func TestLogin(t *testing.T) {
	provider := newFakeProvider()
	dir := newFakeDirectory()
	provider.addAccount("u1", "staff@example.com", "correct-horse-1", false)
	svc := newTestService(provider, dir)
	ctx := context.Background()

	res, err := svc.Login(ctx, "Staff@Example.com", "correct-horse-1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.IDToken == "" {
		t.Error("Login returned empty ID token")
	}
	if res.Identity.UID != "u1" {
		t.Errorf("identity uid = %q, want %q", res.Identity.UID, "u1")
	}

	// Unknown email and wrong password collapse into one failure.
	for _, tc := range []struct{ email, password string }{
		{"nobody@example.com", "correct-horse-1"},
		{"staff@example.com", "wrong"},
		{"", "correct-horse-1"},
		{"staff@example.com", ""},
	} {
		if _, err := svc.Login(ctx, tc.email, tc.password); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login(%q, %q) err = %v, want ErrInvalidCredentials", tc.email, tc.password, err)
		}
	}
}

func TestSessionLogin(t *testing.T) {
	provider := newFakeProvider()
	dir := newFakeDirectory()
	provider.addAccount("u1", "staff@example.com", "correct-horse-1", false)
	svc := newTestService(provider, dir)
	ctx := context.Background()

	res, err := svc.Login(ctx, "staff@example.com", "correct-horse-1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	cookie, expiresAt, err := svc.SessionLogin(ctx, res.IDToken, "10.0.0.1")
	if err != nil {
		t.Fatalf("SessionLogin: %v", err)
	}
	if cookie == "" {
		t.Error("SessionLogin returned empty cookie")
	}
	if !expiresAt.After(time.Now()) {
		t.Errorf("expiresAt = %v, want future", expiresAt)
	}

	if _, _, err := svc.SessionLogin(ctx, "garbage", ""); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("SessionLogin(garbage) err = %v, want ErrUnauthenticated", err)
	}
	if _, _, err := svc.SessionLogin(ctx, "  ", ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("SessionLogin(blank) err = %v, want ErrInvalidInput", err)
	}
}

func TestUserSessionAndLogout(t *testing.T) {
	provider := newFakeProvider()
	dir := newFakeDirectory()
	provider.addAccount("u1", "staff@example.com", "correct-horse-1", false)
	svc := newTestService(provider, dir)
	ctx := context.Background()

	res, _ := svc.Login(ctx, "staff@example.com", "correct-horse-1")
	cookie, _, err := svc.SessionLogin(ctx, res.IDToken, "")
	if err != nil {
		t.Fatalf("SessionLogin: %v", err)
	}

	ident, err := svc.UserSession(ctx, cookie)
	if err != nil {
		t.Fatalf("UserSession: %v", err)
	}
	if ident.UID != "u1" || ident.Admin {
		t.Errorf("identity = %+v, want uid u1 non-admin", ident)
	}

	// Re-verification yields the same claims; no side effects.
	again, err := svc.UserSession(ctx, cookie)
	if err != nil {
		t.Fatalf("UserSession (again): %v", err)
	}
	if *again != *ident {
		t.Errorf("re-verified identity = %+v, want %+v", again, ident)
	}

	if err := svc.Logout(ctx, cookie); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := svc.UserSession(ctx, cookie); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("UserSession after logout err = %v, want ErrUnauthenticated", err)
	}

	// Logout with an invalid or absent cookie is a no-op.
	if err := svc.Logout(ctx, "garbage"); err != nil {
		t.Errorf("Logout(garbage) = %v, want nil", err)
	}
	if err := svc.Logout(ctx, ""); err != nil {
		t.Errorf("Logout(empty) = %v, want nil", err)
	}
}

func TestUserSession_Failures(t *testing.T) {
	provider := newFakeProvider()
	dir := newFakeDirectory()
	svc := newTestService(provider, dir)
	ctx := context.Background()

	provider.sessions["expired"] = &fakeSession{ident: idp.Identity{UID: "u1"}, expired: true}
	provider.sessions["revoked"] = &fakeSession{ident: idp.Identity{UID: "u1"}, revoked: true}

	// Expired, revoked, malformed, and missing all surface uniformly.
	for _, cookie := range []string{"expired", "revoked", "garbage", ""} {
		if _, err := svc.UserSession(ctx, cookie); !errors.Is(err, ErrUnauthenticated) {
			t.Errorf("UserSession(%q) err = %v, want ErrUnauthenticated", cookie, err)
		}
	}
}

func TestGetCustomToken(t *testing.T) {
	provider := newFakeProvider()
	dir := newFakeDirectory()
	hashedID := provisionAdmin(t, provider, dir, "abc-123")
	svc := newTestService(provider, dir)
	ctx := context.Background()

	// Normalization: lowercase with surrounding whitespace matches the
	// provisioned record.
	token, err := svc.GetCustomToken(ctx, "  abc-123 ")
	if err != nil {
		t.Fatalf("GetCustomToken: %v", err)
	}
	ident, err := provider.VerifyIDToken(ctx, token)
	if err != nil {
		t.Fatalf("VerifyIDToken: %v", err)
	}
	if ident.UID != hashedID || !ident.Admin {
		t.Errorf("custom token identity = %+v, want admin %s", ident, hashedID)
	}

	if _, err := svc.GetCustomToken(ctx, "not-provisioned"); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("GetCustomToken(unprovisioned) err = %v, want ErrUnauthenticated", err)
	}
	if _, err := svc.GetCustomToken(ctx, "   "); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("GetCustomToken(blank) err = %v, want ErrInvalidInput", err)
	}
}

func TestVerifyAdmin(t *testing.T) {
	provider := newFakeProvider()
	dir := newFakeDirectory()
	hashedID := provisionAdmin(t, provider, dir, "abc-123")
	svc := newTestService(provider, dir)
	ctx := context.Background()

	for _, input := range []string{"abc-123", "ABC-123", " abc-123 "} {
		got, err := svc.VerifyAdmin(ctx, input)
		if err != nil {
			t.Fatalf("VerifyAdmin(%q): %v", input, err)
		}
		if got != hashedID {
			t.Errorf("VerifyAdmin(%q) = %q, want %q", input, got, hashedID)
		}
	}

	if _, err := svc.VerifyAdmin(ctx, "xyz-999"); !errors.Is(err, ErrAdminNotFound) {
		t.Errorf("VerifyAdmin(unprovisioned) err = %v, want ErrAdminNotFound", err)
	}
	if _, err := svc.VerifyAdmin(ctx, ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("VerifyAdmin(empty) err = %v, want ErrInvalidInput", err)
	}
}

func TestAuthoriseStaff(t *testing.T) {
	provider := newFakeProvider()
	dir := newFakeDirectory()
	provider.addAccount("staff-1", "staff@example.com", "correct-horse-1", false)
	dir.staff["staff-1"] = &principaldomain.StaffRecord{
		UID: "staff-1", Email: "staff@example.com", FirstName: "A", LastName: "B", Role: "staff",
	}
	provider.addAccount("outsider", "out@example.com", "correct-horse-1", false)
	svc := newTestService(provider, dir)
	ctx := context.Background()

	token, _ := provider.mint("staff-1")
	staff, err := svc.AuthoriseStaff(ctx, token)
	if err != nil {
		t.Fatalf("AuthoriseStaff: %v", err)
	}
	if staff.UID != "staff-1" || staff.Email != "staff@example.com" {
		t.Errorf("staff = %+v, want staff-1 record", staff)
	}

	// Valid token but no directory record: authenticated, not authorised.
	outsiderToken, _ := provider.mint("outsider")
	if _, err := svc.AuthoriseStaff(ctx, outsiderToken); !errors.Is(err, ErrNotStaff) {
		t.Errorf("AuthoriseStaff(outsider) err = %v, want ErrNotStaff", err)
	}

	if _, err := svc.AuthoriseStaff(ctx, "garbage"); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("AuthoriseStaff(garbage) err = %v, want ErrUnauthenticated", err)
	}
	if _, err := svc.AuthoriseStaff(ctx, ""); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("AuthoriseStaff(empty) err = %v, want ErrUnauthenticated", err)
	}
}

func TestRegisterStaff(t *testing.T) {
	provider := newFakeProvider()
	dir := newFakeDirectory()
	sponsorID := provisionAdmin(t, provider, dir, "abc-123")
	svc := newTestService(provider, dir)
	ctx := context.Background()

	p := RegisterStaffParams{
		Email:                "New.Staff@Example.com",
		Password:             "longenough1",
		FirstName:            "New",
		LastName:             "Staff",
		IdentificationNumber: "abc-123",
	}
	uid, err := svc.RegisterStaff(ctx, p)
	if err != nil {
		t.Fatalf("RegisterStaff: %v", err)
	}
	staff := dir.staff[uid]
	if staff == nil {
		t.Fatal("staff record not created")
	}
	if staff.Email != "new.staff@example.com" {
		t.Errorf("staff email = %q, want lowercased", staff.Email)
	}
	if staff.CreatedBy != sponsorID {
		t.Errorf("staff created_by = %q, want %q", staff.CreatedBy, sponsorID)
	}
	acc, err := provider.GetAccount(ctx, uid)
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	if acc.Admin {
		t.Error("staff account must not carry the admin claim")
	}

	// New staff can log in immediately.
	if _, err := svc.Login(ctx, "new.staff@example.com", "longenough1"); err != nil {
		t.Errorf("Login as new staff: %v", err)
	}

	// Same email again conflicts.
	p2 := p
	p2.FirstName = "Other"
	if _, err := svc.RegisterStaff(ctx, p2); !errors.Is(err, ErrEmailExists) {
		t.Errorf("RegisterStaff(duplicate email) err = %v, want ErrEmailExists", err)
	}
}

func TestRegisterStaff_BadSponsor(t *testing.T) {
	provider := newFakeProvider()
	dir := newFakeDirectory()
	svc := newTestService(provider, dir)
	ctx := context.Background()

	_, err := svc.RegisterStaff(ctx, RegisterStaffParams{
		Email:                "new.staff@example.com",
		Password:             "longenough1",
		FirstName:            "New",
		LastName:             "Staff",
		IdentificationNumber: "not-an-admin",
	})
	if !errors.Is(err, ErrNotAdmin) {
		t.Errorf("RegisterStaff(bad sponsor) err = %v, want ErrNotAdmin", err)
	}
	if len(provider.accounts) != 0 {
		t.Error("no account should be created for a rejected registration")
	}
}

func TestRegisterStaff_InvalidInput(t *testing.T) {
	provider := newFakeProvider()
	dir := newFakeDirectory()
	provisionAdmin(t, provider, dir, "abc-123")
	svc := newTestService(provider, dir)
	ctx := context.Background()

	base := RegisterStaffParams{
		Email:                "new.staff@example.com",
		Password:             "longenough1",
		FirstName:            "New",
		LastName:             "Staff",
		IdentificationNumber: "abc-123",
	}
	cases := []struct {
		name   string
		mutate func(*RegisterStaffParams)
	}{
		{"bad email", func(p *RegisterStaffParams) { p.Email = "not-an-email" }},
		{"short password", func(p *RegisterStaffParams) { p.Password = "ab1" }},
		{"no digit", func(p *RegisterStaffParams) { p.Password = "longenough" }},
		{"missing first name", func(p *RegisterStaffParams) { p.FirstName = " " }},
		{"missing last name", func(p *RegisterStaffParams) { p.LastName = "" }},
	}
	for _, tc := range cases {
		p := base
		tc.mutate(&p)
		if _, err := svc.RegisterStaff(ctx, p); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: err = %v, want ErrInvalidInput", tc.name, err)
		}
	}
}

func TestRegisterStaff_DirectoryWriteRollsBackAccount(t *testing.T) {
	provider := newFakeProvider()
	dir := newFakeDirectory()
	provisionAdmin(t, provider, dir, "abc-123")
	svc := NewAuthService(provider, dir, failingStaffWriter{}, dir, security.NewIDHasher(testPepper), nil)
	ctx := context.Background()

	_, err := svc.RegisterStaff(ctx, RegisterStaffParams{
		Email:                "new.staff@example.com",
		Password:             "longenough1",
		FirstName:            "New",
		LastName:             "Staff",
		IdentificationNumber: "abc-123",
	})
	if err == nil {
		t.Fatal("RegisterStaff should fail when the directory write fails")
	}
	for uid, acc := range provider.accounts {
		if acc.Email == "new.staff@example.com" {
			t.Errorf("orphaned account %s left behind", uid)
		}
	}
}

func TestCreateAdmin(t *testing.T) {
	provider := newFakeProvider()
	dir := newFakeDirectory()
	actorID := provisionAdmin(t, provider, dir, "abc-123")
	svc := newTestService(provider, dir)
	ctx := context.Background()

	uid, err := svc.CreateAdmin(ctx, actorID, CreateAdminParams{
		IdentificationNumber: "def-456",
		Email:                "second@example.com",
		FirstName:            "Second",
		LastName:             "Admin",
	})
	if err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}
	if want := mustHash(t, "def-456"); uid != want {
		t.Errorf("admin uid = %q, want hashed id %q", uid, want)
	}
	acc, err := provider.GetAccount(ctx, uid)
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	if !acc.Admin {
		t.Error("admin account must carry the admin claim")
	}
	if dir.admins[uid] == nil {
		t.Error("admin directory record not created")
	}

	// Same identification number again conflicts.
	if _, err := svc.CreateAdmin(ctx, actorID, CreateAdminParams{
		IdentificationNumber: "def-456",
		Email:                "third@example.com",
		FirstName:            "Third",
		LastName:             "Admin",
	}); !errors.Is(err, ErrEmailExists) {
		t.Errorf("CreateAdmin(duplicate id) err = %v, want ErrEmailExists", err)
	}
}

func TestCreateAdmin_ActorNotElevated(t *testing.T) {
	provider := newFakeProvider()
	dir := newFakeDirectory()
	provider.addAccount("staff-1", "staff@example.com", "correct-horse-1", false)
	svc := newTestService(provider, dir)
	ctx := context.Background()

	// The session claim is irrelevant here: the directory is authoritative.
	_, err := svc.CreateAdmin(ctx, "staff-1", CreateAdminParams{
		IdentificationNumber: "def-456",
		Email:                "second@example.com",
		FirstName:            "Second",
		LastName:             "Admin",
	})
	if !errors.Is(err, ErrNotAdmin) {
		t.Errorf("CreateAdmin(non-admin actor) err = %v, want ErrNotAdmin", err)
	}
	if len(dir.admins) != 0 {
		t.Error("no admin record should be created")
	}
}

func TestSetAdminRole(t *testing.T) {
	provider := newFakeProvider()
	dir := newFakeDirectory()
	adminID := provisionAdmin(t, provider, dir, "abc-123")
	provider.addAccount("staff-1", "staff@example.com", "correct-horse-1", false)
	svc := newTestService(provider, dir)
	ctx := context.Background()

	if err := svc.SetAdminRole(ctx, adminID, "staff-1", true); err != nil {
		t.Fatalf("SetAdminRole(grant): %v", err)
	}
	if !provider.accounts["staff-1"].Admin {
		t.Error("account should carry the admin claim after grant")
	}
}

func TestSetAdminRole_RevokeKillsSessions(t *testing.T) {
	provider := newFakeProvider()
	dir := newFakeDirectory()
	adminID := provisionAdmin(t, provider, dir, "abc-123")
	provider.addAccount("u1", "other@example.com", "correct-horse-1", true)
	svc := newTestService(provider, dir)
	ctx := context.Background()

	// Live session for the account being demoted.
	tok, _ := provider.mint("u1")
	cookie, _, err := provider.CreateSessionCookie(ctx, tok, "")
	if err != nil {
		t.Fatalf("CreateSessionCookie: %v", err)
	}

	if err := svc.SetAdminRole(ctx, adminID, "u1", false); err != nil {
		t.Fatalf("SetAdminRole(revoke): %v", err)
	}
	if provider.accounts["u1"].Admin {
		t.Error("account should lose the admin claim")
	}
	// Sessions minted before the demotion must stop verifying; their tokens
	// still carry the stale claim.
	if _, err := provider.VerifySessionCookie(ctx, cookie, true); !errors.Is(err, idp.ErrSessionRevoked) {
		t.Errorf("VerifySessionCookie after demotion err = %v, want ErrSessionRevoked", err)
	}
}

func TestSetAdminRole_Failures(t *testing.T) {
	provider := newFakeProvider()
	dir := newFakeDirectory()
	adminID := provisionAdmin(t, provider, dir, "abc-123")
	provider.addAccount("staff-1", "staff@example.com", "correct-horse-1", false)
	svc := newTestService(provider, dir)
	ctx := context.Background()

	if err := svc.SetAdminRole(ctx, adminID, "nobody", true); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("SetAdminRole(unknown uid) err = %v, want ErrAccountNotFound", err)
	}
	if err := svc.SetAdminRole(ctx, adminID, "  ", true); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("SetAdminRole(blank uid) err = %v, want ErrInvalidInput", err)
	}
	// The directory is authoritative for the actor, not the session claim.
	if err := svc.SetAdminRole(ctx, "staff-1", "staff-1", true); !errors.Is(err, ErrNotAdmin) {
		t.Errorf("SetAdminRole(non-admin actor) err = %v, want ErrNotAdmin", err)
	}
	if provider.accounts["staff-1"].Admin {
		t.Error("claim must not change on a denied request")
	}
}

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		password string
		wantErr  bool
	}{
		{"longenough1", false},
		{"Str0ngPassword", false},
		{"short1", true},
		{"allletters", true},
		{"12345678", true},
		{strings.Repeat("a", 7) + "1", false},
	}
	for _, tc := range cases {
		err := validatePassword(tc.password)
		if (err != nil) != tc.wantErr {
			t.Errorf("validatePassword(%q) err = %v, wantErr %v", tc.password, err, tc.wantErr)
		}
	}
}
