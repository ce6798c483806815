package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"arc-staff-portal/internal/auth/service"
	"arc-staff-portal/internal/platform/rbac"
	"arc-staff-portal/internal/server/middleware"
	"arc-staff-portal/internal/server/respond"
)

// Handler exposes the auth and provisioning endpoints.
type Handler struct {
	svc           *service.AuthService
	checker       rbac.ElevationChecker
	sessionTTL    time.Duration
	secureCookies bool
}

// NewHandler returns the auth HTTP handler. secureCookies marks the session
// cookie Secure; set it in production.
func NewHandler(svc *service.AuthService, checker rbac.ElevationChecker, sessionTTL time.Duration, secureCookies bool) *Handler {
	return &Handler{svc: svc, checker: checker, sessionTTL: sessionTTL, secureCookies: secureCookies}
}

// Login handles POST /api/login: exchanges email+password for an ID token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"idToken": res.IDToken,
		"uid":     res.Identity.UID,
		"admin":   res.Identity.Admin,
	})
}

// SessionLogin handles POST /api/session-login: exchanges a fresh ID token
// for the session cookie.
func (h *Handler) SessionLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDToken string `json:"idToken"`
	}
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	cookie, expiresAt, err := h.svc.SessionLogin(r.Context(), req.IDToken, middleware.IPFromContext(r.Context()))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.setSessionCookie(w, cookie, expiresAt)
	respond.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// UserSession handles GET /api/user-session: returns the identity behind the
// session cookie.
func (h *Handler) UserSession(w http.ResponseWriter, r *http.Request) {
	ident, err := h.svc.UserSession(r.Context(), sessionCookie(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"uid":   ident.UID,
		"email": ident.Email,
		"name":  ident.Name,
		"admin": ident.Admin,
	})
}

// Logout handles POST /api/logout: revokes the session and clears the cookie.
// Always succeeds; an invalid cookie still gets cleared.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(r.Context(), sessionCookie(r)); err != nil {
		log.Printf("auth: logout: %v", err)
	}
	h.clearSessionCookie(w)
	respond.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// GetCustomToken handles POST /api/get-custom-token: exchanges an IT-admin
// identification number for a bootstrap token.
func (h *Handler) GetCustomToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IdentificationNumber string `json:"identificationNumber"`
	}
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	token, err := h.svc.GetCustomToken(r.Context(), req.IdentificationNumber)
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"customToken": token})
}

// VerifyAdmin handles POST /api/verify-admin: confirms a sponsoring IT admin
// exists for the given identification number.
func (h *Handler) VerifyAdmin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IdentificationNumber string `json:"identificationNumber"`
	}
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	hashedID, err := h.svc.VerifyAdmin(r.Context(), req.IdentificationNumber)
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"success": true, "hashedID": hashedID})
}

// AuthoriseStaff handles POST /api/authorise-staff: verifies the Bearer ID
// token and returns the staff profile.
func (h *Handler) AuthoriseStaff(w http.ResponseWriter, r *http.Request) {
	staff, err := h.svc.AuthoriseStaff(r.Context(), middleware.ExtractBearer(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"staff": map[string]any{
			"uid":       staff.UID,
			"email":     staff.Email,
			"firstName": staff.FirstName,
			"lastName":  staff.LastName,
			"role":      staff.Role,
		},
	})
}

// RegisterStaff handles POST /api/register-staff: staff self-registration
// sponsored by an IT admin's identification number.
func (h *Handler) RegisterStaff(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email                string `json:"email"`
		Password             string `json:"password"`
		FirstName            string `json:"firstName"`
		LastName             string `json:"lastName"`
		IdentificationNumber string `json:"identificationNumber"`
	}
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	uid, err := h.svc.RegisterStaff(r.Context(), service.RegisterStaffParams{
		Email:                req.Email,
		Password:             req.Password,
		FirstName:            req.FirstName,
		LastName:             req.LastName,
		IdentificationNumber: req.IdentificationNumber,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, map[string]string{"uid": uid})
}

// CreateAdmin handles POST /api/create-admin. The route is mounted behind the
// session guard; on top of the session claim this re-checks the directory.
func (h *Handler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	actorUID, err := rbac.RequireAdmin(r.Context(), h.checker)
	if err != nil {
		h.writeError(w, err)
		return
	}
	var req struct {
		IdentificationNumber string `json:"identificationNumber"`
		Email                string `json:"email"`
		FirstName            string `json:"firstName"`
		LastName             string `json:"lastName"`
	}
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	uid, err := h.svc.CreateAdmin(r.Context(), actorUID, service.CreateAdminParams{
		IdentificationNumber: req.IdentificationNumber,
		Email:                req.Email,
		FirstName:            req.FirstName,
		LastName:             req.LastName,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, map[string]string{"uid": uid})
}

// SetAdminRole handles POST /api/set-admin: grants or revokes the admin claim
// on an account. Mounted behind the session guard with the same directory
// re-check as CreateAdmin.
func (h *Handler) SetAdminRole(w http.ResponseWriter, r *http.Request) {
	actorUID, err := rbac.RequireAdmin(r.Context(), h.checker)
	if err != nil {
		h.writeError(w, err)
		return
	}
	var req struct {
		UID   string `json:"uid"`
		Admin bool   `json:"admin"`
	}
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.svc.SetAdminRole(r.Context(), actorUID, req.UID, req.Admin); err != nil {
		h.writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, value string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func sessionCookie(r *http.Request) string {
	c, err := r.Cookie(middleware.SessionCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// writeError maps service errors to HTTP status codes. Everything unmapped is
// a 500 with a generic body; the cause is logged server-side only.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		respond.Error(w, http.StatusBadRequest, "invalid input")
	case errors.Is(err, service.ErrInvalidCredentials):
		respond.Error(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, service.ErrUnauthenticated), errors.Is(err, rbac.ErrUnauthenticated):
		respond.Error(w, http.StatusUnauthorized, "unauthenticated")
	case errors.Is(err, service.ErrNotStaff), errors.Is(err, service.ErrNotAdmin), errors.Is(err, rbac.ErrForbidden):
		respond.Error(w, http.StatusForbidden, "insufficient privilege")
	case errors.Is(err, service.ErrAdminNotFound), errors.Is(err, service.ErrAccountNotFound):
		respond.Error(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrEmailExists):
		respond.Error(w, http.StatusConflict, "already exists")
	default:
		log.Printf("auth: %v", err)
		respond.Error(w, http.StatusInternalServerError, "internal error")
	}
}
