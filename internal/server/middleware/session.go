package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"arc-staff-portal/internal/idp"
)

const bearerPrefix = "bearer "

// RequireSession guards API endpoints: the request must carry a valid session
// artifact, either as the session cookie or as a Bearer token. The verified
// identity is placed in context. Failures return 401 JSON, never a redirect;
// these routes sit in the gate's bypass zone and authenticate here instead.
func RequireSession(provider idp.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			artifact := sessionArtifact(r)
			if artifact == "" {
				unauthorized(w)
				return
			}
			ident, err := provider.VerifySessionCookie(r.Context(), artifact, true)
			if err != nil {
				unauthorized(w)
				return
			}
			ctx := WithIdentity(r.Context(), ident.UID, ident.Admin, ident.SessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionArtifact returns the session artifact from the cookie, falling back
// to the Authorization header, or "".
func sessionArtifact(r *http.Request) string {
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	return ExtractBearer(r)
}

// ExtractBearer returns the Bearer token from the Authorization header, or ""
// if missing or malformed.
func ExtractBearer(r *http.Request) string {
	v := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(v) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthenticated"})
}
