package middleware

import (
	"net/http"

	"arc-staff-portal/internal/idp"
)

// SessionCookieName is the cookie holding the session artifact.
const SessionCookieName = "session"

// Login surfaces the gate redirects to. Staff and admin zones each have their
// own; every failure within a zone lands on the same one.
const (
	LoginPath      = "/login"
	AdminLoginPath = "/admin/login"
)

// Gate enforces the route table on page requests. All verification failures
// for a zone collapse into that zone's redirect: the response never reveals
// whether a cookie was absent, expired, tampered, or merely unprivileged.
type Gate struct {
	classifier *Classifier
	provider   idp.Provider
}

// NewGate returns a Gate using the given classifier and identity provider.
func NewGate(classifier *Classifier, provider idp.Provider) *Gate {
	return &Gate{classifier: classifier, provider: provider}
}

// Handler wraps next with zone enforcement. Allowed requests carry the
// verified identity in context when a valid session was presented.
func (g *Gate) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		zone := g.classifier.Classify(r.URL.Path)
		if zone == ZoneBypass {
			next.ServeHTTP(w, r)
			return
		}

		ident := g.verify(r)
		if zone == ZonePublic {
			// Public pages render for everyone; a valid session still gets
			// its identity attached so pages can offer a signed-in view.
			if ident != nil {
				r = r.WithContext(WithIdentity(r.Context(), ident.UID, ident.Admin, ident.SessionID))
			}
			next.ServeHTTP(w, r)
			return
		}

		if ident == nil {
			redirectForZone(w, r, zone)
			return
		}
		if zone == ZoneAdmin && !ident.Admin {
			// A valid but unprivileged session gets the same redirect as no
			// session at all.
			redirectForZone(w, r, zone)
			return
		}

		r = r.WithContext(WithIdentity(r.Context(), ident.UID, ident.Admin, ident.SessionID))
		next.ServeHTTP(w, r)
	})
}

// verify returns the identity behind the request's session cookie, or nil.
// Any error from the provider counts as no session: the gate fails closed.
func (g *Gate) verify(r *http.Request) *idp.Identity {
	c, err := r.Cookie(SessionCookieName)
	if err != nil || c.Value == "" {
		return nil
	}
	ident, err := g.provider.VerifySessionCookie(r.Context(), c.Value, true)
	if err != nil {
		return nil
	}
	return ident
}

func redirectForZone(w http.ResponseWriter, r *http.Request, zone Zone) {
	target := LoginPath
	if zone == ZoneAdmin {
		target = AdminLoginPath
	}
	http.Redirect(w, r, target, http.StatusFound)
}
