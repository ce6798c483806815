package middleware

import (
	"context"
	"net"
	"net/http"
)

type contextKey struct{ name string }

var (
	uidKey       = contextKey{"uid"}
	adminKey     = contextKey{"admin"}
	sessionIDKey = contextKey{"session_id"}
	clientIPKey  = contextKey{"client_ip"}
)

// WithIdentity returns a context with the verified uid, admin claim, and
// session id set. Handlers read these via GetUID, IsAdmin, GetSessionID.
func WithIdentity(ctx context.Context, uid string, admin bool, sessionID string) context.Context {
	ctx = context.WithValue(ctx, uidKey, uid)
	ctx = context.WithValue(ctx, adminKey, admin)
	ctx = context.WithValue(ctx, sessionIDKey, sessionID)
	return ctx
}

// GetUID returns the verified uid from context and true if set; otherwise "", false.
func GetUID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(uidKey).(string)
	return v, ok
}

// IsAdmin returns the admin claim carried by the verified session, or false if
// no identity is set. This is the cheap claim check; privileged mutations do an
// authoritative directory lookup on top of it.
func IsAdmin(ctx context.Context) bool {
	v, _ := ctx.Value(adminKey).(bool)
	return v
}

// GetSessionID returns the session id from context and true if set; otherwise "", false.
func GetSessionID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(sessionIDKey).(string)
	return v, ok
}

// ClientIP is middleware that records the request's remote IP in the context
// for audit logging.
func ClientIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), clientIPKey, host)))
	})
}

// IPFromContext returns the client IP recorded by ClientIP, or "unknown".
// It satisfies the audit logger's IP extractor.
func IPFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(clientIPKey).(string); ok && v != "" {
		return v
	}
	return "unknown"
}
