package domain

import "time"

// Session is the server-side record behind a session cookie. The cookie's JWT
// carries the claim set; this row carries the revocation flag that forced-logout
// checks consult. Sessions are never mutated into a new claim set; a claim change
// requires issuing a new session.
type Session struct {
	ID        string
	UID       string
	ExpiresAt time.Time
	RevokedAt *time.Time // nil when not revoked
	IP        string
	CreatedAt time.Time
}

// Active reports whether the session is unrevoked and unexpired at now.
func (s *Session) Active(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
