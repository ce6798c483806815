package middleware

import "strings"

// Zone is the access classification of a request path.
type Zone int

const (
	// ZoneBypass covers API routes, framework internals, and static assets;
	// the gate lets them through untouched (API routes authenticate per handler).
	ZoneBypass Zone = iota
	// ZonePublic requires no session.
	ZonePublic
	// ZoneStaff requires a valid session.
	ZoneStaff
	// ZoneAdmin requires a valid session carrying the elevated claim.
	ZoneAdmin
)

func (z Zone) String() string {
	switch z {
	case ZoneBypass:
		return "bypass"
	case ZonePublic:
		return "public"
	case ZoneStaff:
		return "staff"
	case ZoneAdmin:
		return "admin"
	}
	return "unknown"
}

// Classifier maps request paths to zones using a fixed, ordered rule set.
// The table is total: anything unmatched falls through to the staff zone,
// the conservative default.
type Classifier struct {
	bypassPrefixes []string
	adminPrefixes  []string
	staffPrefixes  []string
	publicExact    map[string]bool
}

// NewClassifier returns the portal's route table.
func NewClassifier() *Classifier {
	return &Classifier{
		bypassPrefixes: []string{"/api", "/_next", "/favicon.ico"},
		adminPrefixes:  []string{"/admin", "/admin-only"},
		staffPrefixes:  []string{"/dashboard", "/profile"},
		// Exact match only: a prefix match here would accidentally whitelist
		// protected sub-paths such as /admin under /.
		publicExact: map[string]bool{
			"/":               true,
			"/login":          true,
			"/admin/login":    true,
			"/admin/register": true,
		},
	}
}

// Classify returns the zone for path. Rules are checked in order: bypass,
// then public exact matches, then admin prefixes, then staff prefixes, then
// the staff default. Public exact matches are tested before the admin prefix
// set so that /admin/login and /admin/register stay reachable while
// everything else under /admin remains admin-protected.
func (c *Classifier) Classify(path string) Zone {
	if path == "" {
		path = "/"
	}
	for _, p := range c.bypassPrefixes {
		if hasPathPrefix(path, p) {
			return ZoneBypass
		}
	}
	// Paths with a file extension are static assets.
	if strings.Contains(lastSegment(path), ".") {
		return ZoneBypass
	}
	if c.publicExact[path] {
		return ZonePublic
	}
	for _, p := range c.adminPrefixes {
		if hasPathPrefix(path, p) {
			return ZoneAdmin
		}
	}
	for _, p := range c.staffPrefixes {
		if hasPathPrefix(path, p) {
			return ZoneStaff
		}
	}
	return ZoneStaff
}

// hasPathPrefix reports whether path is prefix itself or a sub-path of it.
// A plain strings.HasPrefix would make /dashboard2 match /dashboard.
func hasPathPrefix(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}

func lastSegment(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}
