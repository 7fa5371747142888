package security

import (
	"fmt"
	"strings"

	"sideeffect/internal/models"

	"github.com/gobwas/glob"
)

// Access is what a route requires of the caller.
type Access int

const (
	PermitAll Access = iota
	RequireAuthenticated
	RequireAnyRole
)

// Decision is the authorizer's verdict for one request.
type Decision int

const (
	Allow Decision = iota
	DenyUnauthenticated
	DenyForbidden
)

// Rule binds an ant-style path pattern, optionally restricted to one method, to an access requirement.
// "/x/**" matches "/x" and everything below it; "*" matches one path segment.
type Rule struct {
	Method  string
	Pattern string
	Access  Access
	Roles   []models.Role

	matcher glob.Glob
}

// Public permits pattern for every method.
func Public(pattern string) Rule {
	return Rule{Pattern: pattern, Access: PermitAll}
}

// PublicFor permits pattern for method only.
func PublicFor(method, pattern string) Rule {
	return Rule{Method: method, Pattern: pattern, Access: PermitAll}
}

// Authenticated requires any principal for method on pattern.
func Authenticated(method, pattern string) Rule {
	return Rule{Method: method, Pattern: pattern, Access: RequireAuthenticated}
}

// HasAnyRole requires a principal holding one of roles for method on pattern.
func HasAnyRole(method, pattern string, roles ...models.Role) Rule {
	return Rule{Method: method, Pattern: pattern, Access: RequireAnyRole, Roles: roles}
}

// RoutePolicy is an ordered rule table; the first matching rule wins and unmatched routes are allowed.
type RoutePolicy struct {
	rules []Rule
}

// NewRoutePolicy compiles rules in order.
func NewRoutePolicy(rules ...Rule) (*RoutePolicy, error) {
	compiled := make([]Rule, 0, len(rules))
	for _, r := range rules {
		g, err := glob.Compile(antToGlob(r.Pattern), '/')
		if err != nil {
			return nil, fmt.Errorf("compile route pattern %q: %w", r.Pattern, err)
		}
		r.matcher = g
		r.Method = strings.ToUpper(r.Method)
		compiled = append(compiled, r)
	}
	return &RoutePolicy{rules: compiled}, nil
}

// MustRoutePolicy is NewRoutePolicy for static tables.
func MustRoutePolicy(rules ...Rule) *RoutePolicy {
	p, err := NewRoutePolicy(rules...)
	if err != nil {
		panic(err)
	}
	return p
}

// DefaultRules is the access table for the API mounted under prefix.
func DefaultRules(prefix string) []Rule {
	return []Rule{
		Public(prefix + "/user/join"),
		Public(prefix + "/user/login"),
		Public(prefix + "/user/mypage/**"),
		Public(prefix + "/user/duple/**"),
		Public(prefix + "/social/login"),
		PublicFor("POST", prefix+"/token/at-issue/**"),
		PublicFor("GET", prefix+"/free-boards/**"),
		HasAnyRole("POST", prefix+"/like/**", models.RoleUser, models.RoleAdmin),
		Authenticated("POST", "/**"),
		Authenticated("PUT", "/**"),
		Authenticated("PATCH", "/**"),
		Authenticated("DELETE", "/**"),
	}
}

// Match returns the first rule covering method and path.
func (p *RoutePolicy) Match(method, path string) (Rule, bool) {
	method = strings.ToUpper(method)
	path = normalizePath(path)
	for _, r := range p.rules {
		if r.Method != "" && r.Method != method {
			continue
		}
		if r.matcher.Match(path) {
			return r, true
		}
	}
	return Rule{}, false
}

// Decide applies the table to a request made by principal, which may be nil.
func (p *RoutePolicy) Decide(method, path string, principal *Principal) Decision {
	rule, ok := p.Match(method, path)
	if !ok {
		return Allow
	}
	switch rule.Access {
	case PermitAll:
		return Allow
	case RequireAuthenticated:
		if principal == nil {
			return DenyUnauthenticated
		}
		return Allow
	case RequireAnyRole:
		if principal == nil {
			return DenyUnauthenticated
		}
		if !principal.HasAnyRole(rule.Roles...) {
			return DenyForbidden
		}
		return Allow
	}
	return DenyForbidden
}

func antToGlob(pattern string) string {
	if base, ok := strings.CutSuffix(pattern, "/**"); ok && base != "" {
		return "{" + base + "," + base + "/**}"
	}
	return pattern
}

// normalizePath matches the router's case-insensitive, trailing-slash-tolerant lookup.
func normalizePath(path string) string {
	path = strings.ToLower(path)
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	if path == "" {
		return "/"
	}
	return path
}
