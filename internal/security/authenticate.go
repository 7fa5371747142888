package security

import "strings"

// AuthState is where a request ended up in the bearer-token state machine.
type AuthState int

const (
	StateNoHeader AuthState = iota
	StateNotBearer
	StateExpired
	StateInvalid
	StateAuthenticated
)

func (s AuthState) String() string {
	switch s {
	case StateNoHeader:
		return "no_header"
	case StateNotBearer:
		return "not_bearer"
	case StateExpired:
		return "expired"
	case StateInvalid:
		return "invalid"
	case StateAuthenticated:
		return "authenticated"
	}
	return "unknown"
}

// AuthResult is either unauthenticated (Principal nil) or carries the principal.
type AuthResult struct {
	State     AuthState
	Principal *Principal
	Err       error
}

// Authenticated reports whether a principal was established.
func (r AuthResult) Authenticated() bool {
	return r.State == StateAuthenticated && r.Principal != nil
}

// TokenAuthenticator is the part of TokenProvider the authentication chain needs.
type TokenAuthenticator interface {
	IsExpired(token string) bool
	Authentication(token string) (*Principal, error)
}

const bearerPrefix = "Bearer "

// Authenticate resolves an Authorization header value. It never fails: every problem
// yields an unauthenticated result. Expiry is checked before Authentication is called.
func Authenticate(header string, tokens TokenAuthenticator) AuthResult {
	if strings.TrimSpace(header) == "" {
		return AuthResult{State: StateNoHeader}
	}
	token, ok := strings.CutPrefix(header, bearerPrefix)
	token = strings.TrimSpace(token)
	if !ok || token == "" {
		return AuthResult{State: StateNotBearer}
	}
	if tokens.IsExpired(token) {
		return AuthResult{State: StateExpired, Err: ErrTokenExpired}
	}
	principal, err := tokens.Authentication(token)
	if err != nil {
		return AuthResult{State: StateInvalid, Err: err}
	}
	return AuthResult{State: StateAuthenticated, Principal: principal}
}
