// Package security issues and validates tokens and decides route access.
package security

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"sideeffect/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims is the access token payload. The subject carries the user id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Principal is the authenticated identity attached to a request.
type Principal struct {
	UserID uint
	Role   models.Role
}

// HasAnyRole reports whether the principal holds one of roles.
func (p *Principal) HasAnyRole(roles ...models.Role) bool {
	if p == nil {
		return false
	}
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

// Validation is the outcome of checking a token. Expired implies !Valid.
type Validation struct {
	Valid   bool
	Expired bool
	Claims  *Claims
	Err     error
}

// TokenProvider signs and verifies HS256 access tokens with a process-wide secret.
type TokenProvider struct {
	secret    []byte
	issuer    string
	accessTTL time.Duration
	now       func() time.Time
}

// NewTokenProvider returns a provider for secret. accessTTL is used by IssueAccessToken.
func NewTokenProvider(secret, issuer string, accessTTL time.Duration) *TokenProvider {
	return &TokenProvider{
		secret:    []byte(secret),
		issuer:    issuer,
		accessTTL: accessTTL,
		now:       time.Now,
	}
}

// WithClock replaces the time source; used by tests.
func (p *TokenProvider) WithClock(now func() time.Time) *TokenProvider {
	cp := *p
	cp.now = now
	return &cp
}

// AccessTTL is the lifetime of tokens from IssueAccessToken.
func (p *TokenProvider) AccessTTL() time.Duration {
	return p.accessTTL
}

// Issue signs a token for identity with role, valid for ttl.
func (p *TokenProvider) Issue(identity uint, role models.Role, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", fmt.Errorf("token ttl must be positive, got %s", ttl)
	}
	now := p.now()
	claims := Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(identity), 10),
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}

// IssueAccessToken signs a token for u with the configured access TTL.
func (p *TokenProvider) IssueAccessToken(u *models.User) (string, error) {
	return p.Issue(u.ID, u.Role, p.accessTTL)
}

// Validate checks signature, issuer and time claims. It never panics on malformed input.
func (p *TokenProvider) Validate(token string) Validation {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(p.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return Validation{Expired: true, Claims: claims, Err: ErrTokenExpired}
	case err != nil:
		return Validation{Err: fmt.Errorf("%w: %v", ErrTokenInvalid, err)}
	case !parsed.Valid:
		return Validation{Err: ErrTokenInvalid}
	}
	return Validation{Valid: true, Claims: claims}
}

// IsExpired reports whether token is correctly signed but past its expiry.
func (p *TokenProvider) IsExpired(token string) bool {
	return p.Validate(token).Expired
}

// Authentication resolves a valid token into its principal.
func (p *TokenProvider) Authentication(token string) (*Principal, error) {
	v := p.Validate(token)
	if !v.Valid {
		return nil, v.Err
	}
	id, err := strconv.ParseUint(v.Claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return nil, fmt.Errorf("%w: bad subject %q", ErrTokenInvalid, v.Claims.Subject)
	}
	role, ok := models.ParseRole(v.Claims.Role)
	if !ok {
		return nil, fmt.Errorf("%w: bad role %q", ErrTokenInvalid, v.Claims.Role)
	}
	return &Principal{UserID: uint(id), Role: role}, nil
}
