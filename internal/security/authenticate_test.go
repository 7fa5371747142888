package security

import (
	"errors"
	"testing"

	"sideeffect/internal/models"

	"github.com/stretchr/testify/assert"
)

type spyTokens struct {
	expired     bool
	authErr     error
	principal   *Principal
	authCalls   int
	expiryCalls int
	lastToken   string
}

func (s *spyTokens) IsExpired(token string) bool {
	s.expiryCalls++
	s.lastToken = token
	return s.expired
}

func (s *spyTokens) Authentication(token string) (*Principal, error) {
	s.authCalls++
	if s.authErr != nil {
		return nil, s.authErr
	}
	return s.principal, nil
}

func TestAuthenticate_StateMachine(t *testing.T) {
	alice := &Principal{UserID: 7, Role: models.RoleUser}

	tests := []struct {
		name          string
		header        string
		spy           *spyTokens
		wantState     AuthState
		wantAuthCalls int
	}{
		{"no header", "", &spyTokens{}, StateNoHeader, 0},
		{"blank header", "   ", &spyTokens{}, StateNoHeader, 0},
		{"basic scheme", "Basic dXNlcjpwYXNz", &spyTokens{}, StateNotBearer, 0},
		{"lower-case bearer", "bearer abc", &spyTokens{}, StateNotBearer, 0},
		{"bearer without token", "Bearer ", &spyTokens{}, StateNotBearer, 0},
		{"expired", "Bearer abc", &spyTokens{expired: true}, StateExpired, 0},
		{"malformed", "Bearer abc", &spyTokens{authErr: errors.New("bad")}, StateInvalid, 1},
		{"valid", "Bearer abc", &spyTokens{principal: alice}, StateAuthenticated, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var result AuthResult
			assert.NotPanics(t, func() { result = Authenticate(tt.header, tt.spy) })

			assert.Equal(t, tt.wantState, result.State)
			assert.Equal(t, tt.wantAuthCalls, tt.spy.authCalls)
			if tt.wantState == StateAuthenticated {
				assert.True(t, result.Authenticated())
				assert.Same(t, alice, result.Principal)
			} else {
				assert.False(t, result.Authenticated())
				assert.Nil(t, result.Principal)
			}
		})
	}
}

func TestAuthenticate_ExpiredNeverReachesAuthentication(t *testing.T) {
	spy := &spyTokens{expired: true, principal: &Principal{UserID: 1}}
	for range 5 {
		Authenticate("Bearer token-value", spy)
	}
	assert.Equal(t, 5, spy.expiryCalls)
	assert.Zero(t, spy.authCalls)
	assert.Equal(t, "token-value", spy.lastToken)
}

func TestAuthState_String(t *testing.T) {
	assert.Equal(t, "expired", StateExpired.String())
	assert.Equal(t, "authenticated", StateAuthenticated.String())
}
