package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"sideeffect/internal/config"
	"sideeffect/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type linkerFunc func(ctx context.Context, p Profile) (*models.User, error)

func (f linkerFunc) FindOrCreateSocial(ctx context.Context, p Profile) (*models.User, error) {
	return f(ctx, p)
}

func fakeProvider(t *testing.T, userInfo map[string]any) (Provider, *httptest.Server) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.Form.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"provider-at","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer provider-at" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(userInfo)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return Provider{
		Name: "kakao",
		Config: &oauth2.Config{
			ClientID:     "client",
			ClientSecret: "secret",
			Endpoint: oauth2.Endpoint{
				AuthURL:   srv.URL + "/authorize",
				TokenURL:  srv.URL + "/token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		UserInfoURL:   srv.URL + "/userinfo",
		IDField:       "id",
		EmailField:    "kakao_account.email",
		NicknameField: "properties.nickname",
	}, srv
}

func TestAdapter_Login(t *testing.T) {
	provider, _ := fakeProvider(t, map[string]any{
		"id":            1234567890,
		"kakao_account": map[string]any{"email": "kim@example.com"},
		"properties":    map[string]any{"nickname": "kim"},
	})

	var got Profile
	linker := linkerFunc(func(_ context.Context, p Profile) (*models.User, error) {
		got = p
		return &models.User{ID: 7, Nickname: p.Nickname, Role: models.RoleUser}, nil
	})

	user, err := NewAdapter(linker, provider).Login(context.Background(), "KAKAO", "good-code")
	require.NoError(t, err)
	assert.Equal(t, uint(7), user.ID)
	assert.Equal(t, Profile{
		Provider:   "kakao",
		ExternalID: "1234567890",
		Email:      "kim@example.com",
		Nickname:   "kim",
	}, got)
}

func TestAdapter_LoginFailures(t *testing.T) {
	provider, _ := fakeProvider(t, map[string]any{"properties": map[string]any{"nickname": "anon"}})
	called := false
	linker := linkerFunc(func(context.Context, Profile) (*models.User, error) {
		called = true
		return nil, nil
	})
	adapter := NewAdapter(linker, provider)

	_, err := adapter.Login(context.Background(), "naver", "good-code")
	assert.ErrorIs(t, err, ErrUnknownProvider)

	_, err = adapter.Login(context.Background(), "kakao", "  ")
	assert.ErrorIs(t, err, ErrMissingCode)

	_, err = adapter.Login(context.Background(), "kakao", "bad-code")
	assert.Error(t, err)

	_, err = adapter.Login(context.Background(), "kakao", "good-code")
	assert.ErrorIs(t, err, ErrIncompleteProfile)

	assert.False(t, called)
}

func TestProvidersFromConfig(t *testing.T) {
	cfg := &config.Config{
		GoogleClientID: "g",
		KakaoClientID:  "k",
	}
	adapter := NewAdapter(nil, ProvidersFromConfig(cfg)...)
	assert.True(t, adapter.Has("google"))
	assert.True(t, adapter.Has("Kakao"))
	assert.False(t, adapter.Has("github"))
}

func TestLookup(t *testing.T) {
	doc := map[string]any{
		"id":  float64(42),
		"a":   map[string]any{"b": map[string]any{"c": "deep"}},
		"arr": []any{"x"},
	}
	assert.Equal(t, "42", lookup(doc, "id"))
	assert.Equal(t, "deep", lookup(doc, "a.b.c"))
	assert.Equal(t, "", lookup(doc, "a.missing.c"))
	assert.Equal(t, "", lookup(doc, "arr.0"))
	assert.Equal(t, "", lookup(doc, ""))
}
