// Package oauth exchanges third-party authorization codes for internal users.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"sideeffect/internal/config"
	"sideeffect/internal/models"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

var (
	ErrUnknownProvider   = errors.New("unknown oauth provider")
	ErrMissingCode       = errors.New("authorization code is required")
	ErrIncompleteProfile = errors.New("provider profile has no id")
)

// Profile is the provider account reduced to what the board needs.
type Profile struct {
	Provider   string
	ExternalID string
	Email      string
	Nickname   string
}

// UserLinker finds or creates the internal user for a provider profile.
type UserLinker interface {
	FindOrCreateSocial(ctx context.Context, profile Profile) (*models.User, error)
}

// Provider describes one OAuth2 identity provider.
type Provider struct {
	Name        string
	Config      *oauth2.Config
	UserInfoURL string
	// Dotted paths into the user-info JSON document.
	IDField       string
	EmailField    string
	NicknameField string
}

// Adapter runs the authorization-code exchange for every configured provider.
type Adapter struct {
	providers map[string]Provider
	users     UserLinker
}

// NewAdapter returns an adapter over providers.
func NewAdapter(users UserLinker, providers ...Provider) *Adapter {
	m := make(map[string]Provider, len(providers))
	for _, p := range providers {
		m[strings.ToLower(p.Name)] = p
	}
	return &Adapter{providers: m, users: users}
}

// ProvidersFromConfig builds the providers that have client credentials configured.
func ProvidersFromConfig(cfg *config.Config) []Provider {
	var out []Provider
	if cfg.GoogleClientID != "" {
		out = append(out, Provider{
			Name: "google",
			Config: &oauth2.Config{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				RedirectURL:  cfg.GoogleRedirectURL,
				Endpoint:     endpoints.Google,
				Scopes:       []string{"openid", "email", "profile"},
			},
			UserInfoURL:   "https://openidconnect.googleapis.com/v1/userinfo",
			IDField:       "sub",
			EmailField:    "email",
			NicknameField: "name",
		})
	}
	if cfg.GithubClientID != "" {
		out = append(out, Provider{
			Name: "github",
			Config: &oauth2.Config{
				ClientID:     cfg.GithubClientID,
				ClientSecret: cfg.GithubClientSecret,
				RedirectURL:  cfg.GithubRedirectURL,
				Endpoint:     endpoints.GitHub,
				Scopes:       []string{"read:user", "user:email"},
			},
			UserInfoURL:   "https://api.github.com/user",
			IDField:       "id",
			EmailField:    "email",
			NicknameField: "login",
		})
	}
	if cfg.KakaoClientID != "" {
		out = append(out, Provider{
			Name: "kakao",
			Config: &oauth2.Config{
				ClientID:     cfg.KakaoClientID,
				ClientSecret: cfg.KakaoClientSecret,
				RedirectURL:  cfg.KakaoRedirectURL,
				Endpoint: oauth2.Endpoint{
					AuthURL:   "https://kauth.kakao.com/oauth/authorize",
					TokenURL:  "https://kauth.kakao.com/oauth/token",
					AuthStyle: oauth2.AuthStyleInParams,
				},
			},
			UserInfoURL:   "https://kapi.kakao.com/v2/user/me",
			IDField:       "id",
			EmailField:    "kakao_account.email",
			NicknameField: "properties.nickname",
		})
	}
	return out
}

// Has reports whether provider is configured.
func (a *Adapter) Has(provider string) bool {
	_, ok := a.providers[strings.ToLower(provider)]
	return ok
}

// Login exchanges code with provider and returns the linked internal user.
func (a *Adapter) Login(ctx context.Context, provider, code string) (*models.User, error) {
	p, ok := a.providers[strings.ToLower(provider)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
	if strings.TrimSpace(code) == "" {
		return nil, ErrMissingCode
	}

	token, err := p.Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange %s code: %w", p.Name, err)
	}

	profile, err := p.fetchProfile(ctx, token)
	if err != nil {
		return nil, err
	}
	return a.users.FindOrCreateSocial(ctx, profile)
}

func (p Provider) fetchProfile(ctx context.Context, token *oauth2.Token) (Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.UserInfoURL, nil)
	if err != nil {
		return Profile{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.Config.Client(ctx, token).Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("fetch %s profile: %w", p.Name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Profile{}, fmt.Errorf("read %s profile: %w", p.Name, err)
	}
	if resp.StatusCode != http.StatusOK {
		return Profile{}, fmt.Errorf("fetch %s profile: status %d", p.Name, resp.StatusCode)
	}

	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return Profile{}, fmt.Errorf("decode %s profile: %w", p.Name, err)
	}

	profile := Profile{
		Provider:   p.Name,
		ExternalID: lookup(doc, p.IDField),
		Email:      lookup(doc, p.EmailField),
		Nickname:   lookup(doc, p.NicknameField),
	}
	if profile.ExternalID == "" {
		return Profile{}, fmt.Errorf("%w: %s", ErrIncompleteProfile, p.Name)
	}
	return profile, nil
}

// lookup follows a dotted path through nested JSON objects and stringifies the leaf.
func lookup(doc map[string]any, path string) string {
	if path == "" {
		return ""
	}
	var cur any = doc
	for _, key := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return ""
		}
		cur = obj[key]
	}
	switch v := cur.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	}
	return ""
}
