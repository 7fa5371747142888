package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"sideeffect/internal/config"
	"sideeffect/internal/database"
	"sideeffect/internal/models"
	"sideeffect/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	server *Server
	app    *fiber.App
	db     *gorm.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(database.SQLiteDSN(":memory:")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.AutoMigrate(db))

	cfg := &config.Config{
		Env:              "test",
		Port:             "0",
		JWTSecret:        "test-secret-with-enough-entropy",
		JWTIssuer:        "sideeffect-test",
		AccessTokenTTL:   30 * time.Minute,
		RefreshTokenTTL:  24 * time.Hour,
		AllowedOrigins:   "http://localhost:3000",
		StorageDriver:    "local",
		UploadDir:        t.TempDir(),
		ImageMaxUploadMB: 2,
	}
	store, err := storage.NewLocalStore(cfg.UploadDir, "/uploads")
	require.NoError(t, err)

	s, err := NewServerWithDeps(cfg, db, nil, store)
	require.NoError(t, err)
	return &testEnv{server: s, app: s.NewApp(), db: db}
}

func (e *testEnv) createUser(t *testing.T, nickname string) (*models.User, string) {
	t.Helper()
	u := &models.User{Nickname: nickname, Role: models.RoleUser, Provider: models.ProviderLocal}
	require.NoError(t, e.db.Create(u).Error)
	token, err := e.server.tokens.IssueAccessToken(u)
	require.NoError(t, err)
	return u, token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func refreshCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == refreshCookieName {
			return c
		}
	}
	return nil
}

func TestLivenessCheck(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	assert.Equal(t, "healthy", body["status"])
}

func TestJoinLoginAndRefresh(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/user/join", "", map[string]string{
		"email":    "Dev@Example.com",
		"password": "password123",
		"nickname": "devkim",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/user/duple/email?email=dev@example.com", "", nil)
	assert.Equal(t, true, decode[map[string]bool](t, resp)["duplicate"])

	form := url.Values{"email": {"dev@example.com"}, "password": {"password123"}}
	req := httptest.NewRequest(http.MethodPost, "/api/user/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cookie := refreshCookie(resp)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	login := decode[map[string]any](t, resp)
	access, _ := login["accessToken"].(string)
	require.NotEmpty(t, access)
	assert.Equal(t, "Bearer", login["tokenType"])

	resp = env.do(t, http.MethodGet, "/api/user/me", access, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "devkim", decode[map[string]any](t, resp)["nickname"])

	refresh := func(value string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/api/token/at-issue", nil)
		req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: value})
		resp, err := env.app.Test(req, -1)
		require.NoError(t, err)
		return resp
	}
	resp = refresh(cookie.Value)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rotated := refreshCookie(resp)
	require.NotNil(t, rotated)
	assert.NotEqual(t, cookie.Value, rotated.Value)

	// The consumed token cannot be replayed.
	resp = refresh(cookie.Value)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestFormLoginFailure(t *testing.T) {
	env := newTestEnv(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	email := "dev@example.com"
	require.NoError(t, env.db.Create(&models.User{
		Email: &email, Password: string(hash), Nickname: "dev", Role: models.RoleUser, Provider: models.ProviderLocal,
	}).Error)

	resp := env.do(t, http.MethodPost, "/api/user/login", "", map[string]string{"email": email, "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decode[models.ErrorResponse](t, resp)
	assert.Equal(t, models.CodeLoginFailed, body.Code)
	assert.Nil(t, refreshCookie(resp))
}

func TestSocialLogin_UnknownProvider(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/api/social/login", "", map[string]string{"provider": "myspace", "code": "abc"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSecurityFilters(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "writer")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"public read", http.MethodGet, "/api/free-boards/scroll", "", http.StatusOK},
		{"public read ignores a bad token", http.MethodGet, "/api/free-boards/scroll", "garbage", http.StatusOK},
		{"write without token", http.MethodPost, "/api/free-boards", "", http.StatusUnauthorized},
		{"write with bad token", http.MethodPost, "/api/comments", "not-a-jwt", http.StatusUnauthorized},
		{"like without token", http.MethodPost, "/api/like/free-boards/1", "", http.StatusUnauthorized},
		{"me without token", http.MethodGet, "/api/user/me", "", http.StatusUnauthorized},
		{"like on missing board", http.MethodPost, "/api/like/free-boards/999", token, http.StatusNotFound},
		{"invalid id", http.MethodGet, "/api/free-boards/abc", "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.do(t, tt.method, tt.path, tt.token, nil)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestFreeBoardFlow(t *testing.T) {
	env := newTestEnv(t)
	_, ownerToken := env.createUser(t, "owner")
	_, otherToken := env.createUser(t, "other")

	resp := env.do(t, http.MethodPost, "/api/free-boards", ownerToken, map[string]string{
		"title":      "Side project",
		"content":    "Built over the weekend",
		"projectUrl": "https://example.com/app",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := int(decode[map[string]any](t, resp)["id"].(float64))
	path := "/api/free-boards/" + strconv.Itoa(id)

	resp = env.do(t, http.MethodPost, "/api/free-boards", otherToken, map[string]string{
		"title": "Copy", "content": "Same url", "projectUrl": "https://example.com/app",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/free-boards/scroll?size=5", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decode[map[string]any](t, resp)
	assert.Len(t, page["boards"], 1)
	assert.Equal(t, false, page["hasNext"])

	resp = env.do(t, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), decode[map[string]any](t, resp)["views"])

	resp = env.do(t, http.MethodPatch, path, otherToken, map[string]string{"title": "hijack"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.do(t, http.MethodPatch, path, ownerToken, map[string]string{"title": "Renamed"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Renamed", decode[map[string]any](t, resp)["title"])

	resp = env.do(t, http.MethodPost, "/api/recommend/"+strconv.Itoa(id), otherToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, decode[map[string]bool](t, resp)["recommend"])

	resp = env.do(t, http.MethodPost, "/api/comments", otherToken, map[string]any{"boardId": id, "content": "nice"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.do(t, http.MethodGet, path, otherToken, nil)
	detail := decode[map[string]any](t, resp)
	assert.Equal(t, true, detail["recommend"])
	assert.Len(t, detail["comments"], 1)

	resp = env.do(t, http.MethodGet, "/api/free-boards/rank?size=3", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]map[string]any](t, resp), 1)

	resp = env.do(t, http.MethodDelete, path, ownerToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = env.do(t, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUploadFreeBoardImage(t *testing.T) {
	env := newTestEnv(t)
	owner, token := env.createUser(t, "owner")
	board := &models.FreeBoard{Title: "t", Content: "c", UserID: owner.ID}
	require.NoError(t, env.db.Create(board).Error)

	img := image.NewRGBA(image.Rect(0, 0, 32, 16))
	for x := range 32 {
		img.Set(x, 3, color.RGBA{R: 200, A: 255})
	}
	var pngBytes bytes.Buffer
	require.NoError(t, png.Encode(&pngBytes, img))

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "header.png")
	require.NoError(t, err)
	_, err = part.Write(pngBytes.Bytes())
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/free-boards/"+strconv.Itoa(int(board.ID))+"/image", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	headerImage, _ := decode[map[string]any](t, resp)["headerImage"].(string)
	assert.True(t, strings.HasPrefix(headerImage, "/uploads/"))
	assert.True(t, strings.HasSuffix(headerImage, ".webp"))
}

func TestRecruitBoardScroll(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "lead")

	resp := env.do(t, http.MethodPost, "/api/recruit-boards", token, map[string]any{
		"title":     "Looking for a frontend dev",
		"content":   "React and TypeScript",
		"tags":      []string{"REACT", "TYPESCRIPT"},
		"positions": []map[string]any{{"positionType": "FRONTEND", "targetNumber": 1}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/recruit-boards/scroll?stackTypes=react&stackTypes=go", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[map[string]any](t, resp)["boards"], 1)

	resp = env.do(t, http.MethodGet, "/api/recruit-boards/scroll?stackTypes=SPRING,GO", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[map[string]any](t, resp)["boards"])

	resp = env.do(t, http.MethodGet, "/api/recruit-boards/scroll?stackTypes=COBOL", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/recruit-boards/scroll?lastId=zero", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHumanizeParam(t *testing.T) {
	assert.Equal(t, "ID", humanizeParam("id"))
	assert.Equal(t, "board ID", humanizeParam("boardId"))
	assert.Equal(t, "recruit board ID", humanizeParam("recruitBoardId"))
	assert.Equal(t, "slug", humanizeParam("slug"))
}
