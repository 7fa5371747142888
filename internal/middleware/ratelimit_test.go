package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_Allow(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	tests := []struct {
		name   string
		env    string
		client *redis.Client
		calls  int
		allow  bool
		err    bool
	}{
		{name: "test env bypass", env: "test", calls: 5, allow: true},
		{name: "development env bypass", env: "development", calls: 5, allow: true},
		{name: "nil client in production", env: "production", calls: 1, err: true},
		{name: "under limit", env: "production", client: rdb, calls: 2, allow: true},
		{name: "over limit", env: "production", client: rdb, calls: 4, allow: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mr.FlushAll()
			l := NewRateLimiter(tt.client, tt.env)
			var (
				allowed bool
				err     error
			)
			for range tt.calls {
				allowed, err = l.Allow(context.Background(), "login", "ip:1.2.3.4", 3, time.Minute)
			}
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.allow, allowed)
		})
	}
}

func TestRateLimiter_WindowExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	l := NewRateLimiter(rdb, "production")
	ctx := context.Background()

	for range 2 {
		_, err := l.Allow(ctx, "join", "ip:1", 1, time.Minute)
		require.NoError(t, err)
	}
	allowed, _ := l.Allow(ctx, "join", "ip:1", 1, time.Minute)
	assert.False(t, allowed)

	mr.FastForward(2 * time.Minute)
	allowed, err := l.Allow(ctx, "join", "ip:1", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimiter_Limit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	app := fiber.New()
	app.Post("/login", NewRateLimiter(rdb, "production").Limit("login", 1, time.Minute, FailOpen),
		func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestRateLimiter_FailPolicies(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	mr.Close()

	l := NewRateLimiter(rdb, "production")
	ok := func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) }

	app := fiber.New()
	app.Get("/open", l.Limit("open", 1, time.Minute, FailOpen), ok)
	app.Get("/closed", l.Limit("closed", 1, time.Minute, FailClosed), ok)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/open", nil), 5000)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/closed", nil), 5000)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestRateLimiter_DisabledWithoutClient(t *testing.T) {
	app := fiber.New()
	app.Post("/join", NewRateLimiter(nil, "production").Limit("join", 1, time.Minute, FailClosed),
		func(c *fiber.Ctx) error { return c.SendStatus(http.StatusCreated) })

	for range 3 {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/join", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	}
}
