package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"project-service/internal/domain/user"
	"project-service/internal/security"
	apperrors "project-service/pkg/errors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(2, 2) // 2 req/sec, burst of 2

	assert.True(t, rl.Allow("test-key"))
	assert.True(t, rl.Allow("test-key"))
	assert.False(t, rl.Allow("test-key"))
}

func TestRateLimiter_Middleware(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiter(2, 2)

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}
	mw := rl.Middleware()

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

		require.NoError(t, mw(handler)(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "2", rec.Header().Get(headerRateLimitLimit))
		assert.NotEmpty(t, rec.Header().Get(headerRateLimitRemaining))
	}

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	err := mw(handler)(c)
	assert.ErrorIs(t, err, apperrors.ErrTooManyRequests)
	assert.Equal(t, "0", rec.Header().Get(headerRateLimitRemaining))
	assert.Equal(t, "1", rec.Header().Get(headerRetryAfter))
}

func TestRateLimiter_PrincipalKeyedSeparatelyFromIP(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiter(1, 1)
	mw := rl.Middleware()
	handler := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	anon := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	require.NoError(t, mw(handler)(anon))

	ctx, err := security.Bind(context.Background(), security.Principal{Identifier: "bob@example.com", Role: user.RoleUser})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	authed := e.NewContext(req, httptest.NewRecorder())
	assert.NoError(t, mw(handler)(authed))
}

func TestRateLimiter_DifferentKeys(t *testing.T) {
	rl := NewRateLimiter(1, 1)

	assert.True(t, rl.Allow("key1"))
	assert.True(t, rl.Allow("key2"))

	assert.False(t, rl.Allow("key1"))
	assert.False(t, rl.Allow("key2"))
}

func TestRateLimiter_ForwardedForIgnoredWithDirectExtractor(t *testing.T) {
	e := echo.New()
	e.IPExtractor = echo.ExtractIPDirect()
	mw := NewRateLimiter(1, 1).Middleware()
	handler := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	var limited int
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/users/auth/register", nil)
		req.Header.Set(echo.HeaderXForwardedFor, fmt.Sprintf("198.51.100.%d", i+1))
		c := e.NewContext(req, httptest.NewRecorder())

		if err := mw(handler)(c); err != nil {
			require.ErrorIs(t, err, apperrors.ErrTooManyRequests)
			limited++
		}
	}
	assert.Equal(t, 4, limited)
}

func TestRateLimiter_VisitorsAreBounded(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 1)
	rl.maxVisitors = 3
	rl.now = func() time.Time { return now }

	for i := 0; i < 50; i++ {
		rl.Allow(fmt.Sprintf("ip:10.0.0.%d", i))
		now = now.Add(time.Millisecond)
	}
	assert.Len(t, rl.visitors, 3)
	assert.Contains(t, rl.visitors, "ip:10.0.0.49")
	assert.NotContains(t, rl.visitors, "ip:10.0.0.0")
}

func TestRateLimiter_IdleVisitorsSwept(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 1)
	rl.maxVisitors = 2
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))

	now = now.Add(rl.idleAfter)
	assert.True(t, rl.Allow("c"))
	assert.Len(t, rl.visitors, 1)
}
