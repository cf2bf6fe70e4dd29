package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"project-service/internal/config"
	"project-service/internal/infra/ratelimit"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "0", ShutdownTimeout: time.Second},
		Store:  config.StoreConfig{Driver: config.StoreDriverSQLite},
		SQLite: config.SQLiteConfig{Path: ":memory:"},
		JWT:    config.JWTConfig{Secret: "k3T9vQ2xL8mN4pR7sW1yZ6bC5dF0gH2jU8eA"},
		CORS:   config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Login:  config.LoginConfig{MaxAttempts: 5, Window: time.Minute},
	}
}

func TestInitializeService_SQLite(t *testing.T) {
	svc, err := InitializeService(context.Background(), sqliteConfig(), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(svc.close)

	rec := httptest.NewRecorder()
	svc.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewLoginLimiter(t *testing.T) {
	cfg := sqliteConfig()

	limiter, closeFn, err := newLoginLimiter(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.Nil(t, closeFn)
	assert.IsType(t, &ratelimit.MemoryLimiter{}, limiter)

	mr := miniredis.RunT(t)
	cfg.Redis.Addr = mr.Addr()

	limiter, closeFn, err = newLoginLimiter(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, closeFn)
	t.Cleanup(func() { _ = closeFn() })
	assert.IsType(t, &ratelimit.RedisLimiter{}, limiter)
}

func TestNewLoginLimiter_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := sqliteConfig()
	cfg.Redis.Addr = mr.Addr()
	mr.Close()

	_, _, err := newLoginLimiter(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}

func TestService_RunStopsOnCancel(t *testing.T) {
	svc, err := InitializeService(context.Background(), sqliteConfig(), zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("service did not stop")
	}
}
