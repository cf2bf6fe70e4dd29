package app

import (
	"context"
	"fmt"

	"project-service/internal/account"
	"project-service/internal/audit"
	"project-service/internal/auth"
	"project-service/internal/config"
	"project-service/internal/http"
	"project-service/internal/http/handler"
	"project-service/internal/infra/ratelimit"
	"project-service/internal/rbac"
	"project-service/internal/rbac/presets"
	"project-service/internal/repository/postgres"
	"project-service/internal/repository/sqlite"
	"project-service/internal/telemetry"
	"project-service/pkg/password"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const loginLimiterPrefix = "project-service:"

// InitializeService wires up all dependencies and returns a configured Service
func InitializeService(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Service, error) {
	backend, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	svc := &Service{config: cfg, logger: logger}
	svc.closers = append(svc.closers, backend.close)

	limiter, closeLimiter, err := newLoginLimiter(ctx, cfg, logger)
	if err != nil {
		svc.close()
		return nil, err
	}
	if closeLimiter != nil {
		svc.closers = append(svc.closers, closeLimiter)
	}

	metrics, err := telemetry.NewGlobalAuthMetrics()
	if err != nil {
		svc.close()
		return nil, fmt.Errorf("create auth metrics: %w", err)
	}

	codec, err := auth.NewTokenCodec(cfg.JWT.Secret)
	if err != nil {
		svc.close()
		return nil, fmt.Errorf("create token codec: %w", err)
	}

	policy, err := rbac.New(presets.ProjectManagement())
	if err != nil {
		svc.close()
		return nil, fmt.Errorf("build route policy: %w", err)
	}

	hasher := password.Default()
	store := account.NewStore(backend.users, hasher)
	changer := account.NewPasswordChanger(backend.users, hasher, metrics)

	auditLog := audit.NewLogger(logger)
	throttle := handler.LoginThrottle{
		Limiter:     limiter,
		MaxAttempts: cfg.Login.MaxAttempts,
		Window:      cfg.Login.Window,
	}

	svc.server = http.NewServer(&http.ServerDependencies{
		Config:         cfg,
		Logger:         logger,
		Store:          backend,
		AuthHandler:    handler.NewAuthHandler(store, codec, throttle, metrics, auditLog, logger),
		UserHandler:    handler.NewUserHandler(store, store, changer, auditLog),
		AuthMiddleware: auth.NewMiddleware(codec, store, metrics, logger),
		RBACMiddleware: auth.NewRBACMiddleware(policy, metrics, logger),
	})

	return svc, nil
}

func openBackend(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (credentialBackend, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverSQLite:
		db, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return credentialBackend{}, fmt.Errorf("open sqlite: %w", err)
		}
		if err := db.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return credentialBackend{}, fmt.Errorf("ensure sqlite schema: %w", err)
		}
		logger.Info().Str("path", cfg.SQLite.Path).Msg("sqlite store ready")
		return credentialBackend{users: sqlite.NewUserRepository(db), ping: db.Ping, close: db.Close}, nil

	default:
		db, err := postgres.New(ctx, &cfg.Database)
		if err != nil {
			return credentialBackend{}, fmt.Errorf("connect to database: %w", err)
		}
		if err := db.EnsureSchema(ctx); err != nil {
			db.Close()
			return credentialBackend{}, fmt.Errorf("ensure postgres schema: %w", err)
		}
		logger.Info().Str("host", cfg.Database.Host).Str("database", cfg.Database.Database).Msg("postgres store ready")
		return credentialBackend{
			users: postgres.NewUserRepository(db),
			ping:  db.Ping,
			close: func() error { db.Close(); return nil },
		}, nil
	}
}

// newLoginLimiter prefers Redis so throttling holds across replicas.
func newLoginLimiter(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (ratelimit.Limiter, func() error, error) {
	if !cfg.RedisEnabled() {
		logger.Info().Msg("login throttling kept in memory")
		return ratelimit.NewMemoryLimiter(ratelimit.MemoryConfig{}), nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}

	limiter, err := ratelimit.NewRedisLimiter(client, loginLimiterPrefix, nil)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}

	logger.Info().Str("addr", cfg.Redis.Addr).Msg("login throttling backed by redis")
	return limiter, client.Close, nil
}
