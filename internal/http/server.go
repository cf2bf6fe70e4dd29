package http

import (
	"context"
	"errors"
	stdhttp "net/http"
	"time"

	"project-service/internal/auth"
	"project-service/internal/config"
	"project-service/internal/http/handler"
	"project-service/internal/http/middleware"
	"project-service/internal/rbac/presets"
	"project-service/pkg/profiling"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

const (
	jsonKeyStatus      = "status"
	statusOK           = "ok"
	statusUnavailable  = "unavailable"
	requestBodyLimit   = "1M"
	healthCheckTimeout = 2 * time.Second
	corsMaxAgeSeconds  = 3600
)

// Pinger reports whether the credential store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type ServerDependencies struct {
	Config         *config.Config
	Logger         zerolog.Logger
	Store          Pinger
	AuthHandler    *handler.AuthHandler
	UserHandler    *handler.UserHandler
	AuthMiddleware *auth.Middleware
	RBACMiddleware *auth.RBACMiddleware
}

type Server struct {
	echo *echo.Echo
	deps *ServerDependencies
}

func NewServer(deps *ServerDependencies) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)
	e.IPExtractor = ipExtractor(deps.Config.Server)

	e.Server.ReadTimeout = deps.Config.Server.ReadTimeout
	e.Server.WriteTimeout = deps.Config.Server.WriteTimeout

	// Request ID middleware (first, so all logs have request ID)
	e.Use(middleware.RequestID(deps.Logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     deps.Config.CORS.AllowedOrigins,
		AllowMethods:     []string{stdhttp.MethodGet, stdhttp.MethodPost, stdhttp.MethodPut, stdhttp.MethodDelete, stdhttp.MethodOptions},
		AllowHeaders:     []string{echo.HeaderAuthorization, echo.HeaderContentType, echo.HeaderAccept, middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           corsMaxAgeSeconds,
	}))
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.BodyLimit(requestBodyLimit))

	// Public routes skip the gate so a stale token never blocks login.
	e.Use(deps.AuthMiddleware.Authenticate(deps.RBACMiddleware.PublicRoute))
	e.Use(middleware.NewGlobalRateLimiter().Middleware())
	e.Use(deps.RBACMiddleware.Authorize())

	strictRateLimiter := middleware.NewStrictRateLimiter()

	authH := deps.AuthHandler
	userH := deps.UserHandler

	e.GET(presets.PathHealth, healthCheck(deps.Store))

	e.POST(presets.PathAuthLogin, authH.Login, strictRateLimiter.Middleware())
	e.POST(presets.PathAuthRegister, authH.Register, strictRateLimiter.Middleware())
	e.GET(presets.PathAuthTest, authH.Test)
	e.GET(presets.PathAuthMe, authH.Me)

	e.GET(presets.PathProfile, userH.Profile)
	e.GET(presets.PathUsers, userH.List)
	e.POST(presets.PathUsers, userH.Create)
	e.GET(presets.PathUser, userH.Get)
	e.PUT(presets.PathUser, userH.Update)
	e.DELETE(presets.PathUser, userH.Delete)
	e.PUT(presets.PathChangePassword, userH.ChangePassword)
	e.POST(presets.PathChangePassword, userH.ChangePassword)
	e.PUT(presets.PathPassword, userH.ChangePassword)
	e.POST(presets.PathPassword, userH.ChangePassword)

	if deps.Config.Server.Profiling {
		profiling.RegisterRoutes(e)
	}

	return &Server{
		echo: e,
		deps: deps,
	}
}

// Handler exposes the router for tests.
func (s *Server) Handler() stdhttp.Handler {
	return s.echo
}

func (s *Server) Start(address string) error {
	err := s.echo.Start(address)
	if errors.Is(err, stdhttp.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func healthCheck(store Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		if store != nil {
			ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
			defer cancel()
			if err := store.Ping(ctx); err != nil {
				zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("health check failed")
				return c.JSON(stdhttp.StatusServiceUnavailable, map[string]string{
					jsonKeyStatus: statusUnavailable,
				})
			}
		}

		return c.JSON(stdhttp.StatusOK, map[string]string{
			jsonKeyStatus: statusOK,
		})
	}
}

// ipExtractor decides what c.RealIP returns. Forwarding headers are ignored
// unless the deployment sits behind a proxy that sets them.
func ipExtractor(cfg config.ServerConfig) echo.IPExtractor {
	if cfg.TrustProxyHeaders {
		return echo.ExtractIPFromXFFHeader()
	}
	return echo.ExtractIPDirect()
}
