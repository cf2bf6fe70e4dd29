package auth

import (
	"project-service/internal/rbac"
	"project-service/internal/security"
	"project-service/internal/telemetry"
	apperrors "project-service/pkg/errors"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// RBACMiddleware enforces a route policy on every request.
type RBACMiddleware struct {
	policy  *rbac.Policy
	metrics *telemetry.AuthMetrics
	logger  zerolog.Logger
}

func NewRBACMiddleware(policy *rbac.Policy, metrics *telemetry.AuthMetrics, logger zerolog.Logger) *RBACMiddleware {
	return &RBACMiddleware{
		policy:  policy,
		metrics: metrics,
		logger:  logger,
	}
}

// PublicRoute reports whether the request needs no authentication. It is
// meant as the skipper for Middleware.Authenticate.
func (m *RBACMiddleware) PublicRoute(c echo.Context) bool {
	req := c.Request()
	return m.policy.IsPublic(req.Method, req.URL.Path)
}

// Authorize must run after Authenticate.
func (m *RBACMiddleware) Authorize() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx := req.Context()

			decision := m.policy.CheckAccess(req.Method, req.URL.Path, security.FromContext(ctx))
			if decision.Allowed {
				return next(c)
			}

			m.metrics.AccessDenied(ctx, decision.Reason.String())
			requestLogger(ctx, &m.logger).Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("rule", decision.Rule.Method+" "+decision.Rule.Pattern).
				Str("reason", decision.Reason.String()).
				Msg(msgAccessDeniedLog)

			switch decision.Reason {
			case rbac.DenyUnauthenticated:
				return &apperrors.AppError{Code: codeUnauthorized, Message: msgAuthenticationRequired, Err: apperrors.ErrUnauthorized}
			default:
				return apperrors.Forbidden(msgAccessDenied)
			}
		}
	}
}
