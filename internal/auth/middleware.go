package auth

import (
	"context"
	"errors"
	"strings"

	"project-service/internal/security"
	"project-service/internal/telemetry"
	apperrors "project-service/pkg/errors"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// PrincipalLoader resolves the stored account behind a token subject.
type PrincipalLoader interface {
	FindPrincipal(ctx context.Context, identifier string) (security.Principal, error)
}

type Middleware struct {
	codec   *TokenCodec
	loader  PrincipalLoader
	metrics *telemetry.AuthMetrics
	logger  zerolog.Logger
}

// NewMiddleware builds the authentication gate. loader and metrics may be nil.
func NewMiddleware(codec *TokenCodec, loader PrincipalLoader, metrics *telemetry.AuthMetrics, logger zerolog.Logger) *Middleware {
	return &Middleware{
		codec:   codec,
		loader:  loader,
		metrics: metrics,
		logger:  logger,
	}
}

// Authenticate binds the bearer token's principal to the request context.
//
// A missing or non-bearer Authorization header leaves the request
// unauthenticated; the route policy decides what that means. A bearer token
// that fails verification ends the request with 401.
func (m *Middleware) Authenticate(skipper middleware.Skipper) echo.MiddlewareFunc {
	if skipper == nil {
		skipper = middleware.DefaultSkipper
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skipper(c) {
				return next(c)
			}

			req := c.Request()
			ctx := req.Context()
			log := requestLogger(ctx, &m.logger)

			if security.FromContext(ctx).Authenticated() {
				log.Debug().Str("path", req.URL.Path).Msg(msgAlreadyAuthenticated)
				return next(c)
			}

			header := req.Header.Get(headerAuthorization)
			if header == "" {
				log.Debug().Str("path", req.URL.Path).Msg(msgMissingAuthHeader)
				return next(c)
			}

			raw, ok := strings.CutPrefix(header, bearerPrefix)
			if !ok {
				log.Warn().Str("path", req.URL.Path).Msg(msgMalformedAuthHeader)
				return next(c)
			}

			principal, err := m.authenticate(ctx, raw)
			if err != nil {
				return err
			}

			bound, err := security.Bind(ctx, principal)
			if err != nil {
				return apperrors.InternalServer(msgAlreadyAuthenticated, err)
			}
			c.SetRequest(req.WithContext(bound))

			return next(c)
		}
	}
}

func (m *Middleware) authenticate(ctx context.Context, raw string) (security.Principal, error) {
	claims, err := m.codec.ParseAndVerify(raw)
	if err != nil {
		reason := "unknown"
		var tokenErr *TokenError
		if errors.As(err, &tokenErr) {
			reason = tokenErr.Kind.String()
		}
		m.metrics.TokenRejected(ctx, reason)
		requestLogger(ctx, &m.logger).Warn().Str("reason", reason).Msg(msgTokenRejected)
		return security.Principal{}, errInvalidToken(err)
	}

	principal := security.Principal{
		Identifier: claims.Subject(),
		Role:       claims.Role(),
	}

	if m.loader == nil {
		return principal, nil
	}

	stored, err := m.loader.FindPrincipal(ctx, claims.Subject())
	if err != nil {
		m.metrics.TokenRejected(ctx, "principal_lookup")
		requestLogger(ctx, &m.logger).Warn().Err(err).Msg(msgPrincipalLoadFailed)
		return security.Principal{}, errInvalidToken(err)
	}

	principal.ID = stored.ID
	principal.DisplayName = stored.DisplayName

	return principal, nil
}

// PrincipalFrom returns the principal bound by Authenticate.
func PrincipalFrom(c echo.Context) (security.Principal, error) {
	p, ok := security.FromContext(c.Request().Context()).Principal()
	if !ok {
		return security.Principal{}, apperrors.Unauthorized(msgUserNotAuthenticated)
	}
	return p, nil
}
