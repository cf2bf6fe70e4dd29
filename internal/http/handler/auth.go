package handler

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"project-service/internal/account"
	"project-service/internal/audit"
	"project-service/internal/auth"
	"project-service/internal/infra/ratelimit"
	"project-service/internal/telemetry"
	apperrors "project-service/pkg/errors"
	"project-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type AuthService interface {
	CredentialAuthenticator
	PrincipalRegistrar
}

// LoginThrottle caps login attempts per identifier. A nil Limiter disables it.
type LoginThrottle struct {
	Limiter     ratelimit.Limiter
	MaxAttempts int
	Window      time.Duration
}

type AuthHandler struct {
	accounts AuthService
	tokens   TokenIssuer
	throttle LoginThrottle
	metrics  *telemetry.AuthMetrics
	audit    *audit.Logger
	logger   zerolog.Logger
	now      func() time.Time
}

// NewAuthHandler accepts nil metrics and a nil audit logger.
func NewAuthHandler(accounts AuthService, tokens TokenIssuer, throttle LoginThrottle, metrics *telemetry.AuthMetrics, auditLog *audit.Logger, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		tokens:   tokens,
		throttle: throttle,
		metrics:  metrics,
		audit:    auditLog,
		logger:   logger,
		now:      time.Now,
	}
}

// Login answers with the bare token as text/plain.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	identifier := account.NormalizeIdentifier(req.Email)
	throttleKey := loginKeyScope + identifier

	masked := logger.MaskEmail(identifier)

	if err := h.checkThrottle(c, throttleKey); err != nil {
		h.audit.LogFromContext(c, audit.ActionLogin, audit.StatusThrottled, 0, masked, nil)
		return err
	}

	principal, err := h.accounts.Authenticate(ctx, identifier, req.Password)
	if err != nil {
		h.metrics.LoginAttempt(ctx, telemetry.OutcomeFailure)
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			h.audit.LogFromContext(c, audit.ActionLogin, audit.StatusFailure, 0, masked, nil)
		}
		return err
	}

	if h.throttle.Limiter != nil {
		if err := h.throttle.Limiter.Reset(ctx, throttleKey); err != nil {
			h.logger.Warn().Err(err).Msg(msgLimiterResetFailed)
		}
	}

	token, err := h.tokens.Issue(principal)
	if err != nil {
		return apperrors.InternalServer(msgIssueTokenFailed, err)
	}

	h.metrics.LoginAttempt(ctx, telemetry.OutcomeSuccess)
	h.audit.LogFromContext(c, audit.ActionLogin, audit.StatusSuccess, principal.ID, masked, nil)

	return c.String(http.StatusOK, token)
}

// checkThrottle fails open when the limiter backend is unavailable.
func (h *AuthHandler) checkThrottle(c echo.Context, key string) error {
	if h.throttle.Limiter == nil {
		return nil
	}

	ctx := c.Request().Context()
	decision, err := h.throttle.Limiter.Allow(ctx, key, h.throttle.MaxAttempts, h.throttle.Window)
	if err != nil {
		h.logger.Warn().Err(err).Msg(msgLimiterUnavailable)
		return nil
	}
	if decision.Allowed {
		return nil
	}

	h.metrics.LoginAttempt(ctx, telemetry.OutcomeThrottle)

	retry := int(math.Ceil(decision.RetryAfter(h.now()).Seconds()))
	if retry < 1 {
		retry = 1
	}
	c.Response().Header().Set(headerRetryAfter, strconv.Itoa(retry))

	return apperrors.TooManyRequests(msgTooManyLoginAttempts)
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}

	role, err := parseOptionalRole(req.Role)
	if err != nil {
		return err
	}

	p, err := h.accounts.RegisterPrincipal(c.Request().Context(), account.RegisterInput{
		Identifier:  req.Email,
		Secret:      req.Password,
		DisplayName: req.Name,
		Role:        role,
	})
	if err != nil {
		h.audit.LogFromContext(c, audit.ActionRegister, audit.StatusFailure, 0, logger.MaskEmail(req.Email), err)
		return registrationError(err)
	}

	h.audit.LogFromContext(c, audit.ActionRegister, audit.StatusSuccess, p.ID, logger.MaskEmail(p.Identifier), nil)

	return c.String(http.StatusCreated, msgUserRegistered)
}

func (h *AuthHandler) Test(c echo.Context) error {
	return c.String(http.StatusOK, msgAPIWorking)
}

// Me returns the principal bound to the request.
func (h *AuthHandler) Me(c echo.Context) error {
	p, err := auth.PrincipalFrom(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPrincipalResponse(p))
}
