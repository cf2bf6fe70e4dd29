package telemetry

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	MeterName = "project-service/auth"

	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeThrottle = "throttled"

	attrOutcome = "outcome"
	attrReason  = "reason"
)

var ErrNilMeter = errors.New("nil meter")

// AuthMetrics counts authentication and authorization outcomes.
// A nil *AuthMetrics records nothing.
type AuthMetrics struct {
	logins          metric.Int64Counter
	tokenRejections metric.Int64Counter
	accessDenials   metric.Int64Counter
	passwordChanges metric.Int64Counter
}

// NewGlobalAuthMetrics registers counters on the global meter provider.
func NewGlobalAuthMetrics() (*AuthMetrics, error) {
	return NewAuthMetrics(otel.GetMeterProvider().Meter(MeterName))
}

func NewAuthMetrics(meter metric.Meter) (*AuthMetrics, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}

	var (
		m   AuthMetrics
		err error
	)

	if m.logins, err = meter.Int64Counter(
		"auth_login_attempts_total",
		metric.WithDescription("Login attempts by outcome."),
	); err != nil {
		return nil, fmt.Errorf("create login counter: %w", err)
	}

	if m.tokenRejections, err = meter.Int64Counter(
		"auth_token_rejections_total",
		metric.WithDescription("Bearer tokens rejected by the authentication gate."),
	); err != nil {
		return nil, fmt.Errorf("create token rejection counter: %w", err)
	}

	if m.accessDenials, err = meter.Int64Counter(
		"auth_access_denials_total",
		metric.WithDescription("Requests denied by the route policy."),
	); err != nil {
		return nil, fmt.Errorf("create access denial counter: %w", err)
	}

	if m.passwordChanges, err = meter.Int64Counter(
		"auth_password_changes_total",
		metric.WithDescription("Password change attempts by outcome."),
	); err != nil {
		return nil, fmt.Errorf("create password change counter: %w", err)
	}

	return &m, nil
}

func (m *AuthMetrics) LoginAttempt(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.logins.Add(ctx, 1, metric.WithAttributes(attribute.String(attrOutcome, outcome)))
}

func (m *AuthMetrics) TokenRejected(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.tokenRejections.Add(ctx, 1, metric.WithAttributes(attribute.String(attrReason, reason)))
}

func (m *AuthMetrics) AccessDenied(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.accessDenials.Add(ctx, 1, metric.WithAttributes(attribute.String(attrReason, reason)))
}

func (m *AuthMetrics) PasswordChange(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.passwordChanges.Add(ctx, 1, metric.WithAttributes(attribute.String(attrOutcome, outcome)))
}
