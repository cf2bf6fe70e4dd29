// Package audit records security-relevant account events.
package audit

import (
	"context"
	"time"

	"project-service/internal/security"
	"project-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Action represents the action being performed
type Action string

const (
	ActionLogin          Action = "login"
	ActionRegister       Action = "register"
	ActionCreateUser     Action = "create_user"
	ActionUpdateUser     Action = "update_user"
	ActionDeleteUser     Action = "delete_user"
	ActionChangePassword Action = "change_password"
)

// Status represents the outcome of an action
type Status string

const (
	StatusSuccess   Status = "success"
	StatusFailure   Status = "failure"
	StatusDenied    Status = "denied"
	StatusThrottled Status = "throttled"
)

const (
	auditMessage     = "audit"
	headerRequestID  = echo.HeaderXRequestID
	headerUserAgent  = "User-Agent"
	fieldAuditMarker = "audit"
)

// Event represents an audit event. ActorID is zero for anonymous actors.
type Event struct {
	Action    Action
	Status    Status
	ActorID   int64
	Actor     string
	TargetID  int64
	Subject   string
	IPAddress string
	UserAgent string
	RequestID string
	Error     string
	CreatedAt time.Time
}

// Logger writes audit events as structured log lines. A nil *Logger
// records nothing.
type Logger struct {
	logger zerolog.Logger
	now    func() time.Time
}

func NewLogger(base zerolog.Logger) *Logger {
	return &Logger{
		logger: base.With().Bool(fieldAuditMarker, true).Logger(),
		now:    time.Now,
	}
}

// Log records an audit event
func (l *Logger) Log(_ context.Context, event *Event) {
	if l == nil || event == nil {
		return
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = l.now()
	}

	entry := l.logger.Info()
	if event.Status != StatusSuccess {
		entry = l.logger.Warn()
	}

	entry = entry.
		Str("action", string(event.Action)).
		Str("status", string(event.Status)).
		Time("occurred_at", event.CreatedAt)

	if event.ActorID != 0 {
		entry = entry.Int64("actor_id", event.ActorID)
	}
	if event.Actor != "" {
		entry = entry.Str("actor", event.Actor)
	}
	if event.TargetID != 0 {
		entry = entry.Int64("target_id", event.TargetID)
	}
	if event.Subject != "" {
		entry = entry.Str("subject", event.Subject)
	}
	if event.Error != "" {
		entry = entry.Str("error", event.Error)
	}

	entry.
		Str("ip", event.IPAddress).
		Str("user_agent", event.UserAgent).
		Str("request_id", event.RequestID).
		Msg(auditMessage)
}

// LogFromContext fills actor and request details from c before logging.
// Subject should already be masked when it carries an email address.
func (l *Logger) LogFromContext(c echo.Context, action Action, status Status, targetID int64, subject string, err error) {
	if l == nil {
		return
	}

	req := c.Request()
	event := &Event{
		Action:    action,
		Status:    status,
		TargetID:  targetID,
		Subject:   subject,
		IPAddress: c.RealIP(),
		UserAgent: req.Header.Get(headerUserAgent),
		RequestID: c.Response().Header().Get(headerRequestID),
	}

	if p, ok := security.FromContext(req.Context()).Principal(); ok {
		event.ActorID = p.ID
		event.Actor = p.Identifier
	}
	if err != nil {
		event.Error = logger.SanitizeLogMessage(err.Error())
	}

	l.Log(req.Context(), event)
}
