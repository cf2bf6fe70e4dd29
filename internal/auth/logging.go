package auth

import (
	"context"

	"github.com/rs/zerolog"
)

// requestLogger returns the request-scoped logger attached by the request id
// middleware, or fallback when the context carries none.
func requestLogger(ctx context.Context, fallback *zerolog.Logger) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return fallback
}
