package app

import (
	"context"
	"errors"

	"project-service/internal/config"
	"project-service/internal/http"

	"github.com/rs/zerolog"
)

// Service owns the HTTP server and the backends it depends on.
type Service struct {
	config  *config.Config
	logger  zerolog.Logger
	server  *http.Server
	closers []func() error
}

// NewService is a convenience wrapper around InitializeService
func NewService(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Service, error) {
	return InitializeService(ctx, cfg, logger)
}

// Run serves until ctx is cancelled, then shuts down within the configured
// timeout and releases every backend.
func (s *Service) Run(ctx context.Context) error {
	defer s.close()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("port", s.config.Server.Port).Msg("starting HTTP server")
		errCh <- s.server.Start(":" + s.config.Server.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func (s *Service) close() {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil

	if err := errors.Join(errs...); err != nil {
		s.logger.Error().Err(err).Msg("release backends")
	}
}
