package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"project-service/internal/app"
	"project-service/internal/config"
	"project-service/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	serviceName = "project-service"
	envFilePath = ".env"
)

func main() {
	if err := godotenv.Load(envFilePath); err != nil {
		log.Warn().Msg(".env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	lg := logger.New(serviceName, cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	service, err := app.NewService(ctx, cfg, lg)
	if err != nil {
		lg.Fatal().Err(err).Msg("failed to initialize service")
	}

	if err := service.Run(ctx); err != nil {
		lg.Error().Err(err).Msg("service stopped with error")
		stop()
		os.Exit(1)
	}

	lg.Info().Msg("server exited gracefully")
}
