package app

import (
	"context"

	"project-service/internal/repository"
)

// credentialBackend is a user store together with its lifecycle.
type credentialBackend struct {
	users repository.UserRepository
	ping  func(ctx context.Context) error
	close func() error
}

func (b credentialBackend) Ping(ctx context.Context) error {
	return b.ping(ctx)
}
