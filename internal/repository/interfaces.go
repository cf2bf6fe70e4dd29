package repository

import (
	"context"
	"project-service/internal/domain/user"
)

// CredentialRepository is the part of UserRepository the password change
// workflow needs.
type CredentialRepository interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
	UpdatePasswordHash(ctx context.Context, id int64, passwordHash string) error
}
