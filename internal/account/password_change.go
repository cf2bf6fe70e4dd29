package account

import (
	"context"

	"project-service/internal/repository"
	"project-service/internal/telemetry"
	apperrors "project-service/pkg/errors"
	"project-service/pkg/password"
	"project-service/pkg/validator"
)

type ChangePasswordInput struct {
	PrincipalID   int64
	CurrentSecret string
	NewSecret     string
	ConfirmSecret string
}

// PasswordChanger re-verifies the current secret before replacing it.
type PasswordChanger struct {
	repo    repository.CredentialRepository
	hasher  *password.Hasher
	metrics *telemetry.AuthMetrics
}

func NewPasswordChanger(repo repository.CredentialRepository, hasher *password.Hasher, metrics *telemetry.AuthMetrics) *PasswordChanger {
	return &PasswordChanger{repo: repo, hasher: hasher, metrics: metrics}
}

// Change checks, in order: the account exists, the current secret verifies,
// the new secret equals its confirmation, and the new secret is acceptable.
// Only then is the stored hash replaced. Concurrent changes: last write wins.
func (pc *PasswordChanger) Change(ctx context.Context, in ChangePasswordInput) error {
	err := pc.change(ctx, in)

	outcome := telemetry.OutcomeSuccess
	if err != nil {
		outcome = telemetry.OutcomeFailure
	}
	pc.metrics.PasswordChange(ctx, outcome)

	return err
}

func (pc *PasswordChanger) change(ctx context.Context, in ChangePasswordInput) error {
	u, err := pc.repo.GetByID(ctx, in.PrincipalID)
	if err != nil {
		return err
	}

	if !pc.hasher.Verify(in.CurrentSecret, u.PasswordHash) {
		return ErrInvalidCredential
	}

	if in.NewSecret != in.ConfirmSecret {
		return ErrConfirmationMismatch
	}

	if err := validator.Password(in.NewSecret); err != nil {
		return apperrors.Validation(err.Error())
	}

	hash, err := pc.hasher.Hash(in.NewSecret)
	if err != nil {
		return apperrors.InternalServer(errHashFailed, err)
	}

	return pc.repo.UpdatePasswordHash(ctx, u.ID, hash)
}
