package handler

import (
	"errors"

	"project-service/internal/domain/user"
	"project-service/internal/security"
	apperrors "project-service/pkg/errors"
)

// registrationError reports a taken identifier as a 400, which is what
// register clients expect.
func registrationError(err error) error {
	if errors.Is(err, apperrors.ErrConflict) {
		return apperrors.BadRequest(msgEmailTaken)
	}
	return err
}

func parseOptionalRole(raw *string) (*user.Role, error) {
	if raw == nil {
		return nil, nil
	}
	role, err := user.ParseRole(*raw)
	if err != nil {
		return nil, apperrors.Validation(msgInvalidRole)
	}
	return &role, nil
}

// requireSelfOrAdmin lets a principal act on its own account, and an admin
// act on any account.
func requireSelfOrAdmin(p security.Principal, targetID int64) error {
	if p.IsAdmin() || (p.ID != 0 && p.ID == targetID) {
		return nil
	}
	return apperrors.Forbidden(msgNotOwnAccount)
}
