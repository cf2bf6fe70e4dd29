package account

import (
	apperrors "project-service/pkg/errors"
)

const (
	msgEmailTaken             = "Email is already taken"
	msgCurrentPasswordInvalid = "Current password is incorrect."
	msgConfirmationMismatch   = "New password and confirmation do not match."
)

var (
	// ErrAlreadyExists is returned when the identifier is already registered.
	ErrAlreadyExists = &apperrors.AppError{Code: "ALREADY_EXISTS", Message: msgEmailTaken, Err: apperrors.ErrConflict}

	// ErrInvalidCredential means the current secret did not verify during a change.
	ErrInvalidCredential = &apperrors.AppError{Code: "INVALID_CREDENTIAL", Message: msgCurrentPasswordInvalid, Err: apperrors.ErrBadRequest}

	ErrConfirmationMismatch = &apperrors.AppError{Code: "CONFIRMATION_MISMATCH", Message: msgConfirmationMismatch, Err: apperrors.ErrValidation}
)
