package auth

import (
	apperrors "project-service/pkg/errors"
)

// TokenErrorKind classifies why a token was rejected.
type TokenErrorKind int

const (
	TokenMalformed TokenErrorKind = iota + 1
	TokenSignatureInvalid
	TokenExpired
)

func (k TokenErrorKind) String() string {
	switch k {
	case TokenMalformed:
		return "malformed"
	case TokenSignatureInvalid:
		return "signature_invalid"
	case TokenExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// TokenError is returned by TokenCodec.ParseAndVerify. It matches
// apperrors.ErrUnauthorized under errors.Is.
type TokenError struct {
	Kind TokenErrorKind
	Err  error
}

func (e *TokenError) Error() string {
	if e.Err != nil {
		return "token " + e.Kind.String() + ": " + e.Err.Error()
	}
	return "token " + e.Kind.String()
}

func (e *TokenError) Unwrap() []error {
	if e.Err == nil {
		return []error{apperrors.ErrUnauthorized}
	}
	return []error{e.Err, apperrors.ErrUnauthorized}
}

func newTokenError(kind TokenErrorKind, err error) *TokenError {
	return &TokenError{Kind: kind, Err: err}
}

func errInvalidToken(err error) *apperrors.AppError {
	return &apperrors.AppError{Code: codeUnauthorized, Message: msgInvalidOrExpiredToken, Err: err}
}
