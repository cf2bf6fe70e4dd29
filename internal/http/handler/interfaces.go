package handler

import (
	"context"

	"project-service/internal/account"
	"project-service/internal/domain/user"
	"project-service/internal/security"
)

// Consumer-side interfaces defined by handlers

type CredentialAuthenticator interface {
	Authenticate(ctx context.Context, identifier, secret string) (security.Principal, error)
}

type PrincipalRegistrar interface {
	RegisterPrincipal(ctx context.Context, in account.RegisterInput) (security.Principal, error)
}

type TokenIssuer interface {
	Issue(p security.Principal) (string, error)
}

type UserDirectory interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
	List(ctx context.Context) ([]*user.User, error)
	Delete(ctx context.Context, id int64) error
	UpdateDisplayName(ctx context.Context, id int64, name string) (*user.User, error)
}

type PasswordChanger interface {
	Change(ctx context.Context, in account.ChangePasswordInput) error
}
