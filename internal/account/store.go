package account

import (
	"context"
	"errors"
	"strings"

	"project-service/internal/domain/user"
	"project-service/internal/repository"
	"project-service/internal/security"
	apperrors "project-service/pkg/errors"
	"project-service/pkg/password"
	"project-service/pkg/validator"
)

// RegisterInput describes a new account. A nil Role means RoleUser.
type RegisterInput struct {
	Identifier  string
	Secret      string
	DisplayName string
	Role        *user.Role
}

// Store is the credential store: principals and their password hashes.
type Store struct {
	repo   repository.UserRepository
	hasher *password.Hasher
}

func NewStore(repo repository.UserRepository, hasher *password.Hasher) *Store {
	return &Store{repo: repo, hasher: hasher}
}

// NormalizeIdentifier trims and lower-cases an email identifier.
func NormalizeIdentifier(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}

// FindPrincipal returns apperrors.ErrNotFound when identifier is unknown.
func (s *Store) FindPrincipal(ctx context.Context, identifier string) (security.Principal, error) {
	u, err := s.repo.GetByEmail(ctx, NormalizeIdentifier(identifier))
	if err != nil {
		return security.Principal{}, err
	}
	return security.PrincipalFromUser(u), nil
}

// VerifySecret reports whether plaintext matches the stored hash. Unknown
// identifiers cost one bcrypt comparison and return false.
func (s *Store) VerifySecret(ctx context.Context, identifier, plaintext string) (bool, error) {
	u, err := s.repo.GetByEmail(ctx, NormalizeIdentifier(identifier))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.hasher.BurnVerify(plaintext)
			return false, nil
		}
		return false, err
	}

	return s.hasher.Verify(plaintext, u.PasswordHash), nil
}

// Authenticate returns the principal for a correct identifier and secret.
// Unknown identifiers and wrong secrets both yield ErrInvalidCredentials.
func (s *Store) Authenticate(ctx context.Context, identifier, secret string) (security.Principal, error) {
	u, err := s.repo.GetByEmail(ctx, NormalizeIdentifier(identifier))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.hasher.BurnVerify(secret)
			return security.Principal{}, apperrors.InvalidCredentials()
		}
		return security.Principal{}, err
	}

	if !s.hasher.Verify(secret, u.PasswordHash) {
		return security.Principal{}, apperrors.InvalidCredentials()
	}

	s.upgradeHash(ctx, u, secret)

	return security.PrincipalFromUser(u), nil
}

// upgradeHash re-hashes a verified secret stored at a lower cost than the
// hasher's. Failures leave the old hash in place.
func (s *Store) upgradeHash(ctx context.Context, u *user.User, secret string) {
	stale, err := password.NeedsRehash(u.PasswordHash, s.hasher.Cost())
	if err != nil || !stale {
		return
	}

	hash, err := s.hasher.Hash(secret)
	if err != nil {
		return
	}
	if err := s.repo.UpdatePasswordHash(ctx, u.ID, hash); err == nil {
		u.PasswordHash = hash
	}
}

func (s *Store) RegisterPrincipal(ctx context.Context, in RegisterInput) (security.Principal, error) {
	identifier := NormalizeIdentifier(in.Identifier)
	displayName := strings.TrimSpace(in.DisplayName)

	if err := validator.Email(identifier); err != nil {
		return security.Principal{}, apperrors.Validation(err.Error())
	}
	if err := validator.Password(in.Secret); err != nil {
		return security.Principal{}, apperrors.Validation(err.Error())
	}
	if err := validator.DisplayName(displayName); err != nil {
		return security.Principal{}, apperrors.Validation(err.Error())
	}

	role := user.RoleUser
	if in.Role != nil {
		if !in.Role.Valid() {
			return security.Principal{}, apperrors.Validation(errInvalidRole)
		}
		role = *in.Role
	}

	hash, err := s.hasher.Hash(in.Secret)
	if err != nil {
		return security.Principal{}, apperrors.InternalServer(errHashFailed, err)
	}

	u, err := s.repo.Create(ctx, user.CreateUserInput{
		Name:         displayName,
		Email:        identifier,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return security.Principal{}, ErrAlreadyExists
		}
		return security.Principal{}, err
	}

	return security.PrincipalFromUser(u), nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Store) List(ctx context.Context) ([]*user.User, error) {
	return s.repo.List(ctx)
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Store) UpdateDisplayName(ctx context.Context, id int64, name string) (*user.User, error) {
	name = strings.TrimSpace(name)
	if err := validator.DisplayName(name); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	if err := s.repo.Update(ctx, id, user.UpdateUserInput{Name: &name}); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}
