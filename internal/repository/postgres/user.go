package postgres

import (
	"context"
	"errors"
	"project-service/internal/domain/user"
	apperrors "project-service/pkg/errors"

	"github.com/jackc/pgx/v5"
)

const userColumns = "id, name, email, password_hash, role, created_at, updated_at"

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, input user.CreateUserInput) (*user.User, error) {
	query := `
		INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns

	u, err := scanUser(r.db.Pool.QueryRow(ctx, query, input.Name, input.Email, input.PasswordHash, input.Role.String()))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict(errUserEmailExists)
		}
		return nil, errFailedCreateUser(err)
	}

	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(errUserNotFound)
		}
		return nil, errFailedGetUser(err)
	}

	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	u, err := scanUser(r.db.Pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(errUserNotFound)
		}
		return nil, errFailedGetUser(err)
	}

	return u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, errFailedListUsers(err)
	}
	defer rows.Close()

	var users []*user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, errFailedScanUser(err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, errIterateUsers(err)
	}

	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, id int64, input user.UpdateUserInput) error {
	if input.Name == nil {
		return nil
	}

	query := "UPDATE users SET name = $2, updated_at = NOW() WHERE id = $1"

	result, err := r.db.Pool.Exec(ctx, query, id, *input.Name)
	if err != nil {
		return errFailedUpdateUser(err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errUserNotFound)
	}

	return nil
}

// UpdatePasswordHash replaces the stored hash in a single statement.
func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id int64, passwordHash string) error {
	query := "UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1"

	result, err := r.db.Pool.Exec(ctx, query, id, passwordHash)
	if err != nil {
		return errFailedUpdatePasswordHash(err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errUserNotFound)
	}

	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	query := "DELETE FROM users WHERE id = $1"

	result, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return errFailedDeleteUser(err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errUserNotFound)
	}

	return nil
}

func scanUser(row pgx.Row) (*user.User, error) {
	u := &user.User{}
	var role string

	if err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&role,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, err
	}

	parsed, err := user.ParseRole(role)
	if err != nil {
		return nil, errUnknownStoredRole(err)
	}
	u.Role = parsed

	return u, nil
}
