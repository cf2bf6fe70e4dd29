package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"project-service/internal/domain/user"
	apperrors "project-service/pkg/errors"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

const (
	userColumns = "id, name, email, password_hash, role, created_at, updated_at"

	errUserNotFound    = "user not found"
	errUserEmailExists = "user with this email already exists"
)

type rowScanner interface {
	Scan(dest ...any) error
}

type UserRepository struct {
	db  *DB
	now func() time.Time
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db, now: time.Now}
}

func (r *UserRepository) Create(ctx context.Context, input user.CreateUserInput) (*user.User, error) {
	now := toMillis(r.now())

	row := r.db.sqlDB.QueryRowContext(ctx,
		`INSERT INTO users (name, email, password_hash, role, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 RETURNING `+userColumns,
		input.Name, input.Email, input.PasswordHash, input.Role.String(), now, now,
	)

	u, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict(errUserEmailExists)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	row := r.db.sqlDB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return getOne(row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	row := r.db.sqlDB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return getOne(row)
}

func (r *UserRepository) List(ctx context.Context) ([]*user.User, error) {
	rows, err := r.db.sqlDB.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, id int64, input user.UpdateUserInput) error {
	if input.Name == nil {
		return nil
	}

	res, err := r.db.sqlDB.ExecContext(ctx,
		`UPDATE users SET name = ?, updated_at = ? WHERE id = ?`,
		*input.Name, toMillis(r.now()), id,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	return requireAffected(res)
}

// UpdatePasswordHash replaces the stored hash in a single statement.
func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id int64, passwordHash string) error {
	res, err := r.db.sqlDB.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, toMillis(r.now()), id,
	)
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}

	return requireAffected(res)
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.sqlDB.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	return requireAffected(res)
}

func getOne(row *sql.Row) (*user.User, error) {
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound(errUserNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return apperrors.NotFound(errUserNotFound)
	}
	return nil
}

func scanUser(row rowScanner) (*user.User, error) {
	u := &user.User{}
	var (
		role               string
		createdAt, updated int64
	)

	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &createdAt, &updated); err != nil {
		return nil, err
	}

	parsed, err := user.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("unknown stored role: %w", err)
	}
	u.Role = parsed
	u.CreatedAt = fromMillis(createdAt)
	u.UpdatedAt = fromMillis(updated)

	return u, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
