package user

import (
	"time"
)

type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type CreateUserInput struct {
	Name         string
	Email        string
	PasswordHash string
	Role         Role
}

type UpdateUserInput struct {
	Name *string
}
