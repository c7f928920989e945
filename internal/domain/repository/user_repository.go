package repository

import (
	"context"
	"errors"

	"github.com/mfalcone/stockx/internal/domain/entity"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUsernameTaken is returned by Create when the username is already registered.
	ErrUsernameTaken = errors.New("username already taken")
)

// UserRepository defines the interface for account persistence.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
}
