package repository

import (
	"context"
	"errors"

	"github.com/ecomarket/user-service/internal/domain/entity"
)

// Sentinel errors surfaced by UserRepository implementations.
// ErrDuplicateUsername/ErrDuplicateEmail report a unique-constraint
// violation at write time; the storage constraint is the authoritative
// guard against concurrent registrations.
var (
	ErrNotFound          = errors.New("user not found")
	ErrDuplicateUsername = errors.New("duplicate username")
	ErrDuplicateEmail    = errors.New("duplicate email")
)

// UserRepository defines the persistence contract for users.
type UserRepository interface {
	GetAll(ctx context.Context) ([]*entity.User, error)
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Create(ctx context.Context, u *entity.User) error
	Update(ctx context.Context, u *entity.User) error
	// Delete removes the row for id; deleting an absent id is not an error.
	Delete(ctx context.Context, id int64) error
}
