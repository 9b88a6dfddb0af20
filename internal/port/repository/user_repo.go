package repository

import (
	"context"
	"errors"

	"github.com/agrolease/agrolease-backend/internal/entity"
)

var ErrDuplicateEmail = errors.New("email already exists")

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) (string, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id string) error
	// List returns one page of users, newest first, optionally restricted
	// to a role, plus the total match count.
	List(ctx context.Context, role entity.Role, page, limit int) ([]*entity.User, int64, error)
	Count(ctx context.Context) (int64, error)
	CountByRole(ctx context.Context, role entity.Role) (int64, error)
}
