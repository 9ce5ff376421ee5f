package auth

import (
	"context"

	"blendery/internal/core/id"
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID id.ID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Exists(ctx context.Context, email string) (bool, error)

	// UpdateLoginState stores failed attempts, lock and last login.
	UpdateLoginState(ctx context.Context, user *User) error
}
