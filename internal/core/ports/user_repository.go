package ports

import (
	"context"

	"github.com/theatharvamuley10/backendPro/internal/core/domain"
)

// UserRepository is the credential store. Implementations return
// domain.ErrNotFound when a lookup misses and domain.ErrConflict when a
// username or email uniqueness constraint is violated.
type UserRepository interface {
	// FindByUsernameOrEmail returns the first user whose username equals
	// username or whose email equals email. Empty arguments never match.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// Create inserts user and returns it with its assigned ID.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// UpdateRefreshToken overwrites the stored refresh token. An empty token
	// removes it.
	UpdateRefreshToken(ctx context.Context, id, token string) error
	// SwapRefreshToken replaces current with next only if current is still the
	// stored value. It returns domain.ErrTokenMismatch when it is not.
	SwapRefreshToken(ctx context.Context, id, current, next string) error
	// UpdatePassword stores a new hash and removes the refresh token.
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	// UpdateAccount replaces the full name and email and returns the result.
	UpdateAccount(ctx context.Context, id, fullName, email string) (*domain.User, error)
}
