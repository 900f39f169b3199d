package ports

import (
	"context"

	"github.com/theatharvamuley10/backendPro/internal/core/domain"
)

// RegisterInput carries the registration form. CoverImage may be empty.
type RegisterInput struct {
	FullName   string
	Email      string
	Username   string
	Password   string
	Avatar     domain.FileRef
	CoverImage domain.FileRef
}

// LoginInput identifies the account by username or email.
type LoginInput struct {
	Username string
	Email    string
	Password string
}

// ChangePasswordInput carries the current and the replacement password.
type ChangePasswordInput struct {
	OldPassword string
	NewPassword string
}

// UpdateAccountInput carries the editable profile fields.
type UpdateAccountInput struct {
	FullName string
	Email    string
}

// SessionService drives the account and session lifecycle. Every method
// returns a *domain.Error on failure.
type SessionService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.PublicUser, error)
	Login(ctx context.Context, in LoginInput) (*domain.LoginResult, error)
	Logout(ctx context.Context, userID string) error
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	Authenticate(ctx context.Context, accessToken string) (*domain.PublicUser, error)
	CurrentUser(ctx context.Context, userID string) (*domain.PublicUser, error)
	ChangePassword(ctx context.Context, userID string, in ChangePasswordInput) error
	UpdateAccountDetails(ctx context.Context, userID string, in UpdateAccountInput) (*domain.PublicUser, error)
}
