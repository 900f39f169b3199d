package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/theatharvamuley10/backendPro/internal/core/domain"
	"github.com/theatharvamuley10/backendPro/internal/core/ports"
)

// maxPasswordBytes is the bcrypt input limit.
const maxPasswordBytes = 72

// Hasher abstracts password hashing (bcrypt).
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// Tokens abstracts the access/refresh token issuer.
type Tokens interface {
	IssuePair(user *domain.User) (domain.TokenPair, error)
	VerifyRefreshToken(token string) (Claims, error)
	VerifyAccessToken(token string) (Claims, error)
}

// SessionService implements ports.SessionService.
type SessionService struct {
	users   ports.UserRepository
	media   ports.MediaUploader
	hasher  Hasher
	tokens  Tokens
	limiter ports.LoginLimiter
	logger  zerolog.Logger
	nowFunc func() time.Time
}

var _ ports.SessionService = (*SessionService)(nil)

// NewSessionService wires the orchestrator. limiter may be nil, in which case
// failed logins are never throttled.
func NewSessionService(
	users ports.UserRepository,
	media ports.MediaUploader,
	hasher Hasher,
	tokens Tokens,
	limiter ports.LoginLimiter,
	logger zerolog.Logger,
) *SessionService {
	return &SessionService{
		users:   users,
		media:   media,
		hasher:  hasher,
		tokens:  tokens,
		limiter: limiter,
		logger:  logger,
		nowFunc: time.Now,
	}
}

// Register validates the form, uploads the images and persists a new user.
func (s *SessionService) Register(ctx context.Context, in ports.RegisterInput) (*domain.PublicUser, error) {
	fullName := strings.TrimSpace(in.FullName)
	email := strings.TrimSpace(in.Email)
	username := domain.NormalizeUsername(in.Username)

	if fullName == "" || email == "" || username == "" || strings.TrimSpace(in.Password) == "" {
		return nil, domain.NewError(domain.KindValidation, "all fields are required")
	}
	if !domain.ValidEmail(email) {
		return nil, domain.NewError(domain.KindValidation, "invalid email")
	}
	if err := checkPasswordLength(in.Password); err != nil {
		return nil, err
	}

	existing, err := s.users.FindByUsernameOrEmail(ctx, username, email)
	switch {
	case err == nil && existing != nil:
		return nil, domain.ErrConflict
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		return nil, s.internal("lookup existing user", err)
	}

	if !in.Avatar.Present() {
		return nil, domain.NewError(domain.KindValidation, "avatar file is required")
	}

	avatarURL, coverURL, err := s.uploadImages(ctx, in.Avatar, in.CoverImage)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, s.internal("hash password", err)
	}

	now := s.nowFunc().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Username:     username,
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		Avatar:       avatarURL,
		CoverImage:   coverURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.ErrConflict
		}
		return nil, s.internal("create user", err)
	}

	stored, err := s.users.FindByID(ctx, created.ID)
	if err != nil || stored == nil {
		return nil, domain.WrapError(domain.KindInternal, "something went wrong while registering the user", err)
	}

	s.logger.Info().Str("user_id", stored.ID).Str("username", stored.Username).Msg("user registered")
	return stored.Public(), nil
}

// uploadImages pushes the avatar and, when given, the cover image in
// parallel. Only the avatar is mandatory; a failed cover upload leaves the
// cover empty.
func (s *SessionService) uploadImages(ctx context.Context, avatar, cover domain.FileRef) (string, string, error) {
	var avatarURL, coverURL string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		url, err := s.media.Upload(gctx, avatar.Path)
		if err != nil {
			s.logger.Warn().Err(err).Str("file", avatar.Filename).Msg("avatar upload failed")
			return domain.WrapError(domain.KindValidation, "avatar file is required", err)
		}
		avatarURL = url
		return nil
	})
	if cover.Present() {
		g.Go(func() error {
			url, err := s.media.Upload(gctx, cover.Path)
			if err != nil {
				s.logger.Warn().Err(err).Str("file", cover.Filename).Msg("cover image upload failed")
				return nil
			}
			coverURL = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", "", err
	}
	return avatarURL, coverURL, nil
}

// Login verifies the password and issues a fresh token pair.
func (s *SessionService) Login(ctx context.Context, in ports.LoginInput) (*domain.LoginResult, error) {
	username := domain.NormalizeUsername(in.Username)
	email := strings.TrimSpace(in.Email)

	if username == "" && email == "" {
		return nil, domain.NewError(domain.KindValidation, "username or email is required")
	}
	if in.Password == "" {
		return nil, domain.NewError(domain.KindValidation, "password is required")
	}

	user, err := s.users.FindByUsernameOrEmail(ctx, username, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, s.internal("find user", err)
	}

	// Failures are counted per account, whichever identifier was typed.
	if s.blocked(ctx, user.ID) {
		return nil, domain.ErrTooManyAttempts
	}

	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		s.recordFailure(ctx, user.ID)
		s.logger.Info().Str("user_id", user.ID).Msg("login rejected: wrong password")
		return nil, domain.ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(user)
	if err != nil {
		return nil, domain.WrapError(domain.KindInternal, "something went wrong while generating access and refresh tokens", err)
	}
	if err := s.users.UpdateRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, s.internal("store refresh token", err)
	}
	s.resetFailures(ctx, user.ID)

	s.logger.Info().Str("user_id", user.ID).Msg("user logged in")
	return &domain.LoginResult{User: user.Public(), TokenPair: pair}, nil
}

// Logout clears the stored refresh token. Unknown users are not an error.
func (s *SessionService) Logout(ctx context.Context, userID string) error {
	if err := s.users.UpdateRefreshToken(ctx, userID, ""); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return s.internal("clear refresh token", err)
	}
	s.logger.Info().Str("user_id", userID).Msg("user logged out")
	return nil
}

// Refresh exchanges the current refresh token for a new pair and rotates the
// stored value.
func (s *SessionService) Refresh(ctx context.Context, incoming string) (*domain.TokenPair, error) {
	incoming = strings.TrimSpace(incoming)
	if incoming == "" {
		return nil, domain.ErrUnauthorized
	}

	claims, err := s.tokens.VerifyRefreshToken(incoming)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, claims.UserID())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewError(domain.KindNotFound, "invalid refresh token")
		}
		return nil, s.internal("find user", err)
	}

	if !user.HasSession() || user.RefreshToken != incoming {
		s.logger.Warn().Str("user_id", user.ID).Msg("refresh rejected: token superseded or revoked")
		return nil, domain.ErrTokenMismatch
	}

	pair, err := s.tokens.IssuePair(user)
	if err != nil {
		return nil, domain.WrapError(domain.KindInternal, "something went wrong while generating access and refresh tokens", err)
	}
	if err := s.users.SwapRefreshToken(ctx, user.ID, incoming, pair.RefreshToken); err != nil {
		if errors.Is(err, domain.ErrTokenMismatch) {
			return nil, domain.ErrTokenMismatch
		}
		return nil, s.internal("rotate refresh token", err)
	}

	s.logger.Debug().Str("user_id", user.ID).Msg("session refreshed")
	return &pair, nil
}

// Authenticate resolves an access token to the user it was issued for.
func (s *SessionService) Authenticate(ctx context.Context, accessToken string) (*domain.PublicUser, error) {
	if accessToken == "" {
		return nil, domain.ErrUnauthorized
	}
	claims, err := s.tokens.VerifyAccessToken(accessToken)
	if err != nil {
		return nil, domain.WrapError(domain.KindUnauthorized, "invalid access token", err)
	}
	user, err := s.users.FindByID(ctx, claims.UserID())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewError(domain.KindUnauthorized, "invalid access token")
		}
		return nil, s.internal("find user", err)
	}
	return user.Public(), nil
}

// CurrentUser reloads the user from the store.
func (s *SessionService) CurrentUser(ctx context.Context, userID string) (*domain.PublicUser, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, s.internal("find user", err)
	}
	return user.Public(), nil
}

// ChangePassword replaces the password after checking the old one. Every
// session of the user ends with it.
func (s *SessionService) ChangePassword(ctx context.Context, userID string, in ports.ChangePasswordInput) error {
	if in.OldPassword == "" || strings.TrimSpace(in.NewPassword) == "" {
		return domain.NewError(domain.KindValidation, "old and new password are required")
	}
	if err := checkPasswordLength(in.NewPassword); err != nil {
		return err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return s.internal("find user", err)
	}
	if !s.hasher.Verify(in.OldPassword, user.PasswordHash) {
		return domain.NewError(domain.KindInvalidCredentials, "invalid old password")
	}

	hash, err := s.hasher.Hash(in.NewPassword)
	if err != nil {
		return s.internal("hash password", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return s.internal("update password", err)
	}

	s.logger.Info().Str("user_id", userID).Msg("password changed")
	return nil
}

// UpdateAccountDetails replaces the full name and email of the user.
func (s *SessionService) UpdateAccountDetails(ctx context.Context, userID string, in ports.UpdateAccountInput) (*domain.PublicUser, error) {
	fullName := strings.TrimSpace(in.FullName)
	email := strings.TrimSpace(in.Email)
	if fullName == "" || email == "" {
		return nil, domain.NewError(domain.KindValidation, "all fields are required")
	}
	if !domain.ValidEmail(email) {
		return nil, domain.NewError(domain.KindValidation, "invalid email")
	}

	owner, err := s.users.FindByUsernameOrEmail(ctx, "", email)
	switch {
	case err == nil && owner != nil && owner.ID != userID:
		return nil, domain.NewError(domain.KindConflict, "email is already in use")
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		return nil, s.internal("lookup email owner", err)
	}

	updated, err := s.users.UpdateAccount(ctx, userID, fullName, email)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return nil, domain.ErrNotFound
		case errors.Is(err, domain.ErrConflict):
			return nil, domain.NewError(domain.KindConflict, "email is already in use")
		}
		return nil, s.internal("update account", err)
	}
	return updated.Public(), nil
}

// checkPasswordLength rejects passwords bcrypt cannot hash.
func checkPasswordLength(password string) error {
	if len(password) > maxPasswordBytes {
		return domain.NewError(domain.KindValidation, "password must be at most 72 bytes")
	}
	return nil
}

func (s *SessionService) blocked(ctx context.Context, key string) bool {
	if s.limiter == nil {
		return false
	}
	blocked, err := s.limiter.Blocked(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Msg("login limiter check failed, allowing attempt")
		return false
	}
	return blocked
}

func (s *SessionService) recordFailure(ctx context.Context, key string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.RecordFailure(ctx, key); err != nil {
		s.logger.Warn().Err(err).Msg("failed to record login failure")
	}
}

func (s *SessionService) resetFailures(ctx context.Context, key string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.Reset(ctx, key); err != nil {
		s.logger.Warn().Err(err).Msg("failed to reset login failures")
	}
}

func (s *SessionService) internal(op string, err error) error {
	s.logger.Error().Err(err).Str("op", op).Msg("session operation failed")
	return domain.WrapError(domain.KindInternal, domain.ErrInternal.Message, err)
}
