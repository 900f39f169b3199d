package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/theatharvamuley10/backendPro/internal/core/domain"
)

// TokenConfig holds the signing material for both token types.
type TokenConfig struct {
	AccessSecret  string
	AccessTTL     time.Duration
	RefreshSecret string
	RefreshTTL    time.Duration
}

// Claims is the payload of both token types. Access tokens carry the profile
// fields; refresh tokens carry only the subject.
type Claims struct {
	jwt.RegisteredClaims
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	FullName string `json:"fullname,omitempty"`
}

// UserID returns the subject claim.
func (c Claims) UserID() string {
	return c.Subject
}

// TokenIssuer mints and verifies HS256 tokens.
type TokenIssuer struct {
	cfg TokenConfig
	now func() time.Time
}

// NewTokenIssuer validates cfg. The two secrets must be set and differ, and
// refresh tokens must outlive access tokens.
func NewTokenIssuer(cfg TokenConfig) (*TokenIssuer, error) {
	switch {
	case cfg.AccessSecret == "" || cfg.RefreshSecret == "":
		return nil, errors.New("token issuer: access and refresh secrets are required")
	case cfg.AccessSecret == cfg.RefreshSecret:
		return nil, errors.New("token issuer: access and refresh secrets must differ")
	case cfg.AccessTTL <= 0:
		return nil, errors.New("token issuer: access token ttl must be positive")
	case cfg.RefreshTTL <= cfg.AccessTTL:
		return nil, errors.New("token issuer: refresh token ttl must exceed access token ttl")
	}
	return &TokenIssuer{cfg: cfg, now: time.Now}, nil
}

// AccessTTL is exposed so the transport can align cookie lifetimes.
func (t *TokenIssuer) AccessTTL() time.Duration { return t.cfg.AccessTTL }

// RefreshTTL is exposed so the transport can align cookie lifetimes.
func (t *TokenIssuer) RefreshTTL() time.Duration { return t.cfg.RefreshTTL }

// IssueAccessToken signs a short-lived token carrying the profile claims.
func (t *TokenIssuer) IssueAccessToken(user *domain.User) (string, error) {
	claims := Claims{
		RegisteredClaims: t.registered(user.ID, t.cfg.AccessTTL),
		Email:            user.Email,
		Username:         user.Username,
		FullName:         user.FullName,
	}
	return t.sign(claims, t.cfg.AccessSecret)
}

// IssueRefreshToken signs a long-lived token carrying only the subject.
func (t *TokenIssuer) IssueRefreshToken(user *domain.User) (string, error) {
	return t.sign(Claims{RegisteredClaims: t.registered(user.ID, t.cfg.RefreshTTL)}, t.cfg.RefreshSecret)
}

// IssuePair mints a fresh access and refresh token for user.
func (t *TokenIssuer) IssuePair(user *domain.User) (domain.TokenPair, error) {
	access, err := t.IssueAccessToken(user)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, err := t.IssueRefreshToken(user)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// VerifyRefreshToken returns domain.ErrExpired for an expired token and
// domain.ErrInvalidToken for anything else that fails to verify.
func (t *TokenIssuer) VerifyRefreshToken(token string) (Claims, error) {
	return t.verify(token, t.cfg.RefreshSecret)
}

// VerifyAccessToken applies the same checks as VerifyRefreshToken with the
// access secret.
func (t *TokenIssuer) VerifyAccessToken(token string) (Claims, error) {
	return t.verify(token, t.cfg.AccessSecret)
}

func (t *TokenIssuer) registered(userID string, ttl time.Duration) jwt.RegisteredClaims {
	now := t.now()
	return jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func (t *TokenIssuer) sign(claims Claims, secret string) (string, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (t *TokenIssuer) verify(token, secret string) (Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, domain.WrapError(domain.KindExpired, domain.ErrExpired.Message, err)
		}
		return Claims{}, domain.WrapError(domain.KindInvalidToken, domain.ErrInvalidToken.Message, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return Claims{}, domain.ErrInvalidToken
	}
	return claims, nil
}
