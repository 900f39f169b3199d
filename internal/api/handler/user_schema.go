package handler

import "github.com/theatharvamuley10/backendPro/internal/core/domain"

// --- Request types ---

type loginRequest struct {
	Username string `json:"username" form:"username" validate:"required_without=Email"`
	Email    string `json:"email"    form:"email"`
	Password string `json:"password" form:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" form:"refreshToken"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" form:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" form:"newPassword" validate:"required"`
}

type updateAccountRequest struct {
	FullName string `json:"fullname" form:"fullname" validate:"required"`
	Email    string `json:"email"    form:"email"    validate:"required,email"`
}

// --- Response payloads (documentation only, the envelope carries them in data) ---

type userEnvelope struct {
	StatusCode int                `json:"statusCode"`
	Success    bool               `json:"success"`
	Data       *domain.PublicUser `json:"data"`
	Message    string             `json:"message"`
}

type loginEnvelope struct {
	StatusCode int                `json:"statusCode"`
	Success    bool               `json:"success"`
	Data       domain.LoginResult `json:"data"`
	Message    string             `json:"message"`
}

type tokensEnvelope struct {
	StatusCode int              `json:"statusCode"`
	Success    bool             `json:"success"`
	Data       domain.TokenPair `json:"data"`
	Message    string           `json:"message"`
}

type errorEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
