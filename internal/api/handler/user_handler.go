package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/theatharvamuley10/backendPro/internal/api/metrics"
	"github.com/theatharvamuley10/backendPro/internal/core/domain"
	"github.com/theatharvamuley10/backendPro/internal/core/ports"
)

// UploadConfig bounds the multipart files accepted on register.
type UploadConfig struct {
	TempDir  string
	MaxBytes int64
}

type UserHandler struct {
	service ports.SessionService
	cookies CookieConfig
	uploads UploadConfig
	logger  zerolog.Logger
}

func NewUserHandler(service ports.SessionService, cookies CookieConfig, uploads UploadConfig, logger zerolog.Logger) *UserHandler {
	if uploads.TempDir == "" {
		uploads.TempDir = os.TempDir()
	}
	return &UserHandler{service: service, cookies: cookies, uploads: uploads, logger: logger}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Param        fullname    formData  string  true   "Full name"
// @Param        email       formData  string  true   "Email"
// @Param        username    formData  string  true   "Username"
// @Param        password    formData  string  true   "Password"
// @Param        avatar      formData  file    true   "Avatar image"
// @Param        coverImage  formData  file    false  "Cover image"
// @Success      201         {object}  userEnvelope
// @Failure      400         {object}  errorEnvelope
// @Failure      409         {object}  errorEnvelope
// @Failure      500         {object}  errorEnvelope
// @Router       /api/v1/users/register [post]
func (h *UserHandler) Register(c echo.Context) error {
	var temp []string
	defer func() { h.removeTemp(temp) }()

	avatar, err := h.saveUpload(c, "avatar")
	if err != nil {
		return err
	}
	if avatar.Present() {
		temp = append(temp, avatar.Path)
	}

	cover, err := h.saveUpload(c, "coverImage")
	if err != nil {
		return err
	}
	if cover.Present() {
		temp = append(temp, cover.Path)
	}

	user, err := h.service.Register(c.Request().Context(), ports.RegisterInput{
		FullName:   c.FormValue("fullname"),
		Email:      c.FormValue("email"),
		Username:   c.FormValue("username"),
		Password:   c.FormValue("password"),
		Avatar:     avatar,
		CoverImage: cover,
	})
	metrics.ObserveAuth(metrics.OpRegister, err)
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, user, "User registered successfully")
}

// Login authenticates by username or email and sets the session cookies.
//
// @Summary      Login
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginEnvelope
// @Failure      400   {object}  errorEnvelope
// @Failure      401   {object}  errorEnvelope
// @Failure      404   {object}  errorEnvelope
// @Failure      429   {object}  errorEnvelope
// @Router       /api/v1/users/login [post]
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.service.Login(c.Request().Context(), ports.LoginInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	metrics.ObserveAuth(metrics.OpLogin, err)
	if err != nil {
		return err
	}

	h.cookies.setSession(c, res.TokenPair)
	return respond(c, http.StatusOK, res, "User logged in successfully")
}

// Logout ends the current session and clears the cookies.
//
// @Summary      Logout
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  apiResponse
// @Failure      401  {object}  errorEnvelope
// @Router       /api/v1/users/logout [post]
func (h *UserHandler) Logout(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	err = h.service.Logout(c.Request().Context(), user.ID)
	metrics.ObserveAuth(metrics.OpLogout, err)
	if err != nil {
		return err
	}

	h.cookies.clearSession(c)
	return respond(c, http.StatusOK, map[string]any{}, "User logged out")
}

// RefreshToken rotates the session. The token is read from the refreshToken
// cookie, then from the body.
//
// @Summary      Refresh the access token
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  false  "Refresh token when no cookie is sent"
// @Success      200   {object}  tokensEnvelope
// @Failure      401   {object}  errorEnvelope
// @Router       /api/v1/users/refresh-token [post]
func (h *UserHandler) RefreshToken(c echo.Context) error {
	token := ""
	if ck, err := c.Cookie(refreshTokenCookie); err == nil {
		token = ck.Value
	}
	if token == "" {
		var req refreshRequest
		if err := c.Bind(&req); err != nil {
			return domain.WrapError(domain.KindValidation, "invalid payload", err)
		}
		token = req.RefreshToken
	}

	pair, err := h.service.Refresh(c.Request().Context(), token)
	metrics.ObserveAuth(metrics.OpRefresh, err)
	if err != nil {
		return err
	}

	h.cookies.setSession(c, *pair)
	return respond(c, http.StatusOK, pair, "Access token refreshed")
}

// ChangePassword replaces the password of the signed-in user. The session
// ends with it.
//
// @Summary      Change password
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Old and new password"
// @Success      200   {object}  apiResponse
// @Failure      400   {object}  errorEnvelope
// @Failure      401   {object}  errorEnvelope
// @Router       /api/v1/users/change-password [post]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req changePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	err = h.service.ChangePassword(c.Request().Context(), user.ID, ports.ChangePasswordInput{
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	metrics.ObserveAuth(metrics.OpChangePassword, err)
	if err != nil {
		return err
	}

	h.cookies.clearSession(c)
	return respond(c, http.StatusOK, map[string]any{}, "Password changed successfully")
}

// CurrentUser returns the signed-in user.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userEnvelope
// @Failure      401  {object}  errorEnvelope
// @Router       /api/v1/users/current-user [get]
func (h *UserHandler) CurrentUser(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	fresh, err := h.service.CurrentUser(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, fresh, "User fetched successfully")
}

// UpdateAccountDetails changes the full name and email.
//
// @Summary      Update account details
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateAccountRequest  true  "New details"
// @Success      200   {object}  userEnvelope
// @Failure      400   {object}  errorEnvelope
// @Failure      401   {object}  errorEnvelope
// @Failure      409   {object}  errorEnvelope
// @Router       /api/v1/users/update-account-details [patch]
func (h *UserHandler) UpdateAccountDetails(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req updateAccountRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	updated, err := h.service.UpdateAccountDetails(c.Request().Context(), user.ID, ports.UpdateAccountInput{
		FullName: req.FullName,
		Email:    req.Email,
	})
	metrics.ObserveAuth(metrics.OpUpdateAccount, err)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, updated, "Account details updated successfully")
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.WrapError(domain.KindValidation, "invalid payload", err)
	}
	return c.Validate(req)
}

// saveUpload copies the multipart file in field to the temp dir. A missing
// file yields an empty FileRef.
func (h *UserHandler) saveUpload(c echo.Context, field string) (domain.FileRef, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return domain.FileRef{}, nil
		}
		return domain.FileRef{}, domain.WrapError(domain.KindValidation, "invalid multipart form", err)
	}
	if h.uploads.MaxBytes > 0 && fh.Size > h.uploads.MaxBytes {
		return domain.FileRef{}, domain.NewError(domain.KindValidation,
			fmt.Sprintf("%s exceeds the maximum size of %d bytes", field, h.uploads.MaxBytes))
	}

	path, err := h.writeTemp(fh)
	if err != nil {
		return domain.FileRef{}, domain.WrapError(domain.KindInternal, domain.ErrInternal.Message, err)
	}
	metrics.UploadBytes.WithLabelValues(field).Observe(float64(fh.Size))

	return domain.FileRef{Path: path, Filename: fh.Filename, Size: fh.Size}, nil
}

func (h *UserHandler) writeTemp(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(h.uploads.TempDir, 0o750); err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}

	path := filepath.Join(h.uploads.TempDir, uuid.NewString()+strings.ToLower(filepath.Ext(fh.Filename)))
	dst, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return path, nil
}

func (h *UserHandler) removeTemp(paths []string) {
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			h.logger.Warn().Err(err).Str("path", p).Msg("failed to remove temp upload")
		}
	}
}
