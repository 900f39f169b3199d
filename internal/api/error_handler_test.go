package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/theatharvamuley10/backendPro/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"validation", domain.NewError(domain.KindValidation, "all fields are required"), http.StatusBadRequest, "all fields are required"},
		{"conflict", domain.ErrConflict, http.StatusConflict, domain.ErrConflict.Message},
		{"not found", domain.ErrNotFound, http.StatusNotFound, "user does not exist"},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid user credentials"},
		{"token mismatch", domain.ErrTokenMismatch, http.StatusUnauthorized, "refresh token is expired or used"},
		{"expired", domain.WrapError(domain.KindExpired, "token has expired", errors.New("exp")), http.StatusUnauthorized, "token has expired"},
		{"too many attempts", domain.ErrTooManyAttempts, http.StatusTooManyRequests, domain.ErrTooManyAttempts.Message},
		{"internal keeps message only", domain.WrapError(domain.KindInternal, "something went wrong", errors.New("dial tcp")), http.StatusInternalServerError, "something went wrong"},
		{"echo error", echo.NewHTTPError(http.StatusMethodNotAllowed, "method not allowed"), http.StatusMethodNotAllowed, "method not allowed"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/v1/users/login", nil), rec)

			NewHTTPErrorHandler(zerolog.Nop())(tc.err, c)

			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Success {
				t.Fatal("expected success=false")
			}
			if resp.Message != tc.msg {
				t.Fatalf("expected message %q, got %q", tc.msg, resp.Message)
			}
		})
	}
}
