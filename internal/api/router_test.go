package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/theatharvamuley10/backendPro/internal/api/handler"
	"github.com/theatharvamuley10/backendPro/internal/core/domain"
	"github.com/theatharvamuley10/backendPro/internal/core/ports"
)

// stubSessions only authenticates the token "good"; every other call fails.
type stubSessions struct{}

func (stubSessions) Register(context.Context, ports.RegisterInput) (*domain.PublicUser, error) {
	return nil, domain.ErrInternal
}

func (stubSessions) Login(context.Context, ports.LoginInput) (*domain.LoginResult, error) {
	return nil, domain.ErrInvalidCredentials
}

func (stubSessions) Logout(context.Context, string) error { return nil }

func (stubSessions) Refresh(context.Context, string) (*domain.TokenPair, error) {
	return nil, domain.ErrTokenMismatch
}

func (stubSessions) Authenticate(_ context.Context, token string) (*domain.PublicUser, error) {
	if token == "good" {
		return &domain.PublicUser{ID: "u1", Username: "alice"}, nil
	}
	return nil, domain.NewError(domain.KindUnauthorized, "invalid access token")
}

func (stubSessions) CurrentUser(_ context.Context, id string) (*domain.PublicUser, error) {
	return &domain.PublicUser{ID: id, Username: "alice"}, nil
}

func (stubSessions) ChangePassword(context.Context, string, ports.ChangePasswordInput) error {
	return nil
}

func (stubSessions) UpdateAccountDetails(context.Context, string, ports.UpdateAccountInput) (*domain.PublicUser, error) {
	return nil, domain.ErrNotFound
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return NewRouter(Deps{
		Sessions:    stubSessions{},
		Cookies:     handler.CookieConfig{AccessTTL: time.Minute, RefreshTTL: time.Hour},
		Uploads:     handler.UploadConfig{TempDir: t.TempDir(), MaxBytes: 1 << 20},
		Health:      map[string]handler.Check{"mongodb": func(context.Context) error { return nil }},
		CORSOrigins: []string{"http://localhost:3000"},
		Logger:      zerolog.Nop(),
		Registry:    prometheus.NewRegistry(),
	})
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_GuardedRoute(t *testing.T) {
	r := newTestRouter(t)

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
	var failure errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &failure); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if failure.Success || failure.Message != "unauthorized request" {
		t.Fatalf("unexpected failure envelope: %+v", failure)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec = serve(r, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_LoginFailureEnvelope(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", strings.NewReader(`{"username":"alice","password":"bad"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(r, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"success":false`) {
		t.Fatalf("expected failure envelope, got %s", rec.Body.String())
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	rec := serve(newTestRouter(t), httptest.NewRequest(http.MethodGet, "/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	r := newTestRouter(t)

	if rec := serve(r, httptest.NewRequest(http.MethodGet, "/health", nil)); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /health, got %d", rec.Code)
	}
	if rec := serve(r, httptest.NewRequest(http.MethodGet, "/health/ready", nil)); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /health/ready, got %d", rec.Code)
	}

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "backendpro_requests_total") {
		t.Fatalf("expected request metrics, got %s", rec.Body.String())
	}
}
