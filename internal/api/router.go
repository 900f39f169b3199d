package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/theatharvamuley10/backendPro/docs"
	"github.com/theatharvamuley10/backendPro/internal/api/handler"
	"github.com/theatharvamuley10/backendPro/internal/api/middleware"
	"github.com/theatharvamuley10/backendPro/internal/core/ports"
)

const metricsSubsystem = "backendpro"

// Deps carries everything the router wires into handlers.
type Deps struct {
	Sessions    ports.SessionService
	Cookies     handler.CookieConfig
	Uploads     handler.UploadConfig
	Health      map[string]handler.Check
	CORSOrigins []string
	Logger      zerolog.Logger
	// Registry receives the HTTP metrics. nil means the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	registerer, gatherer := prometheus.DefaultRegisterer, prometheus.DefaultGatherer
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     deps.CORSOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  metricsSubsystem,
		Registerer: registerer,
	}))

	// --- Dependencies ---
	users := handler.NewUserHandler(deps.Sessions, deps.Cookies, deps.Uploads, deps.Logger)
	guard := middleware.Auth(deps.Sessions)

	// --- User routes ---
	g := e.Group("/api/v1/users")
	g.POST("/register", users.Register, bodyLimit(deps.Uploads.MaxBytes))
	g.POST("/login", users.Login)
	g.POST("/refresh-token", users.RefreshToken)
	g.POST("/logout", users.Logout, guard)
	g.POST("/change-password", users.ChangePassword, guard)
	g.GET("/current-user", users.CurrentUser, guard)
	g.PATCH("/update-account-details", users.UpdateAccountDetails, guard)

	// --- Health probes, metrics and docs (no auth required) ---
	health := handler.NewHealthHandler(deps.Health)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// bodyLimit caps the register form at two files of maxBytes plus 1MiB for
// the text fields.
func bodyLimit(maxBytes int64) echo.MiddlewareFunc {
	if maxBytes <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	limitKB := (2*maxBytes + 1<<20) / 1024
	return echomiddleware.BodyLimit(fmt.Sprintf("%dK", limitKB))
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
