package api

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/visioncare/clinic-portal/docs"
	"github.com/visioncare/clinic-portal/internal/api/handler"
	"github.com/visioncare/clinic-portal/internal/api/middleware"
	"github.com/visioncare/clinic-portal/internal/core/domain"
	"github.com/visioncare/clinic-portal/internal/core/policy"
	"github.com/visioncare/clinic-portal/internal/core/ports"
	"github.com/visioncare/clinic-portal/internal/infrastructure/http/handlers"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Table    *policy.Table
	Sessions ports.SessionService
	Audit    ports.AuditService
	// Recorder receives access_denied events; may be nil.
	Recorder ports.AuditRecorder
	Profile  middleware.ProfileConfig
	Checks   map[string]handlers.Check
	// Registerer receives the HTTP request metrics. Defaults to the global registry.
	Registerer prometheus.Registerer
	Log        zerolog.Logger
}

// infraPrefixes are served without a browser profile or session.
var infraPrefixes = []string{"/health", "/metrics", "/swagger"}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	reg := d.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	// --- Global middleware ---
	e.Pre(echomiddleware.RemoveTrailingSlash())
	e.Pre(middleware.CanonicalPath(d.Table))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "visioncare",
		Registerer: reg,
		Skipper:    isInfra,
	}))
	e.Use(portalOnly(middleware.Profile(d.Profile)))
	e.Use(portalOnly(middleware.Session(d.Sessions)))

	// --- Health probes, metrics and docs ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Session API ---
	sessionHandler := handler.NewSessionHandler(d.Sessions)
	viewHandler := handler.NewViewHandler(d.Table)
	auditHandler := handler.NewAuditHandler(d.Audit)

	e.POST("/api/v1/session", sessionHandler.Login)
	e.GET("/api/v1/session", sessionHandler.Current)
	e.DELETE("/api/v1/session", sessionHandler.Logout)
	e.GET("/api/v1/navigation", viewHandler.Navigate)
	e.GET("/api/v1/logs", auditHandler.List, middleware.Guard(logsPolicy(d.Table), d.Recorder))

	// --- Portal views ---
	e.GET(policy.LoginPath, viewHandler.Login)
	for _, rp := range d.Table.Policies() {
		e.GET(rp.Path, viewHandler.Render(rp), middleware.Guard(rp, d.Recorder))
	}
	e.RouteNotFound("/*", viewHandler.NotFound)

	return e
}

// logsPolicy guards the audit API with the table's /logs entry so both stay
// in step. Tables without one restrict the API to clinic roles.
func logsPolicy(t *policy.Table) policy.RoutePolicy {
	if rp, ok := t.Lookup("/logs"); ok {
		return rp
	}
	return policy.RoutePolicy{
		Path:         "/logs",
		View:         "logs",
		AllowedRoles: []domain.Role{domain.RoleDoctor, domain.RoleStaff},
	}
}

func isInfra(c echo.Context) bool {
	path := c.Request().URL.Path
	for _, p := range infraPrefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// portalOnly skips mw on infrastructure endpoints.
func portalOnly(mw echo.MiddlewareFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		wrapped := mw(next)
		return func(c echo.Context) error {
			if isInfra(c) {
				return next(c)
			}
			return wrapped(c)
		}
	}
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
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
