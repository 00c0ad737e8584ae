package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/visioncare/clinic-portal/internal/core/domain"
	"github.com/visioncare/clinic-portal/internal/core/policy"
	"github.com/visioncare/clinic-portal/internal/core/ports"
	"github.com/visioncare/clinic-portal/internal/infrastructure/metrics"
)

// Guard enforces a route policy against the restored identity. Unauthenticated
// callers are redirected to the login view; authenticated callers without a
// permitted role are redirected to their fallback view. audit may be nil.
func Guard(rp policy.RoutePolicy, audit ports.AuditRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := IdentityFrom(c)
			out := policy.Decide(identity, rp.AllowedRoles)
			metrics.GuardDecisionsTotal.WithLabelValues(string(out.Decision), rp.View).Inc()

			if !out.Redirects() {
				return next(c)
			}

			if out.State == policy.StateForbidden && audit != nil {
				audit.Record(domain.SessionEvent{
					Profile: ProfileFrom(c),
					Action:  domain.ActionAccessDenied,
					Email:   identity.Email,
					Role:    identity.Role,
					Path:    c.Request().URL.Path,
				})
			}
			return c.Redirect(http.StatusFound, out.Target)
		}
	}
}
