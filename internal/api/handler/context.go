package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/visioncare/clinic-portal/internal/api/middleware"
	"github.com/visioncare/clinic-portal/internal/core/domain"
	"github.com/visioncare/clinic-portal/internal/core/policy"
)

// ctxProfile returns the browser profile set by the Profile middleware. An
// empty profile means the middleware did not run; every profile-scoped
// operation refuses to proceed without one.
func ctxProfile(c echo.Context) (string, error) {
	profile := middleware.ProfileFrom(c)
	if profile == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing browser profile")
	}
	return profile, nil
}

// ctxParams collects the named route parameters echo matched.
func ctxParams(c echo.Context) map[string]string {
	names := c.ParamNames()
	if len(names) == 0 {
		return nil
	}
	values := c.ParamValues()
	params := make(map[string]string, len(names))
	for i, name := range names {
		if i < len(values) {
			params[name] = values[i]
		}
	}
	return params
}

// navigationFor returns the sidebar for identity, nil when unauthenticated.
func navigationFor(t *policy.Table, identity *domain.Identity) []policy.NavItem {
	if identity == nil {
		return nil
	}
	return policy.Navigation(t, identity.Role)
}
