package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/visioncare/clinic-portal/internal/core/ports"
)

// Session restores the profile's identity into the request context.
// It must run after Profile.
func Session(store ports.SessionService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if id := store.Restore(c.Request().Context(), ProfileFrom(c)); id != nil {
				SetIdentity(c, id)
			}
			return next(c)
		}
	}
}
