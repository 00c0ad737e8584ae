package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/visioncare/clinic-portal/internal/core/policy"
)

// CanonicalPath rewrites portal paths to the casing declared in the table
// so the router resolves "/Finances" like "/finances". Register it with
// echo.Pre after trailing slash removal.
func CanonicalPath(t *policy.Table) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if path, ok := t.Canonical(req.URL.Path); ok && path != req.URL.Path {
				req.URL.Path = path
				req.URL.RawPath = ""
			}
			return next(c)
		}
	}
}
