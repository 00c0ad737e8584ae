package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/visioncare/clinic-portal/internal/core/domain"
)

// Context keys set by this package.
const (
	ProfileKey  = "profile"
	IdentityKey = "identity"
)

// ProfileFrom returns the browser profile resolved by the Profile middleware.
func ProfileFrom(c echo.Context) string {
	p, _ := c.Get(ProfileKey).(string)
	return p
}

// IdentityFrom returns the restored identity, or nil when unauthenticated.
func IdentityFrom(c echo.Context) *domain.Identity {
	id, _ := c.Get(IdentityKey).(*domain.Identity)
	return id
}

// SetIdentity replaces the identity for the rest of the request.
func SetIdentity(c echo.Context, id *domain.Identity) {
	c.Set(IdentityKey, id)
}
