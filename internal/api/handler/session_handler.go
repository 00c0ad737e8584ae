package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/visioncare/clinic-portal/internal/api/middleware"
	"github.com/visioncare/clinic-portal/internal/core/policy"
	"github.com/visioncare/clinic-portal/internal/core/ports"
)

// SessionHandler exposes the session store over HTTP.
type SessionHandler struct {
	store ports.SessionService
}

func NewSessionHandler(store ports.SessionService) *SessionHandler {
	return &SessionHandler{store: store}
}

// Login handles POST /api/v1/session.
//
// @Summary      Log in
// @Description  Checks the credential pair against the known accounts and stores the identity for this browser profile.
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/v1/session [post]
func (h *SessionHandler) Login(c echo.Context) error {
	profile, err := ctxProfile(c)
	if err != nil {
		return err
	}

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	identity, err := h.store.Login(c.Request().Context(), profile, req.Email, req.Password)
	if err != nil {
		return err
	}
	middleware.SetIdentity(c, identity)

	return c.JSON(http.StatusOK, sessionResponse{
		Authenticated: true,
		Identity:      identity,
		Landing:       policy.FallbackFor(identity.Role),
	})
}

// Current handles GET /api/v1/session.
//
// @Summary      Current session
// @Description  Returns the identity restored for this browser profile, if any.
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /api/v1/session [get]
func (h *SessionHandler) Current(c echo.Context) error {
	identity := middleware.IdentityFrom(c)
	if identity == nil {
		return c.JSON(http.StatusOK, sessionResponse{})
	}
	return c.JSON(http.StatusOK, sessionResponse{
		Authenticated: true,
		Identity:      identity,
		Landing:       policy.FallbackFor(identity.Role),
	})
}

// Logout handles DELETE /api/v1/session. Logging out twice is not an error.
//
// @Summary      Log out
// @Tags         session
// @Success      204
// @Failure      500  {object}  errorResponse
// @Router       /api/v1/session [delete]
func (h *SessionHandler) Logout(c echo.Context) error {
	profile, err := ctxProfile(c)
	if err != nil {
		return err
	}
	if err := h.store.Logout(c.Request().Context(), profile); err != nil {
		return err
	}
	middleware.SetIdentity(c, nil)
	return c.NoContent(http.StatusNoContent)
}
