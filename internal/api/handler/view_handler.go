package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/visioncare/clinic-portal/internal/api/middleware"
	"github.com/visioncare/clinic-portal/internal/core/policy"
)

const viewSettings = "settings"

// ViewHandler renders view descriptors for the portal's navigable routes.
// Access control happens in the Guard middleware before these run.
type ViewHandler struct {
	table *policy.Table
}

func NewViewHandler(table *policy.Table) *ViewHandler {
	return &ViewHandler{table: table}
}

// Render returns the handler for one table route.
func (h *ViewHandler) Render(rp policy.RoutePolicy) echo.HandlerFunc {
	return func(c echo.Context) error {
		identity := middleware.IdentityFrom(c)
		resp := viewResponse{
			View:       rp.View,
			Path:       c.Request().URL.Path,
			Params:     ctxParams(c),
			Identity:   identity,
			Navigation: navigationFor(h.table, identity),
		}
		if rp.View == viewSettings && identity != nil {
			resp.SettingsTabs = policy.SettingsTabs(identity.Role)
		}
		return c.JSON(http.StatusOK, resp)
	}
}

// Login handles GET /login. Callers that already hold an identity are sent
// to their landing view.
func (h *ViewHandler) Login(c echo.Context) error {
	if identity := middleware.IdentityFrom(c); identity != nil {
		return c.Redirect(http.StatusFound, policy.FallbackFor(identity.Role))
	}
	return c.JSON(http.StatusOK, viewResponse{View: policy.ViewLogin, Path: policy.LoginPath})
}

// NotFound is the catch-all for paths outside the table.
func (h *ViewHandler) NotFound(c echo.Context) error {
	identity := middleware.IdentityFrom(c)
	return c.JSON(http.StatusNotFound, viewResponse{
		View:       policy.ViewNotFound,
		Path:       c.Request().URL.Path,
		Identity:   identity,
		Navigation: navigationFor(h.table, identity),
	})
}

// Navigate handles GET /api/v1/navigation and reports what the guard would
// do for a path without redirecting.
//
// @Summary      Evaluate a navigation
// @Description  Resolves path against the route table and returns the guard outcome for the current identity.
// @Tags         navigation
// @Produce      json
// @Param        path  query     string  true  "Path to evaluate, e.g. /finances"
// @Success      200   {object}  navigationResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/v1/navigation [get]
func (h *ViewHandler) Navigate(c echo.Context) error {
	path := c.QueryParam("path")
	if path == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "path is required")
	}

	identity := middleware.IdentityFrom(c)
	eval := h.table.Evaluate(identity, path)
	return c.JSON(http.StatusOK, navigationResponse{
		Evaluation: eval,
		Navigation: navigationFor(h.table, identity),
	})
}
