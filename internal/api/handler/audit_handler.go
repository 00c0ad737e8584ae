package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/visioncare/clinic-portal/internal/core/ports"
)

// AuditHandler serves the session audit trail shown on the logs view.
type AuditHandler struct {
	service ports.AuditService
}

func NewAuditHandler(service ports.AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

// List handles GET /api/v1/logs.
//
// @Summary      Recent session events
// @Tags         logs
// @Produce      json
// @Param        limit  query     int  false  "Maximum number of events (default 50, max 200)"
// @Success      200    {object}  logsResponse
// @Failure      400    {object}  errorResponse
// @Router       /api/v1/logs [get]
func (h *AuditHandler) List(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
		}
		limit = n
	}

	events, err := h.service.Recent(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, logsResponse{Events: events, Count: len(events)})
}
