package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"libroflow/internal/service"
)

// DashboardHandler handles circulation statistics endpoints.
type DashboardHandler struct {
	lendingService service.LendingService
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(lendingService service.LendingService) *DashboardHandler {
	return &DashboardHandler{lendingService: lendingService}
}

// Stats godoc
// @Summary Circulation statistics
// @Description Totals are derived from current state at call time.
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.DashboardStats
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /dashboard/stats [get]
func (h *DashboardHandler) Stats(c echo.Context) error {
	stats, err := h.lendingService.DashboardStats(c.Request().Context())
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, stats)
}
