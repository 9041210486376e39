package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/suteetoe/quoteflow/internal/middleware"
)

type DashboardHandler struct {
	dashboard DashboardService
}

func NewDashboardHandler(dashboard DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Stats handles GET /api/dashboard/stats
func (h *DashboardHandler) Stats(c echo.Context) error {
	stats, err := h.dashboard.Stats(c.Request().Context(), middleware.MerchantID(c))
	if err != nil {
		return respondError(c, err, "Failed to load dashboard stats")
	}
	return c.JSON(http.StatusOK, stats)
}
