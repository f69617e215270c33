package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aroy/employee-dashboard/internal/dashboard"
)

// DashboardHandler serves the aggregated summary built by the poller.
type DashboardHandler struct {
	Poller *dashboard.Poller
}

func NewDashboardHandler(p *dashboard.Poller) *DashboardHandler {
	return &DashboardHandler{Poller: p}
}

// Overview returns the full summary: per-employee records, grand total
// hours and the chart counts.
func (h *DashboardHandler) Overview(c echo.Context) error {
	s := h.Poller.Summary()
	if s == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "feed data not loaded yet"})
	}
	return c.JSON(http.StatusOK, s)
}

// Projects returns the per-project view: one record per company with its
// manager, status and assigned employee names, plus the distinct employee
// counts that feed the chart.
func (h *DashboardHandler) Projects(c echo.Context) error {
	s := h.Poller.Summary()
	if s == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "feed data not loaded yet"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"projects":      s.Projects,
		"projectCounts": s.ProjectCounts,
		"generations":   s.Generations,
	})
}
