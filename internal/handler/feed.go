package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/aroy/employee-dashboard/internal/feed"
)

// FeedHandler serves in-memory CSV snapshots as JSON.
type FeedHandler struct {
	Store *feed.Store
}

func NewFeedHandler(store *feed.Store) *FeedHandler {
	return &FeedHandler{Store: store}
}

// Get returns the current row list for a feed name. Unknown names and
// feeds whose file never parsed both 404: from the caller's point of
// view there is no such feed either way. The snapshot's generation is
// exposed so pollers can detect whether anything changed.
func (h *FeedHandler) Get(c echo.Context) error {
	name := c.Param("feedName")
	rows, gen, ok := h.Store.Get(name)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "File not found"})
	}
	c.Response().Header().Set("X-Feed-Generation", strconv.FormatUint(gen, 10))
	return c.JSON(http.StatusOK, rows)
}
