package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const errLimitInvalid = "invalid 'limit': must be a positive integer"

// parseLimit reads ?limit=N; zero means "use the service default".
func parseLimit(c *gin.Context) (int, bool) {
	qs := c.Query("limit")
	if qs == "" {
		return 0, true
	}
	n, err := strconv.Atoi(qs)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// @Summary      List recent temperature readings
// @Tags         history
// @Produce      json
// @Param        limit  query  int  false  "Max rows to return (default 20, max 500)"
// @Success      200  {object}  map[string]interface{}  "count, readings"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/history/readings [get]
// @Security     BearerAuth
func (h *Handler) getReadings(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": errLimitInvalid})
		return
	}
	readings, err := h.services.History.RecentReadings(c.Request.Context(), limit)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load readings", "readings_list_failed", err, "limit", limit)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":    len(readings),
		"readings": readings,
	})
}

// @Summary      List recent notification attempts
// @Tags         history
// @Produce      json
// @Param        limit  query  int  false  "Max rows to return (default 20, max 500)"
// @Success      200  {object}  map[string]interface{}  "count, notifications"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/history/notifications [get]
// @Security     BearerAuth
func (h *Handler) getNotifications(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": errLimitInvalid})
		return
	}
	notifications, err := h.services.History.RecentNotifications(c.Request.Context(), limit)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load notifications", "notifications_list_failed", err, "limit", limit)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":         len(notifications),
		"notifications": notifications,
	})
}
