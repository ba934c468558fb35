package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rorymcdaniel/temperature-checker/internal/models"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK        = "ok"
	statusWindowSet = "window_state_set"
	statusModeSet   = "mode_set"
	statusReset     = "notifications_reset"
	statusChecked   = "check_complete"

	errGetState        = "failed to load state"
	errRunCheck        = "temperature check failed"
	errInvalidBodyPref = "invalid body: "
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// Respond with a status and include current state if available (best-effort).
func (h *Handler) respondWithStatusAndState(c *gin.Context, status string, extra gin.H) {
	ctx := c.Request.Context()
	resp := gin.H{"status": status}
	for k, v := range extra {
		resp[k] = v
	}
	st, err := h.services.Monitoring.GetState(ctx)
	if err == nil {
		resp["state"] = st
	}
	c.JSON(http.StatusOK, resp)
}

// Request DTO for forcing window state.
type windowRequest struct {
	WindowState string `json:"window_state" binding:"required"` // open | closed
}

// Request DTO for forcing mode.
type modeRequest struct {
	Mode string `json:"mode" binding:"required"` // cooling | heating
}

// SetWindowRequest is an exported model for Swagger docs of the window payload.
type SetWindowRequest struct {
	// Window state to record. Allowed: open, closed
	WindowState string `json:"window_state" example:"open"`
}

// SetModeRequest is an exported model for Swagger docs of the mode payload.
type SetModeRequest struct {
	// Operating mode to set. Allowed: cooling, heating
	Mode string `json:"mode" example:"cooling"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Get application state
// @Tags         state
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/state [get]
// @Security     BearerAuth
func (h *Handler) getState(c *gin.Context) {
	ctx := c.Request.Context()
	st, err := h.services.Monitoring.GetState(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetState, "get_state_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Force window state
// @Tags         state
// @Accept       json
// @Produce      json
// @Param        body  body   SetWindowRequest  true  "Window payload"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/window [post]
// @Security     BearerAuth
func (h *Handler) setWindowState(c *gin.Context) {
	var req windowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	ctx := c.Request.Context()
	if err := h.services.Admin.SetWindowState(ctx, models.WindowState(req.WindowState)); err != nil {
		if h.log != nil {
			h.log.Errorw("set_window_state_failed", "err", err, "window_state", req.WindowState)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.respondWithStatusAndState(c, statusWindowSet, gin.H{"window_state": req.WindowState})
}

// @Summary      Force operating mode
// @Tags         state
// @Accept       json
// @Produce      json
// @Param        body  body   SetModeRequest  true  "Mode payload"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/mode [post]
// @Security     BearerAuth
func (h *Handler) setMode(c *gin.Context) {
	var req modeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	ctx := c.Request.Context()
	if err := h.services.Admin.SetMode(ctx, models.Mode(req.Mode)); err != nil {
		if h.log != nil {
			h.log.Errorw("set_mode_failed", "err", err, "mode", req.Mode)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.respondWithStatusAndState(c, statusModeSet, gin.H{"mode": req.Mode})
}

// @Summary      Reset notification history
// @Description  Clears last notification type/time so the next check may notify immediately
// @Tags         state
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/reset [post]
// @Security     BearerAuth
func (h *Handler) resetNotifications(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.services.Admin.ResetNotifications(ctx); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to reset notifications", "reset_notifications_failed", err)
		return
	}
	h.respondWithStatusAndState(c, statusReset, gin.H{})
}

// @Summary      Run a temperature check now
// @Tags         state
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/check [post]
// @Security     BearerAuth
func (h *Handler) runCheck(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.services.Checker.Run(ctx); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errRunCheck, "check_failed", err)
		return
	}
	h.respondWithStatusAndState(c, statusChecked, gin.H{})
}
