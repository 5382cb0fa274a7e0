package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK              = "ok"
	statusStopRequested   = "stop_requested"
	statusAlreadyStopping = "already_stopping"

	errGetStatus  = "failed to load status"
	remoteStopMsg = "remote stop"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// Respond with a status and include the current snapshot if available (best-effort).
func (h *Handler) respondWithStatusAndState(c *gin.Context, status string) {
	resp := gin.H{"status": status}
	st, err := h.services.Monitoring.GetState(c.Request.Context())
	if err == nil {
		resp["state"] = st
	}
	c.JSON(http.StatusOK, resp)
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

// @Summary      Motion status
// @Description  Snapshot of the running session: phase, stage, target, cycles and event count.
// @Tags         motion
// @Produce      json
// @Success      200  {object}  models.MotionStatus
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/motion/status [get]
// @Security     BearerAuth
func (h *Handler) getStatus(c *gin.Context) {
	st, err := h.services.Monitoring.GetState(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetStatus, "motion_get_status_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Stop motion
// @Description  Requests a cooperative stop. The loop honours it at its next poll point, then parks and disables the motors.
// @Tags         motion
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, state"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/motion/stop [post]
// @Security     BearerAuth
func (h *Handler) stopMotion(c *gin.Context) {
	if !h.services.Request(remoteStopMsg) {
		h.respondWithStatusAndState(c, statusAlreadyStopping)
		return
	}
	if h.log != nil {
		h.log.Infow("motion_remote_stop", "operator", c.GetString(operatorCtx), "remote", c.ClientIP())
	}
	h.respondWithStatusAndState(c, statusStopRequested)
}
