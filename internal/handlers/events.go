package handlers

import (
	"net/http"
	"strconv"

	"syringe_rig/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid   = "invalid 'from_s'; use elapsed seconds, e.g. 1.5"
	errToInvalid     = "invalid 'to_s'; use elapsed seconds, e.g. 1.5"
	errNoEventReader = "event history requires the sqlite event log"
	errListEvents    = "failed to load events"
)

// @Summary      List session events
// @Description  Events recorded by the current session, in log order. Available with the sqlite event log only.
// @Tags         motion
// @Produce      json
// @Param        stage   query   string  false  "Stage"  Enums(start,moving,end)
// @Param        phase   query   string  false  "Phase"  Enums(forward,backward)
// @Param        from_s  query   number  false  "Lower bound on elapsed seconds (inclusive)"  example(0.5)
// @Param        to_s    query   number  false  "Upper bound on elapsed seconds (inclusive)"  example(2)
// @Success      200   {object}  map[string]interface{}  "count, events"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Failure      501   {object}  map[string]string
// @Router       /api/v1/motion/events [get]
// @Security     BearerAuth
func (h *Handler) getEvents(c *gin.Context) {
	if h.services.EventLog == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": errNoEventReader})
		return
	}

	filter := service.LogFilter{
		Stage: c.Query("stage"),
		Phase: c.Query("phase"),
	}
	var ok bool
	if filter.FromS, ok = parseSeconds(c.Query("from_s")); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
		return
	}
	if filter.ToS, ok = parseSeconds(c.Query("to_s")); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
		return
	}

	events, err := h.services.EventLog.List(c.Request.Context(), filter)
	if err != nil {
		if service.IsFilterError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errListEvents, "events_list_failed", err,
			"stage", filter.Stage, "phase", filter.Phase)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"events": events,
	})
}

// parseSeconds reads an optional non-negative float. An empty string yields nil.
func parseSeconds(s string) (*float64, bool) {
	if s == "" {
		return nil, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return nil, false
	}
	return &v, true
}
