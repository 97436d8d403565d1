package api

import (
	"net/http"
	"strconv"

	"restore-scheduler/internal/domain/schedule"
	resdto "restore-scheduler/internal/handler/dto/response"
	"restore-scheduler/internal/handler/httperr"
	"restore-scheduler/internal/pkg/errs"
	"restore-scheduler/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	availability queries.AvailabilityQueries
}

func NewAvailabilityHandler(availability queries.AvailabilityQueries) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability}
}

// @Summary Query available slots
// @Description Find the earliest free slots for the requested duration
// @Tags availability
// @Produce json
// @Param duration query int false "Number of slot-units requested" default(1)
// @Success 200 {array} resdto.SlotResponse
// @Failure 400 {object} httperr.Response
// @Router /availability [get]
func (h *AvailabilityHandler) GetAvailability(c *gin.Context) {
	duration := 1
	if durationStr := c.Query("duration"); durationStr != "" {
		parsed, err := strconv.Atoi(durationStr)
		if err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid duration", nil)
			return
		}
		if parsed < 1 || parsed > schedule.MaxBookableSlots() {
			httperr.AbortWithError(c, http.StatusBadRequest,
				errs.New("duration out of range"), "Invalid duration", nil)
			return
		}
		duration = parsed
	}

	slots, err := h.availability.FindAvailableSlots(c.Request.Context(), duration)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromSlots(slots))
}
