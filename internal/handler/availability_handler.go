package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/slotwise/slotwise-api/internal/service"
	"github.com/slotwise/slotwise-api/pkg/response"
)

// AvailabilityHandler exposes the public availability endpoint.
type AvailabilityHandler struct {
	availability *service.AvailabilityService
}

// NewAvailabilityHandler constructs the handler.
func NewAvailabilityHandler(availability *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability}
}

// Get godoc
// @Summary Get a calendar's bookable slots
// @Tags Availability
// @Produce json
// @Param id path string true "Calendar id"
// @Param from query string false "First local date (YYYY-MM-DD), defaults to today in the calendar's zone"
// @Param to query string false "Last local date inclusive (YYYY-MM-DD)"
// @Param days query int false "Window length in days, capped by the calendar's booking window"
// @Success 200 {object} response.Envelope
// @Router /calendars/{id}/availability [get]
func (h *AvailabilityHandler) Get(c *gin.Context) {
	days, _ := strconv.Atoi(c.Query("days"))
	window, err := h.availability.GetWindow(c.Request.Context(), c.Param("id"), c.Query("from"), c.Query("to"), days)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, window, nil)
}
