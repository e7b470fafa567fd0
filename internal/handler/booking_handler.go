package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/slotwise/slotwise-api/internal/dto"
	"github.com/slotwise/slotwise-api/internal/service"
	appErrors "github.com/slotwise/slotwise-api/pkg/errors"
	"github.com/slotwise/slotwise-api/pkg/response"
)

// BookingHandler exposes the public reservation endpoint and the admin
// booking lifecycle.
type BookingHandler struct {
	bookings *service.BookingService
}

// NewBookingHandler constructs the handler.
func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// Create godoc
// @Summary Reserve a slot
// @Tags Bookings
// @Accept json
// @Produce json
// @Param id path string true "Calendar id"
// @Param payload body dto.CreateBookingRequest true "Booking payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope "Slot no longer available"
// @Router /calendars/{id}/bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.CalendarID = c.Param("id")
	booking, err := h.bookings.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, booking)
}

// Get godoc
// @Summary Get a booking
// @Tags Bookings
// @Produce json
// @Param id path string true "Booking id"
// @Success 200 {object} response.Envelope
// @Router /bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	booking, err := h.bookings.Get(c.Request.Context(), tenantFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, booking, nil)
}

// List godoc
// @Summary List a calendar's bookings
// @Tags Bookings
// @Produce json
// @Param id path string true "Calendar id"
// @Param status query string false "Filter by status"
// @Param from query string false "Earliest start (RFC3339)"
// @Param to query string false "Latest start (RFC3339)"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /calendars/{id}/bookings [get]
func (h *BookingHandler) List(c *gin.Context) {
	req, err := bookingListRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	bookings, pagination, err := h.bookings.List(c.Request.Context(), tenantFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bookings, pagination)
}

// Accept godoc
// @Summary Confirm a pending booking
// @Tags Bookings
// @Produce json
// @Param id path string true "Booking id"
// @Success 200 {object} response.Envelope
// @Router /bookings/{id}/accept [post]
func (h *BookingHandler) Accept(c *gin.Context) {
	booking, err := h.bookings.Accept(c.Request.Context(), tenantFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, booking, nil)
}

// Decline godoc
// @Summary Decline a pending booking
// @Tags Bookings
// @Accept json
// @Produce json
// @Param id path string true "Booking id"
// @Param payload body dto.TransitionBookingRequest false "Optional reason"
// @Success 200 {object} response.Envelope
// @Router /bookings/{id}/decline [post]
func (h *BookingHandler) Decline(c *gin.Context) {
	booking, err := h.bookings.Decline(c.Request.Context(), tenantFromContext(c), c.Param("id"), transitionReason(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, booking, nil)
}

// Cancel godoc
// @Summary Cancel a booking
// @Tags Bookings
// @Accept json
// @Produce json
// @Param id path string true "Booking id"
// @Param payload body dto.TransitionBookingRequest false "Optional reason"
// @Success 200 {object} response.Envelope
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	booking, err := h.bookings.Cancel(c.Request.Context(), tenantFromContext(c), c.Param("id"), transitionReason(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, booking, nil)
}

// Complete godoc
// @Summary Mark a booking as held
// @Tags Bookings
// @Produce json
// @Param id path string true "Booking id"
// @Success 200 {object} response.Envelope
// @Router /bookings/{id}/complete [post]
func (h *BookingHandler) Complete(c *gin.Context) {
	booking, err := h.bookings.Complete(c.Request.Context(), tenantFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, booking, nil)
}

// transitionReason tolerates an empty body; the reason is optional.
func transitionReason(c *gin.Context) *string {
	var req dto.TransitionBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil
	}
	return req.Reason
}

func bookingListRequest(c *gin.Context) (dto.BookingListRequest, error) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("pageSize"))
	req := dto.BookingListRequest{
		CalendarID: c.Param("id"),
		Status:     c.Query("status"),
		Page:       page,
		PageSize:   pageSize,
	}
	for _, q := range []struct {
		name string
		dest **time.Time
	}{
		{name: "from", dest: &req.From},
		{name: "to", dest: &req.To},
	} {
		raw := c.Query(q.name)
		if raw == "" {
			continue
		}
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return req, appErrors.Clone(appErrors.ErrValidation, "invalid "+q.name+" timestamp, expected RFC3339")
		}
		*q.dest = &parsed
	}
	return req, nil
}
