package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/slotwise/slotwise-api/internal/dto"
	"github.com/slotwise/slotwise-api/internal/models"
	"github.com/slotwise/slotwise-api/internal/service"
	appErrors "github.com/slotwise/slotwise-api/pkg/errors"
	"github.com/slotwise/slotwise-api/pkg/response"
)

// CalendarHandler exposes admin calendar and rule endpoints.
type CalendarHandler struct {
	calendars *service.CalendarService
}

// NewCalendarHandler constructs the handler.
func NewCalendarHandler(calendars *service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendars: calendars}
}

// List godoc
// @Summary List calendars
// @Tags Calendars
// @Produce json
// @Param status query string false "Filter by status"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /calendars [get]
func (h *CalendarHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "50"))
	filter := models.CalendarFilter{
		TenantID: tenantFromContext(c),
		Status:   models.CalendarStatus(c.Query("status")),
		Page:     page,
		PageSize: pageSize,
	}
	calendars, pagination, err := h.calendars.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, calendars, pagination)
}

// Get godoc
// @Summary Get a calendar
// @Tags Calendars
// @Produce json
// @Param id path string true "Calendar id"
// @Success 200 {object} response.Envelope
// @Router /calendars/{id} [get]
func (h *CalendarHandler) Get(c *gin.Context) {
	calendar, err := h.calendars.Get(c.Request.Context(), tenantFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, calendar, nil)
}

// Create godoc
// @Summary Create a calendar
// @Tags Calendars
// @Accept json
// @Produce json
// @Param payload body service.CreateCalendarRequest true "Calendar payload"
// @Success 201 {object} response.Envelope
// @Router /calendars [post]
func (h *CalendarHandler) Create(c *gin.Context) {
	var req service.CreateCalendarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.TenantID = tenantFromContext(c)
	calendar, err := h.calendars.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, calendar)
}

// Update godoc
// @Summary Update a calendar
// @Tags Calendars
// @Accept json
// @Produce json
// @Param id path string true "Calendar id"
// @Param payload body service.UpdateCalendarRequest true "Calendar payload"
// @Success 200 {object} response.Envelope
// @Router /calendars/{id} [put]
func (h *CalendarHandler) Update(c *gin.Context) {
	var req service.UpdateCalendarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	calendar, err := h.calendars.Update(c.Request.Context(), tenantFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, calendar, nil)
}

// Deactivate godoc
// @Summary Deactivate a calendar
// @Tags Calendars
// @Param id path string true "Calendar id"
// @Success 204
// @Router /calendars/{id} [delete]
func (h *CalendarHandler) Deactivate(c *gin.Context) {
	if err := h.calendars.Deactivate(c.Request.Context(), tenantFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListRules godoc
// @Summary List a calendar's availability rules
// @Tags Rules
// @Produce json
// @Param id path string true "Calendar id"
// @Success 200 {object} response.Envelope
// @Router /calendars/{id}/rules [get]
func (h *CalendarHandler) ListRules(c *gin.Context) {
	rules, err := h.calendars.ListRules(c.Request.Context(), tenantFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rules, nil)
}

// ReplaceRules godoc
// @Summary Replace a calendar's availability rules
// @Tags Rules
// @Accept json
// @Produce json
// @Param id path string true "Calendar id"
// @Param payload body dto.ReplaceRulesRequest true "Rule set"
// @Success 200 {object} response.Envelope
// @Router /calendars/{id}/rules [put]
func (h *CalendarHandler) ReplaceRules(c *gin.Context) {
	var req dto.ReplaceRulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	rules, err := h.calendars.ReplaceRules(c.Request.Context(), tenantFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rules, nil)
}
