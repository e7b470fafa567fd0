package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/slotwise/slotwise-api/internal/service"
	"github.com/slotwise/slotwise-api/pkg/response"
)

// ExportHandler exposes booking export downloads.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Bookings godoc
// @Summary Export a calendar's bookings
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Calendar id"
// @Param format query string false "csv or pdf" default(csv)
// @Param status query string false "Filter by status"
// @Param from query string false "Earliest start (RFC3339)"
// @Param to query string false "Latest start (RFC3339)"
// @Success 200 {file} byte
// @Router /calendars/{id}/bookings/export [get]
func (h *ExportHandler) Bookings(c *gin.Context) {
	req, err := bookingListRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	format := service.ExportFormat(c.DefaultQuery("format", "csv"))

	result, err := h.exports.ExportBookings(c.Request.Context(), tenantFromContext(c), req, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+result.Filename)
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
