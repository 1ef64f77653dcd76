package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-scheduler-api/internal/middleware"
	"github.com/noah-isme/course-scheduler-api/internal/models"
	"github.com/noah-isme/course-scheduler-api/internal/service"
	appErrors "github.com/noah-isme/course-scheduler-api/pkg/errors"
	"github.com/noah-isme/course-scheduler-api/pkg/response"
)

type scheduleService interface {
	Blocks(ctx context.Context, query service.ScheduleQuery) ([]models.ScheduleBlock, bool, error)
}

type scheduleExporter interface {
	ExportSchedule(ctx context.Context, query service.ScheduleQuery, format string) (*service.ExportFile, error)
}

// ScheduleHandler serves the weekly course schedule.
type ScheduleHandler struct {
	schedules scheduleService
	exporter  scheduleExporter
}

// NewScheduleHandler constructs handler.
func NewScheduleHandler(schedules scheduleService, exporter scheduleExporter) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules, exporter: exporter}
}

// Blocks godoc
// @Summary Weekly schedule blocks
// @Description Course meetings of a semester grouped by prefix, weekday and time slot.
// @Tags Schedules
// @Produce json
// @Param year query int true "Academic year"
// @Param term query string true "FALL or SPRING"
// @Param prefix query string false "Course prefix, e.g. CS"
// @Success 200 {object} response.Envelope
// @Router /schedules [get]
func (h *ScheduleHandler) Blocks(c *gin.Context) {
	var query service.ScheduleQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return
	}
	blocks, hit, err := h.schedules.Blocks(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, blocks, nil, middleware.ExtractMeta(c))
}

// Export godoc
// @Summary Download the weekly schedule
// @Tags Schedules
// @Produce text/csv
// @Produce application/pdf
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param year query int true "Academic year"
// @Param term query string true "FALL or SPRING"
// @Param prefix query string false "Course prefix"
// @Param format query string false "csv, pdf or xlsx" default(csv)
// @Success 200 {file} file
// @Router /schedules/export [get]
func (h *ScheduleHandler) Export(c *gin.Context) {
	var query service.ScheduleQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return
	}
	file, err := h.exporter.ExportSchedule(c.Request.Context(), query, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}
