package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-scheduler-api/internal/models"
	"github.com/noah-isme/course-scheduler-api/internal/service"
	appErrors "github.com/noah-isme/course-scheduler-api/pkg/errors"
	"github.com/noah-isme/course-scheduler-api/pkg/response"
)

type meetingService interface {
	Get(ctx context.Context, id string) (*models.Meeting, error)
	ListByOwner(ctx context.Context, owner models.MeetingOwner) ([]models.Meeting, error)
	Create(ctx context.Context, owner models.MeetingOwner, req service.MeetingRequest) (*models.Meeting, error)
	Update(ctx context.Context, id string, req service.MeetingRequest) (*models.Meeting, error)
	Delete(ctx context.Context, id string) error
	CheckConflicts(ctx context.Context, req service.CheckConflictRequest) (*service.ConflictCheckResult, error)
}

// MeetingHandler exposes meeting endpoints.
type MeetingHandler struct {
	service meetingService
}

// NewMeetingHandler constructs a MeetingHandler.
func NewMeetingHandler(svc meetingService) *MeetingHandler {
	return &MeetingHandler{service: svc}
}

func courseInstanceOwner(c *gin.Context) models.MeetingOwner {
	return models.CourseInstanceOwner{ID: c.Param("id")}
}

func nonClassEventOwner(c *gin.Context) models.MeetingOwner {
	return models.NonClassEventOwner{ID: c.Param("id")}
}

// Get godoc
// @Summary Get meeting
// @Tags Meetings
// @Produce json
// @Param id path string true "Meeting ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /meetings/{id} [get]
func (h *MeetingHandler) Get(c *gin.Context) {
	meeting, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, meeting, nil)
}

// ListByCourseInstance godoc
// @Summary List meetings of a course instance
// @Tags Meetings
// @Produce json
// @Param id path string true "Course instance ID"
// @Success 200 {object} response.Envelope
// @Router /course-instances/{id}/meetings [get]
func (h *MeetingHandler) ListByCourseInstance(c *gin.Context) {
	h.list(c, courseInstanceOwner(c))
}

// ListByNonClassEvent godoc
// @Summary List meetings of a non-class event
// @Tags Meetings
// @Produce json
// @Param id path string true "Non-class event ID"
// @Success 200 {object} response.Envelope
// @Router /non-class-events/{id}/meetings [get]
func (h *MeetingHandler) ListByNonClassEvent(c *gin.Context) {
	h.list(c, nonClassEventOwner(c))
}

func (h *MeetingHandler) list(c *gin.Context, owner models.MeetingOwner) {
	meetings, err := h.service.ListByOwner(c.Request.Context(), owner)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, meetings, nil)
}

// CreateForCourseInstance godoc
// @Summary Schedule a meeting for a course instance
// @Tags Meetings
// @Accept json
// @Produce json
// @Param id path string true "Course instance ID"
// @Param payload body service.MeetingRequest true "Meeting payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /course-instances/{id}/meetings [post]
func (h *MeetingHandler) CreateForCourseInstance(c *gin.Context) {
	h.create(c, courseInstanceOwner(c))
}

// CreateForNonClassEvent godoc
// @Summary Schedule a meeting for a non-class event
// @Tags Meetings
// @Accept json
// @Produce json
// @Param id path string true "Non-class event ID"
// @Param payload body service.MeetingRequest true "Meeting payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /non-class-events/{id}/meetings [post]
func (h *MeetingHandler) CreateForNonClassEvent(c *gin.Context) {
	h.create(c, nonClassEventOwner(c))
}

func (h *MeetingHandler) create(c *gin.Context, owner models.MeetingOwner) {
	var req service.MeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload"))
		return
	}
	meeting, err := h.service.Create(c.Request.Context(), owner, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, meeting)
}

// Update godoc
// @Summary Move a meeting
// @Tags Meetings
// @Accept json
// @Produce json
// @Param id path string true "Meeting ID"
// @Param payload body service.MeetingRequest true "Meeting payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /meetings/{id} [put]
func (h *MeetingHandler) Update(c *gin.Context) {
	var req service.MeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload"))
		return
	}
	meeting, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, meeting, nil)
}

// Delete godoc
// @Summary Delete meeting
// @Tags Meetings
// @Param id path string true "Meeting ID"
// @Success 204
// @Security BearerAuth
// @Router /meetings/{id} [delete]
func (h *MeetingHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// CheckConflicts godoc
// @Summary Check room availability without saving
// @Tags Meetings
// @Accept json
// @Produce json
// @Param payload body service.CheckConflictRequest true "Proposed slot"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /meetings/conflicts [post]
func (h *MeetingHandler) CheckConflicts(c *gin.Context) {
	var req service.CheckConflictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload"))
		return
	}
	result, err := h.service.CheckConflicts(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
