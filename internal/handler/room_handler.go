package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-scheduler-api/internal/models"
	"github.com/noah-isme/course-scheduler-api/internal/service"
	appErrors "github.com/noah-isme/course-scheduler-api/pkg/errors"
	"github.com/noah-isme/course-scheduler-api/pkg/response"
)

type roomService interface {
	List(ctx context.Context, filter models.RoomFilter) ([]models.Room, *models.Pagination, error)
	Bookings(ctx context.Context, roomID string, query service.BookingQuery) ([]models.BookingView, error)
}

// RoomHandler exposes rooms and their booking calendars.
type RoomHandler struct {
	service roomService
}

// NewRoomHandler constructs a RoomHandler.
func NewRoomHandler(svc roomService) *RoomHandler {
	return &RoomHandler{service: svc}
}

// List godoc
// @Summary List rooms
// @Tags Rooms
// @Produce json
// @Param campusId query string false "Filter by campus"
// @Param buildingId query string false "Filter by building"
// @Param q query string false "Search room or building name"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /rooms [get]
func (h *RoomHandler) List(c *gin.Context) {
	filter := models.RoomFilter{
		CampusID:   c.Query("campusId"),
		BuildingID: c.Query("buildingId"),
		Search:     c.Query("q"),
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		filter.PageSize = limit
	}

	rooms, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rooms, pagination)
}

// Bookings godoc
// @Summary Room booking calendar
// @Description Meetings booked in the room for a semester, ordered by day and start time.
// @Tags Rooms
// @Produce json
// @Param id path string true "Room ID"
// @Param year query int true "Academic year"
// @Param term query string true "FALL or SPRING"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /rooms/{id}/bookings [get]
func (h *RoomHandler) Bookings(c *gin.Context) {
	var query service.BookingQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return
	}
	bookings, err := h.service.Bookings(c.Request.Context(), c.Param("id"), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bookings, nil)
}
