package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/course-scheduler-api/internal/models"
	appErrors "github.com/noah-isme/course-scheduler-api/pkg/errors"
)

type roomRepository interface {
	List(ctx context.Context, filter models.RoomFilter) ([]models.Room, int, error)
	FindByID(ctx context.Context, id string) (*models.Room, error)
}

type roomBookingRepository interface {
	LoadBookings(ctx context.Context, roomID string, year int, term models.Term) ([]models.Booking, error)
}

// BookingQuery selects the semester of a room booking listing.
type BookingQuery struct {
	Year int    `form:"year" validate:"required,min=1900,max=2999"`
	Term string `form:"term" validate:"required"`
}

// RoomService exposes rooms and the room booking index.
type RoomService struct {
	rooms     roomRepository
	bookings  roomBookingRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRoomService constructs a RoomService.
func NewRoomService(rooms roomRepository, bookings roomBookingRepository, validate *validator.Validate, logger *zap.Logger) *RoomService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoomService{rooms: rooms, bookings: bookings, validator: validate, logger: logger}
}

// List returns rooms with pagination metadata.
func (s *RoomService) List(ctx context.Context, filter models.RoomFilter) ([]models.Room, *models.Pagination, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 50
	}
	rooms, total, err := s.rooms.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}
	return rooms, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Get returns a room by id.
func (s *RoomService) Get(ctx context.Context, id string) (*models.Room, error) {
	room, err := s.rooms.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
	}
	return room, nil
}

// Bookings returns the meetings booked in a room for a semester, with the
// 12-hour display strings used by the room calendar.
func (s *RoomService) Bookings(ctx context.Context, roomID string, query BookingQuery) ([]models.BookingView, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking query")
	}
	term, err := models.ParseTerm(query.Term)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "term must be FALL or SPRING")
	}
	if _, err := s.Get(ctx, roomID); err != nil {
		return nil, err
	}

	bookings, err := s.bookings.LoadBookings(ctx, roomID, query.Year, term)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room bookings")
	}

	views := make([]models.BookingView, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, models.BookingView{
			Booking:      b,
			DayName:      b.Day.DisplayName(),
			StartDisplay: b.StartTime.Format12h(),
			EndDisplay:   b.EndTime.Format12h(),
		})
	}
	return views, nil
}
