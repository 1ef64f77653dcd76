package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/course-scheduler-api/internal/models"
	"github.com/noah-isme/course-scheduler-api/internal/scheduler"
	appErrors "github.com/noah-isme/course-scheduler-api/pkg/errors"
	"github.com/noah-isme/course-scheduler-api/pkg/timeofday"
)

type meetingRepository interface {
	FindByID(ctx context.Context, id string) (*models.Meeting, error)
	ListByOwner(ctx context.Context, owner models.MeetingOwner) ([]models.Meeting, error)
	// Create and Update run check while the meeting's room is locked for
	// writing and return its error unchanged.
	Create(ctx context.Context, meeting *models.Meeting, check func(ctx context.Context) error) error
	Update(ctx context.Context, meeting *models.Meeting, check func(ctx context.Context) error) error
	Delete(ctx context.Context, id string) error
}

type meetingSemesterRepository interface {
	FindByOwner(ctx context.Context, owner models.MeetingOwner) (*models.Semester, error)
}

type meetingRoomRepository interface {
	FindByID(ctx context.Context, id string) (*models.Room, error)
}

type scheduleInvalidator interface {
	Invalidate(ctx context.Context) error
}

// MeetingRequest is the payload for creating or moving a meeting. A blank
// room id schedules the meeting without a room.
type MeetingRequest struct {
	Day       string  `json:"day" validate:"required"`
	StartTime string  `json:"start_time" validate:"required"`
	EndTime   string  `json:"end_time" validate:"required"`
	RoomID    *string `json:"room_id" validate:"omitempty,max=64"`
}

// CheckConflictRequest asks whether a slot is free without saving anything.
// MeetingID excludes an existing meeting that is being moved.
type CheckConflictRequest struct {
	Day       string `json:"day" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
	RoomID    string `json:"room_id" validate:"required,max=64"`
	Year      int    `json:"year" validate:"required,min=1900,max=2999"`
	Term      string `json:"term" validate:"required"`
	MeetingID string `json:"meeting_id" validate:"omitempty,max=64"`
}

// ConflictCheckResult reports the outcome of a dry-run availability check.
type ConflictCheckResult struct {
	Available bool             `json:"available"`
	Message   string           `json:"message,omitempty"`
	Conflicts []models.Booking `json:"conflicts"`
}

// MeetingService manages meetings and guards rooms against double booking.
type MeetingService struct {
	meetings  meetingRepository
	semesters meetingSemesterRepository
	rooms     meetingRoomRepository
	bookings  roomBookingRepository
	schedule  scheduleInvalidator
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// MeetingServiceDeps groups the collaborators of MeetingService.
type MeetingServiceDeps struct {
	Meetings  meetingRepository
	Semesters meetingSemesterRepository
	Rooms     meetingRoomRepository
	Bookings  roomBookingRepository
	Schedule  scheduleInvalidator
	Metrics   *MetricsService
}

// NewMeetingService constructs a MeetingService.
func NewMeetingService(deps MeetingServiceDeps, validate *validator.Validate, logger *zap.Logger) *MeetingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MeetingService{
		meetings:  deps.Meetings,
		semesters: deps.Semesters,
		rooms:     deps.Rooms,
		bookings:  deps.Bookings,
		schedule:  deps.Schedule,
		metrics:   deps.Metrics,
		validator: validate,
		logger:    logger,
	}
}

type meetingSlot struct {
	day    models.Day
	start  timeofday.Time
	end    timeofday.Time
	roomID *string
}

func parseSlot(day, start, end string, roomID *string) (meetingSlot, error) {
	d, err := models.ParseDay(day)
	if err != nil {
		return meetingSlot{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "day must be a weekday")
	}
	s, err := timeofday.Parse(start)
	if err != nil {
		return meetingSlot{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "start_time must be HH:MM or HH:MM:SS")
	}
	e, err := timeofday.Parse(end)
	if err != nil {
		return meetingSlot{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "end_time must be HH:MM or HH:MM:SS")
	}
	if !s.IsBefore(e) {
		return meetingSlot{}, appErrors.Wrap(scheduler.ErrInvalidTimeRange, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "start_time must be before end_time")
	}
	if roomID != nil && strings.TrimSpace(*roomID) == "" {
		roomID = nil
	}
	return meetingSlot{day: d, start: s, end: e, roomID: roomID}, nil
}

// Get returns a meeting by id.
func (s *MeetingService) Get(ctx context.Context, id string) (*models.Meeting, error) {
	meeting, err := s.meetings.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "meeting not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load meeting")
	}
	return meeting, nil
}

// ListByOwner returns the meetings of a course instance or non-class event.
func (s *MeetingService) ListByOwner(ctx context.Context, owner models.MeetingOwner) ([]models.Meeting, error) {
	if _, err := s.ownerSemester(ctx, owner); err != nil {
		return nil, err
	}
	meetings, err := s.meetings.ListByOwner(ctx, owner)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list meetings")
	}
	return meetings, nil
}

// Create schedules a new meeting for owner. A room that is already booked at
// an overlapping time yields a CONFLICT error carrying the conflicting bookings.
func (s *MeetingService) Create(ctx context.Context, owner models.MeetingOwner, req MeetingRequest) (*models.Meeting, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid meeting payload")
	}
	slot, err := parseSlot(req.Day, req.StartTime, req.EndTime, req.RoomID)
	if err != nil {
		return nil, err
	}
	semester, err := s.ownerSemester(ctx, owner)
	if err != nil {
		return nil, err
	}

	proposed := scheduler.ProposedMeeting{
		Day:    slot.day,
		Start:  slot.start,
		End:    slot.end,
		RoomID: slot.roomID,
		Year:   semester.Year,
		Term:   semester.Term,
	}
	meeting := &models.Meeting{
		Day:       slot.day,
		StartTime: slot.start,
		EndTime:   slot.end,
		RoomID:    slot.roomID,
		Owner:     owner,
	}
	if err := s.meetings.Create(ctx, meeting, s.roomCheck(proposed)); err != nil {
		return nil, writeError(err, "failed to create meeting")
	}

	s.afterWrite(ctx, "create", meeting.ID)
	return meeting, nil
}

// Update moves an existing meeting to a new day, time or room.
func (s *MeetingService) Update(ctx context.Context, id string, req MeetingRequest) (*models.Meeting, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid meeting payload")
	}
	slot, err := parseSlot(req.Day, req.StartTime, req.EndTime, req.RoomID)
	if err != nil {
		return nil, err
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	semester, err := s.ownerSemester(ctx, existing.Owner)
	if err != nil {
		return nil, err
	}

	proposed := scheduler.ProposedMeeting{
		MeetingID: existing.ID,
		Day:       slot.day,
		Start:     slot.start,
		End:       slot.end,
		RoomID:    slot.roomID,
		Year:      semester.Year,
		Term:      semester.Term,
	}
	updated := *existing
	updated.Day = slot.day
	updated.StartTime = slot.start
	updated.EndTime = slot.end
	updated.RoomID = slot.roomID
	if err := s.meetings.Update(ctx, &updated, s.roomCheck(proposed)); err != nil {
		return nil, writeError(err, "failed to update meeting")
	}

	s.afterWrite(ctx, "update", updated.ID)
	return &updated, nil
}

// Delete removes a meeting.
func (s *MeetingService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.meetings.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete meeting")
	}
	s.afterWrite(ctx, "delete", id)
	return nil
}

// CheckConflicts reports whether a slot is free without saving anything.
func (s *MeetingService) CheckConflicts(ctx context.Context, req CheckConflictRequest) (*ConflictCheckResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid conflict check payload")
	}
	term, err := models.ParseTerm(req.Term)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "term must be FALL or SPRING")
	}
	roomID := req.RoomID
	slot, err := parseSlot(req.Day, req.StartTime, req.EndTime, &roomID)
	if err != nil {
		return nil, err
	}

	proposed := scheduler.ProposedMeeting{
		MeetingID: req.MeetingID,
		Day:       slot.day,
		Start:     slot.start,
		End:       slot.end,
		RoomID:    slot.roomID,
		Year:      req.Year,
		Term:      term,
	}
	room, conflicts, err := s.findConflicts(ctx, proposed)
	if err != nil {
		return nil, err
	}

	result := &ConflictCheckResult{Available: len(conflicts) == 0, Conflicts: conflicts}
	if result.Conflicts == nil {
		result.Conflicts = []models.Booking{}
	}
	if !result.Available {
		result.Message = scheduler.ConflictMessage(room.Name, slot.day, slot.start, slot.end, conflicts)
	}
	return result, nil
}

// roomCheck defers the availability check to the repository, which runs it
// while the room is locked.
func (s *MeetingService) roomCheck(proposed scheduler.ProposedMeeting) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return s.ensureRoomAvailable(ctx, proposed)
	}
}

// writeError keeps typed errors raised by the room check and reports storage
// failures as internal errors.
func writeError(err error, message string) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

func (s *MeetingService) ensureRoomAvailable(ctx context.Context, proposed scheduler.ProposedMeeting) error {
	room, conflicts, err := s.findConflicts(ctx, proposed)
	if err != nil {
		return err
	}
	if len(conflicts) == 0 {
		return nil
	}

	message := scheduler.ConflictMessage(room.Name, proposed.Day, proposed.Start, proposed.End, conflicts)
	s.logger.Info("room booking rejected",
		zap.String("room_id", room.ID),
		zap.String("day", string(proposed.Day)),
		zap.Int("conflicts", len(conflicts)),
	)
	return appErrors.Wrap(&models.BookingConflictError{Message: message, Conflicts: conflicts}, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, message)
}

// findConflicts resolves the room and returns the bookings the proposed
// meeting collides with. A meeting without a room returns a nil room.
func (s *MeetingService) findConflicts(ctx context.Context, proposed scheduler.ProposedMeeting) (*models.Room, []models.Booking, error) {
	if proposed.RoomID == nil {
		return nil, nil, nil
	}

	room, err := s.rooms.FindByID(ctx, *proposed.RoomID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
	}

	existing, err := s.bookings.LoadBookings(ctx, room.ID, proposed.Year, proposed.Term)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room bookings")
	}

	conflicts, err := scheduler.CheckConflicts(proposed, existing)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	s.metrics.RecordConflictCheck(len(conflicts) > 0)
	return room, conflicts, nil
}

func (s *MeetingService) ownerSemester(ctx context.Context, owner models.MeetingOwner) (*models.Semester, error) {
	if owner == nil || owner.OwnerID() == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, models.ErrInvalidOwner.Error())
	}
	semester, err := s.semesters.FindByOwner(ctx, owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if owner.Kind() == models.OwnerNonClassEvent {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "non-class event not found")
			}
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course instance not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve semester")
	}
	return semester, nil
}

func (s *MeetingService) afterWrite(ctx context.Context, operation, meetingID string) {
	s.metrics.RecordMeetingWrite(operation)
	if s.schedule != nil {
		if err := s.schedule.Invalidate(ctx); err != nil {
			s.logger.Warn("schedule cache invalidation failed", zap.String("meeting_id", meetingID), zap.Error(err))
		}
	}
	s.logger.Info("meeting "+operation+"d", zap.String("meeting_id", meetingID))
}
