package models

import "github.com/noah-isme/course-scheduler-api/pkg/timeofday"

// Booking is one row of the room booking index: a scheduled meeting in a room.
type Booking struct {
	MeetingID string         `db:"meeting_id" json:"meeting_id"`
	RoomID    string         `db:"room_id" json:"room_id"`
	RoomName  string         `db:"room_name" json:"room_name"`
	Year      int            `db:"academic_year" json:"year"`
	Term      Term           `db:"term" json:"term"`
	Day       Day            `db:"day" json:"day"`
	StartTime timeofday.Time `db:"start_time" json:"start_time"`
	EndTime   timeofday.Time `db:"end_time" json:"end_time"`
	Title     string         `db:"meeting_title" json:"title"`
}

// BookingView decorates a booking with display strings for the calendar.
type BookingView struct {
	Booking
	DayName      string `json:"day_name"`
	StartDisplay string `json:"start_display"`
	EndDisplay   string `json:"end_display"`
}

// BookingConflictError is returned when a meeting would double-book a room.
type BookingConflictError struct {
	Message   string    `json:"message"`
	Conflicts []Booking `json:"conflicts"`
}

// Error implements the error interface for conflict errors.
func (e *BookingConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

// Details exposes the conflicting bookings to API clients.
func (e *BookingConflictError) Details() interface{} {
	if e == nil {
		return nil
	}
	return map[string]interface{}{"conflicts": e.Conflicts}
}
