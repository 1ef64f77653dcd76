package models

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/noah-isme/course-scheduler-api/pkg/timeofday"
)

// OwnerKind distinguishes what a meeting belongs to.
type OwnerKind string

const (
	OwnerCourseInstance OwnerKind = "COURSE_INSTANCE"
	OwnerNonClassEvent  OwnerKind = "NON_CLASS_EVENT"
)

// ErrInvalidOwner is returned when a meeting row references both or neither owner.
var ErrInvalidOwner = errors.New("meeting must belong to exactly one course instance or non-class event")

// MeetingOwner is either a CourseInstanceOwner or a NonClassEventOwner.
type MeetingOwner interface {
	Kind() OwnerKind
	OwnerID() string
	isMeetingOwner()
}

// CourseInstanceOwner attaches a meeting to a course offered in a semester.
type CourseInstanceOwner struct {
	ID string
}

func (o CourseInstanceOwner) Kind() OwnerKind { return OwnerCourseInstance }
func (o CourseInstanceOwner) OwnerID() string { return o.ID }
func (CourseInstanceOwner) isMeetingOwner()   {}

// NonClassEventOwner attaches a meeting to a non-class event such as a faculty meeting.
type NonClassEventOwner struct {
	ID string
}

func (o NonClassEventOwner) Kind() OwnerKind { return OwnerNonClassEvent }
func (o NonClassEventOwner) OwnerID() string { return o.ID }
func (NonClassEventOwner) isMeetingOwner()   {}

// OwnerFromColumns converts the two nullable foreign keys stored on a meeting
// row into an owner.
func OwnerFromColumns(courseInstanceID, nonClassEventID sql.NullString) (MeetingOwner, error) {
	switch {
	case courseInstanceID.Valid && nonClassEventID.Valid:
		return nil, ErrInvalidOwner
	case courseInstanceID.Valid && courseInstanceID.String != "":
		return CourseInstanceOwner{ID: courseInstanceID.String}, nil
	case nonClassEventID.Valid && nonClassEventID.String != "":
		return NonClassEventOwner{ID: nonClassEventID.String}, nil
	default:
		return nil, ErrInvalidOwner
	}
}

// OwnerColumns is the inverse of OwnerFromColumns.
func OwnerColumns(owner MeetingOwner) (courseInstanceID, nonClassEventID sql.NullString) {
	switch o := owner.(type) {
	case CourseInstanceOwner:
		courseInstanceID = sql.NullString{String: o.ID, Valid: true}
	case NonClassEventOwner:
		nonClassEventID = sql.NullString{String: o.ID, Valid: true}
	}
	return courseInstanceID, nonClassEventID
}

// Meeting is a weekly occurrence of a course session or non-class event.
type Meeting struct {
	ID        string
	Day       Day
	StartTime timeofday.Time
	EndTime   timeofday.Time
	RoomID    *string
	Owner     MeetingOwner
	CreatedAt time.Time
	UpdatedAt time.Time
}

type meetingJSON struct {
	ID        string         `json:"id"`
	Day       Day            `json:"day"`
	StartTime timeofday.Time `json:"start_time"`
	EndTime   timeofday.Time `json:"end_time"`
	RoomID    *string        `json:"room_id"`
	OwnerType OwnerKind      `json:"owner_type"`
	OwnerID   string         `json:"owner_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// MarshalJSON flattens the owner into owner_type and owner_id.
func (m Meeting) MarshalJSON() ([]byte, error) {
	out := meetingJSON{
		ID:        m.ID,
		Day:       m.Day,
		StartTime: m.StartTime,
		EndTime:   m.EndTime,
		RoomID:    m.RoomID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Owner != nil {
		out.OwnerType = m.Owner.Kind()
		out.OwnerID = m.Owner.OwnerID()
	}
	return json.Marshal(out)
}
