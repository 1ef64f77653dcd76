// Package scheduler holds the pure scheduling rules: room booking conflicts
// and the weekly schedule block aggregation. Nothing here performs I/O.
package scheduler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/noah-isme/course-scheduler-api/internal/models"
	"github.com/noah-isme/course-scheduler-api/pkg/timeofday"
)

// ErrInvalidTimeRange is returned when a meeting does not start before it ends.
var ErrInvalidTimeRange = errors.New("start time must be before end time")

// ProposedMeeting is a meeting about to be created or moved.
type ProposedMeeting struct {
	// MeetingID is set when an existing meeting is being edited so that it is
	// not reported as conflicting with itself.
	MeetingID string
	Day       models.Day
	Start     timeofday.Time
	End       timeofday.Time
	RoomID    *string
	Year      int
	Term      models.Term
}

// Overlaps reports whether [s1,e1) and [s2,e2) share any instant. Ranges that
// only touch at an endpoint do not overlap.
func Overlaps(s1, e1, s2, e2 timeofday.Time) bool {
	return s1.IsBefore(e2) && s2.IsBefore(e1)
}

// CheckConflicts returns every booking that the proposed meeting would
// collide with: same room, year, term and day with overlapping times.
// Meetings without a room never conflict.
func CheckConflicts(proposed ProposedMeeting, existing []models.Booking) ([]models.Booking, error) {
	if proposed.RoomID == nil {
		return nil, nil
	}
	if !proposed.Start.IsBefore(proposed.End) {
		return nil, ErrInvalidTimeRange
	}

	var conflicts []models.Booking
	for _, b := range existing {
		if proposed.MeetingID != "" && b.MeetingID == proposed.MeetingID {
			continue
		}
		if b.RoomID != *proposed.RoomID || b.Year != proposed.Year || b.Term != proposed.Term || b.Day != proposed.Day {
			continue
		}
		if Overlaps(proposed.Start, proposed.End, b.StartTime, b.EndTime) {
			conflicts = append(conflicts, b)
		}
	}
	return conflicts, nil
}

// ConflictMessage renders the message shown to the administrator when a
// booking is rejected.
func ConflictMessage(roomName string, day models.Day, start, end timeofday.Time, conflicts []models.Booking) string {
	titles := make([]string, 0, len(conflicts))
	for _, c := range conflicts {
		titles = append(titles, c.Title)
	}
	return fmt.Sprintf("%s is not available on %s between %s - %s. CONFLICTS WITH: %s",
		roomName,
		day.DisplayName(),
		start.Format12h(),
		end.Format12h(),
		strings.Join(titles, ", "),
	)
}
