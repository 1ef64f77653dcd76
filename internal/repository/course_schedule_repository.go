package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-scheduler-api/internal/models"
)

// CourseScheduleRepository reads course meetings from the course_schedule_view.
type CourseScheduleRepository struct {
	db       *sqlx.DB
	observer QueryObserver
}

// NewCourseScheduleRepository creates a schedule view repository. observer may be nil.
func NewCourseScheduleRepository(db *sqlx.DB, observer QueryObserver) *CourseScheduleRepository {
	return &CourseScheduleRepository{db: db, observer: observer}
}

// ListMeetings returns the meetings of a semester ordered by course number,
// which is the entry order inside schedule blocks.
func (r *CourseScheduleRepository) ListMeetings(ctx context.Context, filter models.ScheduleFilter) ([]models.MeetingWithContext, error) {
	defer observe(r.observer, "course_schedule", time.Now())

	query := `SELECT instance_id, course_prefix, course_number, is_undergraduate, day, start_hour, start_minute, end_hour, end_minute, room_name, campus_name, academic_year, term FROM course_schedule_view WHERE academic_year = $1 AND term = $2`
	args := []interface{}{filter.Year, filter.Term}
	if filter.Prefix != "" {
		query += fmt.Sprintf(" AND course_prefix = $%d", len(args)+1)
		args = append(args, filter.Prefix)
	}
	query += " ORDER BY course_number ASC"

	rows := make([]models.MeetingWithContext, 0)
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list schedule meetings: %w", err)
	}
	return rows, nil
}
