package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-scheduler-api/internal/models"
)

var scheduleViewColumns = []string{"instance_id", "course_prefix", "course_number", "is_undergraduate", "day", "start_hour", "start_minute", "end_hour", "end_minute", "room_name", "campus_name", "academic_year", "term"}

func TestCourseScheduleRepositoryListMeetingsWithPrefix(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	obs := &recordingObserver{}
	repo := NewCourseScheduleRepository(db, obs)

	rows := sqlmock.NewRows(scheduleViewColumns).
		AddRow("ci-1", "CS", "050", true, "MONDAY", 9, 0, 10, 15, "Science Center B", "Cambridge", 2024, "FALL")
	mock.ExpectQuery(regexp.QuoteMeta("FROM course_schedule_view WHERE academic_year = $1 AND term = $2 AND course_prefix = $3 ORDER BY course_number ASC")).
		WithArgs(2024, "FALL", "CS").
		WillReturnRows(rows)

	list, err := repo.ListMeetings(context.Background(), models.ScheduleFilter{Year: 2024, Term: models.TermFall, Prefix: "CS"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "050", list[0].CourseNumber)
	assert.Equal(t, 15, list[0].EndMinute)
	assert.True(t, list[0].IsUndergraduate)
	assert.Equal(t, []string{"course_schedule"}, obs.labels)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseScheduleRepositoryListMeetingsAllPrefixes(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseScheduleRepository(db, nil)

	mock.ExpectQuery(regexp.QuoteMeta("FROM course_schedule_view WHERE academic_year = $1 AND term = $2 ORDER BY course_number ASC")).
		WithArgs(2025, "SPRING").
		WillReturnRows(sqlmock.NewRows(scheduleViewColumns))

	list, err := repo.ListMeetings(context.Background(), models.ScheduleFilter{Year: 2025, Term: models.TermSpring})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NotNil(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}
