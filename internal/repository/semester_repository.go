package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-scheduler-api/internal/models"
)

// SemesterRepository provides read access to semesters.
type SemesterRepository struct {
	db *sqlx.DB
}

// NewSemesterRepository creates a new semester repository.
func NewSemesterRepository(db *sqlx.DB) *SemesterRepository {
	return &SemesterRepository{db: db}
}

// List returns semesters newest first, spring before fall within a year.
func (r *SemesterRepository) List(ctx context.Context) ([]models.Semester, error) {
	const query = `SELECT id, academic_year, term, created_at FROM semesters ORDER BY academic_year DESC, CASE term WHEN 'FALL' THEN 0 ELSE 1 END ASC`
	semesters := make([]models.Semester, 0)
	if err := r.db.SelectContext(ctx, &semesters, query); err != nil {
		return nil, fmt.Errorf("list semesters: %w", err)
	}
	return semesters, nil
}

// FindByOwner resolves the semester a course instance or non-class event
// belongs to. A missing owner yields sql.ErrNoRows.
func (r *SemesterRepository) FindByOwner(ctx context.Context, owner models.MeetingOwner) (*models.Semester, error) {
	var query string
	switch owner.Kind() {
	case models.OwnerCourseInstance:
		query = `SELECT s.id, s.academic_year, s.term, s.created_at FROM semesters s JOIN course_instances ci ON ci.semester_id = s.id WHERE ci.id = $1`
	case models.OwnerNonClassEvent:
		query = `SELECT s.id, s.academic_year, s.term, s.created_at FROM semesters s JOIN non_class_events e ON e.semester_id = s.id WHERE e.id = $1`
	default:
		return nil, fmt.Errorf("find semester: unknown owner kind %q", owner.Kind())
	}

	var semester models.Semester
	if err := r.db.GetContext(ctx, &semester, query, owner.OwnerID()); err != nil {
		return nil, err
	}
	return &semester, nil
}
