package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-scheduler-api/internal/models"
	"github.com/noah-isme/course-scheduler-api/pkg/timeofday"
)

const meetingColumns = `id, day, start_time, end_time, room_id, course_instance_id, non_class_event_id, created_at, updated_at`

type meetingRow struct {
	ID               string         `db:"id"`
	Day              models.Day     `db:"day"`
	StartTime        timeofday.Time `db:"start_time"`
	EndTime          timeofday.Time `db:"end_time"`
	RoomID           sql.NullString `db:"room_id"`
	CourseInstanceID sql.NullString `db:"course_instance_id"`
	NonClassEventID  sql.NullString `db:"non_class_event_id"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

func (row meetingRow) toModel() (*models.Meeting, error) {
	owner, err := models.OwnerFromColumns(row.CourseInstanceID, row.NonClassEventID)
	if err != nil {
		return nil, fmt.Errorf("meeting %s: %w", row.ID, err)
	}
	m := &models.Meeting{
		ID:        row.ID,
		Day:       row.Day,
		StartTime: row.StartTime,
		EndTime:   row.EndTime,
		Owner:     owner,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if row.RoomID.Valid {
		roomID := row.RoomID.String
		m.RoomID = &roomID
	}
	return m, nil
}

func rowFromModel(m *models.Meeting) meetingRow {
	ci, nce := models.OwnerColumns(m.Owner)
	row := meetingRow{
		ID:               m.ID,
		Day:              m.Day,
		StartTime:        m.StartTime,
		EndTime:          m.EndTime,
		CourseInstanceID: ci,
		NonClassEventID:  nce,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
	if m.RoomID != nil {
		row.RoomID = sql.NullString{String: *m.RoomID, Valid: true}
	}
	return row
}

// MeetingRepository provides persistence for meetings.
type MeetingRepository struct {
	db *sqlx.DB
}

// NewMeetingRepository creates a new meeting repository.
func NewMeetingRepository(db *sqlx.DB) *MeetingRepository {
	return &MeetingRepository{db: db}
}

// FindByID loads a meeting by id. A missing meeting yields sql.ErrNoRows.
func (r *MeetingRepository) FindByID(ctx context.Context, id string) (*models.Meeting, error) {
	var row meetingRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+meetingColumns+` FROM meetings WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return row.toModel()
}

// ListByOwner returns the meetings of a course instance or non-class event.
func (r *MeetingRepository) ListByOwner(ctx context.Context, owner models.MeetingOwner) ([]models.Meeting, error) {
	column := "course_instance_id"
	if owner.Kind() == models.OwnerNonClassEvent {
		column = "non_class_event_id"
	}
	query := fmt.Sprintf(`SELECT %s FROM meetings WHERE %s = $1 ORDER BY CASE day WHEN 'MONDAY' THEN 1 WHEN 'TUESDAY' THEN 2 WHEN 'WEDNESDAY' THEN 3 WHEN 'THURSDAY' THEN 4 ELSE 5 END, start_time ASC`, meetingColumns, column)

	var rows []meetingRow
	if err := r.db.SelectContext(ctx, &rows, query, owner.OwnerID()); err != nil {
		return nil, fmt.Errorf("list meetings by owner: %w", err)
	}
	meetings := make([]models.Meeting, 0, len(rows))
	for _, row := range rows {
		m, err := row.toModel()
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, *m)
	}
	return meetings, nil
}

// Create stores a new meeting. check, when not nil, runs inside the write
// transaction after the meeting's room is locked, and a non-nil result aborts
// the insert and is returned unchanged.
func (r *MeetingRepository) Create(ctx context.Context, m *models.Meeting, check func(ctx context.Context) error) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now

	const query = `INSERT INTO meetings (id, day, start_time, end_time, room_id, course_instance_id, non_class_event_id, created_at, updated_at) VALUES (:id, :day, :start_time, :end_time, :room_id, :course_instance_id, :non_class_event_id, :created_at, :updated_at)`
	return r.writeLocked(ctx, m.RoomID, check, func(tx *sqlx.Tx) error {
		if _, err := tx.NamedExecContext(ctx, query, rowFromModel(m)); err != nil {
			return fmt.Errorf("create meeting: %w", err)
		}
		return nil
	})
}

// Update changes the day, times and room of a meeting. The owner never
// changes. check behaves as in Create.
func (r *MeetingRepository) Update(ctx context.Context, m *models.Meeting, check func(ctx context.Context) error) error {
	m.UpdatedAt = time.Now().UTC()
	const query = `UPDATE meetings SET day = :day, start_time = :start_time, end_time = :end_time, room_id = :room_id, updated_at = :updated_at WHERE id = :id`
	return r.writeLocked(ctx, m.RoomID, check, func(tx *sqlx.Tx) error {
		if _, err := tx.NamedExecContext(ctx, query, rowFromModel(m)); err != nil {
			return fmt.Errorf("update meeting: %w", err)
		}
		return nil
	})
}

// writeLocked serialises writers of one room with a transaction scoped
// advisory lock, so that check sees every booking committed before it and
// no other writer of the room commits until this transaction ends.
func (r *MeetingRepository) writeLocked(ctx context.Context, roomID *string, check func(ctx context.Context) error, write func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin meeting write: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if roomID != nil {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, *roomID); err != nil {
			return fmt.Errorf("lock room %s: %w", *roomID, err)
		}
	}
	if check != nil {
		if err := check(ctx); err != nil {
			return err
		}
	}
	if err := write(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit meeting write: %w", err)
	}
	return nil
}

// Delete removes a meeting by id.
func (r *MeetingRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM meetings WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete meeting: %w", err)
	}
	return nil
}
